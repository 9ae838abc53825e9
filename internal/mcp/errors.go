package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolError is a protocol-level failure raised before any remote call.
// It carries a JSON-RPC error code.
type ToolError struct {
	Code    int
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

func invalidParams(format string, args ...any) error {
	return &ToolError{Code: mcp.INVALID_PARAMS, Message: fmt.Sprintf(format, args...)}
}

func methodNotFound(name string) error {
	return &ToolError{Code: mcp.METHOD_NOT_FOUND, Message: fmt.Sprintf("Unknown tool: %s", name)}
}

// toolErrorSlot carries a handler's ToolError past mcp-go, which keeps only
// the message.
type toolErrorSlot struct {
	err *ToolError
}

type toolErrorSlotKey struct{}

func withToolErrorSlot(ctx context.Context, slot *toolErrorSlot) context.Context {
	return context.WithValue(ctx, toolErrorSlotKey{}, slot)
}

func recordToolError(ctx context.Context, err *ToolError) {
	if slot, ok := ctx.Value(toolErrorSlotKey{}).(*toolErrorSlot); ok {
		slot.err = err
	}
}
