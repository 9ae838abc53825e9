// Package mcp exposes the PixelLab API as a catalogue of MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

type registeredTool struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// Registry maps tool names to their definition and handler. The catalogue
// and dispatch table are the same table.
type Registry struct {
	tools  []registeredTool
	index  map[string]int
	logger *common.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *common.Logger) *Registry {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Registry{
		index:  make(map[string]int),
		logger: logger,
	}
}

// Register adds a tool. It panics on an empty or duplicate name.
func (r *Registry) Register(tool mcp.Tool, handler server.ToolHandlerFunc) {
	if tool.Name == "" {
		panic("mcp: tool registered with empty name")
	}
	if handler == nil {
		panic(fmt.Sprintf("mcp: tool %q registered without a handler", tool.Name))
	}
	if _, dup := r.index[tool.Name]; dup {
		panic(fmt.Sprintf("mcp: tool %q registered twice", tool.Name))
	}
	r.index[tool.Name] = len(r.tools)
	r.tools = append(r.tools, registeredTool{tool: tool, handler: handler})
}

// Dispatch routes a request to exactly one handler. An unknown name fails
// with METHOD_NOT_FOUND and no handler runs.
func (r *Registry) Dispatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.Params.Name
	i, ok := r.index[name]
	if !ok {
		r.logger.Warn().Str("tool", name).Msg("unknown tool requested")
		return nil, methodNotFound(name)
	}

	correlationID := uuid.New().String()
	logger := r.logger.WithCorrelationId(correlationID)
	ctx = WithCallContext(ctx, CallContext{
		CorrelationID: correlationID,
		Tool:          name,
		Logger:        logger,
	})

	start := time.Now()
	result, err := r.tools[i].handler(ctx, request)
	duration := time.Since(start)

	var toolErr *ToolError
	switch {
	case errors.As(err, &toolErr):
		recordToolError(ctx, toolErr)
		logger.Warn().Str("tool", name).Int("code", toolErr.Code).Str("error", toolErr.Message).Msg("tool call rejected")
	case err != nil:
		logger.Error().Str("tool", name).Err(err).Dur("duration", duration).Msg("tool call failed")
	case result != nil && result.IsError:
		logger.Warn().Str("tool", name).Dur("duration", duration).Msg("tool call returned error result")
	default:
		logger.Info().Str("tool", name).Dur("duration", duration).Msg("tool call completed")
	}
	return result, err
}

// Tools returns the catalogue in registration order.
func (r *Registry) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(r.tools))
	for i, rt := range r.tools {
		out[i] = rt.tool
	}
	return out
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, rt := range r.tools {
		names = append(names, rt.tool.Name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a tool named name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Attach registers every tool on s, routing calls through Dispatch.
func (r *Registry) Attach(s *server.MCPServer) {
	for _, rt := range r.tools {
		s.AddTool(rt.tool, r.Dispatch)
	}
}
