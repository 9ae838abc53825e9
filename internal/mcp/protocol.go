package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

// Protocol fronts an MCPServer so tool calls answer with the JSON-RPC codes
// of the failure: METHOD_NOT_FOUND for an unknown tool and the ToolError's
// own code for rejected arguments. mcp-go alone reports the first as
// INVALID_PARAMS and every handler error as INTERNAL_ERROR.
type Protocol struct {
	server   *server.MCPServer
	registry *Registry
	logger   *common.Logger
}

// NewProtocol wraps s, whose tools must come from registry.
func NewProtocol(s *server.MCPServer, registry *Registry, logger *common.Logger) *Protocol {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Protocol{server: s, registry: registry, logger: logger}
}

// Server returns the wrapped MCPServer.
func (p *Protocol) Server() *server.MCPServer {
	return p.server
}

// toolCallEnvelope is the part of a tools/call request read before dispatch.
type toolCallEnvelope struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  mcp.MCPMethod `json:"method"`
	ID      any           `json:"id,omitempty"`
	Params  struct {
		Name string `json:"name"`
	} `json:"params"`
}

// parseToolCall reports whether message is a well-formed tools/call request.
func parseToolCall(message json.RawMessage) (toolCallEnvelope, bool) {
	var env toolCallEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return env, false
	}
	ok := env.JSONRPC == mcp.JSONRPC_VERSION && env.Method == mcp.MethodToolsCall && env.ID != nil
	return env, ok
}

// HandleMessage processes one JSON-RPC message. It returns nil for notifications.
func (p *Protocol) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	env, ok := parseToolCall(message)
	if !ok {
		return p.server.HandleMessage(ctx, message)
	}

	if !p.registry.Has(env.Params.Name) {
		p.logger.Warn().Str("tool", env.Params.Name).Msg("unknown tool requested")
		return mcp.NewJSONRPCError(mcp.NewRequestId(env.ID), mcp.METHOD_NOT_FOUND,
			methodNotFound(env.Params.Name).Error(), nil)
	}

	slot := &toolErrorSlot{}
	response := p.server.HandleMessage(withToolErrorSlot(ctx, slot), message)
	if rpcErr, isErr := response.(mcp.JSONRPCError); isErr && slot.err != nil {
		rpcErr.Error.Code = slot.err.Code
		rpcErr.Error.Message = slot.err.Message
		return rpcErr
	}
	return response
}
