package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

// NewServer creates an MCP server exposing every tool in registry.
func NewServer(name string, registry *Registry) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	registry.Attach(s)
	return s
}

// Handler is the HTTP handler for the MCP endpoint.
// Single tools/call requests are answered through the Protocol; everything
// else goes to mcp-go's StreamableHTTPServer.
type Handler struct {
	protocol   *Protocol
	streamable *server.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a stateless streamable-HTTP handler for protocol.
func NewHandler(protocol *Protocol, logger *common.Logger) *Handler {
	streamable := server.NewStreamableHTTPServer(protocol.Server(),
		server.WithStateLess(true),
	)

	logger.Info().
		Int("tools", protocol.registry.Len()).
		Msg("MCP handler initialized")

	return &Handler{
		protocol:   protocol,
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP answers tools/call itself and delegates the rest.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.streamable.ServeHTTP(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if _, isCall := parseToolCall(body); !isCall {
		h.streamable.ServeHTTP(w, r)
		return
	}

	response := h.protocol.HandleMessage(r.Context(), body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error().Err(err).Msg("failed to write tools/call response")
	}
}
