package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestProtocol(registry *Registry) *Protocol {
	return NewProtocol(NewServer("pixelLab-mcp-server", registry), registry, testLogger())
}

// rpcError asserts msg is a JSON-RPC error and returns its details.
func rpcError(t *testing.T, msg mcp.JSONRPCMessage) mcp.JSONRPCErrorDetails {
	t.Helper()
	rpcErr, ok := msg.(mcp.JSONRPCError)
	if !ok {
		t.Fatalf("expected JSONRPCError, got %T", msg)
	}
	return rpcErr.Error
}

func TestProtocol_ValidationErrorKeepsInvalidParams(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{}`)
	p := newTestProtocol(newTestRegistry(t, stub.URL))

	detail := rpcError(t, callTool(t, p, "create_character", map[string]any{}))
	if detail.Code != mcp.INVALID_PARAMS {
		t.Errorf("expected code %d, got %d", mcp.INVALID_PARAMS, detail.Code)
	}
	if detail.Message != "description is required" {
		t.Errorf("unexpected message %q", detail.Message)
	}
	if stub.calls.Load() != 0 {
		t.Errorf("expected no API calls, got %d", stub.calls.Load())
	}
}

func TestProtocol_UnknownToolIsMethodNotFound(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{}`)
	p := newTestProtocol(newTestRegistry(t, stub.URL))

	detail := rpcError(t, callTool(t, p, "make_coffee", map[string]any{}))
	if detail.Code != mcp.METHOD_NOT_FOUND {
		t.Errorf("expected code %d, got %d", mcp.METHOD_NOT_FOUND, detail.Code)
	}
	if detail.Message != "Unknown tool: make_coffee" {
		t.Errorf("unexpected message %q", detail.Message)
	}
	if stub.calls.Load() != 0 {
		t.Errorf("expected no API calls, got %d", stub.calls.Load())
	}
}

func TestProtocol_KeepsRequestID(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{}`)
	p := newTestProtocol(newTestRegistry(t, stub.URL))

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":"abc","method":"tools/call","params":{"name":"make_coffee"}}`)
	rpcErr, ok := p.HandleMessage(t.Context(), msg).(mcp.JSONRPCError)
	if !ok {
		t.Fatal("expected JSONRPCError")
	}
	if got := rpcErr.ID.Value(); got != "abc" {
		t.Errorf("expected id abc, got %v", got)
	}
}

func TestProtocol_SuccessPassesThrough(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{"credits": 12.5}`)
	p := newTestProtocol(newTestRegistry(t, stub.URL))

	text, isError := extractText(t, callTool(t, p, "get_balance", map[string]any{}))
	if isError {
		t.Fatalf("expected success, got error: %s", text)
	}
	if !strings.Contains(text, "**Credits:** 12.5") {
		t.Errorf("expected balance in %q", text)
	}
}

func TestProtocol_OtherMethodsDelegate(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{}`)
	p := newTestProtocol(newTestRegistry(t, stub.URL))

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	if _, ok := p.HandleMessage(t.Context(), msg).(mcp.JSONRPCResponse); !ok {
		t.Fatal("expected ping to be answered by the server")
	}

	note := json.RawMessage(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if resp := p.HandleMessage(t.Context(), note); resp != nil {
		t.Errorf("expected no response to a notification, got %T", resp)
	}
}

func TestHandler_ToolCallErrorCodes(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{}`)
	h := NewHandler(newTestProtocol(newTestRegistry(t, stub.URL)), testLogger())

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{
			name:    "unknown tool",
			body:    `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"make_coffee","arguments":{}}}`,
			code:    mcp.METHOD_NOT_FOUND,
			message: "Unknown tool: make_coffee",
		},
		{
			name:    "missing argument",
			body:    `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"create_character","arguments":{}}}`,
			code:    mcp.INVALID_PARAMS,
			message: "description is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json, text/event-stream")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Error struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Error.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, resp.Error.Code)
			}
			if resp.Error.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, resp.Error.Message)
			}
		})
	}
	if stub.calls.Load() != 0 {
		t.Errorf("expected no API calls, got %d", stub.calls.Load())
	}
}
