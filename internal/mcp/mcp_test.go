package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/pixellab-mcp/internal/assets"
	"github.com/bobmcallan/pixellab-mcp/internal/common"
	"github.com/bobmcallan/pixellab-mcp/internal/pixellab"
)

// --- Helpers ---

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

// recordedRequest is one request received by the fake PixelLab API.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// apiStub is a fake PixelLab API that records every request.
type apiStub struct {
	*httptest.Server
	calls atomic.Int64

	mu       sync.Mutex
	requests []recordedRequest
}

func newAPIStubFunc(t *testing.T, h http.HandlerFunc) *apiStub {
	t.Helper()
	stub := &apiStub{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		json.Unmarshal(raw, &body)

		stub.mu.Lock()
		stub.requests = append(stub.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		stub.mu.Unlock()

		h(w, r)
	}))
	t.Cleanup(stub.Close)
	return stub
}

// newAPIStub answers every request with status and a JSON body.
func newAPIStub(t *testing.T, status int, body string) *apiStub {
	return newAPIStubFunc(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func (s *apiStub) last(t *testing.T) recordedRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("expected at least one API request")
	}
	return s.requests[len(s.requests)-1]
}

func newTestHandlers(t *testing.T, baseURL string) *Handlers {
	t.Helper()
	client := pixellab.NewClient(baseURL, "test-key", testLogger())
	store := assets.NewStore(t.TempDir(), 0, testLogger())
	return NewHandlers(client, store, testLogger())
}

func newTestRegistry(t *testing.T, baseURL string) *Registry {
	t.Helper()
	r := NewRegistry(testLogger())
	newTestHandlers(t, baseURL).Register(r)
	return r
}

func dispatch(t *testing.T, r *Registry, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return r.Dispatch(t.Context(), request)
}

// resultText joins every text block of a result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("expected a result, got nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("expected at least one content entry")
	}
	var parts []string
	for _, c := range result.Content {
		tc, ok := c.(mcp.TextContent)
		if !ok {
			t.Fatalf("expected TextContent, got %T", c)
		}
		parts = append(parts, tc.Text)
	}
	return strings.Join(parts, "\n")
}

// testPNG returns a base64 PNG of a 2x2 red square.
func testPNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *server.MCPServer) []mcp.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolsResult mcp.ListToolsResult
	if err := json.Unmarshal(resultJSON, &toolsResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}
	return toolsResult.Tools
}

// messageHandler is satisfied by both *server.MCPServer and *Protocol.
type messageHandler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
}

// callTool sends tools/call to s and returns the raw JSON-RPC message.
func callTool(t *testing.T, s messageHandler, name string, args map[string]any) mcp.JSONRPCMessage {
	t.Helper()

	params := map[string]any{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	return s.HandleMessage(t.Context(), msg)
}

// extractText extracts the first text block from a tools/call response.
func extractText(t *testing.T, msg mcp.JSONRPCMessage) (string, bool) {
	t.Helper()
	resp, ok := msg.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", msg)
	}
	resultJSON, _ := json.Marshal(resp.Result)
	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].Text, result.IsError
}

// --- MCP server integration ---

func TestNewServer_ListsFullCatalogue(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{}`)
	s := NewServer("pixelLab-mcp-server", newTestRegistry(t, stub.URL))

	tools := listTools(t, s)
	if len(tools) != len(expectedTools) {
		t.Fatalf("expected %d tools, got %d", len(expectedTools), len(tools))
	}
	seen := map[string]bool{}
	for _, tool := range tools {
		seen[tool.Name] = true
	}
	for _, name := range expectedTools {
		if !seen[name] {
			t.Errorf("tool %q missing from tools/list", name)
		}
	}
	if stub.calls.Load() != 0 {
		t.Errorf("listing tools must not call the API, got %d calls", stub.calls.Load())
	}
}

func TestNewServer_CallToolEndToEnd(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{"character_id":"C1","background_job_id":"J1"}`)
	s := NewServer("pixelLab-mcp-server", newTestRegistry(t, stub.URL))

	text, isError := extractText(t, callTool(t, s, "create_character", map[string]any{
		"description": "a cute robot knight",
	}))
	if isError {
		t.Fatalf("expected success, got error: %s", text)
	}
	if !strings.Contains(text, "C1") || !strings.Contains(text, "J1") {
		t.Errorf("expected both ids in %q", text)
	}
}

func TestHandler_ServesStreamableHTTP(t *testing.T) {
	stub := newAPIStub(t, http.StatusOK, `{}`)
	registry := newTestRegistry(t, stub.URL)
	h := NewHandler(newTestProtocol(registry), testLogger())

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "create_image_pixflux") {
		t.Errorf("expected tool list in response, got %s", rec.Body.String())
	}
}
