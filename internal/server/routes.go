package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over streamable HTTP)
	mux.Handle("/mcp", s.app.MCPHandler)

	mux.Handle("/health", s.app.HealthHandler)
	mux.Handle("/health/upstream", s.app.UpstreamHealthHandler)
	mux.Handle("/version", s.app.VersionHandler)
	mux.Handle("/tools", s.app.ToolsHandler)

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
