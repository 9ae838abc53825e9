// Package handlers serves the operational HTTP routes next to the MCP endpoint.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/pixellab-mcp/internal/cache"
	"github.com/bobmcallan/pixellab-mcp/internal/common"
	"github.com/bobmcallan/pixellab-mcp/internal/pixellab"
)

const (
	// upstreamTimeout bounds the PixelLab reachability probe.
	upstreamTimeout = 5 * time.Second
	// upstreamCacheTTL is how long a probe outcome is reused.
	upstreamCacheTTL = 15 * time.Second
)

// HealthHandler handles liveness checks.
type HealthHandler struct {
	logger *common.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UpstreamHealthHandler probes the PixelLab API with the configured key.
// Probe outcomes are reused for upstreamCacheTTL.
type UpstreamHealthHandler struct {
	logger *common.Logger
	client *pixellab.Client
	probes *cache.Cache[upstreamStatus]
}

// upstreamStatus is one probe outcome as served to the caller.
type upstreamStatus struct {
	code int
	body map[string]any
}

// NewUpstreamHealthHandler creates a handler probing client.
func NewUpstreamHealthHandler(logger *common.Logger, client *pixellab.Client) *UpstreamHealthHandler {
	return &UpstreamHealthHandler{
		logger: logger,
		client: client,
		probes: cache.New[upstreamStatus](upstreamCacheTTL, 1),
	}
}

// ServeHTTP handles GET /health/upstream. The balance endpoint is cheap and
// authenticated, so it checks reachability and the key together.
func (h *UpstreamHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status, ok := h.probes.Get(h.client.BaseURL())
	if !ok {
		// The outcome is shared with later callers, so a client hanging up
		// must not cut the probe short.
		status = h.probe(context.WithoutCancel(r.Context()))
		h.probes.Set(h.client.BaseURL(), status)
	}
	WriteJSON(w, status.code, status.body)
}

func (h *UpstreamHealthHandler) probe(ctx context.Context) upstreamStatus {
	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	resp, err := h.client.Get(ctx, "/balance")
	switch {
	case err != nil:
		h.logger.Warn().Str("base_url", h.client.BaseURL()).Err(err).Msg("PixelLab unreachable")
		return upstreamStatus{http.StatusServiceUnavailable, map[string]any{"status": "down"}}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		h.logger.Warn().Int("status_code", resp.StatusCode).Msg("PixelLab rejected the API key")
		return upstreamStatus{http.StatusServiceUnavailable, map[string]any{"status": "unauthorized"}}
	case resp.OK():
		return upstreamStatus{http.StatusOK, map[string]any{"status": "ok"}}
	default:
		return upstreamStatus{http.StatusServiceUnavailable, map[string]any{
			"status":      "degraded",
			"status_code": resp.StatusCode,
		}}
	}
}
