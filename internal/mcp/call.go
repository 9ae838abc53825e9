package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/pixellab-mcp/internal/pixellab"
)

// remoteCall describes the single PixelLab request a tool makes and how a
// successful response is rendered.
type remoteCall struct {
	label  string // operation name used in failure messages
	method string
	path   string
	body   any
	opts   []pixellab.RequestOption

	// accept decides which responses are rendered; nil means 2xx only.
	accept func(*pixellab.Response) bool
	render func(resp *pixellab.Response, body any) *mcp.CallToolResult
}

// execute performs call and normalizes the outcome. Transport failures are
// returned as errors wrapping pixellab.ErrTransport; any HTTP response
// becomes a tool result.
func (h *Handlers) execute(ctx context.Context, call remoteCall) (*mcp.CallToolResult, error) {
	logger := callLogger(ctx, h.logger)
	opts := append([]pixellab.RequestOption{pixellab.WithLogger(logger)}, call.opts...)

	resp, err := h.client.Do(ctx, call.method, call.path, call.body, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.label, err)
	}

	accepted := resp.OK()
	if call.accept != nil {
		accepted = call.accept(resp)
	}
	if !accepted {
		logger.Warn().
			Str("operation", call.label).
			Int("status_code", resp.StatusCode).
			Str("message", resp.ErrorMessage()).
			Msg("PixelLab call failed")
		return failureResult(call.label, resp), nil
	}
	return call.render(resp, resp.Value()), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// failureResult reports a non-2xx response with the provider's message.
func failureResult(label string, resp *pixellab.Response) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("%s failed (HTTP %d): %s", label, resp.StatusCode, resp.ErrorMessage()))
}

// unconfirmedResult reports a 2xx response missing the fields that confirm
// success, with the raw body for diagnosis.
func unconfirmedResult(label string, resp *pixellab.Response) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("%s returned an unexpected response (HTTP %d):\n\n```json\n%s\n```",
		label, resp.StatusCode, resp.Pretty()))
}
