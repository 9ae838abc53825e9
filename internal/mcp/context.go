package mcp

import (
	"context"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

// callContextKey is the context key for per-call metadata.
type callContextKey struct{}

// CallContext identifies one tool invocation for logging.
type CallContext struct {
	CorrelationID string
	Tool          string
	Logger        *common.Logger
}

// WithCallContext returns a new context with the given CallContext attached.
func WithCallContext(ctx context.Context, cc CallContext) context.Context {
	return context.WithValue(ctx, callContextKey{}, cc)
}

// GetCallContext extracts the CallContext from the context, if present.
func GetCallContext(ctx context.Context) (CallContext, bool) {
	if ctx == nil {
		return CallContext{}, false
	}
	cc, ok := ctx.Value(callContextKey{}).(CallContext)
	return cc, ok
}

// callLogger returns the call-scoped logger, or fallback outside a dispatch.
func callLogger(ctx context.Context, fallback *common.Logger) *common.Logger {
	if cc, ok := GetCallContext(ctx); ok && cc.Logger != nil {
		return cc.Logger
	}
	return fallback
}
