package mcp

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Argument validation. Every failure is an INVALID_PARAMS ToolError naming
// the field; handlers call these before building the remote request.

func argument(request mcp.CallToolRequest, key string) (any, bool) {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requireString(request mcp.CallToolRequest, key string) (string, error) {
	v, ok := argument(request, key)
	if !ok {
		return "", invalidParams("%s is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidParams("%s must be a string", key)
	}
	if strings.TrimSpace(s) == "" {
		return "", invalidParams("%s must not be empty", key)
	}
	return s, nil
}

// optionalString returns defaultVal when the key is absent or empty.
func optionalString(request mcp.CallToolRequest, key, defaultVal string) (string, error) {
	v, ok := argument(request, key)
	if !ok {
		return defaultVal, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidParams("%s must be a string", key)
	}
	if s == "" {
		return defaultVal, nil
	}
	return s, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// optionalNumber applies defaultVal when absent and rejects values outside
// [min, max]. An explicit zero is kept.
func optionalNumber(request mcp.CallToolRequest, key string, defaultVal, min, max float64) (float64, error) {
	v, ok := argument(request, key)
	if !ok {
		return defaultVal, nil
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidParams("%s must be a number", key)
	}
	if f < min || f > max {
		return 0, invalidParams("%s must be between %g and %g, got %g", key, min, max, f)
	}
	return f, nil
}

func optionalInt(request mcp.CallToolRequest, key string, defaultVal, min, max int) (int, error) {
	f, err := optionalNumber(request, key, float64(defaultVal), float64(min), float64(max))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, invalidParams("%s must be an integer, got %g", key, f)
	}
	return int(f), nil
}

func optionalIntEnum(request mcp.CallToolRequest, key string, defaultVal int, allowed ...int) (int, error) {
	lo, hi := allowed[0], allowed[0]
	for _, a := range allowed {
		lo, hi = min(lo, a), max(hi, a)
	}
	n, err := optionalInt(request, key, defaultVal, lo, hi)
	if err != nil {
		return 0, err
	}
	for _, a := range allowed {
		if n == a {
			return n, nil
		}
	}
	return 0, invalidParams("%s must be one of %v, got %d", key, allowed, n)
}

func optionalBool(request mcp.CallToolRequest, key string, defaultVal bool) (bool, error) {
	v, ok := argument(request, key)
	if !ok {
		return defaultVal, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalidParams("%s must be a boolean", key)
	}
	return b, nil
}

func optionalEnum(request mcp.CallToolRequest, key, defaultVal string, allowed ...string) (string, error) {
	s, err := optionalString(request, key, defaultVal)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", invalidParams("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), s)
}

// optionalArray returns the raw array, or nil when absent.
func optionalArray(request mcp.CallToolRequest, key string) ([]any, error) {
	v, ok := argument(request, key)
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, invalidParams("%s must be an array", key)
	}
	return arr, nil
}
