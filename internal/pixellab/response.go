package pixellab

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Response is one HTTP response from the PixelLab API.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	once    sync.Once
	decoded any
	err     error
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect reports a 3xx status.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// JSON decodes the body once. A non-JSON body yields an error and a nil value.
func (r *Response) JSON() (any, error) {
	r.once.Do(func() {
		if len(bytes.TrimSpace(r.Body)) == 0 {
			return
		}
		r.err = json.Unmarshal(r.Body, &r.decoded)
	})
	return r.decoded, r.err
}

// Value returns the decoded body, or nil when it is not JSON.
func (r *Response) Value() any {
	v, err := r.JSON()
	if err != nil {
		return nil
	}
	return v
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Pretty renders the body as indented JSON, or verbatim when it is not JSON.
func (r *Response) Pretty() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Body, "", "  "); err != nil {
		return strings.TrimSpace(string(r.Body))
	}
	return buf.String()
}

// ErrorMessage extracts the provider's error message, falling back to the
// HTTP status text.
func (r *Response) ErrorMessage() string {
	body := r.Value()
	if msg := FirstString(body, MessageFields...); msg != "" {
		return msg
	}
	// FastAPI-style validation errors carry a structured detail.
	for _, f := range MessageFields {
		if v, ok := f(body); ok {
			if s := Stringify(v); s != "" && s != "{}" && s != "[]" {
				return s
			}
		}
	}
	if text := strings.TrimSpace(r.Text()); text != "" && body == nil && len(text) <= 200 {
		return text
	}
	if st := http.StatusText(r.StatusCode); st != "" {
		return st
	}
	return "Unknown error"
}

// Accessor extracts one candidate value from a decoded JSON body.
type Accessor func(body any) (any, bool)

// Key builds an Accessor that walks path through nested objects (string
// segments) and arrays (int segments). JSON null counts as absent.
func Key(path ...any) Accessor {
	return func(body any) (any, bool) {
		cur := body
		for _, seg := range path {
			switch s := seg.(type) {
			case string:
				m, ok := cur.(map[string]any)
				if !ok {
					return nil, false
				}
				cur, ok = m[s]
				if !ok {
					return nil, false
				}
			case int:
				arr, ok := cur.([]any)
				if !ok || s < 0 || s >= len(arr) {
					return nil, false
				}
				cur = arr[s]
			default:
				return nil, false
			}
		}
		if cur == nil {
			return nil, false
		}
		return cur, true
	}
}

// First returns the value of the first accessor that matches.
func First(body any, fields ...Accessor) (any, bool) {
	for _, f := range fields {
		if v, ok := f(body); ok {
			return v, true
		}
	}
	return nil, false
}

// FirstString returns the first matching scalar rendered as a string.
// Empty strings, objects and arrays are skipped.
func FirstString(body any, fields ...Accessor) string {
	for _, f := range fields {
		v, ok := f(body)
		if !ok {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		if s := Stringify(v); s != "" {
			return s
		}
	}
	return ""
}

// Stringify renders a decoded JSON value for display.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Keys lists the top-level keys of an object body, sorted.
func Keys(body any) []string {
	m, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
