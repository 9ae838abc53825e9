package mcp

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func requestWith(args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func assertInvalidParams(t *testing.T, err error) {
	t.Helper()
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %v", err)
	}
	if toolErr.Code != mcp.INVALID_PARAMS {
		t.Errorf("expected INVALID_PARAMS, got %d", toolErr.Code)
	}
}

func TestRequireString(t *testing.T) {
	got, err := requireString(requestWith(map[string]any{"description": "knight"}), "description")
	if err != nil || got != "knight" {
		t.Fatalf("expected knight, got %q (%v)", got, err)
	}

	for name, args := range map[string]map[string]any{
		"missing":    {},
		"null":       {"description": nil},
		"number":     {"description": 42.0},
		"empty":      {"description": ""},
		"whitespace": {"description": "  \t"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := requireString(requestWith(args), "description")
			assertInvalidParams(t, err)
		})
	}
}

func TestRequireString_MessageNamesField(t *testing.T) {
	_, err := requireString(requestWith(nil), "character_id")
	if err == nil || err.Error() != "character_id is required" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestOptionalString(t *testing.T) {
	got, err := optionalString(requestWith(map[string]any{}), "view", "side")
	if err != nil || got != "side" {
		t.Errorf("expected default, got %q (%v)", got, err)
	}
	got, _ = optionalString(requestWith(map[string]any{"view": ""}), "view", "side")
	if got != "side" {
		t.Errorf("expected default for empty string, got %q", got)
	}
	got, _ = optionalString(requestWith(map[string]any{"view": "north"}), "view", "side")
	if got != "north" {
		t.Errorf("expected north, got %q", got)
	}
	_, err = optionalString(requestWith(map[string]any{"view": true}), "view", "side")
	assertInvalidParams(t, err)
}

func TestOptionalNumber(t *testing.T) {
	cases := []struct {
		name    string
		value   any
		want    float64
		wantErr bool
	}{
		{"absent", nil, 3, false},
		{"float", 7.5, 7.5, false},
		{"int", 12, 12, false},
		{"json number", json.Number("4"), 4, false},
		{"lower bound", 1.0, 1, false},
		{"upper bound", 20.0, 20, false},
		{"below range", 0.5, 0, true},
		{"above range", 21.0, 0, true},
		{"string", "5", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := map[string]any{}
			if tc.value != nil {
				args["scale"] = tc.value
			}
			got, err := optionalNumber(requestWith(args), "scale", 3, 1, 20)
			if tc.wantErr {
				assertInvalidParams(t, err)
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("expected %v, got %v (%v)", tc.want, got, err)
			}
		})
	}
}

func TestOptionalNumber_ExplicitZeroKept(t *testing.T) {
	got, err := optionalNumber(requestWith(map[string]any{"style_strength": 0.0}), "style_strength", 50, 0, 100)
	if err != nil || got != 0 {
		t.Errorf("expected explicit 0, got %v (%v)", got, err)
	}
}

func TestOptionalInt_RejectsFractions(t *testing.T) {
	_, err := optionalInt(requestWith(map[string]any{"width": 64.5}), "width", 64, 16, 400)
	assertInvalidParams(t, err)

	got, err := optionalInt(requestWith(map[string]any{"width": 128.0}), "width", 64, 16, 400)
	if err != nil || got != 128 {
		t.Errorf("expected 128, got %d (%v)", got, err)
	}
}

func TestOptionalIntEnum(t *testing.T) {
	got, err := optionalIntEnum(requestWith(nil), "n_directions", 4, 4, 8)
	if err != nil || got != 4 {
		t.Errorf("expected default 4, got %d (%v)", got, err)
	}
	got, err = optionalIntEnum(requestWith(map[string]any{"n_directions": 8.0}), "n_directions", 4, 4, 8)
	if err != nil || got != 8 {
		t.Errorf("expected 8, got %d (%v)", got, err)
	}
	_, err = optionalIntEnum(requestWith(map[string]any{"n_directions": 6.0}), "n_directions", 4, 4, 8)
	assertInvalidParams(t, err)
}

func TestOptionalBool(t *testing.T) {
	got, err := optionalBool(requestWith(nil), "isometric", false)
	if err != nil || got {
		t.Errorf("expected default false, got %v (%v)", got, err)
	}
	got, _ = optionalBool(requestWith(map[string]any{"isometric": true}), "isometric", false)
	if !got {
		t.Error("expected true")
	}
	_, err = optionalBool(requestWith(map[string]any{"isometric": "yes"}), "isometric", false)
	assertInvalidParams(t, err)
}

func TestOptionalEnum(t *testing.T) {
	got, err := optionalEnum(requestWith(nil), "direction", "south", directionValues...)
	if err != nil || got != "south" {
		t.Errorf("expected default south, got %q (%v)", got, err)
	}
	_, err = optionalEnum(requestWith(map[string]any{"direction": "up"}), "direction", "south", directionValues...)
	assertInvalidParams(t, err)
}

func TestOptionalArray(t *testing.T) {
	got, err := optionalArray(requestWith(nil), "skeleton_keypoints")
	if err != nil || got != nil {
		t.Errorf("expected nil, got %v (%v)", got, err)
	}
	got, err = optionalArray(requestWith(map[string]any{"skeleton_keypoints": []any{[]any{1.0, 2.0}}}), "skeleton_keypoints")
	if err != nil || len(got) != 1 {
		t.Errorf("expected one keypoint, got %v (%v)", got, err)
	}
	_, err = optionalArray(requestWith(map[string]any{"skeleton_keypoints": "1,2"}), "skeleton_keypoints")
	assertInvalidParams(t, err)
}
