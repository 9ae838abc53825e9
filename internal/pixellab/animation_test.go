package pixellab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplateForAnimation_Aliases(t *testing.T) {
	cases := map[string]string{
		"WALKING":        "breathing-idle",
		"sprint":         "breathing-idle",
		"idle":           "breathing-idle",
		"Digital Sprint": "breathing-idle",
		"kick":           "flying-kick",
		"Jump":           "flying-kick",
		"punch":          "cross-punch",
		"attack":         "cross-punch",
		"crouch":         "crouching",
		"death":          "falling-back-death",
		"backflip":       "backflip",
		"drink":          "drinking",
		"  fight  ":      "cross-punch",
	}
	for in, want := range cases {
		require.Equal(t, want, TemplateForAnimation(in), in)
	}
}

func TestTemplateForAnimation_DefaultFallback(t *testing.T) {
	for _, in := range []string{"unknown-xyz", "", "moonwalk", "🕺"} {
		require.Equal(t, DefaultTemplate, TemplateForAnimation(in), in)
	}
}

func TestTemplateForAnimation_CanonicalIDsMapToThemselves(t *testing.T) {
	for _, id := range Templates() {
		require.Equal(t, id, TemplateForAnimation(id))
	}
}

func TestTemplateForAnimation_TotalOverAliases(t *testing.T) {
	canonical := map[string]bool{}
	for _, id := range Templates() {
		canonical[id] = true
	}
	for alias := range templateAliases {
		require.True(t, canonical[TemplateForAnimation(alias)], alias)
	}
	require.Len(t, Templates(), 7)
}
