package pixellab

import (
	"sort"
	"strings"
)

// DefaultTemplate is used for any animation name without an alias.
const DefaultTemplate = "breathing-idle"

// templateAliases maps free-text animation names to the template ids the API
// accepts. Movement verbs collapse onto breathing-idle because the template
// set has no locomotion cycles.
var templateAliases = map[string]string{
	"walking":        "breathing-idle",
	"running":        "breathing-idle",
	"sprint":         "breathing-idle",
	"digital sprint": "breathing-idle",
	"idle":           "breathing-idle",
	"fight":          "cross-punch",
	"punch":          "cross-punch",
	"attack":         "cross-punch",
	"crouch":         "crouching",
	"jump":           "flying-kick",
	"kick":           "flying-kick",
	"fall":           "falling-back-death",
	"death":          "falling-back-death",
	"backflip":       "backflip",
	"drink":          "drinking",
}

// canonicalTemplates is the closed set of template ids.
var canonicalTemplates = map[string]bool{
	"breathing-idle":     true,
	"cross-punch":        true,
	"crouching":          true,
	"flying-kick":        true,
	"falling-back-death": true,
	"backflip":           true,
	"drinking":           true,
}

// TemplateForAnimation maps an animation name to a template id. Matching is
// case-insensitive; unknown names map to DefaultTemplate.
func TemplateForAnimation(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := templateAliases[key]; ok {
		return id
	}
	if canonicalTemplates[key] {
		return key
	}
	return DefaultTemplate
}

// Templates returns the canonical template ids, sorted.
func Templates() []string {
	out := make([]string, 0, len(canonicalTemplates))
	for id := range canonicalTemplates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
