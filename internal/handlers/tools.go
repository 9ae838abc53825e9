package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolLister is the catalogue view of the tool registry.
type ToolLister interface {
	Tools() []mcp.Tool
}

type toolSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required,omitempty"`
	ReadOnly    bool     `json:"read_only"`
}

// ToolsHandler lists the tool catalogue for operators.
type ToolsHandler struct {
	tools ToolLister
}

// NewToolsHandler creates a handler listing tools.
func NewToolsHandler(tools ToolLister) *ToolsHandler {
	return &ToolsHandler{tools: tools}
}

// ServeHTTP handles GET /tools.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tools := h.tools.Tools()
	out := make([]toolSummary, 0, len(tools))
	for _, t := range tools {
		out = append(out, toolSummary{
			Name:        t.Name,
			Description: t.Description,
			Required:    t.InputSchema.Required,
			ReadOnly:    t.Annotations.ReadOnlyHint != nil && *t.Annotations.ReadOnlyHint,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"count": len(out),
		"tools": out,
	})
}
