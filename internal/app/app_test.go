package app

import (
	"errors"
	"testing"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
	"github.com/bobmcallan/pixellab-mcp/internal/config"
)

func TestNew_WiresComponents(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.PixelLab.APIKey = "test-key"
	cfg.Assets.OutputDir = t.TempDir()

	a, err := New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	if a.Registry.Len() != 22 {
		t.Errorf("expected 22 tools, got %d", a.Registry.Len())
	}
	if a.Client.BaseURL() != config.DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", a.Client.BaseURL())
	}
	if a.Store.Dir() != cfg.Assets.OutputDir {
		t.Errorf("expected store dir %s, got %s", cfg.Assets.OutputDir, a.Store.Dir())
	}
	if a.MCPServer == nil || a.Protocol == nil || a.MCPHandler == nil || a.HealthHandler == nil || a.ToolsHandler == nil {
		t.Error("expected all handlers to be initialized")
	}
}

func TestNew_RejectsMissingAPIKey(t *testing.T) {
	cfg := config.NewDefaultConfig()

	_, err := New(cfg, common.NewSilentLogger())
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
