// Package app wires configuration into the PixelLab client, asset store,
// tool registry and HTTP handlers.
package app

import (
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/pixellab-mcp/internal/assets"
	"github.com/bobmcallan/pixellab-mcp/internal/common"
	"github.com/bobmcallan/pixellab-mcp/internal/config"
	"github.com/bobmcallan/pixellab-mcp/internal/handlers"
	"github.com/bobmcallan/pixellab-mcp/internal/mcp"
	"github.com/bobmcallan/pixellab-mcp/internal/pixellab"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Client    *pixellab.Client
	Store     *assets.Store
	Registry  *mcp.Registry
	MCPServer *mcpserver.MCPServer
	Protocol  *mcp.Protocol

	// HTTP handlers, used only by the HTTP transport.
	HealthHandler         *handlers.HealthHandler
	UpstreamHealthHandler *handlers.UpstreamHealthHandler
	VersionHandler        *handlers.VersionHandler
	ToolsHandler          *handlers.ToolsHandler
	MCPHandler            *mcp.Handler
}

// New initializes the application. cfg must already be validated.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.Client = pixellab.NewClient(cfg.PixelLab.BaseURL, cfg.PixelLab.APIKey, logger)
	a.Store = assets.NewStore(cfg.Assets.OutputDir, cfg.Assets.PreviewScale, logger)
	a.Registry = mcp.NewToolRegistry(a.Client, a.Store, logger)
	a.MCPServer = mcp.NewServer(cfg.Server.Name, a.Registry)
	a.Protocol = mcp.NewProtocol(a.MCPServer, a.Registry, logger)

	a.initHandlers()

	logger.Info().
		Str("base_url", a.Client.BaseURL()).
		Str("assets_dir", a.Store.Dir()).
		Int("tools", a.Registry.Len()).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.UpstreamHealthHandler = handlers.NewUpstreamHealthHandler(a.Logger, a.Client)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Registry)
	a.MCPHandler = mcp.NewHandler(a.Protocol, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
