package config

import "github.com/bobmcallan/pixellab-mcp/internal/common"

// DefaultBaseURL is the public PixelLab API endpoint.
const DefaultBaseURL = "https://api.pixellab.ai"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "pixelLab-mcp-server",
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      4250,
		},
		PixelLab: PixelLabConfig{
			BaseURL: DefaultBaseURL,
		},
		Assets: AssetsConfig{
			OutputDir: "gameassets",
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
