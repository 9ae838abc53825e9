package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

// Transport names accepted by Server.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ErrMissingAPIKey is returned by Validate when no PixelLab API key is configured.
var ErrMissingAPIKey = errors.New("PIXELLAB_API_KEY environment variable is required")

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	PixelLab PixelLabConfig       `toml:"pixellab"`
	Assets   AssetsConfig         `toml:"assets"`
	Logging  common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"` // "stdio" or "http"
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
}

// PixelLabConfig contains the remote API settings.
type PixelLabConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// AssetsConfig controls where generated images are written.
type AssetsConfig struct {
	OutputDir    string `toml:"output_dir"`
	PreviewScale int    `toml:"preview_scale"` // 0 disables the upscaled preview
}

// Address returns the host:port the HTTP transport listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadFromFile loads configuration with priority: defaults -> file -> .env -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files. Missing files are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// .env never overrides variables already present in the process environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies PIXELLAB_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if key := os.Getenv("PIXELLAB_API_KEY"); key != "" {
		config.PixelLab.APIKey = key
	}
	if baseURL := os.Getenv("PIXELLAB_API_BASE_URL"); baseURL != "" {
		config.PixelLab.BaseURL = baseURL
	}
	if transport := os.Getenv("PIXELLAB_MCP_TRANSPORT"); transport != "" {
		config.Server.Transport = strings.ToLower(transport)
	}
	if port := os.Getenv("PIXELLAB_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PIXELLAB_MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if dir := os.Getenv("PIXELLAB_ASSETS_DIR"); dir != "" {
		config.Assets.OutputDir = dir
	}
	if scale := os.Getenv("PIXELLAB_ASSETS_PREVIEW_SCALE"); scale != "" {
		if s, err := strconv.Atoi(scale); err == nil {
			config.Assets.PreviewScale = s
		}
	}
	if level := os.Getenv("PIXELLAB_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, stdio bool, port int) {
	if stdio {
		config.Server.Transport = TransportStdio
	}
	if port > 0 {
		config.Server.Port = port
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PixelLab.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.PixelLab.BaseURL == "" {
		return fmt.Errorf("pixellab base_url must not be empty")
	}
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q (expected %q or %q)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.Assets.PreviewScale < 0 {
		return fmt.Errorf("assets preview_scale must be >= 0, got %d", c.Assets.PreviewScale)
	}
	return nil
}
