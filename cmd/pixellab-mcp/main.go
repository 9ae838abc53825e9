// Command pixellab-mcp serves the PixelLab pixel-art API as MCP tools over
// stdio or streamable HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bobmcallan/pixellab-mcp/internal/app"
	"github.com/bobmcallan/pixellab-mcp/internal/common"
	"github.com/bobmcallan/pixellab-mcp/internal/config"
	"github.com/bobmcallan/pixellab-mcp/internal/server"
)

const configFileName = "pixellab-mcp.toml"

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	stdio       = flag.Bool("stdio", false, "Use stdio transport (overrides config)")
	serverPort  = flag.Int("port", 0, "HTTP port (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("pixellab-mcp version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		if path := discoverConfig(configSearchPaths()); path != "" {
			configFiles = append(configFiles, path)
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	config.ApplyFlagOverrides(cfg, *stdio, *serverPort)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, "Set PIXELLAB_API_KEY in the environment, a .env file, or [pixellab] api_key in "+configFileName+".")
		}
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("transport", cfg.Server.Transport).
		Str("version", common.GetVersion()).
		Str("config_files", configFiles.String()).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	if cfg.Server.Transport == config.TransportStdio {
		runStdio(application, logger)
		return
	}

	runHTTP(application, logger)
}

// runStdio serves JSON-RPC on stdin/stdout until EOF, SIGINT or SIGTERM.
// stdout carries JSON-RPC; all logging goes to stderr or file.
func runStdio(application *app.App, logger *common.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := application.Protocol.ServeStdio(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("stdio server failed")
		os.Exit(1)
	}
}

// runHTTP serves the streamable-HTTP transport until SIGINT or SIGTERM.
func runHTTP(application *app.App, logger *common.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(application)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server failed to start")
			os.Exit(1)
		}
		return
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("server stopped")
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths come first so installs work from any directory.
func configSearchPaths() []string {
	candidates := []string{
		configFileName,
		filepath.Join("config", configFileName),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, configFileName),
		filepath.Join(binDir, "config", configFileName),
	}
	return dedupePaths(append(paths, candidates...))
}

// dedupePaths drops entries that resolve to the same absolute path.
func dedupePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// discoverConfig returns the first existing path, or "" when none exist.
func discoverConfig(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
