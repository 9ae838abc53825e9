package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerFromConfig_FluentAPI(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Level: "error", Outputs: []string{"console"}})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixellab.log")
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:    "info",
		Outputs:  []string{"file"},
		FilePath: path,
	})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Info().Str("tool", "get_balance").Msg("file logger works")
}

func TestNewLoggerWithOutput_WritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("key", "value").Msg("hello")

	if buf.Len() == 0 {
		t.Error("Expected output to provided writer, got empty string")
	}
}

func TestNewLoggerWithOutput_SortedFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Str("tool", "get_balance").Msg("filtered out")
	logger.Warn().Str("tool", "make_coffee").Int("code", -32601).Msg("unknown tool requested")

	out := buf.String()
	if strings.Contains(out, "filtered out") {
		t.Errorf("info line written at warn level: %q", out)
	}
	line := strings.TrimSpace(out)
	if !strings.Contains(line, "unknown tool requested code=-32601 tool=make_coffee") {
		t.Errorf("expected fields sorted by key, got %q", line)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected exactly one line, got %q", out)
	}
}

func TestFileWriterConfig_Defaults(t *testing.T) {
	wc := fileWriterConfig(LoggingConfig{})
	if wc.FileName != defaultLogFile || wc.MaxSize != defaultLogBytes || wc.MaxBackups != defaultLogBackups {
		t.Errorf("unexpected defaults %+v", wc)
	}

	wc = fileWriterConfig(LoggingConfig{FilePath: "x.log", MaxSizeMB: 2, MaxBackups: 3})
	if wc.FileName != "x.log" || wc.MaxSize != 2<<20 || wc.MaxBackups != 3 {
		t.Errorf("unexpected config %+v", wc)
	}
}

func TestNewSilentLogger_DiscardsOutput(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	logger.Info().Msg("dropped")
	logger.Error().Msg("dropped")
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewSilentLogger()
	scoped := logger.WithCorrelationId("abc-123")
	if scoped == nil || scoped == logger {
		t.Fatal("WithCorrelationId should return a distinct logger")
	}
}

func TestLoadVersionFrom_FallbackOnly(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	path := filepath.Join(t.TempDir(), ".version")
	content := "# comment\nversion: 1.2.3\nbuild: 2026-10-01\ncommit: abc1234\nbogus line\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	Version, Build, GitCommit = "dev", "unknown", "unknown"
	loadVersionFrom(path)
	if Version != "1.2.3" || Build != "2026-10-01" || GitCommit != "abc1234" {
		t.Errorf("unexpected version info: %s", GetFullVersion())
	}

	Version = "9.9.9"
	loadVersionFrom(path)
	if Version != "9.9.9" {
		t.Errorf("ldflags version should win over file, got %s", Version)
	}
	if !strings.Contains(GetFullVersion(), "abc1234") {
		t.Errorf("full version missing commit: %s", GetFullVersion())
	}
}
