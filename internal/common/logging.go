// Package common provides shared logging and version utilities for pixellab-mcp.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const (
	defaultLogFile    = "logs/pixellab-mcp.log"
	defaultLogBytes   = 500 * 1024
	defaultLogBackups = 5
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

// nullWriter drops every event. An explicit writer keeps arbor from falling
// back to its global registry.
type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error)         { return len(p), nil }
func (nullWriter) WithLevel(log.Level) writers.IWriter { return nullWriter{} }
func (nullWriter) GetFilePath() string                 { return "" }
func (nullWriter) Close() error                        { return nil }

// lineWriter renders arbor's JSON events as one text line each:
// level, message, then fields sorted by key.
type lineWriter struct {
	out   io.Writer
	level log.Level
}

func (w *lineWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return w.out.Write(p)
	}
	if evt.Level < w.level {
		return len(p), nil
	}

	var sb strings.Builder
	sb.WriteString(strings.ToUpper(evt.Level.String()))
	sb.WriteByte(' ')
	sb.WriteString(evt.Message)
	if evt.CorrelationID != "" {
		fmt.Fprintf(&sb, " correlation_id=%s", evt.CorrelationID)
	}
	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, evt.Fields[k])
	}
	if evt.Error != "" {
		fmt.Fprintf(&sb, " error=%q", evt.Error)
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(w.out, sb.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *lineWriter) WithLevel(level log.Level) writers.IWriter {
	w.level = level
	return w
}

func (w *lineWriter) GetFilePath() string { return "" }
func (w *lineWriter) Close() error        { return nil }

// NewLoggerFromConfig builds the process logger. Console output always goes
// to stderr because stdout carries the stdio transport.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(consoleWriterConfig())
		case "file":
			l = l.WithFileWriter(fileWriterConfig(cfg))
		}
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	return &Logger{ILogger: l.WithLevelFromString(level)}
}

func consoleWriterConfig() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		Writer:     os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// fileWriterConfig applies size and backup defaults. max_size_mb is in MiB.
func fileWriterConfig(cfg LoggingConfig) models.WriterConfiguration {
	wc := models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   cfg.FilePath,
		MaxSize:    int64(cfg.MaxSizeMB) << 20,
		MaxBackups: cfg.MaxBackups,
		TimeFormat: time.RFC3339,
	}
	if wc.FileName == "" {
		wc.FileName = defaultLogFile
	}
	if wc.MaxSize <= 0 {
		wc.MaxSize = defaultLogBytes
	}
	if wc.MaxBackups <= 0 {
		wc.MaxBackups = defaultLogBackups
	}
	return wc
}

// NewLoggerWithOutput creates a logger writing plain text lines to w.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	l := arbor.NewLogger().
		WithWriters([]writers.IWriter{&lineWriter{out: w, level: log.TraceLevel}}).
		WithLevelFromString(level)
	return &Logger{ILogger: l}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{nullWriter{}})}
}

// WithCorrelationId scopes l to one tool call.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
