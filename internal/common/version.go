package common

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Build metadata, set with -ldflags "-X". The zero-information values below
// mark a field as not injected.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

const versionFileName = ".version"

func GetVersion() string   { return Version }
func GetBuild() string     { return Build }
func GetGitCommit() string { return GitCommit }

// GetFullVersion formats every build field for -version.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadVersionFromFile reads .version next to the binary. It only fills
// fields ldflags left unset.
func LoadVersionFromFile() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	loadVersionFrom(filepath.Join(filepath.Dir(exe), versionFileName))
}

// loadVersionFrom parses "key: value" lines. Blank lines, # comments and
// unknown keys are skipped.
func loadVersionFrom(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	fields := map[string]struct {
		target *string
		unset  string
	}{
		"version": {&Version, "dev"},
		"build":   {&Build, "unknown"},
		"commit":  {&GitCommit, "unknown"},
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field, known := fields[strings.TrimSpace(key)]
		if known && *field.target == field.unset {
			*field.target = strings.TrimSpace(val)
		}
	}
}
