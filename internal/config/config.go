// Package config loads planmd configuration from a JSONC file. The core
// never reads flags or environment variables itself; this package hands the
// CLI untyped directory settings to pass down.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// FileName is the default config file name, looked up in the working
// directory.
const FileName = ".planmd.json"

// Config holds all configuration options.
type Config struct {
	// RootDir is the trusted root all plan paths must stay within.
	RootDir string `json:"root_dir"`
	// DocsDir is the documents subdirectory, relative to RootDir unless
	// absolute.
	DocsDir string `json:"docs_dir"`
}

// Sources tracks where configuration came from, for print-config.
type Sources struct {
	// File is the path of the loaded config file, empty when defaults
	// were used.
	File string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		RootDir: ".",
		DocsDir: "plans",
	}
}

var errConfigNotFound = errors.New("config file not found")

// Load builds the effective configuration: defaults, then the config file
// (explicit path, or .planmd.json in workDir if present), then CLI
// overrides.
func Load(workDir, explicitPath string, overrides Config) (Config, Sources, error) {
	cfg := Default()

	var sources Sources

	path := explicitPath
	required := explicitPath != ""

	if path == "" {
		path = filepath.Join(workDir, FileName)
	}

	fileCfg, err := loadFile(path)

	switch {
	case err == nil:
		cfg = merge(cfg, fileCfg)
		sources.File = path
	case errors.Is(err, errConfigNotFound) && !required:
		// No config file is fine; defaults apply.
	default:
		return Config{}, Sources{}, err
	}

	cfg = merge(cfg, overrides)

	if cfg.RootDir == "" {
		return Config{}, Sources{}, errors.New("root_dir cannot be empty")
	}

	if cfg.DocsDir == "" {
		return Config{}, Sources{}, errors.New("docs_dir cannot be empty")
	}

	return cfg, sources, nil
}

// loadFile reads one JSONC config file. Comments and trailing commas are
// tolerated.
func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own flags
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %s", errConfigNotFound, path)
	}

	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: invalid JSONC: %w", path, err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: invalid JSON: %w", path, err)
	}

	return cfg, nil
}

// merge overlays non-empty fields of over onto base.
func merge(base, over Config) Config {
	if over.RootDir != "" {
		base.RootDir = over.RootDir
	}

	if over.DocsDir != "" {
		base.DocsDir = over.DocsDir
	}

	return base
}
