// Package config builds application configuration by layering
// defaults, environment variables, and explicitly set CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	DataDir       string        `json:"data_dir"`
	ImportDir     string        `json:"import_dir"`
	DBPath        string        `json:"-"`
	DesktopNotify bool          `json:"desktop_notify"`
	WriteTimeout  time.Duration `json:"-"`
}

// Default returns a Config with default values.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf(
			"determining home directory: %w", err,
		)
	}
	dataDir := filepath.Join(home, ".namsa-insights")
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		DataDir:      dataDir,
		ImportDir:    filepath.Join(dataDir, "imports"),
		DBPath:       filepath.Join(dataDir, "insights.db"),
		WriteTimeout: 30 * time.Second,
	}, nil
}

// Load builds a Config by layering: defaults < env < flags.
// The provided FlagSet must already be parsed by the caller;
// only flags that were explicitly set override the lower layers.
func Load(fs *flag.FlagSet) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	cfg.loadEnv()
	applyFlags(&cfg, fs)
	cfg.DBPath = filepath.Join(cfg.DataDir, "insights.db")
	return cfg, nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv("NAMSA_DATA_DIR"); v != "" {
		c.DataDir = v
		c.ImportDir = filepath.Join(v, "imports")
	}
	if v := os.Getenv("NAMSA_IMPORT_DIR"); v != "" {
		c.ImportDir = v
	}
}

// RegisterServeFlags registers serve-command flags on fs.
// The caller must call fs.Parse before passing fs to Load.
func RegisterServeFlags(fs *flag.FlagSet) {
	fs.String("host", "127.0.0.1", "Host to bind to")
	fs.Int("port", 8080, "Port to listen on")
	fs.String("import-dir", "", "Directory of JSON exports to watch")
	fs.Bool("notify", false, "Show a desktop notification on refresh")
}

// applyFlags copies explicitly-set flags from fs into cfg.
func applyFlags(cfg *Config, fs *flag.FlagSet) {
	if fs == nil {
		return
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = f.Value.String()
		case "port":
			// flag already validated the int; ignore parse error
			cfg.Port, _ = strconv.Atoi(f.Value.String())
		case "import-dir":
			cfg.ImportDir = f.Value.String()
		case "notify":
			cfg.DesktopNotify = f.Value.String() == "true"
		}
	})
}
