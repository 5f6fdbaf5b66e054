package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-primarybrief/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "PRIMARYBRIEF_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath    string        // PRIMARYBRIEF_CONFIG: config file name or path
	AssetsDir     string        // PRIMARYBRIEF_ASSETS_DIR: assets directory
	Overrides     string        // PRIMARYBRIEF_OVERRIDES: styles/templates/content overrides
	Addr          string        // PRIMARYBRIEF_ADDR: listen address
	BaseURL       string        // PRIMARYBRIEF_BASE_URL: release origin
	LogLevel      string        // PRIMARYBRIEF_LOG_LEVEL: debug, info, warn, error
	FetchTimeout  time.Duration // PRIMARYBRIEF_FETCH_TIMEOUT: per-download timeout
	ExportTimeout time.Duration // PRIMARYBRIEF_EXPORT_TIMEOUT: PDF export timeout
	Minify        *bool         // PRIMARYBRIEF_MINIFY: minify large map documents
	ExportDate    string        // PRIMARYBRIEF_EXPORT_DATE: footer date of exports
}

// knownEnvVars lists valid PRIMARYBRIEF_* environment variables.
var knownEnvVars = map[string]bool{
	"PRIMARYBRIEF_CONFIG":         true,
	"PRIMARYBRIEF_ASSETS_DIR":     true,
	"PRIMARYBRIEF_OVERRIDES":      true,
	"PRIMARYBRIEF_ADDR":           true,
	"PRIMARYBRIEF_BASE_URL":       true,
	"PRIMARYBRIEF_LOG_LEVEL":      true,
	"PRIMARYBRIEF_FETCH_TIMEOUT":  true,
	"PRIMARYBRIEF_EXPORT_TIMEOUT": true,
	"PRIMARYBRIEF_MINIFY":         true,
	"PRIMARYBRIEF_EXPORT_DATE":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable durations and booleans are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("PRIMARYBRIEF_CONFIG"),
		AssetsDir:  getenv("PRIMARYBRIEF_ASSETS_DIR"),
		Overrides:  getenv("PRIMARYBRIEF_OVERRIDES"),
		Addr:       getenv("PRIMARYBRIEF_ADDR"),
		BaseURL:    getenv("PRIMARYBRIEF_BASE_URL"),
		LogLevel:   getenv("PRIMARYBRIEF_LOG_LEVEL"),
		ExportDate: getenv("PRIMARYBRIEF_EXPORT_DATE"),
	}

	cfg.FetchTimeout = parsePositiveDuration(getenv("PRIMARYBRIEF_FETCH_TIMEOUT"))
	cfg.ExportTimeout = parsePositiveDuration(getenv("PRIMARYBRIEF_EXPORT_TIMEOUT"))

	if raw := getenv("PRIMARYBRIEF_MINIFY"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			cfg.Minify = &b
		}
	}

	return cfg
}

func parsePositiveDuration(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// warnUnknownEnvVars prints a warning for each unrecognized PRIMARYBRIEF_*
// variable, catching typos like PRIMARYBRIEF_ASSET_DIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name := strings.SplitN(kv, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values over the config file.
// CLI flags are applied afterwards, giving:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.AssetsDir != "" {
		cfg.Assets.Dir = env.AssetsDir
	}
	if env.Overrides != "" {
		cfg.Assets.Overrides = env.Overrides
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.BaseURL != "" {
		cfg.Remote.BaseURL = env.BaseURL
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.FetchTimeout > 0 {
		cfg.Remote.Timeout = env.FetchTimeout
	}
	if env.ExportTimeout > 0 {
		cfg.Export.Timeout = env.ExportTimeout
	}
	if env.Minify != nil {
		cfg.Display.Minify = *env.Minify
	}
	if env.ExportDate != "" {
		cfg.Export.Date = env.ExportDate
	}
}
