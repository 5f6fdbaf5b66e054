package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	primarybrief "github.com/alnah/go-primarybrief"
	"github.com/alnah/go-primarybrief/internal/config"
	"github.com/alnah/go-primarybrief/internal/hints"
	"github.com/alnah/go-primarybrief/internal/logging"
)

// hintedError appends an actionable hint to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. An empty hint returns err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// loadSettings resolves the effective configuration:
// CLI flags > PRIMARYBRIEF_* env vars > config file > defaults.
func loadSettings(f *commonFlags, env *Environment) (*config.Config, error) {
	warnUnknownEnvVars(env.Stderr, env.Environ())
	envCfg := loadEnvConfig(env.Getenv)

	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				err = withHint(err, hints.ForConfigNotFound(configSearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	applyCommonFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyCommonFlags copies explicitly set flags into cfg.
func applyCommonFlags(f *commonFlags, cfg *config.Config) {
	if f.assetsDir != "" {
		cfg.Assets.Dir = f.assetsDir
	}
	if f.baseURL != "" {
		cfg.Remote.BaseURL = f.baseURL
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
}

// configSearchPaths mirrors the lookup order of config.LoadConfig for hints.
func configSearchPaths(name string) []string {
	paths := []string{name + ".yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "go-primarybrief", name+".yaml"))
	}
	return paths
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// usable for exported output.
func newLogger(cfg *config.Config, env *Environment) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, env.Stderr)
}

// newReport builds a Report from the effective configuration.
func newReport(cfg *config.Config, logger *zap.Logger, extra ...primarybrief.Option) (*primarybrief.Report, error) {
	opts := []primarybrief.Option{
		primarybrief.WithAssetsDir(cfg.Assets.Dir),
		primarybrief.WithOverrides(cfg.Assets.Overrides),
		primarybrief.WithBaseURL(cfg.Remote.BaseURL),
		primarybrief.WithHTTPClient(&http.Client{Timeout: cfg.Remote.Timeout}),
		primarybrief.WithMinify(cfg.Display.Minify),
		primarybrief.WithLogger(logger),
		primarybrief.WithTimeout(cfg.Export.Timeout),
	}
	return primarybrief.New(append(opts, extra...)...)
}
