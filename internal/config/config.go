package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-primarybrief/internal/dateutil"
	"github.com/alnah/go-primarybrief/internal/fileutil"
	"github.com/alnah/go-primarybrief/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength  = 255
	MaxURLLength   = 2048 // Browser limit
	MaxPathLength  = 4096 // PATH_MAX on Linux
	MaxLevelLength = 10
	MaxDateLength  = 60 // "auto:" plus a date format
)

// Defaults.
const (
	DefaultAddr            = "127.0.0.1:8501"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultAssetsDir       = "."
	DefaultBaseURL         = "https://github.com/izikn-tooz/NYCmayoralPrimaryanalysis/releases/download/v1Maps/"
	DefaultRemoteTimeout   = 2 * time.Minute
	DefaultLogLevel        = "info"
	DefaultExportTimeout   = 2 * time.Minute
	DefaultExportDate      = "auto:long"
)

// Config holds all configuration for the report server and CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Assets  AssetsConfig  `yaml:"assets"`
	Remote  RemoteConfig  `yaml:"remote"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Export  ExportConfig  `yaml:"export"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // e.g. "10s"
}

// AssetsConfig defines where report files live.
type AssetsConfig struct {
	Dir       string `yaml:"dir"`       // Maps, images and spreadsheets; missing files are downloaded here
	Overrides string `yaml:"overrides"` // Optional styles/templates/content overrides (empty = embedded only)
}

// RemoteConfig defines the release origin for missing assets.
type RemoteConfig struct {
	BaseURL string        `yaml:"baseURL"` // Must end with "/"
	Timeout time.Duration `yaml:"timeout"` // Per download
}

// DisplayConfig defines page rendering options.
type DisplayConfig struct {
	Minify bool `yaml:"minify"` // Minify large map documents before embedding
}

// LogConfig defines structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ExportConfig defines PDF export through headless Chrome.
type ExportConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Landscape bool          `yaml:"landscape"`
	Date      string        `yaml:"date"` // Footer date: literal, "auto" or "auto:FORMAT"; empty omits it
}

// Validate checks field lengths, durations and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr: required", ErrInvalidValue)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdownTimeout: must be positive, got %s", ErrInvalidValue, c.Server.ShutdownTimeout)
	}

	if err := validateFieldLength("assets.dir", c.Assets.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.overrides", c.Assets.Overrides, MaxPathLength); err != nil {
		return err
	}
	if strings.TrimSpace(c.Assets.Dir) == "" {
		return fmt.Errorf("%w: assets.dir: required", ErrInvalidValue)
	}

	if err := validateFieldLength("remote.baseURL", c.Remote.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateBaseURL(c.Remote.BaseURL); err != nil {
		return err
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("%w: remote.timeout: must be positive, got %s", ErrInvalidValue, c.Remote.Timeout)
	}

	if err := validateFieldLength("log.level", c.Log.Level, MaxLevelLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("%w: log.level: %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}

	if c.Export.Timeout <= 0 {
		return fmt.Errorf("%w: export.timeout: must be positive, got %s", ErrInvalidValue, c.Export.Timeout)
	}
	if err := validateFieldLength("export.date", c.Export.Date, MaxDateLength); err != nil {
		return err
	}
	if _, err := dateutil.Resolve(c.Export.Date, time.Time{}); err != nil {
		return fmt.Errorf("%w: export.date: %v", ErrInvalidValue, err)
	}

	return nil
}

// validateBaseURL requires an absolute http(s) URL ending with a slash, since
// asset names are appended verbatim.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: remote.baseURL: %v", ErrInvalidValue, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: remote.baseURL: %q is not an absolute http(s) URL", ErrInvalidValue, raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		return fmt.Errorf("%w: remote.baseURL: %q must end with \"/\"", ErrInvalidValue, raw)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Assets: AssetsConfig{Dir: DefaultAssetsDir},
		Remote: RemoteConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultRemoteTimeout,
		},
		Display: DisplayConfig{Minify: true},
		Log:     LogConfig{Level: DefaultLogLevel},
		Export:  ExportConfig{Timeout: DefaultExportTimeout, Date: DefaultExportDate},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their defaults. Returns error if the file
// is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal renders cfg as YAML, in the same shape LoadConfig reads.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-primarybrief/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-primarybrief", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

