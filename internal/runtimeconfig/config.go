package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrSessionKeyInvalid = errors.New("recipes config: session key must not contain path separators")
var ErrStorageDriverUnknown = errors.New("recipes config: storage driver is invalid")
var ErrStoragePathRequired = errors.New("recipes config: storage path is required for this driver")
var ErrStorageDSNRequired = errors.New("recipes config: storage dsn is required for postgres")
var ErrCacheTTLInvalid = errors.New("recipes config: cache ttl must be zero or positive")
var ErrSyncModeInvalid = errors.New("recipes config: sync mode is invalid")
var ErrSyncIntervalInvalid = errors.New("recipes config: sync interval must be positive")
var ErrHTTPAddrRequired = errors.New("recipes config: http address is required")
var ErrLoggingProviderRequired = errors.New("recipes config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("recipes config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("recipes config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("recipes config: logging format is invalid")
var ErrMarkdownExtensionUnknown = errors.New("recipes config: markdown extension is invalid")

// Drivers, sync modes and markdown extensions accepted by Validate. They
// mirror the values understood by the store, syncloop and markdown packages.
var (
	StorageDrivers     = []string{"memory", "file", "bolt", "sqlite", "postgres"}
	SyncModes          = []string{"interval", "change", "both"}
	MarkdownExtensions = []string{"gfm", "linkify", "strikethrough", "table", "typographer"}
)

// Config aggregates the settings of one editor process. Fields use simple
// types so they map directly onto TOML and YAML files.
type Config struct {
	Session  SessionConfig  `toml:"session" yaml:"session"`
	Storage  StorageConfig  `toml:"storage" yaml:"storage"`
	Sync     SyncConfig     `toml:"sync" yaml:"sync"`
	Export   ExportConfig   `toml:"export" yaml:"export"`
	HTTP     HTTPConfig     `toml:"http" yaml:"http"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Markdown MarkdownConfig `toml:"markdown" yaml:"markdown"`
}

// SessionConfig names the editing session. The key is hashed into the
// persistence key, so renaming it starts from the seed.
type SessionConfig struct {
	Key string `toml:"key" yaml:"key"`
}

// StorageConfig selects the persistence driver.
type StorageConfig struct {
	Driver string      `toml:"driver" yaml:"driver"`
	Path   string      `toml:"path" yaml:"path"`
	DSN    string      `toml:"dsn" yaml:"dsn"`
	Cache  CacheConfig `toml:"cache" yaml:"cache"`
}

// CacheConfig toggles the read-through cache of the SQL drivers.
type CacheConfig struct {
	Enabled bool     `toml:"enabled" yaml:"enabled"`
	TTL     Duration `toml:"ttl" yaml:"ttl"`
}

// SyncConfig controls when the live view is decoded and saved.
type SyncConfig struct {
	Mode     string   `toml:"mode" yaml:"mode"`
	Interval Duration `toml:"interval" yaml:"interval"`
}

// ExportConfig controls markdown exports written to disk.
type ExportConfig struct {
	Dir         string `toml:"dir" yaml:"dir"`
	Frontmatter bool   `toml:"frontmatter" yaml:"frontmatter"`
}

// HTTPConfig controls the editor frontend.
type HTTPConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	BasePath string `toml:"base_path" yaml:"base_path"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider" yaml:"provider"`
	Level     string   `toml:"level" yaml:"level"`
	Format    string   `toml:"format" yaml:"format"`
	AddSource bool     `toml:"add_source" yaml:"add_source"`
	Focus     []string `toml:"focus" yaml:"focus"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for the preview.
type MarkdownConfig struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	HardWraps  bool     `toml:"hard_wraps" yaml:"hard_wraps"`
	RawHTML    bool     `toml:"raw_html" yaml:"raw_html"`
}

// DefaultConfig returns an in-memory editor on 127.0.0.1:8080 that saves on
// every change and once a second.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Key: "default",
		},
		Storage: StorageConfig{
			Driver: "memory",
			Cache: CacheConfig{
				TTL: Duration(time.Minute),
			},
		},
		Sync: SyncConfig{
			Mode:     "both",
			Interval: Duration(time.Second),
		},
		Export: ExportConfig{
			Dir: "exports",
		},
		HTTP: HTTPConfig{
			Addr:     "127.0.0.1:8080",
			BasePath: "/",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm"},
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.ContainsAny(cfg.Session.Key, `/\`) {
		return fmt.Errorf("%w: %q", ErrSessionKeyInvalid, cfg.Session.Key)
	}

	driver := normalize(cfg.Storage.Driver)
	if driver != "" && !slices.Contains(StorageDrivers, driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	switch driver {
	case "file", "bolt":
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			return fmt.Errorf("%w: %s", ErrStoragePathRequired, driver)
		}
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.Path) == "" && strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStoragePathRequired, driver)
		}
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	if cfg.Storage.Cache.TTL < 0 {
		return ErrCacheTTLInvalid
	}

	if mode := normalize(cfg.Sync.Mode); mode != "" && !slices.Contains(SyncModes, mode) {
		return fmt.Errorf("%w: %s", ErrSyncModeInvalid, mode)
	}
	if cfg.Sync.Interval <= 0 {
		return ErrSyncIntervalInvalid
	}

	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	for _, ext := range cfg.Markdown.Extensions {
		if !slices.Contains(MarkdownExtensions, normalize(ext)) {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, ext)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
