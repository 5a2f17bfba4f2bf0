package recipes

import "github.com/goliatone/go-recipes/internal/runtimeconfig"

var (
	ErrSessionKeyInvalid        = runtimeconfig.ErrSessionKeyInvalid
	ErrStorageDriverUnknown     = runtimeconfig.ErrStorageDriverUnknown
	ErrStoragePathRequired      = runtimeconfig.ErrStoragePathRequired
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrSyncModeInvalid          = runtimeconfig.ErrSyncModeInvalid
	ErrSyncIntervalInvalid      = runtimeconfig.ErrSyncIntervalInvalid
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrMarkdownExtensionUnknown = runtimeconfig.ErrMarkdownExtensionUnknown
)

type (
	Config         = runtimeconfig.Config
	SessionConfig  = runtimeconfig.SessionConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	SyncConfig     = runtimeconfig.SyncConfig
	ExportConfig   = runtimeconfig.ExportConfig
	HTTPConfig     = runtimeconfig.HTTPConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	Duration       = runtimeconfig.Duration
)

// DefaultConfig returns an in-memory editor listening on localhost.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a TOML or YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
