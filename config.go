package contentsync

import "github.com/goliatone/go-content-sync/internal/runtimeconfig"

var (
	ErrRefreshIntervalInvalid    = runtimeconfig.ErrRefreshIntervalInvalid
	ErrRedirectDelayInvalid      = runtimeconfig.ErrRedirectDelayInvalid
	ErrLocalesRequired           = runtimeconfig.ErrLocalesRequired
	ErrDefaultLocaleUnsupported  = runtimeconfig.ErrDefaultLocaleUnsupported
	ErrFallbackLocaleUnsupported = runtimeconfig.ErrFallbackLocaleUnsupported
	ErrCollectionNameRequired    = runtimeconfig.ErrCollectionNameRequired
	ErrCollectionDuplicated      = runtimeconfig.ErrCollectionDuplicated
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
)

// Storage provider identifiers accepted by StorageConfig.
const (
	StorageProviderMemory = runtimeconfig.StorageProviderMemory
	StorageProviderBun    = runtimeconfig.StorageProviderBun
)

type (
	Config           = runtimeconfig.Config
	CollectionConfig = runtimeconfig.CollectionConfig
	LocalesConfig    = runtimeconfig.LocalesConfig
	RefreshConfig    = runtimeconfig.RefreshConfig
	RedirectConfig   = runtimeconfig.RedirectConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	Features         = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
