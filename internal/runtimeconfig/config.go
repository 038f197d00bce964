package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrRefreshIntervalInvalid = errors.New("contentsync config: refresh interval must be positive")
var ErrRedirectDelayInvalid = errors.New("contentsync config: redirect delay must be positive")
var ErrLocalesRequired = errors.New("contentsync config: at least one locale is required")
var ErrDefaultLocaleUnsupported = errors.New("contentsync config: default locale is not in the supported set")
var ErrFallbackLocaleUnsupported = errors.New("contentsync config: fallback locale is not in the supported set")
var ErrCollectionNameRequired = errors.New("contentsync config: collection name is required")
var ErrCollectionDuplicated = errors.New("contentsync config: collection is configured twice")
var ErrLoggingProviderRequired = errors.New("contentsync config: logging provider is required when logging is enabled")
var ErrLoggingProviderUnknown = errors.New("contentsync config: logging provider is invalid")
var ErrStorageProviderUnknown = errors.New("contentsync config: storage provider is invalid")
var ErrLoggingLevelInvalid = errors.New("contentsync config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("contentsync config: logging format is invalid")

// Config aggregates runtime settings for the sync module. Fields use simple
// types so host applications can populate them from their own config layer.
type Config struct {
	Enabled     bool
	Collections []CollectionConfig
	Locales     LocalesConfig
	Refresh     RefreshConfig
	Redirect    RedirectConfig
	Storage     StorageConfig
	Cache       CacheConfig
	Logging     LoggingConfig
	Features    Features
}

// CollectionConfig describes one admin panel.
type CollectionConfig struct {
	Name           string
	Capability     string
	Schema         map[string]any
	RequiredFields []string
}

// LocalesConfig mirrors the public site's locale surface.
type LocalesConfig struct {
	Supported         []string
	Default           string
	PrimaryFallback   string
	SecondaryFallback string
}

// RefreshConfig controls the background re-fetch cadence.
type RefreshConfig struct {
	Interval time.Duration
}

// RedirectConfig controls where and when a denied panel redirects.
type RedirectConfig struct {
	Delay    time.Duration
	Fallback string
	// RouteConfig, when set, resolves the redirect through go-urlkit.
	RouteConfig     *urlkit.Config
	Group           string
	Route           string
	CapabilityParam string
}

// Storage provider identifiers accepted by StorageConfig.
const (
	StorageProviderMemory = "memory"
	StorageProviderBun    = "bun"
)

// StorageConfig selects the gateway backing the module when the host does
// not supply one of its own.
type StorageConfig struct {
	Provider string
}

// NormalizedStorageProvider returns the provider identifier in canonical
// form; an empty value means the in-memory default.
func (s StorageConfig) NormalizedStorageProvider() string {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" {
		return StorageProviderMemory
	}
	return provider
}

// CacheConfig captures cache behaviour toggles for the regular read path.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Logger bool
	Cache  bool
}

// DefaultConfig returns defaults matching the public site's behaviour.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Locales: LocalesConfig{
			Supported:         []string{"en", "id", "ko"},
			Default:           "id",
			PrimaryFallback:   "ko",
			SecondaryFallback: "en",
		},
		Refresh: RefreshConfig{
			Interval: 5 * time.Second,
		},
		Redirect: RedirectConfig{
			Delay:    2 * time.Second,
			Fallback: "/",
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Refresh.Interval <= 0 {
		return ErrRefreshIntervalInvalid
	}
	if cfg.Redirect.Delay <= 0 {
		return ErrRedirectDelayInvalid
	}

	if len(cfg.Locales.Supported) == 0 {
		return ErrLocalesRequired
	}
	supported := make(map[string]struct{}, len(cfg.Locales.Supported))
	for _, code := range cfg.Locales.Supported {
		supported[normalizeLocale(code)] = struct{}{}
	}
	if _, ok := supported[normalizeLocale(cfg.Locales.Default)]; !ok {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleUnsupported, cfg.Locales.Default)
	}
	for _, fallback := range []string{cfg.Locales.PrimaryFallback, cfg.Locales.SecondaryFallback} {
		if strings.TrimSpace(fallback) == "" {
			continue
		}
		if _, ok := supported[normalizeLocale(fallback)]; !ok {
			return fmt.Errorf("%w: %s", ErrFallbackLocaleUnsupported, fallback)
		}
	}

	switch cfg.Storage.NormalizedStorageProvider() {
	case StorageProviderMemory, StorageProviderBun:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	seen := make(map[string]struct{}, len(cfg.Collections))
	for _, collection := range cfg.Collections {
		name := strings.TrimSpace(collection.Name)
		if name == "" {
			return ErrCollectionNameRequired
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s", ErrCollectionDuplicated, name)
		}
		seen[name] = struct{}{}
	}

	if cfg.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
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
	}
	return nil
}

func normalizeLocale(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
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
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
