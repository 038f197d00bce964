package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateRejectsBadCadence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Refresh.Interval = 0
	if err := cfg.Validate(); !errors.Is(err, ErrRefreshIntervalInvalid) {
		t.Fatalf("expected ErrRefreshIntervalInvalid, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Redirect.Delay = -time.Second
	if err := cfg.Validate(); !errors.Is(err, ErrRedirectDelayInvalid) {
		t.Fatalf("expected ErrRedirectDelayInvalid, got %v", err)
	}
}

func TestValidateLocales(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locales.Supported = nil
	if err := cfg.Validate(); !errors.Is(err, ErrLocalesRequired) {
		t.Fatalf("expected ErrLocalesRequired, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Locales.Default = "fr"
	if err := cfg.Validate(); !errors.Is(err, ErrDefaultLocaleUnsupported) {
		t.Fatalf("expected ErrDefaultLocaleUnsupported, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Locales.PrimaryFallback = "fr"
	if err := cfg.Validate(); !errors.Is(err, ErrFallbackLocaleUnsupported) {
		t.Fatalf("expected ErrFallbackLocaleUnsupported, got %v", err)
	}
}

func TestValidateCollections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collections = []CollectionConfig{{Name: "  "}}
	if err := cfg.Validate(); !errors.Is(err, ErrCollectionNameRequired) {
		t.Fatalf("expected ErrCollectionNameRequired, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Collections = []CollectionConfig{{Name: "banners"}, {Name: "banners"}}
	if err := cfg.Validate(); !errors.Is(err, ErrCollectionDuplicated) {
		t.Fatalf("expected ErrCollectionDuplicated, got %v", err)
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "zap"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestValidateStorageProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Provider = "redis"
	if err := cfg.Validate(); !errors.Is(err, ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}

	for _, provider := range []string{"", "memory", "bun", " Bun "} {
		cfg = DefaultConfig()
		cfg.Storage.Provider = provider
		if err := cfg.Validate(); err != nil {
			t.Fatalf("provider %q should validate, got %v", provider, err)
		}
	}
}
