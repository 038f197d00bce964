package locales

import (
	"strings"

	"github.com/goliatone/go-content-sync/records"
)

// Settings configures the locale surface of the admin panels: which locales
// exist, which one panels start in, and the fixed fallback chain applied by
// the overlay resolver.
type Settings struct {
	Supported []records.Locale
	Default   records.Locale
	// PrimaryFallback is the site's original-content locale, tried before
	// any other fallback.
	PrimaryFallback records.Locale
	// SecondaryFallback is tried after the primary fallback.
	SecondaryFallback records.Locale
}

// DefaultSettings mirrors the public site's locale configuration.
func DefaultSettings() Settings {
	return Settings{
		Supported:         []records.Locale{"en", "id", "ko"},
		Default:           "id",
		PrimaryFallback:   "ko",
		SecondaryFallback: "en",
	}
}

// Chain returns the resolver fallback chain for these settings.
func (s Settings) Chain() records.Chain {
	return records.Chain{Primary: s.PrimaryFallback, Secondary: s.SecondaryFallback}
}

// IsSupported reports whether code names a configured locale.
func (s Settings) IsSupported(code records.Locale) bool {
	normalized := Normalize(code)
	for _, candidate := range s.Supported {
		if Normalize(candidate) == normalized {
			return true
		}
	}
	return false
}

// Normalize lower-cases and trims a locale code.
func Normalize(code records.Locale) records.Locale {
	return records.Locale(strings.ToLower(strings.TrimSpace(string(code))))
}
