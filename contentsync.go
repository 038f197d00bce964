// Package contentsync keeps admin panels for remotely stored, localized
// content live and safe to edit: it re-fetches authoritative state on a
// fixed cadence, suspends the refresh while a record is mid-edit, resolves
// locale overlays through a fixed fallback chain, and enforces ordering and
// soft-delete invariants on every write.
package contentsync

import (
	"context"
	"errors"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-sync/internal/coordinator"
	"github.com/goliatone/go-content-sync/internal/locales"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/internal/logging/gologger"
	"github.com/goliatone/go-content-sync/internal/refresh"
	"github.com/goliatone/go-content-sync/internal/session"
	"github.com/goliatone/go-content-sync/internal/store"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/records"
)

// Panel exports the per-collection coordinator contract.
type Panel = coordinator.Panel

// Redirect exports the denial signal delivered on permission denial.
type Redirect = coordinator.Redirect

// Snapshot exports one published generation of a panel view.
type Snapshot = refresh.Snapshot

// SessionState exports the edit session lifecycle states.
type SessionState = session.State

// Edit session states, re-exported for UI hosts.
const (
	SessionIdle    = session.StateIdle
	SessionEditing = session.StateEditing
	SessionSaving  = session.StateSaving
)

// Capability names understood by the permission gate.
const (
	CapabilityWebsiteManagement  = interfaces.CapabilityWebsiteManagement
	CapabilityEmployeeManagement = interfaces.CapabilityEmployeeManagement
	CapabilityDashboard          = interfaces.CapabilityDashboard
	CapabilityMedia              = interfaces.CapabilityMedia
)

type (
	// ContentRecord exports the multi-locale record model.
	ContentRecord = records.ContentRecord
	// ResolvedRecord exports the single-locale projection of a record.
	ResolvedRecord = records.ResolvedRecord
	// Draft exports the in-progress edit copy.
	Draft = records.Draft
	// Locale exports the locale code type.
	Locale = records.Locale
	// FieldName exports the record field name type.
	FieldName = records.FieldName
	// Actor exports the audit actor identity.
	Actor = records.Actor
	// Patch exports the merge-patch document shape.
	Patch = records.Patch
	// StoreGateway exports the remote document store contract.
	StoreGateway = interfaces.StoreGateway
	// AuthProvider exports the permission gate contract.
	AuthProvider = interfaces.AuthProvider
	// ReadOptions exports the gateway read options.
	ReadOptions = interfaces.ReadOptions
)

// ErrRecordNotFound exports the gateway's missing-record sentinel.
var ErrRecordNotFound = interfaces.ErrRecordNotFound

// ErrDatabaseRequired is returned when the bun storage provider is
// configured without a database handle.
var ErrDatabaseRequired = errors.New("contentsync: storage provider bun requires a database")

// Module is the top level runtime facade: one panel per configured
// collection, sharing a locale state, store gateway, and permission gate.
type Module struct {
	cfg      Config
	auth     interfaces.AuthProvider
	db       *bun.DB
	gateway  interfaces.StoreGateway
	locales  *locales.State
	provider interfaces.LoggerProvider
	panels   map[string]coordinator.Panel
	order    []string
}

// Option overrides module collaborators.
type Option func(*Module)

// WithStoreGateway replaces the default in-memory gateway, typically with
// the bun-backed gateway.
func WithStoreGateway(gateway interfaces.StoreGateway) Option {
	return func(m *Module) {
		if gateway != nil {
			m.gateway = gateway
		}
	}
}

// WithDatabase supplies the bun handle the "bun" storage provider builds
// its gateway on.
func WithDatabase(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithLoggerProvider replaces the logger provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.provider = provider
		}
	}
}

// New constructs the module from configuration: locale state, store
// gateway, and one coordinator panel per collection.
func New(cfg Config, auth AuthProvider, opts ...Option) (*Module, error) {
	if auth == nil {
		return nil, errors.New("contentsync: auth provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{
		cfg:    cfg,
		auth:   auth,
		panels: make(map[string]coordinator.Panel, len(cfg.Collections)),
	}
	for _, opt := range opts {
		opt(m)
	}

	settings := localeSettings(cfg.Locales)
	m.locales = locales.NewState(settings)

	if m.provider == nil && cfg.Features.Logger && strings.EqualFold(cfg.Logging.Provider, "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	if m.gateway == nil {
		gateway, err := buildGateway(cfg, m.db, store.NewCodec(settings.Supported))
		if err != nil {
			return nil, err
		}
		m.gateway = gateway
	}

	redirect := redirectResolver(cfg.Redirect)
	for _, collection := range cfg.Collections {
		panelOpts := []coordinator.Option{
			coordinator.WithLocaleState(m.locales),
			coordinator.WithRefreshInterval(cfg.Refresh.Interval),
			coordinator.WithRedirectDelay(cfg.Redirect.Delay),
			coordinator.WithRedirectResolver(redirect),
			coordinator.WithLogger(logging.CoordinatorLogger(m.provider)),
		}
		if collection.Capability != "" {
			panelOpts = append(panelOpts, coordinator.WithCapability(collection.Capability))
		}
		if collection.Schema != nil {
			panelOpts = append(panelOpts, coordinator.WithSchema(collection.Schema))
		}
		if len(collection.RequiredFields) > 0 {
			fields := make([]records.FieldName, 0, len(collection.RequiredFields))
			for _, field := range collection.RequiredFields {
				fields = append(fields, records.FieldName(field))
			}
			panelOpts = append(panelOpts, coordinator.WithRequiredFields(fields...))
		}

		panel, err := coordinator.New(collection.Name, m.gateway, auth, panelOpts...)
		if err != nil {
			return nil, err
		}
		m.panels[collection.Name] = panel
		m.order = append(m.order, collection.Name)
	}

	return m, nil
}

// Start brings every panel up. Denied or failed panels do not prevent the
// rest from starting; the combined error reports each failure. A disabled
// module starts nothing.
func (m *Module) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}
	var errs []error
	for _, name := range m.order {
		if err := m.panels[name].Start(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stop tears every panel down. Idempotent.
func (m *Module) Stop() {
	for _, panel := range m.panels {
		panel.Stop()
	}
}

// Panel returns the coordinator for a configured collection.
func (m *Module) Panel(collection string) (Panel, bool) {
	panel, ok := m.panels[collection]
	return panel, ok
}

// Collections lists the configured collection names in config order.
func (m *Module) Collections() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Locales exposes the shared locale state. Switching the locale re-projects
// every panel's published view.
func (m *Module) Locales() *locales.State {
	return m.locales
}

// Gateway exposes the store gateway, mainly so hosts can Subscribe for
// push-based public consumers.
func (m *Module) Gateway() StoreGateway {
	return m.gateway
}

// buildGateway realizes the configured storage provider. The bun provider
// attaches the read-path cache when the cache feature is enabled; ForceRead
// stays uncached either way.
func buildGateway(cfg Config, db *bun.DB, codec *store.Codec) (interfaces.StoreGateway, error) {
	switch cfg.Storage.NormalizedStorageProvider() {
	case StorageProviderBun:
		if db == nil {
			return nil, ErrDatabaseRequired
		}
		if cfg.Features.Cache && cfg.Cache.Enabled {
			cacheCfg := repocache.DefaultConfig()
			if cfg.Cache.DefaultTTL > 0 {
				cacheCfg.TTL = cfg.Cache.DefaultTTL
			}
			cacheService, err := repocache.NewCacheService(cacheCfg)
			if err != nil {
				return nil, err
			}
			return store.NewBunGatewayWithCache(db, codec, cacheService, repocache.NewDefaultKeySerializer()), nil
		}
		return store.NewBunGateway(db, codec), nil
	default:
		return store.NewMemoryGateway(codec), nil
	}
}

func localeSettings(cfg LocalesConfig) locales.Settings {
	settings := locales.Settings{
		Default:           records.Locale(cfg.Default),
		PrimaryFallback:   records.Locale(cfg.PrimaryFallback),
		SecondaryFallback: records.Locale(cfg.SecondaryFallback),
	}
	for _, code := range cfg.Supported {
		settings.Supported = append(settings.Supported, records.Locale(code))
	}
	return settings
}

func redirectResolver(cfg RedirectConfig) coordinator.RedirectResolver {
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = "/"
	}
	if cfg.RouteConfig == nil {
		return coordinator.StaticRedirect(fallback)
	}
	return &coordinator.URLKitRedirect{
		Manager:         urlkit.NewRouteManager(cfg.RouteConfig),
		Group:           cfg.Group,
		Route:           cfg.Route,
		Fallback:        fallback,
		CapabilityParam: cfg.CapabilityParam,
	}
}
