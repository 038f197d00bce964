package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-content-sync/internal/locales"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/internal/refresh"
	"github.com/goliatone/go-content-sync/internal/session"
	"github.com/goliatone/go-content-sync/internal/store"
	schemaval "github.com/goliatone/go-content-sync/internal/validation"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/records"
)

// DefaultRedirectDelay is how long a denied panel waits before signalling
// the redirect away from itself.
const DefaultRedirectDelay = 2 * time.Second

// Panel coordinates one admin collection: it gates startup on a capability
// check, keeps the published view live on a fixed cadence, suspends the
// refresh while a record is being composed, and funnels every write through
// ordering and soft-delete invariants.
type Panel interface {
	// Start checks the capability gate, performs the initial blocking fetch,
	// and arms the refresh scheduler. On denial the scheduler never starts
	// and a redirect fires after the configured delay.
	Start(ctx context.Context) error
	// Stop tears the panel down. Idempotent.
	Stop()
	Running() bool
	Denied() bool
	// Redirects delivers the denial signal for the UI host.
	Redirects() <-chan Redirect

	// Snapshot returns the current published view.
	Snapshot() refresh.Snapshot
	// Refresh runs one forced fetch-and-publish outside the schedule.
	Refresh(ctx context.Context) error

	SessionState() session.State
	BeginEdit(recordID uuid.UUID) (*records.Draft, error)
	BeginCreate() (*records.Draft, error)
	UpdateDraft(draft *records.Draft) error
	Cancel() error
	Save(ctx context.Context) (uuid.UUID, error)
	Delete(ctx context.Context, recordID uuid.UUID) error
}

type panel struct {
	collection string
	capability string

	gateway interfaces.StoreGateway
	auth    interfaces.AuthProvider

	sess     *session.Session
	view     *refresh.View
	sched    *refresh.Scheduler
	locales  *locales.State
	resolver *records.Resolver
	codec    *store.Codec

	schema         map[string]any
	requiredFields []records.FieldName

	logger        interfaces.Logger
	clock         func() time.Time
	interval      time.Duration
	redirectDelay time.Duration
	redirect      RedirectResolver
	redirects     chan Redirect

	mu      sync.Mutex
	started bool
	denied  bool
	cancel  context.CancelFunc
	runCtx  context.Context
}

// Option configures a panel at construction time.
type Option func(*panel)

// WithCapability sets the capability the permission gate is asked for.
func WithCapability(capability string) Option {
	return func(p *panel) {
		if capability != "" {
			p.capability = capability
		}
	}
}

// WithRefreshInterval overrides the scheduler cadence.
func WithRefreshInterval(interval time.Duration) Option {
	return func(p *panel) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithRedirectDelay overrides the delay before the denial redirect fires.
func WithRedirectDelay(delay time.Duration) Option {
	return func(p *panel) {
		if delay > 0 {
			p.redirectDelay = delay
		}
	}
}

// WithRedirectResolver sets where a denied panel redirects to.
func WithRedirectResolver(resolver RedirectResolver) Option {
	return func(p *panel) {
		if resolver != nil {
			p.redirect = resolver
		}
	}
}

// WithLocaleState shares a locale state between panels so a locale switch
// re-projects every published view.
func WithLocaleState(state *locales.State) Option {
	return func(p *panel) {
		if state != nil {
			p.locales = state
		}
	}
}

// WithLogger injects the panel logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock overrides the clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(p *panel) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithSchema installs a collection document schema checked on every save.
func WithSchema(schema map[string]any) Option {
	return func(p *panel) {
		p.schema = schema
	}
}

// WithRequiredFields names localized fields that must carry a non-empty
// value in the editing locale before a save is dispatched.
func WithRequiredFields(fields ...records.FieldName) Option {
	return func(p *panel) {
		p.requiredFields = fields
	}
}

// New builds a panel for one collection.
func New(collection string, gateway interfaces.StoreGateway, auth interfaces.AuthProvider, opts ...Option) (Panel, error) {
	if collection == "" {
		return nil, interfaces.ErrCollectionRequired
	}
	if gateway == nil {
		return nil, errors.New("coordinator: store gateway is required")
	}
	if auth == nil {
		return nil, errors.New("coordinator: auth provider is required")
	}

	p := &panel{
		collection:    collection,
		capability:    interfaces.CapabilityWebsiteManagement,
		gateway:       gateway,
		auth:          auth,
		sess:          session.New(),
		view:          refresh.NewView(),
		locales:       locales.NewState(locales.DefaultSettings()),
		logger:        logging.NoOp(),
		clock:         time.Now,
		interval:      refresh.DefaultInterval,
		redirectDelay: DefaultRedirectDelay,
		redirect:      StaticRedirect("/"),
		redirects:     make(chan Redirect, 1),
	}
	for _, opt := range opts {
		opt(p)
	}

	settings := p.locales.Settings()
	p.resolver = records.NewResolver(settings.Chain())
	p.codec = store.NewCodec(settings.Supported)

	sched, err := refresh.NewScheduler(p.fetch, p.publishRecords,
		refresh.WithInterval(p.interval),
		refresh.WithSuppression(p.sess.Active),
		refresh.WithLogger(p.logger),
		refresh.WithClock(p.clock),
	)
	if err != nil {
		return nil, err
	}
	p.sched = sched
	return p, nil
}

func (p *panel) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.mu.Unlock()

	allowed, err := p.auth.HasCapability(ctx, p.capability)
	if err != nil || !allowed {
		p.mu.Lock()
		p.denied = true
		p.mu.Unlock()
		p.logger.Warn("panel.start.denied",
			"collection", p.collection,
			"capability", p.capability,
			"error", err,
		)
		p.scheduleRedirect()
		return &PermissionDeniedError{Capability: p.capability}
	}

	recs, err := p.fetch(ctx)
	if err != nil {
		return &InitialLoadError{Cause: err}
	}
	p.publishRecords(recs)

	runCtx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.started = true
	p.runCtx = runCtx
	p.cancel = cancel
	p.mu.Unlock()

	p.sched.Start(runCtx)
	p.watchLocale(runCtx)

	p.logger.Info("panel.start",
		"collection", p.collection,
		"records", len(recs),
		"interval", p.interval.String(),
	)
	return nil
}

func (p *panel) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.started = false
	p.mu.Unlock()

	p.sched.Stop()
	if cancel != nil {
		cancel()
	}
}

func (p *panel) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *panel) Denied() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.denied
}

func (p *panel) Redirects() <-chan Redirect {
	return p.redirects
}

func (p *panel) Snapshot() refresh.Snapshot {
	return p.view.Snapshot()
}

func (p *panel) Refresh(ctx context.Context) error {
	recs, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	p.publishRecords(recs)
	return nil
}

func (p *panel) SessionState() session.State {
	return p.sess.State()
}

// BeginEdit opens a record from the published view for editing. The session
// takes a draft copy; the authoritative record stays untouched until save.
// The refresh timer is cleared for the duration of the edit.
func (p *panel) BeginEdit(recordID uuid.UUID) (*records.Draft, error) {
	if !p.Running() {
		return nil, ErrNotStarted
	}

	var target *records.ContentRecord
	for _, rec := range p.view.Snapshot().Records {
		if rec.ID == recordID {
			target = rec
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%s %q: %w", p.collection, recordID, interfaces.ErrRecordNotFound)
	}
	if !records.IsActive(target) {
		return nil, records.ErrRecordDeleted
	}

	draft := records.DraftFromRecord(target, p.resolver, p.locales.Current())
	if err := p.sess.Begin(draft); err != nil {
		return nil, err
	}
	p.sched.Stop()
	return draft, nil
}

// BeginCreate starts composing a brand new record. The draft is seeded with
// the next free order value.
func (p *panel) BeginCreate() (*records.Draft, error) {
	if !p.Running() {
		return nil, ErrNotStarted
	}

	draft := records.NewDraft(p.locales.Current())
	draft.Order = p.nextOrder()
	if err := p.sess.Begin(draft); err != nil {
		return nil, err
	}
	p.sched.Stop()
	return draft, nil
}

func (p *panel) UpdateDraft(draft *records.Draft) error {
	return p.sess.Update(draft)
}

func (p *panel) Cancel() error {
	if err := p.sess.Cancel(); err != nil {
		return err
	}
	p.resumeScheduler()
	return nil
}

// Save validates the draft, dispatches the write, and reconciles the view
// with one unconditional re-fetch. Validation failures leave the session in
// editing; write failures fall back to editing with the draft preserved.
func (p *panel) Save(ctx context.Context) (uuid.UUID, error) {
	if !p.Running() {
		return uuid.Nil, ErrNotStarted
	}

	draft := p.sess.Draft()
	if draft == nil {
		return uuid.Nil, session.ErrNotEditing
	}
	if err := p.validateDraft(draft); err != nil {
		return uuid.Nil, err
	}

	draft, err := p.sess.Submit()
	if err != nil {
		return uuid.Nil, err
	}

	actor, err := p.auth.CurrentUser(ctx)
	if err != nil {
		_ = p.sess.Fail()
		return uuid.Nil, &WriteError{Cause: err}
	}

	recordID := uuid.Nil
	if draft.RecordID != nil {
		recordID = *draft.RecordID
	}
	patch := p.draftPatch(draft)
	stampAudit(patch, actor, p.clock(), recordID == uuid.Nil)

	savedID, err := p.gateway.Write(ctx, p.collection, recordID, patch)
	if err != nil {
		_ = p.sess.Fail()
		p.logger.Error("panel.save.failed",
			"collection", p.collection,
			"record", recordID.String(),
			"error", err,
		)
		return uuid.Nil, &WriteError{Cause: err}
	}

	_ = p.sess.Complete()
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("panel.save.refetch_failed", "collection", p.collection, "error", err)
	}
	p.resumeScheduler()

	p.logger.Info("panel.save", "collection", p.collection, "record", savedID.String())
	return savedID, nil
}

// Delete tombstones a record. The document and its audit trail are retained;
// only the deletion fields are written. Deleting an already tombstoned
// record produces the same visible state.
func (p *panel) Delete(ctx context.Context, recordID uuid.UUID) error {
	if !p.Running() {
		return ErrNotStarted
	}
	if p.sess.Active() {
		return session.ErrNotIdle
	}
	if recordID == uuid.Nil {
		return records.ErrRecordRequired
	}

	actor, err := p.auth.CurrentUser(ctx)
	if err != nil {
		return &WriteError{Cause: err}
	}

	patch := records.Tombstone(actor, p.clock())
	if _, err := p.gateway.Write(ctx, p.collection, recordID, patch); err != nil {
		p.logger.Error("panel.delete.failed",
			"collection", p.collection,
			"record", recordID.String(),
			"error", err,
		)
		return &WriteError{Cause: err}
	}

	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("panel.delete.refetch_failed", "collection", p.collection, "error", err)
	}

	p.logger.Info("panel.delete", "collection", p.collection, "record", recordID.String())
	return nil
}

func (p *panel) fetch(ctx context.Context) ([]*records.ContentRecord, error) {
	return p.gateway.ForceRead(ctx, p.collection, interfaces.ReadOptions{
		ActiveOnly:   true,
		OrderByOrder: true,
	})
}

func (p *panel) publishRecords(recs []*records.ContentRecord) {
	active := records.FilterActive(recs)
	records.SortByOrder(active)
	resolved := p.resolver.ProjectAll(active, p.locales.Current())
	p.view.Publish(active, resolved, p.clock())
}

func (p *panel) watchLocale(ctx context.Context) {
	changes, err := p.locales.Subscribe(ctx)
	if err != nil {
		return
	}
	go func() {
		for range changes {
			snap := p.view.Snapshot()
			p.publishRecords(snap.Records)
		}
	}()
}

func (p *panel) resumeScheduler() {
	p.mu.Lock()
	runCtx := p.runCtx
	started := p.started
	denied := p.denied
	p.mu.Unlock()
	if started && !denied && runCtx != nil {
		p.sched.Start(runCtx)
	}
}

func (p *panel) scheduleRedirect() {
	capability := p.capability
	time.AfterFunc(p.redirectDelay, func() {
		signal := Redirect{
			URL:        p.redirect.Resolve(capability),
			Capability: capability,
			At:         p.clock(),
		}
		select {
		case p.redirects <- signal:
		default:
		}
	})
}

func (p *panel) nextOrder() int {
	next := 1
	for _, rec := range p.view.Snapshot().Records {
		if records.IsActive(rec) && rec.Order >= next {
			next = rec.Order + 1
		}
	}
	return next
}

func (p *panel) validateDraft(draft *records.Draft) error {
	errs := validation.Errors{}
	if draft.Order <= 0 {
		errs["order"] = validation.NewError("content.save.order_invalid", "order must be a positive integer")
	}
	for _, field := range p.requiredFields {
		if !presentValue(draft.Values[field]) {
			errs[string(field)] = validation.NewError(
				"content.save.field_required",
				fmt.Sprintf("%s is required", field),
			)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	recordID := uuid.Nil
	if draft.RecordID != nil {
		recordID = *draft.RecordID
	}
	if err := records.ValidateOrder(draft.Order, recordID, p.view.Snapshot().Records); err != nil {
		return err
	}

	if p.schema != nil {
		if err := schemaval.ValidatePatch(p.schema, p.draftPatch(draft)); err != nil {
			return err
		}
	}
	return nil
}

func (p *panel) draftPatch(draft *records.Draft) records.Patch {
	patch := records.Patch{
		store.KeyOrder:       draft.Order,
		store.KeyFeatured:    draft.Featured,
		records.KeyIsDeleted: false,
	}
	for field, value := range draft.Values {
		patch[p.codec.LocalizedKey(field, draft.Locale)] = value
	}
	if draft.ImageURL != "" {
		patch[store.KeyImageURL] = draft.ImageURL
	}
	if len(draft.Links) > 0 {
		links := make(map[string]any, len(draft.Links))
		for name, url := range draft.Links {
			links[name] = url
		}
		patch[store.KeyLinks] = links
	}
	return patch
}

func stampAudit(patch records.Patch, actor records.Actor, now time.Time, isNew bool) {
	stamp := now.UTC().Format(time.RFC3339)
	patch[store.KeyUpdatedBy] = actor.ID
	patch[store.KeyUpdatedByName] = actor.Name
	patch[store.KeyUpdatedAt] = stamp
	if isNew {
		patch[store.KeyCreatedBy] = actor.ID
		patch[store.KeyCreatedByName] = actor.Name
		patch[store.KeyCreatedAt] = stamp
	}
}

func presentValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	}
	return true
}
