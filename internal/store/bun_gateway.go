package store

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/records"
)

const recordNamespace = "content_record"

// BunGateway persists collections in a bun-backed database. Read may be
// served through an optional repository cache; ForceRead always goes to the
// uncached repository so refresh cycles observe the store's authoritative
// state. Writes merge the patch into the stored document, invalidate the
// cache namespace, and notify subscribers.
type BunGateway struct {
	db          *bun.DB
	repo        repository.Repository[*StoredRecord]
	cachedRepo  repository.Repository[*StoredRecord]
	cacheSvc    cache.CacheService
	cachePrefix string
	codec       *Codec
	broadcaster *listBroadcaster
	clock       func() time.Time
	idGenerator func() uuid.UUID
}

// BunOption configures a BunGateway.
type BunOption func(*BunGateway)

// WithBunClock overrides the timestamp source for row bookkeeping.
func WithBunClock(clock func() time.Time) BunOption {
	return func(g *BunGateway) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithBunIDGenerator overrides how the gateway mints IDs for created rows.
func WithBunIDGenerator(generator func() uuid.UUID) BunOption {
	return func(g *BunGateway) {
		if generator != nil {
			g.idGenerator = generator
		}
	}
}

// NewBunGateway creates a gateway without caching.
func NewBunGateway(db *bun.DB, codec *Codec, opts ...BunOption) *BunGateway {
	return NewBunGatewayWithCache(db, codec, nil, nil, opts...)
}

// NewBunGatewayWithCache creates a gateway whose regular read path is served
// through the supplied cache service.
func NewBunGatewayWithCache(db *bun.DB, codec *Codec, cacheService cache.CacheService, serializer cache.KeySerializer, opts ...BunOption) *BunGateway {
	base := NewStoredRecordRepository(db)
	cached := base
	var svc cache.CacheService
	prefix := ""
	if cacheService != nil && serializer != nil {
		cached = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
		prefix = cachePrefix(recordNamespace)
	}
	gateway := &BunGateway{
		db:          db,
		repo:        base,
		cachedRepo:  cached,
		cacheSvc:    svc,
		cachePrefix: prefix,
		codec:       codec,
		broadcaster: newListBroadcaster(),
		clock:       time.Now,
		idGenerator: uuid.New,
	}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway
}

// EnsureSchema creates the backing table when it does not exist yet.
func (g *BunGateway) EnsureSchema(ctx context.Context) error {
	if _, err := g.db.NewCreateTable().Model((*StoredRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create content_records table: %w", err)
	}
	return nil
}

// ForceRead reads the collection from the uncached repository.
func (g *BunGateway) ForceRead(ctx context.Context, collection string, opts interfaces.ReadOptions) ([]*records.ContentRecord, error) {
	return g.read(ctx, g.repo, collection, opts)
}

// Read serves the regular read path, through the cache when configured.
func (g *BunGateway) Read(ctx context.Context, collection string, opts interfaces.ReadOptions) ([]*records.ContentRecord, error) {
	return g.read(ctx, g.cachedRepo, collection, opts)
}

func (g *BunGateway) read(ctx context.Context, repo repository.Repository[*StoredRecord], collection string, opts interfaces.ReadOptions) ([]*records.ContentRecord, error) {
	if collection == "" {
		return nil, interfaces.ErrCollectionRequired
	}

	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.collection = ?", collection)
			if opts.ActiveOnly {
				q = q.Where("?TableAlias.is_deleted = ?", false)
			}
			if opts.FeaturedOnly {
				q = q.Where("?TableAlias.featured = ?", true)
			}
			if opts.OrderByOrder {
				q = q.OrderExpr("?TableAlias.order_value ASC, ?TableAlias.created_at ASC")
			}
			return q
		}),
	}
	if opts.Limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(opts.Limit, 0))
	}

	rows, _, err := repo.List(ctx, criteria...)
	if err != nil {
		return nil, mapRepositoryError(err, "content_record", collection)
	}

	list := make([]*records.ContentRecord, 0, len(rows))
	for _, row := range rows {
		list = append(list, g.codec.Decode(row.ID, row.Document))
	}
	if opts.OrderByOrder {
		records.SortByOrder(list)
	}
	return list, nil
}

// Write merges the patch into the stored document, creating the row when the
// id is uuid.Nil or not yet stored. The cache namespace is invalidated so the
// next Read observes the write.
func (g *BunGateway) Write(ctx context.Context, collection string, id uuid.UUID, patch records.Patch) (uuid.UUID, error) {
	if collection == "" {
		return uuid.Nil, interfaces.ErrCollectionRequired
	}
	if len(patch) == 0 {
		return uuid.Nil, interfaces.ErrEmptyPatch
	}

	now := g.clock().UTC()

	var (
		row    *StoredRecord
		insert bool
	)
	if id == uuid.Nil {
		id = g.idGenerator()
	}
	existing, err := g.repo.GetByID(ctx, id.String())
	switch {
	case err == nil:
		if existing.Collection != collection {
			return uuid.Nil, interfaces.ErrRecordNotFound
		}
		row = existing
		if row.Document == nil {
			row.Document = map[string]any{}
		}
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		// Document-store set semantics: a write to an unknown id creates
		// the document.
		insert = true
		row = &StoredRecord{
			ID:         id,
			Collection: collection,
			Document:   map[string]any{},
			CreatedAt:  now,
		}
	default:
		return uuid.Nil, mapRepositoryError(err, "content_record", id.String())
	}

	for key, value := range patch {
		row.Document[key] = value
	}
	decoded := g.codec.Decode(row.ID, row.Document)
	row.OrderValue = decoded.Order
	row.Featured = decoded.Featured
	row.IsDeleted = decoded.Deletion != nil
	row.UpdatedAt = now

	if insert {
		_, err = g.repo.Create(ctx, row)
	} else {
		_, err = g.repo.Update(ctx, row)
	}
	if err != nil {
		return uuid.Nil, mapRepositoryError(err, "content_record", row.ID.String())
	}

	if invErr := g.InvalidateCache(ctx); invErr != nil {
		return row.ID, invErr
	}
	g.notify(ctx, collection)
	return row.ID, nil
}

// Subscribe delivers the active ordered list after every accepted write.
func (g *BunGateway) Subscribe(ctx context.Context, collection string) (<-chan []*records.ContentRecord, error) {
	if collection == "" {
		return nil, interfaces.ErrCollectionRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.broadcaster.subscribe(ctx, collection), nil
}

// InvalidateCache drops every cached entry in the gateway's namespace.
func (g *BunGateway) InvalidateCache(ctx context.Context) error {
	if g.cacheSvc == nil || g.cachePrefix == "" {
		return nil
	}
	return g.cacheSvc.DeleteByPrefix(ctx, g.cachePrefix)
}

func (g *BunGateway) notify(ctx context.Context, collection string) {
	list, err := g.ForceRead(ctx, collection, interfaces.ReadOptions{
		ActiveOnly:   true,
		OrderByOrder: true,
	})
	if err != nil {
		return
	}
	g.broadcaster.publish(collection, list)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("%s %q: %w", resource, key, interfaces.ErrRecordNotFound)
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
