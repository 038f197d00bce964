package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/records"
	"github.com/google/uuid"
)

// MemoryGateway keeps collections of raw documents in process memory. It is
// the backing store for tests and for embedders that do not need
// persistence. Writes merge patches last-write-wins, matching the remote
// document store contract.
type MemoryGateway struct {
	mu          sync.RWMutex
	collections map[string]map[uuid.UUID]map[string]any
	codec       *Codec
	broadcaster *listBroadcaster
	idGenerator func() uuid.UUID
}

// MemoryOption configures a MemoryGateway.
type MemoryOption func(*MemoryGateway)

// WithMemoryIDGenerator overrides how the gateway mints IDs for created
// documents.
func WithMemoryIDGenerator(generator func() uuid.UUID) MemoryOption {
	return func(g *MemoryGateway) {
		if generator != nil {
			g.idGenerator = generator
		}
	}
}

// NewMemoryGateway builds an empty in-memory gateway.
func NewMemoryGateway(codec *Codec, opts ...MemoryOption) *MemoryGateway {
	gateway := &MemoryGateway{
		collections: map[string]map[uuid.UUID]map[string]any{},
		codec:       codec,
		broadcaster: newListBroadcaster(),
		idGenerator: uuid.New,
	}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway
}

// Seed installs a document without going through Write. Intended for test
// fixtures and example wiring.
func (g *MemoryGateway) Seed(collection string, id uuid.UUID, doc map[string]any) {
	g.mu.Lock()
	if g.collections[collection] == nil {
		g.collections[collection] = map[uuid.UUID]map[string]any{}
	}
	g.collections[collection][id] = cloneDocument(doc)
	g.mu.Unlock()
}

// ForceRead returns the current state of a collection. Memory has no cache
// layer so this is identical to Read; the method exists to satisfy the
// gateway contract that refresh cycles bypass any staleness.
func (g *MemoryGateway) ForceRead(ctx context.Context, collection string, opts interfaces.ReadOptions) ([]*records.ContentRecord, error) {
	return g.Read(ctx, collection, opts)
}

// Read decodes and returns the collection's records.
func (g *MemoryGateway) Read(ctx context.Context, collection string, opts interfaces.ReadOptions) ([]*records.ContentRecord, error) {
	if collection == "" {
		return nil, interfaces.ErrCollectionRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	docs := g.collections[collection]
	list := make([]*records.ContentRecord, 0, len(docs))
	for id, doc := range docs {
		list = append(list, g.codec.Decode(id, cloneDocument(doc)))
	}
	g.mu.RUnlock()

	return applyReadOptions(list, opts), nil
}

// Write merges a patch into the identified document, creating it when id is
// uuid.Nil. Subscribers receive the refreshed active list.
func (g *MemoryGateway) Write(ctx context.Context, collection string, id uuid.UUID, patch records.Patch) (uuid.UUID, error) {
	if collection == "" {
		return uuid.Nil, interfaces.ErrCollectionRequired
	}
	if len(patch) == 0 {
		return uuid.Nil, interfaces.ErrEmptyPatch
	}
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	g.mu.Lock()
	if g.collections[collection] == nil {
		g.collections[collection] = map[uuid.UUID]map[string]any{}
	}
	if id == uuid.Nil {
		id = g.idGenerator()
	}
	doc, ok := g.collections[collection][id]
	if !ok {
		doc = map[string]any{}
		g.collections[collection][id] = doc
	}
	for key, value := range patch {
		doc[key] = cloneValue(value)
	}
	g.mu.Unlock()

	g.notify(collection)
	return id, nil
}

// Subscribe delivers the active ordered list whenever a write lands on the
// collection.
func (g *MemoryGateway) Subscribe(ctx context.Context, collection string) (<-chan []*records.ContentRecord, error) {
	if collection == "" {
		return nil, interfaces.ErrCollectionRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.broadcaster.subscribe(ctx, collection), nil
}

func (g *MemoryGateway) notify(collection string) {
	list, err := g.Read(context.Background(), collection, interfaces.ReadOptions{
		ActiveOnly:   true,
		OrderByOrder: true,
	})
	if err != nil {
		return
	}
	g.broadcaster.publish(collection, list)
}

func applyReadOptions(list []*records.ContentRecord, opts interfaces.ReadOptions) []*records.ContentRecord {
	if opts.ActiveOnly {
		list = records.FilterActive(list)
	}
	if opts.FeaturedOnly {
		featured := list[:0]
		for _, rec := range list {
			if rec.Featured {
				featured = append(featured, rec)
			}
		}
		list = featured
	}
	if opts.OrderByOrder {
		records.SortByOrder(list)
	}
	if opts.Limit > 0 && len(list) > opts.Limit {
		list = list[:opts.Limit]
	}
	return list
}

func cloneDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneDocument(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out
	}
	return value
}
