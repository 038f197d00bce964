package store

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/pkg/testsupport"
	"github.com/goliatone/go-content-sync/records"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := testsupport.NewBunSQLiteDB("store_test")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestGateway(t *testing.T) *BunGateway {
	t.Helper()

	gateway := NewBunGateway(newTestDB(t), testCodec())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gateway.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return gateway
}

func TestBunGatewayWriteAndRead(t *testing.T) {
	gateway := newTestGateway(t)
	ctx := context.Background()

	id, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{
		"title_id": "Halo",
		"title_en": "Hello",
		"order":    1,
	})
	if err != nil {
		t.Fatalf("Write() create error = %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected generated id")
	}

	if _, err := gateway.Write(ctx, "banners", id, records.Patch{"title_ko": "안녕"}); err != nil {
		t.Fatalf("Write() merge error = %v", err)
	}

	list, err := gateway.ForceRead(ctx, "banners", interfaces.ReadOptions{ActiveOnly: true, OrderByOrder: true})
	if err != nil {
		t.Fatalf("ForceRead() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}
	title := list[0].Fields["title"]
	if title.Values["id"] != "Halo" || title.Values["ko"] != "안녕" {
		t.Fatalf("expected merged locales, got %+v", title)
	}
}

func TestBunGatewayWriteCreatesUnknownID(t *testing.T) {
	gateway := newTestGateway(t)
	ctx := context.Background()

	seeded := uuid.New()
	id, err := gateway.Write(ctx, "banners", seeded, records.Patch{"order": 1, "title_id": "unggulan"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if id != seeded {
		t.Fatalf("expected write to keep the caller id, got %s", id)
	}

	list, err := gateway.ForceRead(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("ForceRead() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != seeded {
		t.Fatalf("expected the seeded record, got %+v", list)
	}
}

func TestBunGatewayFiltersAndSorts(t *testing.T) {
	gateway := newTestGateway(t)
	ctx := context.Background()

	firstID, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{"order": 1, "title_id": "satu"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{"order": 2, "title_id": "dua", "featured": true}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	deletedID, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{"order": 3, "title_id": "tiga"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	tombstone := records.Tombstone(records.Actor{ID: "u-1", Name: "Admin"}, time.Now())
	if _, err := gateway.Write(ctx, "banners", deletedID, tombstone); err != nil {
		t.Fatalf("Write() tombstone error = %v", err)
	}

	active, err := gateway.ForceRead(ctx, "banners", interfaces.ReadOptions{ActiveOnly: true, OrderByOrder: true})
	if err != nil {
		t.Fatalf("ForceRead() error = %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected deleted record filtered, got %d", len(active))
	}
	if active[0].ID != firstID {
		t.Fatalf("expected order sort, first record was %s", active[0].ID)
	}

	featured, err := gateway.ForceRead(ctx, "banners", interfaces.ReadOptions{FeaturedOnly: true})
	if err != nil {
		t.Fatalf("ForceRead() error = %v", err)
	}
	if len(featured) != 1 || featured[0].Order != 2 {
		t.Fatalf("expected one featured record with order 2, got %d", len(featured))
	}

	all, err := gateway.ForceRead(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("ForceRead() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected tombstoned record kept without ActiveOnly, got %d", len(all))
	}
}

func TestBunGatewayCollectionIsolation(t *testing.T) {
	gateway := newTestGateway(t)
	ctx := context.Background()

	bannerID, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{"order": 1})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := gateway.Write(ctx, "articles", uuid.Nil, records.Patch{"order": 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	banners, err := gateway.ForceRead(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("ForceRead() error = %v", err)
	}
	if len(banners) != 1 || banners[0].ID != bannerID {
		t.Fatalf("expected only the banner record, got %d", len(banners))
	}

	if _, err := gateway.Write(ctx, "articles", bannerID, records.Patch{"order": 5}); !errors.Is(err, interfaces.ErrRecordNotFound) {
		t.Fatalf("expected cross-collection write rejected, got %v", err)
	}
}

func TestBunGatewaySubscribeReceivesWrites(t *testing.T) {
	gateway := newTestGateway(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := gateway.Subscribe(ctx, "banners")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	id, err := gateway.Write(context.Background(), "banners", uuid.Nil, records.Patch{"order": 1, "title_id": "satu"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	select {
	case list := <-updates:
		if len(list) != 1 || list[0].ID != id {
			t.Fatalf("unexpected update: %d records", len(list))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestBunGatewayCachedReadAndForceRead(t *testing.T) {
	db := newTestDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	gateway := NewBunGatewayWithCache(db, testCodec(), cacheService, repocache.NewDefaultKeySerializer())

	ctx := context.Background()
	if err := gateway.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	id, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{"order": 1, "title_id": "Halo"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		list, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{})
		if err != nil {
			t.Fatalf("Read() #%d error = %v", i+1, err)
		}
		if len(list) != 1 || list[0].ID != id {
			t.Fatalf("Read() #%d returned %d records", i+1, len(list))
		}
	}

	// Mutate the row behind the gateway's back. A forced read must observe
	// it regardless of what the regular read path has cached.
	if _, err := db.NewUpdate().
		Model((*StoredRecord)(nil)).
		Set("document = ?", `{"title_id":"Diubah","order":1}`).
		Where("id = ?", id.String()).
		Exec(ctx); err != nil {
		t.Fatalf("out-of-band update: %v", err)
	}

	fresh, err := gateway.ForceRead(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("ForceRead() error = %v", err)
	}
	if len(fresh) != 1 {
		t.Fatalf("ForceRead() returned %d records", len(fresh))
	}
	if got := fresh[0].Fields["title"].Values["id"]; got != "Diubah" {
		t.Fatalf("expected forced read to bypass the cache, got %v", got)
	}

	// A gateway write invalidates the namespace, so the regular read path
	// sees the merged document afterwards.
	if _, err := gateway.Write(ctx, "banners", id, records.Patch{"title_en": "Changed"}); err != nil {
		t.Fatalf("Write() patch error = %v", err)
	}
	cached, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("Read() after write error = %v", err)
	}
	title := cached[0].Fields["title"]
	if title.Values["id"] != "Diubah" || title.Values["en"] != "Changed" {
		t.Fatalf("expected invalidated read to see merged values, got %+v", title)
	}
}
