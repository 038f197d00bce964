package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/records"
)

func TestMemoryGatewayWriteCreatesAndMerges(t *testing.T) {
	gateway := NewMemoryGateway(testCodec())
	ctx := context.Background()

	id, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{
		"title_id": "Halo",
		"order":    1,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected generated id")
	}

	if _, err := gateway.Write(ctx, "banners", id, records.Patch{"title_en": "Hello"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	list, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}
	rec := list[0]
	if rec.Fields["title"].Values["id"] != "Halo" || rec.Fields["title"].Values["en"] != "Hello" {
		t.Fatalf("expected merged locales, got %+v", rec.Fields["title"])
	}
}

func TestMemoryGatewayWriteValidatesInput(t *testing.T) {
	gateway := NewMemoryGateway(testCodec())
	ctx := context.Background()

	if _, err := gateway.Write(ctx, "", uuid.Nil, records.Patch{"order": 1}); err != interfaces.ErrCollectionRequired {
		t.Fatalf("expected ErrCollectionRequired, got %v", err)
	}
	if _, err := gateway.Write(ctx, "banners", uuid.Nil, nil); err != interfaces.ErrEmptyPatch {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestMemoryGatewayReadOptions(t *testing.T) {
	gateway := NewMemoryGateway(testCodec())
	ctx := context.Background()

	seed := func(order int, deleted, featured bool) uuid.UUID {
		id := uuid.New()
		doc := map[string]any{"order": order, "featured": featured}
		if deleted {
			doc["isDeleted"] = true
		}
		gateway.Seed("banners", id, doc)
		return id
	}
	second := seed(2, false, true)
	seed(3, true, false)
	first := seed(1, false, false)

	list, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{ActiveOnly: true, OrderByOrder: true})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected tombstone filtered, got %d records", len(list))
	}
	if list[0].ID != first || list[1].ID != second {
		t.Fatalf("expected order sort, got %s then %s", list[0].ID, list[1].ID)
	}

	featured, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{FeaturedOnly: true})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(featured) != 1 || featured[0].ID != second {
		t.Fatalf("expected only the featured record, got %d", len(featured))
	}

	limited, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{ActiveOnly: true, OrderByOrder: true, Limit: 1})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != first {
		t.Fatalf("expected limit to keep the first record, got %d", len(limited))
	}
}

func TestMemoryGatewaySubscribeReceivesActiveList(t *testing.T) {
	gateway := NewMemoryGateway(testCodec())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := gateway.Subscribe(ctx, "banners")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	id, err := gateway.Write(context.Background(), "banners", uuid.Nil, records.Patch{"order": 1, "title_ko": "배너"})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case list := <-updates:
		if len(list) != 1 || list[0].ID != id {
			t.Fatalf("unexpected update: %d records", len(list))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}

	tombstone := records.Tombstone(records.Actor{ID: "u-1", Name: "Admin"}, time.Now())
	if _, err := gateway.Write(context.Background(), "banners", id, tombstone); err != nil {
		t.Fatalf("tombstone write failed: %v", err)
	}

	select {
	case list := <-updates:
		if len(list) != 0 {
			t.Fatalf("expected tombstoned record filtered from update, got %d", len(list))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for tombstone update")
	}
}

func TestMemoryGatewayReadClonesState(t *testing.T) {
	gateway := NewMemoryGateway(testCodec())
	ctx := context.Background()

	id, err := gateway.Write(ctx, "banners", uuid.Nil, records.Patch{"title_id": "Halo", "order": 1})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	list, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	list[0].SetLocalized("title", "id", "mutated")

	again, err := gateway.Read(ctx, "banners", interfaces.ReadOptions{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if again[0].ID != id || again[0].Fields["title"].Values["id"] != "Halo" {
		t.Fatalf("expected stored state untouched, got %v", again[0].Fields["title"].Values["id"])
	}
}
