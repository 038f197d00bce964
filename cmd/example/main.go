package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	contentsync "github.com/goliatone/go-content-sync"
	"github.com/goliatone/go-content-sync/internal/identity"
	"github.com/goliatone/go-content-sync/internal/store"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var (
	demoWelcomeID = identity.RecordUUID("banners", "welcome")
	demoPromoID   = identity.RecordUUID("banners", "promo")
)

// demoAuth grants every capability to a fixed demo user. A real host wires
// its session and RBAC layer here instead.
type demoAuth struct{}

func (demoAuth) CurrentUser(ctx context.Context) (contentsync.Actor, error) {
	return contentsync.Actor{ID: "demo-admin", Name: "Demo Admin"}, nil
}

func (demoAuth) HasCapability(ctx context.Context, capability string) (bool, error) {
	return true, nil
}

func main() {
	ctx := context.Background()

	sqldb, err := sql.Open("sqlite3", "file:contentsync_example?mode=memory&cache=shared&_fk=1")
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	cfg := contentsync.DefaultConfig()
	cfg.Refresh.Interval = time.Second
	cfg.Collections = []contentsync.CollectionConfig{
		{
			Name:           "banners",
			Capability:     contentsync.CapabilityWebsiteManagement,
			RequiredFields: []string{"title"},
		},
		{
			Name:       "stores",
			Capability: contentsync.CapabilityEmployeeManagement,
		},
	}
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "console"
	cfg.Redirect.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "admin",
				BaseURL: "https://admin.example.com",
				Paths: map[string]string{
					"login": "/login/:capability",
				},
			},
		},
	}
	cfg.Redirect.Group = "admin"
	cfg.Redirect.Route = "login"
	cfg.Redirect.CapabilityParam = "capability"
	cfg.Storage.Provider = contentsync.StorageProviderBun
	cfg.Features.Cache = true
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = 30 * time.Second

	module, err := contentsync.New(cfg, demoAuth{}, contentsync.WithDatabase(db))
	if err != nil {
		log.Fatalf("build module: %v", err)
	}
	defer module.Stop()

	gateway, ok := module.Gateway().(*store.BunGateway)
	if !ok {
		log.Fatal("expected a bun-backed gateway")
	}
	if err := gateway.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	if err := seedBanners(ctx, gateway); err != nil {
		log.Fatalf("seed: %v", err)
	}

	if err := module.Start(ctx); err != nil {
		log.Fatalf("start module: %v", err)
	}

	panel, ok := module.Panel("banners")
	if !ok {
		log.Fatal("banners panel missing")
	}

	printSnapshot("initial view (locale id)", panel.Snapshot())

	// Edit the welcome banner. The background refresh is suppressed for as
	// long as the session holds the draft.
	draft, err := panel.BeginEdit(demoWelcomeID)
	if err != nil {
		log.Fatalf("begin edit: %v", err)
	}
	draft.Values["title"] = "Selamat datang kembali"
	if err := panel.UpdateDraft(draft); err != nil {
		log.Fatalf("update draft: %v", err)
	}
	if _, err := panel.Save(ctx); err != nil {
		log.Fatalf("save: %v", err)
	}
	printSnapshot("after save", panel.Snapshot())

	// Switching the shared locale re-projects the published view in place.
	module.Locales().Set("en")
	time.Sleep(50 * time.Millisecond)
	printSnapshot("after switching to en", panel.Snapshot())

	// Retiring the promo banner leaves a tombstone behind; the record drops
	// out of the view but its document survives for audit.
	if err := panel.Delete(ctx, demoPromoID); err != nil {
		log.Fatalf("delete: %v", err)
	}
	printSnapshot("after retiring the promo", panel.Snapshot())

	// Each collection runs its own independent panel over the shared store.
	stores, ok := module.Panel("stores")
	if !ok {
		log.Fatal("stores panel missing")
	}
	storeDraft, err := stores.BeginCreate()
	if err != nil {
		log.Fatalf("begin create: %v", err)
	}
	storeDraft.Values["name"] = "Gangnam flagship"
	if err := stores.UpdateDraft(storeDraft); err != nil {
		log.Fatalf("update draft: %v", err)
	}
	if _, err := stores.Save(ctx); err != nil {
		log.Fatalf("save store: %v", err)
	}
	printSnapshot("stores view", stores.Snapshot())
}

func seedBanners(ctx context.Context, gateway contentsync.StoreGateway) error {
	now := time.Now().UTC().Format(time.RFC3339)
	seeds := []struct {
		id    uuid.UUID
		patch contentsync.Patch
	}{
		{
			id: demoWelcomeID,
			patch: contentsync.Patch{
				"title_en":         "Welcome",
				"title_id":         "Selamat datang",
				"title_ko":         "환영합니다",
				store.KeyImageURL:  "https://cdn.example.com/welcome.png",
				store.KeyOrder:     1,
				store.KeyFeatured:  true,
				store.KeyCreatedBy: "seed",
				store.KeyCreatedAt: now,
				store.KeyUpdatedBy: "seed",
				store.KeyUpdatedAt: now,
			},
		},
		{
			id: demoPromoID,
			patch: contentsync.Patch{
				"title_en":         "Summer promo",
				"title_id":         "Promo musim panas",
				store.KeyOrder:     2,
				store.KeyCreatedBy: "seed",
				store.KeyCreatedAt: now,
				store.KeyUpdatedBy: "seed",
				store.KeyUpdatedAt: now,
			},
		},
	}
	for _, seed := range seeds {
		if _, err := gateway.Write(ctx, "banners", seed.id, seed.patch); err != nil {
			return err
		}
	}
	return nil
}

func printSnapshot(label string, snapshot contentsync.Snapshot) {
	fmt.Printf("\n== %s (generation %d) ==\n", label, snapshot.Generation)
	encoded, err := json.MarshalIndent(snapshot.Resolved, "", "  ")
	if err != nil {
		log.Fatalf("encode snapshot: %v", err)
	}
	fmt.Println(string(encoded))
}
