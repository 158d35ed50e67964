package persistence

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/engine"
	"github.com/talgya/crossland/internal/world"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not locate go.mod from %s", dir)
		}
		dir = parent
	}
}

func testWorld(t *testing.T) (*engine.Simulation, *catalog.Catalog, world.GenConfig) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cat, err := catalog.Load(filepath.Join(findRepoRoot(t), "configs", "recipes.yaml"))
	if err != nil {
		t.Fatalf("load recipes: %v", err)
	}
	cfg := world.SmallTestConfig()
	return engine.BuildWorld(cfg, cat), cat, cfg
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveMeta("world_seed", "42"); err != nil {
		t.Fatalf("save meta: %v", err)
	}
	if err := db.SaveMeta("world_seed", "43"); err != nil {
		t.Fatalf("overwrite meta: %v", err)
	}

	got, err := db.GetMeta("world_seed")
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if got != "43" {
		t.Fatalf("world_seed = %q, want 43", got)
	}

	if _, err := db.GetMeta("missing"); err == nil {
		t.Fatalf("missing key returned no error")
	}
}

func TestSaveLoadWorldState(t *testing.T) {
	sim, cat, cfg := testWorld(t)
	db := openTestDB(t)

	for tick := uint64(1); tick <= 5; tick++ {
		sim.TickDay(tick)
	}

	if err := db.SaveWorldState(sim, cfg.Seed); err != nil {
		t.Fatalf("save world: %v", err)
	}

	loaded, lastTick, err := db.LoadWorldState(cfg, cat)
	if err != nil {
		t.Fatalf("load world: %v", err)
	}
	if lastTick != 5 {
		t.Fatalf("last tick = %d, want 5", lastTick)
	}
	if len(loaded.Settlements) != len(sim.Settlements) {
		t.Fatalf("settlement count = %d, want %d", len(loaded.Settlements), len(sim.Settlements))
	}

	for i, want := range sim.Settlements {
		got := loaded.Settlements[i]
		if got.ID != want.ID || got.Name != want.Name || got.Kind != want.Kind {
			t.Errorf("settlement %d identity changed: %+v vs %+v", want.ID, got, want)
		}
		if got.Center != want.Center {
			t.Errorf("%s center = %v, want %v", want.Name, got.Center, want.Center)
		}
		if got.Ledger.Money() != want.Ledger.Money() {
			t.Errorf("%s treasury = %d, want %d", want.Name, got.Ledger.Money(), want.Ledger.Money())
		}
		if got.Ledger.TotalStock() != want.Ledger.TotalStock() {
			t.Errorf("%s stock = %d, want %d", want.Name, got.Ledger.TotalStock(), want.Ledger.TotalStock())
		}
		if len(got.Ledger.Jobs()) != len(want.Ledger.Jobs()) {
			t.Errorf("%s jobs = %d, want %d", want.Name, len(got.Ledger.Jobs()), len(want.Ledger.Jobs()))
		}
		if got.People.Len() != want.People.Len() {
			t.Errorf("%s population = %d, want %d", want.Name, got.People.Len(), want.People.Len())
		}
		if got.People.DayCount() != want.People.DayCount() {
			t.Errorf("%s day count = %d, want %d", want.Name, got.People.DayCount(), want.People.DayCount())
		}
		for _, stack := range want.Ledger.Stock() {
			if got.Ledger.AmountOf(stack.Material) != stack.Qty {
				t.Errorf("%s %s = %d, want %d", want.Name,
					stack.Material, got.Ledger.AmountOf(stack.Material), stack.Qty)
			}
		}
	}

	if len(loaded.Trade.Traders()) != len(sim.Trade.Traders()) {
		t.Errorf("trader count = %d, want %d", len(loaded.Trade.Traders()), len(sim.Trade.Traders()))
	}
	for _, tr := range loaded.Trade.Traders() {
		reg := loaded.SettlementIndex[tr.HomeID].People
		p, ok := reg.ByID(tr.PersonID)
		if !ok {
			t.Errorf("trader %s backing person %d missing", tr.ID, tr.PersonID)
			continue
		}
		if !p.Employed || p.Job != world.JobMerchant {
			t.Errorf("trader %s backing person %d not marked merchant", tr.ID, tr.PersonID)
		}
	}
}

func TestLoadedWorldKeepsTicking(t *testing.T) {
	sim, cat, cfg := testWorld(t)
	db := openTestDB(t)

	for tick := uint64(1); tick <= 3; tick++ {
		sim.TickDay(tick)
	}
	if err := db.SaveWorldState(sim, cfg.Seed); err != nil {
		t.Fatalf("save world: %v", err)
	}

	loaded, lastTick, err := db.LoadWorldState(cfg, cat)
	if err != nil {
		t.Fatalf("load world: %v", err)
	}

	for tick := lastTick + 1; tick <= lastTick+5; tick++ {
		loaded.TickDay(tick)
	}
	if loaded.Stats.TotalPopulation == 0 {
		t.Fatalf("restored world died immediately")
	}
}

func TestRecentEventsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	events := []engine.Event{
		{Tick: 1, Description: "first", Category: "economy"},
		{Tick: 2, Description: "second", Category: "trade"},
		{Tick: 3, Description: "third", Category: "death"},
	}
	if err := db.SaveEvents(events); err != nil {
		t.Fatalf("save events: %v", err)
	}

	got, err := db.RecentEvents(2)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Description != "third" || got[1].Description != "second" {
		t.Fatalf("order wrong: %q then %q", got[0].Description, got[1].Description)
	}
}
