package engine

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/crossland/internal/catalog"
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

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(filepath.Join(findRepoRoot(t), "configs", "recipes.yaml"))
	if err != nil {
		t.Fatalf("load recipes: %v", err)
	}
	return cat
}

func quiet(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestBuildWorldPopulatesSettlements(t *testing.T) {
	quiet(t)
	sim := BuildWorld(world.SmallTestConfig(), loadCatalog(t))

	if len(sim.Settlements) == 0 {
		t.Fatalf("no settlements placed")
	}
	for _, s := range sim.Settlements {
		if s.People.Len() == 0 {
			t.Errorf("%s has no population", s.Name)
		}
		if s.Ledger.Money() == 0 {
			t.Errorf("%s has no treasury", s.Name)
		}
		if len(s.Buildings) == 0 {
			t.Errorf("%s has no buildings", s.Name)
		}
		if s.Market == nil {
			t.Errorf("%s has no market", s.Name)
		}
		if sim.SettlementIndex[s.ID] != s {
			t.Errorf("%s missing from settlement index", s.Name)
		}
	}
	if sim.Stats.TotalPopulation == 0 {
		t.Fatalf("stats not initialized")
	}
}

func TestTenDaysOfSimulation(t *testing.T) {
	quiet(t)
	sim := BuildWorld(world.SmallTestConfig(), loadCatalog(t))

	eng := NewEngine()
	eng.OnDay = sim.TickDay
	eng.RunFor(10)

	if sim.LastTick != 10 {
		t.Fatalf("last tick = %d, want 10", sim.LastTick)
	}
	if sim.Stats.TotalPopulation == 0 {
		t.Fatalf("everyone died inside ten days")
	}

	produced := false
	for _, e := range sim.Events {
		if e.Category == "economy" {
			produced = true
			break
		}
	}
	if !produced {
		t.Fatalf("ten days passed without a single completed recipe")
	}

	for _, s := range sim.Settlements {
		if len(s.Market.BuyOffers())+len(s.Market.SellOffers()) == 0 {
			t.Errorf("%s market never formed an offer", s.Name)
		}
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	quiet(t)
	cat := loadCatalog(t)
	cfg := world.SmallTestConfig()

	run := func() *Simulation {
		sim := BuildWorld(cfg, cat)
		for tick := uint64(1); tick <= 15; tick++ {
			sim.TickDay(tick)
		}
		return sim
	}

	a, b := run(), run()

	if a.Stats != b.Stats {
		t.Fatalf("stats diverged:\n  %+v\n  %+v", a.Stats, b.Stats)
	}
	if len(a.Settlements) != len(b.Settlements) {
		t.Fatalf("settlement counts diverged: %d vs %d", len(a.Settlements), len(b.Settlements))
	}
	for i := range a.Settlements {
		sa, sb := a.Settlements[i], b.Settlements[i]
		if sa.Ledger.Money() != sb.Ledger.Money() {
			t.Errorf("%s treasury diverged: %d vs %d", sa.Name, sa.Ledger.Money(), sb.Ledger.Money())
		}
		if sa.Ledger.TotalStock() != sb.Ledger.TotalStock() {
			t.Errorf("%s stock diverged: %d vs %d", sa.Name, sa.Ledger.TotalStock(), sb.Ledger.TotalStock())
		}
		if sa.People.Len() != sb.People.Len() {
			t.Errorf("%s population diverged: %d vs %d", sa.Name, sa.People.Len(), sb.People.Len())
		}
	}
	if len(a.Events) != len(b.Events) {
		t.Fatalf("event streams diverged: %d vs %d events", len(a.Events), len(b.Events))
	}
}

func TestSimTimeCalendar(t *testing.T) {
	cases := []struct {
		tick uint64
		want string
	}{
		{0, "Spring Day 1, Year 1"},
		{4, "Spring Day 5, Year 1"},
		{89, "Spring Day 90, Year 1"},
		{90, "Summer Day 1, Year 1"},
		{270, "Winter Day 1, Year 1"},
		{360, "Spring Day 1, Year 2"},
	}
	for _, tc := range cases {
		if got := SimTime(tc.tick); got != tc.want {
			t.Errorf("SimTime(%d) = %q, want %q", tc.tick, got, tc.want)
		}
	}
}

func TestSeasonCallbackFiresEveryNinetyTicks(t *testing.T) {
	eng := NewEngine()
	days, seasons := 0, 0
	eng.OnDay = func(uint64) { days++ }
	eng.OnSeason = func(uint64) { seasons++ }

	eng.RunFor(180)

	if days != 180 {
		t.Fatalf("day callback fired %d times, want 180", days)
	}
	if seasons != 2 {
		t.Fatalf("season callback fired %d times, want 2", seasons)
	}
}
