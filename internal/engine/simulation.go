// Simulation ties together all world systems and runs them each tick.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/market"
	"github.com/talgya/crossland/internal/social"
	"github.com/talgya/crossland/internal/trade"
	"github.com/talgya/crossland/internal/work"
	"github.com/talgya/crossland/internal/world"
)

// Simulation holds the complete world state and wires systems together.
type Simulation struct {
	WorldMap    *world.Map
	Settlements []*social.Settlement
	Routes      *world.RouteTable
	Catalog     *catalog.Catalog
	Trade       *trade.Network
	Events      []Event // Recent events (ring buffer in production)
	LastTick    uint64  // Most recent tick processed

	// Settlement lookup: ID → settlement.
	SettlementIndex map[uint64]*social.Settlement

	// Per-settlement staffing overrides, settable at runtime.
	StaffingOverrides map[uint64]map[world.BuildingKind]int

	// Statistics tracked per day.
	Stats SimStats
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "economy", "trade", "death", "birth", etc.
}

// SimStats tracks aggregate world statistics.
type SimStats struct {
	TotalPopulation int     `json:"total_population"`
	TotalWealth     uint64  `json:"total_wealth"`
	Deaths          int     `json:"deaths"`
	Births          int     `json:"births"`
	AvgHealth       float64 `json:"avg_health"`
	AvgHunger       float64 `json:"avg_hunger"`
	ActiveTraders   int     `json:"active_traders"`
	JobsRunning     int     `json:"jobs_running"`
}

// NewSimulation creates a Simulation from generated components. Settlements
// must arrive with their ledgers and registries attached; markets are
// created here.
func NewSimulation(m *world.Map, setts []*social.Settlement, routes *world.RouteTable, cat *catalog.Catalog, seed int64) *Simulation {
	index := make(map[uint64]*social.Settlement, len(setts))
	for _, s := range setts {
		index[s.ID] = s
		if s.Market == nil {
			s.Market = market.New(s.ID)
		}
	}

	sim := &Simulation{
		WorldMap:          m,
		Settlements:       setts,
		Routes:            routes,
		Catalog:           cat,
		Trade:             trade.NewNetwork(m, routes, seed),
		SettlementIndex:   index,
		StaffingOverrides: make(map[uint64]map[world.BuildingKind]int),
	}
	sim.updateStats()
	return sim
}

// TickDay advances every settlement economy by one day, then runs the trade
// layer across all of them.
func (s *Simulation) TickDay(tick uint64) {
	s.LastTick = tick

	for _, set := range s.Settlements {
		s.tickSettlement(tick, set)
	}

	for _, desc := range s.Trade.ProcessTurn(s.Settlements) {
		s.record(tick, desc, "trade")
	}

	s.updateStats()
	s.logDaily(tick)
}

// tickSettlement runs one settlement's daily pipeline: people first, then
// staffing, then production, then the market recompute.
func (s *Simulation) tickSettlement(tick uint64, set *social.Settlement) {
	unemployed := len(set.People.Unemployed())
	rep := set.People.ProcessTurn(set.Ledger, set.IsCity(), set.Housing, unemployed)

	if rep.Births > 0 {
		s.record(tick, fmt.Sprintf("%d born in %s", rep.Births, set.Name), "birth")
	}
	if rep.Deaths > 0 {
		s.record(tick, fmt.Sprintf("%d died in %s", rep.Deaths, set.Name), "death")
	}
	if rep.Immigrants > 0 {
		s.record(tick, fmt.Sprintf("%d settled in %s", rep.Immigrants, set.Name), "social")
	}
	if rep.Emigrants > 0 {
		s.record(tick, fmt.Sprintf("%d abandoned %s", rep.Emigrants, set.Name), "social")
	}

	crews := work.Assign(set.People, set.Buildings, s.StaffingOverrides[set.ID], s.Trade.ReservedPeople(set.ID))

	// Idle staffed buildings start their best affordable recipe at the
	// crew's frozen productivity.
	for _, crew := range crews {
		loc := crew.Building.Location
		if set.Ledger.HasJobAt(loc) {
			continue
		}
		for _, r := range s.Catalog.ForBuilding(crew.Building.Kind) {
			if set.Ledger.StartProduction(r, loc, crew.Productivity) {
				break
			}
		}
	}

	for _, done := range set.Ledger.TickProduction(s.Catalog) {
		for _, out := range done.Outputs {
			s.record(tick, fmt.Sprintf("%s produced %d %s", set.Name, out.Qty, out.Material), "economy")
		}
	}

	set.Market.Update(set.Ledger, set.People, set.Buildings, s.Catalog)
}

func (s *Simulation) record(tick uint64, desc, category string) {
	s.Events = append(s.Events, Event{Tick: tick, Description: desc, Category: category})
	// Trim old events to prevent unbounded growth (keep last 1000).
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

func (s *Simulation) logDaily(tick uint64) {
	eventCounts := make(map[string]int)
	for _, e := range s.Events {
		if e.Tick == tick {
			eventCounts[e.Category]++
		}
	}

	slog.Info("daily report",
		"tick", tick,
		"time", SimTime(tick),
		"population", s.Stats.TotalPopulation,
		"deaths", s.Stats.Deaths,
		"births", s.Stats.Births,
		"avg_health", fmt.Sprintf("%.1f", s.Stats.AvgHealth),
		"avg_hunger", fmt.Sprintf("%.1f", s.Stats.AvgHunger),
		"total_wealth", s.Stats.TotalWealth,
		"traders", s.Stats.ActiveTraders,
		"jobs", s.Stats.JobsRunning,
		"events_death", eventCounts["death"],
		"events_birth", eventCounts["birth"],
		"events_trade", eventCounts["trade"],
		"events_economy", eventCounts["economy"],
	)
}

func (s *Simulation) updateStats() {
	pop := 0
	wealth := uint64(0)
	health := 0.0
	hunger := 0.0
	births := 0
	deaths := 0
	jobs := 0

	for _, set := range s.Settlements {
		n := set.People.Len()
		pop += n
		wealth += set.Ledger.Money()
		health += set.People.AverageHealth() * float64(n)
		hunger += set.People.AverageHunger() * float64(n)
		rep := set.People.LastReport()
		births += rep.Births
		deaths += rep.Deaths
		jobs += len(set.Ledger.Jobs())
	}
	for _, t := range s.Trade.Traders() {
		wealth += t.Purse
	}

	s.Stats.TotalPopulation = pop
	s.Stats.TotalWealth = wealth
	s.Stats.Births = births
	s.Stats.Deaths = deaths
	s.Stats.ActiveTraders = len(s.Trade.Traders())
	s.Stats.JobsRunning = jobs
	if pop > 0 {
		s.Stats.AvgHealth = health / float64(pop)
		s.Stats.AvgHunger = hunger / float64(pop)
	}
}
