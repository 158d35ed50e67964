// Package trade moves goods between settlement markets. Traders are spawned
// by settlements against concrete price gaps, walk the road network on an
// action-point budget, and settle every exchange against real treasuries and
// stockpiles. A trade that cannot complete aborts cleanly and the trader
// carries whatever it holds back home.
package trade

import (
	"github.com/google/uuid"

	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/population"
	"github.com/talgya/crossland/internal/world"
)

// State is a trader's position in its run.
type State string

const (
	StateIdle            State = "idle"
	StateTravelingToBuy  State = "traveling_to_buy"
	StateBuying          State = "buying"
	StateTravelingToSell State = "traveling_to_sell"
	StateSelling         State = "selling"
	StateReturningHome   State = "returning_home"
)

// workingCapitalFloor is the purse a trader keeps on returning home; only
// the excess sweeps into the settlement treasury.
const workingCapitalFloor = 50

// baseCargoCapacity is the cargo limit before the merchant skill bonus.
const baseCargoCapacity = 20

// Trader is one active caravan. The person backing it stays registered in
// the home settlement's population and can die mid-run.
type Trader struct {
	ID       uuid.UUID           `json:"id"`
	PersonID population.PersonID `json:"person_id"`
	HomeID   uint64              `json:"home_id"`
	State    State               `json:"state"`

	Purse    uint64        `json:"purse"`
	Cargo    []goods.Stack `json:"cargo,omitempty"`
	Capacity int           `json:"capacity"`

	Location world.HexCoord   `json:"location"`
	Path     []world.HexCoord `json:"path,omitempty"`

	BuyFrom uint64 `json:"buy_from"`
	SellTo  uint64 `json:"sell_to"`

	// The run's plan, fixed at spawn time.
	Material goods.Material `json:"material"`
	PlanQty  int            `json:"plan_qty"`
}

// NewTrader builds a trader for a person and a planned run. Capacity scales
// with the person's merchant skill.
func NewTrader(id uuid.UUID, p *population.Person, home *world.HexCoord, opp Opportunity, capital uint64) *Trader {
	cap := baseCargoCapacity + int(p.SkillAt(world.JobMerchant)/2)
	return &Trader{
		ID:       id,
		PersonID: p.ID,
		HomeID:   opp.BuyFrom, // spawning settlement is always the run's origin side
		State:    StateTravelingToBuy, // zero-length leg at the buy side; flips to buying next turn
		Purse:    capital,
		Capacity: cap,
		Location: *home,
		BuyFrom:  opp.BuyFrom,
		SellTo:   opp.SellTo,
		Material: opp.Material,
		PlanQty:  opp.Qty,
	}
}

// CargoQty returns units carried of a material.
func (t *Trader) CargoQty(mat goods.Material) int {
	for _, s := range t.Cargo {
		if s.Material == mat {
			return s.Qty
		}
	}
	return 0
}

// addCargo merges a stack into the hold.
func (t *Trader) addCargo(mat goods.Material, qty int) {
	for i := range t.Cargo {
		if t.Cargo[i].Material == mat {
			t.Cargo[i].Qty += qty
			return
		}
	}
	t.Cargo = append(t.Cargo, goods.Stack{Material: mat, Qty: qty})
}

// removeCargo drops up to qty units, returning how many came off.
func (t *Trader) removeCargo(mat goods.Material, qty int) int {
	for i := range t.Cargo {
		if t.Cargo[i].Material != mat {
			continue
		}
		took := qty
		if t.Cargo[i].Qty < took {
			took = t.Cargo[i].Qty
		}
		t.Cargo[i].Qty -= took
		if t.Cargo[i].Qty == 0 {
			t.Cargo = append(t.Cargo[:i], t.Cargo[i+1:]...)
		}
		return took
	}
	return 0
}

// cargoLoad is total units in the hold.
func (t *Trader) cargoLoad() int {
	n := 0
	for _, s := range t.Cargo {
		n += s.Qty
	}
	return n
}

// travel spends one turn of action points walking the path. Returns true
// when the path is exhausted.
func (t *Trader) travel(m *world.Map) bool {
	ap := world.DefaultAPBudget
	for len(t.Path) > 0 {
		next := t.Path[0]
		from := m.Get(t.Location)
		to := m.Get(next)
		if from == nil || to == nil {
			// Off-map path is a broken route; stop where we are.
			t.Path = nil
			return true
		}
		cost := world.MovementCost(from, to, false)
		if cost > ap {
			return false
		}
		ap -= cost
		t.Location = next
		t.Path = t.Path[1:]
	}
	return true
}
