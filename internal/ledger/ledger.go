// Package ledger owns one settlement's economic state: the material
// stockpile bounded by shared storage capacity, the treasury, and the active
// production queue.
package ledger

import (
	"math"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/world"
)

// Job is an in-flight recipe execution. Inputs were deducted when the job
// was enqueued; productivity is frozen at start and scales the outputs when
// the job completes.
type Job struct {
	RecipeID     string         `json:"recipe_id"`
	Building     world.HexCoord `json:"building"`
	TicksLeft    int            `json:"ticks_left"`
	TotalTicks   int            `json:"total_ticks"`
	Productivity float64        `json:"productivity"`
}

// Ledger holds a settlement's stockpile, treasury, and production queue.
type Ledger struct {
	settlementID uint64
	capacity     int
	stock        map[goods.Material]int
	total        int // cached sum of all stock quantities
	treasury     uint64
	jobs         []*Job
}

// New creates an empty ledger with the given shared storage capacity.
func New(settlementID uint64, capacity int) *Ledger {
	return &Ledger{
		settlementID: settlementID,
		capacity:     capacity,
		stock:        make(map[goods.Material]int),
	}
}

// SettlementID returns the owning settlement's id.
func (l *Ledger) SettlementID() uint64 { return l.settlementID }

// Capacity returns the shared storage cap across all materials.
func (l *Ledger) Capacity() int { return l.capacity }

// TotalStock returns the summed quantity of all stored materials.
func (l *Ledger) TotalStock() int { return l.total }

// AmountOf returns the stored quantity of one material.
func (l *Ledger) AmountOf(m goods.Material) int {
	return l.stock[m]
}

// Add stores qty units of a material, clamping at the shared capacity.
// Returns true when the full amount fit; excess is dropped.
func (l *Ledger) Add(m goods.Material, qty int) bool {
	if qty <= 0 {
		return true
	}
	space := l.capacity - l.total
	if space <= 0 {
		return false
	}
	applied := qty
	if applied > space {
		applied = space
	}
	l.stock[m] += applied
	l.total += applied
	return applied == qty
}

// Remove takes qty units of a material. Fails without mutation when the
// stock is insufficient.
func (l *Ledger) Remove(m goods.Material, qty int) bool {
	if qty <= 0 {
		return true
	}
	have := l.stock[m]
	if have < qty {
		return false
	}
	if have == qty {
		delete(l.stock, m)
	} else {
		l.stock[m] = have - qty
	}
	l.total -= qty
	return true
}

// Stock returns the non-empty stockpile entries in material order.
func (l *Ledger) Stock() []goods.Stack {
	var out []goods.Stack
	for _, m := range goods.All() {
		if qty := l.stock[m]; qty > 0 {
			out = append(out, goods.Stack{Material: m, Qty: qty})
		}
	}
	return out
}

// GoodsValue returns the base-price value of everything in storage.
func (l *Ledger) GoodsValue() float64 {
	total := 0.0
	for _, m := range goods.All() {
		total += float64(l.stock[m]) * goods.BasePrice(m)
	}
	return total
}

// Money returns the treasury balance.
func (l *Ledger) Money() uint64 { return l.treasury }

// AddMoney credits the treasury.
func (l *Ledger) AddMoney(amount uint64) {
	l.treasury += amount
}

// RemoveMoney debits the treasury; fails without mutation when the balance
// is insufficient.
func (l *Ledger) RemoveMoney(amount uint64) bool {
	if l.treasury < amount {
		return false
	}
	l.treasury -= amount
	return true
}

// HasMoney reports whether the treasury covers the given amount.
func (l *Ledger) HasMoney(amount uint64) bool {
	return l.treasury >= amount
}

// CanProduce reports whether every input of a recipe is in stock.
func (l *Ledger) CanProduce(r catalog.Recipe) bool {
	for _, in := range r.Inputs {
		if l.stock[in.Material] < in.Qty {
			return false
		}
	}
	return true
}

// HasJobAt reports whether a building already runs a job. A building holds
// at most one concurrent job.
func (l *Ledger) HasJobAt(loc world.HexCoord) bool {
	for _, j := range l.jobs {
		if j.Building == loc {
			return true
		}
	}
	return false
}

// minDurationProductivity floors productivity for duration scaling only, so
// an unproductive crew cannot stretch a job without bound. Output scaling
// deliberately has no such floor: it clamps to one unit instead.
const minDurationProductivity = 0.5

// StartProduction deducts a recipe's inputs atomically and enqueues a job at
// the given building. Fails — leaving the stockpile untouched — when inputs
// are missing, productivity is non-positive, or the building is busy.
func (l *Ledger) StartProduction(r catalog.Recipe, building world.HexCoord, productivity float64) bool {
	if productivity <= 0 {
		return false
	}
	if l.HasJobAt(building) {
		return false
	}
	if !l.CanProduce(r) {
		return false
	}

	for _, in := range r.Inputs {
		l.Remove(in.Material, in.Qty)
	}

	effective := productivity
	if effective < minDurationProductivity {
		effective = minDurationProductivity
	}
	duration := int(math.Ceil(float64(r.Duration) / effective))

	l.jobs = append(l.jobs, &Job{
		RecipeID:     r.ID,
		Building:     building,
		TicksLeft:    duration,
		TotalTicks:   duration,
		Productivity: productivity,
	})
	return true
}

// Completed describes one finished production job.
type Completed struct {
	RecipeID string
	Building world.HexCoord
	Outputs  []goods.Stack
}

// TickProduction advances every queued job by one tick. Jobs that reach zero
// flush their outputs — each quantity scaled by the frozen productivity but
// never below one unit — into the stockpile and leave the queue.
func (l *Ledger) TickProduction(cat *catalog.Catalog) []Completed {
	var done []Completed
	remaining := l.jobs[:0]

	for _, j := range l.jobs {
		j.TicksLeft--
		if j.TicksLeft > 0 {
			remaining = append(remaining, j)
			continue
		}

		r, ok := cat.Get(j.RecipeID)
		if !ok {
			// Recipe vanished from the catalog; drop the job.
			continue
		}

		c := Completed{RecipeID: j.RecipeID, Building: j.Building}
		for _, out := range r.Outputs {
			qty := int(math.Floor(float64(out.Qty) * j.Productivity))
			if qty < 1 {
				qty = 1
			}
			l.Add(out.Material, qty)
			c.Outputs = append(c.Outputs, goods.Stack{Material: out.Material, Qty: qty})
		}
		done = append(done, c)
	}

	l.jobs = remaining
	return done
}

// Jobs returns the active production queue.
func (l *Ledger) Jobs() []*Job {
	return l.jobs
}

// RestoreJob re-enqueues a job loaded from persistence.
func (l *Ledger) RestoreJob(j *Job) {
	l.jobs = append(l.jobs, j)
}
