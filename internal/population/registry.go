// Registry — the per-settlement population owner. ProcessTurn runs the
// fixed daily sequence: experience reset, aging, consumption, condition
// updates, births, deaths, immigration, emigration. Every demographic
// sub-step computes its full transition set from a snapshot before
// committing additions and removals, so iteration never races mutation.
package population

import (
	"math/rand"
)

// DaysPerYear is the number of ProcessTurn calls between aging passes.
const DaysPerYear = 365

// Config holds the demographic base rates.
type Config struct {
	BirthRate       float64 // Chance per eligible pair per turn
	DeathRate       float64 // Base chance per person per turn
	ImmigrationRate float64 // Base chance of an immigration event per turn
}

// DefaultConfig returns the standard demographic rates.
func DefaultConfig() Config {
	return Config{
		BirthRate:       0.02,
		DeathRate:       0.002,
		ImmigrationRate: 0.05,
	}
}

// Registry owns the people of one settlement.
type Registry struct {
	settlementID uint64
	people       []*Person
	index        map[PersonID]*Person
	spawner      *Spawner
	rng          *rand.Rand
	cfg          Config

	dayCount   int
	lastReport Report
}

// NewRegistry creates an empty registry. The spawner is shared across
// settlements; the rng seed should differ per settlement for variety while
// staying deterministic.
func NewRegistry(settlementID uint64, spawner *Spawner, seed int64, cfg Config) *Registry {
	return &Registry{
		settlementID: settlementID,
		index:        make(map[PersonID]*Person),
		spawner:      spawner,
		rng:          rand.New(rand.NewSource(seed + int64(settlementID)*seedStride)),
		cfg:          cfg,
	}
}

// seedStride separates per-settlement rng streams derived from one seed.
const seedStride = 7919

// SettlementID returns the owning settlement's id.
func (r *Registry) SettlementID() uint64 { return r.settlementID }

// Add registers a person.
func (r *Registry) Add(p *Person) {
	p.SettlementID = r.settlementID
	r.people = append(r.people, p)
	r.index[p.ID] = p
}

// Remove deletes a person by id. Returns the removed person, or nil.
func (r *Registry) Remove(id PersonID) *Person {
	p, ok := r.index[id]
	if !ok {
		return nil
	}
	delete(r.index, id)
	for i, q := range r.people {
		if q.ID == id {
			r.people = append(r.people[:i], r.people[i+1:]...)
			break
		}
	}
	return p
}

// ByID looks up a person.
func (r *Registry) ByID(id PersonID) (*Person, bool) {
	p, ok := r.index[id]
	return p, ok
}

// People returns the member list in insertion order. Callers must not
// mutate the slice.
func (r *Registry) People() []*Person {
	return r.people
}

// Len returns the population count.
func (r *Registry) Len() int { return len(r.people) }

// Unemployed returns members of working age without a job, in insertion
// order.
func (r *Registry) Unemployed() []*Person {
	var out []*Person
	for _, p := range r.people {
		if !p.Employed && p.CanWork() {
			out = append(out, p)
		}
	}
	return out
}

// AverageHealth returns mean health, or 100 for an empty settlement.
func (r *Registry) AverageHealth() float64 {
	if len(r.people) == 0 {
		return 100
	}
	sum := 0.0
	for _, p := range r.people {
		sum += p.Health
	}
	return sum / float64(len(r.people))
}

// AverageHunger returns mean hunger, or 0 for an empty settlement.
func (r *Registry) AverageHunger() float64 {
	if len(r.people) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range r.people {
		sum += p.Hunger
	}
	return sum / float64(len(r.people))
}

// DayCount returns how many turns this registry has processed.
func (r *Registry) DayCount() int { return r.dayCount }

// SetDayCount restores the day counter from persistence.
func (r *Registry) SetDayCount(n int) { r.dayCount = n }

// LastReport returns the report of the most recent ProcessTurn. The market
// reads it to detect raw-food substitution.
func (r *Registry) LastReport() Report { return r.lastReport }
