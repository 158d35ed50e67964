// Demographic transitions: births, deaths, immigration, emigration. Each
// step rolls against a snapshot of current members and commits the full
// transition set at the end.
package population

import (
	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/ledger"
)

// Childbearing age band for birth eligibility.
const (
	minParentAge = 18
	maxParentAge = 45
)

var breadMat = goods.FromGood(goods.GoodBread)

// processBirths rolls one birth chance per male/female pair of childbearing
// age. Births require a bread buffer and spare housing.
func (r *Registry) processBirths(led *ledger.Ledger, housing int, rep *Report) {
	if led.AmountOf(breadMat) <= 50 {
		return
	}
	if len(r.people) >= housing {
		return
	}

	males, females := 0, 0
	for _, p := range r.people {
		if p.Age < minParentAge || p.Age > maxParentAge {
			continue
		}
		if p.Sex == SexMale {
			males++
		} else {
			females++
		}
	}
	pairs := males
	if females < pairs {
		pairs = females
	}

	var newborns []*Person
	for i := 0; i < pairs; i++ {
		if len(r.people)+len(newborns) >= housing {
			break
		}
		if r.rng.Float64() < r.cfg.BirthRate {
			newborns = append(newborns, r.spawner.SpawnChild(r.settlementID))
		}
	}

	for _, child := range newborns {
		r.Add(child)
	}
	rep.Births = len(newborns)
}

// ageDeathMultiplier escalates mortality in old age. Bands do not stack;
// the highest applicable one wins.
func ageDeathMultiplier(age uint16) float64 {
	switch {
	case age > 95:
		return 10
	case age > 85:
		return 5
	case age > 75:
		return 2.5
	case age > 65:
		return 1.5
	default:
		return 1
	}
}

// healthDeathMultiplier escalates mortality as health collapses. Unlike the
// age bands these compose multiplicatively.
func healthDeathMultiplier(health float64) float64 {
	mul := 1.0
	if health < 20 {
		mul *= 2
	}
	if health < 10 {
		mul *= 2.5
	}
	if health == 0 {
		mul *= 4
	}
	return mul
}

// processDeaths rolls a per-person death chance scaled by age and health.
func (r *Registry) processDeaths(rep *Report) {
	var dead []PersonID
	for _, p := range r.people {
		chance := r.cfg.DeathRate * ageDeathMultiplier(p.Age) * healthDeathMultiplier(p.Health)
		if r.rng.Float64() < chance {
			dead = append(dead, p.ID)
		}
	}
	for _, id := range dead {
		r.Remove(id)
	}
	rep.Deaths = len(dead)
}

// Attractiveness signal weights for immigration.
const (
	weightFoodSecurity = 0.3
	weightWealth       = 0.2
	weightEmployment   = 0.3
	weightHousing      = 0.2
)

// attractiveness scores how appealing the settlement looks to outsiders,
// in [0, 1]. Cities project half again as much pull.
func (r *Registry) attractiveness(led *ledger.Ledger, isCity bool, housing, unemployed int) float64 {
	score := 0.0
	if led.AmountOf(breadMat) > 100 {
		score += weightFoodSecurity
	}
	if led.GoodsValue() > 500 {
		score += weightWealth
	}
	if unemployed == 0 {
		score += weightEmployment
	}
	if len(r.people) < housing {
		score += weightHousing
	}
	if isCity {
		score *= 1.5
	}
	if score > 1 {
		score = 1
	}
	return score
}

// processImmigration rolls a single arrival event; success brings 1–3
// working-age adults, bounded by spare housing.
func (r *Registry) processImmigration(led *ledger.Ledger, isCity bool, housing, unemployed int, rep *Report) {
	attract := r.attractiveness(led, isCity, housing, unemployed)
	if attract <= 0 {
		return
	}
	if r.rng.Float64() >= r.cfg.ImmigrationRate*attract {
		return
	}

	n := 1 + r.rng.Intn(3)
	if spare := housing - len(r.people); n > spare {
		n = spare
	}

	var arrivals []*Person
	for i := 0; i < n; i++ {
		arrivals = append(arrivals, r.spawner.SpawnAdult(r.settlementID))
	}
	for _, p := range arrivals {
		r.Add(p)
	}
	rep.Immigrants = len(arrivals)
}

// processEmigration fires when food has run out or misery is widespread;
// healthy young adults are the ones able to leave.
func (r *Registry) processEmigration(led *ledger.Ledger, rep *Report) {
	foodShort := led.AmountOf(breadMat) < 10

	unhappyCount := 0
	for _, p := range r.people {
		if p.Happiness < 30 {
			unhappyCount++
		}
	}
	unhappyMajority := unhappyCount*2 > len(r.people)

	if !foodShort && !unhappyMajority {
		return
	}

	chance := 0.05
	if foodShort {
		chance += 0.03
	}
	if unhappyMajority {
		chance += 0.02
	}

	var leavers []PersonID
	for _, p := range r.people {
		if p.Age < 18 || p.Age > 40 || p.Health <= 50 {
			continue
		}
		if r.rng.Float64() < chance {
			leavers = append(leavers, p.ID)
		}
	}
	for _, id := range leavers {
		r.Remove(id)
	}
	rep.Emigrants = len(leavers)
}
