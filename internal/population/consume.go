// Food consumption and the condition updates derived from it.
package population

import (
	"math"

	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/ledger"
)

// FoodPerPerson is the units of food need per person per turn.
const FoodPerPerson = 2.0

// Report summarizes one ProcessTurn.
type Report struct {
	Needed      float64
	Consumed    float64 // Nutrition-weighted units covered
	Sufficiency float64 // min(1, Consumed/Needed)
	DietQuality float64 // 0–1

	// Per-category nutrition consumed, keyed by goods.FoodCategories order.
	ByCategory [3]float64
	// RawEaten marks categories where a raw substitute was consumed.
	RawEaten [3]bool

	ProcessedUnits  int
	RawUnits        int
	VegetablesEaten bool

	Births     int
	Deaths     int
	Immigrants int
	Emigrants  int
	AgedYear   bool
}

// consumeFood runs the two-pass balanced-diet consumption against the
// settlement ledger and fills in the consumption half of the report.
func (r *Registry) consumeFood(led *ledger.Ledger, rep *Report) {
	pop := len(r.people)
	rep.Needed = float64(pop) * FoodPerPerson
	if pop == 0 {
		rep.Sufficiency = 1
		return
	}

	cats := goods.FoodCategories()
	perCat := rep.Needed / 3

	// First pass: balanced thirds, processed foods before raw substitutes.
	for i, cat := range cats {
		remaining := perCat
		for _, m := range goods.FoodsIn(cat) {
			if remaining <= 0 {
				break
			}
			r.eat(led, m, &remaining, i, rep)
		}
	}

	// Second pass: a deficit is covered by any remaining food regardless of
	// category balance.
	deficit := rep.Needed - rep.Consumed
	if deficit > 0 {
		for i, cat := range cats {
			for _, m := range goods.FoodsIn(cat) {
				if deficit <= 0 {
					break
				}
				r.eat(led, m, &deficit, i, rep)
			}
		}
	}

	rep.Sufficiency = 1
	if rep.Needed > 0 {
		rep.Sufficiency = math.Min(1, rep.Consumed/rep.Needed)
	}
	rep.DietQuality = dietQuality(rep)
}

// eat consumes enough units of one material to cover up to *need nutrition
// units, bounded by stock, and records the consumption.
func (r *Registry) eat(led *ledger.Ledger, m goods.Material, need *float64, catIdx int, rep *Report) {
	stock := led.AmountOf(m)
	if stock <= 0 || *need <= 0 {
		return
	}
	nutrition := goods.Nutrition(m)
	units := int(math.Ceil(*need / nutrition))
	if units > stock {
		units = stock
	}
	if units <= 0 {
		return
	}
	led.Remove(m, units)

	covered := float64(units) * nutrition
	if covered > *need {
		covered = *need
	}
	*need -= covered
	rep.Consumed += covered
	rep.ByCategory[catIdx] += covered

	if goods.IsProcessedFood(m) {
		rep.ProcessedUnits += units
	} else {
		rep.RawUnits += units
		rep.RawEaten[catIdx] = true
	}
	if goods.Category(m) == goods.FoodVegetable {
		rep.VegetablesEaten = true
	}
}

// dietQuality blends sufficiency (50%), category balance (30%), and the
// processed-food ratio (20%), with a flat vegetable bonus, capped at 1.
func dietQuality(rep *Report) float64 {
	if rep.Consumed <= 0 {
		return 0
	}

	// Balance: 1 minus the mean absolute deviation of category shares from
	// the ideal third.
	mad := 0.0
	for _, c := range rep.ByCategory {
		mad += math.Abs(c/rep.Consumed - 1.0/3.0)
	}
	mad /= 3
	balance := 1 - mad

	totalUnits := rep.ProcessedUnits + rep.RawUnits
	processedRatio := 0.0
	if totalUnits > 0 {
		processedRatio = float64(rep.ProcessedUnits) / float64(totalUnits)
	}

	q := 0.5*rep.Sufficiency + 0.3*balance + 0.2*processedRatio
	if rep.VegetablesEaten {
		q += 0.1
	}
	return math.Min(1, q)
}

// maxHungerGain caps how fast hunger can worsen in a single turn.
const maxHungerGain = 15.0

// applyCondition moves every person's hunger, health, and happiness from the
// turn's consumption outcome.
func (r *Registry) applyCondition(rep *Report) {
	// Hunger delta by sufficiency tier, scaled by diet quality. A positive
	// (worsening) change is capped so one bad day cannot starve anyone.
	var delta float64
	switch {
	case rep.Sufficiency >= 1:
		delta = -50
	case rep.Sufficiency >= 0.75:
		delta = -25
	case rep.Sufficiency >= 0.5:
		delta = -10
	case rep.Sufficiency >= 0.25:
		delta = 5
	default:
		delta = 15
	}
	delta *= 0.5 + 0.5*rep.DietQuality
	if delta > maxHungerGain {
		delta = maxHungerGain
	}

	for _, p := range r.people {
		p.Hunger = clamp(p.Hunger+delta, 0, 100)

		// Health from hunger tiers.
		switch {
		case p.Hunger > 80:
			p.Health -= 5
		case p.Hunger > 60:
			p.Health -= 2
		case p.Hunger < 20:
			p.Health += 5
		case p.Hunger < 40:
			p.Health += 3
		default:
			if p.Health < 100 {
				p.Health++
			}
		}
		p.Health = clamp(p.Health, 0, 100)

		// Happiness from hunger and diet quality.
		switch {
		case p.Hunger > 70:
			p.Happiness -= 15
		case p.Hunger < 20:
			p.Happiness += 5 + (rep.DietQuality-0.5)*10
		default:
			if rep.DietQuality < 0.5 {
				p.Happiness -= 2
			}
		}
		p.Happiness = clamp(p.Happiness, 0, 100)
	}
}
