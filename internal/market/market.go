// Package market derives per-settlement buy/sell offers and prices from
// ledger contents, population need, and building input projections. Nothing
// survives across ticks except the derived price map, which is itself fully
// overwritten on every update — the recompute is idempotent by construction.
package market

import (
	"math"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/ledger"
	"github.com/talgya/crossland/internal/population"
	"github.com/talgya/crossland/internal/world"
)

// Offer is one side of a settlement's market position for a material.
// Offers are transient: recomputed every tick, never persisted.
type Offer struct {
	Material goods.Material
	Qty      int
	Price    float64
	Priority int // 0–100 urgency
}

// Market holds one settlement's derived offers and prices.
type Market struct {
	settlementID uint64
	buys         []Offer
	sells        []Offer
	prices       map[goods.Material]float64
}

// New creates an empty market for a settlement.
func New(settlementID uint64) *Market {
	return &Market{
		settlementID: settlementID,
		prices:       make(map[goods.Material]float64),
	}
}

// SettlementID returns the owning settlement's id.
func (m *Market) SettlementID() uint64 { return m.settlementID }

// BuyOffers returns the current demand side, in material order.
func (m *Market) BuyOffers() []Offer { return m.buys }

// SellOffers returns the current supply side, in material order.
func (m *Market) SellOffers() []Offer { return m.sells }

// Price returns the current local price of a material, falling back to its
// base price when the market has no position in it.
func (m *Market) Price(mat goods.Material) float64 {
	if p, ok := m.prices[mat]; ok {
		return p
	}
	return goods.BasePrice(mat)
}

// Demand priorities by material category for building input projections.
const (
	prioFoodInput  = 75
	prioFuelInput  = 70
	prioOtherInput = 60

	prioPopulationFood = 75
	prioRawSubstitute  = 10 // added when raw food is being eaten
	prioEmergency      = 100
)

// productionCyclesAhead is how many recipe runs per building instance the
// market stocks inputs for.
const productionCyclesAhead = 3

// foodReserveTurns is the per-category food reserve the settlement keeps
// before any of it enters the supply side.
const foodReserveTurns = 3

// surplusThreshold is the flat stock floor below which non-food materials
// are never offered for sale.
const surplusThreshold = 20

// Update recomputes demand, then supply, then prices from scratch.
func (m *Market) Update(led *ledger.Ledger, reg *population.Registry, buildings []world.Building, cat *catalog.Catalog) {
	m.buys = nil
	m.sells = nil
	m.prices = make(map[goods.Material]float64)

	demand := make(map[goods.Material]*Offer)
	m.buildingDemand(led, buildings, cat, demand)
	emergency := m.populationDemand(led, reg, demand)

	supply := make(map[goods.Material]*Offer)
	m.computeSupply(led, reg, supply)

	// Flatten in material order for determinism, then price everything.
	for _, mat := range goods.All() {
		d := demand[mat]
		s := supply[mat]

		price := steppedPrice(mat, d, s)
		if emergency[mat] {
			price *= 1.5
		}
		m.prices[mat] = price

		if d != nil && d.Qty > 0 {
			d.Price = price
			m.buys = append(m.buys, *d)
		}
		if s != nil && s.Qty > 0 {
			s.Price = price
			m.sells = append(m.sells, *s)
		}
	}
}

// buildingDemand projects the input needs of present buildings: enough of
// each input for productionCyclesAhead runs of the kind's highest-priority
// recipe, per instance.
func (m *Market) buildingDemand(led *ledger.Ledger, buildings []world.Building, cat *catalog.Catalog, demand map[goods.Material]*Offer) {
	instances := make(map[world.BuildingKind]int)
	for _, b := range buildings {
		instances[b.Kind]++
	}

	// Iterate kinds in enum order, not map order.
	for kind := world.BuildingFarm; kind <= world.BuildingTradePost; kind++ {
		n := instances[kind]
		if n == 0 {
			continue
		}
		recipes := cat.ForBuilding(kind)
		if len(recipes) == 0 {
			continue
		}
		top := recipes[0]

		for _, in := range top.Inputs {
			want := in.Qty * productionCyclesAhead * n
			short := want - led.AmountOf(in.Material)
			if short <= 0 {
				continue
			}

			prio := prioOtherInput
			switch goods.MarketCategoryOf(in.Material) {
			case goods.CategoryFood:
				prio = prioFoodInput
			case goods.CategoryFuel:
				prio = prioFuelInput
			}
			addDemand(demand, in.Material, short, prio)
		}
	}
}

// populationDemand projects food demand from the balanced-diet thirds and
// returns the set of materials under emergency pricing.
func (m *Market) populationDemand(led *ledger.Ledger, reg *population.Registry, demand map[goods.Material]*Offer) map[goods.Material]bool {
	emergency := make(map[goods.Material]bool)
	pop := reg.Len()
	if pop == 0 {
		return emergency
	}

	needed := float64(pop) * population.FoodPerPerson
	perCat := needed / 3
	lastDiet := reg.LastReport()

	// Total food on hand, raw discounted, for the emergency check.
	available := 0.0
	for _, mat := range goods.All() {
		if !goods.IsFood(mat) {
			continue
		}
		if goods.IsProcessedFood(mat) {
			available += float64(led.AmountOf(mat))
		} else {
			available += 0.8 * float64(led.AmountOf(mat))
		}
	}
	critical := available < 2*needed

	for i, fc := range goods.FoodCategories() {
		// Demand targets the processed good of the category.
		target := processedOf(fc)

		have := 0.0
		for _, mat := range goods.FoodsIn(fc) {
			if goods.IsProcessedFood(mat) {
				have += float64(led.AmountOf(mat))
			} else {
				have += 0.8 * float64(led.AmountOf(mat))
			}
		}

		want := perCat * foodReserveTurns
		short := int(math.Ceil(want - have))
		if short <= 0 && !critical {
			continue
		}
		if short <= 0 {
			short = int(math.Ceil(perCat))
		}

		prio := prioPopulationFood
		if lastDiet.RawEaten[i] {
			prio += prioRawSubstitute
		}
		if critical {
			prio = prioEmergency
			emergency[target] = true
		}
		addDemand(demand, target, short, prio)
	}

	return emergency
}

func processedOf(fc goods.FoodCategory) goods.Material {
	switch fc {
	case goods.FoodGrain:
		return goods.FromGood(goods.GoodBread)
	case goods.FoodProtein:
		return goods.FromGood(goods.GoodMeat)
	default:
		return goods.FromGood(goods.GoodCookedVegetables)
	}
}

func addDemand(demand map[goods.Material]*Offer, mat goods.Material, qty, prio int) {
	if d, ok := demand[mat]; ok {
		d.Qty += qty
		if prio > d.Priority {
			d.Priority = prio
		}
		return
	}
	demand[mat] = &Offer{Material: mat, Qty: qty, Priority: prio}
}

// computeSupply lists what the settlement is willing to part with. Non-food
// surplus above a flat threshold sells 30–50%; food only sells beyond twice
// its reserve, and raw foodstuffs are withheld entirely while their
// processed counterpart is under-reserved.
func (m *Market) computeSupply(led *ledger.Ledger, reg *population.Registry, supply map[goods.Material]*Offer) {
	pop := reg.Len()
	perCat := float64(pop) * population.FoodPerPerson / 3
	reserve := perCat * foodReserveTurns

	for _, mat := range goods.All() {
		stock := led.AmountOf(mat)
		if stock <= 0 {
			continue
		}

		if !goods.IsFood(mat) {
			surplus := stock - surplusThreshold
			if surplus <= 0 {
				continue
			}
			// Deep surplus sells a larger share.
			share := 0.3
			if stock > 3*surplusThreshold {
				share = 0.5
			}
			qty := int(float64(surplus) * share)
			if qty > 0 {
				supply[mat] = &Offer{Material: mat, Qty: qty, Priority: 50}
			}
			continue
		}

		// Raw foodstuffs are the emergency buffer: never sold while the
		// processed counterpart sits below its reserve target.
		if !goods.IsProcessedFood(mat) {
			if proc, ok := goods.ProcessedCounterpart(mat); ok {
				if float64(led.AmountOf(proc)) < reserve {
					continue
				}
			}
		}

		keep := 2 * reserve
		surplus := float64(stock) - keep
		if surplus <= 0 {
			continue
		}
		qty := int(surplus * 0.4)
		if qty > 0 {
			supply[mat] = &Offer{Material: mat, Qty: qty, Priority: 50}
		}
	}
}

// steppedPrice applies the demand/supply pressure curve to the base price.
func steppedPrice(mat goods.Material, d, s *Offer) float64 {
	base := goods.BasePrice(mat)

	dq, sq := 0.0, 0.0
	if d != nil {
		dq = float64(d.Qty)
	}
	if s != nil {
		sq = float64(s.Qty)
	}

	if dq == 0 && sq == 0 {
		return base
	}

	var ratio float64
	if sq == 0 {
		ratio = math.Inf(1)
	} else {
		ratio = dq / sq
	}

	switch {
	case ratio > 3:
		return base * 2.0
	case ratio > 2:
		return base * 1.5
	case ratio > 1:
		return base * 1.2
	case ratio < 0.3:
		return base * 0.5
	case ratio < 0.5:
		return base * 0.7
	default:
		return base
	}
}
