package trade

import (
	"sort"

	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/social"
)

// implicitCostPerUnit covers handling and road wear, charged against every
// traded unit before a gap counts as profit.
const implicitCostPerUnit = 1.0

// minUnitMargin is the smallest per-unit profit worth dispatching for.
const minUnitMargin = 0.5

// Opportunity is a priced gap between two settlement markets.
type Opportunity struct {
	Material goods.Material
	Qty      int
	BuyFrom  uint64 // settlement selling the material
	SellTo   uint64 // settlement buying the material

	UnitMargin  float64
	BuyPriority int // the destination's demand urgency
	Score       float64
}

// FindOpportunities scans every settlement pair with a registered route and
// returns profitable gaps, best first. Ordering is fully deterministic.
func FindOpportunities(settlements []*social.Settlement, routes RouteProvider) []Opportunity {
	var opps []Opportunity

	for _, src := range settlements {
		if src.Market == nil {
			continue
		}
		for _, dst := range settlements {
			if dst.ID == src.ID || dst.Market == nil {
				continue
			}
			if routes.Route(src.ID, dst.ID) == nil {
				continue
			}
			for _, sell := range src.Market.SellOffers() {
				for _, buy := range dst.Market.BuyOffers() {
					if buy.Material != sell.Material {
						continue
					}
					margin := buy.Price - sell.Price - implicitCostPerUnit
					if margin < minUnitMargin {
						continue
					}
					qty := sell.Qty
					if buy.Qty < qty {
						qty = buy.Qty
					}
					if qty <= 0 {
						continue
					}
					opps = append(opps, Opportunity{
						Material:    sell.Material,
						Qty:         qty,
						BuyFrom:     src.ID,
						SellTo:      dst.ID,
						UnitMargin:  margin,
						BuyPriority: buy.Priority,
						Score:       margin * float64(qty) * float64(buy.Priority) / 100,
					})
				}
			}
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].Score != opps[j].Score {
			return opps[i].Score > opps[j].Score
		}
		if opps[i].BuyFrom != opps[j].BuyFrom {
			return opps[i].BuyFrom < opps[j].BuyFrom
		}
		if opps[i].SellTo != opps[j].SellTo {
			return opps[i].SellTo < opps[j].SellTo
		}
		return opps[i].Material.Index() < opps[j].Material.Index()
	})
	return opps
}
