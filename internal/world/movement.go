// Movement cost model shared by traders and any other overland travel.
package world

// DefaultAPBudget is the action points a traveler spends per turn.
const DefaultAPBudget = 6

// MovementCost returns the action-point cost of stepping from one hex to an
// adjacent one. Roads dominate every other modifier; water transitions model
// embarking and disembarking.
func MovementCost(from, to *Hex, embarked bool) int {
	if to == nil {
		return 0
	}

	// Water transitions.
	toWater := to.Terrain == TerrainOcean
	fromWater := from != nil && from.Terrain == TerrainOcean
	if toWater {
		if embarked {
			return 1 // Sailing
		}
		return 4 // Embarking
	}
	if fromWater {
		return 2 // Disembarking
	}

	if to.Road {
		return 1
	}

	cost := 2
	if to.Rough {
		cost++
	}
	if to.TreeDensity > 0.5 {
		cost++
	}
	if to.Terrain == TerrainSwamp {
		cost++
	}
	return cost
}
