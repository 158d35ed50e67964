// Settlement placement — finds suitable locations, seeds initial settlements,
// and lays out their production buildings on surrounding tiles.
package world

import (
	"math"
	"math/rand"
	"sort"
)

// SettlementSeed holds the parameters for an initial settlement placement.
type SettlementSeed struct {
	Coord HexCoord
	Size  SettlementSize
	Score float64 // Desirability score
	Name  string
}

// SettlementSize categorizes settlement scale.
type SettlementSize uint8

const (
	SizeHamlet  SettlementSize = iota // a few dozen people
	SizeVillage                       // up to a couple hundred
	SizeCity                          // regional hub
)

// SizeName returns a human-readable name for a settlement size.
func SizeName(s SettlementSize) string {
	switch s {
	case SizeCity:
		return "city"
	case SizeVillage:
		return "village"
	default:
		return "hamlet"
	}
}

// PlaceSettlements finds optimal locations for initial settlements on the map.
// Returns a list of settlement seeds sorted by desirability.
func PlaceSettlements(m *Map, seed int64) []SettlementSeed {
	rng := rand.New(rand.NewSource(seed + 200))

	// Score every land hex for settlement desirability.
	type scored struct {
		coord HexCoord
		score float64
	}
	var candidates []scored

	for coord, hex := range m.Hexes {
		if hex.Terrain == TerrainOcean || hex.Terrain == TerrainMountain {
			continue
		}
		s := settlementScore(m, coord, hex)
		if s > 0 {
			candidates = append(candidates, scored{coord, s})
		}
	}

	// Sort by score descending, coordinates breaking ties so placement is
	// deterministic per seed despite map iteration order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return lessCoord(candidates[i].coord, candidates[j].coord)
	})

	var seeds []SettlementSeed

	taken := make(map[HexCoord]bool)
	minCityDist := 10
	minVillageDist := 5
	minHamletDist := 3

	// Cities: top 2–3 locations.
	numCities := 2 + rng.Intn(2)
	for _, c := range candidates {
		if len(seeds) >= numCities {
			break
		}
		if tooClose(c.coord, seeds, minCityDist) {
			continue
		}
		taken[c.coord] = true
		seeds = append(seeds, SettlementSeed{Coord: c.coord, Size: SizeCity, Score: c.score})
	}

	// Villages: next 4–7 locations.
	numVillages := 4 + rng.Intn(4)
	for _, c := range candidates {
		if countBySize(seeds, SizeVillage) >= numVillages {
			break
		}
		if taken[c.coord] || tooClose(c.coord, seeds, minVillageDist) {
			continue
		}
		taken[c.coord] = true
		seeds = append(seeds, SettlementSeed{Coord: c.coord, Size: SizeVillage, Score: c.score})
	}

	// Hamlets: scatter 6–10 across remaining good land.
	numHamlets := 6 + rng.Intn(5)
	for _, c := range candidates {
		if countBySize(seeds, SizeHamlet) >= numHamlets {
			break
		}
		if taken[c.coord] || tooClose(c.coord, seeds, minHamletDist) {
			continue
		}
		taken[c.coord] = true
		seeds = append(seeds, SettlementSeed{Coord: c.coord, Size: SizeHamlet, Score: c.score})
	}

	// Assign procedural names.
	names := generateNames(rng, len(seeds))
	for i := range seeds {
		seeds[i].Name = names[i]
	}

	return seeds
}

// settlementScore evaluates how desirable a hex is for a settlement.
// Prefers: coast (trade), rivers (water+trade), fertile plains, nearby
// terrain diversity (economic complexity).
func settlementScore(m *Map, coord HexCoord, hex *Hex) float64 {
	score := 0.0

	switch hex.Terrain {
	case TerrainPlains:
		score += 3.0
	case TerrainCoast:
		score += 4.0 // Harbors are prime locations
	case TerrainRiver:
		score += 3.5 // Freshwater + trade arteries
	case TerrainForest:
		score += 1.5
	case TerrainSwamp, TerrainTundra:
		score += 0.5
	default:
		return 0
	}

	// Bonus for nearby terrain diversity.
	terrainTypes := make(map[Terrain]bool)
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh != nil && nh.Terrain != TerrainOcean {
			terrainTypes[nh.Terrain] = true
		}
	}
	score += float64(len(terrainTypes)) * 0.3

	// Bonus for nearby river or coast (water access).
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil {
			continue
		}
		if nh.Terrain == TerrainRiver || nh.Terrain == TerrainCoast {
			score += 0.5
			break
		}
	}

	// Rainfall stands in for agricultural potential.
	score += math.Log1p(hex.Rainfall*10) * 0.2

	return score
}

func tooClose(coord HexCoord, existing []SettlementSeed, minDist int) bool {
	for _, s := range existing {
		if Distance(coord, s.Coord) < minDist {
			return true
		}
	}
	return false
}

func countBySize(seeds []SettlementSeed, size SettlementSize) int {
	n := 0
	for _, s := range seeds {
		if s.Size == size {
			n++
		}
	}
	return n
}

// buildingsForSize lists the building kinds a new settlement starts with, in
// placement order. Larger settlements extend the smaller set.
func buildingsForSize(size SettlementSize) []BuildingKind {
	base := []BuildingKind{BuildingFarm, BuildingLumberCamp}
	switch size {
	case SizeHamlet:
		return append(base, BuildingBakery)
	case SizeVillage:
		return append(base,
			BuildingBakery, BuildingHuntersLodge, BuildingKitchen,
			BuildingCharcoalKiln, BuildingQuarry)
	default: // city
		return append(base,
			BuildingBakery, BuildingHuntersLodge, BuildingKitchen,
			BuildingCharcoalKiln, BuildingQuarry, BuildingMine,
			BuildingSmokehouse, BuildingSawmill, BuildingSmithy,
			BuildingTailor, BuildingTradePost)
	}
}

// PlaceBuildings lays out a settlement's starting buildings on the center
// tile's surroundings, preferring fitting terrain (fisheries want water,
// mines want mountains). Returns the placed building list.
func PlaceBuildings(m *Map, center HexCoord, size SettlementSize) []Building {
	kinds := buildingsForSize(size)

	// Candidate tiles: the center plus two rings around it.
	candidates := []HexCoord{center}
	ring1 := center.Neighbors()
	candidates = append(candidates, ring1[:]...)
	for _, n := range ring1 {
		for _, nn := range n.Neighbors() {
			if Distance(nn, center) == 2 {
				candidates = append(candidates, nn)
			}
		}
	}

	// Water access enables a fishery in coastal settlements.
	if hasWaterAccess(m, center) {
		kinds = append(kinds, BuildingFishery)
	}

	used := make(map[HexCoord]bool)
	var placed []Building
	for _, kind := range kinds {
		loc, ok := pickSite(m, candidates, used, kind)
		if !ok {
			continue
		}
		used[loc] = true
		hex := m.Get(loc)
		k := kind
		hex.Building = &k
		placed = append(placed, Building{Kind: kind, Location: loc})
	}
	return placed
}

func hasWaterAccess(m *Map, center HexCoord) bool {
	hex := m.Get(center)
	if hex != nil && (hex.Terrain == TerrainCoast || hex.Terrain == TerrainRiver) {
		return true
	}
	for _, nc := range center.Neighbors() {
		nh := m.Get(nc)
		if nh != nil && (nh.Terrain == TerrainCoast || nh.Terrain == TerrainRiver) {
			return true
		}
	}
	return false
}

// pickSite picks the first free candidate tile whose terrain suits the
// building, falling back to any free land tile.
func pickSite(m *Map, candidates []HexCoord, used map[HexCoord]bool, kind BuildingKind) (HexCoord, bool) {
	suits := func(h *Hex) bool {
		switch kind {
		case BuildingFarm:
			return h.Terrain == TerrainPlains || h.Terrain == TerrainRiver
		case BuildingFishery:
			return h.Terrain == TerrainCoast || h.Terrain == TerrainRiver
		case BuildingLumberCamp, BuildingHuntersLodge:
			return h.Terrain == TerrainForest
		case BuildingQuarry, BuildingMine:
			return h.Terrain == TerrainMountain || h.Rough
		default:
			return h.Terrain != TerrainOcean
		}
	}

	for pass := 0; pass < 2; pass++ {
		for _, c := range candidates {
			if used[c] {
				continue
			}
			h := m.Get(c)
			if h == nil || h.Terrain == TerrainOcean || h.Building != nil {
				continue
			}
			if pass == 0 && !suits(h) {
				continue
			}
			return c, true
		}
	}
	return HexCoord{}, false
}

// generateNames produces procedural settlement names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	suffixes := []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}

// PopulationForSize returns the initial population for a settlement size.
func PopulationForSize(size SettlementSize, rng *rand.Rand) int {
	switch size {
	case SizeCity:
		return 80 + rng.Intn(60)
	case SizeVillage:
		return 35 + rng.Intn(25)
	default:
		return 12 + rng.Intn(10)
	}
}

// HousingForSize returns the housing capacity for a settlement size.
func HousingForSize(size SettlementSize) int {
	switch size {
	case SizeCity:
		return 220
	case SizeVillage:
		return 90
	default:
		return 35
	}
}
