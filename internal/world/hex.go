// Package world provides the hex grid, terrain, buildings, and the movement
// and routing collaborators consumed by the simulation core.
// Uses axial coordinates (q, r) for the hex grid.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Fertile plains — farms and settlements
	TerrainForest                  // Timber, game
	TerrainMountain                // Ore, stone
	TerrainCoast                   // Fishing, port potential
	TerrainRiver                   // Freshwater, fishing, trade arteries
	TerrainSwamp                   // Rough going
	TerrainTundra                  // Harsh, sparse
	TerrainOcean                   // Impassable on foot
)

// Hex represents a single tile on the world map.
type Hex struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	// Elevation and climate data (set during world generation).
	Elevation   float64 `json:"elevation"`   // 0.0 (sea level) to 1.0 (peak)
	Rainfall    float64 `json:"rainfall"`    // 0.0 (arid) to 1.0 (tropical)
	Temperature float64 `json:"temperature"` // 0.0 (frozen) to 1.0 (hot)

	// Movement modifiers.
	Road        bool    `json:"road"`         // Built road crosses this tile
	Rough       bool    `json:"rough"`        // Broken ground, slows travel
	TreeDensity float64 `json:"tree_density"` // 0.0 (open) to 1.0 (dense)

	// Occupancy.
	SettlementID *uint64       `json:"settlement_id,omitempty"`
	Building     *BuildingKind `json:"building,omitempty"`
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	if dq < 0 {
		dq = -dq
	}
	if dr < 0 {
		dr = -dr
	}
	if ds < 0 {
		ds = -ds
	}
	// Max of the three absolute differences in cube coordinates.
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}
