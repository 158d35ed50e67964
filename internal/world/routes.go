// Precomputed trade routes between settlements. The simulation core treats
// route lookup as a black box that returns an ordered tile path; this table
// is the concrete provider used by the CLI and integration tests.
package world

import "sort"

// RouteKey identifies a directed settlement pair.
type RouteKey struct {
	From uint64
	To   uint64
}

// RouteTable stores precomputed paths between settlement centers. Absence of
// an entry is a valid outcome: trade between the pair is simply not attempted.
type RouteTable struct {
	paths map[RouteKey][]HexCoord
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{paths: make(map[RouteKey][]HexCoord)}
}

// Route returns the ordered tile path from one settlement to another, or nil
// when no route exists.
func (t *RouteTable) Route(from, to uint64) []HexCoord {
	return t.paths[RouteKey{From: from, To: to}]
}

// AddRoute registers a path in both directions. The forward path excludes
// fromCenter and ends on the destination center; the derived reverse path
// likewise ends on fromCenter.
func (t *RouteTable) AddRoute(from, to uint64, fromCenter HexCoord, path []HexCoord) {
	if len(path) == 0 {
		return
	}
	t.paths[RouteKey{From: from, To: to}] = path

	reversed := make([]HexCoord, 0, len(path))
	for i := len(path) - 2; i >= 0; i-- {
		reversed = append(reversed, path[i])
	}
	reversed = append(reversed, fromCenter)
	t.paths[RouteKey{From: to, To: from}] = reversed
}

// maxRoadDistance bounds which settlement pairs get a road at all.
const maxRoadDistance = 18

// BuildRouteTable lays straight-line roads between every settlement pair
// within range, marks the road flag on traversed land tiles, and records the
// resulting paths. Paths that would cross ocean are discarded.
func BuildRouteTable(m *Map, centers map[uint64]HexCoord) *RouteTable {
	t := NewRouteTable()

	ids := make([]uint64, 0, len(centers))
	for id := range centers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			ca, cb := centers[a], centers[b]
			if Distance(ca, cb) > maxRoadDistance {
				continue
			}

			path := Line(ca, cb)
			passable := true
			for _, c := range path {
				hex := m.Get(c)
				if hex == nil || hex.Terrain == TerrainOcean {
					passable = false
					break
				}
			}
			if !passable {
				continue
			}

			for _, c := range path {
				m.Get(c).Road = true
			}
			if start := m.Get(ca); start != nil {
				start.Road = true
			}
			t.AddRoute(a, b, ca, path)
		}
	}
	return t
}
