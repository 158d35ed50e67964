package world

import (
	"fmt"
	"math"
)

// Map holds the complete hex grid world state.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Radius int               `json:"radius"`
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	m := &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
	return m
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// Set places a hex at the given coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	q := coord.Q
	r := coord.R
	s := coord.S()
	if q < 0 {
		q = -q
	}
	if r < 0 {
		r = -r
	}
	if s < 0 {
		s = -s
	}
	max := q
	if r > max {
		max = r
	}
	if s > max {
		max = s
	}
	return max <= m.Radius
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// Line returns the hexes on the straight line from a to b, excluding a and
// including b, using cube-coordinate interpolation with rounding.
func Line(a, b HexCoord) []HexCoord {
	n := Distance(a, b)
	if n == 0 {
		return nil
	}
	out := make([]HexCoord, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		q := float64(a.Q) + (float64(b.Q)-float64(a.Q))*t
		r := float64(a.R) + (float64(b.R)-float64(a.R))*t
		out = append(out, roundHex(q, r))
	}
	return out
}

// roundHex snaps fractional axial coordinates to the nearest hex.
func roundHex(qf, rf float64) HexCoord {
	sf := -qf - rf
	q := math.Round(qf)
	r := math.Round(rf)
	s := math.Round(sf)

	dq := math.Abs(q - qf)
	dr := math.Abs(r - rf)
	ds := math.Abs(s - sf)

	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}
	return HexCoord{Q: int(q), R: int(r)}
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}
