// Package social provides settlement metadata: type, housing, center, and
// the per-settlement subsystem handles wired together by the engine.
package social

import (
	"github.com/talgya/crossland/internal/ledger"
	"github.com/talgya/crossland/internal/market"
	"github.com/talgya/crossland/internal/population"
	"github.com/talgya/crossland/internal/world"
)

// SettlementID is a unique identifier for a settlement.
type SettlementID = uint64

// Settlement represents a population center on the hex grid.
type Settlement struct {
	ID     SettlementID         `json:"id"`
	Name   string               `json:"name"`
	Kind   world.SettlementSize `json:"kind"`
	Center world.HexCoord       `json:"center"`

	// Infrastructure
	Housing   int              `json:"housing"`
	Buildings []world.Building `json:"buildings"`

	// Subsystems (rebuilt or restored on startup).
	Ledger *ledger.Ledger       `json:"-"`
	People *population.Registry `json:"-"`
	Market *market.Market       `json:"-"`
}

// IsCity reports whether the settlement is a regional hub.
func (s *Settlement) IsCity() bool {
	return s.Kind == world.SizeCity
}

// KindName returns the settlement type as a string.
func (s *Settlement) KindName() string {
	return world.SizeName(s.Kind)
}

// StorageCapacityFor returns the shared stockpile cap by settlement type.
func StorageCapacityFor(kind world.SettlementSize) int {
	switch kind {
	case world.SizeCity:
		return 2000
	case world.SizeVillage:
		return 900
	default:
		return 400
	}
}

// SeedTreasuryFor returns the starting treasury by settlement type.
func SeedTreasuryFor(kind world.SettlementSize) uint64 {
	switch kind {
	case world.SizeCity:
		return 800
	case world.SizeVillage:
		return 350
	default:
		return 150
	}
}
