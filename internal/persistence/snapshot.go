package persistence

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/crossland/internal/engine"
	"github.com/talgya/crossland/internal/goods"
)

// Snapshot is a point-in-time export of world state for offline analysis.
// It is written as zstd-compressed JSON.
type Snapshot struct {
	Tick        uint64               `json:"tick"`
	Stats       engine.SimStats      `json:"stats"`
	Settlements []SettlementSnapshot `json:"settlements"`
}

// SettlementSnapshot is one settlement's exported state.
type SettlementSnapshot struct {
	ID         uint64        `json:"id"`
	Name       string        `json:"name"`
	Kind       string        `json:"kind"`
	Population int           `json:"population"`
	Treasury   uint64        `json:"treasury"`
	AvgHealth  float64       `json:"avg_health"`
	AvgHunger  float64       `json:"avg_hunger"`
	Stock      []goods.Stack `json:"stock"`
}

// ExportSnapshot writes the current world state to path.
func ExportSnapshot(path string, sim *engine.Simulation) error {
	snap := Snapshot{
		Tick:  sim.CurrentTick(),
		Stats: sim.Stats,
	}
	for _, s := range sim.Settlements {
		snap.Settlements = append(snap.Settlements, SettlementSnapshot{
			ID:         s.ID,
			Name:       s.Name,
			Kind:       s.KindName(),
			Population: s.People.Len(),
			Treasury:   s.Ledger.Money(),
			AvgHealth:  s.People.AverageHealth(),
			AvgHunger:  s.People.AverageHunger(),
			Stock:      s.Ledger.Stock(),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return zw.Close()
}

// ReadSnapshot loads a snapshot written by ExportSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
