package persistence

import (
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	sim, _, _ := testWorld(t)
	for tick := uint64(1); tick <= 3; tick++ {
		sim.TickDay(tick)
	}

	path := filepath.Join(t.TempDir(), "world.snap.zst")
	if err := ExportSnapshot(path, sim); err != nil {
		t.Fatalf("export snapshot: %v", err)
	}

	snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	if snap.Tick != 3 {
		t.Fatalf("tick = %d, want 3", snap.Tick)
	}
	if snap.Stats != sim.Stats {
		t.Fatalf("stats diverged:\n  %+v\n  %+v", snap.Stats, sim.Stats)
	}
	if len(snap.Settlements) != len(sim.Settlements) {
		t.Fatalf("settlements = %d, want %d", len(snap.Settlements), len(sim.Settlements))
	}
	for i, want := range sim.Settlements {
		got := snap.Settlements[i]
		if got.Name != want.Name || got.Treasury != want.Ledger.Money() {
			t.Errorf("settlement %d exported as %+v", want.ID, got)
		}
		if got.Population != want.People.Len() {
			t.Errorf("%s population = %d, want %d", want.Name, got.Population, want.People.Len())
		}
		if len(got.Stock) != len(want.Ledger.Stock()) {
			t.Errorf("%s stock entries = %d, want %d", want.Name, len(got.Stock), len(want.Ledger.Stock()))
		}
	}
}

func TestReadSnapshotMissingFile(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.zst")); err == nil {
		t.Fatalf("missing file returned no error")
	}
}
