package world

import "testing"

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	if a.HexCount() != b.HexCount() {
		t.Fatalf("hex counts differ: %d vs %d", a.HexCount(), b.HexCount())
	}
	for coord, ha := range a.Hexes {
		hb := b.Get(coord)
		if hb == nil {
			t.Fatalf("hex %v missing from second generation", coord)
		}
		if ha.Terrain != hb.Terrain || ha.Elevation != hb.Elevation ||
			ha.Rough != hb.Rough || ha.TreeDensity != hb.TreeDensity {
			t.Fatalf("hex %v differs between runs: %+v vs %+v", coord, ha, hb)
		}
	}
}

func TestPlaceSettlementsIsDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7

	m1 := Generate(cfg)
	m2 := Generate(cfg)
	s1 := PlaceSettlements(m1, cfg.Seed)
	s2 := PlaceSettlements(m2, cfg.Seed)

	if len(s1) == 0 {
		t.Fatalf("no settlements placed")
	}
	if len(s1) != len(s2) {
		t.Fatalf("settlement counts differ: %d vs %d", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i].Coord != s2[i].Coord || s1[i].Size != s2[i].Size || s1[i].Name != s2[i].Name {
			t.Fatalf("settlement %d differs: %+v vs %+v", i, s1[i], s2[i])
		}
	}

	cities := countBySize(s1, SizeCity)
	if cities < 2 || cities > 3 {
		t.Fatalf("cities = %d, want 2–3", cities)
	}
	for _, s := range s1 {
		hex := m1.Get(s.Coord)
		if hex == nil || hex.Terrain == TerrainOcean || hex.Terrain == TerrainMountain {
			t.Fatalf("settlement %q placed on unbuildable terrain", s.Name)
		}
	}
}

func TestPlaceBuildingsMatchesSize(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	m := Generate(cfg)
	seeds := PlaceSettlements(m, cfg.Seed)

	for _, s := range seeds {
		buildings := PlaceBuildings(m, s.Coord, s.Size)
		if len(buildings) == 0 {
			t.Fatalf("settlement %q got no buildings", s.Name)
		}
		hasFarm := false
		for _, b := range buildings {
			if b.Kind == BuildingFarm {
				hasFarm = true
			}
			if Distance(s.Coord, b.Location) > 2 {
				t.Fatalf("%q building %v placed %d tiles out, max 2",
					s.Name, b.Kind, Distance(s.Coord, b.Location))
			}
		}
		if !hasFarm {
			t.Fatalf("settlement %q has no farm", s.Name)
		}
	}
}
