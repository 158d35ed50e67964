package goods

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for _, m := range All() {
		got, err := Parse(m.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("Parse(%q) = %v, want %v", m.String(), got, m)
		}
	}

	if _, err := Parse("mithril"); err == nil {
		t.Fatalf("Parse accepted an unknown material")
	}
}

func TestResourceAndGoodDomainsAreDisjoint(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range All() {
		name := m.String()
		if seen[name] {
			t.Fatalf("duplicate material name %q", name)
		}
		seen[name] = true
		if m.IsResource() == m.IsGood() {
			t.Fatalf("material %q is not exactly one of resource/good", name)
		}
	}
}

func TestIndexIsStable(t *testing.T) {
	all := All()
	for i, m := range all {
		if m.Index() != i {
			t.Fatalf("Index(%v) = %d, want position %d", m, m.Index(), i)
		}
	}
}

func TestProcessedCounterparts(t *testing.T) {
	cases := []struct {
		raw       Resource
		processed Good
	}{
		{ResourceWheat, GoodBread},
		{ResourceGame, GoodMeat},
		{ResourceFish, GoodSmokedFish},
		{ResourceVegetables, GoodCookedVegetables},
	}
	for _, tc := range cases {
		proc, ok := ProcessedCounterpart(FromResource(tc.raw))
		if !ok || proc != FromGood(tc.processed) {
			t.Fatalf("ProcessedCounterpart(%v) = %v, want %v", tc.raw, proc, tc.processed)
		}
		raw, ok := RawFallback(FromGood(tc.processed))
		if !ok || raw != FromResource(tc.raw) {
			t.Fatalf("RawFallback(%v) = %v, want %v", tc.processed, raw, tc.raw)
		}
	}

	if _, ok := ProcessedCounterpart(FromResource(ResourceTimber)); ok {
		t.Fatalf("timber has a processed food counterpart")
	}
}

func TestFoodsInPrefersProcessed(t *testing.T) {
	for _, cat := range FoodCategories() {
		foods := FoodsIn(cat)
		if len(foods) == 0 {
			t.Fatalf("category %v has no foods", cat)
		}
		// All processed entries come before all raw ones.
		rawSeen := false
		for _, m := range foods {
			if IsProcessedFood(m) {
				if rawSeen {
					t.Fatalf("category %v: processed %v listed after raw", cat, m)
				}
			} else {
				rawSeen = true
			}
			if Category(m) != cat {
				t.Fatalf("%v listed under category %v", m, cat)
			}
		}
		// Within each block, nutrition must not increase.
		for i := 1; i < len(foods); i++ {
			if IsProcessedFood(foods[i]) == IsProcessedFood(foods[i-1]) &&
				Nutrition(foods[i]) > Nutrition(foods[i-1]) {
				t.Fatalf("category %v not sorted by descending nutrition: %v after %v",
					cat, foods[i], foods[i-1])
			}
		}
	}
}
