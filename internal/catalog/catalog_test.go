package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/world"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not locate go.mod from %s", dir)
		}
		dir = parent
	}
}

func TestLoadShippedRecipes(t *testing.T) {
	root := findRepoRoot(t)
	cat, err := Load(filepath.Join(root, "configs", "recipes.yaml"))
	if err != nil {
		t.Fatalf("load recipes: %v", err)
	}
	if cat.Len() == 0 {
		t.Fatalf("shipped catalog is empty")
	}

	// Every production building must have at least one recipe.
	for kind := world.BuildingFarm; kind <= world.BuildingTailor; kind++ {
		if len(cat.ForBuilding(kind)) == 0 {
			t.Fatalf("building %v has no recipe", kind)
		}
	}

	r, ok := cat.Get("burn_charcoal")
	if !ok {
		t.Fatalf("burn_charcoal recipe missing")
	}
	if r.Building != world.BuildingCharcoalKiln {
		t.Fatalf("burn_charcoal runs at %v, want charcoal kiln", r.Building)
	}
	if len(r.Inputs) != 1 || r.Inputs[0].Qty != 10 {
		t.Fatalf("burn_charcoal inputs = %+v, want 10 timber", r.Inputs)
	}
	if len(r.Outputs) != 1 || r.Outputs[0].Qty != 5 {
		t.Fatalf("burn_charcoal outputs = %+v, want 5 coal", r.Outputs)
	}
}

func TestForBuildingOrdersByPriority(t *testing.T) {
	wheat := goods.FromResource(goods.ResourceWheat)
	veg := goods.FromResource(goods.ResourceVegetables)

	cat, err := New([]Recipe{
		{ID: "b", Building: world.BuildingFarm, Outputs: []goods.Stack{{Material: veg, Qty: 1}}, Duration: 1, Priority: 50},
		{ID: "a", Building: world.BuildingFarm, Outputs: []goods.Stack{{Material: wheat, Qty: 1}}, Duration: 1, Priority: 90},
		{ID: "c", Building: world.BuildingFarm, Outputs: []goods.Stack{{Material: veg, Qty: 1}}, Duration: 1, Priority: 50},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	list := cat.ForBuilding(world.BuildingFarm)
	if len(list) != 3 {
		t.Fatalf("recipes = %d, want 3", len(list))
	}
	if list[0].ID != "a" {
		t.Fatalf("highest priority recipe is %q, want a", list[0].ID)
	}
	// Equal priorities keep declaration order.
	if list[1].ID != "b" || list[2].ID != "c" {
		t.Fatalf("stable order broken: %q then %q", list[1].ID, list[2].ID)
	}
}

func TestNewRejectsBadRecipes(t *testing.T) {
	wheat := goods.FromResource(goods.ResourceWheat)
	ok := Recipe{ID: "x", Building: world.BuildingFarm, Outputs: []goods.Stack{{Material: wheat, Qty: 1}}, Duration: 1}

	cases := []struct {
		name    string
		recipes []Recipe
	}{
		{"duplicate id", []Recipe{ok, ok}},
		{"empty id", []Recipe{{Building: world.BuildingFarm, Outputs: ok.Outputs, Duration: 1}}},
		{"zero duration", []Recipe{{ID: "y", Building: world.BuildingFarm, Outputs: ok.Outputs}}},
		{"no outputs", []Recipe{{ID: "y", Building: world.BuildingFarm, Duration: 1}}},
		{"zero quantity", []Recipe{{ID: "y", Building: world.BuildingFarm, Outputs: []goods.Stack{{Material: wheat}}, Duration: 1}}},
	}
	for _, tc := range cases {
		if _, err := New(tc.recipes); err == nil {
			t.Fatalf("%s: validation passed, want error", tc.name)
		}
	}
}

func TestProducingAndConsumingIndexes(t *testing.T) {
	root := findRepoRoot(t)
	cat, err := Load(filepath.Join(root, "configs", "recipes.yaml"))
	if err != nil {
		t.Fatalf("load recipes: %v", err)
	}

	bread := goods.FromGood(goods.GoodBread)
	producers := cat.Producing(bread)
	if len(producers) == 0 {
		t.Fatalf("nothing produces bread")
	}

	timber := goods.FromResource(goods.ResourceTimber)
	consumers := cat.Consuming(timber)
	if len(consumers) == 0 {
		t.Fatalf("nothing consumes timber")
	}
	for _, r := range consumers {
		found := false
		for _, in := range r.Inputs {
			if in.Material == timber {
				found = true
			}
		}
		if !found {
			t.Fatalf("recipe %q indexed under timber without consuming it", r.ID)
		}
	}
}
