package ledger

import (
	"testing"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/world"
)

var (
	timber = goods.FromResource(goods.ResourceTimber)
	coal   = goods.FromGood(goods.GoodCoal)
	wheat  = goods.FromResource(goods.ResourceWheat)
	bread  = goods.FromGood(goods.GoodBread)
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Recipe{
		{
			ID:       "burn_charcoal",
			Building: world.BuildingCharcoalKiln,
			Inputs:   []goods.Stack{{Material: timber, Qty: 10}},
			Outputs:  []goods.Stack{{Material: coal, Qty: 5}},
			Duration: 2,
			Priority: 80,
		},
		{
			ID:       "bake_bread",
			Building: world.BuildingBakery,
			Inputs:   []goods.Stack{{Material: wheat, Qty: 4}},
			Outputs:  []goods.Stack{{Material: bread, Qty: 4}},
			Duration: 1,
			Priority: 100,
		},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func TestStartProductionDeductsInputsUpFront(t *testing.T) {
	cat := testCatalog(t)
	led := New(1, 500)
	led.Add(timber, 10)

	kiln := world.HexCoord{Q: 1, R: 1}
	r, _ := cat.Get("burn_charcoal")

	if !led.StartProduction(r, kiln, 1.0) {
		t.Fatalf("StartProduction failed with sufficient inputs")
	}
	if got := led.AmountOf(timber); got != 0 {
		t.Fatalf("timber after start = %d, want 0", got)
	}
	if got := led.AmountOf(coal); got != 0 {
		t.Fatalf("coal before completion = %d, want 0", got)
	}

	if done := led.TickProduction(cat); len(done) != 0 {
		t.Fatalf("job completed after 1 tick, want 2")
	}
	done := led.TickProduction(cat)
	if len(done) != 1 {
		t.Fatalf("completed jobs = %d, want 1", len(done))
	}
	if got := led.AmountOf(coal); got != 5 {
		t.Fatalf("coal after completion = %d, want 5", got)
	}
	if len(led.Jobs()) != 0 {
		t.Fatalf("job queue not drained")
	}
}

func TestStartProductionFailsWithoutMutation(t *testing.T) {
	cat := testCatalog(t)
	led := New(1, 500)
	led.Add(timber, 9)

	r, _ := cat.Get("burn_charcoal")
	if led.StartProduction(r, world.HexCoord{Q: 1, R: 1}, 1.0) {
		t.Fatalf("StartProduction succeeded with insufficient inputs")
	}
	if got := led.AmountOf(timber); got != 9 {
		t.Fatalf("timber after failed start = %d, want 9", got)
	}
	if len(led.Jobs()) != 0 {
		t.Fatalf("failed start enqueued a job")
	}
}

func TestStartProductionRejectsBusyBuildingAndBadProductivity(t *testing.T) {
	cat := testCatalog(t)
	led := New(1, 500)
	led.Add(wheat, 20)

	bakery := world.HexCoord{Q: 2, R: 0}
	r, _ := cat.Get("bake_bread")

	if led.StartProduction(r, bakery, 0) {
		t.Fatalf("accepted zero productivity")
	}
	if !led.StartProduction(r, bakery, 1.0) {
		t.Fatalf("first start failed")
	}
	if led.StartProduction(r, bakery, 1.0) {
		t.Fatalf("second job accepted at a busy building")
	}
	if got := led.AmountOf(wheat); got != 16 {
		t.Fatalf("wheat = %d, want 16 (one recipe's worth deducted)", got)
	}
}

func TestDurationFloorsProductivityButOutputDoesNot(t *testing.T) {
	cat := testCatalog(t)
	led := New(1, 500)
	led.Add(timber, 10)

	r, _ := cat.Get("burn_charcoal")
	if !led.StartProduction(r, world.HexCoord{}, 0.1) {
		t.Fatalf("start failed")
	}

	// Duration uses the 0.5 floor: ceil(2 / 0.5) = 4 ticks.
	for i := 0; i < 3; i++ {
		if done := led.TickProduction(cat); len(done) != 0 {
			t.Fatalf("job completed at tick %d, want 4", i+1)
		}
	}
	done := led.TickProduction(cat)
	if len(done) != 1 {
		t.Fatalf("job not completed at tick 4")
	}
	// Output scales by the raw 0.1: floor(5 * 0.1) = 0, clamped to 1.
	if got := led.AmountOf(coal); got != 1 {
		t.Fatalf("coal = %d, want 1 (minimum one unit)", got)
	}
}

func TestAddClampsAtSharedCapacity(t *testing.T) {
	led := New(1, 10)
	if !led.Add(timber, 6) {
		t.Fatalf("add within capacity reported truncation")
	}
	if led.Add(wheat, 6) {
		t.Fatalf("overflowing add reported full application")
	}
	if got := led.TotalStock(); got != 10 {
		t.Fatalf("total stock = %d, want 10 (clamped)", got)
	}
	if got := led.AmountOf(wheat); got != 4 {
		t.Fatalf("wheat = %d, want 4", got)
	}
}

func TestRemoveFailsWithoutMutation(t *testing.T) {
	led := New(1, 100)
	led.Add(timber, 5)
	if led.Remove(timber, 6) {
		t.Fatalf("remove succeeded beyond stock")
	}
	if got := led.AmountOf(timber); got != 5 {
		t.Fatalf("timber after failed remove = %d, want 5", got)
	}
	if !led.Remove(timber, 5) {
		t.Fatalf("exact remove failed")
	}
	if got := led.AmountOf(timber); got != 0 {
		t.Fatalf("timber = %d, want 0", got)
	}
}

func TestTreasuryNeverGoesNegative(t *testing.T) {
	led := New(1, 100)
	led.AddMoney(30)
	if led.RemoveMoney(31) {
		t.Fatalf("overdraft allowed")
	}
	if got := led.Money(); got != 30 {
		t.Fatalf("treasury after failed withdrawal = %d, want 30", got)
	}
	if !led.RemoveMoney(30) {
		t.Fatalf("exact withdrawal failed")
	}
	if got := led.Money(); got != 0 {
		t.Fatalf("treasury = %d, want 0", got)
	}
}
