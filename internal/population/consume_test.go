package population

import (
	"testing"

	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/ledger"
	"github.com/talgya/crossland/internal/world"
)

func testRegistry(t *testing.T, count int) *Registry {
	t.Helper()
	reg := NewRegistry(1, NewSpawner(42), 42, DefaultConfig())
	for i := 0; i < count; i++ {
		sex := SexMale
		if i%2 == 1 {
			sex = SexFemale
		}
		reg.Add(&Person{
			ID:           PersonID(i + 1),
			Name:         "Test Person",
			Age:          30,
			Sex:          sex,
			SettlementID: 1,
			Skills:       map[world.JobKind]float64{},
			Health:       90,
			Hunger:       50,
			Happiness:    60,
		})
	}
	return reg
}

func TestConsumeFallsBackToRawGrain(t *testing.T) {
	reg := testRegistry(t, 10)
	led := ledger.New(1, 1000)
	led.Add(goods.FromResource(goods.ResourceWheat), 100)

	var rep Report
	reg.consumeFood(led, &rep)

	if rep.Needed != 20 {
		t.Fatalf("needed = %v, want 20", rep.Needed)
	}
	if rep.Sufficiency != 1 {
		t.Fatalf("sufficiency = %v, want 1 (plenty of wheat)", rep.Sufficiency)
	}
	if rep.ProcessedUnits != 0 {
		t.Fatalf("processed units = %d, want 0", rep.ProcessedUnits)
	}
	if rep.RawUnits == 0 {
		t.Fatalf("no raw food consumed")
	}
	if !rep.RawEaten[0] {
		t.Fatalf("grain category not flagged as raw-substituted")
	}
	if led.AmountOf(goods.FromResource(goods.ResourceWheat)) >= 100 {
		t.Fatalf("wheat stock did not drop")
	}
	// Everything came from one unprocessed category, so quality is well
	// below a balanced processed diet (which scores 1.0).
	if rep.DietQuality >= 0.75 {
		t.Fatalf("diet quality = %v, want < 0.75 for raw single-category diet", rep.DietQuality)
	}
	if rep.ByCategory[1] != 0 || rep.ByCategory[2] != 0 {
		t.Fatalf("protein/vegetable categories consumed from empty stock: %v", rep.ByCategory)
	}
}

func TestBalancedProcessedDietScoresHigh(t *testing.T) {
	reg := testRegistry(t, 10)
	led := ledger.New(1, 1000)
	led.Add(goods.FromGood(goods.GoodBread), 50)
	led.Add(goods.FromGood(goods.GoodMeat), 50)
	led.Add(goods.FromGood(goods.GoodCookedVegetables), 50)

	var rep Report
	reg.consumeFood(led, &rep)

	if rep.Sufficiency != 1 {
		t.Fatalf("sufficiency = %v, want 1", rep.Sufficiency)
	}
	if rep.RawUnits != 0 {
		t.Fatalf("raw food eaten while processed was available")
	}
	if !rep.VegetablesEaten {
		t.Fatalf("vegetable bonus not triggered")
	}
	if rep.DietQuality < 0.95 {
		t.Fatalf("diet quality = %v, want near 1 for balanced processed diet", rep.DietQuality)
	}
}

func TestHungerWorseningIsCapped(t *testing.T) {
	reg := testRegistry(t, 10)
	led := ledger.New(1, 1000) // nothing to eat

	before := make([]float64, 0, 10)
	for _, p := range reg.People() {
		before = append(before, p.Hunger)
	}

	var rep Report
	reg.consumeFood(led, &rep)
	reg.applyCondition(&rep)

	if rep.Sufficiency != 0 {
		t.Fatalf("sufficiency = %v, want 0 with empty stores", rep.Sufficiency)
	}
	for i, p := range reg.People() {
		gain := p.Hunger - before[i]
		if gain <= 0 {
			t.Fatalf("hunger did not rise while starving")
		}
		if gain > 15 {
			t.Fatalf("hunger rose by %v in one turn, cap is 15", gain)
		}
	}
}

func TestFullStomachReducesHunger(t *testing.T) {
	reg := testRegistry(t, 4)
	led := ledger.New(1, 1000)
	led.Add(goods.FromGood(goods.GoodBread), 30)
	led.Add(goods.FromGood(goods.GoodMeat), 30)
	led.Add(goods.FromGood(goods.GoodCookedVegetables), 30)

	var rep Report
	reg.consumeFood(led, &rep)
	reg.applyCondition(&rep)

	for _, p := range reg.People() {
		if p.Hunger >= 50 {
			t.Fatalf("hunger = %v after a full meal, want below starting 50", p.Hunger)
		}
	}
}

func TestWellFedHungerNeverRises(t *testing.T) {
	reg := testRegistry(t, 8)
	led := ledger.New(1, 5000)

	average := func() float64 {
		sum := 0.0
		for _, p := range reg.People() {
			sum += p.Hunger
		}
		return sum / float64(reg.Len())
	}

	// Restock every turn so consumption always meets need. Average hunger
	// must then fall or hold turn over turn, never climb back up.
	prev := average()
	for turn := 0; turn < 12; turn++ {
		led.Add(goods.FromGood(goods.GoodBread), 30)
		led.Add(goods.FromGood(goods.GoodMeat), 30)
		led.Add(goods.FromGood(goods.GoodCookedVegetables), 30)

		var rep Report
		reg.consumeFood(led, &rep)
		reg.applyCondition(&rep)

		if rep.Sufficiency < 1 {
			t.Fatalf("turn %d: sufficiency = %v, want 1 with full stores", turn, rep.Sufficiency)
		}
		got := average()
		if got > prev {
			t.Fatalf("turn %d: average hunger rose %v -> %v while fully fed", turn, prev, got)
		}
		prev = got
	}
	if prev >= 50 {
		t.Fatalf("average hunger = %v after 12 fed turns, want well below starting 50", prev)
	}
}

func TestProcessTurnAgesPopulationYearly(t *testing.T) {
	reg := testRegistry(t, 3)
	led := ledger.New(1, 1000)
	led.Add(goods.FromGood(goods.GoodBread), 200)

	// Housing equals population, so no births or immigration can add
	// younger members mid-test.
	reg.SetDayCount(DaysPerYear - 1)
	rep := reg.ProcessTurn(led, false, 3, 0)
	if !rep.AgedYear {
		t.Fatalf("year boundary did not trigger aging")
	}
	for _, p := range reg.People() {
		if p.Age != 31 {
			t.Fatalf("age = %d, want 31", p.Age)
		}
	}

	rep = reg.ProcessTurn(led, false, 3, 0)
	if rep.AgedYear {
		t.Fatalf("aging triggered twice in consecutive days")
	}
}
