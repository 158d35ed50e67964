// Static material lookup tables: base prices, food categories, nutrition,
// and the processed/raw pairing used by diet and market logic. Built once at
// init, exposed through pure functions.
package goods

// FoodCategory groups edible materials into the three thirds of a balanced
// diet. Non-food materials are FoodNone.
type FoodCategory uint8

const (
	FoodNone FoodCategory = iota
	FoodGrain
	FoodProtein
	FoodVegetable
)

// MarketCategory drives demand priority scaling in settlement markets.
type MarketCategory uint8

const (
	CategoryOther MarketCategory = iota
	CategoryFood
	CategoryFuel
)

type materialInfo struct {
	basePrice float64
	foodCat   FoodCategory
	nutrition float64 // >=1.0 processed, 0.6-0.9 raw, 0 inedible
	marketCat MarketCategory
}

var resourceInfo = map[Resource]materialInfo{
	ResourceWheat:      {basePrice: 2, foodCat: FoodGrain, nutrition: 0.6, marketCat: CategoryFood},
	ResourceFish:       {basePrice: 2, foodCat: FoodProtein, nutrition: 0.7, marketCat: CategoryFood},
	ResourceGame:       {basePrice: 3, foodCat: FoodProtein, nutrition: 0.8, marketCat: CategoryFood},
	ResourceVegetables: {basePrice: 2, foodCat: FoodVegetable, nutrition: 0.9, marketCat: CategoryFood},
	ResourceTimber:     {basePrice: 3, marketCat: CategoryFuel},
	ResourceStone:      {basePrice: 3},
	ResourceIronOre:    {basePrice: 4},
	ResourceFurs:       {basePrice: 6},
}

var goodInfo = map[Good]materialInfo{
	GoodBread:            {basePrice: 4, foodCat: FoodGrain, nutrition: 1.2, marketCat: CategoryFood},
	GoodMeat:             {basePrice: 5, foodCat: FoodProtein, nutrition: 1.1, marketCat: CategoryFood},
	GoodSmokedFish:       {basePrice: 4, foodCat: FoodProtein, nutrition: 1.0, marketCat: CategoryFood},
	GoodCookedVegetables: {basePrice: 3, foodCat: FoodVegetable, nutrition: 1.0, marketCat: CategoryFood},
	GoodCoal:             {basePrice: 4, marketCat: CategoryFuel},
	GoodPlanks:           {basePrice: 5},
	GoodIronIngot:        {basePrice: 8},
	GoodTools:            {basePrice: 10},
	GoodClothing:         {basePrice: 8},
}

func info(m Material) materialInfo {
	if r, ok := m.AsResource(); ok {
		return resourceInfo[r]
	}
	g, _ := m.AsGood()
	return goodInfo[g]
}

// BasePrice returns the production-cost price floor for a material.
func BasePrice(m Material) float64 { return info(m).basePrice }

// Category returns the diet category of a material, or FoodNone.
func Category(m Material) FoodCategory { return info(m).foodCat }

// Nutrition returns how much of one unit of food need a single unit of the
// material covers. Zero for inedible materials.
func Nutrition(m Material) float64 { return info(m).nutrition }

// MarketCategoryOf classifies a material for market priority purposes.
func MarketCategoryOf(m Material) MarketCategory { return info(m).marketCat }

// IsFood reports whether the material is edible.
func IsFood(m Material) bool { return info(m).foodCat != FoodNone }

// IsProcessedFood reports whether the material is a manufactured foodstuff.
func IsProcessedFood(m Material) bool { return m.IsGood() && IsFood(m) }

// rawToProcessed pairs each raw foodstuff with its refined counterpart.
var rawToProcessed = map[Resource]Good{
	ResourceWheat:      GoodBread,
	ResourceGame:       GoodMeat,
	ResourceFish:       GoodSmokedFish,
	ResourceVegetables: GoodCookedVegetables,
}

// ProcessedCounterpart returns the refined form of a raw foodstuff.
func ProcessedCounterpart(m Material) (Material, bool) {
	r, ok := m.AsResource()
	if !ok {
		return Material{}, false
	}
	g, ok := rawToProcessed[r]
	if !ok {
		return Material{}, false
	}
	return FromGood(g), true
}

// RawFallback returns the raw substitute for a processed foodstuff.
func RawFallback(m Material) (Material, bool) {
	g, ok := m.AsGood()
	if !ok {
		return Material{}, false
	}
	for r, pg := range rawToProcessed {
		if pg == g {
			return FromResource(r), true
		}
	}
	return Material{}, false
}

// FoodsIn returns the edible materials of one category, processed first and
// within each group ordered by descending nutrition. The order is fixed so
// consumption is deterministic.
func FoodsIn(cat FoodCategory) []Material {
	var processed, raw []Material
	for _, m := range All() {
		if Category(m) != cat {
			continue
		}
		if IsProcessedFood(m) {
			processed = append(processed, m)
		} else {
			raw = append(raw, m)
		}
	}
	sortByNutrition(processed)
	sortByNutrition(raw)
	return append(processed, raw...)
}

func sortByNutrition(ms []Material) {
	// Insertion sort: lists are tiny and the stable order matters.
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && Nutrition(ms[j]) > Nutrition(ms[j-1]); j-- {
			ms[j], ms[j-1] = ms[j-1], ms[j]
		}
	}
}

// FoodCategories lists the three diet categories in fixed order.
func FoodCategories() [3]FoodCategory {
	return [3]FoodCategory{FoodGrain, FoodProtein, FoodVegetable}
}
