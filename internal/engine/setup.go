package engine

import (
	"log/slog"
	"math/rand"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/ledger"
	"github.com/talgya/crossland/internal/population"
	"github.com/talgya/crossland/internal/social"
	"github.com/talgya/crossland/internal/world"
)

// BuildWorld generates terrain, places settlements and their buildings,
// connects them by road, and populates them. Everything downstream of the
// seed is deterministic.
func BuildWorld(cfg world.GenConfig, cat *catalog.Catalog) *Simulation {
	m := world.Generate(cfg)
	seeds := world.PlaceSettlements(m, cfg.Seed)

	rng := rand.New(rand.NewSource(cfg.Seed + 500))
	spawner := population.NewSpawner(cfg.Seed)

	var setts []*social.Settlement
	centers := make(map[uint64]world.HexCoord, len(seeds))

	for i, seed := range seeds {
		id := uint64(i + 1)
		centers[id] = seed.Coord
		if hex := m.Get(seed.Coord); hex != nil {
			sid := id
			hex.SettlementID = &sid
		}

		buildings := world.PlaceBuildings(m, seed.Coord, seed.Size)

		led := ledger.New(id, social.StorageCapacityFor(seed.Size))
		led.AddMoney(social.SeedTreasuryFor(seed.Size))

		reg := population.NewRegistry(id, spawner, cfg.Seed, population.DefaultConfig())
		count := world.PopulationForSize(seed.Size, rng)
		for _, p := range spawner.SpawnPopulation(count, id) {
			reg.Add(p)
		}

		seedStockpile(led, count)

		setts = append(setts, &social.Settlement{
			ID:        id,
			Name:      seed.Name,
			Kind:      seed.Size,
			Center:    seed.Coord,
			Housing:   world.HousingForSize(seed.Size),
			Buildings: buildings,
			Ledger:    led,
			People:    reg,
		})

		slog.Info("settlement founded",
			"name", seed.Name,
			"kind", world.SizeName(seed.Size),
			"coord", seed.Coord,
			"population", count,
			"buildings", len(buildings),
		)
	}

	routes := world.BuildRouteTable(m, centers)

	return NewSimulation(m, setts, routes, cat, cfg.Seed)
}

// seedStockpile gives a new settlement enough food and raw material to
// survive its first production cycles.
func seedStockpile(led *ledger.Ledger, pop int) {
	led.Add(goods.FromGood(goods.GoodBread), pop*3)
	led.Add(goods.FromGood(goods.GoodMeat), pop)
	led.Add(goods.FromGood(goods.GoodCookedVegetables), pop)
	led.Add(goods.FromResource(goods.ResourceWheat), pop*2)
	led.Add(goods.FromResource(goods.ResourceVegetables), pop)
	led.Add(goods.FromResource(goods.ResourceTimber), 40)
	led.Add(goods.FromResource(goods.ResourceStone), 15)
}
