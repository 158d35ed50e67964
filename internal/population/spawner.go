// Person spawning — creates people for initial seeding, births, and
// immigration with deterministic seeded randomness.
package population

import (
	"math/rand"

	"github.com/talgya/crossland/internal/world"
)

// Spawner creates people for the simulation. One spawner is shared across
// all settlements so person ids stay globally unique.
type Spawner struct {
	rng    *rand.Rand
	nextID PersonID
}

// NewSpawner creates a person spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

// SetNextID sets the next person ID to be issued (used when restoring from
// persistence).
func (s *Spawner) SetNextID(id PersonID) {
	s.nextID = id
}

// SpawnPopulation creates the initial population batch for a settlement:
// mostly working-age adults with one modest trade skill, some children and
// elders.
func (s *Spawner) SpawnPopulation(count int, settlementID uint64) []*Person {
	people := make([]*Person, 0, count)
	for i := 0; i < count; i++ {
		people = append(people, s.spawnOne(settlementID))
	}
	return people
}

func (s *Spawner) spawnOne(settlementID uint64) *Person {
	p := s.newPerson(settlementID, s.weightedAge())
	job := s.randomJob()
	p.Skills[job] = 10 + s.rng.Float64()*30
	return p
}

// SpawnAdult creates an immigrant: a working-age adult (18–48) with one
// randomly chosen low starting skill (5–25).
func (s *Spawner) SpawnAdult(settlementID uint64) *Person {
	p := s.newPerson(settlementID, uint16(18+s.rng.Intn(31)))
	p.Skills[s.randomJob()] = 5 + s.rng.Float64()*20
	return p
}

// SpawnChild creates a newborn.
func (s *Spawner) SpawnChild(settlementID uint64) *Person {
	p := s.newPerson(settlementID, 0)
	p.Happiness = 80
	return p
}

func (s *Spawner) newPerson(settlementID uint64, age uint16) *Person {
	id := s.nextID
	s.nextID++

	sex := SexMale
	if s.rng.Float64() < 0.5 {
		sex = SexFemale
	}

	return &Person{
		ID:           id,
		Name:         s.generateName(sex),
		Age:          age,
		Sex:          sex,
		SettlementID: settlementID,
		Skills:       make(map[world.JobKind]float64),
		Health:       80 + s.rng.Float64()*20,
		Hunger:       10 + s.rng.Float64()*20,
		Happiness:    50 + s.rng.Float64()*30,
	}
}

// weightedAge skews toward working-age adults, with some children and elders.
func (s *Spawner) weightedAge() uint16 {
	roll := s.rng.Float64()
	switch {
	case roll < 0.20:
		return uint16(s.rng.Intn(16)) // children 0–15
	case roll < 0.85:
		return uint16(16 + s.rng.Intn(40)) // adults 16–55
	default:
		return uint16(56 + s.rng.Intn(25)) // elders 56–80
	}
}

var spawnJobs = []world.JobKind{
	world.JobFarmer, world.JobFisher, world.JobHunter, world.JobBaker,
	world.JobWoodcutter, world.JobQuarryman, world.JobMiner,
	world.JobSmith, world.JobTailor, world.JobMerchant,
}

func (s *Spawner) randomJob() world.JobKind {
	return spawnJobs[s.rng.Intn(len(spawnJobs))]
}

func (s *Spawner) generateName(sex Sex) string {
	var firsts []string
	if sex == SexMale {
		firsts = maleNames
	} else {
		firsts = femaleNames
	}
	first := firsts[s.rng.Intn(len(firsts))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
	"Varen", "Wren", "Yorick", "Zander", "Arlen", "Beric", "Cade",
	"Dorian", "Edric", "Falk", "Gunnar", "Hugo", "Ivar", "Jorik",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
	"Willa", "Yara", "Zara", "Ava", "Birgit", "Cora", "Dagny",
	"Eira", "Fern", "Gwen", "Hilde", "Inga", "Johanna", "Katla",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
	"Deepwell", "Brightwater", "Oakenshield", "Redforge", "Windholm",
	"Marshwood", "Goldhaven", "Nightingale", "Riverstone", "Steelworth",
	"Embercroft", "Holloway", "Dawnridge", "Farrow", "Wyatt", "Thatcher",
	"Briar", "Caldwell", "Frost", "Harper", "Mercer", "Ward", "Cross",
}
