// Building and job taxonomies plus the static lookup tables that tie them
// together: which job staffs which building, how many workers it holds, and
// how urgently it should be staffed.
package world

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BuildingKind enumerates production and trade buildings.
type BuildingKind uint8

const (
	BuildingFarm BuildingKind = iota
	BuildingFishery
	BuildingHuntersLodge
	BuildingBakery
	BuildingSmokehouse
	BuildingKitchen
	BuildingCharcoalKiln
	BuildingLumberCamp
	BuildingQuarry
	BuildingMine
	BuildingSawmill
	BuildingSmithy
	BuildingTailor
	BuildingTradePost
)

// JobKind enumerates worker occupations.
type JobKind uint8

const (
	JobFarmer JobKind = iota
	JobFisher
	JobHunter
	JobBaker
	JobSmoker
	JobCook
	JobCharcoalBurner
	JobWoodcutter
	JobQuarryman
	JobMiner
	JobSawyer
	JobSmith
	JobTailor
	JobMerchant
)

// Building is one placed production site belonging to a settlement.
type Building struct {
	Kind     BuildingKind `json:"kind"`
	Location HexCoord     `json:"location"`
}

var buildingNames = [...]string{
	BuildingFarm:         "farm",
	BuildingFishery:      "fishery",
	BuildingHuntersLodge: "hunters_lodge",
	BuildingBakery:       "bakery",
	BuildingSmokehouse:   "smokehouse",
	BuildingKitchen:      "kitchen",
	BuildingCharcoalKiln: "charcoal_kiln",
	BuildingLumberCamp:   "lumber_camp",
	BuildingQuarry:       "quarry",
	BuildingMine:         "mine",
	BuildingSawmill:      "sawmill",
	BuildingSmithy:       "smithy",
	BuildingTailor:       "tailor",
	BuildingTradePost:    "trade_post",
}

var jobNames = [...]string{
	JobFarmer:         "farmer",
	JobFisher:         "fisher",
	JobHunter:         "hunter",
	JobBaker:          "baker",
	JobSmoker:         "smoker",
	JobCook:           "cook",
	JobCharcoalBurner: "charcoal_burner",
	JobWoodcutter:     "woodcutter",
	JobQuarryman:      "quarryman",
	JobMiner:          "miner",
	JobSawyer:         "sawyer",
	JobSmith:          "smith",
	JobTailor:         "tailor",
	JobMerchant:       "merchant",
}

func (b BuildingKind) String() string {
	if int(b) < len(buildingNames) {
		return buildingNames[b]
	}
	return fmt.Sprintf("building(%d)", uint8(b))
}

func (j JobKind) String() string {
	if int(j) < len(jobNames) {
		return jobNames[j]
	}
	return fmt.Sprintf("job(%d)", uint8(j))
}

// MarshalText lets building kinds serialize by name in YAML catalogs.
func (b BuildingKind) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText resolves a building kind from its name.
func (b *BuildingKind) UnmarshalText(text []byte) error {
	s := string(text)
	for k, n := range buildingNames {
		if n == s {
			*b = BuildingKind(k)
			return nil
		}
	}
	return fmt.Errorf("unknown building %q", s)
}

// MarshalYAML serializes building kinds by name in catalog files.
func (b BuildingKind) MarshalYAML() (any, error) {
	return b.String(), nil
}

// UnmarshalYAML resolves a building kind from a YAML scalar.
func (b *BuildingKind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	return b.UnmarshalText([]byte(name))
}

// jobForBuilding maps each building to the occupation that staffs it.
var jobForBuilding = [...]JobKind{
	BuildingFarm:         JobFarmer,
	BuildingFishery:      JobFisher,
	BuildingHuntersLodge: JobHunter,
	BuildingBakery:       JobBaker,
	BuildingSmokehouse:   JobSmoker,
	BuildingKitchen:      JobCook,
	BuildingCharcoalKiln: JobCharcoalBurner,
	BuildingLumberCamp:   JobWoodcutter,
	BuildingQuarry:       JobQuarryman,
	BuildingMine:         JobMiner,
	BuildingSawmill:      JobSawyer,
	BuildingSmithy:       JobSmith,
	BuildingTailor:       JobTailor,
	BuildingTradePost:    JobMerchant,
}

// JobFor returns the occupation that staffs a building kind.
func JobFor(b BuildingKind) JobKind {
	return jobForBuilding[b]
}

// workerCapacity is the number of job slots each building kind offers.
var workerCapacity = [...]int{
	BuildingFarm:         4,
	BuildingFishery:      3,
	BuildingHuntersLodge: 2,
	BuildingBakery:       2,
	BuildingSmokehouse:   2,
	BuildingKitchen:      2,
	BuildingCharcoalKiln: 2,
	BuildingLumberCamp:   3,
	BuildingQuarry:       3,
	BuildingMine:         4,
	BuildingSawmill:      2,
	BuildingSmithy:       2,
	BuildingTailor:       2,
	BuildingTradePost:    1,
}

// WorkerCapacity returns the job slot count of a building kind.
func WorkerCapacity(b BuildingKind) int {
	return workerCapacity[b]
}

// Staffing priority categories: food > fuel > extraction > production > trade.
const (
	priorityFood       = 100
	priorityFuel       = 80
	priorityExtraction = 70
	priorityProduction = 50
	priorityTrade      = 30
)

var staffingPriority = [...]int{
	BuildingFarm:         priorityFood,
	BuildingFishery:      priorityFood,
	BuildingHuntersLodge: priorityFood,
	BuildingBakery:       priorityFood,
	BuildingSmokehouse:   priorityFood,
	BuildingKitchen:      priorityFood,
	BuildingCharcoalKiln: priorityFuel,
	BuildingLumberCamp:   priorityExtraction,
	BuildingQuarry:       priorityExtraction,
	BuildingMine:         priorityExtraction,
	BuildingSawmill:      priorityProduction,
	BuildingSmithy:       priorityProduction,
	BuildingTailor:       priorityProduction,
	BuildingTradePost:    priorityTrade,
}

// StaffingPriority returns the default staffing urgency of a building kind.
func StaffingPriority(b BuildingKind) int {
	return staffingPriority[b]
}
