// Package goods defines the material taxonomy: raw resources extracted from
// terrain and manufactured goods produced by recipes. The two domains are
// disjoint; a Material resolves to exactly one of them.
package goods

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Resource enumerates raw materials harvested from the land.
type Resource uint8

const (
	ResourceWheat Resource = iota
	ResourceFish
	ResourceGame
	ResourceVegetables
	ResourceTimber
	ResourceStone
	ResourceIronOre
	ResourceFurs
)

// Good enumerates manufactured materials produced by recipes.
type Good uint8

const (
	GoodBread Good = iota
	GoodMeat
	GoodSmokedFish
	GoodCookedVegetables
	GoodCoal
	GoodPlanks
	GoodIronIngot
	GoodTools
	GoodClothing
)

// Kind discriminates the two material domains.
type Kind uint8

const (
	KindResource Kind = iota
	KindGood
)

// Material is a tagged union over Resource and Good. The discriminant is set
// at construction and never re-derived. The zero value is ResourceWheat.
type Material struct {
	kind     Kind
	resource Resource
	good     Good
}

// FromResource wraps a raw resource as a Material.
func FromResource(r Resource) Material {
	return Material{kind: KindResource, resource: r}
}

// FromGood wraps a manufactured good as a Material.
func FromGood(g Good) Material {
	return Material{kind: KindGood, good: g}
}

// Kind returns the material's domain discriminant.
func (m Material) Kind() Kind { return m.kind }

// IsResource reports whether the material is a raw resource.
func (m Material) IsResource() bool { return m.kind == KindResource }

// IsGood reports whether the material is a manufactured good.
func (m Material) IsGood() bool { return m.kind == KindGood }

// AsResource returns the resource value when the material is a resource.
func (m Material) AsResource() (Resource, bool) {
	if m.kind != KindResource {
		return 0, false
	}
	return m.resource, true
}

// AsGood returns the good value when the material is a good.
func (m Material) AsGood() (Good, bool) {
	if m.kind != KindGood {
		return 0, false
	}
	return m.good, true
}

var resourceNames = [...]string{
	ResourceWheat:      "wheat",
	ResourceFish:       "fish",
	ResourceGame:       "game",
	ResourceVegetables: "vegetables",
	ResourceTimber:     "timber",
	ResourceStone:      "stone",
	ResourceIronOre:    "iron_ore",
	ResourceFurs:       "furs",
}

var goodNames = [...]string{
	GoodBread:            "bread",
	GoodMeat:             "meat",
	GoodSmokedFish:       "smoked_fish",
	GoodCookedVegetables: "cooked_vegetables",
	GoodCoal:             "coal",
	GoodPlanks:           "planks",
	GoodIronIngot:        "iron_ingot",
	GoodTools:            "tools",
	GoodClothing:         "clothing",
}

func (m Material) String() string {
	if m.kind == KindResource {
		if int(m.resource) < len(resourceNames) {
			return resourceNames[m.resource]
		}
		return fmt.Sprintf("resource(%d)", m.resource)
	}
	if int(m.good) < len(goodNames) {
		return goodNames[m.good]
	}
	return fmt.Sprintf("good(%d)", m.good)
}

// Parse resolves a material name to its domain. Resource and good name sets
// are disjoint, so the resolution is unambiguous.
func Parse(name string) (Material, error) {
	for r, n := range resourceNames {
		if n == name {
			return FromResource(Resource(r)), nil
		}
	}
	for g, n := range goodNames {
		if n == name {
			return FromGood(Good(g)), nil
		}
	}
	return Material{}, fmt.Errorf("unknown material %q", name)
}

// MarshalText implements encoding.TextMarshaler so materials serialize by
// name in JSON and YAML.
func (m Material) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Material) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML serializes materials by name in catalog files.
func (m Material) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML resolves a material name from a YAML scalar.
func (m *Material) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := Parse(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// All returns every material in a fixed order: resources first, then goods.
// Callers iterate this instead of map keys so results stay deterministic.
func All() []Material {
	out := make([]Material, 0, len(resourceNames)+len(goodNames))
	for r := range resourceNames {
		out = append(out, FromResource(Resource(r)))
	}
	for g := range goodNames {
		out = append(out, FromGood(Good(g)))
	}
	return out
}

// Index returns a stable ordinal for a material, matching the order of All.
func (m Material) Index() int {
	if m.kind == KindResource {
		return int(m.resource)
	}
	return len(resourceNames) + int(m.good)
}

// Stack pairs a material with a quantity.
type Stack struct {
	Material Material `yaml:"material" json:"material"`
	Qty      int      `yaml:"qty" json:"qty"`
}
