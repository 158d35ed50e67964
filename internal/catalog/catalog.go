// Package catalog holds the static production recipe registry. Recipes are
// loaded once at startup and the catalog is read-only afterwards.
package catalog

import (
	"fmt"
	"sort"

	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/world"
)

// Recipe describes one production chain step: inputs consumed, outputs
// produced, how long it takes, and where it runs.
type Recipe struct {
	ID       string             `yaml:"id"`
	Building world.BuildingKind `yaml:"building"`
	Inputs   []goods.Stack      `yaml:"inputs"`
	Outputs  []goods.Stack      `yaml:"outputs"`
	Duration int                `yaml:"duration"` // Ticks at productivity 1.0
	Priority int                `yaml:"priority"` // Higher runs first
}

// Catalog indexes recipes by id, building, output, and input.
type Catalog struct {
	byID       map[string]Recipe
	byBuilding map[world.BuildingKind][]Recipe
	byOutput   map[goods.Material][]Recipe
	byInput    map[goods.Material][]Recipe
}

// New builds a catalog from a recipe list, validating ids and quantities.
func New(recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		byID:       make(map[string]Recipe, len(recipes)),
		byBuilding: make(map[world.BuildingKind][]Recipe),
		byOutput:   make(map[goods.Material][]Recipe),
		byInput:    make(map[goods.Material][]Recipe),
	}

	for _, r := range recipes {
		if r.ID == "" {
			return nil, fmt.Errorf("recipe with empty id")
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate recipe id %q", r.ID)
		}
		if r.Duration <= 0 {
			return nil, fmt.Errorf("recipe %q: duration must be positive", r.ID)
		}
		if len(r.Outputs) == 0 {
			return nil, fmt.Errorf("recipe %q: no outputs", r.ID)
		}
		for _, s := range append(append([]goods.Stack{}, r.Inputs...), r.Outputs...) {
			if s.Qty <= 0 {
				return nil, fmt.Errorf("recipe %q: non-positive quantity for %s", r.ID, s.Material)
			}
		}

		c.byID[r.ID] = r
		c.byBuilding[r.Building] = append(c.byBuilding[r.Building], r)
		for _, s := range r.Outputs {
			c.byOutput[s.Material] = append(c.byOutput[s.Material], r)
		}
		for _, s := range r.Inputs {
			c.byInput[s.Material] = append(c.byInput[s.Material], r)
		}
	}

	// Per-building lists are consulted highest priority first; the sort is
	// stable so equal priorities keep declaration order.
	for b := range c.byBuilding {
		list := c.byBuilding[b]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority > list[j].Priority
		})
	}

	return c, nil
}

// Get returns a recipe by id.
func (c *Catalog) Get(id string) (Recipe, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// ForBuilding returns recipes runnable in a building kind, highest priority
// first. The returned slice must not be modified.
func (c *Catalog) ForBuilding(b world.BuildingKind) []Recipe {
	return c.byBuilding[b]
}

// Producing returns recipes that output the given material.
func (c *Catalog) Producing(m goods.Material) []Recipe {
	return c.byOutput[m]
}

// Consuming returns recipes that take the given material as an input.
func (c *Catalog) Consuming(m goods.Material) []Recipe {
	return c.byInput[m]
}

// Len returns the number of recipes registered.
func (c *Catalog) Len() int {
	return len(c.byID)
}
