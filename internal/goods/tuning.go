package goods

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type tuningFile struct {
	Materials []materialTuning `yaml:"materials"`
}

type materialTuning struct {
	Material  Material `yaml:"material"`
	BasePrice *float64 `yaml:"base_price"`
	Nutrition *float64 `yaml:"nutrition"`
}

// ApplyTuning overlays base prices and nutrition values from a YAML tuning
// file onto the built-in tables. Fields absent from the file keep their
// defaults. Must be called before the simulation starts; the tables are
// read concurrently afterwards.
func ApplyTuning(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tuning: %w", err)
	}

	var f tuningFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse tuning: %w", err)
	}

	for _, t := range f.Materials {
		if t.BasePrice != nil && *t.BasePrice <= 0 {
			return fmt.Errorf("tuning %s: base price must be positive", t.Material)
		}
		if t.Nutrition != nil && *t.Nutrition < 0 {
			return fmt.Errorf("tuning %s: nutrition must not be negative", t.Material)
		}

		if r, ok := t.Material.AsResource(); ok {
			entry := resourceInfo[r]
			if t.BasePrice != nil {
				entry.basePrice = *t.BasePrice
			}
			if t.Nutrition != nil {
				entry.nutrition = *t.Nutrition
			}
			resourceInfo[r] = entry
			continue
		}
		g, _ := t.Material.AsGood()
		entry := goodInfo[g]
		if t.BasePrice != nil {
			entry.basePrice = *t.BasePrice
		}
		if t.Nutrition != nil {
			entry.nutrition = *t.Nutrition
		}
		goodInfo[g] = entry
	}

	return nil
}
