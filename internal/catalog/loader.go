package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type recipeFile struct {
	Recipes []Recipe `yaml:"recipes"`
}

// Load reads a recipe catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f recipeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("recipes: %w", err)
	}
	if len(f.Recipes) == 0 {
		return nil, fmt.Errorf("recipes: %s contains no recipes", path)
	}

	return New(f.Recipes)
}
