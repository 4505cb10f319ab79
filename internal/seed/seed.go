// Package seed loads the initial brand catalog. A YAML file may override the
// embedded default, which reproduces the well-known nine-brand price table.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

type document struct {
	Brands []brandEntry `yaml:"brands"`
}

type brandEntry struct {
	Name   string           `yaml:"name"`
	Prices map[string]int64 `yaml:"prices"` // keyed by category label
}

// Load parses the seed catalog at path, or the embedded default when path is
// empty. Brands get sequential ids starting at 1, in file order.
func Load(path string) ([]model.Brand, error) {
	data := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return parse(data)
}

func parse(data []byte) ([]model.Brand, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	out := make([]model.Brand, 0, len(doc.Brands))
	for i, e := range doc.Brands {
		if e.Name == "" {
			return nil, fmt.Errorf("seed brand %d: name is required", i+1)
		}
		b := model.Brand{ID: uint64(i + 1), Name: e.Name, Prices: make(map[model.CategoryID]int64, len(e.Prices))}
		for label, price := range e.Prices {
			cat, err := model.CategoryByLabel(label)
			if err != nil {
				return nil, fmt.Errorf("seed brand %q: %w", e.Name, err)
			}
			if price < 0 {
				return nil, fmt.Errorf("seed brand %q, category %q: %w", e.Name, label, model.ErrInvalidPrice)
			}
			b.Prices[cat.ID] = price
		}
		out = append(out, b)
	}
	return out, nil
}
