// Package catalog loads the apartment and tenant roster from YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MRamiBalles/apt100/internal/domain/apartment"
	"github.com/MRamiBalles/apt100/internal/domain/rules"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type file struct {
	Types   []typeDef   `yaml:"types"`
	Tenants []tenantDef `yaml:"tenants"`
}

type typeDef struct {
	Name  string `yaml:"name"`
	Cost  int    `yaml:"cost"`
	Label string `yaml:"label"`
}

type tenantDef struct {
	Name       string `yaml:"name"`
	Preference string `yaml:"preference"`
}

// Default returns the catalog compiled into the binary.
func Default() (*apartment.Catalog, error) {
	return Parse(defaultCatalog, 3)
}

// Load reads a catalog file. minOptions is the number of entries a single offer draws.
func Load(path string, minOptions int) (*apartment.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw, minOptions)
}

func Parse(raw []byte, minOptions int) (*apartment.Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog.yaml: %w", err)
	}

	types := make([]apartment.Type, 0, len(f.Types))
	seen := map[string]bool{}
	labels := map[string]bool{}
	for _, d := range f.Types {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog.yaml: type with empty name")
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("catalog.yaml: duplicate type %q", d.Name)
		}
		if d.Cost <= 0 {
			return nil, fmt.Errorf("catalog.yaml: type %q: cost must be positive", d.Name)
		}
		if d.Label != "" && labels[d.Label] {
			return nil, fmt.Errorf("catalog.yaml: duplicate label %q", d.Label)
		}
		seen[d.Name] = true
		labels[d.Label] = true
		types = append(types, apartment.Type{
			Name:            d.Name,
			Cost:            d.Cost,
			BaseMaintenance: rules.BaseMaintenance(d.Cost),
			Label:           d.Label,
		})
	}

	tenants := make([]apartment.TenantArchetype, 0, len(f.Tenants))
	for _, d := range f.Tenants {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog.yaml: tenant with empty name")
		}
		if d.Preference != "" && !seen[d.Preference] {
			return nil, fmt.Errorf("catalog.yaml: tenant %q prefers unknown type %q", d.Name, d.Preference)
		}
		tenants = append(tenants, apartment.TenantArchetype{Name: d.Name, Preference: d.Preference})
	}

	if len(types) < minOptions {
		return nil, fmt.Errorf("catalog.yaml: need at least %d types, got %d", minOptions, len(types))
	}
	if len(tenants) < minOptions {
		return nil, fmt.Errorf("catalog.yaml: need at least %d tenants, got %d", minOptions, len(tenants))
	}
	return apartment.NewCatalog(types, tenants), nil
}
