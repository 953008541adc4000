// Package apartment defines the static catalog entities of the tower.
// This package is PURE and must NOT import any infrastructure packages.
package apartment

// Type is an apartment theme that can be built as one floor of the tower.
type Type struct {
	Name            string `json:"name"`
	Cost            int    `json:"cost"`
	BaseMaintenance int    `json:"base_maintenance"` // Derived from Cost at load time
	Label           string `json:"label"`            // Three-letter display code
}

// TenantArchetype is a prospective renter listed in the catalog.
// An empty Preference means the tenant is happy anywhere.
type TenantArchetype struct {
	Name       string `json:"name"`
	Preference string `json:"preference,omitempty"`
}

// HasPreference reports whether the archetype prefers a specific apartment type.
func (t TenantArchetype) HasPreference() bool {
	return t.Preference != ""
}

// Prefers reports whether the archetype prefers the given apartment type.
func (t TenantArchetype) Prefers(typeName string) bool {
	return t.HasPreference() && t.Preference == typeName
}

// Catalog is the immutable roster of apartment types and tenants.
type Catalog struct {
	types   []Type
	byName  map[string]Type
	tenants []TenantArchetype
}

// NewCatalog builds a catalog from already-validated entries.
func NewCatalog(types []Type, tenants []TenantArchetype) *Catalog {
	c := &Catalog{
		types:   make([]Type, len(types)),
		byName:  make(map[string]Type, len(types)),
		tenants: make([]TenantArchetype, len(tenants)),
	}
	copy(c.types, types)
	copy(c.tenants, tenants)
	for _, t := range c.types {
		c.byName[t.Name] = t
	}
	return c
}

// TypeNames returns the apartment type names in catalog order.
func (c *Catalog) TypeNames() []string {
	names := make([]string, 0, len(c.types))
	for _, t := range c.types {
		names = append(names, t.Name)
	}
	return names
}

// Lookup returns the apartment type with the given name.
func (c *Catalog) Lookup(name string) (Type, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Cost returns the build cost of a type, or 0 if unknown.
func (c *Catalog) Cost(name string) int {
	return c.byName[name].Cost
}

// Maintenance returns the base weekly maintenance of a type, or 0 if unknown.
func (c *Catalog) Maintenance(name string) int {
	return c.byName[name].BaseMaintenance
}

// Tenants returns the tenant archetypes in catalog order.
func (c *Catalog) Tenants() []TenantArchetype {
	out := make([]TenantArchetype, len(c.tenants))
	copy(out, c.tenants)
	return out
}
