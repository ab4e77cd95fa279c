package schema

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/bpserial/pkg/registry"
)

// Catalog lists the node classes of a registry without their properties.
type Catalog struct {
	GeneratedAt   string         `json:"generatedAt"`
	NodeTypeCount int            `json:"nodeTypeCount"`
	NodeTypes     []CatalogEntry `json:"nodeTypes"`
}

// CatalogEntry is one node class.
type CatalogEntry struct {
	ClassName   string `json:"className"`
	ClassPath   string `json:"classPath"`
	Category    string `json:"category"`
	ParentClass string `json:"parentClass,omitempty"`
	IsLatent    bool   `json:"isLatent"`
}

// BuildCatalog lists the concrete node classes of reg sorted by class name.
func BuildCatalog(reg registry.Registry, now time.Time) *Catalog {
	classes := reg.ConcreteNodeClasses()
	entries := make([]CatalogEntry, 0, len(classes))
	for _, c := range classes {
		ns := Describe(reg, c)
		e := CatalogEntry{
			ClassName: c.Name,
			ClassPath: c.Path,
			Category:  ns.Category,
			IsLatent:  ns.IsLatent,
		}
		if c.Super != "" {
			e.ParentClass = registry.ShortName(c.Super)
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b CatalogEntry) int {
		return cmp.Compare(a.ClassName, b.ClassName)
	})
	return &Catalog{
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		NodeTypeCount: len(entries),
		NodeTypes:     entries,
	}
}
