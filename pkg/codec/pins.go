package codec

import (
	"github.com/matzehuels/bpserial/pkg/blueprint"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// DefaultPins returns the pins the host allocates for a new node like dn,
// in document form with fresh pin IDs. The pins follow from dn's class and
// kind fields. parentClass is the owning blueprint's parent class and
// resolves self-context references. reg may be nil, in which case only
// kinds whose pins need no lookup get any.
func DefaultPins(reg registry.Registry, parentClass string, dn document.Node) []document.Pin {
	if reg == nil {
		reg = registry.New("")
	}
	n := &blueprint.Node{Class: dn.Class}
	for _, f := range nodekind.Lookup(nodekind.Resolve(reg, dn.Class)).Fields {
		importField(&n.Attrs, &dn, f.Key)
	}
	var self *registry.Class
	if parentClass != "" {
		self = findClass(reg, parentClass)
	}
	blueprint.AllocateDefaultPins(reg, self, n)

	out := make([]document.Pin, 0, len(n.Pins))
	for _, p := range n.Pins {
		out = append(out, encodePin(p))
	}
	return out
}
