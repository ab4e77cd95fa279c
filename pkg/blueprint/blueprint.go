package blueprint

import (
	"errors"
	"slices"

	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/pintype"
)

// ErrDuplicateVariable is returned by [Blueprint.AddVariable] when a
// variable of the same name exists.
var ErrDuplicateVariable = errors.New("duplicate variable")

// Type is the blueprint type.
type Type string

const (
	Normal          Type = "Normal"
	Const           Type = "Const"
	MacroLibrary    Type = "MacroLibrary"
	Interface       Type = "Interface"
	LevelScript     Type = "LevelScript"
	FunctionLibrary Type = "FunctionLibrary"
)

// HasEventGraph reports whether blueprints of type t get a default event graph.
func (t Type) HasEventGraph() bool {
	switch t {
	case Interface, FunctionLibrary, MacroLibrary:
		return false
	}
	return true
}

// DefaultParentClass is used when a blueprint names no usable parent.
const DefaultParentClass = "/Script/Engine.Actor"

// Variable is a member variable or a function parameter.
type Variable struct {
	Name         string
	GUID         string
	Type         pintype.Type
	Category     string
	DefaultValue string
	Exposed      bool
	ReadOnly     bool
	Replication  string
	Meta         map[string]string
}

// Function is a user function. Params and Returns describe the signature;
// Graph is the body.
type Function struct {
	Name    string
	GUID    string
	Params  []*Variable
	Returns []*Variable
	Graph   *Graph
	Static  bool
	Pure    bool
	Const   bool
}

// Component is a node of the component tree. Property values are host
// values of any type.
type Component struct {
	Name       string
	Class      string
	Parent     string
	Properties map[string]any
}

// Blueprint is the root of the host model.
type Blueprint struct {
	Name           string
	Path           string // package path, e.g. "/Game/Doors/BP_Door"
	Type           Type
	ParentClass    string // class path
	GeneratedClass string

	Variables   []*Variable
	EventGraphs []*Graph
	Functions   []*Function
	Macros      []*Graph
	Components  []*Component
	Interfaces  []string

	HardDependencies []string
	SoftDependencies []string
}

// New returns an empty blueprint. Types that carry an event graph get an
// empty "EventGraph".
func New(path, name string, typ Type, parentClass string) *Blueprint {
	if typ == "" {
		typ = Normal
	}
	bp := &Blueprint{
		Name:           name,
		Path:           path,
		Type:           typ,
		ParentClass:    parentClass,
		GeneratedClass: name + "_C",
	}
	if typ.HasEventGraph() {
		bp.EventGraphs = append(bp.EventGraphs, NewGraph("EventGraph", EventGraph))
	}
	return bp
}

// Variable returns the member variable with the given name, or nil.
func (bp *Blueprint) Variable(name string) *Variable {
	for _, v := range bp.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// AddVariable appends v. A missing GUID is generated.
func (bp *Blueprint) AddVariable(v *Variable) error {
	if bp.Variable(v.Name) != nil {
		return ErrDuplicateVariable
	}
	if v.GUID == "" {
		v.GUID = NewGUID()
	}
	bp.Variables = append(bp.Variables, v)
	return nil
}

// Function returns the function with the given name, or nil.
func (bp *Blueprint) Function(name string) *Function {
	for _, f := range bp.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Macro returns the macro graph with the given name, or nil.
func (bp *Blueprint) Macro(name string) *Graph {
	for _, g := range bp.Macros {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// EventGraph returns the event graph with the given name, or nil.
func (bp *Blueprint) EventGraph(name string) *Graph {
	for _, g := range bp.EventGraphs {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Component returns the component with the given name, or nil.
func (bp *Blueprint) Component(name string) *Component {
	for _, c := range bp.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Implements reports whether bp lists the interface class path.
func (bp *Blueprint) Implements(path string) bool {
	return slices.Contains(bp.Interfaces, path)
}

// Graphs returns every graph in traversal order: event graphs, function
// bodies, then macros.
func (bp *Blueprint) Graphs() []*Graph {
	out := slices.Clone(bp.EventGraphs)
	for _, f := range bp.Functions {
		if f.Graph != nil {
			out = append(out, f.Graph)
		}
	}
	return append(out, bp.Macros...)
}

// Node finds a node by GUID in any graph.
func (bp *Blueprint) Node(guid string) *Node {
	for _, g := range bp.Graphs() {
		if n := g.Node(guid); n != nil {
			return n
		}
	}
	return nil
}

// FindEvent returns the event node implementing name anywhere in bp: an
// event whose reference names it, or a custom event of that name.
func (bp *Blueprint) FindEvent(name string) *Node {
	if name == "" {
		return nil
	}
	for _, g := range bp.Graphs() {
		for _, n := range g.Nodes() {
			switch n.Family() {
			case nodekind.Event:
				if n.Attrs.Event.MemberName == name {
					return n
				}
			case nodekind.CustomEvent:
				if n.Attrs.CustomEventName == name {
					return n
				}
			}
		}
	}
	return nil
}

// Declares reports whether bp itself declares a member called name:
// a variable, component, function, macro or custom event.
func (bp *Blueprint) Declares(name string) bool {
	if bp.Variable(name) != nil || bp.Component(name) != nil ||
		bp.Function(name) != nil || bp.Macro(name) != nil {
		return true
	}
	n := bp.FindEvent(name)
	return n != nil && n.Family() == nodekind.CustomEvent
}
