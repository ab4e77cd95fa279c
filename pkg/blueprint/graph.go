package blueprint

import (
	"errors"
	"slices"

	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/pintype"
)

var (
	// ErrInvalidNodeGUID is returned by [Graph.AddNode] and
	// [Graph.RenameNode] when the GUID is empty.
	ErrInvalidNodeGUID = errors.New("node GUID must not be empty")

	// ErrDuplicateNodeGUID is returned by [Graph.AddNode] and
	// [Graph.RenameNode] when another node already has the GUID.
	ErrDuplicateNodeGUID = errors.New("duplicate node GUID")

	// ErrDuplicatePinID is returned by [Graph.AddNode] when one of the
	// node's pins reuses an ID already present in the graph.
	ErrDuplicatePinID = errors.New("duplicate pin ID")

	// ErrUnknownNode is returned when a GUID names no node of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPin is returned by [Graph.Link] when a pin does not belong
	// to the graph.
	ErrUnknownPin = errors.New("unknown pin")

	// ErrSelfLink is returned by [Graph.Link] for a pin linked to itself.
	ErrSelfLink = errors.New("pin cannot link to itself")
)

// GraphKind says what a graph implements.
type GraphKind string

const (
	EventGraph    GraphKind = "EventGraph"
	FunctionGraph GraphKind = "Function"
	MacroGraph    GraphKind = "Macro"
)

// Direction is the flow direction of a pin.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Pin is a typed port. Links are kept on both ends.
type Pin struct {
	ID           string
	Name         string
	Direction    Direction
	Type         pintype.Type
	DefaultValue string

	owner *Node
	links []*Pin
}

// Owner returns the node the pin belongs to.
func (p *Pin) Owner() *Node { return p.owner }

// LinkedTo returns the pins p is linked to, in link order. The slice must
// not be modified.
func (p *Pin) LinkedTo() []*Pin { return p.links }

// IsLinkedTo reports whether p links to o.
func (p *Pin) IsLinkedTo(o *Pin) bool { return slices.Contains(p.links, o) }

// Attributes is the node-kind payload of a node. Only the fields of the
// node's kind are meaningful.
type Attributes struct {
	Function        memberref.Ref
	Event           memberref.Ref
	CustomEventName string
	Variable        memberref.Ref
	Delegate        memberref.Ref
	TargetClass     string
	PureCast        bool
	SpawnClass      string
	TimelineName    string
	MacroReference  string
	EnumType        string
	StructType      string
	InputActionName string
	InputKey        string
	FormatString    string
	DataTable       string
	NumOutputPins   int
	IsRandom        bool
	Loop            bool
	LiteralValue    string
	VariableName    string
	VariableType    string
	FunctionName    string
	AssetClass      string
	ProxyClass      string
}

// Node is a graph vertex.
type Node struct {
	GUID    string
	Class   string // node class name, e.g. "K2Node_CallFunction"
	Title   string
	Comment string
	X, Y    int
	Pure    bool // stored purity; see the kind table for computed purity
	Latent  bool
	Attrs   Attributes
	Pins    []*Pin

	graph *Graph
}

// Family dispatches on the node class name.
func (n *Node) Family() nodekind.Family { return nodekind.Of(n.Class) }

// Graph returns the graph the node was added to, or nil.
func (n *Node) Graph() *Graph { return n.graph }

// Pin returns the first pin with the given name and direction, or nil.
func (n *Node) Pin(name string, dir Direction) *Pin {
	for _, p := range n.Pins {
		if p.Name == name && p.Direction == dir {
			return p
		}
	}
	return nil
}

// AddPin appends p to n, assigning an ID when p has none. Once n belongs
// to a graph the pin is indexed there too.
func (n *Node) AddPin(p *Pin) error {
	if p.ID == "" {
		p.ID = NewGUID()
	}
	if n.graph != nil {
		if _, exists := n.graph.pins[p.ID]; exists {
			return ErrDuplicatePinID
		}
		n.graph.pins[p.ID] = p
	}
	p.owner = n
	n.Pins = append(n.Pins, p)
	return nil
}

// RemovePin breaks p's links and removes it from n.
func (n *Node) RemovePin(p *Pin) {
	for _, o := range slices.Clone(p.links) {
		unlink(p, o)
	}
	n.Pins = slices.DeleteFunc(n.Pins, func(q *Pin) bool { return q == p })
	if n.graph != nil {
		delete(n.graph.pins, p.ID)
	}
	p.owner = nil
}

// Graph is an ordered set of nodes with a pin index.
//
// The zero value is not usable; use [NewGraph].
type Graph struct {
	Name string
	GUID string
	Kind GraphKind

	nodes  []*Node
	byGUID map[string]*Node
	pins   map[string]*Pin
}

// NewGraph returns an empty graph with a fresh GUID.
func NewGraph(name string, kind GraphKind) *Graph {
	return &Graph{
		Name:   name,
		GUID:   NewGUID(),
		Kind:   kind,
		byGUID: make(map[string]*Node),
		pins:   make(map[string]*Pin),
	}
}

// AddNode adds n and indexes its pins. Pins without an ID get one.
// Returns ErrInvalidNodeGUID, ErrDuplicateNodeGUID or ErrDuplicatePinID;
// on error the graph is unchanged.
func (g *Graph) AddNode(n *Node) error {
	if n.GUID == "" {
		return ErrInvalidNodeGUID
	}
	if _, exists := g.byGUID[n.GUID]; exists {
		return ErrDuplicateNodeGUID
	}
	seen := make(map[string]bool, len(n.Pins))
	for _, p := range n.Pins {
		if p.ID == "" {
			p.ID = NewGUID()
		}
		if _, exists := g.pins[p.ID]; exists || seen[p.ID] {
			return ErrDuplicatePinID
		}
		seen[p.ID] = true
	}
	for _, p := range n.Pins {
		p.owner = n
		g.pins[p.ID] = p
	}
	n.graph = g
	g.nodes = append(g.nodes, n)
	g.byGUID[n.GUID] = n
	return nil
}

// RemoveNode removes the node with the given GUID and breaks every link to
// its pins. It reports whether a node was removed.
func (g *Graph) RemoveNode(guid string) bool {
	n, ok := g.byGUID[guid]
	if !ok {
		return false
	}
	for _, p := range n.Pins {
		for _, o := range slices.Clone(p.links) {
			unlink(p, o)
		}
		delete(g.pins, p.ID)
	}
	delete(g.byGUID, guid)
	g.nodes = slices.DeleteFunc(g.nodes, func(m *Node) bool { return m == n })
	n.graph = nil
	return true
}

// RenameNode changes a node's GUID.
// Returns ErrInvalidNodeGUID if newGUID is empty, ErrUnknownNode if oldGUID
// doesn't exist, or ErrDuplicateNodeGUID if newGUID is already in use.
func (g *Graph) RenameNode(oldGUID, newGUID string) error {
	if newGUID == "" {
		return ErrInvalidNodeGUID
	}
	n, ok := g.byGUID[oldGUID]
	if !ok {
		return ErrUnknownNode
	}
	if oldGUID == newGUID {
		return nil
	}
	if _, exists := g.byGUID[newGUID]; exists {
		return ErrDuplicateNodeGUID
	}
	n.GUID = newGUID
	delete(g.byGUID, oldGUID)
	g.byGUID[newGUID] = n
	return nil
}

// RenamePin changes a pin's ID.
func (g *Graph) RenamePin(p *Pin, newID string) error {
	if g.pins[p.ID] != p {
		return ErrUnknownPin
	}
	if p.ID == newID {
		return nil
	}
	if _, exists := g.pins[newID]; exists || newID == "" {
		return ErrDuplicatePinID
	}
	delete(g.pins, p.ID)
	p.ID = newID
	g.pins[newID] = p
	return nil
}

// Link connects a and b in both directions. Linking pins that are already
// linked is a no-op.
func (g *Graph) Link(a, b *Pin) error {
	if a == nil || b == nil || g.pins[a.ID] != a || g.pins[b.ID] != b {
		return ErrUnknownPin
	}
	if a == b {
		return ErrSelfLink
	}
	if !slices.Contains(a.links, b) {
		a.links = append(a.links, b)
	}
	if !slices.Contains(b.links, a) {
		b.links = append(b.links, a)
	}
	return nil
}

// Unlink removes the link between a and b if present.
func (g *Graph) Unlink(a, b *Pin) { unlink(a, b) }

func unlink(a, b *Pin) {
	a.links = slices.DeleteFunc(a.links, func(p *Pin) bool { return p == b })
	b.links = slices.DeleteFunc(b.links, func(p *Pin) bool { return p == a })
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the node with the given GUID, or nil.
func (g *Graph) Node(guid string) *Node { return g.byGUID[guid] }

// Pin returns the pin with the given ID, or nil.
func (g *Graph) Pin(id string) *Pin { return g.pins[id] }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of distinct pin links in the graph.
func (g *Graph) LinkCount() int {
	total := 0
	for _, p := range g.pins {
		total += len(p.links)
	}
	return total / 2
}
