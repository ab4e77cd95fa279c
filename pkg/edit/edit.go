// Package edit changes one graph of a document in place.
//
// An [Editor] wraps a graph of a [document.Document] and offers the
// operations a script or an assistant needs to build graphs without
// touching raw JSON: adding a node from its class, removing a node,
// connecting and disconnecting pins and setting pin defaults. Links are
// kept symmetric, so an edited document passes the link-closure checks of
// package validate.
//
//	ed, err := edit.Open(doc, "EventGraph", edit.Options{Registry: reg, Schema: s})
//	branch, err := ed.AddNode(edit.NodeSpec{Class: "K2Node_IfThenElse", X: 300})
//	err = ed.Connect(edit.PinRef{Node: begin, Pin: "then"}, edit.PinRef{Node: branch.GUID, Pin: "execute"})
//
// Pins are addressed as "<nodeGuid>.<pinName>"; see [ParsePinRef].
package edit

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/bpserial/pkg/blueprint"
	"github.com/matzehuels/bpserial/pkg/codec"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/pintype"
	"github.com/matzehuels/bpserial/pkg/registry"
	"github.com/matzehuels/bpserial/pkg/schema"
)

// Options configure an [Editor]. Both fields are optional.
type Options struct {
	// Registry supplies default pins for new nodes.
	Registry registry.Registry
	// Schema restricts new nodes to known classes and supplies their titles.
	Schema *schema.Schema
}

// Editor edits one graph of a document.
type Editor struct {
	doc   *document.Document
	graph *document.Graph
	opts  Options
}

// Open returns an editor for the graph of doc called name. An empty name
// selects the first graph.
func Open(doc *document.Document, name string, opts Options) (*Editor, error) {
	g := doc.Graph(name)
	if g == nil {
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "document has no graphs")
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no graph named %q", name)
	}
	return &Editor{doc: doc, graph: g, opts: opts}, nil
}

// Graph returns the graph being edited. It aliases the document.
func (e *Editor) Graph() *document.Graph { return e.graph }

// PinRef addresses a pin by node GUID and pin name.
type PinRef struct {
	Node string
	Pin  string
}

func (r PinRef) String() string { return r.Node + "." + r.Pin }

// ParsePinRef parses "<nodeGuid>.<pinName>". The pin name may itself
// contain dots.
func ParsePinRef(s string) (PinRef, error) {
	node, pin, ok := strings.Cut(s, ".")
	if !ok || node == "" || pin == "" {
		return PinRef{}, errors.New(errors.ErrCodeInvalidInput, "pin %q is not in the form <nodeGuid>.<pinName>", s)
	}
	return PinRef{Node: node, Pin: pin}, nil
}

// NodeSpec describes a node to add.
type NodeSpec struct {
	Class   string
	Title   string
	Comment string
	X, Y    int
	// Fields sets kind-specific fields by document key. Member references
	// take a path ("/Script/Engine.Actor:K2_DestroyActor") or a bare name,
	// which is taken as a self-context member.
	Fields map[string]string
}

// AddNode creates a node from spec with a fresh GUID and the pins its kind
// starts with, and appends it to the graph.
func (e *Editor) AddNode(spec NodeSpec) (document.Node, error) {
	class := e.className(spec.Class)
	if class == "" {
		return document.Node{}, errors.New(errors.ErrCodeMissingField, "node class is empty")
	}
	var ns *schema.NodeSchema
	if e.opts.Schema != nil {
		if ns = e.opts.Schema.Node(class); ns == nil {
			return document.Node{}, errors.New(errors.ErrCodeUnresolved, "node class %s is not in the schema", class)
		}
	}

	n := document.Node{
		GUID:    blueprint.NewGUID(),
		Class:   class,
		Title:   spec.Title,
		Comment: spec.Comment,
		X:       spec.X,
		Y:       spec.Y,
	}
	if n.Title == "" {
		if ns != nil {
			n.Title = ns.DisplayName
		} else {
			n.Title = schema.DisplayName(class)
		}
	}

	kind := nodekind.Lookup(nodekind.Resolve(e.opts.Registry, class))
	for _, key := range slices.Sorted(maps.Keys(spec.Fields)) {
		if err := setField(&n, kind, key, spec.Fields[key]); err != nil {
			return document.Node{}, err
		}
	}
	if kind.AlwaysPure {
		n.IsPure = true
	}

	n.Pins = codec.DefaultPins(e.opts.Registry, e.doc.Metadata.ParentClassPath, n)
	if len(n.Pins) == 0 {
		n.Pins = e.staticPins(kind.Family, &n)
	}
	e.graph.Nodes = append(e.graph.Nodes, n)
	return n, nil
}

// className accepts a class name with or without the node class prefix
// when the schema knows only the prefixed form.
func (e *Editor) className(class string) string {
	class = strings.TrimSpace(class)
	if class == "" || strings.HasPrefix(class, nodekind.ClassPrefix) || e.opts.Schema == nil {
		return class
	}
	if e.opts.Schema.Node(class) == nil && e.opts.Schema.Node(nodekind.ClassPrefix+class) != nil {
		return nodekind.ClassPrefix + class
	}
	return class
}

func setField(n *document.Node, kind nodekind.Kind, key, value string) error {
	i := slices.IndexFunc(kind.Fields, func(f nodekind.Field) bool { return f.Key == key })
	if i < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s nodes have no field %s", nodekind.TrimPrefix(n.Class), key)
	}
	switch kind.Fields[i].Type {
	case nodekind.TypeMemberRef:
		ref := memberref.FromPath(value)
		if ref.ParentClass == "" {
			ref.IsSelf = true
		}
		if p := n.Ref(key); p != nil {
			*p = &ref
		}
	case nodekind.TypeInteger:
		v, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "field %s", key)
		}
		if key == nodekind.KeyNumOutputPins {
			n.NumOutputPins = &v
		}
	case nodekind.TypeBoolean:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "field %s", key)
		}
		switch key {
		case nodekind.KeyIsPure:
			n.IsPure = v
		case nodekind.KeyIsPureCast:
			n.IsPureCast = v
		case nodekind.KeyIsRandom:
			n.IsRandom = v
		case nodekind.KeyLoop:
			n.Loop = v
		}
	default:
		if key == nodekind.KeyVariableType {
			if _, err := pintype.Parse(value); err != nil {
				return err
			}
		}
		n.SetField(key, value)
	}
	return nil
}

// staticPins covers kinds whose pins the host does not derive from a
// reference. Variable nodes take their type from the document's own
// variables.
func (e *Editor) staticPins(f nodekind.Family, n *document.Node) []document.Pin {
	var pins []document.Pin
	add := func(name, dir string, t pintype.Type) {
		pins = append(pins, document.Pin{ID: blueprint.NewGUID(), Name: name, Direction: dir, Type: t.String(), LinkedTo: []string{}})
	}
	exec := pintype.Base(pintype.CategoryExec, "")
	wildcard := pintype.Base(pintype.CategoryWildcard, "")

	switch f {
	case nodekind.IfThenElse:
		add(blueprint.PinExecute, document.DirInput, exec)
		add("Condition", document.DirInput, pintype.Base(pintype.CategoryBool, ""))
		add(blueprint.PinThen, document.DirOutput, exec)
		add("else", document.DirOutput, exec)
	case nodekind.Knot:
		add("InputPin", document.DirInput, wildcard)
		add("OutputPin", document.DirOutput, wildcard)
	case nodekind.VariableGet, nodekind.VariableSet:
		if n.VariableReference == nil {
			return nil
		}
		name := n.VariableReference.MemberName
		typ := wildcard
		for _, v := range e.doc.Variables {
			if v.Name == name {
				if t, err := pintype.Parse(v.Type); err == nil {
					typ = t
				}
			}
		}
		if f == nodekind.VariableGet {
			add(name, document.DirOutput, typ)
			break
		}
		add(blueprint.PinExecute, document.DirInput, exec)
		add(blueprint.PinThen, document.DirOutput, exec)
		add(name, document.DirInput, typ)
		add("Output_Get", document.DirOutput, typ)
	}
	return pins
}

// RemoveNode deletes a node and every link into its pins.
func (e *Editor) RemoveNode(guid string) error {
	i := slices.IndexFunc(e.graph.Nodes, func(n document.Node) bool { return n.GUID == guid })
	if i < 0 {
		return e.noNode(guid)
	}
	gone := make(map[string]bool)
	for _, p := range e.graph.Nodes[i].Pins {
		gone[p.ID] = true
	}
	e.graph.Nodes = slices.Delete(e.graph.Nodes, i, i+1)
	for ni := range e.graph.Nodes {
		for pi := range e.graph.Nodes[ni].Pins {
			p := &e.graph.Nodes[ni].Pins[pi]
			p.LinkedTo = slices.DeleteFunc(p.LinkedTo, func(id string) bool { return gone[id] })
		}
	}
	return nil
}

func (e *Editor) noNode(guid string) error {
	return errors.New(errors.ErrCodeUnresolved, "no node %s in graph %s", guid, e.graph.Name)
}

// pin finds the pin ref names. When a node has an input and an output of
// the same name, prefer picks the direction.
func (e *Editor) pin(ref PinRef, prefer string) (*document.Pin, error) {
	n := e.graph.Node(ref.Node)
	if n == nil {
		return nil, e.noNode(ref.Node)
	}
	var found *document.Pin
	for i := range n.Pins {
		p := &n.Pins[i]
		if p.Name != ref.Pin {
			continue
		}
		if found == nil || p.Direction == prefer {
			found = p
		}
	}
	if found == nil {
		return nil, errors.New(errors.ErrCodeUnresolved, "node %s has no pin %s", ref.Node, ref.Pin)
	}
	return found, nil
}

// Connect links two pins. One must be an input and the other an output,
// and an exec pin only connects to another exec pin. Connecting pins that
// are already linked is a no-op.
func (e *Editor) Connect(from, to PinRef) error {
	a, err := e.pin(from, document.DirOutput)
	if err != nil {
		return err
	}
	b, err := e.pin(to, document.DirInput)
	if err != nil {
		return err
	}
	if a.Direction == b.Direction {
		return errors.New(errors.ErrCodeInvalidInput, "cannot connect %s to %s: both are %s pins", from, to, a.Direction)
	}
	if isExec(a) != isExec(b) {
		return errors.New(errors.ErrCodeInvalidInput, "cannot connect %s to %s: exec pins only connect to exec pins", from, to)
	}
	if !slices.Contains(a.LinkedTo, b.ID) {
		a.LinkedTo = append(a.LinkedTo, b.ID)
	}
	if !slices.Contains(b.LinkedTo, a.ID) {
		b.LinkedTo = append(b.LinkedTo, a.ID)
	}
	return nil
}

func isExec(p *document.Pin) bool {
	t, err := pintype.Parse(p.Type)
	return err == nil && t.IsExec()
}

// Disconnect removes the link between two pins from both ends.
func (e *Editor) Disconnect(from, to PinRef) error {
	a, err := e.pin(from, document.DirOutput)
	if err != nil {
		return err
	}
	b, err := e.pin(to, document.DirInput)
	if err != nil {
		return err
	}
	if !slices.Contains(a.LinkedTo, b.ID) && !slices.Contains(b.LinkedTo, a.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "%s is not connected to %s", from, to)
	}
	a.LinkedTo = slices.DeleteFunc(a.LinkedTo, func(id string) bool { return id == b.ID })
	b.LinkedTo = slices.DeleteFunc(b.LinkedTo, func(id string) bool { return id == a.ID })
	return nil
}

// SetDefault sets a pin's default value. Exec pins carry no value.
func (e *Editor) SetDefault(ref PinRef, value string) error {
	p, err := e.pin(ref, document.DirInput)
	if err != nil {
		return err
	}
	if isExec(p) {
		return errors.New(errors.ErrCodeInvalidInput, "%s is an exec pin and has no default value", ref)
	}
	p.DefaultValue = value
	return nil
}

// NodeSummary is one row of [Editor.Nodes].
type NodeSummary struct {
	GUID  string `json:"guid"`
	Class string `json:"class"`
	Title string `json:"title"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Pins  int    `json:"pins"`
}

// Nodes lists the graph's nodes in document order.
func (e *Editor) Nodes() []NodeSummary {
	out := make([]NodeSummary, 0, len(e.graph.Nodes))
	for _, n := range e.graph.Nodes {
		out = append(out, NodeSummary{GUID: n.GUID, Class: n.Class, Title: n.Title, X: n.X, Y: n.Y, Pins: len(n.Pins)})
	}
	return out
}

// ClassCount is one entry of [Summary.Classes].
type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// Summary describes a graph at a glance.
type Summary struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	GUID    string       `json:"guid"`
	Nodes   int          `json:"nodes"`
	Links   int          `json:"links"`
	Classes []ClassCount `json:"classes"`
}

// Summary counts the graph's nodes, links and node classes. A link
// recorded on both ends counts once.
func (e *Editor) Summary() Summary {
	s := Summary{Name: e.graph.Name, Type: e.graph.Type, GUID: e.graph.GUID, Nodes: len(e.graph.Nodes)}
	counts := make(map[string]int)
	links := make(map[[2]string]bool)
	for _, n := range e.graph.Nodes {
		counts[n.Class]++
		for _, p := range n.Pins {
			for _, id := range p.LinkedTo {
				key := [2]string{p.ID, id}
				if id < p.ID {
					key = [2]string{id, p.ID}
				}
				links[key] = true
			}
		}
	}
	s.Links = len(links)
	for class, n := range counts {
		s.Classes = append(s.Classes, ClassCount{Class: class, Count: n})
	}
	slices.SortFunc(s.Classes, func(a, b ClassCount) int { return cmp.Compare(a.Class, b.Class) })
	return s
}
