// Package diff compares two documents at entity level: variables,
// functions, macros, components, graphs and the nodes inside each graph.
// Pin topology is not compared.
package diff

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/bpserial/pkg/document"
)

// Change lists the names added, removed and modified in one entity set.
type Change struct {
	Added    []string `json:"added,omitempty"`
	Removed  []string `json:"removed,omitempty"`
	Modified []string `json:"modified,omitempty"`
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// GraphChange lists the node GUIDs added and removed in one graph.
type GraphChange struct {
	Graph   string   `json:"graph"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Summary is the result of [Compare].
type Summary struct {
	ParentClass [2]string     `json:"parentClass"` // old, new; zero when unchanged
	Variables   Change        `json:"variables"`
	Functions   Change        `json:"functions"`
	Macros      Change        `json:"macros"`
	Components  Change        `json:"components"`
	Graphs      Change        `json:"graphs"`
	Nodes       []GraphChange `json:"nodes,omitempty"`
}

// Empty reports whether the documents are equal at entity level.
func (s Summary) Empty() bool {
	return s.ParentClass == [2]string{} &&
		s.Variables.Empty() && s.Functions.Empty() && s.Macros.Empty() &&
		s.Components.Empty() && s.Graphs.Empty() && len(s.Nodes) == 0
}

// Lines renders the summary one change per line, e.g. "+ variable Health".
func (s Summary) Lines() []string {
	var out []string
	if s.ParentClass != [2]string{} {
		out = append(out, fmt.Sprintf("~ parent class %s -> %s", s.ParentClass[0], s.ParentClass[1]))
	}
	for _, set := range []struct {
		kind string
		c    Change
	}{
		{"variable", s.Variables},
		{"function", s.Functions},
		{"macro", s.Macros},
		{"component", s.Components},
		{"graph", s.Graphs},
	} {
		for _, n := range set.c.Added {
			out = append(out, "+ "+set.kind+" "+n)
		}
		for _, n := range set.c.Removed {
			out = append(out, "- "+set.kind+" "+n)
		}
		for _, n := range set.c.Modified {
			out = append(out, "~ "+set.kind+" "+n)
		}
	}
	for _, g := range s.Nodes {
		for _, n := range g.Added {
			out = append(out, fmt.Sprintf("+ node %s in %s", n, g.Graph))
		}
		for _, n := range g.Removed {
			out = append(out, fmt.Sprintf("- node %s in %s", n, g.Graph))
		}
	}
	return out
}

// Compare summarises the entity-level changes from old to new.
func Compare(old, cur *document.Document) Summary {
	var s Summary
	if old.Metadata.ParentClassPath != cur.Metadata.ParentClassPath {
		s.ParentClass = [2]string{old.Metadata.ParentClassPath, cur.Metadata.ParentClassPath}
	}
	s.Variables = compareSet(index(old.Variables, varKey), index(cur.Variables, varKey), sameVariable)
	s.Functions = compareSet(index(old.Functions, funcKey), index(cur.Functions, funcKey), sameFunction)
	s.Macros = compareSet(index(old.Macros, graphKey), index(cur.Macros, graphKey), nil)
	s.Components = compareSet(index(old.Components, compKey), index(cur.Components, compKey), sameComponent)

	oldGraphs := graphIndex(old)
	newGraphs := graphIndex(cur)
	s.Graphs = compareSet(oldGraphs, newGraphs, nil)
	for _, name := range slices.Sorted(maps.Keys(oldGraphs)) {
		ng, ok := newGraphs[name]
		if !ok {
			continue
		}
		if gc := compareNodes(name, oldGraphs[name], ng); len(gc.Added)+len(gc.Removed) > 0 {
			s.Nodes = append(s.Nodes, gc)
		}
	}
	return s
}

func varKey(v document.Variable) string   { return v.Name }
func funcKey(f document.Function) string  { return f.Name }
func graphKey(g document.Graph) string    { return g.Name }
func compKey(c document.Component) string { return c.Name }

func index[T any](items []T, key func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[key(it)] = it
	}
	return out
}

// graphIndex keys every graph by kind and name so an event graph and a
// function sharing a name stay distinct.
func graphIndex(d *document.Document) map[string]document.Graph {
	out := make(map[string]document.Graph)
	for _, g := range d.EventGraphs {
		out[g.Name] = g
	}
	for _, f := range d.Functions {
		out[f.Name+" (function)"] = f.Graph
	}
	for _, m := range d.Macros {
		out[m.Name+" (macro)"] = m
	}
	return out
}

func compareSet[T any](old, cur map[string]T, same func(a, b T) bool) Change {
	var c Change
	for _, name := range slices.Sorted(maps.Keys(cur)) {
		o, ok := old[name]
		switch {
		case !ok:
			c.Added = append(c.Added, name)
		case same != nil && !same(o, cur[name]):
			c.Modified = append(c.Modified, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(old)) {
		if _, ok := cur[name]; !ok {
			c.Removed = append(c.Removed, name)
		}
	}
	return c
}

func compareNodes(name string, old, cur document.Graph) GraphChange {
	gc := GraphChange{Graph: name}
	oldIDs := make(map[string]bool, len(old.Nodes))
	for _, n := range old.Nodes {
		oldIDs[n.GUID] = true
	}
	newIDs := make(map[string]bool, len(cur.Nodes))
	for _, n := range cur.Nodes {
		newIDs[n.GUID] = true
		if !oldIDs[n.GUID] {
			gc.Added = append(gc.Added, n.GUID)
		}
	}
	for _, n := range old.Nodes {
		if !newIDs[n.GUID] {
			gc.Removed = append(gc.Removed, n.GUID)
		}
	}
	slices.Sort(gc.Added)
	slices.Sort(gc.Removed)
	return gc
}

func sameVariable(a, b document.Variable) bool {
	return a.Type == b.Type && a.DefaultValue == b.DefaultValue
}

func sameFunction(a, b document.Function) bool {
	return slices.EqualFunc(a.Parameters, b.Parameters, sameParam) &&
		slices.EqualFunc(a.ReturnValues, b.ReturnValues, sameParam) &&
		a.IsPure == b.IsPure && a.IsStatic == b.IsStatic
}

func sameParam(a, b document.Variable) bool {
	return a.Name == b.Name && a.Type == b.Type
}

func sameComponent(a, b document.Component) bool {
	return a.Class == b.Class && a.Parent == b.Parent
}
