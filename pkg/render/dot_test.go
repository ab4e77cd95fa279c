package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/bpserial/pkg/document"
)

func sampleGraph() document.Graph {
	return document.Graph{
		Name: "EventGraph",
		Type: document.GraphEvent,
		Nodes: []document.Node{
			{GUID: "N1", Class: "K2Node_Event", Title: "Event BeginPlay", Pins: []document.Pin{
				{ID: "P1", Name: "then", Direction: document.DirOutput, Type: "exec", LinkedTo: []string{"P2"}},
			}},
			{GUID: "N2", Class: "K2Node_CallFunction", Comment: "say hi", Pins: []document.Pin{
				{ID: "P2", Name: "execute", Direction: document.DirInput, Type: "exec", LinkedTo: []string{"P1"}},
				{ID: "P3", Name: "InString", Direction: document.DirInput, Type: "string", LinkedTo: []string{"P4"}},
			}},
			{GUID: "N3", Class: "K2Node_VariableGet", IsPure: true, Pins: []document.Pin{
				{ID: "P4", Name: "Greeting", Direction: document.DirOutput, Type: "string", LinkedTo: []string{"P3", "GONE"}},
			}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{})

	for _, want := range []string{
		`digraph "EventGraph" {`,
		`"N1" [label="Event BeginPlay", fillcolor="#f4cccc"];`,
		`"N2" [label="CallFunction"];`,
		`"N3" [label="VariableGet", fillcolor="#d9ead3"];`,
		`"N1" -> "N2" [penwidth=2.5];`,
		`"N3" -> "N2" [color="#6d9eeb"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	// Links are drawn once, from the output side; unknown targets are dropped.
	if n := strings.Count(dot, "->"); n != 2 {
		t.Errorf("edge count = %d, want 2\n%s", n, dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{Detailed: true})
	for _, want := range []string{
		`label="CallFunction\nsay hi"`,
		`taillabel="then"`,
		`headlabel="InString"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
}

func TestFindGraph(t *testing.T) {
	doc := &document.Document{
		EventGraphs: []document.Graph{{Name: "EventGraph"}},
		Functions:   []document.Function{{Name: "Open", Graph: document.Graph{Name: "Open"}}},
	}
	if g, ok := FindGraph(doc, ""); !ok || g.Name != "EventGraph" {
		t.Errorf("default graph = %q, %v", g.Name, ok)
	}
	if g, ok := FindGraph(doc, "Open"); !ok || g.Name != "Open" {
		t.Errorf("function graph = %q, %v", g.Name, ok)
	}
	if _, ok := FindGraph(doc, "Missing"); ok {
		t.Error("found a missing graph")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleGraph(), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Event BeginPlay")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
