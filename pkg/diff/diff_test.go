package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bpserial/pkg/document"
)

func baseDoc() *document.Document {
	return &document.Document{
		Metadata: document.Metadata{BlueprintName: "BP_Door", ParentClassPath: "/Script/Engine.Actor"},
		Variables: []document.Variable{
			{Name: "Health", Type: "float", DefaultValue: "100"},
			{Name: "Open", Type: "bool"},
		},
		Functions: []document.Function{
			{Name: "Toggle", Graph: document.Graph{Name: "Toggle", Nodes: []document.Node{{GUID: "F1"}}}},
		},
		Components: []document.Component{{Name: "Mesh", Class: "/Script/Engine.StaticMeshComponent"}},
		EventGraphs: []document.Graph{{Name: "EventGraph", Nodes: []document.Node{{GUID: "A"}, {GUID: "B"}}}},
	}
}

func TestCompareEqual(t *testing.T) {
	s := Compare(baseDoc(), baseDoc())
	if !s.Empty() {
		t.Errorf("identical documents differ: %v", s.Lines())
	}
	if len(s.Lines()) != 0 {
		t.Errorf("Lines() = %v", s.Lines())
	}
}

func TestCompare(t *testing.T) {
	cur := baseDoc()
	cur.Metadata.ParentClassPath = "/Script/Engine.Pawn"
	cur.Variables = []document.Variable{
		{Name: "Health", Type: "double", DefaultValue: "100"},
		{Name: "Speed", Type: "float"},
	}
	cur.Functions[0].Parameters = []document.Variable{{Name: "Force", Type: "bool"}}
	cur.Components = append(cur.Components, document.Component{Name: "Light", Class: "/Script/Engine.PointLightComponent"})
	cur.EventGraphs[0].Nodes = []document.Node{{GUID: "B"}, {GUID: "C"}}
	cur.Macros = []document.Graph{{Name: "Lerp"}}

	got := Compare(baseDoc(), cur)
	want := Summary{
		ParentClass: [2]string{"/Script/Engine.Actor", "/Script/Engine.Pawn"},
		Variables:   Change{Added: []string{"Speed"}, Removed: []string{"Open"}, Modified: []string{"Health"}},
		Functions:   Change{Modified: []string{"Toggle"}},
		Macros:      Change{Added: []string{"Lerp"}},
		Components:  Change{Added: []string{"Light"}},
		Graphs:      Change{Added: []string{"Lerp (macro)"}},
		Nodes:       []GraphChange{{Graph: "EventGraph", Added: []string{"C"}, Removed: []string{"A"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compare mismatch (-want +got):\n%s", diff)
	}

	wantLines := []string{
		"~ parent class /Script/Engine.Actor -> /Script/Engine.Pawn",
		"+ variable Speed",
		"- variable Open",
		"~ variable Health",
		"~ function Toggle",
		"+ macro Lerp",
		"+ component Light",
		"+ graph Lerp (macro)",
		"+ node C in EventGraph",
		"- node A in EventGraph",
	}
	if diff := cmp.Diff(wantLines, got.Lines()); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareFunctionGraphNodes(t *testing.T) {
	cur := baseDoc()
	cur.Functions[0].Graph.Nodes = nil
	got := Compare(baseDoc(), cur)
	want := []GraphChange{{Graph: "Toggle (function)", Removed: []string{"F1"}}}
	if diff := cmp.Diff(want, got.Nodes); diff != "" {
		t.Errorf("Nodes mismatch (-want +got):\n%s", diff)
	}
	if !got.Functions.Empty() {
		t.Errorf("body edits reported as signature change: %+v", got.Functions)
	}
}
