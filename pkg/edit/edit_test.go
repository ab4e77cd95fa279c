package edit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/registry"
	"github.com/matzehuels/bpserial/pkg/schema"
	"github.com/matzehuels/bpserial/pkg/validate"
)

const (
	beginPlay = "A1000000000000000000000000000001"
	knot      = "A1000000000000000000000000000002"
	getHits   = "A1000000000000000000000000000003"
)

func door() *document.Document {
	return &document.Document{
		Metadata: document.Metadata{
			BlueprintName:   "BP_Door",
			BlueprintPath:   "/Game/Doors/BP_Door",
			ParentClassPath: "/Script/Engine.Actor",
		},
		Variables: []document.Variable{{Name: "Hits", Type: "int"}},
		EventGraphs: []document.Graph{{
			Name: "EventGraph",
			GUID: "0F7A3C5E1B9D4A2C8E6F0B4D2A8C6E1F",
			Type: "EventGraph",
			Nodes: []document.Node{
				{
					GUID:  beginPlay,
					Class: "K2Node_Event",
					Title: "Event BeginPlay",
					EventReference: &memberref.Ref{
						MemberName:  "ReceiveBeginPlay",
						ParentClass: "/Script/Engine.Actor",
					},
					Pins: []document.Pin{
						{ID: "B1", Name: "then", Direction: document.DirOutput, Type: "exec", LinkedTo: []string{"B2"}},
					},
				},
				{
					GUID:  knot,
					Class: "K2Node_Knot",
					X:     240,
					Pins: []document.Pin{
						{ID: "B2", Name: "InputPin", Direction: document.DirInput, Type: "exec", LinkedTo: []string{"B1"}},
						{ID: "B3", Name: "OutputPin", Direction: document.DirOutput, Type: "exec", LinkedTo: []string{}},
					},
				},
				{
					GUID:   getHits,
					Class:  "K2Node_VariableGet",
					Title:  "Get Hits",
					Y:      160,
					IsPure: true,
					VariableReference: &memberref.Ref{
						MemberName: "Hits",
						IsSelf:     true,
					},
					Pins: []document.Pin{
						{ID: "B4", Name: "Hits", Direction: document.DirOutput, Type: "int", LinkedTo: []string{}},
					},
				},
			},
		}},
	}
}

func open(t *testing.T, doc *document.Document, opts Options) *Editor {
	t.Helper()
	ed, err := Open(doc, "EventGraph", opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return ed
}

func pinShape(pins []document.Pin) []document.Pin {
	out := make([]document.Pin, len(pins))
	for i, p := range pins {
		out[i] = document.Pin{Name: p.Name, Direction: p.Direction, Type: p.Type}
	}
	return out
}

func TestOpen(t *testing.T) {
	doc := door()
	ed, err := Open(doc, "", Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if ed.Graph() != &doc.EventGraphs[0] {
		t.Error("Graph() does not alias the document")
	}

	_, err = Open(doc, "Construction", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Open(missing graph) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	_, err = Open(&document.Document{}, "", Options{})
	if err == nil {
		t.Error("Open(document without graphs) succeeded")
	}
}

func TestParsePinRef(t *testing.T) {
	tests := []struct {
		in      string
		want    PinRef
		wantErr bool
	}{
		{in: "A1.then", want: PinRef{Node: "A1", Pin: "then"}},
		{in: "A1.Output.Get", want: PinRef{Node: "A1", Pin: "Output.Get"}},
		{in: "A1", wantErr: true},
		{in: ".then", wantErr: true},
		{in: "A1.", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePinRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePinRef(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePinRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddNode(t *testing.T) {
	reg := registry.Builtin()
	exec := func(name, dir string) document.Pin { return document.Pin{Name: name, Direction: dir, Type: "exec"} }

	tests := []struct {
		name      string
		spec      NodeSpec
		wantTitle string
		wantPure  bool
		wantPins  []document.Pin
	}{
		{
			name:      "function call",
			spec:      NodeSpec{Class: "K2Node_CallFunction", Fields: map[string]string{"functionReference": "/Script/Engine.KismetSystemLibrary:PrintString"}},
			wantTitle: "Call Function",
			wantPins: []document.Pin{
				exec("execute", document.DirInput),
				exec("then", document.DirOutput),
				{Name: "InString", Direction: document.DirInput, Type: "string"},
				{Name: "bPrintToScreen", Direction: document.DirInput, Type: "bool"},
				{Name: "Duration", Direction: document.DirInput, Type: "float"},
			},
		},
		{
			name:      "branch",
			spec:      NodeSpec{Class: "K2Node_IfThenElse", Title: "Is Open?"},
			wantTitle: "Is Open?",
			wantPins: []document.Pin{
				exec("execute", document.DirInput),
				{Name: "Condition", Direction: document.DirInput, Type: "bool"},
				exec("then", document.DirOutput),
				exec("else", document.DirOutput),
			},
		},
		{
			name:      "reroute",
			spec:      NodeSpec{Class: "K2Node_Knot"},
			wantTitle: "Knot",
			wantPins: []document.Pin{
				{Name: "InputPin", Direction: document.DirInput, Type: "wildcard"},
				{Name: "OutputPin", Direction: document.DirOutput, Type: "wildcard"},
			},
		},
		{
			name:      "variable get",
			spec:      NodeSpec{Class: "K2Node_VariableGet", Fields: map[string]string{"variableReference": "Hits"}},
			wantTitle: "Variable Get",
			wantPure:  true,
			wantPins:  []document.Pin{{Name: "Hits", Direction: document.DirOutput, Type: "int"}},
		},
		{
			name:      "variable set",
			spec:      NodeSpec{Class: "K2Node_VariableSet", Fields: map[string]string{"variableReference": "Hits"}},
			wantTitle: "Variable Set",
			wantPins: []document.Pin{
				exec("execute", document.DirInput),
				exec("then", document.DirOutput),
				{Name: "Hits", Direction: document.DirInput, Type: "int"},
				{Name: "Output_Get", Direction: document.DirOutput, Type: "int"},
			},
		},
		{
			name:      "custom event",
			spec:      NodeSpec{Class: "K2Node_CustomEvent", Fields: map[string]string{"customEventName": "OnKnock"}},
			wantTitle: "Custom Event",
			wantPins:  []document.Pin{exec("then", document.DirOutput)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := door()
			ed := open(t, doc, Options{Registry: reg})
			tt.spec.X, tt.spec.Y = 400, 80

			n, err := ed.AddNode(tt.spec)
			if err != nil {
				t.Fatalf("AddNode: %v", err)
			}
			if len(n.GUID) != 32 {
				t.Errorf("GUID = %q, want 32 hex digits", n.GUID)
			}
			if n.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", n.Title, tt.wantTitle)
			}
			if n.IsPure != tt.wantPure {
				t.Errorf("IsPure = %v, want %v", n.IsPure, tt.wantPure)
			}
			if n.X != 400 || n.Y != 80 {
				t.Errorf("position = (%d, %d), want (400, 80)", n.X, n.Y)
			}
			if diff := cmp.Diff(tt.wantPins, pinShape(n.Pins), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("pins mismatch (-want +got):\n%s", diff)
			}
			if got := doc.EventGraphs[0].Node(n.GUID); got == nil {
				t.Error("node was not added to the graph")
			}
		})
	}
}

func TestAddNodeErrors(t *testing.T) {
	sch := schema.Generate(registry.Builtin())
	tests := []struct {
		name string
		opts Options
		spec NodeSpec
		code errors.Code
	}{
		{"empty class", Options{}, NodeSpec{Class: " "}, errors.ErrCodeMissingField},
		{"unknown class with schema", Options{Schema: sch}, NodeSpec{Class: "K2Node_Teleport"}, errors.ErrCodeUnresolved},
		{"unknown field", Options{}, NodeSpec{Class: "K2Node_Knot", Fields: map[string]string{"loop": "true"}}, errors.ErrCodeInvalidInput},
		{"bad integer", Options{}, NodeSpec{Class: "K2Node_ExecutionSequence", Fields: map[string]string{"numOutputPins": "many"}}, errors.ErrCodeInvalidInput},
		{"bad boolean", Options{}, NodeSpec{Class: "K2Node_DynamicCast", Fields: map[string]string{"isPureCast": "maybe"}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := door()
			ed := open(t, doc, tt.opts)
			if _, err := ed.AddNode(tt.spec); !errors.Is(err, tt.code) {
				t.Fatalf("AddNode error = %v, want %s", err, tt.code)
			}
			if len(doc.EventGraphs[0].Nodes) != 3 {
				t.Errorf("graph has %d nodes after a failed add", len(doc.EventGraphs[0].Nodes))
			}
		})
	}
}

func TestAddNodeWithSchema(t *testing.T) {
	ed := open(t, door(), Options{Registry: registry.Builtin(), Schema: schema.Generate(registry.Builtin())})
	n, err := ed.AddNode(NodeSpec{Class: "IfThenElse"})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if n.Class != "K2Node_IfThenElse" {
		t.Errorf("Class = %q, want the prefixed class", n.Class)
	}

	// Without a schema any class is accepted as given.
	ed = open(t, door(), Options{})
	n, err = ed.AddNode(NodeSpec{Class: "K2Node_Teleport"})
	if err != nil {
		t.Fatalf("AddNode without schema: %v", err)
	}
	if n.Title != "Teleport" || len(n.Pins) != 0 {
		t.Errorf("node = %+v", n)
	}
}

func TestAddNodeSequenceCount(t *testing.T) {
	ed := open(t, door(), Options{Registry: registry.Builtin()})
	n, err := ed.AddNode(NodeSpec{Class: "K2Node_ExecutionSequence", Fields: map[string]string{"numOutputPins": "3"}})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if n.NumOutputPins == nil || *n.NumOutputPins != 3 {
		t.Fatalf("NumOutputPins = %v, want 3", n.NumOutputPins)
	}
	var outs []string
	for _, p := range n.Pins {
		if p.Direction == document.DirOutput {
			outs = append(outs, p.Name)
		}
	}
	if diff := cmp.Diff([]string{"then_0", "then_1", "then_2"}, outs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveNode(t *testing.T) {
	doc := door()
	ed := open(t, doc, Options{})
	if err := ed.RemoveNode(knot); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	g := &doc.EventGraphs[0]
	if g.Node(knot) != nil || len(g.Nodes) != 2 {
		t.Fatalf("knot still in graph: %+v", g.Nodes)
	}
	if got := g.Node(beginPlay).Pins[0].LinkedTo; len(got) != 0 {
		t.Errorf("BeginPlay.then still links to %v", got)
	}

	if err := ed.RemoveNode(knot); !errors.Is(err, errors.ErrCodeUnresolved) {
		t.Errorf("second RemoveNode error = %v, want %s", err, errors.ErrCodeUnresolved)
	}
}

func TestConnect(t *testing.T) {
	tests := []struct {
		name     string
		from, to PinRef
		code     errors.Code
	}{
		{"output to input", PinRef{knot, "OutputPin"}, PinRef{beginPlay, "then"}, errors.ErrCodeInvalidInput},
		{"missing node", PinRef{"nope", "then"}, PinRef{knot, "InputPin"}, errors.ErrCodeUnresolved},
		{"missing pin", PinRef{knot, "OutputPin"}, PinRef{knot, "Condition"}, errors.ErrCodeUnresolved},
		{"two outputs", PinRef{knot, "OutputPin"}, PinRef{getHits, "Hits"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := open(t, door(), Options{})
			if err := ed.Connect(tt.from, tt.to); !errors.Is(err, tt.code) {
				t.Errorf("Connect error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEditedDocumentValidates(t *testing.T) {
	reg := registry.Builtin()
	doc := door()
	ed := open(t, doc, Options{Registry: reg})

	branch, err := ed.AddNode(NodeSpec{Class: "K2Node_IfThenElse"})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	steps := []func() error{
		func() error { return ed.Connect(PinRef{knot, "OutputPin"}, PinRef{branch.GUID, "execute"}) },
		// Connecting twice changes nothing.
		func() error { return ed.Connect(PinRef{branch.GUID, "execute"}, PinRef{knot, "OutputPin"}) },
		func() error { return ed.SetDefault(PinRef{branch.GUID, "Condition"}, "true") },
	}
	if err := ed.Connect(PinRef{getHits, "Hits"}, PinRef{branch.GUID, "execute"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Connect(data to exec) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	g := &doc.EventGraphs[0]
	out, in := g.Node(knot).Pins[1], g.Node(branch.GUID).Pins[0]
	if diff := cmp.Diff([]string{in.ID}, out.LinkedTo); diff != "" {
		t.Errorf("OutputPin links (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{out.ID}, in.LinkedTo); diff != "" {
		t.Errorf("execute links (-want +got):\n%s", diff)
	}
	if got := g.Node(branch.GUID).Pins[1].DefaultValue; got != "true" {
		t.Errorf("Condition default = %q, want true", got)
	}

	res := validate.Document(doc, reg)
	if !res.Valid() {
		t.Errorf("edited document is invalid: %v", res.Issues)
	}

	if err := ed.Disconnect(PinRef{knot, "OutputPin"}, PinRef{branch.GUID, "execute"}); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if len(g.Node(knot).Pins[1].LinkedTo) != 0 || len(g.Node(branch.GUID).Pins[0].LinkedTo) != 0 {
		t.Error("Disconnect left a link behind")
	}
	if err := ed.Disconnect(PinRef{knot, "OutputPin"}, PinRef{branch.GUID, "execute"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second Disconnect error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestSetDefaultOnExecPin(t *testing.T) {
	ed := open(t, door(), Options{})
	if err := ed.SetDefault(PinRef{knot, "InputPin"}, "1"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetDefault error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestNodesAndSummary(t *testing.T) {
	ed := open(t, door(), Options{})

	want := []NodeSummary{
		{GUID: beginPlay, Class: "K2Node_Event", Title: "Event BeginPlay", Pins: 1},
		{GUID: knot, Class: "K2Node_Knot", X: 240, Pins: 2},
		{GUID: getHits, Class: "K2Node_VariableGet", Title: "Get Hits", Y: 160, Pins: 1},
	}
	if diff := cmp.Diff(want, ed.Nodes()); diff != "" {
		t.Errorf("Nodes() mismatch (-want +got):\n%s", diff)
	}

	wantSummary := Summary{
		Name:  "EventGraph",
		Type:  "EventGraph",
		GUID:  "0F7A3C5E1B9D4A2C8E6F0B4D2A8C6E1F",
		Nodes: 3,
		Links: 1,
		Classes: []ClassCount{
			{Class: "K2Node_Event", Count: 1},
			{Class: "K2Node_Knot", Count: 1},
			{Class: "K2Node_VariableGet", Count: 1},
		},
	}
	if diff := cmp.Diff(wantSummary, ed.Summary()); diff != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
	}
}
