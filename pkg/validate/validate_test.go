package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/bpserial/pkg/blueprint"
	"github.com/matzehuels/bpserial/pkg/codec"
	"github.com/matzehuels/bpserial/pkg/diag"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/pintype"
	"github.com/matzehuels/bpserial/pkg/registry"
)

func base(nodes ...document.Node) *document.Document {
	return &document.Document{
		Metadata: document.Metadata{
			BlueprintName:     "BP_Test",
			BlueprintPath:     "/Game/BP_Test",
			BlueprintType:     document.TypeNormal,
			ParentClassPath:   "/Script/Engine.Actor",
			SerializerVersion: document.SerializerVersion,
		},
		EventGraphs: []document.Graph{{Name: "EventGraph", Type: document.GraphEvent, Nodes: nodes}},
	}
}

func knot(guid string, pins ...document.Pin) document.Node {
	return document.Node{GUID: guid, Class: "K2Node_Knot", Pins: pins}
}

// pin names its pin after its ID.
func pin(id, dir string, links ...string) document.Pin {
	return document.Pin{ID: id, Name: id, Direction: dir, Type: "exec", LinkedTo: links}
}

func TestLinkClosure(t *testing.T) {
	closed := base(
		knot("N1", pin("P1", document.DirOutput, "P2")),
		knot("N2", pin("P2", document.DirInput)),
	)
	for _, reg := range []registry.Registry{nil, registry.Builtin()} {
		if res := Document(closed, reg); len(res.Issues) != 0 {
			t.Errorf("closed links: issues = %v", res.Issues)
		}
	}

	dangling := base(knot("N1", pin("P1", document.DirOutput, "P2")))
	res := Document(dangling, nil)
	if len(res.Issues) != 1 {
		t.Fatalf("issues = %v", res.Issues)
	}
	issue := res.Issues[0]
	if issue.Severity != diag.Warning || issue.Property != "P1" || !strings.Contains(issue.Message, "P2") {
		t.Errorf("issue = %+v", issue)
	}
	if !res.Valid() {
		t.Error("dangling link made the document invalid")
	}
}

func TestVersionMismatch(t *testing.T) {
	doc := base()
	doc.Metadata.SerializerVersion = "1.9.0"
	res := Document(doc, registry.Builtin())
	if len(res.Issues) != 1 || res.Issues[0].Severity != diag.Warning || !res.Valid() {
		t.Fatalf("issues = %v", res.Issues)
	}
	if want := "Version mismatch: JSON is 1.9.0, current is 2.0.0"; res.Issues[0].Message != want {
		t.Errorf("message = %q, want %q", res.Issues[0].Message, want)
	}
}

func TestEmptyDocument(t *testing.T) {
	res := Document(&document.Document{}, registry.Builtin())
	if !res.Valid() {
		t.Errorf("empty document invalid: %v", res.Issues)
	}
	res = Document(&document.Document{Metadata: document.Metadata{BlueprintName: "BP"}}, nil)
	if !res.Valid() || len(res.Issues) != 0 {
		t.Errorf("metadata-only document: %v", res.Issues)
	}
}

func TestBytes(t *testing.T) {
	res := Bytes([]byte(`{"metadata": [`), nil)
	if res.Valid() || len(res.Issues) != 1 || res.Issues[0].Code != errors.ErrCodeMalformedJSON {
		t.Errorf("issues = %v", res.Issues)
	}
	if res := Bytes([]byte(`{"metadata": {"blueprintName": "BP"}}`), nil); !res.Valid() {
		t.Errorf("issues = %v", res.Issues)
	}
}

func TestChecks(t *testing.T) {
	reg := registry.Builtin()
	tests := []struct {
		name    string
		mutate  func(*document.Document)
		offline bool
		sev     diag.Severity
		code    errors.Code
		message string
	}{
		{
			name:    "empty variable type",
			mutate:  func(d *document.Document) { d.Variables = []document.Variable{{Name: "Hits"}} },
			sev:     diag.Error,
			code:    errors.ErrCodeMissingField,
			message: "Variable 'Hits' has no type",
		},
		{
			name: "duplicate variable",
			mutate: func(d *document.Document) {
				d.Variables = []document.Variable{{Name: "A", Type: "int"}, {Name: "A", Type: "float"}}
			},
			sev:     diag.Error,
			code:    errors.ErrCodeDuplicate,
			message: "Duplicate variable name: A",
		},
		{
			name: "duplicate variable guid",
			mutate: func(d *document.Document) {
				d.Variables = []document.Variable{{Name: "A", GUID: "G", Type: "int"}, {Name: "B", GUID: "G", Type: "int"}}
			},
			sev:     diag.Error,
			code:    errors.ErrCodeDuplicate,
			message: "Duplicate variable GUID: G",
		},
		{
			name:    "malformed variable type",
			mutate:  func(d *document.Document) { d.Variables = []document.Variable{{Name: "A", Type: "Map<int>"}} },
			sev:     diag.Error,
			code:    errors.ErrCodeMalformedType,
			message: "Variable 'A' has malformed type",
		},
		{
			name: "duplicate parameter",
			mutate: func(d *document.Document) {
				d.Functions = []document.Function{{Name: "F",
					Parameters:   []document.Variable{{Name: "X", Type: "int"}},
					ReturnValues: []document.Variable{{Name: "X", Type: "int"}},
				}}
			},
			sev:     diag.Error,
			code:    errors.ErrCodeDuplicate,
			message: "Duplicate variable name: X in F",
		},
		{
			name:    "duplicate node guid",
			mutate:  func(d *document.Document) { d.EventGraphs[0].Nodes = []document.Node{knot("N1"), knot("N1")} },
			sev:     diag.Error,
			code:    errors.ErrCodeDuplicate,
			message: "Duplicate node GUID in graph",
		},
		{
			name:    "unresolvable parent",
			mutate:  func(d *document.Document) { d.Metadata.ParentClassPath = "/Script/Engine.Nope" },
			sev:     diag.Error,
			code:    errors.ErrCodeUnresolved,
			message: "Cannot resolve parent class: /Script/Engine.Nope",
		},
		{
			name:    "cast without target",
			mutate:  func(d *document.Document) { d.EventGraphs[0].Nodes = []document.Node{{GUID: "C", Class: "K2Node_DynamicCast"}} },
			sev:     diag.Error,
			code:    errors.ErrCodeMissingField,
			message: "Cast node has no target class",
		},
		{
			name: "cast to unknown class",
			mutate: func(d *document.Document) {
				d.EventGraphs[0].Nodes = []document.Node{{GUID: "C", Class: "K2Node_DynamicCast", TargetClass: "/Script/Engine.Nope"}}
			},
			sev:     diag.Error,
			code:    errors.ErrCodeUnresolved,
			message: "Cannot resolve target class",
		},
		{
			name: "unresolved call",
			mutate: func(d *document.Document) {
				d.EventGraphs[0].Nodes = []document.Node{{GUID: "F", Class: "K2Node_CallFunction",
					FunctionReference: &memberref.Ref{MemberName: "Nope", ParentClass: "/Script/Engine.Actor"}}}
			},
			sev:     diag.Warning,
			code:    errors.ErrCodeUnresolved,
			message: "Cannot resolve function: Nope in /Script/Engine.Actor",
		},
		{
			name:    "call without reference",
			mutate:  func(d *document.Document) { d.EventGraphs[0].Nodes = []document.Node{{GUID: "F", Class: "K2Node_CallFunction"}} },
			sev:     diag.Error,
			code:    errors.ErrCodeMissingField,
			message: "CallFunction node has no FunctionReference",
		},
		{
			name:    "variable get without reference",
			mutate:  func(d *document.Document) { d.EventGraphs[0].Nodes = []document.Node{{GUID: "V", Class: "K2Node_VariableGet"}} },
			sev:     diag.Error,
			code:    errors.ErrCodeMissingField,
			message: "VariableGet node has no variable reference",
		},
		{
			name:    "custom event without name",
			mutate:  func(d *document.Document) { d.EventGraphs[0].Nodes = []document.Node{{GUID: "E", Class: "K2Node_CustomEvent"}} },
			sev:     diag.Error,
			code:    errors.ErrCodeMissingField,
			message: "CustomEvent node has no event name",
		},
		{
			name: "ambiguous reference",
			mutate: func(d *document.Document) {
				d.EventGraphs[0].Nodes = []document.Node{{GUID: "F", Class: "K2Node_CallFunction",
					FunctionReference: &memberref.Ref{MemberName: "K2_DestroyActor", ParentClass: "/Script/Engine.Actor", IsSelf: true}}}
			},
			offline: true,
			sev:     diag.Warning,
			code:    errors.ErrCodeUnresolved,
			message: "claims several scopes: parent class /Script/Engine.Actor, self context",
		},
		{
			name: "duplicate macro",
			mutate: func(d *document.Document) {
				d.Macros = []document.Graph{{Name: "M", Type: document.GraphMacro}, {Name: "M", Type: document.GraphMacro}}
			},
			sev:     diag.Error,
			code:    errors.ErrCodeDuplicate,
			message: "Duplicate macro name: M",
		},
		{
			name:    "macro without name",
			mutate:  func(d *document.Document) { d.Macros = []document.Graph{{Type: document.GraphMacro}} },
			sev:     diag.Error,
			code:    errors.ErrCodeMissingField,
			message: "Macro has empty name",
		},
		{
			name:    "unknown node class",
			mutate:  func(d *document.Document) { d.EventGraphs[0].Nodes = []document.Node{{GUID: "X", Class: "K2Node_Bogus"}} },
			sev:     diag.Error,
			code:    errors.ErrCodeUnresolved,
			message: "Unknown node class: K2Node_Bogus",
		},
		{
			name: "malformed pin type",
			mutate: func(d *document.Document) {
				p := pin("P1", document.DirInput)
				p.Type = "Array<int,float>"
				d.EventGraphs[0].Nodes = []document.Node{knot("N", p)}
			},
			offline: true,
			sev:     diag.Error,
			code:    errors.ErrCodeMalformedType,
			message: "Pin P1 has malformed type",
		},
		{
			name: "invalid pin direction",
			mutate: func(d *document.Document) {
				d.EventGraphs[0].Nodes = []document.Node{knot("N", pin("P1", "sideways"))}
			},
			offline: true,
			sev:     diag.Error,
			code:    errors.ErrCodeInvalidInput,
			message: "invalid direction",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base()
			tt.mutate(doc)
			var r registry.Registry = reg
			if tt.offline {
				r = nil
			}
			res := Document(doc, r)
			if len(res.Issues) != 1 {
				t.Fatalf("issues = %v", res.Issues)
			}
			got := res.Issues[0]
			if got.Severity != tt.sev || got.Code != tt.code || !strings.Contains(got.Message, tt.message) {
				t.Errorf("issue = %+v", got)
			}
			if res.Valid() != (tt.sev != diag.Error) {
				t.Errorf("Valid() = %v", res.Valid())
			}
		})
	}
}

func TestOfflineSkipsResolution(t *testing.T) {
	doc := base(document.Node{GUID: "C", Class: "K2Node_DynamicCast", TargetClass: "/Script/Engine.Nope"})
	doc.Metadata.ParentClassPath = "/Script/Engine.Nope"
	if res := Document(doc, nil); len(res.Issues) != 0 {
		t.Errorf("offline issues = %v", res.Issues)
	}
}

func TestLegacyFunctionReference(t *testing.T) {
	doc := base(document.Node{
		GUID:             "F",
		Class:            "K2Node_CallFunction",
		NodeSpecificData: map[string]string{document.LegacyFunctionReference: "/Script/Engine.KismetSystemLibrary:PrintString"},
	})
	if res := Document(doc, registry.Builtin()); len(res.Issues) != 0 {
		t.Errorf("issues = %v", res.Issues)
	}
}

func TestSelfAndDeclaredReferences(t *testing.T) {
	doc := base(
		document.Node{GUID: "A", Class: "K2Node_CallFunction", FunctionReference: &memberref.Ref{MemberName: "K2_DestroyActor", IsSelf: true}},
		document.Node{GUID: "B", Class: "K2Node_CallFunction", FunctionReference: &memberref.Ref{MemberName: "Open", IsSelf: true}},
		document.Node{GUID: "C", Class: "K2Node_VariableGet", VariableReference: &memberref.Ref{MemberName: "Hits", IsSelf: true}},
		document.Node{GUID: "D", Class: "K2Node_VariableGet", VariableReference: &memberref.Ref{MemberName: "Tags", IsSelf: true}},
	)
	doc.Variables = []document.Variable{{Name: "Hits", Type: "int"}}
	doc.Functions = []document.Function{{Name: "Open"}}
	if res := Document(doc, registry.Builtin()); len(res.Issues) != 0 {
		t.Errorf("issues = %v", res.Issues)
	}
}

// Documents produced by the encoder validate without errors.
func TestEncodedDocumentsValidate(t *testing.T) {
	reg := registry.Builtin()
	bp := blueprint.New("/Game/BP_Door", "BP_Door", blueprint.Normal, blueprint.DefaultParentClass)
	_ = bp.AddVariable(&blueprint.Variable{Name: "Hits", Type: pintype.Base(pintype.CategoryInt, "")})
	g := bp.EventGraphs[0]
	begin, err := blueprint.AddDefaultEvent(reg, bp, g, "ReceiveBeginPlay", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	get := &blueprint.Node{GUID: blueprint.NewGUID(), Class: "K2Node_VariableGet",
		Attrs: blueprint.Attributes{Variable: memberref.Ref{MemberName: "Hits", IsSelf: true}}}
	get.Pins = []*blueprint.Pin{{Name: "Hits", Direction: blueprint.Output, Type: pintype.Base(pintype.CategoryInt, "")}}
	delay := &blueprint.Node{GUID: blueprint.NewGUID(), Class: "K2Node_CallFunction",
		Attrs: blueprint.Attributes{Function: memberref.Ref{MemberName: "Delay", ParentClass: "/Script/Engine.KismetSystemLibrary"}}}
	blueprint.AllocateDefaultPins(reg, nil, delay)
	for _, n := range []*blueprint.Node{get, delay} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.Link(begin.Pin(blueprint.PinThen, blueprint.Output), delay.Pin(blueprint.PinExecute, blueprint.Input))

	doc := codec.Encode(bp, reg, codec.EncodeOptions{Now: time.Now})
	res := Document(doc, reg)
	if !res.Valid() {
		t.Errorf("encoded document invalid: %v", res.Issues)
	}
}

// A document the validator accepts decodes without errors.
func TestValidDocumentsDecode(t *testing.T) {
	reg := registry.Builtin()
	graph := func() document.Graph {
		return document.Graph{Name: "EventGraph", Type: document.GraphEvent, Nodes: []document.Node{
			knot("N1", pin("P1", document.DirOutput, "P2")),
			knot("N2", pin("P2", document.DirInput)),
		}}
	}
	tests := []struct {
		name   string
		mutate func(*document.Document)
	}{
		{
			name: "duplicate macros",
			mutate: func(d *document.Document) {
				d.Macros = []document.Graph{{Name: "M", Type: document.GraphMacro}, {Name: "M", Type: document.GraphMacro}}
			},
		},
		{
			name:   "same-named event graphs",
			mutate: func(d *document.Document) { d.EventGraphs = []document.Graph{graph(), graph()} },
		},
		{
			name: "call to a custom event in another graph",
			mutate: func(d *document.Document) {
				d.Functions = []document.Function{{Name: "F", Graph: document.Graph{Name: "F", Type: document.GraphFunction, Nodes: []document.Node{{
					GUID: "C1", Class: "K2Node_CallFunction", FunctionReference: &memberref.Ref{MemberName: "Ping", IsSelf: true},
				}}}}}
				d.EventGraphs[0].Nodes = []document.Node{{GUID: "E1", Class: "K2Node_CustomEvent", CustomEventName: "Ping"}}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base()
			tt.mutate(doc)
			res := Document(doc, reg)
			_, diags := codec.Decode(doc, "/Game/BP_Test", "", reg)
			if res.Valid() && diags.HasErrors() {
				t.Errorf("valid document decoded with errors: %v", diags)
			}
		})
	}
}
