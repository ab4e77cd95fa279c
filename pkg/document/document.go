package document

import (
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
)

// SerializerVersion is the version stamped into every exported document.
const SerializerVersion = "2.0.0"

// Blueprint types.
const (
	TypeNormal          = "Normal"
	TypeConst           = "Const"
	TypeMacroLibrary    = "MacroLibrary"
	TypeInterface       = "Interface"
	TypeLevelScript     = "LevelScript"
	TypeFunctionLibrary = "FunctionLibrary"
)

// Graph types.
const (
	GraphEvent    = "EventGraph"
	GraphFunction = "Function"
	GraphMacro    = "Macro"
)

// Pin directions.
const (
	DirInput  = "input"
	DirOutput = "output"
)

// Replication conditions.
const (
	ReplicationNone      = "None"
	ReplicationReplicate = "Replicated"
	ReplicationRepNotify = "RepNotify"
)

// Document is the root of an exported blueprint.
type Document struct {
	Metadata              Metadata    `json:"metadata"`
	Variables             []Variable  `json:"variables"`
	EventGraphs           []Graph     `json:"eventGraphs"`
	Functions             []Function  `json:"functions"`
	Macros                []Graph     `json:"macros"`
	Components            []Component `json:"components"`
	ImplementedInterfaces []string    `json:"implementedInterfaces"`
	HardDependencies      []string    `json:"hardDependencies,omitempty"`
	SoftDependencies      []string    `json:"softDependencies,omitempty"`
}

// Metadata identifies the blueprint and the exporter.
type Metadata struct {
	BlueprintName      string `json:"blueprintName"`
	BlueprintPath      string `json:"blueprintPath"`
	BlueprintType      string `json:"blueprintType"`
	ParentClassPath    string `json:"parentClassPath"`
	GeneratedClassName string `json:"generatedClassName"`
	EngineVersion      string `json:"engineVersion"`
	SerializerVersion  string `json:"serializerVersion"`
	ExportTimestamp    string `json:"exportTimestamp"`
}

// Variable is a member variable, or a function parameter or return value.
type Variable struct {
	Name                 string            `json:"varName"`
	GUID                 string            `json:"varGuid"`
	Type                 string            `json:"varType"`
	Category             string            `json:"category"`
	DefaultValue         string            `json:"defaultValue"`
	IsExposed            bool              `json:"isExposed"`
	IsReadOnly           bool              `json:"isReadOnly"`
	ReplicationCondition string            `json:"replicationCondition"`
	Metadata             map[string]string `json:"metadata"`
}

// Function is a user function with its body graph.
type Function struct {
	Name         string     `json:"functionName"`
	GUID         string     `json:"functionGuid"`
	Parameters   []Variable `json:"parameters"`
	ReturnValues []Variable `json:"returnValues"`
	Graph        Graph      `json:"graph"`
	IsStatic     bool       `json:"isStatic"`
	IsPure       bool       `json:"isPure"`
	IsConst      bool       `json:"isConst"`
}

// Component is one entry of the component tree. Properties hold only the
// values the exporter could stringify.
type Component struct {
	Name       string            `json:"componentName"`
	Class      string            `json:"componentClass"`
	Parent     string            `json:"parentComponent"`
	Properties map[string]string `json:"properties"`
}

// Graph is an event graph, function body or macro body.
type Graph struct {
	Name  string `json:"graphName"`
	GUID  string `json:"graphGuid"`
	Type  string `json:"graphType"`
	Nodes []Node `json:"nodes"`
}

// Pin is a typed port of a node.
type Pin struct {
	ID           string   `json:"pinId"`
	Name         string   `json:"pinName"`
	Direction    string   `json:"direction"`
	Type         string   `json:"pinType"`
	DefaultValue string   `json:"defaultValue"`
	LinkedTo     []string `json:"linkedTo"`
}

// Node is a graph vertex: common fields followed by the node-kind payload.
// Which payload fields a node carries depends on its kind.
type Node struct {
	GUID     string `json:"nodeGuid"`
	Class    string `json:"nodeClass"`
	Title    string `json:"nodeTitle"`
	Comment  string `json:"nodeComment"`
	X        int    `json:"positionX"`
	Y        int    `json:"positionY"`
	Pins     []Pin  `json:"pins"`
	IsPure   bool   `json:"isPure"`
	IsLatent bool   `json:"isLatent"`

	FunctionReference *memberref.Ref `json:"functionReference,omitempty"`
	EventReference    *memberref.Ref `json:"eventReference,omitempty"`
	CustomEventName   string         `json:"customEventName,omitempty"`
	VariableReference *memberref.Ref `json:"variableReference,omitempty"`
	TargetClass       string         `json:"targetClass,omitempty"`
	IsPureCast        bool           `json:"isPureCast,omitempty"`
	SpawnClass        string         `json:"spawnClass,omitempty"`
	TimelineName      string         `json:"timelineName,omitempty"`
	MacroReference    string         `json:"macroReference,omitempty"`
	EnumType          string         `json:"enumType,omitempty"`
	StructType        string         `json:"structType,omitempty"`
	DelegateReference *memberref.Ref `json:"delegateReference,omitempty"`
	InputActionName   string         `json:"inputActionName,omitempty"`
	InputKey          string         `json:"inputKey,omitempty"`
	FormatString      string         `json:"formatString,omitempty"`
	DataTable         string         `json:"dataTable,omitempty"`
	NumOutputPins     *int           `json:"numOutputPins,omitempty"`
	IsRandom          bool           `json:"isRandom,omitempty"`
	Loop              bool           `json:"loop,omitempty"`
	LiteralValue      string         `json:"literalValue,omitempty"`
	VariableName      string         `json:"variableName,omitempty"`
	VariableType      string         `json:"variableType,omitempty"`
	FunctionName      string         `json:"functionName,omitempty"`
	AssetClass        string         `json:"assetClass,omitempty"`
	ProxyClass        string         `json:"proxyClass,omitempty"`

	// NodeSpecificData is the legacy side channel. Never written.
	NodeSpecificData map[string]string `json:"nodeSpecificData,omitempty"`
}

// Legacy side-channel keys.
const (
	LegacyFunctionReference = "FunctionReference"
	LegacyIsNodePure        = "IsNodePure"
	LegacyFunctionName      = "FunctionName"
)

// Normalized returns a copy of n with empty typed fields filled from the
// legacy side channel. Typed fields always win. The side channel itself is
// dropped from the copy.
func (n Node) Normalized() Node {
	if len(n.NodeSpecificData) == 0 {
		return n
	}
	legacy := n.NodeSpecificData
	n.NodeSpecificData = nil
	if n.FunctionReference == nil {
		if p := legacy[LegacyFunctionReference]; p != "" {
			ref := memberref.FromPath(p)
			n.FunctionReference = &ref
		}
	}
	if !n.IsPure && legacy[LegacyIsNodePure] == "true" {
		n.IsPure = true
	}
	if n.FunctionName == "" {
		n.FunctionName = legacy[LegacyFunctionName]
	}
	return n
}

// Has reports whether the node-kind field with the given document key is
// present. Boolean fields are always present.
func (n *Node) Has(key string) bool {
	switch key {
	case nodekind.KeyFunctionReference:
		return refSet(n.FunctionReference)
	case nodekind.KeyEventReference:
		return refSet(n.EventReference)
	case nodekind.KeyVariableReference:
		return refSet(n.VariableReference)
	case nodekind.KeyDelegateReference:
		return refSet(n.DelegateReference)
	case nodekind.KeyNumOutputPins:
		return n.NumOutputPins != nil
	case nodekind.KeyIsPure, nodekind.KeyIsPureCast, nodekind.KeyIsRandom, nodekind.KeyLoop:
		return true
	}
	return n.Field(key) != ""
}

func refSet(r *memberref.Ref) bool {
	return r != nil && r.MemberName != ""
}

// Field returns the string-valued node-kind field with the given document
// key, or "" for unknown keys and non-string fields.
func (n *Node) Field(key string) string {
	if p := n.stringField(key); p != nil {
		return *p
	}
	return ""
}

// SetField sets a string-valued node-kind field. It reports false for
// unknown keys and non-string fields.
func (n *Node) SetField(key, value string) bool {
	p := n.stringField(key)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (n *Node) stringField(key string) *string {
	switch key {
	case nodekind.KeyCustomEventName:
		return &n.CustomEventName
	case nodekind.KeyTargetClass:
		return &n.TargetClass
	case nodekind.KeySpawnClass:
		return &n.SpawnClass
	case nodekind.KeyTimelineName:
		return &n.TimelineName
	case nodekind.KeyMacroReference:
		return &n.MacroReference
	case nodekind.KeyEnumType:
		return &n.EnumType
	case nodekind.KeyStructType:
		return &n.StructType
	case nodekind.KeyInputActionName:
		return &n.InputActionName
	case nodekind.KeyInputKey:
		return &n.InputKey
	case nodekind.KeyFormatString:
		return &n.FormatString
	case nodekind.KeyDataTable:
		return &n.DataTable
	case nodekind.KeyLiteralValue:
		return &n.LiteralValue
	case nodekind.KeyVariableName:
		return &n.VariableName
	case nodekind.KeyVariableType:
		return &n.VariableType
	case nodekind.KeyFunctionName:
		return &n.FunctionName
	case nodekind.KeyAssetClass:
		return &n.AssetClass
	case nodekind.KeyProxyClass:
		return &n.ProxyClass
	}
	return nil
}

// Ref returns a pointer to the member-reference field with the given key,
// or nil for keys that are not member references.
func (n *Node) Ref(key string) **memberref.Ref {
	switch key {
	case nodekind.KeyFunctionReference:
		return &n.FunctionReference
	case nodekind.KeyEventReference:
		return &n.EventReference
	case nodekind.KeyVariableReference:
		return &n.VariableReference
	case nodekind.KeyDelegateReference:
		return &n.DelegateReference
	}
	return nil
}

// Graphs returns every graph of d in traversal order: event graphs,
// function bodies, then macros. The pointers alias d.
func (d *Document) Graphs() []*Graph {
	out := make([]*Graph, 0, len(d.EventGraphs)+len(d.Functions)+len(d.Macros))
	for i := range d.EventGraphs {
		out = append(out, &d.EventGraphs[i])
	}
	for i := range d.Functions {
		out = append(out, &d.Functions[i].Graph)
	}
	for i := range d.Macros {
		out = append(out, &d.Macros[i])
	}
	return out
}

// Graph returns the graph of d with the given name, searching event
// graphs, function bodies and macros in that order. An empty name selects
// the first graph. The pointer aliases d.
func (d *Document) Graph(name string) *Graph {
	for _, g := range d.Graphs() {
		if name == "" || g.Name == name {
			return g
		}
	}
	return nil
}

// DeclaredNames returns the members d declares itself: variables,
// functions, macros, components and custom events.
func (d *Document) DeclaredNames() map[string]bool {
	out := make(map[string]bool)
	for _, v := range d.Variables {
		out[v.Name] = true
	}
	for _, f := range d.Functions {
		out[f.Name] = true
	}
	for _, m := range d.Macros {
		out[m.Name] = true
	}
	for _, c := range d.Components {
		out[c.Name] = true
	}
	for _, g := range d.Graphs() {
		for _, n := range g.Nodes {
			if n.CustomEventName != "" {
				out[n.CustomEventName] = true
			}
		}
	}
	delete(out, "")
	return out
}

// NodeGUIDs returns the GUID of every node in every graph of d.
func (d *Document) NodeGUIDs() map[string]bool {
	out := make(map[string]bool)
	for _, g := range d.Graphs() {
		for _, n := range g.Nodes {
			out[n.GUID] = true
		}
	}
	return out
}

// Node returns the node with the given GUID, or nil.
func (g *Graph) Node(guid string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].GUID == guid {
			return &g.Nodes[i]
		}
	}
	return nil
}

// PinIDs returns the set of pin IDs declared in g.
func (g *Graph) PinIDs() map[string]bool {
	out := make(map[string]bool)
	for _, n := range g.Nodes {
		for _, p := range n.Pins {
			out[p.ID] = true
		}
	}
	return out
}
