package schema

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// Version is the schema document format version.
const Version = "2.0.0"

// Schema is the schema document.
type Schema struct {
	EngineVersion string       `json:"engineVersion"`
	SchemaVersion string       `json:"schemaVersion"`
	NodeSchemas   []NodeSchema `json:"nodeSchemas"`
}

// NodeSchema describes one node kind.
type NodeSchema struct {
	NodeClass      string     `json:"nodeClass"`
	DisplayName    string     `json:"displayName"`
	Category       string     `json:"category"`
	Description    string     `json:"description,omitempty"`
	HasDynamicPins bool       `json:"hasDynamicPins"`
	IsLatent       bool       `json:"isLatent"`
	CanBePure      bool       `json:"canBePure"`
	Properties     []Property `json:"properties"`
}

// Property describes one field of a node kind.
type Property struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Requirement  string `json:"requirement"`
	Description  string `json:"description,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// Node returns the entry for nodeClass, or nil.
func (s *Schema) Node(nodeClass string) *NodeSchema {
	for i := range s.NodeSchemas {
		if s.NodeSchemas[i].NodeClass == nodeClass {
			return &s.NodeSchemas[i]
		}
	}
	return nil
}

// baseProperties are carried by every node kind.
var baseProperties = []Property{
	{Name: "NodeClass", Type: nodekind.TypeString, Requirement: string(nodekind.Required), Description: "The K2Node class name (e.g., 'K2Node_CallFunction')"},
	{Name: "NodeGuid", Type: nodekind.TypeString, Requirement: string(nodekind.Required), Description: "Unique identifier for this node instance"},
	{Name: "NodePosX", Type: nodekind.TypeInteger, Requirement: string(nodekind.Required), Description: "X position in the graph editor"},
	{Name: "NodePosY", Type: nodekind.TypeInteger, Requirement: string(nodekind.Required), Description: "Y position in the graph editor"},
	{Name: "NodeComment", Type: nodekind.TypeString, Requirement: string(nodekind.Optional), Description: "Developer comment for this node"},
}

// categoryOrder ranks categories. A class whose ancestor chain matches
// several kinds takes the earliest category.
var categoryOrder = []string{
	nodekind.CategoryFunctionCalls,
	nodekind.CategoryEvents,
	nodekind.CategoryVariables,
	nodekind.CategoryCasting,
	nodekind.CategoryFlowControl,
	nodekind.CategoryContainers,
	nodekind.CategoryStruct,
	nodekind.CategoryEnum,
	nodekind.CategoryDelegates,
	nodekind.CategoryTimeline,
	nodekind.CategoryMacros,
	nodekind.CategorySpawning,
	nodekind.CategoryInput,
	nodekind.CategoryTunnel,
	nodekind.CategoryFunctionDef,
	nodekind.CategoryUtility,
	nodekind.CategoryLiterals,
	nodekind.CategoryAsync,
	nodekind.CategoryOther,
}

var descriptions = map[string]string{
	"K2Node_CallFunction":        "Calls a function on an object or class.",
	"K2Node_Event":               "Entry point for an event in the Blueprint.",
	"K2Node_CustomEvent":         "A custom event that can be called from other Blueprints.",
	"K2Node_VariableGet":         "Gets the value of a variable.",
	"K2Node_VariableSet":         "Sets the value of a variable.",
	"K2Node_IfThenElse":          "Conditional branch - executes one path based on a boolean condition.",
	"K2Node_DynamicCast":         "Casts an object to a different type.",
	"K2Node_SpawnActorFromClass": "Spawns an actor of the specified class in the world.",
	"K2Node_Timeline":            "Plays a timeline for interpolating values over time.",
}

// Generate builds the schema of every concrete node class in reg.
func Generate(reg registry.Registry) *Schema {
	classes := reg.ConcreteNodeClasses()
	nodes := make([]NodeSchema, 0, len(classes))
	for _, c := range classes {
		nodes = append(nodes, Describe(reg, c))
	}
	slices.SortFunc(nodes, func(a, b NodeSchema) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.DisplayName, b.DisplayName),
			cmp.Compare(a.NodeClass, b.NodeClass),
		)
	})
	return &Schema{
		EngineVersion: reg.HostVersion(),
		SchemaVersion: Version,
		NodeSchemas:   nodes,
	}
}

// Describe builds the schema entry of one node class.
func Describe(reg registry.Registry, c *registry.Class) NodeSchema {
	families := lineage(reg, c)
	fam := nodekind.Unknown
	if len(families) > 0 {
		fam = families[0]
	}
	kind := nodekind.Lookup(fam)

	ns := NodeSchema{
		NodeClass:      c.Name,
		DisplayName:    DisplayName(c.Name),
		Category:       Category(reg, c),
		HasDynamicPins: kind.DynamicPins,
	}
	for _, f := range families {
		k := nodekind.Lookup(f)
		ns.IsLatent = ns.IsLatent || k.Latent
		ns.CanBePure = ns.CanBePure || k.CanBePure || k.AlwaysPure
	}
	ns.Description = describe(reg, c, ns.DisplayName)

	ns.Properties = make([]Property, 0, len(baseProperties)+len(kind.Fields))
	ns.Properties = append(ns.Properties, baseProperties...)
	for _, f := range kind.Fields {
		ns.Properties = append(ns.Properties, Property{
			Name:         f.Name,
			Type:         f.Type,
			Requirement:  string(f.Requirement),
			Description:  f.Description,
			DefaultValue: f.Default,
		})
	}
	return ns
}

// lineage returns the known kinds along c's ancestor chain, nearest first.
func lineage(reg registry.Registry, c *registry.Class) []nodekind.Family {
	var out []nodekind.Family
	for _, a := range registry.Ancestry(reg, c) {
		if f := nodekind.Of(a.Name); f != nodekind.Unknown {
			out = append(out, f)
		}
	}
	return out
}

// Category maps a node class onto its schema category.
func Category(reg registry.Registry, c *registry.Class) string {
	best := len(categoryOrder) - 1
	for _, f := range lineage(reg, c) {
		if i := slices.Index(categoryOrder, nodekind.Lookup(f).Category); i >= 0 && i < best {
			best = i
		}
	}
	return categoryOrder[best]
}

func describe(reg registry.Registry, c *registry.Class, display string) string {
	if tip, ok := reg.ClassMeta(c, "Tooltip"); ok && tip != "" {
		return tip
	}
	if d, ok := descriptions[c.Name]; ok {
		return d
	}
	return fmt.Sprintf("A %s node.", display)
}

// DisplayName turns a node class name into words:
// "K2Node_CallFunction" -> "Call Function", "K2Node_AIMoveTo" -> "AI Move To".
func DisplayName(className string) string {
	name := []rune(strings.TrimPrefix(className, nodekind.ClassPrefix))
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && wordStart(name, i) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// wordStart reports whether the upper-case rune at i begins a word: it
// follows a lower-case rune, or ends an acronym that a lower-case rune
// continues.
func wordStart(name []rune, i int) bool {
	if !unicode.IsUpper(name[i-1]) {
		return true
	}
	return i+1 < len(name) && unicode.IsLower(name[i+1])
}
