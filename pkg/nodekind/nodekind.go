// Package nodekind holds the node-kind table: which kind-specific fields a
// node class carries, which of them are required, and the computed flags
// (latent, can-be-pure, dynamic pins) and schema category of each kind.
//
// Dispatch is a flat match on the node class name. [Of] works from the name
// alone so documents can be checked without a registry; [OfClass] walks the
// registry ancestor chain so subclasses the table does not list inherit the
// kind of their nearest known ancestor.
package nodekind

import (
	"strings"

	"github.com/matzehuels/bpserial/pkg/registry"
)

// ClassPrefix is the prefix carried by node class names ("K2Node_CallFunction").
const ClassPrefix = "K2Node_"

// Family identifies a node kind.
type Family int

// Families in schema-category tie order. Families without kind-specific
// fields exist only to drive categories and flags.
const (
	Unknown Family = iota
	CallFunction
	Event
	CustomEvent
	VariableGet
	VariableSet
	DynamicCast
	ClassDynamicCast
	Switch
	SwitchEnum
	IfThenElse
	Select
	MakeArray
	MakeSet
	MakeMap
	GetArrayItem
	MakeStruct
	BreakStruct
	SetFieldsInStruct
	EnumLiteral
	CastByteToEnum
	ForEachElementInEnum
	CreateDelegate
	CallDelegate
	AddDelegate
	RemoveDelegate
	ClearDelegate
	Timeline
	MacroInstance
	SpawnActorFromClass
	ConstructObjectFromClass
	AddComponent
	InputAction
	InputKey
	InputTouch
	Tunnel
	FunctionEntry
	FunctionResult
	Knot
	Self
	Literal
	AsyncAction
	BaseAsyncTask
	LoadAsset
	FormatText
	GetDataTableRow
	ExecutionSequence
	MultiGate
	TemporaryVariable
)

// byName maps a class name (prefix stripped) to its family. Entries cover
// the classes the table names plus well-known subclasses, so that name
// dispatch works without a registry.
var byName = map[string]Family{
	"CallFunction":                         CallFunction,
	"CallParentFunction":                   CallFunction,
	"CallArrayFunction":                    CallFunction,
	"Message":                              CallFunction,
	"CommutativeAssociativeBinaryOperator": CallFunction,
	"PromotableOperator":                   CallFunction,
	"AddComponent":                         AddComponent,
	"Event":                                Event,
	"ComponentBoundEvent":                  Event,
	"ActorBoundEvent":                      Event,
	"InputActionEvent":                     Event,
	"InputAxisEvent":                       Event,
	"InputKeyEvent":                        Event,
	"CustomEvent":                          CustomEvent,
	"VariableGet":                          VariableGet,
	"VariableSet":                          VariableSet,
	"DynamicCast":                          DynamicCast,
	"ClassDynamicCast":                     ClassDynamicCast,
	"Switch":                               Switch,
	"SwitchInteger":                        Switch,
	"SwitchString":                         Switch,
	"SwitchName":                           Switch,
	"SwitchEnum":                           SwitchEnum,
	"IfThenElse":                           IfThenElse,
	"Select":                               Select,
	"MakeArray":                            MakeArray,
	"MakeSet":                              MakeSet,
	"MakeMap":                              MakeMap,
	"GetArrayItem":                         GetArrayItem,
	"MakeStruct":                           MakeStruct,
	"BreakStruct":                          BreakStruct,
	"SetFieldsInStruct":                    SetFieldsInStruct,
	"EnumLiteral":                          EnumLiteral,
	"CastByteToEnum":                       CastByteToEnum,
	"ForEachElementInEnum":                 ForEachElementInEnum,
	"CreateDelegate":                       CreateDelegate,
	"CallDelegate":                         CallDelegate,
	"AddDelegate":                          AddDelegate,
	"RemoveDelegate":                       RemoveDelegate,
	"ClearDelegate":                        ClearDelegate,
	"Timeline":                             Timeline,
	"MacroInstance":                        MacroInstance,
	"SpawnActorFromClass":                  SpawnActorFromClass,
	"ConstructObjectFromClass":             ConstructObjectFromClass,
	"InputAction":                          InputAction,
	"InputKey":                             InputKey,
	"InputTouch":                           InputTouch,
	"Tunnel":                               Tunnel,
	"Composite":                            Tunnel,
	"FunctionEntry":                        FunctionEntry,
	"FunctionResult":                       FunctionResult,
	"Knot":                                 Knot,
	"Self":                                 Self,
	"Literal":                              Literal,
	"AsyncAction":                          AsyncAction,
	"BaseAsyncTask":                        BaseAsyncTask,
	"LoadAsset":                            LoadAsset,
	"FormatText":                           FormatText,
	"GetDataTableRow":                      GetDataTableRow,
	"ExecutionSequence":                    ExecutionSequence,
	"MultiGate":                            MultiGate,
	"TemporaryVariable":                    TemporaryVariable,
}

// TrimPrefix strips the node class prefix: "K2Node_CallFunction" -> "CallFunction".
func TrimPrefix(nodeClass string) string {
	if i := strings.LastIndexAny(nodeClass, "./"); i >= 0 {
		nodeClass = nodeClass[i+1:]
	}
	return strings.TrimPrefix(nodeClass, ClassPrefix)
}

// Of dispatches on the node class name alone. Class paths are accepted.
func Of(nodeClass string) Family {
	return byName[TrimPrefix(nodeClass)]
}

// OfClass dispatches on c and, when c itself is not in the table, on its
// nearest ancestor that is.
func OfClass(r registry.Registry, c *registry.Class) Family {
	for _, a := range registry.Ancestry(r, c) {
		if f := Of(a.Name); f != Unknown {
			return f
		}
	}
	return Unknown
}

// Resolve dispatches on a node class name, consulting r for subclasses the
// table does not list. r may be nil.
func Resolve(r registry.Registry, nodeClass string) Family {
	if f := Of(nodeClass); f != Unknown || r == nil {
		return f
	}
	c := r.FindClassByName(TrimPrefix(nodeClass))
	if c == nil {
		c = r.FindClassByName(nodeClass)
	}
	if c == nil {
		return Unknown
	}
	return OfClass(r, c)
}

// IsEvent reports whether f is an event entry point (including custom events).
func (f Family) IsEvent() bool {
	return f == Event || f == CustomEvent
}

// IsCast reports whether f is an object or class cast.
func (f Family) IsCast() bool {
	return f == DynamicCast || f == ClassDynamicCast
}

// IsVariable reports whether f reads or writes a member variable.
func (f Family) IsVariable() bool {
	return f == VariableGet || f == VariableSet
}

// IsDelegate reports whether f operates on a delegate.
func (f Family) IsDelegate() bool {
	switch f {
	case CreateDelegate, CallDelegate, AddDelegate, RemoveDelegate, ClearDelegate:
		return true
	}
	return false
}
