package registry

// DefaultHostVersion is reported by [Builtin] registries until a snapshot
// overrides it.
const DefaultHostVersion = "5.4.0"

const (
	graphPackage  = "/Script/BlueprintGraph."
	enginePackage = "/Script/Engine."
	corePackage   = "/Script/CoreUObject."
)

// nodeClass describes a builtin node class: name, parent name, abstract flag.
type nodeClass struct {
	name     string
	super    string
	abstract bool
}

var builtinNodeClasses = []nodeClass{
	{"K2Node", "", true},
	{"K2Node_EditablePinBase", "K2Node", true},
	{"K2Node_CallFunction", "K2Node", false},
	{"K2Node_CallParentFunction", "K2Node_CallFunction", false},
	{"K2Node_CallArrayFunction", "K2Node_CallFunction", false},
	{"K2Node_Message", "K2Node_CallFunction", false},
	{"K2Node_CommutativeAssociativeBinaryOperator", "K2Node_CallFunction", false},
	{"K2Node_PromotableOperator", "K2Node_CommutativeAssociativeBinaryOperator", false},
	{"K2Node_AddComponent", "K2Node_CallFunction", false},
	{"K2Node_Event", "K2Node_EditablePinBase", false},
	{"K2Node_CustomEvent", "K2Node_Event", false},
	{"K2Node_ComponentBoundEvent", "K2Node_Event", false},
	{"K2Node_ActorBoundEvent", "K2Node_Event", false},
	{"K2Node_FunctionTerminator", "K2Node_EditablePinBase", true},
	{"K2Node_FunctionEntry", "K2Node_FunctionTerminator", false},
	{"K2Node_FunctionResult", "K2Node_FunctionTerminator", false},
	{"K2Node_Tunnel", "K2Node_EditablePinBase", false},
	{"K2Node_MacroInstance", "K2Node_Tunnel", false},
	{"K2Node_Composite", "K2Node_Tunnel", false},
	{"K2Node_Variable", "K2Node", true},
	{"K2Node_VariableGet", "K2Node_Variable", false},
	{"K2Node_VariableSet", "K2Node_Variable", false},
	{"K2Node_TemporaryVariable", "K2Node", false},
	{"K2Node_DynamicCast", "K2Node", false},
	{"K2Node_ClassDynamicCast", "K2Node_DynamicCast", false},
	{"K2Node_Switch", "K2Node", true},
	{"K2Node_SwitchEnum", "K2Node_Switch", false},
	{"K2Node_SwitchInteger", "K2Node_Switch", false},
	{"K2Node_SwitchString", "K2Node_Switch", false},
	{"K2Node_SwitchName", "K2Node_Switch", false},
	{"K2Node_IfThenElse", "K2Node", false},
	{"K2Node_Select", "K2Node", false},
	{"K2Node_ExecutionSequence", "K2Node", false},
	{"K2Node_MultiGate", "K2Node_ExecutionSequence", false},
	{"K2Node_MakeContainer", "K2Node", true},
	{"K2Node_MakeArray", "K2Node_MakeContainer", false},
	{"K2Node_MakeSet", "K2Node_MakeContainer", false},
	{"K2Node_MakeMap", "K2Node_MakeContainer", false},
	{"K2Node_GetArrayItem", "K2Node", false},
	{"K2Node_StructOperation", "K2Node_Variable", true},
	{"K2Node_StructMemberGet", "K2Node_StructOperation", true},
	{"K2Node_StructMemberSet", "K2Node_StructOperation", true},
	{"K2Node_BreakStruct", "K2Node_StructMemberGet", false},
	{"K2Node_MakeStruct", "K2Node_StructMemberSet", false},
	{"K2Node_SetFieldsInStruct", "K2Node_MakeStruct", false},
	{"K2Node_EnumLiteral", "K2Node", false},
	{"K2Node_CastByteToEnum", "K2Node", false},
	{"K2Node_ForEachElementInEnum", "K2Node", false},
	{"K2Node_CreateDelegate", "K2Node", false},
	{"K2Node_BaseMCDelegate", "K2Node", true},
	{"K2Node_AddDelegate", "K2Node_BaseMCDelegate", false},
	{"K2Node_RemoveDelegate", "K2Node_BaseMCDelegate", false},
	{"K2Node_ClearDelegate", "K2Node_BaseMCDelegate", false},
	{"K2Node_CallDelegate", "K2Node_BaseMCDelegate", false},
	{"K2Node_Timeline", "K2Node", false},
	{"K2Node_ConstructObjectFromClass", "K2Node", false},
	{"K2Node_SpawnActorFromClass", "K2Node_ConstructObjectFromClass", false},
	{"K2Node_InputAction", "K2Node", false},
	{"K2Node_InputKey", "K2Node", false},
	{"K2Node_InputTouch", "K2Node", false},
	{"K2Node_FormatText", "K2Node", false},
	{"K2Node_GetDataTableRow", "K2Node", false},
	{"K2Node_Knot", "K2Node", false},
	{"K2Node_Self", "K2Node", false},
	{"K2Node_Literal", "K2Node", false},
	{"K2Node_LoadAsset", "K2Node", false},
	{"K2Node_BaseAsyncTask", "K2Node", false},
	{"K2Node_AsyncAction", "K2Node_BaseAsyncTask", false},
}

var builtinEngineClasses = []Class{
	{Name: "Object", Path: corePackage + "Object"},
	{
		Name: "Actor", Path: enginePackage + "Actor", Super: corePackage + "Object",
		Functions: []Function{
			{Name: "ReceiveBeginPlay", Event: true},
			{Name: "ReceiveEndPlay", Event: true, Params: []Param{{Name: "EndPlayReason", Type: "byte:/Script/Engine.EEndPlayReason"}}},
			{Name: "ReceiveTick", Event: true, Params: []Param{{Name: "DeltaSeconds", Type: "float"}}},
			{Name: "ReceiveActorBeginOverlap", Event: true, Params: []Param{{Name: "OtherActor", Type: "object:/Script/Engine.Actor"}}},
			{Name: "ReceiveDestroyed", Event: true},
			{Name: "K2_DestroyActor"},
			{Name: "K2_GetActorLocation", Pure: true, Const: true, Params: []Param{{Name: "ReturnValue", Type: "struct:/Script/CoreUObject.Vector", Output: true}}},
			{Name: "K2_SetActorLocation", Params: []Param{
				{Name: "NewLocation", Type: "struct:/Script/CoreUObject.Vector"},
				{Name: "bSweep", Type: "bool"},
				{Name: "ReturnValue", Type: "bool", Output: true},
			}},
			{Name: "GetComponentByClass", Pure: true, Const: true, Params: []Param{
				{Name: "ComponentClass", Type: "class:/Script/Engine.ActorComponent"},
				{Name: "ReturnValue", Type: "object:/Script/Engine.ActorComponent", Output: true},
			}},
		},
		Properties: []Property{
			{Name: "Tags", Type: "Array<name>"},
			{Name: "OnDestroyed", Type: "delegate", Delegate: true},
		},
	},
	{
		Name: "Pawn", Path: enginePackage + "Pawn", Super: enginePackage + "Actor",
		Functions: []Function{
			{Name: "ReceivePossessed", Event: true, Params: []Param{{Name: "NewController", Type: "object:/Script/Engine.Controller"}}},
			{Name: "GetController", Pure: true, Const: true, Params: []Param{{Name: "ReturnValue", Type: "object:/Script/Engine.Controller", Output: true}}},
		},
	},
	{Name: "Character", Path: enginePackage + "Character", Super: enginePackage + "Pawn"},
	{Name: "Controller", Path: enginePackage + "Controller", Super: enginePackage + "Actor"},
	{Name: "PlayerController", Path: enginePackage + "PlayerController", Super: enginePackage + "Controller"},
	{Name: "GameModeBase", Path: enginePackage + "GameModeBase", Super: enginePackage + "Actor"},
	{Name: "ActorComponent", Path: enginePackage + "ActorComponent", Super: corePackage + "Object",
		Functions: []Function{{Name: "ReceiveBeginPlay", Event: true}},
	},
	{Name: "SceneComponent", Path: enginePackage + "SceneComponent", Super: enginePackage + "ActorComponent"},
	{Name: "PrimitiveComponent", Path: enginePackage + "PrimitiveComponent", Super: enginePackage + "SceneComponent"},
	{Name: "StaticMeshComponent", Path: enginePackage + "StaticMeshComponent", Super: enginePackage + "PrimitiveComponent"},
	{Name: "BlueprintFunctionLibrary", Path: enginePackage + "BlueprintFunctionLibrary", Super: corePackage + "Object", Abstract: true},
	{
		Name: "KismetSystemLibrary", Path: enginePackage + "KismetSystemLibrary", Super: enginePackage + "BlueprintFunctionLibrary",
		Functions: []Function{
			{Name: "PrintString", Static: true, Params: []Param{
				{Name: "InString", Type: "string"},
				{Name: "bPrintToScreen", Type: "bool"},
				{Name: "Duration", Type: "float"},
			}},
			{Name: "Delay", Static: true, Latent: true, Params: []Param{{Name: "Duration", Type: "float"}}},
			{Name: "IsValid", Static: true, Pure: true, Params: []Param{
				{Name: "Object", Type: "object:/Script/CoreUObject.Object"},
				{Name: "ReturnValue", Type: "bool", Output: true},
			}},
		},
	},
	{
		Name: "KismetMathLibrary", Path: enginePackage + "KismetMathLibrary", Super: enginePackage + "BlueprintFunctionLibrary",
		Functions: []Function{
			{Name: "Add_IntInt", Static: true, Pure: true, Params: []Param{
				{Name: "A", Type: "int"},
				{Name: "B", Type: "int"},
				{Name: "ReturnValue", Type: "int", Output: true},
			}},
			{Name: "RandomFloatInRange", Static: true, Pure: true, Params: []Param{
				{Name: "Min", Type: "float"},
				{Name: "Max", Type: "float"},
				{Name: "ReturnValue", Type: "float", Output: true},
			}},
		},
	},
	{
		Name: "GameplayStatics", Path: enginePackage + "GameplayStatics", Super: enginePackage + "BlueprintFunctionLibrary",
		Functions: []Function{
			{Name: "GetPlayerController", Static: true, Pure: true, Params: []Param{
				{Name: "PlayerIndex", Type: "int"},
				{Name: "ReturnValue", Type: "object:/Script/Engine.PlayerController", Output: true},
			}},
		},
	},
}

var builtinStructs = []Struct{
	{Name: "Vector", Path: corePackage + "Vector", Fields: []Property{{Name: "X", Type: "double"}, {Name: "Y", Type: "double"}, {Name: "Z", Type: "double"}}},
	{Name: "Rotator", Path: corePackage + "Rotator", Fields: []Property{{Name: "Pitch", Type: "double"}, {Name: "Yaw", Type: "double"}, {Name: "Roll", Type: "double"}}},
	{Name: "Transform", Path: corePackage + "Transform"},
	{Name: "Guid", Path: corePackage + "Guid"},
}

var builtinEnums = []Enum{
	{Name: "EEndPlayReason", Path: enginePackage + "EEndPlayReason", Values: []string{"Destroyed", "LevelTransition", "EndPlayInEditor", "RemovedFromWorld", "Quit"}},
	{Name: "ECollisionChannel", Path: enginePackage + "ECollisionChannel"},
}

// nodeTooltips are the tooltip metadata shipped on builtin node classes.
var nodeTooltips = map[string]string{
	"K2Node_Knot":         "Reroute node for organising wires.",
	"K2Node_MakeArray":    "Create an array from a series of items.",
	"K2Node_IfThenElse":   "Branch Statement\nIf Condition is true, execution goes to True, otherwise it goes to False",
	"K2Node_GetArrayItem": "Given an array and an index, returns the item found at that index",
}

// Builtin returns a registry populated with the standard graph node classes
// and a small set of engine classes, structs and enums.
func Builtin() *Memory {
	m := New(DefaultHostVersion)
	for _, c := range builtinEngineClasses {
		_ = m.AddClass(c)
	}
	for _, n := range builtinNodeClasses {
		c := Class{Name: n.name, Path: graphPackage + n.name, Abstract: n.abstract}
		if n.super != "" {
			c.Super = graphPackage + n.super
		} else {
			c.Super = enginePackage + "EdGraphNode"
		}
		if tip, ok := nodeTooltips[n.name]; ok {
			c.Meta = map[string]string{"Tooltip": tip}
		}
		_ = m.AddClass(c)
	}
	_ = m.AddClass(Class{Name: "EdGraphNode", Path: enginePackage + "EdGraphNode", Super: corePackage + "Object"})
	for _, s := range builtinStructs {
		m.AddStruct(s)
	}
	for _, e := range builtinEnums {
		m.AddEnum(e)
	}
	return m
}
