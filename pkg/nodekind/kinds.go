package nodekind

// Requirement classifies a kind-specific field.
type Requirement string

const (
	Required Requirement = "required"
	Optional Requirement = "optional"
	Computed Requirement = "computed"
)

// Field types as they appear in schema documents.
const (
	TypeString    = "string"
	TypeInteger   = "integer"
	TypeBoolean   = "boolean"
	TypeMemberRef = "MemberReference"
)

// Document keys of kind-specific fields.
const (
	KeyFunctionReference = "functionReference"
	KeyIsPure            = "isPure"
	KeyEventReference    = "eventReference"
	KeyCustomEventName   = "customEventName"
	KeyVariableReference = "variableReference"
	KeyTargetClass       = "targetClass"
	KeyIsPureCast        = "isPureCast"
	KeySpawnClass        = "spawnClass"
	KeyTimelineName      = "timelineName"
	KeyMacroReference    = "macroReference"
	KeyEnumType          = "enumType"
	KeyStructType        = "structType"
	KeyDelegateReference = "delegateReference"
	KeyInputActionName   = "inputActionName"
	KeyInputKey          = "inputKey"
	KeyFormatString      = "formatString"
	KeyDataTable         = "dataTable"
	KeyNumOutputPins     = "numOutputPins"
	KeyIsRandom          = "isRandom"
	KeyLoop              = "loop"
	KeyLiteralValue      = "literalValue"
	KeyVariableName      = "variableName"
	KeyVariableType      = "variableType"
	KeyFunctionName      = "functionName"
	KeyAssetClass        = "assetClass"
	KeyProxyClass        = "proxyClass"
)

// Field describes one kind-specific field.
type Field struct {
	Name        string // schema property name, e.g. "FunctionReference"
	Key         string // document key, e.g. "functionReference"
	Type        string
	Requirement Requirement
	Description string
	Default     string
}

// Kind is a row of the node-kind table.
type Kind struct {
	Family      Family
	Category    string
	Fields      []Field
	DynamicPins bool
	Latent      bool
	CanBePure   bool
	AlwaysPure  bool // pure regardless of the node's stored flag
}

// Required returns the fields a node of this kind must carry.
func (k Kind) Required() []Field {
	var out []Field
	for _, f := range k.Fields {
		if f.Requirement == Required {
			out = append(out, f)
		}
	}
	return out
}

// Schema categories.
const (
	CategoryFunctionCalls = "Function Calls"
	CategoryEvents        = "Events"
	CategoryVariables     = "Variables"
	CategoryCasting       = "Casting"
	CategoryFlowControl   = "Flow Control"
	CategoryContainers    = "Containers"
	CategoryStruct        = "Struct"
	CategoryEnum          = "Enum"
	CategoryDelegates     = "Delegates"
	CategoryTimeline      = "Timeline"
	CategoryMacros        = "Macros"
	CategorySpawning      = "Spawning"
	CategoryInput         = "Input"
	CategoryTunnel        = "Tunnel"
	CategoryFunctionDef   = "Function Definition"
	CategoryUtility       = "Utility"
	CategoryLiterals      = "Literals"
	CategoryAsync         = "Async/Latent"
	CategoryOther         = "Other"
)

var (
	functionRefField = Field{"FunctionReference", KeyFunctionReference, TypeMemberRef, Required, "Reference to the function being called", ""}
	nodePureField    = Field{"IsNodePure", KeyIsPure, TypeBoolean, Optional, "Whether this is a pure function call (no exec pins)", "false"}
	eventRefField    = Field{"EventReference", KeyEventReference, TypeMemberRef, Required, "Reference to the event signature", ""}
	customEventField = Field{"CustomEventName", KeyCustomEventName, TypeString, Required, "Name of the custom event", ""}
	variableRefField = Field{"VariableReference", KeyVariableReference, TypeMemberRef, Required, "Reference to the variable", ""}
	targetClassField = Field{"TargetClass", KeyTargetClass, TypeString, Required, "Class path to cast to (e.g., '/Script/Engine.Actor')", ""}
	pureCastField    = Field{"IsPureCast", KeyIsPureCast, TypeBoolean, Optional, "Whether this is a pure cast (no exec pins)", "false"}
	enumTypeField    = Field{"EnumType", KeyEnumType, TypeString, Required, "Path to the enum type", ""}
	structTypeField  = Field{"StructType", KeyStructType, TypeString, Required, "Path to the struct type (e.g., '/Script/CoreUObject.Vector')", ""}
	delegateField    = Field{"DelegateReference", KeyDelegateReference, TypeMemberRef, Required, "Reference to the delegate property", ""}
	outputPinsField  = Field{"NumOutputPins", KeyNumOutputPins, TypeInteger, Optional, "Number of execution output pins", "2"}
	proxyClassField  = Field{"ProxyClass", KeyProxyClass, TypeString, Optional, "Class of the async action proxy", ""}
)

var kinds = map[Family]Kind{
	CallFunction: {
		Category: CategoryFunctionCalls, CanBePure: true, DynamicPins: true,
		Fields: []Field{functionRefField, nodePureField},
	},
	AddComponent: {
		Category: CategorySpawning, DynamicPins: true,
		Fields: []Field{functionRefField},
	},
	Event: {
		Category: CategoryEvents, DynamicPins: true,
		Fields: []Field{eventRefField},
	},
	CustomEvent: {
		Category: CategoryEvents, DynamicPins: true,
		Fields: []Field{
			{"EventReference", KeyEventReference, TypeMemberRef, Optional, "Reference to the event signature", ""},
			customEventField,
		},
	},
	VariableGet: {
		Category: CategoryVariables, CanBePure: true, AlwaysPure: true,
		Fields: []Field{variableRefField},
	},
	VariableSet: {
		Category: CategoryVariables,
		Fields:   []Field{variableRefField},
	},
	DynamicCast: {
		Category: CategoryCasting, CanBePure: true,
		Fields: []Field{targetClassField, pureCastField},
	},
	ClassDynamicCast: {
		Category: CategoryCasting, CanBePure: true,
		Fields: []Field{targetClassField, pureCastField},
	},
	Switch:     {Category: CategoryFlowControl, DynamicPins: true},
	SwitchEnum: {Category: CategoryFlowControl, DynamicPins: true, Fields: []Field{enumTypeField}},
	IfThenElse: {Category: CategoryFlowControl},
	Select:     {Category: CategoryFlowControl, DynamicPins: true},
	MakeArray:  {Category: CategoryContainers, CanBePure: true, DynamicPins: true},
	MakeSet:    {Category: CategoryContainers, CanBePure: true, DynamicPins: true},
	MakeMap:    {Category: CategoryContainers, CanBePure: true, DynamicPins: true},
	GetArrayItem: {
		Category: CategoryContainers,
	},
	MakeStruct:        {Category: CategoryStruct, CanBePure: true, DynamicPins: true, Fields: []Field{structTypeField}},
	BreakStruct:       {Category: CategoryStruct, CanBePure: true, DynamicPins: true, Fields: []Field{structTypeField}},
	SetFieldsInStruct: {Category: CategoryStruct, CanBePure: true, DynamicPins: true, Fields: []Field{structTypeField}},
	EnumLiteral:       {Category: CategoryEnum, Fields: []Field{enumTypeField}},
	CastByteToEnum: {
		Category: CategoryEnum,
		Fields:   []Field{{"EnumType", KeyEnumType, TypeString, Optional, "Path to the enum type", ""}},
	},
	ForEachElementInEnum: {
		Category: CategoryEnum,
		Fields:   []Field{{"EnumType", KeyEnumType, TypeString, Optional, "Path to the enum type", ""}},
	},
	CreateDelegate: {
		Category: CategoryDelegates,
		Fields:   []Field{{"DelegateReference", KeyDelegateReference, TypeMemberRef, Required, "Reference to the function to bind to delegate", ""}},
	},
	CallDelegate:   {Category: CategoryDelegates, DynamicPins: true, Fields: []Field{delegateField}},
	AddDelegate:    {Category: CategoryDelegates, Fields: []Field{delegateField}},
	RemoveDelegate: {Category: CategoryDelegates, Fields: []Field{delegateField}},
	ClearDelegate:  {Category: CategoryDelegates, Fields: []Field{delegateField}},
	Timeline: {
		Category: CategoryTimeline, Latent: true,
		Fields: []Field{{"TimelineName", KeyTimelineName, TypeString, Required, "Name of the timeline in this Blueprint", ""}},
	},
	MacroInstance: {
		Category: CategoryMacros, DynamicPins: true,
		Fields: []Field{{"MacroReference", KeyMacroReference, TypeString, Required, "Path to the macro graph asset", ""}},
	},
	SpawnActorFromClass: {
		Category: CategorySpawning, DynamicPins: true,
		Fields: []Field{{"SpawnClass", KeySpawnClass, TypeString, Optional, "Class path of actor to spawn (can also be set via input pin)", ""}},
	},
	ConstructObjectFromClass: {
		Category: CategorySpawning, DynamicPins: true,
		Fields: []Field{{"SpawnClass", KeySpawnClass, TypeString, Optional, "Class path of object to construct", ""}},
	},
	InputAction: {
		Category: CategoryInput,
		Fields:   []Field{{"InputActionName", KeyInputActionName, TypeString, Required, "Name of the input action", ""}},
	},
	InputKey: {
		Category: CategoryInput,
		Fields:   []Field{{"InputKey", KeyInputKey, TypeString, Required, "The input key (e.g., 'SpaceBar', 'LeftMouseButton')", ""}},
	},
	InputTouch: {Category: CategoryInput},
	Tunnel:     {Category: CategoryTunnel, DynamicPins: true},
	FunctionEntry: {
		Category: CategoryFunctionDef, DynamicPins: true,
		Fields: []Field{{"FunctionName", KeyFunctionName, TypeString, Computed, "Name of the function (for custom functions)", ""}},
	},
	FunctionResult: {Category: CategoryFunctionDef, DynamicPins: true},
	Knot:           {Category: CategoryUtility},
	Self:           {Category: CategoryLiterals},
	Literal: {
		Category: CategoryLiterals,
		Fields:   []Field{{"LiteralValue", KeyLiteralValue, TypeString, Optional, "The literal value (object reference path)", ""}},
	},
	AsyncAction:   {Category: CategoryAsync, Latent: true, DynamicPins: true, Fields: []Field{proxyClassField}},
	BaseAsyncTask: {Category: CategoryAsync, Latent: true, DynamicPins: true, Fields: []Field{proxyClassField}},
	LoadAsset: {
		Category: CategoryOther, Latent: true,
		Fields: []Field{{"AssetClass", KeyAssetClass, TypeString, Optional, "Class of asset to load", ""}},
	},
	FormatText: {
		Category: CategoryOther, DynamicPins: true,
		Fields: []Field{{"FormatString", KeyFormatString, TypeString, Optional, "Format string with {Arg} placeholders", ""}},
	},
	GetDataTableRow: {
		Category: CategoryOther, DynamicPins: true,
		Fields: []Field{{"DataTable", KeyDataTable, TypeString, Optional, "Path to the data table asset", ""}},
	},
	ExecutionSequence: {
		Category: CategoryOther, DynamicPins: true,
		Fields: []Field{outputPinsField},
	},
	MultiGate: {
		Category: CategoryOther, DynamicPins: true,
		Fields: []Field{
			{"NumOutputPins", KeyNumOutputPins, TypeInteger, Optional, "Number of gate output pins", "2"},
			{"IsRandom", KeyIsRandom, TypeBoolean, Optional, "Whether to select random output", "false"},
			{"Loop", KeyLoop, TypeBoolean, Optional, "Whether to loop through outputs", "false"},
		},
	},
	TemporaryVariable: {
		Category: CategoryOther,
		Fields: []Field{
			{"VariableName", KeyVariableName, TypeString, Required, "Name of the local variable", ""},
			{"VariableType", KeyVariableType, TypeString, Required, "Type of the variable", ""},
		},
	},
}

// Lookup returns the table row for f. Unknown families get an empty row in
// the "Other" category.
func Lookup(f Family) Kind {
	k, ok := kinds[f]
	if !ok {
		return Kind{Family: f, Category: CategoryOther}
	}
	k.Family = f
	return k
}
