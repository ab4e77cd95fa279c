package codec

import (
	"github.com/matzehuels/bpserial/pkg/blueprint"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
)

// attrString maps a string-valued kind field to its attribute.
func attrString(a *blueprint.Attributes, key string) *string {
	switch key {
	case nodekind.KeyCustomEventName:
		return &a.CustomEventName
	case nodekind.KeyTargetClass:
		return &a.TargetClass
	case nodekind.KeySpawnClass:
		return &a.SpawnClass
	case nodekind.KeyTimelineName:
		return &a.TimelineName
	case nodekind.KeyMacroReference:
		return &a.MacroReference
	case nodekind.KeyEnumType:
		return &a.EnumType
	case nodekind.KeyStructType:
		return &a.StructType
	case nodekind.KeyInputActionName:
		return &a.InputActionName
	case nodekind.KeyInputKey:
		return &a.InputKey
	case nodekind.KeyFormatString:
		return &a.FormatString
	case nodekind.KeyDataTable:
		return &a.DataTable
	case nodekind.KeyLiteralValue:
		return &a.LiteralValue
	case nodekind.KeyVariableName:
		return &a.VariableName
	case nodekind.KeyVariableType:
		return &a.VariableType
	case nodekind.KeyFunctionName:
		return &a.FunctionName
	case nodekind.KeyAssetClass:
		return &a.AssetClass
	case nodekind.KeyProxyClass:
		return &a.ProxyClass
	}
	return nil
}

// attrRef maps a member-reference kind field to its attribute.
func attrRef(a *blueprint.Attributes, key string) *memberref.Ref {
	switch key {
	case nodekind.KeyFunctionReference:
		return &a.Function
	case nodekind.KeyEventReference:
		return &a.Event
	case nodekind.KeyVariableReference:
		return &a.Variable
	case nodekind.KeyDelegateReference:
		return &a.Delegate
	}
	return nil
}

// exportField copies one kind field from a to dst. isPure is a common
// field and is handled by the caller.
func exportField(dst *document.Node, a *blueprint.Attributes, key string) {
	if r := attrRef(a, key); r != nil {
		if !r.IsZero() {
			cp := *r
			*dst.Ref(key) = &cp
		}
		return
	}
	switch key {
	case nodekind.KeyIsPureCast:
		dst.IsPureCast = a.PureCast
	case nodekind.KeyIsRandom:
		dst.IsRandom = a.IsRandom
	case nodekind.KeyLoop:
		dst.Loop = a.Loop
	case nodekind.KeyNumOutputPins:
		if a.NumOutputPins > 0 {
			n := a.NumOutputPins
			dst.NumOutputPins = &n
		}
	default:
		if s := attrString(a, key); s != nil {
			dst.SetField(key, *s)
		}
	}
}

// importField copies one kind field from src to a.
func importField(a *blueprint.Attributes, src *document.Node, key string) {
	if r := attrRef(a, key); r != nil {
		if p := *src.Ref(key); p != nil {
			*r = *p
		}
		return
	}
	switch key {
	case nodekind.KeyIsPureCast:
		a.PureCast = src.IsPureCast
	case nodekind.KeyIsRandom:
		a.IsRandom = src.IsRandom
	case nodekind.KeyLoop:
		a.Loop = src.Loop
	case nodekind.KeyNumOutputPins:
		if src.NumOutputPins != nil {
			a.NumOutputPins = *src.NumOutputPins
		}
	default:
		if s := attrString(a, key); s != nil {
			*s = src.Field(key)
		}
	}
}
