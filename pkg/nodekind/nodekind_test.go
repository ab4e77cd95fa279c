package nodekind

import (
	"testing"

	"github.com/matzehuels/bpserial/pkg/registry"
)

func TestOf(t *testing.T) {
	tests := []struct {
		class string
		want  Family
	}{
		{"K2Node_CallFunction", CallFunction},
		{"CallFunction", CallFunction},
		{"/Script/BlueprintGraph.K2Node_CallFunction", CallFunction},
		{"K2Node_CallParentFunction", CallFunction},
		{"K2Node_CustomEvent", CustomEvent},
		{"K2Node_ComponentBoundEvent", Event},
		{"K2Node_SwitchInteger", Switch},
		{"K2Node_Composite", Tunnel},
		{"K2Node_Mystery", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := Of(tt.class); got != tt.want {
			t.Errorf("Of(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestResolveUsesAncestry(t *testing.T) {
	r := registry.Builtin()
	_ = r.AddClass(registry.Class{
		Name:  "K2Node_LatentGameplayTaskCall",
		Path:  "/Script/GameplayTasksEditor.K2Node_LatentGameplayTaskCall",
		Super: "/Script/BlueprintGraph.K2Node_BaseAsyncTask",
	})

	if got := Resolve(r, "K2Node_LatentGameplayTaskCall"); got != BaseAsyncTask {
		t.Errorf("Resolve = %v, want %v", got, BaseAsyncTask)
	}
	if got := Resolve(nil, "K2Node_LatentGameplayTaskCall"); got != Unknown {
		t.Errorf("Resolve without registry = %v, want Unknown", got)
	}
	if got := OfClass(r, r.FindClassByName("K2Node_PromotableOperator")); got != CallFunction {
		t.Errorf("OfClass(PromotableOperator) = %v, want CallFunction", got)
	}
}

func TestLookupTable(t *testing.T) {
	tests := []struct {
		family      Family
		category    string
		latent      bool
		canBePure   bool
		dynamicPins bool
		required    []string
	}{
		{CallFunction, CategoryFunctionCalls, false, true, true, []string{KeyFunctionReference}},
		{Event, CategoryEvents, false, false, true, []string{KeyEventReference}},
		{CustomEvent, CategoryEvents, false, false, true, []string{KeyCustomEventName}},
		{VariableGet, CategoryVariables, false, true, false, []string{KeyVariableReference}},
		{DynamicCast, CategoryCasting, false, true, false, []string{KeyTargetClass}},
		{SwitchEnum, CategoryFlowControl, false, false, true, []string{KeyEnumType}},
		{Timeline, CategoryTimeline, true, false, false, []string{KeyTimelineName}},
		{TemporaryVariable, CategoryOther, false, false, false, []string{KeyVariableName, KeyVariableType}},
		{LoadAsset, CategoryOther, true, false, false, nil},
		{FormatText, CategoryOther, false, false, true, nil},
		{Knot, CategoryUtility, false, false, false, nil},
		{Unknown, CategoryOther, false, false, false, nil},
	}
	for _, tt := range tests {
		k := Lookup(tt.family)
		if k.Category != tt.category {
			t.Errorf("%v: Category = %q, want %q", tt.family, k.Category, tt.category)
		}
		if k.Latent != tt.latent || k.CanBePure != tt.canBePure || k.DynamicPins != tt.dynamicPins {
			t.Errorf("%v: flags = (latent %v, pure %v, dynamic %v)", tt.family, k.Latent, k.CanBePure, k.DynamicPins)
		}
		var keys []string
		for _, f := range k.Required() {
			keys = append(keys, f.Key)
		}
		if len(keys) != len(tt.required) {
			t.Errorf("%v: required = %v, want %v", tt.family, keys, tt.required)
			continue
		}
		for i := range keys {
			if keys[i] != tt.required[i] {
				t.Errorf("%v: required = %v, want %v", tt.family, keys, tt.required)
			}
		}
	}
}

func TestEveryBuiltinNodeClassHasAFamily(t *testing.T) {
	r := registry.Builtin()
	for _, c := range r.ConcreteNodeClasses() {
		if OfClass(r, c) == Unknown {
			t.Errorf("%s has no family", c.Name)
		}
	}
}
