package pintype

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bpserial/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"bool", Base("bool", "")},
		{"object:/Script/Engine.Actor", Base("object", "/Script/Engine.Actor")},
		{"byte:/Script/Engine.ECollisionChannel", Base("byte", "/Script/Engine.ECollisionChannel")},
		{"struct:Vector", Base("struct", "Vector")},
		{"int&", Base("int", "").Ref()},
		{"Array<int>", ArrayOf(Base("int", ""))},
		{"Set<name>", SetOf(Base("name", ""))},
		{"Map<name,float>", MapOf(Base("name", ""), Base("float", ""))},
		{"Map<int,Array<string>>", MapOf(Base("int", ""), ArrayOf(Base("string", "")))},
		{"Array<object:/Script/Engine.Actor>&", ArrayOf(Base("object", "/Script/Engine.Actor")).Ref()},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, cmp.Diff(tt.want, got))
			}
			if s := got.String(); s != tt.in {
				t.Errorf("String() = %q, want %q", s, tt.in)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"",
		"&",
		"Array<int",
		"Array<>",
		"Map<int>",
		"Map<int,>",
		"Set<int,int>",
		"int>",
		"int&&",
		"Array<int&>",
		"object:",
		"object:a,b",
		"object:Foo Bar",
		"in t",
		":Vector",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", in)
			}
			if !errors.Is(err, errors.ErrCodeMalformedType) {
				t.Errorf("Parse(%q) code = %v, want %v", in, errors.GetCode(err), errors.ErrCodeMalformedType)
			}
		})
	}
}

func TestRoundTripConstructed(t *testing.T) {
	types := []Type{
		Base("exec", ""),
		Base("class", "/Script/Engine.Pawn").Ref(),
		SetOf(Base("struct", "/Script/CoreUObject.Guid")),
		MapOf(Base("string", ""), MapOf(Base("int", ""), SetOf(Base("name", "")))),
	}
	for _, typ := range types {
		if err := typ.Valid(); err != nil {
			t.Fatalf("Valid(%s): %v", typ, err)
		}
		got, err := Parse(typ.String())
		if err != nil {
			t.Fatalf("Parse(%s): %v", typ, err)
		}
		if !got.Equal(typ) {
			t.Errorf("round trip of %s produced %s", typ, got)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		wantErr bool
	}{
		{"plain", Base("int", ""), false},
		{"empty category", Base("", ""), true},
		{"comma in sub-type", Base("object", "A,B"), true},
		{"angle in sub-type", Base("struct", "TArray<int>"), true},
		{"array without elem", Type{Container: Array}, true},
		{"map without value", Type{Container: Map, Elem: &Type{Category: "int"}}, true},
		{"nested ref", ArrayOf(Base("int", "").Ref()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Valid()
			if (err != nil) != tt.wantErr {
				t.Errorf("Valid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   Type
		want string
	}{
		{Base("object", "A,B"), "object"},
		{ArrayOf(Base("struct", "TMap<K,V>")), "Array<struct>"},
		{Type{Container: Map, Elem: &Type{Category: "int"}}, "Map<int,wildcard>"},
		{Base("", "x").Ref(), "wildcard:x&"},
	}
	for _, tt := range tests {
		got := tt.in.Sanitize()
		if got.String() != tt.want {
			t.Errorf("Sanitize(%s) = %s, want %s", tt.in, got, tt.want)
		}
		if err := got.Valid(); err != nil {
			t.Errorf("Sanitize(%s) is not valid: %v", tt.in, err)
		}
	}
}

func TestStringIsTotal(t *testing.T) {
	if got := (Type{Container: Array}).String(); got != "Array<>" {
		t.Errorf("String() = %q", got)
	}
	if got := (Type{}).String(); got != "" {
		t.Errorf("String() = %q", got)
	}
}
