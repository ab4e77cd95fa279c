package memberref

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/registry"
)

func TestResolvePrecedence(t *testing.T) {
	reg := registry.Builtin()
	actor := reg.FindClassByName("Actor")
	declared := func(name string) bool { return name == "Hits" || name == "OpenDoor" }
	local := func(name string) bool { return name == "Temp" }
	scope := Scope{Self: actor, Declared: declared, Local: local}

	tests := []struct {
		name     string
		ref      Ref
		scope    Scope
		origin   Origin
		function string
		wantErr  errors.Code
	}{
		{
			name:     "parent class function",
			ref:      Ref{MemberName: "PrintString", ParentClass: "/Script/Engine.KismetSystemLibrary"},
			scope:    scope,
			origin:   FromParentClass,
			function: "PrintString",
		},
		{
			name:     "parent class inherited function",
			ref:      Ref{MemberName: "ReceiveTick", ParentClass: "/Script/Engine.Pawn"},
			scope:    scope,
			origin:   FromParentClass,
			function: "ReceiveTick",
		},
		{
			name:    "parent class missing member",
			ref:     Ref{MemberName: "Nope", ParentClass: "/Script/Engine.Actor"},
			scope:   scope,
			wantErr: errors.ErrCodeUnresolved,
		},
		{
			name:    "unknown parent class",
			ref:     Ref{MemberName: "Foo", ParentClass: "/Script/Engine.Missing"},
			scope:   scope,
			wantErr: errors.ErrCodeUnresolved,
		},
		{
			name:     "self on owning class",
			ref:      Ref{MemberName: "K2_DestroyActor", IsSelf: true},
			scope:    scope,
			origin:   FromSelf,
			function: "K2_DestroyActor",
		},
		{
			name:   "self declared by blueprint",
			ref:    Ref{MemberName: "Hits", IsSelf: true},
			scope:  scope,
			origin: FromDeclared,
		},
		{
			name:    "self without owning class",
			ref:     Ref{MemberName: "K2_DestroyActor", IsSelf: true},
			scope:   Scope{},
			wantErr: errors.ErrCodeUnresolved,
		},
		{
			name:   "local scope",
			ref:    Ref{MemberName: "Temp", IsLocalScope: true},
			scope:  scope,
			origin: FromLocal,
		},
		{
			name:    "local scope missing",
			ref:     Ref{MemberName: "Other", IsLocalScope: true},
			scope:   scope,
			wantErr: errors.ErrCodeUnresolved,
		},
		{
			name:     "registry-wide scan",
			ref:      Ref{MemberName: "Add_IntInt"},
			scope:    Scope{},
			origin:   FromScan,
			function: "Add_IntInt",
		},
		{
			name:    "scan miss",
			ref:     Ref{MemberName: "DoesNotExist"},
			scope:   Scope{},
			wantErr: errors.ErrCodeUnresolved,
		},
		{
			name:    "empty name",
			ref:     Ref{},
			scope:   scope,
			wantErr: errors.ErrCodeMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(reg, tt.ref, tt.scope)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want code %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got.Origin != tt.origin {
				t.Errorf("Origin = %v, want %v", got.Origin, tt.origin)
			}
			if tt.function != "" && (got.Function == nil || got.Function.Name != tt.function) {
				t.Errorf("Function = %+v, want %s", got.Function, tt.function)
			}
		})
	}
}

func TestAmbiguousPrefersParentClass(t *testing.T) {
	reg := registry.Builtin()
	ref := Ref{MemberName: "PrintString", ParentClass: "/Script/Engine.KismetSystemLibrary", IsSelf: true}
	if !ref.Ambiguous() {
		t.Fatal("Ambiguous() = false, want true")
	}
	got, err := Resolve(reg, ref, Scope{Self: reg.FindClassByName("Actor")})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Origin != FromParentClass || got.Owner.Name != "KismetSystemLibrary" {
		t.Errorf("got origin %v owner %s", got.Origin, got.Owner.Name)
	}
}

func TestAmbiguous(t *testing.T) {
	tests := []struct {
		name string
		ref  Ref
		want bool
	}{
		{"none", Ref{MemberName: "Foo"}, false},
		{"parent only", Ref{MemberName: "Foo", ParentClass: "/Script/Engine.Actor"}, false},
		{"self only", Ref{MemberName: "Foo", IsSelf: true}, false},
		{"local only", Ref{MemberName: "Foo", IsLocalScope: true}, false},
		{"self and parent", Ref{MemberName: "Foo", ParentClass: "/Script/Engine.Actor", IsSelf: true}, true},
		{"local and parent", Ref{MemberName: "Foo", ParentClass: "/Script/Engine.Actor", IsLocalScope: true}, true},
		{"local and self", Ref{MemberName: "Foo", IsSelf: true, IsLocalScope: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Ambiguous(); got != tt.want {
				t.Errorf("Ambiguous() = %v, want %v (scopes %v)", got, tt.want, tt.ref.Scopes())
			}
		})
	}
}

func TestResolveProperty(t *testing.T) {
	reg := registry.Builtin()
	ref := Ref{MemberName: "Tags", IsSelf: true}
	got, err := Resolve(reg, ref, Scope{Self: reg.FindClassByName("Pawn")})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Property == nil || got.Property.Name != "Tags" {
		t.Errorf("Property = %+v", got.Property)
	}
	if _, err := ResolveFunction(reg, ref, Scope{Self: reg.FindClassByName("Pawn")}); !errors.Is(err, errors.ErrCodeUnresolved) {
		t.Errorf("ResolveFunction on property: err = %v", err)
	}
}

func TestResolveWithoutRegistry(t *testing.T) {
	_, err := Resolve(nil, Ref{MemberName: "PrintString", ParentClass: "/Script/Engine.KismetSystemLibrary"}, Scope{})
	if !errors.Is(err, errors.ErrCodeUnresolved) {
		t.Errorf("err = %v", err)
	}
	got, err := Resolve(nil, Ref{MemberName: "Hits"}, Scope{Declared: func(string) bool { return true }})
	if err != nil || got.Origin != FromDeclared {
		t.Errorf("declared without registry: %+v, %v", got, err)
	}
}

func TestRefJSON(t *testing.T) {
	data, err := json.Marshal(Ref{MemberName: "Hits", IsSelf: true})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"memberName":"Hits","isSelfContext":true,"isLocalScope":false,"isConstFunc":false}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"/Script/Engine.KismetSystemLibrary:PrintString", Ref{MemberName: "PrintString", ParentClass: "/Script/Engine.KismetSystemLibrary"}},
		{"/Script/Engine.KismetSystemLibrary.PrintString", Ref{MemberName: "PrintString", ParentClass: "/Script/Engine.KismetSystemLibrary"}},
		{"/Script/Engine.Actor", Ref{MemberName: "/Script/Engine.Actor"}},
		{"PrintString", Ref{MemberName: "PrintString"}},
	}
	for _, tt := range tests {
		if got := FromPath(tt.in); got != tt.want {
			t.Errorf("FromPath(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
