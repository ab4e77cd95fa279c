// Package memberref models symbolic references to functions, variables,
// events and delegates, and resolves them against a registry.
//
// # Resolution
//
// [Resolve] applies a fixed precedence:
//
//  1. A non-empty parent class: look the class up and search its function
//     and property tables (ancestors included) for the member name.
//  2. Self context: resolve against the caller-supplied owning class.
//  3. Local scope: resolve against the caller-supplied local scope.
//  4. Otherwise scan every registry class for a function of that name;
//     the first hit in registry order wins.
//
// A reference that sets more than one of parent class, self context and
// local scope is inconsistent. [Ref.Ambiguous] reports it, and resolution
// follows the precedence above.
package memberref

import (
	"strings"

	"github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// Ref is a symbolic member reference as stored in documents and on nodes.
type Ref struct {
	MemberName   string `json:"memberName"`
	MemberGUID   string `json:"memberGuid,omitempty"`
	ParentClass  string `json:"memberParentClass,omitempty"`
	IsSelf       bool   `json:"isSelfContext"`
	IsLocalScope bool   `json:"isLocalScope"`
	IsConstFunc  bool   `json:"isConstFunc"`
}

// IsZero reports whether r names nothing.
func (r Ref) IsZero() bool {
	return r == Ref{}
}

// Ambiguous reports whether r claims more than one scope: an explicit
// parent class, self context or local scope.
func (r Ref) Ambiguous() bool {
	n := 0
	for _, set := range []bool{r.ParentClass != "", r.IsSelf, r.IsLocalScope} {
		if set {
			n++
		}
	}
	return n > 1
}

// Scopes names the scopes r claims, in precedence order.
func (r Ref) Scopes() []string {
	var out []string
	if r.ParentClass != "" {
		out = append(out, "parent class "+r.ParentClass)
	}
	if r.IsSelf {
		out = append(out, "self context")
	}
	if r.IsLocalScope {
		out = append(out, "local scope")
	}
	return out
}

// Scope supplies the deferred parts of resolution. Any field may be nil.
type Scope struct {
	// Self is the class that owns the graph, used for self-context references.
	Self *registry.Class
	// Declared reports members declared by the blueprint itself (variables,
	// functions, custom events), which the registry does not know about.
	Declared func(name string) bool
	// Local reports members of the owning graph's local scope.
	Local func(name string) bool
}

// Origin says which precedence step resolved a reference.
type Origin int

const (
	FromParentClass Origin = iota + 1
	FromSelf
	FromDeclared
	FromLocal
	FromScan
)

// Target is a resolved reference. At most one of Function and Property is
// set; both are nil for declared and local members.
type Target struct {
	Origin   Origin
	Owner    *registry.Class
	Function *registry.Function
	Property *registry.Property
}

// Resolve resolves ref against reg and scope. reg may be nil, in which case
// only declared and local members resolve. Failure returns an *errors.Error
// with code UNRESOLVED_REFERENCE.
func Resolve(reg registry.Registry, ref Ref, scope Scope) (Target, error) {
	if ref.MemberName == "" {
		return Target{}, errors.New(errors.ErrCodeMissingField, "member reference has no name")
	}

	switch {
	case ref.ParentClass != "":
		if reg == nil {
			return Target{}, unresolved(ref)
		}
		owner := findClass(reg, ref.ParentClass)
		if owner == nil {
			return Target{}, errors.New(errors.ErrCodeUnresolved, "cannot resolve class %s", ref.ParentClass)
		}
		if t, ok := onClass(reg, owner, ref.MemberName); ok {
			t.Origin = FromParentClass
			return t, nil
		}
		return Target{}, unresolved(ref)

	case ref.IsSelf:
		if scope.Declared != nil && scope.Declared(ref.MemberName) {
			return Target{Origin: FromDeclared, Owner: scope.Self}, nil
		}
		if reg != nil && scope.Self != nil {
			if t, ok := onClass(reg, scope.Self, ref.MemberName); ok {
				t.Origin = FromSelf
				return t, nil
			}
		}
		return Target{}, unresolved(ref)

	case ref.IsLocalScope:
		if scope.Local != nil && scope.Local(ref.MemberName) {
			return Target{Origin: FromLocal}, nil
		}
		return Target{}, unresolved(ref)
	}

	if scope.Declared != nil && scope.Declared(ref.MemberName) {
		return Target{Origin: FromDeclared, Owner: scope.Self}, nil
	}
	if reg != nil {
		for _, c := range reg.Classes() {
			if fn := reg.FunctionOnClass(c, ref.MemberName, false); fn != nil {
				return Target{Origin: FromScan, Owner: c, Function: fn}, nil
			}
		}
	}
	return Target{}, unresolved(ref)
}

// ResolveFunction is Resolve restricted to functions: a reference that
// resolves to a property is reported as unresolved.
func ResolveFunction(reg registry.Registry, ref Ref, scope Scope) (Target, error) {
	t, err := Resolve(reg, ref, scope)
	if err != nil {
		return t, err
	}
	if t.Property != nil {
		return Target{}, unresolved(ref)
	}
	return t, nil
}

func onClass(reg registry.Registry, c *registry.Class, name string) (Target, bool) {
	if fn := reg.FunctionOnClass(c, name, true); fn != nil {
		return Target{Owner: c, Function: fn}, true
	}
	if p := reg.PropertyOnClass(c, name, true); p != nil {
		return Target{Owner: c, Property: p}, true
	}
	return Target{}, false
}

func findClass(reg registry.Registry, ref string) *registry.Class {
	if c := reg.ClassByPath(ref); c != nil {
		return c
	}
	return reg.FindClassByName(ref)
}

func unresolved(ref Ref) error {
	if ref.ParentClass != "" {
		return errors.New(errors.ErrCodeUnresolved, "cannot resolve %s in %s", ref.MemberName, ref.ParentClass)
	}
	return errors.New(errors.ErrCodeUnresolved, "cannot resolve %s", ref.MemberName)
}

// FromPath parses a function path such as
// "/Script/Engine.KismetSystemLibrary:PrintString" or
// "/Script/Engine.KismetSystemLibrary.PrintString" into a reference with a
// parent class. A bare name yields a reference without one.
func FromPath(path string) Ref {
	if i := strings.LastIndexByte(path, ':'); i >= 0 {
		return Ref{MemberName: path[i+1:], ParentClass: path[:i]}
	}
	slash := strings.LastIndexByte(path, '/')
	first := strings.IndexByte(path[slash+1:], '.')
	last := strings.LastIndexByte(path, '.')
	if first >= 0 && slash+1+first < last {
		return Ref{MemberName: path[last+1:], ParentClass: path[:last]}
	}
	return Ref{MemberName: path}
}
