package blueprint

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/pintype"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// ErrNotOverridable is returned by [AddDefaultEvent] when the parent class
// declares no overridable event of the requested name.
var ErrNotOverridable = errors.New("event is not overridable")

// Well-known pin names.
const (
	PinExecute     = "execute"
	PinThen        = "then"
	PinSelf        = "self"
	PinReturnValue = "ReturnValue"
)

var execType = pintype.Base(pintype.CategoryExec, "")

// AllocateDefaultPins appends the pins n's kind derives from its
// reference: function signatures, event parameters, struct fields and
// output counts. Kinds whose pins do not depend on a reference, and
// references that do not resolve, get no pins. reg may be nil.
func AllocateDefaultPins(reg registry.Registry, self *registry.Class, n *Node) {
	scope := memberref.Scope{Self: self}
	switch f := n.Family(); f {
	case nodekind.CallFunction, nodekind.AddComponent:
		t, err := memberref.ResolveFunction(reg, n.Attrs.Function, scope)
		if err != nil || t.Function == nil {
			return
		}
		fn := t.Function
		if !fn.Pure {
			addPins(n, exec(Input, PinExecute), exec(Output, PinThen))
		}
		if !fn.Static && t.Owner != nil {
			addPins(n, &Pin{Name: PinSelf, Direction: Input, Type: pintype.Base(pintype.CategoryObject, t.Owner.Path)})
		}
		addParams(n, fn.Params, false)

	case nodekind.Event:
		addPins(n, exec(Output, PinThen))
		t, err := memberref.ResolveFunction(reg, n.Attrs.Event, scope)
		if err == nil && t.Function != nil {
			addParams(n, t.Function.Params, true)
		}

	case nodekind.CustomEvent:
		addPins(n, exec(Output, PinThen))

	case nodekind.FunctionEntry, nodekind.Tunnel:
		addPins(n, exec(Output, PinThen))

	case nodekind.FunctionResult:
		addPins(n, exec(Input, PinExecute))

	case nodekind.ExecutionSequence, nodekind.MultiGate:
		addPins(n, exec(Input, PinExecute))
		count := n.Attrs.NumOutputPins
		if count <= 0 {
			count = 2
		}
		prefix := "then_"
		if f == nodekind.MultiGate {
			prefix = "Out_"
			addPins(n, exec(Input, "Reset"))
		}
		for i := 0; i < count; i++ {
			addPins(n, exec(Output, prefix+strconv.Itoa(i)))
		}

	case nodekind.MakeStruct, nodekind.BreakStruct, nodekind.SetFieldsInStruct:
		if reg == nil {
			return
		}
		s := reg.StructByPath(n.Attrs.StructType)
		if s == nil {
			return
		}
		whole := pintype.Base(pintype.CategoryStruct, s.Path)
		fieldDir := Input
		switch f {
		case nodekind.MakeStruct:
			addPins(n, &Pin{Name: s.Name, Direction: Output, Type: whole})
		case nodekind.BreakStruct:
			addPins(n, &Pin{Name: s.Name, Direction: Input, Type: whole.Ref()})
			fieldDir = Output
		default:
			addPins(n, exec(Input, PinExecute), exec(Output, PinThen),
				&Pin{Name: "StructRef", Direction: Input, Type: whole.Ref()})
		}
		for _, fld := range s.Fields {
			typ, err := pintype.Parse(fld.Type)
			if err != nil {
				continue
			}
			addPins(n, &Pin{Name: fld.Name, Direction: fieldDir, Type: typ})
		}

	case nodekind.SpawnActorFromClass:
		addPins(n,
			exec(Input, PinExecute), exec(Output, PinThen),
			&Pin{Name: "Class", Direction: Input, Type: pintype.Base(pintype.CategoryClass, DefaultParentClass)},
			&Pin{Name: "SpawnTransform", Direction: Input, Type: pintype.Base(pintype.CategoryStruct, "/Script/CoreUObject.Transform").Ref()},
			&Pin{Name: PinReturnValue, Direction: Output, Type: pintype.Base(pintype.CategoryObject, classOr(n.Attrs.SpawnClass, DefaultParentClass))},
		)

	case nodekind.ConstructObjectFromClass:
		addPins(n,
			exec(Input, PinExecute), exec(Output, PinThen),
			&Pin{Name: "Class", Direction: Input, Type: pintype.Base(pintype.CategoryClass, "/Script/CoreUObject.Object")},
			&Pin{Name: PinReturnValue, Direction: Output, Type: pintype.Base(pintype.CategoryObject, classOr(n.Attrs.SpawnClass, "/Script/CoreUObject.Object"))},
		)
	}
}

func classOr(path, fallback string) string {
	if path != "" {
		return path
	}
	return fallback
}

func exec(dir Direction, name string) *Pin {
	return &Pin{Name: name, Direction: dir, Type: execType}
}

// addParams turns function parameters into pins. Event nodes expose the
// signature from the callee side, so their directions are flipped.
func addParams(n *Node, params []registry.Param, event bool) {
	for _, p := range params {
		typ, err := pintype.Parse(p.Type)
		if err != nil {
			continue
		}
		dir := Input
		if p.Output != event {
			dir = Output
		}
		addPins(n, &Pin{Name: p.Name, Direction: dir, Type: typ})
	}
}

func addPins(n *Node, pins ...*Pin) {
	for _, p := range pins {
		// Fresh GUIDs never collide.
		_ = n.AddPin(p)
	}
}

// AddDefaultEvent creates an override event for the function name that the
// blueprint's parent class declares as overridable, placing it in g at
// (x, y). If bp already implements the event the existing node is
// returned. Returns ErrNotOverridable when the parent class is unknown or
// declares no such event.
func AddDefaultEvent(reg registry.Registry, bp *Blueprint, g *Graph, name string, x, y int) (*Node, error) {
	if existing := bp.FindEvent(name); existing != nil && existing.Family() == nodekind.Event {
		return existing, nil
	}
	if reg == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotOverridable)
	}
	parent := reg.ClassByPath(bp.ParentClass)
	if parent == nil {
		return nil, fmt.Errorf("%s: parent class %s: %w", name, bp.ParentClass, ErrNotOverridable)
	}
	fn := reg.FunctionOnClass(parent, name, true)
	if fn == nil || !fn.Event {
		return nil, fmt.Errorf("%s on %s: %w", name, parent.Name, ErrNotOverridable)
	}

	owner := parent
	for _, c := range registry.Ancestry(reg, parent) {
		if reg.FunctionOnClass(c, name, false) != nil {
			owner = c
			break
		}
	}

	n := &Node{
		GUID:  NewGUID(),
		Class: nodekind.ClassPrefix + "Event",
		Title: EventTitle(name),
		X:     x,
		Y:     y,
		Attrs: Attributes{Event: memberref.Ref{MemberName: name, ParentClass: owner.Path}},
	}
	AllocateDefaultPins(reg, parent, n)
	if err := g.AddNode(n); err != nil {
		return nil, fmt.Errorf("add event %s: %w", name, err)
	}
	return n, nil
}

// EventTitle is the node title the host gives an event for name.
func EventTitle(name string) string {
	return "Event " + name
}
