// Package validate runs static checks on documents before they are decoded.
//
// The checks cover metadata sanity, variable and function signatures, the
// component tree, node-kind well-formedness, pin-link closure and, when a
// registry is given, reference resolvability. Validation never mutates the
// document and never stops early: every issue found is reported.
//
//	res := validate.Document(doc, reg)
//	for _, issue := range res.Issues {
//	    fmt.Println(issue)
//	}
//	if !res.Valid() { ... }
//
// Pass a nil registry to validate off-host; resolvability checks are then
// skipped.
package validate

import (
	"strings"

	"github.com/matzehuels/bpserial/pkg/diag"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/pintype"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// Result holds the issues found in one document.
type Result struct {
	Issues diag.List `json:"issues"`
}

// Valid reports whether no issue is an Error.
func (r Result) Valid() bool { return !r.Issues.HasErrors() }

// Bytes parses data and validates it. A parse failure is reported as a
// single malformed-json Error.
func Bytes(data []byte, reg registry.Registry) Result {
	doc, err := document.Parse(data)
	if err != nil {
		msg := errors.UserMessage(err)
		if e, ok := err.(*errors.Error); ok && e.Cause != nil {
			msg = e.Cause.Error()
		}
		var res Result
		res.Issues.Add(diag.Error, errors.ErrCodeMalformedJSON, "", "", "Invalid JSON: %s", msg)
		return res
	}
	return Document(doc, reg)
}

// Document validates doc. reg may be nil.
func Document(doc *document.Document, reg registry.Registry) Result {
	v := &validator{doc: doc, reg: reg}
	if reg != nil && doc.Metadata.ParentClassPath != "" {
		v.self = findClass(reg, doc.Metadata.ParentClassPath)
	}
	v.declared = doc.DeclaredNames()

	v.metadata()
	v.variables(doc.Variables, "")
	v.functions()
	v.macros()
	v.components()
	v.interfaces()
	for _, g := range doc.EventGraphs {
		v.graph(&g, nil)
	}
	for i := range doc.Functions {
		v.graph(&doc.Functions[i].Graph, &doc.Functions[i])
	}
	for _, g := range doc.Macros {
		v.graph(&g, nil)
	}
	return Result{Issues: v.issues}
}

type validator struct {
	doc      *document.Document
	reg      registry.Registry
	self     *registry.Class
	declared map[string]bool
	issues   diag.List
}

func findClass(reg registry.Registry, ref string) *registry.Class {
	if c := reg.ClassByPath(ref); c != nil {
		return c
	}
	return reg.FindClassByName(ref)
}

func (v *validator) metadata() {
	md := v.doc.Metadata
	if md.BlueprintName == "" {
		v.issues.Warnf(errors.ErrCodeMissingField, "", "blueprintName", "Blueprint name is empty")
	}
	switch md.BlueprintType {
	case "", document.TypeNormal, document.TypeConst, document.TypeMacroLibrary,
		document.TypeInterface, document.TypeLevelScript, document.TypeFunctionLibrary:
	default:
		v.issues.Warnf(errors.ErrCodeInvalidInput, "", "blueprintType", "Unknown blueprint type: %s", md.BlueprintType)
	}
	if md.BlueprintPath != "" {
		if err := errors.ValidateAssetPath(md.BlueprintPath); err != nil {
			v.issues.Warnf(errors.ErrCodeInvalidPath, "", "blueprintPath", "Invalid blueprint path: %s", errors.UserMessage(err))
		}
	}
	if v.reg != nil && md.ParentClassPath != "" && v.self == nil {
		v.issues.Errorf(errors.ErrCodeUnresolved, "", "parentClassPath", "Cannot resolve parent class: %s", md.ParentClassPath)
	}
	if md.SerializerVersion != "" && md.SerializerVersion != document.SerializerVersion {
		v.issues.Warnf(errors.ErrCodeVersionMismatch, "", "serializerVersion",
			"Version mismatch: JSON is %s, current is %s", md.SerializerVersion, document.SerializerVersion)
	}
}

// variables checks a variable list. owner names the function whose
// signature is checked, or is empty for member variables.
func (v *validator) variables(vars []document.Variable, owner string) {
	names := make(map[string]bool, len(vars))
	guids := make(map[string]bool, len(vars))
	where := ""
	if owner != "" {
		where = " in " + owner
	}
	for _, vr := range vars {
		if vr.Name == "" {
			v.issues.Errorf(errors.ErrCodeMissingField, "", "varName", "Variable has empty name%s", where)
		} else if names[vr.Name] {
			v.issues.Errorf(errors.ErrCodeDuplicate, "", vr.Name, "Duplicate variable name: %s%s", vr.Name, where)
		}
		names[vr.Name] = true

		if vr.GUID != "" {
			if guids[vr.GUID] {
				v.issues.Errorf(errors.ErrCodeDuplicate, "", vr.Name, "Duplicate variable GUID: %s", vr.GUID)
			}
			guids[vr.GUID] = true
		}

		if vr.Type == "" {
			v.issues.Errorf(errors.ErrCodeMissingField, "", vr.Name, "Variable '%s' has no type", vr.Name)
		} else if _, err := pintype.Parse(vr.Type); err != nil {
			v.issues.Errorf(errors.ErrCodeMalformedType, "", vr.Name, "Variable '%s' has malformed type: %s", vr.Name, errors.UserMessage(err))
		}

		switch vr.ReplicationCondition {
		case "", document.ReplicationNone, document.ReplicationReplicate, document.ReplicationRepNotify:
		default:
			v.issues.Warnf(errors.ErrCodeInvalidInput, "", vr.Name, "Variable '%s' has unknown replication condition: %s", vr.Name, vr.ReplicationCondition)
		}
	}
}

func (v *validator) functions() {
	seen := make(map[string]bool, len(v.doc.Functions))
	for _, f := range v.doc.Functions {
		switch {
		case f.Name == "":
			v.issues.Errorf(errors.ErrCodeMissingField, "", "functionName", "Function has empty name")
		case seen[f.Name]:
			v.issues.Errorf(errors.ErrCodeDuplicate, "", f.Name, "Duplicate function name: %s", f.Name)
		}
		seen[f.Name] = true
		v.variables(append(append([]document.Variable{}, f.Parameters...), f.ReturnValues...), f.Name)
	}
}

func (v *validator) macros() {
	seen := make(map[string]bool, len(v.doc.Macros))
	for _, m := range v.doc.Macros {
		switch {
		case m.Name == "":
			v.issues.Errorf(errors.ErrCodeMissingField, "", "graphName", "Macro has empty name")
		case seen[m.Name]:
			v.issues.Errorf(errors.ErrCodeDuplicate, "", m.Name, "Duplicate macro name: %s", m.Name)
		}
		seen[m.Name] = true
	}
}

func (v *validator) components() {
	seen := make(map[string]bool, len(v.doc.Components))
	for _, c := range v.doc.Components {
		if seen[c.Name] {
			v.issues.Errorf(errors.ErrCodeDuplicate, "", c.Name, "Duplicate component name: %s", c.Name)
		}
		seen[c.Name] = true
	}
	for _, c := range v.doc.Components {
		if c.Parent != "" && !seen[c.Parent] {
			v.issues.Warnf(errors.ErrCodeUnresolved, "", c.Name, "Component %s has unknown parent: %s", c.Name, c.Parent)
		}
		if v.reg != nil && c.Class != "" && findClass(v.reg, c.Class) == nil {
			v.issues.Warnf(errors.ErrCodeUnresolved, "", c.Name, "Cannot resolve component class: %s", c.Class)
		}
	}
}

func (v *validator) interfaces() {
	if v.reg == nil {
		return
	}
	for _, p := range v.doc.ImplementedInterfaces {
		if findClass(v.reg, p) == nil {
			v.issues.Warnf(errors.ErrCodeUnresolved, "", "implementedInterfaces", "Cannot resolve interface: %s", p)
		}
	}
}

func (v *validator) graph(g *document.Graph, fn *document.Function) {
	guids := make(map[string]bool, len(g.Nodes))
	pinIDs := make(map[string]bool)
	for _, n := range g.Nodes {
		if n.GUID == "" {
			v.issues.Errorf(errors.ErrCodeMissingField, "", "nodeGuid", "Node in graph %s has no GUID", g.Name)
		} else if guids[n.GUID] {
			v.issues.Errorf(errors.ErrCodeDuplicate, n.GUID, "nodeGuid", "Duplicate node GUID in graph")
		}
		guids[n.GUID] = true

		for _, p := range n.Pins {
			if p.ID == "" {
				v.issues.Warnf(errors.ErrCodeMissingField, n.GUID, p.Name, "Pin %s has no ID", p.Name)
				continue
			}
			if pinIDs[p.ID] {
				v.issues.Errorf(errors.ErrCodeDuplicate, n.GUID, p.Name, "Duplicate pin ID: %s", p.ID)
			}
			pinIDs[p.ID] = true
		}
	}

	for _, raw := range g.Nodes {
		n := raw.Normalized()
		v.node(&n, fn)
		v.pins(&n, pinIDs)
	}
}

func (v *validator) pins(n *document.Node, declared map[string]bool) {
	for _, p := range n.Pins {
		switch p.Direction {
		case document.DirInput, document.DirOutput:
		default:
			v.issues.Errorf(errors.ErrCodeInvalidInput, n.GUID, p.Name, "Pin %s has invalid direction: %q", p.Name, p.Direction)
		}
		if p.Type == "" {
			v.issues.Warnf(errors.ErrCodeMissingField, n.GUID, p.Name, "Pin %s has no type", p.Name)
		} else if _, err := pintype.Parse(p.Type); err != nil {
			v.issues.Errorf(errors.ErrCodeMalformedType, n.GUID, p.Name, "Pin %s has malformed type: %s", p.Name, errors.UserMessage(err))
		}
		for _, target := range p.LinkedTo {
			if !declared[target] {
				v.issues.Warnf(errors.ErrCodeDanglingLink, n.GUID, p.Name, "Pin connection references unknown pin: %s", target)
			}
		}
	}
}

func (v *validator) node(n *document.Node, fn *document.Function) {
	if n.Class == "" {
		v.issues.Errorf(errors.ErrCodeMissingField, n.GUID, "nodeClass", "Node has no class")
		return
	}
	fam := nodekind.Resolve(v.reg, n.Class)
	if fam == nodekind.Unknown && v.reg != nil &&
		v.reg.FindClassByName(n.Class) == nil && v.reg.FindClassByName(nodekind.TrimPrefix(n.Class)) == nil {
		v.issues.Errorf(errors.ErrCodeUnresolved, n.GUID, "nodeClass", "Unknown node class: %s", n.Class)
		return
	}
	kind := nodekind.Lookup(fam)
	short := nodekind.TrimPrefix(n.Class)

	missing := make(map[string]bool)
	for _, f := range kind.Required() {
		if n.Has(f.Key) {
			continue
		}
		missing[f.Key] = true
		switch {
		case fam.IsCast() && f.Key == nodekind.KeyTargetClass:
			v.issues.Errorf(errors.ErrCodeMissingField, n.GUID, f.Key, "Cast node has no target class")
		case fam.IsVariable():
			v.issues.Errorf(errors.ErrCodeMissingField, n.GUID, f.Key, "%s node has no variable reference", short)
		case fam == nodekind.CustomEvent && f.Key == nodekind.KeyCustomEventName:
			v.issues.Errorf(errors.ErrCodeMissingField, n.GUID, f.Key, "CustomEvent node has no event name")
		default:
			v.issues.Errorf(errors.ErrCodeMissingField, n.GUID, f.Key, "%s node has no %s", short, f.Name)
		}
	}

	scope := memberref.Scope{Self: v.self, Declared: func(name string) bool { return v.declared[name] }}
	if fn != nil {
		scope.Local = func(name string) bool { return hasVariable(fn.Parameters, name) || hasVariable(fn.ReturnValues, name) }
	}
	for _, f := range kind.Fields {
		if missing[f.Key] {
			continue
		}
		switch f.Type {
		case nodekind.TypeMemberRef:
			v.reference(n, fam, f.Key, scope)
		case nodekind.TypeString:
			v.path(n, fam, f.Key)
		}
	}
}

func hasVariable(vars []document.Variable, name string) bool {
	for _, vr := range vars {
		if vr.Name == name {
			return true
		}
	}
	return false
}

func (v *validator) reference(n *document.Node, fam nodekind.Family, key string, scope memberref.Scope) {
	p := *n.Ref(key)
	if p == nil || p.MemberName == "" {
		return
	}
	ref := *p
	if ref.Ambiguous() {
		v.issues.Warnf(errors.ErrCodeUnresolved, n.GUID, key, "Reference %s claims several scopes: %s", ref.MemberName, strings.Join(ref.Scopes(), ", "))
	}
	if v.reg == nil {
		return
	}
	var err error
	if fam == nodekind.CallFunction && key == nodekind.KeyFunctionReference {
		_, err = memberref.ResolveFunction(v.reg, ref, scope)
	} else {
		_, err = memberref.Resolve(v.reg, ref, scope)
	}
	if err == nil {
		return
	}
	if key == nodekind.KeyFunctionReference {
		in := ref.ParentClass
		switch {
		case in != "":
		case ref.IsSelf:
			in = "self"
		default:
			in = "any class"
		}
		v.issues.Warnf(errors.ErrCodeUnresolved, n.GUID, key, "Cannot resolve function: %s in %s", ref.MemberName, in)
		return
	}
	v.issues.Warnf(errors.ErrCodeUnresolved, n.GUID, key, "Cannot resolve %s: %s", key, ref.MemberName)
}

func (v *validator) path(n *document.Node, fam nodekind.Family, key string) {
	value := n.Field(key)
	if value == "" {
		return
	}
	if key == nodekind.KeyVariableType {
		if _, err := pintype.Parse(value); err != nil {
			v.issues.Errorf(errors.ErrCodeMalformedType, n.GUID, key, "Malformed variable type: %s", errors.UserMessage(err))
		}
		return
	}
	if v.reg == nil {
		return
	}
	switch key {
	case nodekind.KeyTargetClass:
		if findClass(v.reg, value) == nil {
			if fam.IsCast() {
				v.issues.Errorf(errors.ErrCodeUnresolved, n.GUID, key, "Cannot resolve target class")
			} else {
				v.issues.Warnf(errors.ErrCodeUnresolved, n.GUID, key, "Cannot resolve target class")
			}
		}
	case nodekind.KeySpawnClass, nodekind.KeyAssetClass, nodekind.KeyProxyClass:
		if findClass(v.reg, value) == nil {
			v.issues.Warnf(errors.ErrCodeUnresolved, n.GUID, key, "Cannot resolve class: %s", value)
		}
	case nodekind.KeyEnumType:
		if v.reg.EnumByPath(value) == nil {
			v.issues.Warnf(errors.ErrCodeUnresolved, n.GUID, key, "Cannot resolve enum: %s", value)
		}
	case nodekind.KeyStructType:
		if v.reg.StructByPath(value) == nil {
			v.issues.Warnf(errors.ErrCodeUnresolved, n.GUID, key, "Cannot resolve struct: %s", value)
		}
	}
}
