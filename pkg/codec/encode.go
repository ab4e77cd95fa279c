package codec

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/matzehuels/bpserial/pkg/blueprint"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// EncodeOptions tune [Encode]. The zero value is usable.
type EncodeOptions struct {
	// EngineVersion is stamped into the metadata. Defaults to the
	// registry's host version.
	EngineVersion string
	// Now supplies the export timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Encode produces the document form of bp. reg is optional: when given it
// supplies computed purity and latency of function calls, and the parent
// class of references that store only a name.
func Encode(bp *blueprint.Blueprint, reg registry.Registry, opts EncodeOptions) *document.Document {
	e := &encoder{bp: bp, reg: reg}
	if reg != nil {
		e.self = reg.ClassByPath(bp.ParentClass)
		if opts.EngineVersion == "" {
			opts.EngineVersion = reg.HostVersion()
		}
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	doc := &document.Document{
		Metadata: document.Metadata{
			BlueprintName:      bp.Name,
			BlueprintPath:      bp.Path,
			BlueprintType:      string(bp.Type),
			ParentClassPath:    bp.ParentClass,
			GeneratedClassName: bp.GeneratedClass,
			EngineVersion:      opts.EngineVersion,
			SerializerVersion:  document.SerializerVersion,
			ExportTimestamp:    now().UTC().Format(time.RFC3339),
		},
		Variables:             make([]document.Variable, 0, len(bp.Variables)),
		EventGraphs:           make([]document.Graph, 0, len(bp.EventGraphs)),
		Functions:             make([]document.Function, 0, len(bp.Functions)),
		Macros:                make([]document.Graph, 0, len(bp.Macros)),
		Components:            make([]document.Component, 0, len(bp.Components)),
		ImplementedInterfaces: append([]string{}, bp.Interfaces...),
		HardDependencies:      slices.Clone(bp.HardDependencies),
		SoftDependencies:      slices.Clone(bp.SoftDependencies),
	}

	for _, v := range bp.Variables {
		doc.Variables = append(doc.Variables, encodeVariable(v))
	}
	for _, g := range bp.EventGraphs {
		doc.EventGraphs = append(doc.EventGraphs, e.graph(g, nil))
	}
	for _, f := range bp.Functions {
		doc.Functions = append(doc.Functions, e.function(f))
	}
	for _, g := range bp.Macros {
		doc.Macros = append(doc.Macros, e.graph(g, nil))
	}
	for _, c := range bp.Components {
		doc.Components = append(doc.Components, encodeComponent(c))
	}
	return doc
}

type encoder struct {
	bp   *blueprint.Blueprint
	reg  registry.Registry
	self *registry.Class
}

func encodeVariable(v *blueprint.Variable) document.Variable {
	rep := v.Replication
	if rep == "" {
		rep = document.ReplicationNone
	}
	meta := make(map[string]string, len(v.Meta))
	maps.Copy(meta, v.Meta)
	return document.Variable{
		Name:                 v.Name,
		GUID:                 v.GUID,
		Type:                 v.Type.Sanitize().String(),
		Category:             v.Category,
		DefaultValue:         v.DefaultValue,
		IsExposed:            v.Exposed,
		IsReadOnly:           v.ReadOnly,
		ReplicationCondition: rep,
		Metadata:             meta,
	}
}

func encodeVariables(vs []*blueprint.Variable) []document.Variable {
	out := make([]document.Variable, 0, len(vs))
	for _, v := range vs {
		out = append(out, encodeVariable(v))
	}
	return out
}

// encodeComponent keeps only the property values it knows how to turn
// into strings.
func encodeComponent(c *blueprint.Component) document.Component {
	props := make(map[string]string, len(c.Properties))
	for k, v := range c.Properties {
		if s, ok := stringify(v); ok {
			props[k] = s
		}
	}
	return document.Component{Name: c.Name, Class: c.Class, Parent: c.Parent, Properties: props}
}

func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

func (e *encoder) function(f *blueprint.Function) document.Function {
	out := document.Function{
		Name:         f.Name,
		GUID:         f.GUID,
		Parameters:   encodeVariables(f.Params),
		ReturnValues: encodeVariables(f.Returns),
		IsStatic:     f.Static,
		IsPure:       f.Pure,
		IsConst:      f.Const,
	}
	if f.Graph != nil {
		out.Graph = e.graph(f.Graph, f)
	} else {
		out.Graph = document.Graph{Name: f.Name, Type: document.GraphFunction, Nodes: []document.Node{}}
	}
	return out
}

func (e *encoder) graph(g *blueprint.Graph, fn *blueprint.Function) document.Graph {
	out := document.Graph{
		Name:  g.Name,
		GUID:  g.GUID,
		Type:  string(g.Kind),
		Nodes: make([]document.Node, 0, g.NodeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, e.node(n, fn))
	}
	return out
}

func (e *encoder) node(n *blueprint.Node, fn *blueprint.Function) document.Node {
	fam := nodekind.Resolve(e.reg, n.Class)
	kind := nodekind.Lookup(fam)

	out := document.Node{
		GUID:    n.GUID,
		Class:   n.Class,
		Title:   n.Title,
		Comment: n.Comment,
		X:       n.X,
		Y:       n.Y,
		Pins:    make([]document.Pin, 0, len(n.Pins)),
	}
	out.IsPure, out.IsLatent = e.flags(n, fam, kind)

	for _, f := range kind.Fields {
		exportField(&out, &n.Attrs, f.Key)
	}
	for _, key := range []string{nodekind.KeyFunctionReference, nodekind.KeyEventReference, nodekind.KeyDelegateReference} {
		if r := *out.Ref(key); r != nil {
			e.fillParentClass(r)
		}
	}

	switch fam {
	case nodekind.FunctionEntry:
		if out.FunctionName == "" && fn != nil {
			out.FunctionName = fn.Name
		}
	case nodekind.ExecutionSequence, nodekind.MultiGate:
		if out.NumOutputPins == nil {
			count := countExecOutputs(n)
			out.NumOutputPins = &count
		}
	}

	for _, p := range n.Pins {
		out.Pins = append(out.Pins, encodePin(p))
	}
	return out
}

func encodePin(p *blueprint.Pin) document.Pin {
	links := make([]string, 0, len(p.LinkedTo()))
	for _, o := range p.LinkedTo() {
		links = append(links, o.ID)
	}
	return document.Pin{
		ID:           p.ID,
		Name:         p.Name,
		Direction:    p.Direction.String(),
		Type:         p.Type.Sanitize().String(),
		DefaultValue: p.DefaultValue,
		LinkedTo:     links,
	}
}

func countExecOutputs(n *blueprint.Node) int {
	count := 0
	for _, p := range n.Pins {
		if p.Direction == blueprint.Output && p.Type.IsExec() {
			count++
		}
	}
	return count
}

// flags computes isPure and isLatent from the kind table, falling back to
// the node's stored flags.
func (e *encoder) flags(n *blueprint.Node, fam nodekind.Family, kind nodekind.Kind) (pure, latent bool) {
	pure, latent = n.Pure, n.Latent || kind.Latent
	switch {
	case kind.AlwaysPure:
		pure = true
	case fam.IsEvent():
		pure, latent = false, false
	case fam.IsCast():
		pure = n.Attrs.PureCast
	case fam == nodekind.CallFunction && e.reg != nil:
		scope := memberref.Scope{Self: e.self, Declared: e.bp.Declares}
		if t, err := memberref.ResolveFunction(e.reg, n.Attrs.Function, scope); err == nil && t.Function != nil {
			pure, latent = t.Function.Pure, t.Function.Latent
		} else if f := e.bp.Function(n.Attrs.Function.MemberName); f != nil {
			pure = f.Pure
		}
	}
	return pure, latent
}

// fillParentClass sets the display parent class of a bare reference when
// exactly one registry class declares the member. Anything else is left
// empty rather than guessed.
func (e *encoder) fillParentClass(r *memberref.Ref) {
	if e.reg == nil || r.ParentClass != "" || r.IsSelf || r.IsLocalScope || r.MemberName == "" {
		return
	}
	if e.bp.Declares(r.MemberName) {
		return
	}
	var owner *registry.Class
	for _, c := range e.reg.Classes() {
		if e.reg.FunctionOnClass(c, r.MemberName, false) == nil {
			continue
		}
		if owner != nil {
			return
		}
		owner = c
	}
	if owner != nil {
		r.ParentClass = owner.Path
	}
}
