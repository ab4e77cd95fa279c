package codec

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/bpserial/pkg/blueprint"
	"github.com/matzehuels/bpserial/pkg/diag"
	"github.com/matzehuels/bpserial/pkg/document"
	bperrors "github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/memberref"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/pintype"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// Decode builds a new blueprint at packagePath from doc. name defaults to
// the document's blueprint name. reg may be nil, in which case references
// are kept but not checked and dynamic-pin nodes get only the document's
// pins.
//
// An invalid packagePath yields a nil blueprint and an INVALID_PATH error.
// Every other problem is recorded and decoding continues.
func Decode(doc *document.Document, packagePath, name string, reg registry.Registry) (*blueprint.Blueprint, diag.List) {
	var diags diag.List
	if err := bperrors.ValidateAssetPath(packagePath); err != nil {
		diags.FromError(diag.Error, "", "packagePath", err)
		return nil, diags
	}
	if name == "" {
		name = doc.Metadata.BlueprintName
	}
	if name == "" {
		name = registry.ShortName(packagePath)
	}

	typ := blueprint.Type(doc.Metadata.BlueprintType)
	switch typ {
	case "":
		typ = blueprint.Normal
	case blueprint.Normal, blueprint.Const, blueprint.MacroLibrary, blueprint.Interface,
		blueprint.LevelScript, blueprint.FunctionLibrary:
	default:
		diags.Warnf(bperrors.ErrCodeInvalidInput, "", "blueprintType", "Unknown blueprint type %s, using Normal", typ)
		typ = blueprint.Normal
	}

	parent := doc.Metadata.ParentClassPath
	switch {
	case parent == "":
		diags.Warnf(bperrors.ErrCodeMissingField, "", "parentClassPath", "No parent class, defaulting to Actor")
		parent = blueprint.DefaultParentClass
	case reg != nil:
		c := reg.ClassByPath(parent)
		if c == nil {
			c = reg.FindClassByName(parent)
		}
		if c == nil {
			diags.Warnf(bperrors.ErrCodeUnresolved, "", "parentClassPath", "Parent class %s not found, defaulting to Actor", parent)
			parent = blueprint.DefaultParentClass
		} else {
			parent = c.Path
		}
	}

	bp := blueprint.New(packagePath, name, typ, parent)
	if doc.Metadata.GeneratedClassName != "" {
		bp.GeneratedClass = doc.Metadata.GeneratedClassName
	}
	d := newDecoder(bp, reg, false)
	d.diags = diags
	d.populate(doc)
	return bp, d.diags
}

// Merge adds the entities of doc that bp does not already have. See the
// package documentation for the identity rules.
func Merge(doc *document.Document, bp *blueprint.Blueprint, reg registry.Registry) diag.List {
	d := newDecoder(bp, reg, true)
	d.populate(doc)
	return d.diags
}

type decoder struct {
	bp    *blueprint.Blueprint
	reg   registry.Registry
	self  *registry.Class
	merge bool
	diags diag.List

	declared map[string]bool           // members the document declares
	filled   map[*blueprint.Graph]bool // event graphs this pass populated
	pending  []*linkJob
}

// linkJob carries what the linkage phase needs for one document graph.
type linkJob struct {
	graph    *blueprint.Graph
	nodes    []document.Node           // materialised document nodes, in order
	pins     map[string]*blueprint.Pin // document pinId -> created pin
	declared map[string]bool           // every pinId the document graph declares
}

func newDecoder(bp *blueprint.Blueprint, reg registry.Registry, merge bool) *decoder {
	d := &decoder{bp: bp, reg: reg, merge: merge, filled: make(map[*blueprint.Graph]bool)}
	if reg != nil {
		d.self = reg.ClassByPath(bp.ParentClass)
	}
	return d
}

func (d *decoder) populate(doc *document.Document) {
	d.declared = doc.DeclaredNames()
	d.variables(doc.Variables)
	d.components(doc.Components)
	d.interfaces(doc.ImplementedInterfaces)
	d.bp.HardDependencies = union(d.bp.HardDependencies, doc.HardDependencies)
	d.bp.SoftDependencies = union(d.bp.SoftDependencies, doc.SoftDependencies)

	for i := range doc.Functions {
		d.function(&doc.Functions[i])
	}
	for i := range doc.Macros {
		d.macro(&doc.Macros[i])
	}
	for i := range doc.EventGraphs {
		d.eventGraph(&doc.EventGraphs[i])
	}
	for _, job := range d.pending {
		d.link(job)
	}
	d.pending = nil
}

func union(dst, src []string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

func (d *decoder) skipped(kind, name string) {
	if d.merge {
		d.diags.Infof("", "", "", "%s %s already exists, skipped", kind, name)
		return
	}
	d.diags.Errorf(bperrors.ErrCodeDuplicate, "", name, "Duplicate %s name: %s", strings.ToLower(kind), name)
}

func (d *decoder) variables(vs []document.Variable) {
	for _, v := range vs {
		if v.Name == "" {
			d.diags.Errorf(bperrors.ErrCodeMissingField, "", "varName", "Variable has no name")
			continue
		}
		if d.bp.Variable(v.Name) != nil {
			d.skipped("Variable", v.Name)
			continue
		}
		nv, ok := d.variable(v)
		if !ok {
			continue
		}
		if err := d.bp.AddVariable(nv); err != nil {
			d.diags.FromError(diag.Error, "", v.Name, err)
		}
	}
}

// variable converts a document variable. It reports false when the
// variable cannot be created at all.
func (d *decoder) variable(v document.Variable) (*blueprint.Variable, bool) {
	out := &blueprint.Variable{
		Name:         v.Name,
		GUID:         v.GUID,
		Category:     v.Category,
		DefaultValue: v.DefaultValue,
		Exposed:      v.IsExposed,
		ReadOnly:     v.IsReadOnly,
		Replication:  v.ReplicationCondition,
		Meta:         maps.Clone(v.Metadata),
	}
	switch out.Replication {
	case "":
		out.Replication = document.ReplicationNone
	case document.ReplicationNone, document.ReplicationReplicate, document.ReplicationRepNotify:
	default:
		d.diags.Warnf(bperrors.ErrCodeInvalidInput, "", v.Name, "Variable '%s' has unknown replication condition %s", v.Name, v.ReplicationCondition)
		out.Replication = document.ReplicationNone
	}
	if v.Type == "" {
		d.diags.Warnf(bperrors.ErrCodeMissingField, "", v.Name, "Variable '%s' has no type", v.Name)
		return out, true
	}
	t, err := pintype.Parse(v.Type)
	if err != nil {
		d.diags.FromError(diag.Error, "", v.Name, err)
		return nil, false
	}
	out.Type = t
	return out, true
}

func (d *decoder) components(cs []document.Component) {
	for _, c := range cs {
		if d.bp.Component(c.Name) != nil {
			d.skipped("Component", c.Name)
			continue
		}
		if d.reg != nil && c.Class != "" && findClass(d.reg, c.Class) == nil {
			d.diags.Warnf(bperrors.ErrCodeUnresolved, "", c.Name, "Cannot resolve component class %s", c.Class)
		}
		props := make(map[string]any, len(c.Properties))
		for k, v := range c.Properties {
			props[k] = v
		}
		d.bp.Components = append(d.bp.Components, &blueprint.Component{
			Name:       c.Name,
			Class:      c.Class,
			Parent:     c.Parent,
			Properties: props,
		})
	}
	for _, c := range d.bp.Components {
		if c.Parent != "" && d.bp.Component(c.Parent) == nil {
			d.diags.Warnf(bperrors.ErrCodeUnresolved, "", c.Name, "Component %s has unknown parent %s", c.Name, c.Parent)
		}
	}
}

func (d *decoder) interfaces(paths []string) {
	for _, p := range paths {
		if d.bp.Implements(p) {
			if !d.merge {
				d.diags.Warnf(bperrors.ErrCodeDuplicate, "", "implementedInterfaces", "Interface %s listed twice", p)
			}
			continue
		}
		if d.reg != nil && findClass(d.reg, p) == nil {
			d.diags.Warnf(bperrors.ErrCodeUnresolved, "", "implementedInterfaces", "Cannot resolve interface %s", p)
		}
		d.bp.Interfaces = append(d.bp.Interfaces, p)
	}
}

func (d *decoder) function(df *document.Function) {
	f := d.bp.Function(df.Name)
	if f == nil {
		f = &blueprint.Function{
			Name:   df.Name,
			GUID:   df.GUID,
			Static: df.IsStatic,
			Pure:   df.IsPure,
			Const:  df.IsConst,
		}
		if f.GUID == "" {
			f.GUID = blueprint.NewGUID()
		}
		for _, p := range df.Parameters {
			if v, ok := d.variable(p); ok {
				f.Params = append(f.Params, v)
			}
		}
		for _, p := range df.ReturnValues {
			if v, ok := d.variable(p); ok {
				f.Returns = append(f.Returns, v)
			}
		}
		f.Graph = d.newGraph(&df.Graph, df.Name, blueprint.FunctionGraph)
		d.bp.Functions = append(d.bp.Functions, f)
	} else if !d.merge {
		d.skipped("Function", df.Name)
		return
	}
	if f.Graph == nil {
		f.Graph = d.newGraph(&df.Graph, df.Name, blueprint.FunctionGraph)
	}
	d.nodes(f.Graph, &df.Graph, f)
}

func (d *decoder) macro(dg *document.Graph) {
	g := d.bp.Macro(dg.Name)
	if g == nil {
		g = d.newGraph(dg, dg.Name, blueprint.MacroGraph)
		d.bp.Macros = append(d.bp.Macros, g)
	} else if !d.merge {
		d.skipped("Macro", dg.Name)
		return
	}
	d.nodes(g, dg, nil)
}

func (d *decoder) eventGraph(dg *document.Graph) {
	name := dg.Name
	if name == "" {
		name = "EventGraph"
	}
	g := d.bp.EventGraph(name)
	if g == nil && d.merge && len(d.bp.EventGraphs) > 0 {
		g = d.bp.EventGraphs[0]
	}
	switch {
	case g == nil, !d.merge && d.filled[g]:
		// Same-named event graphs stay apart.
		g = d.newGraph(dg, name, blueprint.EventGraph)
		d.bp.EventGraphs = append(d.bp.EventGraphs, g)
	case !d.merge && g.NodeCount() == 0 && dg.GUID != "":
		// The scaffolded default graph takes over the document's identity.
		g.GUID = dg.GUID
	}
	d.filled[g] = true
	d.nodes(g, dg, nil)
}

func (d *decoder) newGraph(dg *document.Graph, name string, kind blueprint.GraphKind) *blueprint.Graph {
	if name == "" {
		name = dg.Name
	}
	g := blueprint.NewGraph(name, kind)
	if dg.GUID != "" {
		g.GUID = dg.GUID
	}
	return g
}

// nodes materialises the nodes of dg into g and queues the graph for
// linkage.
func (d *decoder) nodes(g *blueprint.Graph, dg *document.Graph, fn *blueprint.Function) {
	job := &linkJob{
		graph:    g,
		pins:     make(map[string]*blueprint.Pin),
		declared: dg.PinIDs(),
	}
	for _, raw := range dg.Nodes {
		dn := raw.Normalized()
		if d.node(g, &dn, fn, job.pins) {
			job.nodes = append(job.nodes, dn)
		}
	}
	d.pending = append(d.pending, job)
}

// node materialises one document node. It reports whether a node was
// created.
func (d *decoder) node(g *blueprint.Graph, dn *document.Node, fn *blueprint.Function, pins map[string]*blueprint.Pin) bool {
	if dn.Class == "" {
		d.diags.Errorf(bperrors.ErrCodeMissingField, dn.GUID, "nodeClass", "Node has no class")
		return false
	}
	fam := nodekind.Resolve(d.reg, dn.Class)
	kind := nodekind.Lookup(fam)
	if fam == nodekind.Unknown && d.reg != nil && d.reg.FindClassByName(nodekind.TrimPrefix(dn.Class)) == nil && d.reg.FindClassByName(dn.Class) == nil {
		d.diags.Warnf(bperrors.ErrCodeUnresolved, dn.GUID, "nodeClass", "Unknown node class %s", dn.Class)
	}

	if d.merge {
		if dn.GUID != "" && d.bp.Node(dn.GUID) != nil {
			return false
		}
		if fam.IsEvent() {
			if name := eventName(dn); name != "" && d.bp.FindEvent(name) != nil {
				return false
			}
			if fam == nodekind.Event {
				return d.overrideEvent(g, dn, pins)
			}
		}
	}

	guid := dn.GUID
	if guid == "" {
		guid = blueprint.NewGUID()
		d.diags.Warnf(bperrors.ErrCodeMissingField, "", "nodeGuid", "%s node has no GUID, assigned %s", nodekind.TrimPrefix(dn.Class), guid)
	} else if g.Node(guid) != nil {
		d.diags.Errorf(bperrors.ErrCodeDuplicate, guid, "nodeGuid", "Duplicate node GUID in graph")
		return false
	}

	n := &blueprint.Node{
		GUID:    guid,
		Class:   dn.Class,
		Title:   dn.Title,
		Comment: dn.Comment,
		X:       dn.X,
		Y:       dn.Y,
		Pure:    dn.IsPure,
		Latent:  dn.IsLatent,
	}
	for _, f := range kind.Fields {
		if f.Requirement == nodekind.Required && !dn.Has(f.Key) {
			d.diags.Warnf(bperrors.ErrCodeMissingField, guid, f.Key, "%s node has no %s", nodekind.TrimPrefix(dn.Class), f.Key)
		}
		importField(&n.Attrs, dn, f.Key)
	}
	d.checkReferences(n, kind, fn)

	if kind.DynamicPins {
		blueprint.AllocateDefaultPins(d.reg, d.self, n)
	}
	matched, ok := d.applyPins(n, dn, nil)
	if !ok {
		return false
	}
	if err := g.AddNode(n); err != nil {
		code := bperrors.ErrCodeInternal
		if errors.Is(err, blueprint.ErrDuplicatePinID) || errors.Is(err, blueprint.ErrDuplicateNodeGUID) {
			code = bperrors.ErrCodeDuplicate
		}
		d.diags.Errorf(code, guid, "", "Cannot add node: %v", err)
		return false
	}
	recordPins(dn, matched, pins)
	return true
}

// overrideEvent creates an event through the host's default-event path and
// then applies the document's identity, placement and pins to it.
func (d *decoder) overrideEvent(g *blueprint.Graph, dn *document.Node, pins map[string]*blueprint.Pin) bool {
	name := eventName(dn)
	n, err := blueprint.AddDefaultEvent(d.reg, d.bp, g, name, dn.X, dn.Y)
	if err != nil {
		d.diags.Warnf(bperrors.ErrCodeUnresolved, dn.GUID, nodekind.KeyEventReference, "Event %s is not an overridable event of %s, skipped", name, d.bp.ParentClass)
		return false
	}
	if dn.GUID != "" {
		if err := g.RenameNode(n.GUID, dn.GUID); err != nil {
			d.diags.Errorf(bperrors.ErrCodeDuplicate, dn.GUID, "nodeGuid", "Cannot keep event GUID: %v", err)
		}
	}
	n.Comment = dn.Comment
	if dn.Title != "" {
		n.Title = dn.Title
	}
	matched, ok := d.applyPins(n, dn, g)
	if !ok {
		g.RemoveNode(n.GUID)
		return false
	}
	recordPins(dn, matched, pins)
	return true
}

// eventName is the member name an event node implements.
func eventName(dn *document.Node) string {
	if dn.EventReference != nil && dn.EventReference.MemberName != "" {
		return dn.EventReference.MemberName
	}
	if dn.CustomEventName != "" {
		return dn.CustomEventName
	}
	if name, ok := strings.CutPrefix(dn.Title, "Event "); ok {
		return name
	}
	return ""
}

// applyPins overlays the document's pins on n: a document pin replaces the
// identity, type and default of the first unclaimed allocated pin with the
// same name and direction, or is added. Allocated pins the document does
// not mention are kept. g is set when n already belongs to a graph. The
// returned slice holds the pin each document pin ended up on.
func (d *decoder) applyPins(n *blueprint.Node, dn *document.Node, g *blueprint.Graph) ([]*blueprint.Pin, bool) {
	matched := make([]*blueprint.Pin, len(dn.Pins))
	claimed := make(map[*blueprint.Pin]bool, len(dn.Pins))
	for i, dp := range dn.Pins {
		dir := blueprint.Input
		switch dp.Direction {
		case document.DirInput:
		case document.DirOutput:
			dir = blueprint.Output
		default:
			d.diags.Warnf(bperrors.ErrCodeInvalidInput, n.GUID, dp.Name, "Pin %s has unknown direction %q", dp.Name, dp.Direction)
		}

		var typ pintype.Type
		if dp.Type != "" {
			t, err := pintype.Parse(dp.Type)
			if err != nil {
				d.diags.FromError(diag.Error, n.GUID, dp.Name, err)
			} else {
				typ = t
			}
		}

		p := unclaimedPin(n, dp.Name, dir, claimed)
		if p == nil {
			p = &blueprint.Pin{ID: dp.ID, Name: dp.Name, Direction: dir}
			if err := n.AddPin(p); err != nil {
				d.diags.Errorf(bperrors.ErrCodeDuplicate, n.GUID, dp.Name, "Duplicate pin ID %s", dp.ID)
				return nil, false
			}
		} else if dp.ID != "" && dp.ID != p.ID {
			if g != nil {
				if err := g.RenamePin(p, dp.ID); err != nil {
					d.diags.Errorf(bperrors.ErrCodeDuplicate, n.GUID, dp.Name, "Duplicate pin ID %s", dp.ID)
					return nil, false
				}
			} else {
				p.ID = dp.ID
			}
		}
		if !typ.IsZero() {
			p.Type = typ
		}
		p.DefaultValue = dp.DefaultValue
		claimed[p] = true
		matched[i] = p
	}
	return matched, true
}

func unclaimedPin(n *blueprint.Node, name string, dir blueprint.Direction, claimed map[*blueprint.Pin]bool) *blueprint.Pin {
	for _, p := range n.Pins {
		if p.Name == name && p.Direction == dir && !claimed[p] {
			return p
		}
	}
	return nil
}

func recordPins(dn *document.Node, matched []*blueprint.Pin, pins map[string]*blueprint.Pin) {
	for i, dp := range dn.Pins {
		if dp.ID != "" && matched[i] != nil {
			pins[dp.ID] = matched[i]
		}
	}
}

// checkReferences resolves the references and paths of a materialised
// node, recording what does not resolve. Nothing is dropped.
func (d *decoder) checkReferences(n *blueprint.Node, kind nodekind.Kind, fn *blueprint.Function) {
	scope := memberref.Scope{Self: d.self, Declared: d.declares}
	if fn != nil {
		scope.Local = func(name string) bool { return declaresLocal(fn, name) }
	}
	for _, f := range kind.Fields {
		switch f.Type {
		case nodekind.TypeMemberRef:
			ref := attrRef(&n.Attrs, f.Key)
			if ref.MemberName == "" {
				continue
			}
			if ref.Ambiguous() {
				d.diags.Warnf(bperrors.ErrCodeUnresolved, n.GUID, f.Key, "Reference %s claims several scopes: %s", ref.MemberName, strings.Join(ref.Scopes(), ", "))
			}
			if d.reg == nil && ref.ParentClass != "" {
				continue
			}
			if _, err := memberref.Resolve(d.reg, *ref, scope); err != nil {
				d.diags.FromError(diag.Warning, n.GUID, f.Key, err)
			}
		case nodekind.TypeString:
			if d.reg == nil {
				continue
			}
			s := attrString(&n.Attrs, f.Key)
			if s == nil || *s == "" {
				continue
			}
			if ok, what := d.pathResolves(f.Key, *s); !ok {
				d.diags.Warnf(bperrors.ErrCodeUnresolved, n.GUID, f.Key, "Cannot resolve %s %s", what, *s)
			}
		}
	}
}

// pathResolves checks a class, enum or struct path field. Other string
// fields always pass.
func (d *decoder) pathResolves(key, path string) (bool, string) {
	switch key {
	case nodekind.KeyTargetClass, nodekind.KeySpawnClass, nodekind.KeyAssetClass, nodekind.KeyProxyClass:
		return findClass(d.reg, path) != nil, "class"
	case nodekind.KeyEnumType:
		return d.reg.EnumByPath(path) != nil, "enum"
	case nodekind.KeyStructType:
		return d.reg.StructByPath(path) != nil, "struct"
	}
	return true, ""
}

func (d *decoder) declares(name string) bool {
	return d.declared[name] || d.bp.Declares(name)
}

func declaresLocal(fn *blueprint.Function, name string) bool {
	for _, v := range fn.Params {
		if v.Name == name {
			return true
		}
	}
	for _, v := range fn.Returns {
		if v.Name == name {
			return true
		}
	}
	return false
}

func findClass(reg registry.Registry, ref string) *registry.Class {
	if c := reg.ClassByPath(ref); c != nil {
		return c
	}
	return reg.FindClassByName(ref)
}

// link is the linkage phase for one graph. Targets that the document
// declares but that were not created (pre-existing or rejected nodes) are
// skipped silently; targets declared nowhere are dangling.
func (d *decoder) link(job *linkJob) {
	for i := range job.nodes {
		dn := &job.nodes[i]
		for _, dp := range dn.Pins {
			src, ok := job.pins[dp.ID]
			if !ok {
				continue
			}
			for _, target := range dp.LinkedTo {
				dst, ok := job.pins[target]
				if !ok {
					if !job.declared[target] && job.graph.Pin(target) == nil {
						d.diags.Warnf(bperrors.ErrCodeDanglingLink, dn.GUID, dp.Name, "Pin connection references unknown pin: %s", target)
					}
					continue
				}
				if err := job.graph.Link(src, dst); err != nil {
					d.diags.Warnf(bperrors.ErrCodeDanglingLink, dn.GUID, dp.Name, "Cannot link %s to %s: %v", dp.ID, target, err)
				}
			}
		}
	}
}
