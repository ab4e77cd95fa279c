// Package registry describes the host's reflection store as a read-only
// capability and provides an in-memory implementation of it.
//
// The serializer never owns reflection data. The decoder and schema
// generator consume a [Registry]; the encoder and validator only use one
// when it is given. Off-host, a [Memory] registry is built from the
// [Builtin] class table and from TOML snapshots dumped by the host (see
// [LoadSnapshot]).
package registry

import (
	"strings"
)

// Registry is the reflection capability consumed by the serializer.
// Lookups return nil when nothing matches. Implementations must return
// classes in a deterministic order from Classes and ConcreteNodeClasses.
type Registry interface {
	// ClassByPath looks up a class by its full path ("/Script/Engine.Actor").
	ClassByPath(path string) *Class
	// FindClassByName looks up a class by its short name ("Actor").
	FindClassByName(name string) *Class
	// FunctionOnClass finds a function declared on c, or on its ancestors
	// when includeSuper is set.
	FunctionOnClass(c *Class, name string, includeSuper bool) *Function
	// PropertyOnClass finds a property declared on c, or on its ancestors
	// when includeSuper is set.
	PropertyOnClass(c *Class, name string, includeSuper bool) *Property
	// Classes returns every loaded class in registry scan order.
	Classes() []*Class
	// ConcreteNodeClasses returns every non-abstract graph node class
	// except the node base class itself.
	ConcreteNodeClasses() []*Class
	// IsDescendantOf reports whether c is ancestor or derives from it.
	// The ancestor may be given by name or by path.
	IsDescendantOf(c *Class, ancestor string) bool
	// ClassMeta returns a metadata value of c.
	ClassMeta(c *Class, key string) (string, bool)
	// EnumByPath looks up an enum by path or short name.
	EnumByPath(path string) *Enum
	// StructByPath looks up a struct by path or short name.
	StructByPath(path string) *Struct
	// HostVersion is the engine version string of the host process.
	HostVersion() string
}

// NodeBaseClass is the short name of the class every graph node kind derives from.
const NodeBaseClass = "K2Node"

// Class is a reflected class.
type Class struct {
	Name       string            `toml:"name"`
	Path       string            `toml:"path"`
	Super      string            `toml:"super"` // parent class path, empty for roots
	Abstract   bool              `toml:"abstract"`
	Meta       map[string]string `toml:"meta"`
	Functions  []Function        `toml:"functions"`
	Properties []Property        `toml:"properties"`
}

// Function is a reflected function.
type Function struct {
	Name   string            `toml:"name"`
	Params []Param           `toml:"params"`
	Pure   bool              `toml:"pure"`
	Const  bool              `toml:"const"`
	Static bool              `toml:"static"`
	Event  bool              `toml:"event"` // BlueprintEvent: can be overridden by a graph event node
	Latent bool              `toml:"latent"`
	Meta   map[string]string `toml:"meta"`
}

// Param is a function parameter. Type is a pin type in textual form.
type Param struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	Output bool   `toml:"output"`
}

// Property is a reflected property. Type is a pin type in textual form.
type Property struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Delegate bool   `toml:"delegate"`
}

// Enum is a reflected enum.
type Enum struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Values []string `toml:"values"`
}

// Struct is a reflected struct.
type Struct struct {
	Name   string     `toml:"name"`
	Path   string     `toml:"path"`
	Fields []Property `toml:"fields"`
}

// ShortName returns the object name part of a path:
// "/Script/Engine.Actor" -> "Actor", "/Game/BP_Door.BP_Door_C" -> "BP_Door_C".
// Names without a path are returned unchanged.
func ShortName(path string) string {
	if i := strings.LastIndexAny(path, "./"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Ancestry returns c followed by its ancestors, nearest first. Parents are
// resolved through r by path, then by name.
func Ancestry(r Registry, c *Class) []*Class {
	var out []*Class
	for depth := 0; c != nil && depth < maxDepth; depth++ {
		out = append(out, c)
		if c.Super == "" {
			break
		}
		next := r.ClassByPath(c.Super)
		if next == nil {
			next = r.FindClassByName(c.Super)
		}
		c = next
	}
	return out
}
