package registry

import (
	"fmt"
	"strings"
)

// maxDepth bounds ancestor walks so a malformed snapshot with a Super cycle
// cannot loop forever.
const maxDepth = 64

// Memory is an in-memory [Registry]. Classes are scanned in insertion order.
//
// The zero value is not usable; use [New]. Memory is safe for concurrent
// reads once populated, but Add* methods must not race with lookups.
type Memory struct {
	version string
	classes []*Class
	byPath  map[string]*Class
	byName  map[string]*Class
	enums   map[string]*Enum
	structs map[string]*Struct
}

// New creates an empty registry reporting the given host version.
func New(hostVersion string) *Memory {
	return &Memory{
		version: hostVersion,
		byPath:  make(map[string]*Class),
		byName:  make(map[string]*Class),
		enums:   make(map[string]*Enum),
		structs: make(map[string]*Struct),
	}
}

// SetHostVersion overrides the reported host version.
func (m *Memory) SetHostVersion(v string) { m.version = v }

// AddClass registers c. A class with the same path replaces the earlier
// registration in place, so snapshots can patch the builtin table.
func (m *Memory) AddClass(c Class) error {
	if c.Name == "" {
		c.Name = ShortName(c.Path)
	}
	if c.Name == "" {
		return fmt.Errorf("class has neither name nor path")
	}
	if c.Path == "" {
		c.Path = c.Name
	}
	cp := c
	if old, ok := m.byPath[c.Path]; ok {
		*old = cp
		m.byName[cp.Name] = old
		return nil
	}
	m.classes = append(m.classes, &cp)
	m.byPath[cp.Path] = &cp
	if _, taken := m.byName[cp.Name]; !taken {
		m.byName[cp.Name] = &cp
	}
	return nil
}

// AddEnum registers an enum.
func (m *Memory) AddEnum(e Enum) {
	cp := e
	if cp.Name == "" {
		cp.Name = ShortName(cp.Path)
	}
	m.enums[cp.Path] = &cp
	m.enums[cp.Name] = &cp
}

// AddStruct registers a struct.
func (m *Memory) AddStruct(s Struct) {
	cp := s
	if cp.Name == "" {
		cp.Name = ShortName(cp.Path)
	}
	m.structs[cp.Path] = &cp
	m.structs[cp.Name] = &cp
}

// ClassByPath implements [Registry].
func (m *Memory) ClassByPath(path string) *Class {
	return m.byPath[path]
}

// FindClassByName implements [Registry]. A path is accepted as well.
func (m *Memory) FindClassByName(name string) *Class {
	if c, ok := m.byName[name]; ok {
		return c
	}
	if strings.ContainsAny(name, "/.") {
		return m.byPath[name]
	}
	return nil
}

// lookup resolves a class reference given either as path or short name.
func (m *Memory) lookup(ref string) *Class {
	if c := m.byPath[ref]; c != nil {
		return c
	}
	return m.byName[ref]
}

// super returns the parent of c, or nil.
func (m *Memory) super(c *Class) *Class {
	if c == nil || c.Super == "" {
		return nil
	}
	return m.lookup(c.Super)
}

// FunctionOnClass implements [Registry].
func (m *Memory) FunctionOnClass(c *Class, name string, includeSuper bool) *Function {
	for depth := 0; c != nil && depth < maxDepth; depth++ {
		for i := range c.Functions {
			if c.Functions[i].Name == name {
				return &c.Functions[i]
			}
		}
		if !includeSuper {
			return nil
		}
		c = m.super(c)
	}
	return nil
}

// PropertyOnClass implements [Registry].
func (m *Memory) PropertyOnClass(c *Class, name string, includeSuper bool) *Property {
	for depth := 0; c != nil && depth < maxDepth; depth++ {
		for i := range c.Properties {
			if c.Properties[i].Name == name {
				return &c.Properties[i]
			}
		}
		if !includeSuper {
			return nil
		}
		c = m.super(c)
	}
	return nil
}

// Classes implements [Registry].
func (m *Memory) Classes() []*Class {
	out := make([]*Class, len(m.classes))
	copy(out, m.classes)
	return out
}

// ConcreteNodeClasses implements [Registry].
func (m *Memory) ConcreteNodeClasses() []*Class {
	var out []*Class
	for _, c := range m.classes {
		if c.Abstract || c.Name == NodeBaseClass {
			continue
		}
		if m.IsDescendantOf(c, NodeBaseClass) {
			out = append(out, c)
		}
	}
	return out
}

// IsDescendantOf implements [Registry].
func (m *Memory) IsDescendantOf(c *Class, ancestor string) bool {
	for depth := 0; c != nil && depth < maxDepth; depth++ {
		if c.Name == ancestor || c.Path == ancestor {
			return true
		}
		c = m.super(c)
	}
	return false
}

// ClassMeta implements [Registry].
func (m *Memory) ClassMeta(c *Class, key string) (string, bool) {
	if c == nil || c.Meta == nil {
		return "", false
	}
	v, ok := c.Meta[key]
	return v, ok
}

// EnumByPath implements [Registry].
func (m *Memory) EnumByPath(path string) *Enum {
	return m.enums[path]
}

// StructByPath implements [Registry].
func (m *Memory) StructByPath(path string) *Struct {
	return m.structs[path]
}

// HostVersion implements [Registry].
func (m *Memory) HostVersion() string {
	return m.version
}

// Ensure Memory implements Registry.
var _ Registry = (*Memory)(nil)
