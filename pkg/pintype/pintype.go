package pintype

import (
	"strings"

	"github.com/matzehuels/bpserial/pkg/errors"
)

// Container identifies how a pin type wraps its element type.
type Container int

const (
	None Container = iota
	Array
	Set
	Map
)

var containerNames = map[Container]string{
	Array: "Array",
	Set:   "Set",
	Map:   "Map",
}

// String returns the container keyword, or "" for None.
func (c Container) String() string {
	return containerNames[c]
}

// Common categories. The category set is open; these are the ones other
// packages refer to by name.
const (
	CategoryExec      = "exec"
	CategoryBool      = "bool"
	CategoryInt       = "int"
	CategoryFloat     = "float"
	CategoryDouble    = "double"
	CategoryName      = "name"
	CategoryString    = "string"
	CategoryText      = "text"
	CategoryObject    = "object"
	CategoryClass     = "class"
	CategoryStruct    = "struct"
	CategoryEnum      = "enum"
	CategoryByte      = "byte"
	CategoryInterface = "interface"
	CategoryDelegate  = "delegate"
	CategoryWildcard  = "wildcard"
)

// Type is a parsed pin type.
//
// For a plain type Container is None and Category/SubType are set. For a
// container type Elem holds the element (or key) type, Value holds the map
// value type, and Category/SubType are empty.
type Type struct {
	Container Container
	Category  string
	SubType   string
	Elem      *Type
	Value     *Type
	IsRef     bool
}

// Base returns a plain type with the given category and optional sub-type.
func Base(category, subType string) Type {
	return Type{Category: category, SubType: subType}
}

// ArrayOf returns Array<elem>.
func ArrayOf(elem Type) Type {
	return Type{Container: Array, Elem: &elem}
}

// SetOf returns Set<elem>.
func SetOf(elem Type) Type {
	return Type{Container: Set, Elem: &elem}
}

// MapOf returns Map<key,value>.
func MapOf(key, value Type) Type {
	return Type{Container: Map, Elem: &key, Value: &value}
}

// Ref returns a copy of t marked as passed by reference.
func (t Type) Ref() Type {
	t.IsRef = true
	return t
}

// IsZero reports whether t carries no information.
func (t Type) IsZero() bool {
	return t.Container == None && t.Category == "" && t.SubType == "" && !t.IsRef
}

// IsExec reports whether t is an execution pin type.
func (t Type) IsExec() bool {
	return t.Container == None && t.Category == CategoryExec
}

// String emits the textual form of t. It is total: it never fails, even for
// types that Valid rejects.
func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	if t.IsRef {
		b.WriteByte('&')
	}
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	switch t.Container {
	case Array, Set:
		b.WriteString(t.Container.String())
		b.WriteByte('<')
		elemOrEmpty(t.Elem).write(b)
		b.WriteByte('>')
	case Map:
		b.WriteString("Map<")
		elemOrEmpty(t.Elem).write(b)
		b.WriteByte(',')
		elemOrEmpty(t.Value).write(b)
		b.WriteByte('>')
	default:
		b.WriteString(t.Category)
		if t.SubType != "" {
			b.WriteByte(':')
			b.WriteString(t.SubType)
		}
	}
}

func elemOrEmpty(t *Type) Type {
	if t == nil {
		return Type{}
	}
	return *t
}

// Equal reports whether t and o describe the same type.
func (t Type) Equal(o Type) bool {
	if t.Container != o.Container || t.Category != o.Category || t.SubType != o.SubType || t.IsRef != o.IsRef {
		return false
	}
	return equalPtr(t.Elem, o.Elem) && equalPtr(t.Value, o.Value)
}

func equalPtr(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Valid reports whether t satisfies the grammar, so that String produces
// text Parse accepts. Map types need both a key and a value; Array and Set
// need only an element.
func (t Type) Valid() error {
	return t.valid(true)
}

func (t Type) valid(top bool) error {
	if !top && t.IsRef {
		return errors.New(errors.ErrCodeMalformedType, "reference marker is only allowed on the outer type")
	}
	switch t.Container {
	case None:
		if t.Elem != nil || t.Value != nil {
			return errors.New(errors.ErrCodeMalformedType, "plain type %q has element types", t.Category)
		}
		if !validCategory(t.Category) {
			return errors.New(errors.ErrCodeMalformedType, "invalid category %q", t.Category)
		}
		if t.SubType != "" && !validSubType(t.SubType) {
			return errors.New(errors.ErrCodeMalformedType, "invalid sub-type %q", t.SubType)
		}
		return nil
	case Array, Set:
		if t.Elem == nil {
			return errors.New(errors.ErrCodeMalformedType, "%s has no element type", t.Container)
		}
		if t.Value != nil {
			return errors.New(errors.ErrCodeMalformedType, "%s takes a single element type", t.Container)
		}
	case Map:
		if t.Elem == nil || t.Value == nil {
			return errors.New(errors.ErrCodeMalformedType, "Map needs both key and value types")
		}
	default:
		return errors.New(errors.ErrCodeMalformedType, "unknown container %d", int(t.Container))
	}
	if t.Category != "" || t.SubType != "" {
		return errors.New(errors.ErrCodeMalformedType, "container type carries a category")
	}
	if err := t.Elem.valid(false); err != nil {
		return err
	}
	if t.Value != nil {
		return t.Value.valid(false)
	}
	return nil
}

// Sanitize returns a copy of t with every sub-type that the grammar cannot
// carry removed. Containers missing an element become wildcards.
func (t Type) Sanitize() Type {
	out := t
	switch t.Container {
	case None:
		if !validCategory(out.Category) {
			out.Category = CategoryWildcard
		}
		if out.SubType != "" && !validSubType(out.SubType) {
			out.SubType = ""
		}
		out.Elem, out.Value = nil, nil
		return out
	case Map:
		v := sanitizeElem(t.Value)
		out.Value = &v
	default:
		out.Value = nil
	}
	e := sanitizeElem(t.Elem)
	out.Elem = &e
	out.Category, out.SubType = "", ""
	return out
}

func sanitizeElem(t *Type) Type {
	if t == nil {
		return Base(CategoryWildcard, "")
	}
	e := t.Sanitize()
	e.IsRef = false
	return e
}

func validCategory(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func validSubType(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, ",<>& \t\r\n")
}
