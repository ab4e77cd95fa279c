package pintype

import (
	"strings"

	"github.com/matzehuels/bpserial/pkg/errors"
)

// Parse reads the textual form of a pin type. Grammar violations return an
// *errors.Error with code MALFORMED_TYPE.
func Parse(s string) (Type, error) {
	if s == "" {
		return Type{}, errors.New(errors.ErrCodeMalformedType, "empty pin type")
	}

	p := parser{src: s}
	text := s
	isRef := false
	if strings.HasSuffix(text, "&") {
		isRef = true
		p.end = len(text) - 1
	} else {
		p.end = len(text)
	}

	t, err := p.parseElem()
	if err != nil {
		return Type{}, err
	}
	if p.pos != p.end {
		return Type{}, p.errorf("unexpected %q", p.src[p.pos:p.end])
	}
	t.IsRef = isRef
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tables and tests.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src string
	pos int
	end int
}

func (p *parser) errorf(format string, args ...any) error {
	e := errors.New(errors.ErrCodeMalformedType, format, args...)
	e.Message = "pin type " + quote(p.src) + ": " + e.Message
	return e
}

func quote(s string) string {
	return "\"" + s + "\""
}

func (p *parser) rest() string {
	return p.src[p.pos:p.end]
}

func (p *parser) parseElem() (Type, error) {
	rest := p.rest()
	for c, name := range containerNames {
		prefix := name + "<"
		if !strings.HasPrefix(rest, prefix) {
			continue
		}
		p.pos += len(prefix)
		elem, err := p.parseElem()
		if err != nil {
			return Type{}, err
		}
		t := Type{Container: c, Elem: &elem}
		if c == Map {
			if !p.consume(',') {
				return Type{}, p.errorf("Map needs a key and a value type")
			}
			value, err := p.parseElem()
			if err != nil {
				return Type{}, err
			}
			t.Value = &value
		}
		if !p.consume('>') {
			return Type{}, p.errorf("missing '>' after %s element", name)
		}
		return t, nil
	}
	return p.parseBase()
}

func (p *parser) consume(ch byte) bool {
	if p.pos < p.end && p.src[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseBase() (Type, error) {
	start := p.pos
	for p.pos < p.end && !isDelim(p.src[p.pos]) && p.src[p.pos] != ':' {
		p.pos++
	}
	category := p.src[start:p.pos]
	if category == "" {
		return Type{}, p.errorf("missing category")
	}
	if !validCategory(category) {
		return Type{}, p.errorf("invalid category %q", category)
	}

	t := Type{Category: category}
	if !p.consume(':') {
		return t, nil
	}

	start = p.pos
	for p.pos < p.end && !isDelim(p.src[p.pos]) {
		p.pos++
	}
	t.SubType = p.src[start:p.pos]
	if t.SubType == "" {
		return Type{}, p.errorf("empty sub-type after ':'")
	}
	if !validSubType(t.SubType) {
		return Type{}, p.errorf("invalid sub-type %q", t.SubType)
	}
	return t, nil
}

func isDelim(ch byte) bool {
	return ch == '<' || ch == '>' || ch == ',' || ch == '&'
}
