// Package diag defines the diagnostics produced by the decoder and validator.
//
// A [Diagnostic] is a (severity, location, message) record. The location is
// an optional node GUID plus an optional property name; the code is one of
// the taxonomy codes from [errors.Code]. Diagnostics are collected, never
// thrown: every public entry point returns its result together with a
// [List] and lets the caller decide what to do with it.
package diag

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bpserial/pkg/errors"
)

// Severity ranks a diagnostic. Only [Error] makes a document invalid.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

var severityNames = map[Severity]string{
	Info:    "INFO",
	Warning: "WARNING",
	Error:   "ERROR",
}

// String returns the upper-case label used in CLI output ("ERROR", "WARNING", "INFO").
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText encodes the severity as its lower-case label.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText parses a label produced by MarshalText (case-insensitive).
func (s *Severity) UnmarshalText(b []byte) error {
	for sev, name := range severityNames {
		if strings.EqualFold(name, string(b)) {
			*s = sev
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", b)
}

// Diagnostic is a single issue found in a document or raised while decoding it.
type Diagnostic struct {
	Severity Severity    `json:"severity"`
	Code     errors.Code `json:"code,omitempty"`
	NodeGUID string      `json:"nodeGuid,omitempty"`
	Property string      `json:"propertyName,omitempty"`
	Message  string      `json:"message"`
}

// String formats the diagnostic as "[SEVERITY] Node <guid>: <message>", or
// "[SEVERITY] <message>" when the diagnostic is not attached to a node.
func (d Diagnostic) String() string {
	if d.NodeGUID != "" {
		return fmt.Sprintf("[%s] Node %s: %s", d.Severity, d.NodeGUID, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends a diagnostic built from the arguments.
func (l *List) Add(sev Severity, code errors.Code, nodeGUID, property, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Severity: sev,
		Code:     code,
		NodeGUID: nodeGUID,
		Property: property,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Errorf appends an Error-severity diagnostic.
func (l *List) Errorf(code errors.Code, nodeGUID, property, format string, args ...any) {
	l.Add(Error, code, nodeGUID, property, format, args...)
}

// Warnf appends a Warning-severity diagnostic.
func (l *List) Warnf(code errors.Code, nodeGUID, property, format string, args ...any) {
	l.Add(Warning, code, nodeGUID, property, format, args...)
}

// Infof appends an Info-severity diagnostic.
func (l *List) Infof(code errors.Code, nodeGUID, property, format string, args ...any) {
	l.Add(Info, code, nodeGUID, property, format, args...)
}

// FromError appends err as a diagnostic, keeping its code when err is an *errors.Error.
func (l *List) FromError(sev Severity, nodeGUID, property string, err error) {
	if err == nil {
		return
	}
	l.Add(sev, errors.GetCode(err), nodeGUID, property, "%s", errors.UserMessage(err))
}

// HasErrors reports whether any diagnostic has Error severity.
func (l List) HasErrors() bool {
	return l.Count(Error) > 0
}

// Count returns the number of diagnostics with the given severity.
func (l List) Count(sev Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// WithCode returns the diagnostics carrying the given code, in order.
func (l List) WithCode(code errors.Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}
