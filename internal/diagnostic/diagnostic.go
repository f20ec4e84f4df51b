package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single problem found in a deck.
// The IR carries no source positions, so a diagnostic is located by the
// road of the file it concerns and a short description of the node.
type Diagnostic struct {
	Severity Severity
	Message  string
	Road     string // optional road of the offending file
	Node     string // optional node shape, e.g. "task greet" or "bond form=wat"
	Hint     string // optional suggestion
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(road, node string, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Road:     road,
		Node:     node,
	})
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(road, node string, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Road:     road,
		Node:     node,
	})
}

// WarningWithHint adds a warning diagnostic with an optional hint
func (d *Diagnostics) WarningWithHint(road, node, msg, hint string) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  msg,
		Road:     road,
		Node:     node,
		Hint:     hint,
	})
}

// Add records a fatal compile error as an error diagnostic.
func (d *Diagnostics) Add(err *CompileError) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  err.Kind.String() + ": " + err.Message,
		Road:     err.Road,
		Node:     err.Node,
	})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

// Format returns human-readable messages, one per line.
// Output format:
//
//	error[@app/main](task greet): empty link name
//	  hint: did you mean 'y'?
//	warning[@app/lib]: unused import
func (d *Diagnostics) Format() string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, item := range d.items {
		builder.WriteString(item.Severity.String())
		if item.Road != "" {
			builder.WriteString(fmt.Sprintf("[%s]", item.Road))
		}
		if item.Node != "" {
			builder.WriteString(fmt.Sprintf("(%s)", item.Node))
		}
		builder.WriteString(": ")
		builder.WriteString(item.Message)

		if item.Hint != "" {
			builder.WriteString(fmt.Sprintf("\n  hint: %s", item.Hint))
		}

		// Add newline unless it's the last item
		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
