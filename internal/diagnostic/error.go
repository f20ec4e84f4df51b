package diagnostic

import "fmt"

// Kind classifies a fatal compile error.
type Kind int

const (
	// UnknownOperation: a native call names a transform that does not exist.
	UnknownOperation Kind = iota
	// MalformedNode: a zone, bond, file kind or role outside the accepted grammar.
	MalformedNode
	// UnresolvedReference: a link, path or import that cannot be resolved.
	UnresolvedReference
)

// String returns the string representation of the error kind
func (k Kind) String() string {
	switch k {
	case UnknownOperation:
		return "unknown operation"
	case MalformedNode:
		return "malformed node"
	case UnresolvedReference:
		return "unresolved reference"
	default:
		return "unknown"
	}
}

// CompileError is a fatal error that aborts a whole compile.
type CompileError struct {
	Kind    Kind
	Road    string // file being compiled, empty when not yet known
	Node    string // shape of the offending node
	Message string
}

func (e *CompileError) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.Node != "" {
		msg += " (" + e.Node + ")"
	}
	if e.Road != "" {
		msg += " in " + e.Road
	}
	return msg
}

// Errorf builds a CompileError of the given kind.
func Errorf(kind Kind, node string, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind:    kind,
		Node:    node,
		Message: fmt.Sprintf(format, args...),
	}
}

// InRoad sets the road on err if it is a CompileError without one and
// returns err unchanged otherwise.
func InRoad(err error, road string) error {
	if ce, ok := err.(*CompileError); ok && ce.Road == "" {
		ce.Road = road
	}
	return err
}
