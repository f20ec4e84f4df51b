package deck

import "strings"

// Deck is a whole input program: every compilation unit keyed by road.
type Deck struct {
	Lead  string           // road of the root file
	Files map[string]*File // road -> file
}

// Kind tags a file and selects the translation rules applied to it.
type Kind string

const (
	KindBase Kind = "base" // ordinary unit
	KindMill Kind = "mill" // ordinary unit, compiled like base
	KindDock Kind = "dock" // native unit: calls name primitive operations
	KindForm Kind = "form" // record definitions only
	KindMine Kind = "mine" // constant table
	KindCall Kind = "call" // top-level statement list
	KindFeed Kind = "feed"
	KindTest Kind = "test"
	KindLace Kind = "lace" // export table
)

// File is one compilation unit.
type File struct {
	Road string
	Kind Kind
	Load []*Load
	Task []*Task
	Form []*Form
	Zone []Zone // top-level statements
	Stem []*Stem
	Lace []*Lace
	Test []*Test
}

// Load is an import descriptor.
type Load struct {
	Road string
	Take []*Take // empty means re-export everything transitively
	Load []*Load // nested descriptors resolved against Road
}

// IsNamespaced reports whether the road is a package reference rather
// than a path relative to the importing unit.
func (l *Load) IsNamespaced() bool {
	return len(l.Road) > 0 && l.Road[0] == '@'
}

// Take selects one named binding of an imported unit.
type Take struct {
	Name string
	Save string // local alias, empty means Name
}

// Alias returns the local name the binding is saved under.
func (t *Take) Alias() string {
	if t.Save != "" {
		return t.Save
	}
	return t.Name
}

// Param is a parameter name of a task, hook or form field.
type Param struct {
	Name string
}

// Task is a named function.
type Task struct {
	Name string
	Link []*Param
	Zone []Zone
	Wait bool // asynchronous
	Loan bool // forward declaration stub ("task-loan")
}

// Form is a record (class-like) definition.
type Form struct {
	Name string
	Link []*Param // fields
	Task []*Task  // methods
}

// Stem is a named constant binding.
type Stem struct {
	Name string
	Bond Bond
}

// Lace is a named export-table entry holding an arbitrary literal value.
type Lace struct {
	Name  string
	Value Bond
}

// Test names a task to register as a test.
type Test struct {
	Name string
}

// --- Zones ---

// Zone is the interface for all IR statement nodes.
type Zone interface {
	zoneNode()
}

// Host declares and optionally initializes a local.
type Host struct {
	Name string
	Bond Bond // nil when declared uninitialized
}

func (*Host) zoneNode() {}

// Save assigns to a resolvable location.
type Save struct {
	Nest *Ref
	Bond Bond
}

func (*Save) zoneNode() {}

// Turn returns a value.
type Turn struct {
	Bond Bond
}

func (*Turn) zoneNode() {}

// UnknownZone is a statement whose form tag is not part of the grammar.
// It is kept so that translation, not decoding, reports the fault.
type UnknownZone struct {
	Form string
}

func (*UnknownZone) zoneNode() {}

// --- Bonds ---

// Bond is the interface for all IR expression nodes.
type Bond interface {
	bondNode()
}

// Text is a string literal made of literal fragments.
type Text struct {
	Parts []string
}

func (*Text) bondNode() {}

// Size is a numeric literal, kept in its source spelling.
type Size struct {
	Raw string
}

func (*Size) bondNode() {}

// Link is a reference to a local or to a dotted path.
type Link struct {
	Ref *Ref
}

func (*Link) bondNode() {}

// TaskBond is a nested function expression capturing the enclosing scope.
type TaskBond struct {
	Task *Task
}

func (*TaskBond) bondNode() {}

// Make is a structural literal built from named field bindings.
type Make struct {
	Bind []*Bind
}

func (*Make) bondNode() {}

// Loan references a name through the term store.
type Loan struct {
	Name string
}

func (*Loan) bondNode() {}

// LoanNest references a path chain.
type LoanNest struct {
	Nest *Nest
}

func (*LoanNest) bondNode() {}

// ReadNest reads through a path chain.
type ReadNest struct {
	Nest *Nest
}

func (*ReadNest) bondNode() {}

// List is an untagged array lowered to an array literal.
type List struct {
	Items []Bond
}

func (*List) bondNode() {}

// Record is an untagged key/value structure lowered to an object literal.
// Field order is the order of the source.
type Record struct {
	Fields []*Field
}

func (*Record) bondNode() {}

// Field is one entry of a Record.
type Field struct {
	Name  string
	Value Bond
}

// Scalar is a bare string, number, boolean or null inside a generic value.
type Scalar struct {
	Value interface{} // string, json.Number, bool or nil
}

func (*Scalar) bondNode() {}

// UnknownBond is an expression whose form tag is not part of the grammar.
type UnknownBond struct {
	Form string
}

func (*UnknownBond) bondNode() {}

// --- Calls ---

// Call is an invocation. It is both a Zone (expression statement) and a
// Bond (expression).
type Call struct {
	Name Callee
	Bind []*Bind
	Hook []*Hook
	Wait bool
}

func (*Call) zoneNode() {}
func (*Call) bondNode() {}

// Callee is either a flat name or a dotted path.
type Callee struct {
	Name string
	Path *Nest
}

// String returns the callee as written: a flat name or a dotted path.
func (c Callee) String() string {
	if c.Path != nil {
		return c.Path.String()
	}
	return c.Name
}

// Bind is one argument binding. In native units Name is the role.
type Bind struct {
	Name string
	Bond Bond
}

// Hook is a closure passed to a call.
type Hook struct {
	Link []*Param
	Zone []Zone
}

// --- Paths ---

// Ref is the target of a link or a save: a scope-resolved name (Host)
// or a path chain (Nest). Exactly one is set.
type Ref struct {
	Host string
	Nest *Nest
}

// Nest is a member-access chain: a base site followed by ordered steps.
type Nest struct {
	Steps []*Step
}

// String renders the chain as a.b[c.d] for error messages.
func (n *Nest) String() string {
	var sb strings.Builder
	for i, s := range n.Steps {
		switch {
		case s.Nest != nil:
			sb.WriteString("[" + s.Nest.String() + "]")
		case i == 0:
			sb.WriteString(s.Name)
		default:
			sb.WriteString("." + s.Name)
		}
	}
	return sb.String()
}

// Step is one segment of a Nest. A step holding a nested Nest is a
// computed (bracket) access; a named step is a static (dotted) access.
// Root marks a base site that is a literal identifier rather than a
// scope-resolved name.
type Step struct {
	Name string
	Root bool
	Nest *Nest
}

// Computed reports whether the step is a bracket access.
func (s *Step) Computed() bool {
	return s.Nest != nil
}
