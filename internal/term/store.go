// Package term assigns collision-free symbols to names across nested
// lexical frames.
//
// A Store is an arena of frames addressed by index. Frame 0 is the root
// and owns one counter per namespace; every other frame chains to a
// parent and only records the names seen or declared in it.
package term

import "fmt"

// Namespace partitions the symbols a Store hands out.
type Namespace int

const (
	// Host holds locals, parameters and task names: host_<n>.
	Host Namespace = iota
	// File holds imported-unit handles: file_<n>.
	File
	// Call holds slots of the per-file dispatch array: call[<n>].
	Call
)

func (ns Namespace) String() string {
	switch ns {
	case Host:
		return "host"
	case File:
		return "file"
	case Call:
		return "call"
	default:
		return "unknown"
	}
}

// Term is a resolved symbol.
type Term struct {
	Namespace Namespace
	Index     int // 1-based for host and file, 0-based slot for call
}

// String renders the term as it appears in generated code.
func (t Term) String() string {
	switch t.Namespace {
	case Call:
		return fmt.Sprintf("call[%d]", t.Index)
	default:
		return fmt.Sprintf("%s_%d", t.Namespace, t.Index)
	}
}

// Frame addresses a scope frame in a Store.
type Frame int

// Root is the frame created by NewStore.
const Root Frame = 0

type frame struct {
	parent Frame // -1 for the root
	names  [3]map[string]Term
}

// Store holds the frames of one compilation unit.
type Store struct {
	frames []*frame
	count  [3]int
	order  [3][]string // first-seen keys in allocation order
	calls  map[string]Term
}

// NewStore returns a store holding only the root frame.
func NewStore() *Store {
	s := &Store{calls: make(map[string]Term)}
	s.frames = append(s.frames, newFrame(-1))
	return s
}

func newFrame(parent Frame) *frame {
	f := &frame{parent: parent}
	for i := range f.names {
		f.names[i] = make(map[string]Term)
	}
	return f
}

// Fork creates a child frame chained to parent.
func (s *Store) Fork(parent Frame) Frame {
	s.frames = append(s.frames, newFrame(parent))
	return Frame(len(s.frames) - 1)
}

// Resolve returns the symbol for key as seen from f. Host and file names
// are looked up along the chain; a miss allocates a fresh symbol owned by
// the root frame and also records it in f, so every frame that later
// resolves the same free name shares it. Call keys get one slot per store
// regardless of f.
func (s *Store) Resolve(f Frame, ns Namespace, key string) Term {
	if ns == Call {
		if t, ok := s.calls[key]; ok {
			return t
		}
		t := s.alloc(ns, key)
		s.calls[key] = t
		return t
	}

	if t, ok := s.Lookup(f, ns, key); ok {
		s.frames[f].names[ns][key] = t
		return t
	}
	t := s.alloc(ns, key)
	s.frames[Root].names[ns][key] = t
	s.frames[f].names[ns][key] = t
	return t
}

// Declare allocates a fresh symbol for key and records it in f only, so
// it shadows any same-named key of an outer frame.
func (s *Store) Declare(f Frame, ns Namespace, key string) Term {
	if ns == Call {
		return s.Resolve(f, ns, key)
	}
	t := s.alloc(ns, key)
	s.frames[f].names[ns][key] = t
	return t
}

// Lookup walks the chain from f without allocating.
func (s *Store) Lookup(f Frame, ns Namespace, key string) (Term, bool) {
	if ns == Call {
		t, ok := s.calls[key]
		return t, ok
	}
	for cur := f; cur >= 0; cur = s.frames[cur].parent {
		if t, ok := s.frames[cur].names[ns][key]; ok {
			return t, true
		}
	}
	return Term{}, false
}

// Size returns how many symbols ns has allocated.
func (s *Store) Size(ns Namespace) int {
	return s.count[ns]
}

// Keys returns the keys of ns in allocation order. A key declared more
// than once appears once per declaration.
func (s *Store) Keys(ns Namespace) []string {
	out := make([]string, len(s.order[ns]))
	copy(out, s.order[ns])
	return out
}

func (s *Store) alloc(ns Namespace, key string) Term {
	var t Term
	if ns == Call {
		t = Term{Namespace: ns, Index: s.count[ns]}
	} else {
		t = Term{Namespace: ns, Index: s.count[ns] + 1}
	}
	s.count[ns]++
	s.order[ns] = append(s.order[ns], key)
	return t
}
