// Package translate lowers one compilation unit of a deck into the
// statements of its module body.
//
// Every unit gets its own term.Store. Tasks, hooks and nested task bonds
// fork a child frame of the frame they appear in, so closures see the
// symbols of their enclosing scope through the chain.
package translate

import (
	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/resolve"
	"github.com/lhaig/deck/internal/term"
)

// ModuleParam is the parameter name of every module body function.
const ModuleParam = "file"

// Unit is the translated body of one compilation unit.
type Unit struct {
	Road string
	Body []jsast.Stmt
}

type translator struct {
	unit   resolve.Unit
	file   *deck.File
	store  *term.Store
	native bool // calls name native operations
}

// File translates one worklist unit. Any malformed node aborts the unit;
// the returned error is a *diagnostic.CompileError carrying the road.
func File(unit resolve.Unit) (*Unit, error) {
	t := &translator{
		unit:  unit,
		file:  unit.File,
		store: term.NewStore(),
	}
	body, err := t.translate()
	if err != nil {
		return nil, diagnostic.InRoad(err, unit.Road)
	}
	return &Unit{Road: unit.Road, Body: body}, nil
}

// sections collects the translated parts of a unit before they are laid
// out in kind-specific order.
type sections struct {
	imports []jsast.Stmt
	forms   []jsast.Stmt
	tasks   []jsast.Stmt
	stems   []jsast.Stmt
	zones   []jsast.Stmt
}

func (t *translator) translate() ([]jsast.Stmt, error) {
	var s sections
	var err error
	f := t.file

	switch f.Kind {
	case deck.KindBase, deck.KindMill:
		if s.imports, err = t.imports(); err != nil {
			return nil, err
		}
		t.declareTasks()
		if s.forms, err = t.forms(); err != nil {
			return nil, err
		}
		if s.tasks, err = t.tasks(); err != nil {
			return nil, err
		}
		if s.stems, err = t.stems("~stem"); err != nil {
			return nil, err
		}
		if s.zones, err = t.zones(term.Root, f.Zone); err != nil {
			return nil, err
		}

		body := append([]jsast.Stmt{}, s.imports...)
		body = append(body, t.callTable()...)
		if len(f.Stem) > 0 {
			body = append(body, knit("~stem"))
		}
		if len(f.Form) > 0 {
			body = append(body, knit("~form/~name"))
		}
		body = append(body, s.forms...)
		body = append(body, s.tasks...)
		body = append(body, t.dispatch()...)
		body = append(body, s.stems...)
		return append(body, s.zones...), nil

	case deck.KindDock:
		if s.imports, err = t.imports(); err != nil {
			return nil, err
		}
		if s.forms, err = t.forms(); err != nil {
			return nil, err
		}
		if s.tasks, err = t.nativeTasks(); err != nil {
			return nil, err
		}
		if s.zones, err = t.zones(term.Root, f.Zone); err != nil {
			return nil, err
		}

		body := append([]jsast.Stmt{}, s.imports...)
		body = append(body, t.callTable()...)
		body = append(body, s.forms...)
		body = append(body, s.tasks...)
		body = append(body, t.dispatch()...)
		return append(body, s.zones...), nil

	case deck.KindForm:
		if s.imports, err = t.imports(); err != nil {
			return nil, err
		}
		if s.forms, err = t.forms(); err != nil {
			return nil, err
		}
		body := append([]jsast.Stmt{}, s.imports...)
		if len(f.Form) > 0 {
			body = append(body, knit("~form/~name"))
		}
		return append(body, s.forms...), nil

	case deck.KindMine:
		if s.stems, err = t.stems("~stem"); err != nil {
			return nil, err
		}
		var body []jsast.Stmt
		if len(f.Stem) > 0 {
			body = append(body, knit("~stem"))
		}
		return append(body, s.stems...), nil

	case deck.KindCall:
		if s.imports, err = t.imports(); err != nil {
			return nil, err
		}
		if s.zones, err = t.zones(term.Root, f.Zone); err != nil {
			return nil, err
		}
		body := append([]jsast.Stmt{}, s.imports...)
		body = append(body, t.callTable()...)
		body = append(body, t.dispatch()...)
		return append(body, s.zones...), nil

	case deck.KindFeed:
		if s.imports, err = t.imports(); err != nil {
			return nil, err
		}
		if s.stems, err = t.stems("~feed"); err != nil {
			return nil, err
		}
		body := append([]jsast.Stmt{}, s.imports...)
		body = append(body, knit("~feed"))
		return append(body, s.stems...), nil

	case deck.KindTest:
		if s.imports, err = t.imports(); err != nil {
			return nil, err
		}
		t.declareTasks()
		if s.tasks, err = t.tasks(); err != nil {
			return nil, err
		}
		tests, err := t.tests()
		if err != nil {
			return nil, err
		}
		body := append([]jsast.Stmt{}, s.imports...)
		body = append(body, t.callTable()...)
		body = append(body, s.tasks...)
		body = append(body, t.dispatch()...)
		return append(body, tests...), nil

	case deck.KindLace:
		laces, err := t.laces()
		if err != nil {
			return nil, err
		}
		body := []jsast.Stmt{knit("~lace")}
		return append(body, laces...), nil

	default:
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "file",
			"unknown file kind %q", f.Kind)
	}
}

// callTable declares the per-file dispatch array when any call slot was
// allocated. It must be built after every section has been translated.
func (t *translator) callTable() []jsast.Stmt {
	size := t.store.Size(term.Call)
	if size == 0 {
		return nil
	}
	return []jsast.Stmt{
		jsast.Const(jsast.Ident("call"), jsast.New(jsast.Ident("Array"), jsast.Int(size))),
		jsast.ExprStmt(jsast.MethodCall(jsast.Ident(ModuleParam), "save", jsast.Str("~call"), jsast.Ident("call"))),
	}
}

// dispatch binds every call slot to the task registered under its key.
func (t *translator) dispatch() []jsast.Stmt {
	var out []jsast.Stmt
	for i, key := range t.store.Keys(term.Call) {
		out = append(out, jsast.ExprStmt(jsast.Assign(
			callSlot(i),
			jsast.MethodCall(jsast.Ident(ModuleParam), "task", jsast.Str(key)),
		)))
	}
	return out
}

func callSlot(i int) jsast.Expr {
	return jsast.Index(jsast.Ident("call"), jsast.Int(i))
}

func knit(line string) jsast.Stmt {
	return jsast.ExprStmt(jsast.MethodCall(jsast.Ident(ModuleParam), "knit", jsast.Str(line)))
}

func save(line string, value jsast.Expr) jsast.Stmt {
	return jsast.ExprStmt(jsast.MethodCall(jsast.Ident(ModuleParam), "save", jsast.Str(line), value))
}

func (t *translator) stems(section string) ([]jsast.Stmt, error) {
	var out []jsast.Stmt
	for _, stem := range t.file.Stem {
		if stem.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "stem", "stem has no name")
		}
		value, err := t.bond(term.Root, stem.Bond)
		if err != nil {
			return nil, err
		}
		out = append(out, save(section+"/~"+stem.Name, value))
	}
	return out, nil
}

func (t *translator) laces() ([]jsast.Stmt, error) {
	var out []jsast.Stmt
	for _, lace := range t.file.Lace {
		if lace.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "lace", "lace has no name")
		}
		value, err := t.bond(term.Root, lace.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, save("~lace/~"+lace.Name, value))
	}
	return out, nil
}

// tests registers each named task, local or taken from an import.
func (t *translator) tests() ([]jsast.Stmt, error) {
	var out []jsast.Stmt
	for _, test := range t.file.Test {
		if test.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "test", "test has no name")
		}
		task, ok := t.store.Lookup(term.Root, term.Host, test.Name)
		if !ok {
			return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "test "+test.Name,
				"test names unknown task %q", test.Name)
		}
		out = append(out, jsast.ExprStmt(jsast.MethodCall(
			jsast.Ident(ModuleParam), "test", jsast.Str(test.Name), jsast.Ident(task.String()),
		)))
	}
	return out, nil
}
