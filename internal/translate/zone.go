package translate

import (
	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/native"
	"github.com/lhaig/deck/internal/term"
)

// tasks emits each task as a hoisted function declaration named by its
// root-frame symbol, followed by its registration on the module.
func (t *translator) tasks() ([]jsast.Stmt, error) {
	var out []jsast.Stmt
	for _, task := range t.file.Task {
		if task.Loan {
			continue
		}
		if task.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "task", "task has no name")
		}
		params, body, err := t.function(term.Root, task.Link, task.Zone)
		if err != nil {
			return nil, err
		}
		id := t.store.Resolve(term.Root, term.Host, task.Name)
		out = append(out,
			jsast.FuncDecl(jsast.Ident(id.String()), params, body, task.Wait),
			jsast.ExprStmt(jsast.MethodCall(jsast.Ident(ModuleParam), "task",
				jsast.Str(task.Name), jsast.Ident(id.String()))),
		)
	}
	return out, nil
}

// nativeTasks registers the tasks of a native unit as anonymous
// functions. Calls inside them name native operations.
func (t *translator) nativeTasks() ([]jsast.Stmt, error) {
	t.native = true
	defer func() { t.native = false }()

	var out []jsast.Stmt
	for _, task := range t.file.Task {
		if task.Loan {
			continue
		}
		if task.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "task", "task has no name")
		}
		params, body, err := t.function(term.Root, task.Link, task.Zone)
		if err != nil {
			return nil, err
		}
		out = append(out, jsast.ExprStmt(jsast.MethodCall(jsast.Ident(ModuleParam), "task",
			jsast.Str(task.Name), jsast.Func(nil, params, body, task.Wait))))
	}
	return out, nil
}

// function translates a function-like body in a fresh child frame of
// scope. Parameters are declared there, so they shadow outer names.
func (t *translator) function(scope term.Frame, link []*deck.Param, zones []deck.Zone) ([]*jsast.Identifier, []jsast.Stmt, error) {
	child := t.store.Fork(scope)
	params := make([]*jsast.Identifier, 0, len(link))
	for _, p := range link {
		if p.Name == "" {
			return nil, nil, diagnostic.Errorf(diagnostic.MalformedNode, "link", "parameter has no name")
		}
		params = append(params, jsast.Ident(t.store.Declare(child, term.Host, p.Name).String()))
	}
	body, err := t.zones(child, zones)
	if err != nil {
		return nil, nil, err
	}
	return params, tail(body), nil
}

// tail makes the last statement of a function body its return value. An
// expression statement returns its expression and a declaration returns
// the declared local. Returns and control statements are left alone.
func tail(body []jsast.Stmt) []jsast.Stmt {
	if len(body) == 0 {
		return body
	}
	last := len(body) - 1
	switch s := body[last].(type) {
	case *jsast.ExpressionStatement:
		body[last] = jsast.Return(s.Expression)
	case *jsast.VariableDeclaration:
		id := s.Declarations[len(s.Declarations)-1].ID
		body = append(body, jsast.Return(jsast.Ident(id.Name)))
	}
	return body
}

func (t *translator) zones(scope term.Frame, zones []deck.Zone) ([]jsast.Stmt, error) {
	out := make([]jsast.Stmt, 0, len(zones))
	for _, z := range zones {
		stmt, err := t.zone(scope, z)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (t *translator) zone(scope term.Frame, z deck.Zone) (jsast.Stmt, error) {
	switch z := z.(type) {
	case *deck.Host:
		if z.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "host", "host has no name")
		}
		// Declared before the initializer so a local closure can call itself.
		id := t.store.Declare(scope, term.Host, z.Name)
		var init jsast.Expr
		if z.Bond != nil {
			value, err := t.bond(scope, z.Bond)
			if err != nil {
				return nil, err
			}
			init = value
		}
		return jsast.Let(jsast.Ident(id.String()), init), nil

	case *deck.Save:
		if z.Nest == nil {
			return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "save", "save has no target")
		}
		target, err := t.ref(scope, z.Nest)
		if err != nil {
			return nil, err
		}
		value, err := t.bond(scope, z.Bond)
		if err != nil {
			return nil, err
		}
		return jsast.ExprStmt(jsast.Assign(target, value)), nil

	case *deck.Turn:
		value, err := t.bond(scope, z.Bond)
		if err != nil {
			return nil, err
		}
		return jsast.Return(value), nil

	case *deck.Call:
		if t.native {
			node, err := native.Lower(lowerer{t: t, scope: scope}, z)
			if err != nil {
				return nil, err
			}
			if stmt, ok := node.(jsast.Stmt); ok {
				return stmt, nil
			}
			return jsast.ExprStmt(awaited(node.(jsast.Expr), z.Wait)), nil
		}
		call, err := t.call(scope, z)
		if err != nil {
			return nil, err
		}
		return jsast.ExprStmt(call), nil

	case *deck.UnknownZone:
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "zone "+z.Form,
			"no translation for zone form %q", z.Form)

	default:
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "zone",
			"no translation for zone %T", z)
	}
}

func awaited(e jsast.Expr, wait bool) jsast.Expr {
	if wait {
		return jsast.Await(e)
	}
	return e
}

// waits reports whether zones await a call outside any nested function,
// which makes the enclosing hook async.
func waits(zones []deck.Zone) bool {
	for _, z := range zones {
		switch z := z.(type) {
		case *deck.Host:
			if waitsIn(z.Bond) {
				return true
			}
		case *deck.Save:
			if waitsIn(z.Bond) {
				return true
			}
		case *deck.Turn:
			if waitsIn(z.Bond) {
				return true
			}
		case *deck.Call:
			if waitsIn(z) {
				return true
			}
		}
	}
	return false
}

func waitsIn(b deck.Bond) bool {
	switch b := b.(type) {
	case *deck.Call:
		if b.Wait {
			return true
		}
		for _, bind := range b.Bind {
			if waitsIn(bind.Bond) {
				return true
			}
		}
	case *deck.Make:
		for _, bind := range b.Bind {
			if waitsIn(bind.Bond) {
				return true
			}
		}
	case *deck.List:
		for _, item := range b.Items {
			if waitsIn(item) {
				return true
			}
		}
	case *deck.Record:
		for _, f := range b.Fields {
			if waitsIn(f.Value) {
				return true
			}
		}
	}
	return false
}

// lowerer gives the native table access to bond translation in one
// scope.
type lowerer struct {
	t     *translator
	scope term.Frame
}

func (l lowerer) Bond(b deck.Bond) (jsast.Expr, error) {
	return l.t.bond(l.scope, b)
}

func (l lowerer) CatchParam() *jsast.Identifier {
	child := l.t.store.Fork(l.scope)
	return jsast.Ident(l.t.store.Declare(child, term.Host, "~error").String())
}
