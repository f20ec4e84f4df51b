package translate

import (
	"encoding/json"
	"strings"

	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/native"
	"github.com/lhaig/deck/internal/term"
)

func (t *translator) bond(scope term.Frame, b deck.Bond) (jsast.Expr, error) {
	switch b := b.(type) {
	case *deck.Text:
		return jsast.Str(strings.Join(b.Parts, "")), nil

	case *deck.Size:
		if b.Raw == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "size", "size has no value")
		}
		return jsast.Num(b.Raw), nil

	case *deck.Link:
		if b.Ref == nil {
			return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "link", "link has no target")
		}
		return t.ref(scope, b.Ref)

	case *deck.Call:
		if t.native {
			node, err := native.Lower(lowerer{t: t, scope: scope}, b)
			if err != nil {
				return nil, err
			}
			e, ok := node.(jsast.Expr)
			if !ok {
				return nil, diagnostic.Errorf(diagnostic.MalformedNode, "call "+b.Name.String(),
					"operation %s yields a statement and cannot be used as a value", b.Name)
			}
			return awaited(e, b.Wait), nil
		}
		return t.call(scope, b)

	case *deck.TaskBond:
		if b.Task == nil {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "task", "task bond has no task")
		}
		params, body, err := t.function(scope, b.Task.Link, b.Task.Zone)
		if err != nil {
			return nil, err
		}
		return jsast.Func(nil, params, body, b.Task.Wait), nil

	case *deck.Make:
		props := make([]*jsast.Property, 0, len(b.Bind))
		for _, bind := range b.Bind {
			value, err := t.bond(scope, bind.Bond)
			if err != nil {
				return nil, err
			}
			props = append(props, jsast.Prop(bind.Name, value))
		}
		return jsast.Object(props...), nil

	case *deck.Loan:
		if b.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "loan", "loan has no name")
		}
		return jsast.Ident(t.store.Resolve(scope, term.Host, b.Name).String()), nil

	case *deck.LoanNest:
		return t.nest(scope, b.Nest)

	case *deck.ReadNest:
		return t.nest(scope, b.Nest)

	case *deck.List:
		items := make([]jsast.Expr, 0, len(b.Items))
		for _, item := range b.Items {
			e, err := t.bond(scope, item)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
		return jsast.Array(items...), nil

	case *deck.Record:
		props := make([]*jsast.Property, 0, len(b.Fields))
		for _, f := range b.Fields {
			value, err := t.bond(scope, f.Value)
			if err != nil {
				return nil, err
			}
			props = append(props, jsast.Prop(f.Name, value))
		}
		return jsast.Object(props...), nil

	case *deck.Scalar:
		return scalar(b)

	case *deck.UnknownBond:
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "bond "+b.Form,
			"no translation for bond form %q", b.Form)

	case nil:
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "bond", "missing bond")

	default:
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "bond",
			"no translation for bond %T", b)
	}
}

func scalar(s *deck.Scalar) (jsast.Expr, error) {
	switch v := s.Value.(type) {
	case nil:
		return jsast.Null(), nil
	case string:
		return jsast.Str(v), nil
	case bool:
		return jsast.Bool(v), nil
	case json.Number:
		return jsast.Num(v.String()), nil
	default:
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "bond",
			"unsupported literal %T", v)
	}
}

// ref lowers a link or save target.
func (t *translator) ref(scope term.Frame, r *deck.Ref) (jsast.Expr, error) {
	if r.Nest != nil {
		return t.nest(scope, r.Nest)
	}
	if r.Host == "" {
		return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "link", "link has no name")
	}
	return jsast.Ident(t.store.Resolve(scope, term.Host, r.Host).String()), nil
}

// nest lowers a path chain. The base site resolves through the store
// unless it is a literal root; later steps are dotted members, or bracket
// members when the step is itself a chain.
func (t *translator) nest(scope term.Frame, n *deck.Nest) (jsast.Expr, error) {
	if n == nil || len(n.Steps) == 0 {
		return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "nest", "path is empty")
	}

	base := n.Steps[0]
	var e jsast.Expr
	switch {
	case base.Computed():
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "nest "+n.String(),
			"path must start with a site")
	case base.Name == "":
		return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "nest", "path site has no name")
	case base.Root:
		e = jsast.Ident(base.Name)
	default:
		e = jsast.Ident(t.store.Resolve(scope, term.Host, base.Name).String())
	}

	for _, step := range n.Steps[1:] {
		if step.Computed() {
			prop, err := t.nest(scope, step.Nest)
			if err != nil {
				return nil, err
			}
			e = jsast.Index(e, prop)
			continue
		}
		if step.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "nest "+n.String(),
				"path step has no name")
		}
		e = jsast.Member(e, step.Name)
	}
	return e, nil
}

// call lowers an ordinary invocation. Hooks become function arguments
// after the plain ones; a flat callee dispatches through a call slot.
func (t *translator) call(scope term.Frame, c *deck.Call) (jsast.Expr, error) {
	var callee jsast.Expr
	switch {
	case c.Name.Path != nil:
		e, err := t.nest(scope, c.Name.Path)
		if err != nil {
			return nil, err
		}
		callee = e
	case c.Name.Name != "":
		slot := t.store.Resolve(scope, term.Call, c.Name.Name)
		callee = callSlot(slot.Index)
	default:
		return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "call", "call has no callee")
	}

	args := make([]jsast.Expr, 0, len(c.Bind)+len(c.Hook))
	for _, bind := range c.Bind {
		arg, err := t.bond(scope, bind.Bond)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	for _, hook := range c.Hook {
		params, body, err := t.function(scope, hook.Link, hook.Zone)
		if err != nil {
			return nil, err
		}
		args = append(args, jsast.Func(nil, params, body, waits(hook.Zone)))
	}

	return awaited(jsast.Call(callee, args...), c.Wait), nil
}
