// Package normalize renames the parameters and locals of every generated
// function to x1, x2, ... in declaration order.
//
// Each function gets its own mapping. A nested function starts from a
// copy of its parent's mapping and continues the parent's counter, so an
// inner local never takes a name the enclosing function already uses;
// sibling functions never see each other's names. Rewriting is in place.
package normalize

import (
	"fmt"

	"github.com/lhaig/deck/internal/jsast"
)

// Statements normalizes every function found in stmts. Each top-level
// statement starts a fresh numbering.
func Statements(stmts []jsast.Stmt) {
	for _, s := range stmts {
		n := &normalizer{names: make(map[string]string)}
		n.stmt(s)
	}
}

type normalizer struct {
	names map[string]string
	next  int
}

func (n *normalizer) function(params []*jsast.Identifier, body *jsast.BlockStatement) {
	inner := &normalizer{
		names: make(map[string]string, len(n.names)),
		next:  n.next,
	}
	for k, v := range n.names {
		inner.names[k] = v
	}

	var locals []string
	for _, p := range params {
		locals = append(locals, p.Name)
	}
	if body != nil {
		locals = collect(body.Body, locals)
	}

	seen := make(map[string]bool, len(locals))
	for _, name := range locals {
		if seen[name] {
			continue
		}
		seen[name] = true
		inner.next++
		inner.names[name] = fmt.Sprintf("x%d", inner.next)
	}

	for _, p := range params {
		inner.ident(p)
	}
	if body != nil {
		inner.block(body)
	}
}

// collect appends the names declared directly in stmts, without entering
// nested functions.
func collect(stmts []jsast.Stmt, names []string) []string {
	for _, s := range stmts {
		names = collectStmt(s, names)
	}
	return names
}

func collectStmt(s jsast.Stmt, names []string) []string {
	switch s := s.(type) {
	case *jsast.VariableDeclaration:
		for _, d := range s.Declarations {
			names = append(names, d.ID.Name)
		}
	case *jsast.BlockStatement:
		names = collect(s.Body, names)
	case *jsast.IfStatement:
		names = collectStmt(s.Consequent, names)
		if s.Alternate != nil {
			names = collectStmt(s.Alternate, names)
		}
	case *jsast.WhileStatement:
		names = collectStmt(s.Body, names)
	case *jsast.TryStatement:
		names = collect(s.Block.Body, names)
		if s.Handler != nil {
			if s.Handler.Param != nil {
				names = append(names, s.Handler.Param.Name)
			}
			names = collect(s.Handler.Body.Body, names)
		}
	}
	return names
}

func (n *normalizer) ident(id *jsast.Identifier) {
	if id == nil {
		return
	}
	if to, ok := n.names[id.Name]; ok {
		id.Name = to
	}
}

func (n *normalizer) block(b *jsast.BlockStatement) {
	for _, s := range b.Body {
		n.stmt(s)
	}
}

func (n *normalizer) stmt(s jsast.Stmt) {
	switch s := s.(type) {
	case *jsast.ExpressionStatement:
		n.expr(s.Expression)
	case *jsast.VariableDeclaration:
		for _, d := range s.Declarations {
			n.ident(d.ID)
			n.expr(d.Init)
		}
	case *jsast.ReturnStatement:
		n.expr(s.Argument)
	case *jsast.BlockStatement:
		n.block(s)
	case *jsast.FunctionDeclaration:
		n.function(s.Params, s.Body)
	case *jsast.IfStatement:
		n.expr(s.Test)
		n.stmt(s.Consequent)
		if s.Alternate != nil {
			n.stmt(s.Alternate)
		}
	case *jsast.WhileStatement:
		n.expr(s.Test)
		n.stmt(s.Body)
	case *jsast.TryStatement:
		n.block(s.Block)
		if s.Handler != nil {
			n.ident(s.Handler.Param)
			n.block(s.Handler.Body)
		}
	case *jsast.ThrowStatement:
		n.expr(s.Argument)
	}
}

func (n *normalizer) expr(e jsast.Expr) {
	switch e := e.(type) {
	case *jsast.Identifier:
		n.ident(e)
	case *jsast.ArrayExpression:
		for _, el := range e.Elements {
			n.expr(el)
		}
	case *jsast.ObjectExpression:
		for _, p := range e.Properties {
			if p.Computed {
				n.expr(p.Key)
			}
			n.expr(p.Value)
		}
	case *jsast.FunctionExpression:
		n.function(e.Params, e.Body)
	case *jsast.ClassExpression:
		n.expr(e.SuperClass)
		for _, m := range e.Body.Body {
			n.function(m.Value.Params, m.Value.Body)
		}
	case *jsast.CallExpression:
		n.expr(e.Callee)
		for _, a := range e.Arguments {
			n.expr(a)
		}
	case *jsast.NewExpression:
		n.expr(e.Callee)
		for _, a := range e.Arguments {
			n.expr(a)
		}
	case *jsast.MemberExpression:
		n.expr(e.Object)
		if e.Computed {
			n.expr(e.Property)
		}
	case *jsast.AssignmentExpression:
		n.expr(e.Left)
		n.expr(e.Right)
	case *jsast.BinaryExpression:
		n.expr(e.Left)
		n.expr(e.Right)
	case *jsast.UnaryExpression:
		n.expr(e.Argument)
	case *jsast.UpdateExpression:
		n.expr(e.Argument)
	case *jsast.AwaitExpression:
		n.expr(e.Argument)
	}
}
