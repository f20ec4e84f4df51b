// Package native lowers calls of native (dock) units. In those units a
// call names one of a closed set of primitive operations and binds its
// arguments by role instead of by position.
package native

import (
	"strings"

	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
)

// Operation is a primitive a native call can name.
type Operation int

const (
	Make Operation = iota
	CallBase
	CallFunction
	CallHead
	CallTwin
	CallKeyword
	CallKeyword2
	GetAspect
	SetAspect
	GetDynamicAspect
	SetDynamicAspect
	Delete
	CreateLiteral
	ThrowError
	CallTry
	Test
	TestElse
	Loop
	Debug
)

var operationNames = map[string]Operation{
	"make":               Make,
	"call-base":          CallBase,
	"call-function":      CallFunction,
	"call-head":          CallHead,
	"call-twin":          CallTwin,
	"call-keyword":       CallKeyword,
	"call-keyword-2":     CallKeyword2,
	"get-aspect":         GetAspect,
	"set-aspect":         SetAspect,
	"get-dynamic-aspect": GetDynamicAspect,
	"set-dynamic-aspect": SetDynamicAspect,
	"delete":             Delete,
	"create-literal":     CreateLiteral,
	"throw-error":        ThrowError,
	"call-try":           CallTry,
	"test":               Test,
	"test-else":          TestElse,
	"loop":               Loop,
	"debug":              Debug,
	"look":               Debug,
}

// Parse maps an operation name to its Operation.
func Parse(name string) (Operation, error) {
	op, ok := operationNames[name]
	if !ok {
		return 0, diagnostic.Errorf(diagnostic.UnknownOperation, "call "+name,
			"no native operation named %q", name)
	}
	return op, nil
}

func (op Operation) String() string {
	switch op {
	case Make:
		return "make"
	case CallBase:
		return "call-base"
	case CallFunction:
		return "call-function"
	case CallHead:
		return "call-head"
	case CallTwin:
		return "call-twin"
	case CallKeyword:
		return "call-keyword"
	case CallKeyword2:
		return "call-keyword-2"
	case GetAspect:
		return "get-aspect"
	case SetAspect:
		return "set-aspect"
	case GetDynamicAspect:
		return "get-dynamic-aspect"
	case SetDynamicAspect:
		return "set-dynamic-aspect"
	case Delete:
		return "delete"
	case CreateLiteral:
		return "create-literal"
	case ThrowError:
		return "throw-error"
	case CallTry:
		return "call-try"
	case Test:
		return "test"
	case TestElse:
		return "test-else"
	case Loop:
		return "loop"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// Statement reports whether op lowers to a statement rather than an
// expression.
func (op Operation) Statement() bool {
	switch op {
	case ThrowError, CallTry, Test, TestElse, Loop, Debug:
		return true
	default:
		return false
	}
}

// Lowerer translates the bonds a native call binds. It is implemented by
// the translator, which owns the scope the call is lowered in.
type Lowerer interface {
	Bond(b deck.Bond) (jsast.Expr, error)
	// CatchParam declares a fresh catch parameter in a child scope.
	CatchParam() *jsast.Identifier
}

// roles holds the bindings of one call grouped by role name.
type roles struct {
	op    Operation
	binds map[string][]deck.Bond
}

func bindRoles(op Operation, call *deck.Call) *roles {
	r := &roles{op: op, binds: make(map[string][]deck.Bond)}
	for _, b := range call.Bind {
		r.binds[b.Name] = append(r.binds[b.Name], b.Bond)
	}
	return r
}

func (r *roles) optional(role string) deck.Bond {
	if bonds := r.binds[role]; len(bonds) > 0 {
		return bonds[0]
	}
	return nil
}

func (r *roles) required(role string) (deck.Bond, error) {
	b := r.optional(role)
	if b == nil {
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "call "+r.op.String(),
			"operation %s is missing role %q", r.op, role)
	}
	return b, nil
}

// expr lowers a required role.
func (r *roles) expr(lw Lowerer, role string) (jsast.Expr, error) {
	b, err := r.required(role)
	if err != nil {
		return nil, err
	}
	return lw.Bond(b)
}

// text reads a required role that must be literal text, such as an
// operator or a method name.
func (r *roles) text(role string) (string, error) {
	b, err := r.required(role)
	if err != nil {
		return "", err
	}
	if s, ok := literalText(b); ok {
		return s, nil
	}
	return "", diagnostic.Errorf(diagnostic.MalformedNode, "call "+r.op.String(),
		"role %q of %s must be text", role, r.op)
}

// factors lowers every factor binding in order.
func (r *roles) factors(lw Lowerer) ([]jsast.Expr, error) {
	args := []jsast.Expr{}
	for _, b := range r.binds["factor"] {
		arg, err := lw.Bond(b)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// site lowers a role naming a callee or receiver. Text is a literal site
// such as console or Math.max; anything else is lowered as a bond.
func (r *roles) site(lw Lowerer, role string) (jsast.Expr, error) {
	b, err := r.required(role)
	if err != nil {
		return nil, err
	}
	if s, ok := literalText(b); ok {
		if s == "" {
			return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "call "+r.op.String(),
				"role %q of %s names an empty site", role, r.op)
		}
		parts := strings.Split(s, ".")
		var e jsast.Expr = jsast.Ident(parts[0])
		for _, p := range parts[1:] {
			e = jsast.Member(e, p)
		}
		return e, nil
	}
	return lw.Bond(b)
}

func literalText(b deck.Bond) (string, bool) {
	switch v := b.(type) {
	case *deck.Text:
		return strings.Join(v.Parts, ""), true
	case *deck.Scalar:
		s, ok := v.Value.(string)
		return s, ok
	default:
		return "", false
	}
}

// Lower translates a native call. The result is a jsast.Expr, or a
// jsast.Stmt when op.Statement() holds.
func Lower(lw Lowerer, call *deck.Call) (jsast.Node, error) {
	if call.Name.Path != nil {
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "call "+call.Name.String(),
			"native call must name an operation, got a path")
	}
	op, err := Parse(call.Name.Name)
	if err != nil {
		return nil, err
	}
	if len(call.Hook) > 0 {
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "call "+op.String(),
			"native operation %s takes no hooks", op)
	}
	r := bindRoles(op, call)

	switch op {
	case Make:
		ctor, err := r.site(lw, "constructor")
		if err != nil {
			return nil, err
		}
		args, err := r.factors(lw)
		if err != nil {
			return nil, err
		}
		return jsast.New(ctor, args...), nil

	case CallBase:
		obj, err := r.site(lw, "object")
		if err != nil {
			return nil, err
		}
		method, err := r.text("method")
		if err != nil {
			return nil, err
		}
		args, err := r.factors(lw)
		if err != nil {
			return nil, err
		}
		return jsast.MethodCall(obj, method, args...), nil

	case CallFunction:
		fn, err := r.site(lw, "function")
		if err != nil {
			return nil, err
		}
		args, err := r.factors(lw)
		if err != nil {
			return nil, err
		}
		return jsast.Call(fn, args...), nil

	case CallHead:
		value, err := r.expr(lw, "value")
		if err != nil {
			return nil, err
		}
		operator, err := r.text("operation")
		if err != nil {
			return nil, err
		}
		prefix := true
		if side := r.optional("side"); side != nil {
			if s, ok := literalText(side); ok && s == "tail" {
				prefix = false
			}
		}
		return jsast.Update(operator, value, prefix), nil

	case CallTwin:
		return binary(lw, r, "operation")

	case CallKeyword:
		keyword, err := r.text("keyword")
		if err != nil {
			return nil, err
		}
		value, err := r.expr(lw, "value")
		if err != nil {
			return nil, err
		}
		return jsast.Unary(keyword, value), nil

	case CallKeyword2:
		return binary(lw, r, "keyword")

	case GetAspect, SetAspect:
		obj, err := r.expr(lw, "object")
		if err != nil {
			return nil, err
		}
		aspect, err := r.text("aspect")
		if err != nil {
			return nil, err
		}
		target := jsast.Member(obj, aspect)
		if op == GetAspect {
			return target, nil
		}
		value, err := r.expr(lw, "factor")
		if err != nil {
			return nil, err
		}
		return jsast.Assign(target, value), nil

	case GetDynamicAspect, SetDynamicAspect, Delete:
		obj, err := r.expr(lw, "object")
		if err != nil {
			return nil, err
		}
		aspect, err := r.expr(lw, "aspect")
		if err != nil {
			return nil, err
		}
		target := jsast.Index(obj, aspect)
		switch op {
		case GetDynamicAspect:
			return target, nil
		case Delete:
			return jsast.Unary("delete", target), nil
		}
		value, err := r.expr(lw, "factor")
		if err != nil {
			return nil, err
		}
		return jsast.Assign(target, value), nil

	case CreateLiteral:
		b, err := r.required("literal")
		if err != nil {
			return nil, err
		}
		if s, ok := literalText(b); ok {
			return jsast.Str(s), nil
		}
		return lw.Bond(b)

	case ThrowError:
		factor, err := r.expr(lw, "factor")
		if err != nil {
			return nil, err
		}
		return jsast.Throw(jsast.New(jsast.Ident("Error"), factor)), nil

	case CallTry:
		block, err := r.expr(lw, "block")
		if err != nil {
			return nil, err
		}
		handler, err := r.expr(lw, "error")
		if err != nil {
			return nil, err
		}
		param := lw.CatchParam()
		return jsast.Try(
			jsast.Block(jsast.ExprStmt(jsast.Call(block))),
			param,
			jsast.Block(jsast.ExprStmt(jsast.Call(handler, jsast.Ident(param.Name)))),
		), nil

	case Test, TestElse:
		check, err := r.expr(lw, "check")
		if err != nil {
			return nil, err
		}
		block, err := r.expr(lw, "block")
		if err != nil {
			return nil, err
		}
		var alternate jsast.Stmt
		if op == TestElse {
			other, err := r.expr(lw, "else")
			if err != nil {
				return nil, err
			}
			alternate = jsast.Block(jsast.ExprStmt(jsast.Call(other)))
		}
		return jsast.If(jsast.Call(check), jsast.Block(jsast.ExprStmt(jsast.Call(block))), alternate), nil

	case Loop:
		check, err := r.expr(lw, "check")
		if err != nil {
			return nil, err
		}
		block, err := r.expr(lw, "block")
		if err != nil {
			return nil, err
		}
		return jsast.While(jsast.Call(check), jsast.Block(jsast.ExprStmt(jsast.Call(block)))), nil

	case Debug:
		return jsast.Debugger(), nil
	}

	return nil, diagnostic.Errorf(diagnostic.UnknownOperation, "call "+op.String(),
		"operation %s has no lowering", op)
}

func binary(lw Lowerer, r *roles, operatorRole string) (jsast.Expr, error) {
	left, err := r.expr(lw, "left")
	if err != nil {
		return nil, err
	}
	operator, err := r.text(operatorRole)
	if err != nil {
		return nil, err
	}
	right, err := r.expr(lw, "right")
	if err != nil {
		return nil, err
	}
	return jsast.Binary(operator, left, right), nil
}
