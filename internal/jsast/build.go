package jsast

import (
	"encoding/json"
	"strconv"
)

// Constructors for node shapes. They are pure: every call returns fresh
// nodes, so no node is shared between two places in a tree.

func Ident(name string) *Identifier {
	return &Identifier{Name: name}
}

func This() *ThisExpression {
	return &ThisExpression{}
}

// Str returns a string literal.
func Str(s string) *Literal {
	return &Literal{Value: s}
}

// Num returns a number literal spelled raw.
func Num(raw string) *Literal {
	return &Literal{Value: json.Number(raw), Raw: raw}
}

// Int returns a number literal for n.
func Int(n int) *Literal {
	return Num(strconv.Itoa(n))
}

func Bool(b bool) *Literal {
	if b {
		return &Literal{Value: true}
	}
	return &Literal{Value: false}
}

func Null() *Literal {
	return &Literal{Value: nil}
}

func Array(elements ...Expr) *ArrayExpression {
	return &ArrayExpression{Elements: elements}
}

func Object(props ...*Property) *ObjectExpression {
	return &ObjectExpression{Properties: props}
}

// Prop returns an object property keyed by a string literal.
func Prop(key string, value Expr) *Property {
	return &Property{Key: Str(key), Value: value}
}

// Member returns a dotted access obj.name.
func Member(obj Expr, name string) *MemberExpression {
	return &MemberExpression{Object: obj, Property: Ident(name)}
}

// Index returns a bracket access obj[prop].
func Index(obj Expr, prop Expr) *MemberExpression {
	return &MemberExpression{Object: obj, Property: prop, Computed: true}
}

func Call(callee Expr, args ...Expr) *CallExpression {
	if args == nil {
		args = []Expr{}
	}
	return &CallExpression{Callee: callee, Arguments: args}
}

// MethodCall returns obj.method(args...).
func MethodCall(obj Expr, method string, args ...Expr) *CallExpression {
	return Call(Member(obj, method), args...)
}

func New(callee Expr, args ...Expr) *NewExpression {
	if args == nil {
		args = []Expr{}
	}
	return &NewExpression{Callee: callee, Arguments: args}
}

func Assign(left, right Expr) *AssignmentExpression {
	return &AssignmentExpression{Operator: "=", Left: left, Right: right}
}

func Binary(op string, left, right Expr) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

func Unary(op string, arg Expr) *UnaryExpression {
	return &UnaryExpression{Operator: op, Argument: arg, Prefix: true}
}

func Update(op string, arg Expr, prefix bool) *UpdateExpression {
	return &UpdateExpression{Operator: op, Argument: arg, Prefix: prefix}
}

func Await(arg Expr) *AwaitExpression {
	return &AwaitExpression{Argument: arg}
}

// Func returns a function expression; id may be nil.
func Func(id *Identifier, params []*Identifier, body []Stmt, async bool) *FunctionExpression {
	if params == nil {
		params = []*Identifier{}
	}
	return &FunctionExpression{ID: id, Params: params, Body: Block(body...), Async: async}
}

func FuncDecl(id *Identifier, params []*Identifier, body []Stmt, async bool) *FunctionDeclaration {
	if params == nil {
		params = []*Identifier{}
	}
	return &FunctionDeclaration{ID: id, Params: params, Body: Block(body...), Async: async}
}

func Class(id *Identifier, methods ...*MethodDefinition) *ClassExpression {
	return &ClassExpression{ID: id, Body: &ClassBody{Body: methods}}
}

func Method(name string, fn *FunctionExpression) *MethodDefinition {
	return &MethodDefinition{Key: Ident(name), Value: fn, Kind: "method"}
}

func Constructor(fn *FunctionExpression) *MethodDefinition {
	return &MethodDefinition{Key: Ident("constructor"), Value: fn, Kind: "constructor"}
}

// --- Statements ---

func ExprStmt(e Expr) *ExpressionStatement {
	return &ExpressionStatement{Expression: e}
}

// Let declares id with an optional initializer.
func Let(id *Identifier, init Expr) *VariableDeclaration {
	return declare("let", id, init)
}

func Const(id *Identifier, init Expr) *VariableDeclaration {
	return declare("const", id, init)
}

func declare(kind string, id *Identifier, init Expr) *VariableDeclaration {
	return &VariableDeclaration{
		Kind:         kind,
		Declarations: []*VariableDeclarator{{ID: id, Init: init}},
	}
}

func Return(arg Expr) *ReturnStatement {
	return &ReturnStatement{Argument: arg}
}

func Block(body ...Stmt) *BlockStatement {
	if body == nil {
		body = []Stmt{}
	}
	return &BlockStatement{Body: body}
}

// If returns a conditional; alternate may be nil.
func If(test Expr, consequent, alternate Stmt) *IfStatement {
	return &IfStatement{Test: test, Consequent: consequent, Alternate: alternate}
}

func While(test Expr, body Stmt) *WhileStatement {
	return &WhileStatement{Test: test, Body: body}
}

func Try(block *BlockStatement, param *Identifier, handler *BlockStatement) *TryStatement {
	return &TryStatement{Block: block, Handler: &CatchClause{Param: param, Body: handler}}
}

func Throw(arg Expr) *ThrowStatement {
	return &ThrowStatement{Argument: arg}
}

func Debugger() *DebuggerStatement {
	return &DebuggerStatement{}
}
