// Package jsast defines the JavaScript syntax tree the compiler produces.
// Node type names follow ESTree so the JSON dump can be read by
// standard JavaScript tooling.
package jsast

// Node is implemented by every tree node.
type Node interface {
	Type() string
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Program is a flat list of top-level statements.
type Program struct {
	Body []Stmt
}

func (*Program) Type() string { return "Program" }

// --- Statements ---

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Expression Expr
}

func (*ExpressionStatement) Type() string { return "ExpressionStatement" }
func (*ExpressionStatement) stmtNode()    {}

// VariableDeclaration declares one or more bindings.
type VariableDeclaration struct {
	Kind         string // "let" or "const"
	Declarations []*VariableDeclarator
}

func (*VariableDeclaration) Type() string { return "VariableDeclaration" }
func (*VariableDeclaration) stmtNode()    {}

// VariableDeclarator is one binding of a declaration.
type VariableDeclarator struct {
	ID   *Identifier
	Init Expr // nil when uninitialized
}

func (*VariableDeclarator) Type() string { return "VariableDeclarator" }

// ReturnStatement returns from the enclosing function.
type ReturnStatement struct {
	Argument Expr // nil for a bare return
}

func (*ReturnStatement) Type() string { return "ReturnStatement" }
func (*ReturnStatement) stmtNode()    {}

// BlockStatement is a braced statement list.
type BlockStatement struct {
	Body []Stmt
}

func (*BlockStatement) Type() string { return "BlockStatement" }
func (*BlockStatement) stmtNode()    {}

// FunctionDeclaration is a hoisted named function.
type FunctionDeclaration struct {
	ID     *Identifier
	Params []*Identifier
	Body   *BlockStatement
	Async  bool
}

func (*FunctionDeclaration) Type() string { return "FunctionDeclaration" }
func (*FunctionDeclaration) stmtNode()    {}

// IfStatement is a conditional with an optional alternate.
type IfStatement struct {
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // nil when absent
}

func (*IfStatement) Type() string { return "IfStatement" }
func (*IfStatement) stmtNode()    {}

// WhileStatement is a pretest loop.
type WhileStatement struct {
	Test Expr
	Body Stmt
}

func (*WhileStatement) Type() string { return "WhileStatement" }
func (*WhileStatement) stmtNode()    {}

// TryStatement guards a block with a catch clause.
type TryStatement struct {
	Block   *BlockStatement
	Handler *CatchClause
}

func (*TryStatement) Type() string { return "TryStatement" }
func (*TryStatement) stmtNode()    {}

// CatchClause is the handler of a TryStatement.
type CatchClause struct {
	Param *Identifier
	Body  *BlockStatement
}

func (*CatchClause) Type() string { return "CatchClause" }

// ThrowStatement raises a value.
type ThrowStatement struct {
	Argument Expr
}

func (*ThrowStatement) Type() string { return "ThrowStatement" }
func (*ThrowStatement) stmtNode()    {}

// DebuggerStatement is a breakpoint marker.
type DebuggerStatement struct{}

func (*DebuggerStatement) Type() string { return "DebuggerStatement" }
func (*DebuggerStatement) stmtNode()    {}

// --- Expressions ---

// Identifier is a bare name.
type Identifier struct {
	Name string
}

func (*Identifier) Type() string { return "Identifier" }
func (*Identifier) exprNode()    {}

// ThisExpression is the this keyword.
type ThisExpression struct{}

func (*ThisExpression) Type() string { return "ThisExpression" }
func (*ThisExpression) exprNode()    {}

// Literal is a string, number, boolean or null literal. Raw holds the
// source spelling of non-string literals; strings are quoted by the
// renderer.
type Literal struct {
	Value interface{} // string, json.Number, bool or nil
	Raw   string
}

func (*Literal) Type() string { return "Literal" }
func (*Literal) exprNode()    {}

// ArrayExpression is an array literal.
type ArrayExpression struct {
	Elements []Expr
}

func (*ArrayExpression) Type() string { return "ArrayExpression" }
func (*ArrayExpression) exprNode()    {}

// ObjectExpression is an object literal.
type ObjectExpression struct {
	Properties []*Property
}

func (*ObjectExpression) Type() string { return "ObjectExpression" }
func (*ObjectExpression) exprNode()    {}

// Property is one key/value pair of an object literal.
type Property struct {
	Key      Expr
	Value    Expr
	Computed bool
}

func (*Property) Type() string { return "Property" }

// FunctionExpression is a function value.
type FunctionExpression struct {
	ID     *Identifier // nil for anonymous functions
	Params []*Identifier
	Body   *BlockStatement
	Async  bool
}

func (*FunctionExpression) Type() string { return "FunctionExpression" }
func (*FunctionExpression) exprNode()    {}

// ClassExpression is a class value.
type ClassExpression struct {
	ID         *Identifier
	SuperClass Expr
	Body       *ClassBody
}

func (*ClassExpression) Type() string { return "ClassExpression" }
func (*ClassExpression) exprNode()    {}

// ClassBody holds the methods of a class.
type ClassBody struct {
	Body []*MethodDefinition
}

func (*ClassBody) Type() string { return "ClassBody" }

// MethodDefinition is a constructor or method of a class.
type MethodDefinition struct {
	Key   *Identifier
	Value *FunctionExpression
	Kind  string // "constructor" or "method"
}

func (*MethodDefinition) Type() string { return "MethodDefinition" }

// CallExpression invokes a callee.
type CallExpression struct {
	Callee    Expr
	Arguments []Expr
}

func (*CallExpression) Type() string { return "CallExpression" }
func (*CallExpression) exprNode()    {}

// NewExpression constructs an instance.
type NewExpression struct {
	Callee    Expr
	Arguments []Expr
}

func (*NewExpression) Type() string { return "NewExpression" }
func (*NewExpression) exprNode()    {}

// MemberExpression reads a property, dotted or bracketed.
type MemberExpression struct {
	Object   Expr
	Property Expr
	Computed bool
}

func (*MemberExpression) Type() string { return "MemberExpression" }
func (*MemberExpression) exprNode()    {}

// AssignmentExpression stores into a location.
type AssignmentExpression struct {
	Operator string
	Left     Expr
	Right    Expr
}

func (*AssignmentExpression) Type() string { return "AssignmentExpression" }
func (*AssignmentExpression) exprNode()    {}

// BinaryExpression applies an infix operator.
type BinaryExpression struct {
	Operator string
	Left     Expr
	Right    Expr
}

func (*BinaryExpression) Type() string { return "BinaryExpression" }
func (*BinaryExpression) exprNode()    {}

// UnaryExpression applies a prefix operator or keyword.
type UnaryExpression struct {
	Operator string
	Argument Expr
	Prefix   bool
}

func (*UnaryExpression) Type() string { return "UnaryExpression" }
func (*UnaryExpression) exprNode()    {}

// UpdateExpression is an increment or decrement.
type UpdateExpression struct {
	Operator string
	Argument Expr
	Prefix   bool
}

func (*UpdateExpression) Type() string { return "UpdateExpression" }
func (*UpdateExpression) exprNode()    {}

// AwaitExpression awaits a value.
type AwaitExpression struct {
	Argument Expr
}

func (*AwaitExpression) Type() string { return "AwaitExpression" }
func (*AwaitExpression) exprNode()    {}
