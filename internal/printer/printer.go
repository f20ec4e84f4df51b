// Package printer renders a jsast tree as JavaScript source text.
package printer

import (
	"fmt"
	"strings"

	"github.com/lhaig/deck/internal/jsast"
)

// Generate renders a whole program.
func Generate(prog *jsast.Program) string {
	g := &generator{}
	g.emitLine("// Generated JavaScript code from deck")
	g.emitLine("")
	g.generateStmts(prog.Body)
	return g.sb.String()
}

// Stmt renders a single statement at the top level.
func Stmt(s jsast.Stmt) string {
	g := &generator{}
	g.generateStmt(s)
	return g.sb.String()
}

// Expr renders a single expression.
func Expr(e jsast.Expr) string {
	g := &generator{}
	return g.generateExpr(e)
}

type generator struct {
	sb     strings.Builder
	indent int
}

func (g *generator) emitLinef(format string, args ...any) {
	g.sb.WriteString(g.indentStr())
	g.sb.WriteString(fmt.Sprintf(format, args...))
	g.sb.WriteString("\n")
}

func (g *generator) emitLine(s string) {
	if s == "" {
		g.sb.WriteString("\n")
	} else {
		g.sb.WriteString(g.indentStr())
		g.sb.WriteString(s)
		g.sb.WriteString("\n")
	}
}

func (g *generator) indentStr() string {
	return strings.Repeat("  ", g.indent)
}

// --- Statements ---

func (g *generator) generateStmts(stmts []jsast.Stmt) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)
	}
}

func (g *generator) generateStmt(s jsast.Stmt) {
	switch stmt := s.(type) {
	case *jsast.ExpressionStatement:
		text := g.generateExpr(stmt.Expression)
		// A statement may not start with a function, class or object literal
		if strings.HasPrefix(text, "function") || strings.HasPrefix(text, "async function") ||
			strings.HasPrefix(text, "class") || strings.HasPrefix(text, "{") {
			text = "(" + text + ")"
		}
		g.emitLinef("%s;", text)

	case *jsast.VariableDeclaration:
		decls := make([]string, 0, len(stmt.Declarations))
		for _, d := range stmt.Declarations {
			if d.Init == nil {
				decls = append(decls, d.ID.Name)
			} else {
				decls = append(decls, d.ID.Name+" = "+g.generateExpr(d.Init))
			}
		}
		g.emitLinef("%s %s;", stmt.Kind, strings.Join(decls, ", "))

	case *jsast.ReturnStatement:
		if stmt.Argument == nil {
			g.emitLine("return;")
		} else {
			g.emitLinef("return %s;", g.generateExpr(stmt.Argument))
		}

	case *jsast.BlockStatement:
		g.emitLine(g.block(stmt))

	case *jsast.FunctionDeclaration:
		g.emitLine(g.function(stmt.ID, stmt.Params, stmt.Body, stmt.Async))

	case *jsast.IfStatement:
		text := fmt.Sprintf("if (%s) %s", g.generateExpr(stmt.Test), g.body(stmt.Consequent))
		if stmt.Alternate != nil {
			text += " else " + g.body(stmt.Alternate)
		}
		g.emitLine(text)

	case *jsast.WhileStatement:
		g.emitLinef("while (%s) %s", g.generateExpr(stmt.Test), g.body(stmt.Body))

	case *jsast.TryStatement:
		text := "try " + g.block(stmt.Block)
		if stmt.Handler != nil {
			if stmt.Handler.Param != nil {
				text += fmt.Sprintf(" catch (%s) ", stmt.Handler.Param.Name)
			} else {
				text += " catch "
			}
			text += g.block(stmt.Handler.Body)
		}
		g.emitLine(text)

	case *jsast.ThrowStatement:
		g.emitLinef("throw %s;", g.generateExpr(stmt.Argument))

	case *jsast.DebuggerStatement:
		g.emitLine("debugger;")
	}
}

// block renders a braced statement list starting at the current column
// and closing at the current indentation.
func (g *generator) block(b *jsast.BlockStatement) string {
	if b == nil || len(b.Body) == 0 {
		return "{}"
	}
	inner := &generator{indent: g.indent + 1}
	inner.generateStmts(b.Body)
	return "{\n" + inner.sb.String() + g.indentStr() + "}"
}

// body renders the body of a control statement, always braced.
func (g *generator) body(s jsast.Stmt) string {
	if b, ok := s.(*jsast.BlockStatement); ok {
		return g.block(b)
	}
	return g.block(jsast.Block(s))
}

func (g *generator) function(id *jsast.Identifier, params []*jsast.Identifier, body *jsast.BlockStatement, async bool) string {
	var sb strings.Builder
	if async {
		sb.WriteString("async ")
	}
	sb.WriteString("function ")
	if id != nil {
		sb.WriteString(id.Name)
	}
	sb.WriteString("(" + g.params(params) + ") ")
	sb.WriteString(g.block(body))
	return sb.String()
}

func (g *generator) params(params []*jsast.Identifier) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// --- Expressions ---

func (g *generator) generateExpr(e jsast.Expr) string {
	if e == nil {
		return "undefined"
	}
	switch expr := e.(type) {
	case *jsast.Identifier:
		return expr.Name

	case *jsast.ThisExpression:
		return "this"

	case *jsast.Literal:
		return literal(expr)

	case *jsast.ArrayExpression:
		return "[" + g.list(expr.Elements) + "]"

	case *jsast.ObjectExpression:
		if len(expr.Properties) == 0 {
			return "{}"
		}
		props := make([]string, 0, len(expr.Properties))
		for _, p := range expr.Properties {
			props = append(props, g.property(p))
		}
		return "{ " + strings.Join(props, ", ") + " }"

	case *jsast.FunctionExpression:
		return g.function(expr.ID, expr.Params, expr.Body, expr.Async)

	case *jsast.ClassExpression:
		return g.class(expr)

	case *jsast.CallExpression:
		return g.operand(expr.Callee) + "(" + g.list(expr.Arguments) + ")"

	case *jsast.NewExpression:
		callee := g.generateExpr(expr.Callee)
		if hasCall(expr.Callee) || compound(expr.Callee) {
			callee = "(" + callee + ")"
		}
		return "new " + callee + "(" + g.list(expr.Arguments) + ")"

	case *jsast.MemberExpression:
		object := g.operand(expr.Object)
		if _, ok := expr.Object.(*jsast.NewExpression); ok {
			object = "(" + object + ")"
		}
		if expr.Computed {
			return object + "[" + g.generateExpr(expr.Property) + "]"
		}
		return object + "." + g.generateExpr(expr.Property)

	case *jsast.AssignmentExpression:
		return g.generateExpr(expr.Left) + " " + expr.Operator + " " + g.generateExpr(expr.Right)

	case *jsast.BinaryExpression:
		return g.operand(expr.Left) + " " + expr.Operator + " " + g.operand(expr.Right)

	case *jsast.UnaryExpression:
		arg := g.operand(expr.Argument)
		if isWord(expr.Operator) {
			return expr.Operator + " " + arg
		}
		return expr.Operator + arg

	case *jsast.UpdateExpression:
		if expr.Prefix {
			return expr.Operator + g.operand(expr.Argument)
		}
		return g.operand(expr.Argument) + expr.Operator

	case *jsast.AwaitExpression:
		return "await " + g.operand(expr.Argument)
	}
	return "undefined"
}

// operand renders e in a position that binds tighter than any operator,
// parenthesizing compound expressions.
func (g *generator) operand(e jsast.Expr) string {
	text := g.generateExpr(e)
	if compound(e) {
		return "(" + text + ")"
	}
	return text
}

func compound(e jsast.Expr) bool {
	switch e.(type) {
	case *jsast.BinaryExpression, *jsast.AssignmentExpression, *jsast.UnaryExpression,
		*jsast.UpdateExpression, *jsast.AwaitExpression, *jsast.FunctionExpression,
		*jsast.ClassExpression:
		return true
	default:
		return false
	}
}

// hasCall reports whether a call appears along the object chain of e.
// As a new callee it would otherwise take the constructor's arguments.
func hasCall(e jsast.Expr) bool {
	for {
		switch x := e.(type) {
		case *jsast.CallExpression:
			return true
		case *jsast.MemberExpression:
			e = x.Object
		default:
			return false
		}
	}
}

func isWord(op string) bool {
	return op != "" && op[0] >= 'a' && op[0] <= 'z'
}

func (g *generator) list(exprs []jsast.Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, g.generateExpr(e))
	}
	return strings.Join(parts, ", ")
}

func (g *generator) property(p *jsast.Property) string {
	var key string
	switch k := p.Key.(type) {
	case *jsast.Identifier:
		key = k.Name
	default:
		key = g.generateExpr(k)
	}
	if p.Computed {
		key = "[" + key + "]"
	}
	return key + ": " + g.generateExpr(p.Value)
}

func (g *generator) class(c *jsast.ClassExpression) string {
	var sb strings.Builder
	sb.WriteString("class")
	if c.ID != nil {
		sb.WriteString(" " + c.ID.Name)
	}
	if c.SuperClass != nil {
		sb.WriteString(" extends " + g.operand(c.SuperClass))
	}
	if c.Body == nil || len(c.Body.Body) == 0 {
		sb.WriteString(" {}")
		return sb.String()
	}
	sb.WriteString(" {\n")
	inner := &generator{indent: g.indent + 1}
	for _, m := range c.Body.Body {
		head := ""
		if m.Value.Async {
			head = "async "
		}
		head += m.Key.Name + "(" + inner.params(m.Value.Params) + ") "
		inner.emitLine(head + inner.block(m.Value.Body))
	}
	sb.WriteString(inner.sb.String())
	sb.WriteString(g.indentStr() + "}")
	return sb.String()
}

func literal(l *jsast.Literal) string {
	switch v := l.Value.(type) {
	case string:
		return quote(v)
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	if l.Raw != "" {
		return l.Raw
	}
	return fmt.Sprint(l.Value)
}

// quote renders s as a double-quoted JavaScript string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
