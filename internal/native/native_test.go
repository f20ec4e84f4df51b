package native

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/printer"
)

// fakeLowerer resolves loans to their own names and counts catch params.
type fakeLowerer struct {
	catches int
}

func (f *fakeLowerer) Bond(b deck.Bond) (jsast.Expr, error) {
	switch v := b.(type) {
	case *deck.Loan:
		return jsast.Ident(v.Name), nil
	case *deck.Text:
		return jsast.Str(strings.Join(v.Parts, "")), nil
	case *deck.Size:
		return jsast.Num(v.Raw), nil
	}
	return nil, fmt.Errorf("unexpected bond %T", b)
}

func (f *fakeLowerer) CatchParam() *jsast.Identifier {
	f.catches++
	return jsast.Ident(fmt.Sprintf("host_%d", f.catches))
}

func loan(name string) deck.Bond { return &deck.Loan{Name: name} }
func text(s string) deck.Bond    { return &deck.Text{Parts: []string{s}} }

func nativeCall(op string, binds ...*deck.Bind) *deck.Call {
	return &deck.Call{Name: deck.Callee{Name: op}, Bind: binds}
}

func bind(role string, b deck.Bond) *deck.Bind {
	return &deck.Bind{Name: role, Bond: b}
}

func render(t *testing.T, n jsast.Node) string {
	t.Helper()
	switch v := n.(type) {
	case jsast.Stmt:
		return strings.TrimSpace(printer.Stmt(v))
	case jsast.Expr:
		return printer.Expr(v)
	}
	t.Fatalf("unexpected node %T", n)
	return ""
}

func lower(t *testing.T, call *deck.Call) string {
	t.Helper()
	n, err := Lower(&fakeLowerer{}, call)
	if err != nil {
		t.Fatalf("Lower(%s): %v", call.Name, err)
	}
	return render(t, n)
}

func TestParseOperation(t *testing.T) {
	for name := range operationNames {
		op, err := Parse(name)
		if err != nil {
			t.Errorf("Parse(%q): %v", name, err)
			continue
		}
		if name != "look" && op.String() != name {
			t.Errorf("expected %s to round-trip, got %s", name, op)
		}
	}

	op, err := Parse("look")
	if err != nil || op != Debug {
		t.Errorf("expected look to alias debug, got %s, %v", op, err)
	}
}

func TestUnknownOperation(t *testing.T) {
	_, err := Lower(&fakeLowerer{}, nativeCall("foo-op"))

	var ce *diagnostic.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if ce.Kind != diagnostic.UnknownOperation {
		t.Errorf("expected unknown operation, got %s", ce.Kind)
	}
	if !strings.Contains(ce.Message, "foo-op") {
		t.Errorf("expected message to name foo-op, got %q", ce.Message)
	}
}

func TestMissingRole(t *testing.T) {
	_, err := Lower(&fakeLowerer{}, nativeCall("delete", bind("object", loan("x"))))

	var ce *diagnostic.CompileError
	if !errors.As(err, &ce) || ce.Kind != diagnostic.MalformedNode {
		t.Fatalf("expected malformed node, got %v", err)
	}
	if !strings.Contains(ce.Message, `"aspect"`) {
		t.Errorf("expected missing aspect role, got %q", ce.Message)
	}
}

func TestHooksAndPathsAreRejected(t *testing.T) {
	withHook := nativeCall("debug")
	withHook.Hook = []*deck.Hook{{}}
	if _, err := Lower(&fakeLowerer{}, withHook); err == nil {
		t.Error("expected error for native call with a hook")
	}

	path := &deck.Call{Name: deck.Callee{Path: &deck.Nest{Steps: []*deck.Step{{Name: "a"}, {Name: "b"}}}}}
	_, err := Lower(&fakeLowerer{}, path)
	var ce *diagnostic.CompileError
	if !errors.As(err, &ce) || ce.Kind != diagnostic.MalformedNode {
		t.Errorf("expected malformed node for path callee, got %v", err)
	}
}

func TestLowerExpressions(t *testing.T) {
	tests := []struct {
		name string
		call *deck.Call
		want string
	}{
		{
			name: "make",
			call: nativeCall("make", bind("constructor", text("Map")), bind("factor", loan("a"))),
			want: "new Map(a)",
		},
		{
			name: "call-base",
			call: nativeCall("call-base", bind("object", text("console")), bind("method", text("log")),
				bind("factor", loan("a")), bind("factor", loan("b"))),
			want: "console.log(a, b)",
		},
		{
			name: "call-function dotted site",
			call: nativeCall("call-function", bind("function", text("Math.max")), bind("factor", &deck.Size{Raw: "1"})),
			want: "Math.max(1)",
		},
		{
			name: "call-function bond",
			call: nativeCall("call-function", bind("function", loan("fn"))),
			want: "fn()",
		},
		{
			name: "call-head prefix",
			call: nativeCall("call-head", bind("value", loan("i")), bind("operation", text("++"))),
			want: "++i",
		},
		{
			name: "call-head tail",
			call: nativeCall("call-head", bind("value", loan("i")), bind("operation", text("--")), bind("side", text("tail"))),
			want: "i--",
		},
		{
			name: "call-twin",
			call: nativeCall("call-twin", bind("left", loan("a")), bind("operation", text("+")), bind("right", loan("b"))),
			want: "a + b",
		},
		{
			name: "call-keyword",
			call: nativeCall("call-keyword", bind("keyword", text("typeof")), bind("value", loan("v"))),
			want: "typeof v",
		},
		{
			name: "call-keyword-2",
			call: nativeCall("call-keyword-2", bind("left", loan("v")), bind("keyword", text("instanceof")), bind("right", loan("T"))),
			want: "v instanceof T",
		},
		{
			name: "get-aspect",
			call: nativeCall("get-aspect", bind("object", loan("o")), bind("aspect", text("size"))),
			want: "o.size",
		},
		{
			name: "set-aspect",
			call: nativeCall("set-aspect", bind("object", loan("o")), bind("aspect", text("size")), bind("factor", loan("n"))),
			want: "o.size = n",
		},
		{
			name: "get-dynamic-aspect",
			call: nativeCall("get-dynamic-aspect", bind("object", loan("o")), bind("aspect", loan("k"))),
			want: "o[k]",
		},
		{
			name: "set-dynamic-aspect",
			call: nativeCall("set-dynamic-aspect", bind("object", loan("o")), bind("aspect", loan("k")), bind("factor", loan("v"))),
			want: "o[k] = v",
		},
		{
			name: "delete",
			call: nativeCall("delete", bind("object", loan("host_1")), bind("aspect", text("key"))),
			want: `delete host_1["key"]`,
		},
		{
			name: "create-literal text",
			call: nativeCall("create-literal", bind("literal", text("hi"))),
			want: `"hi"`,
		},
		{
			name: "create-literal number",
			call: nativeCall("create-literal", bind("literal", &deck.Size{Raw: "2.5"})),
			want: "2.5",
		},
		{
			name: "unknown roles are ignored",
			call: nativeCall("get-aspect", bind("object", loan("o")), bind("aspect", text("a")), bind("extra", loan("z"))),
			want: "o.a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lower(t, tt.call); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLowerStatements(t *testing.T) {
	tests := []struct {
		name string
		call *deck.Call
		want string
	}{
		{
			name: "throw-error",
			call: nativeCall("throw-error", bind("factor", text("boom"))),
			want: `throw new Error("boom");`,
		},
		{
			name: "call-try",
			call: nativeCall("call-try", bind("block", loan("body")), bind("error", loan("onError"))),
			want: "try {\n  body();\n} catch (host_1) {\n  onError(host_1);\n}",
		},
		{
			name: "test",
			call: nativeCall("test", bind("check", loan("ok")), bind("block", loan("then"))),
			want: "if (ok()) {\n  then();\n}",
		},
		{
			name: "test-else",
			call: nativeCall("test-else", bind("check", loan("ok")), bind("block", loan("then")), bind("else", loan("other"))),
			want: "if (ok()) {\n  then();\n} else {\n  other();\n}",
		},
		{
			name: "loop",
			call: nativeCall("loop", bind("check", loan("more")), bind("block", loan("step"))),
			want: "while (more()) {\n  step();\n}",
		},
		{
			name: "debug",
			call: nativeCall("debug"),
			want: "debugger;",
		},
		{
			name: "look",
			call: nativeCall("look"),
			want: "debugger;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Lower(&fakeLowerer{}, tt.call)
			if err != nil {
				t.Fatalf("Lower: %v", err)
			}
			if _, ok := n.(jsast.Stmt); !ok {
				t.Fatalf("expected a statement, got %T", n)
			}
			if got := render(t, n); got != tt.want {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestStatementClassification(t *testing.T) {
	for name, op := range operationNames {
		n, err := Lower(&fakeLowerer{}, fullCall(name))
		if err != nil {
			t.Fatalf("Lower(%s): %v", name, err)
		}
		_, isStmt := n.(jsast.Stmt)
		if isStmt != op.Statement() {
			t.Errorf("%s: Statement() = %v but lowered to %T", name, op.Statement(), n)
		}
	}
}

// fullCall binds every role any operation reads.
func fullCall(op string) *deck.Call {
	return nativeCall(op,
		bind("constructor", text("Map")),
		bind("object", loan("o")),
		bind("method", text("m")),
		bind("function", loan("f")),
		bind("value", loan("v")),
		bind("operation", text("+")),
		bind("keyword", text("in")),
		bind("left", loan("l")),
		bind("right", loan("r")),
		bind("aspect", text("a")),
		bind("factor", loan("x")),
		bind("literal", text("lit")),
		bind("block", loan("b")),
		bind("error", loan("e")),
		bind("check", loan("c")),
		bind("else", loan("els")),
	)
}
