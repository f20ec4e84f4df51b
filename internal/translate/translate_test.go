package translate

import (
	"errors"
	"strings"
	"testing"

	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/printer"
	"github.com/lhaig/deck/internal/resolve"
)

func render(u *Unit) string {
	var sb strings.Builder
	for _, s := range u.Body {
		sb.WriteString(printer.Stmt(s))
	}
	return sb.String()
}

func translateFile(t *testing.T, f *deck.File, imports ...resolve.Import) string {
	t.Helper()
	if f.Road == "" {
		f.Road = "app"
	}
	if f.Kind == "" {
		f.Kind = deck.KindBase
	}
	u, err := File(resolve.Unit{Road: f.Road, File: f, Imports: imports})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	return render(u)
}

func translateError(t *testing.T, f *deck.File) *diagnostic.CompileError {
	t.Helper()
	if f.Road == "" {
		f.Road = "app"
	}
	_, err := File(resolve.Unit{Road: f.Road, File: f})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var ce *diagnostic.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompileError, got %T: %v", err, err)
	}
	return ce
}

func expectCode(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func expectContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, got)
		}
	}
}

func loan(name string) deck.Bond { return &deck.Loan{Name: name} }
func text(s string) deck.Bond    { return &deck.Text{Parts: []string{s}} }

func params(names ...string) []*deck.Param {
	var out []*deck.Param
	for _, n := range names {
		out = append(out, &deck.Param{Name: n})
	}
	return out
}

func TestGreetTask(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "greet",
		Zone: []deck.Zone{&deck.Turn{Bond: text("hello")}},
	}}})

	expectCode(t, got, `function host_1() {
  return "hello";
}
file.task("greet", host_1);
`)
}

func TestTailCallBecomesReturn(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "run",
		Zone: []deck.Zone{&deck.Call{
			Name: deck.Callee{Name: "log"},
			Bind: []*deck.Bind{{Name: "value", Bond: text("hi")}},
		}},
	}}})

	expectCode(t, got, `const call = new Array(1);
file.save("~call", call);
function host_1() {
  return call[0]("hi");
}
file.task("run", host_1);
call[0] = file.task("log");
`)
}

func TestTailDeclarationReturnsLocal(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "make",
		Zone: []deck.Zone{&deck.Host{Name: "x", Bond: &deck.Size{Raw: "1"}}},
	}}})

	expectContains(t, got, "  let host_2 = 1;\n  return host_2;\n}")
}

func TestTailReturnIsNotWrapped(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "id",
		Link: params("v"),
		Zone: []deck.Zone{&deck.Turn{Bond: loan("v")}},
	}}})

	if strings.Count(got, "return") != 1 {
		t.Errorf("expected exactly one return, got:\n%s", got)
	}
	expectContains(t, got, "function host_1(host_2) {\n  return host_2;\n}")
}

func TestHookShadowsTaskParam(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "each",
		Link: params("item"),
		Zone: []deck.Zone{
			&deck.Call{
				Name: deck.Callee{Name: "walk"},
				Bind: []*deck.Bind{{Name: "list", Bond: loan("item")}},
				Hook: []*deck.Hook{{
					Link: params("item"),
					Zone: []deck.Zone{&deck.Turn{Bond: loan("item")}},
				}},
			},
			&deck.Turn{Bond: loan("item")},
		},
	}}})

	expectContains(t, got, `function host_1(host_2) {
  call[0](host_2, function (host_3) {
    return host_3;
  });
  return host_2;
}
`)
}

func TestTasksSeeEachOther(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{
		{Name: "first", Zone: []deck.Zone{&deck.Turn{Bond: loan("second")}}},
		{Name: "second", Zone: []deck.Zone{&deck.Turn{Bond: loan("first")}}},
	}})

	expectContains(t, got,
		"function host_1() {\n  return host_2;\n}",
		"function host_2() {\n  return host_1;\n}",
	)
}

func TestRecursiveLocalClosure(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "outer",
		Zone: []deck.Zone{&deck.Host{Name: "loop", Bond: &deck.TaskBond{Task: &deck.Task{
			Zone: []deck.Zone{&deck.Turn{Bond: loan("loop")}},
		}}}},
	}}})

	expectContains(t, got, "  let host_2 = function () {\n    return host_2;\n  };\n  return host_2;\n}")
}

func TestSiblingTasksShareFreeName(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{
		{Name: "a", Zone: []deck.Zone{&deck.Turn{Bond: loan("shared")}}},
		{Name: "b", Zone: []deck.Zone{&deck.Turn{Bond: loan("shared")}}},
	}})

	expectContains(t, got,
		"function host_1() {\n  return host_3;\n}",
		"function host_2() {\n  return host_3;\n}",
	)
	if strings.Contains(got, "host_4") {
		t.Errorf("expected one symbol for shared, got:\n%s", got)
	}
}

func TestHookWithAwaitIsAsync(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "run",
		Wait: true,
		Zone: []deck.Zone{&deck.Call{
			Name: deck.Callee{Name: "each"},
			Hook: []*deck.Hook{{
				Zone: []deck.Zone{&deck.Call{Name: deck.Callee{Name: "load"}, Wait: true}},
			}},
		}},
	}}})

	expectContains(t, got, "call[0](async function () {\n    return await call[1]();\n  });")
}

func TestAsyncTask(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "fetch",
		Wait: true,
		Zone: []deck.Zone{&deck.Call{Name: deck.Callee{Name: "load"}, Wait: true}},
	}}})

	expectContains(t, got, "async function host_1() {\n  return await call[0]();\n}")
}

func TestImports(t *testing.T) {
	got := translateFile(t, &deck.File{Task: []*deck.Task{{
		Name: "greet",
		Zone: []deck.Zone{&deck.Turn{Bond: loan("yell")}},
	}}},
		resolve.Import{Road: "app/lib", Take: []*deck.Take{{Name: "shout", Save: "yell"}, {Name: "trim"}}},
		resolve.Import{Road: "app/other"},
	)

	expectCode(t, got, `const file_1 = base.file("app/lib");
const host_1 = file_1.take("shout");
const host_2 = file_1.take("trim");
const file_2 = base.file("app/other");
function host_3() {
  return host_1;
}
file.task("greet", host_3);
`)
}

func TestImportTakeWithoutName(t *testing.T) {
	_, err := File(resolve.Unit{
		Road:    "app",
		File:    &deck.File{Road: "app", Kind: deck.KindBase},
		Imports: []resolve.Import{{Road: "app/lib", Take: []*deck.Take{{}}}},
	})
	var ce *diagnostic.CompileError
	if !errors.As(err, &ce) || ce.Kind != diagnostic.UnresolvedReference {
		t.Fatalf("expected unresolved reference, got %v", err)
	}
}

func TestPathCallee(t *testing.T) {
	got := translateFile(t, &deck.File{Zone: []deck.Zone{
		&deck.Call{
			Name: deck.Callee{Path: &deck.Nest{Steps: []*deck.Step{
				{Name: "console", Root: true},
				{Name: "log"},
			}}},
			Bind: []*deck.Bind{{Name: "v", Bond: &deck.Scalar{Value: true}}},
		},
	}})

	expectCode(t, got, "console.log(true);\n")
}

func TestComputedNest(t *testing.T) {
	got := translateFile(t, &deck.File{Zone: []deck.Zone{
		&deck.Host{Name: "obj", Bond: &deck.Record{}},
		&deck.Host{Name: "key", Bond: text("a")},
		&deck.Save{
			Nest: &deck.Ref{Nest: &deck.Nest{Steps: []*deck.Step{
				{Name: "obj"},
				{Nest: &deck.Nest{Steps: []*deck.Step{{Name: "key"}}}},
			}}},
			Bond: &deck.List{Items: []deck.Bond{&deck.Size{Raw: "1"}, &deck.Scalar{}}},
		},
	}})

	expectCode(t, got, `let host_1 = {};
let host_2 = "a";
host_1[host_2] = [1, null];
`)
}

func TestForms(t *testing.T) {
	got := translateFile(t, &deck.File{Form: []*deck.Form{{
		Name: "point",
		Link: params("x-pos", "class"),
		Task: []*deck.Task{
			{Name: "norm", Loan: true},
			{Name: "move-by", Link: params("d"), Zone: []deck.Zone{&deck.Turn{Bond: loan("d")}}},
		},
	}}})

	expectCode(t, got, `file.knit("~form/~name");
file.form("point", class Point {
  constructor(xPos, _class) {
    this.xPos = xPos;
    this._class = _class;
  }
  moveBy(host_1) {
    return host_1;
  }
});
`)
}

func TestStemsAndLaces(t *testing.T) {
	got := translateFile(t, &deck.File{Kind: deck.KindMine, Stem: []*deck.Stem{
		{Name: "max", Bond: &deck.Size{Raw: "10"}},
	}})
	expectCode(t, got, "file.knit(\"~stem\");\nfile.save(\"~stem/~max\", 10);\n")

	got = translateFile(t, &deck.File{Kind: deck.KindLace, Lace: []*deck.Lace{
		{Name: "meta", Value: &deck.Record{Fields: []*deck.Field{{Name: "a", Value: &deck.Scalar{Value: "b"}}}}},
	}})
	expectCode(t, got, "file.knit(\"~lace\");\nfile.save(\"~lace/~meta\", { \"a\": \"b\" });\n")
}

func TestTestFile(t *testing.T) {
	got := translateFile(t, &deck.File{
		Kind: deck.KindTest,
		Task: []*deck.Task{{Name: "checkAll", Zone: []deck.Zone{&deck.Turn{Bond: &deck.Scalar{Value: true}}}}},
		Test: []*deck.Test{{Name: "checkAll"}},
	})

	expectContains(t, got, `file.test("checkAll", host_1);`)
}

func TestTestUnknownTask(t *testing.T) {
	ce := translateError(t, &deck.File{
		Kind: deck.KindTest,
		Test: []*deck.Test{{Name: "ghost"}},
	})
	if ce.Kind != diagnostic.UnresolvedReference {
		t.Errorf("expected unresolved reference, got %s", ce.Kind)
	}
	if !strings.Contains(ce.Error(), "ghost") {
		t.Errorf("expected error to name ghost, got %v", ce)
	}
}

func TestDockTask(t *testing.T) {
	got := translateFile(t, &deck.File{Kind: deck.KindDock, Task: []*deck.Task{{
		Name: "drop",
		Link: params("obj"),
		Zone: []deck.Zone{&deck.Call{
			Name: deck.Callee{Name: "delete"},
			Bind: []*deck.Bind{
				{Name: "object", Bond: loan("obj")},
				{Name: "aspect", Bond: text("key")},
			},
		}},
	}}})

	expectCode(t, got, `file.task("drop", function (host_1) {
  return delete host_1["key"];
});
`)
}

func TestDockStatementAsValue(t *testing.T) {
	ce := translateError(t, &deck.File{Kind: deck.KindDock, Task: []*deck.Task{{
		Name: "bad",
		Zone: []deck.Zone{&deck.Host{Name: "x", Bond: &deck.Call{Name: deck.Callee{Name: "debug"}}}},
	}}})
	if ce.Kind != diagnostic.MalformedNode {
		t.Errorf("expected malformed node, got %s", ce.Kind)
	}
}

func TestDockUnknownOperation(t *testing.T) {
	ce := translateError(t, &deck.File{Road: "app/dock", Kind: deck.KindDock, Task: []*deck.Task{{
		Name: "bad",
		Zone: []deck.Zone{&deck.Call{Name: deck.Callee{Name: "foo-op"}}},
	}}})
	if ce.Kind != diagnostic.UnknownOperation {
		t.Errorf("expected unknown operation, got %s", ce.Kind)
	}
	if ce.Road != "app/dock" {
		t.Errorf("expected road app/dock, got %q", ce.Road)
	}
}

func TestMalformedNodes(t *testing.T) {
	tests := []struct {
		name string
		file *deck.File
		kind diagnostic.Kind
	}{
		{
			name: "unknown file kind",
			file: &deck.File{Kind: deck.Kind("wharf")},
			kind: diagnostic.MalformedNode,
		},
		{
			name: "unknown zone",
			file: &deck.File{Kind: deck.KindCall, Zone: []deck.Zone{&deck.UnknownZone{Form: "jump"}}},
			kind: diagnostic.MalformedNode,
		},
		{
			name: "unknown bond",
			file: &deck.File{Kind: deck.KindBase, Zone: []deck.Zone{&deck.Turn{Bond: &deck.UnknownBond{Form: "wat"}}}},
			kind: diagnostic.MalformedNode,
		},
		{
			name: "empty loan",
			file: &deck.File{Kind: deck.KindBase, Zone: []deck.Zone{&deck.Turn{Bond: loan("")}}},
			kind: diagnostic.UnresolvedReference,
		},
		{
			name: "empty path",
			file: &deck.File{Kind: deck.KindBase, Zone: []deck.Zone{&deck.Turn{Bond: &deck.ReadNest{Nest: &deck.Nest{}}}}},
			kind: diagnostic.UnresolvedReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := translateError(t, tt.file)
			if ce.Kind != tt.kind {
				t.Errorf("expected %s, got %s", tt.kind, ce.Kind)
			}
			if ce.Road != "app" {
				t.Errorf("expected road app, got %q", ce.Road)
			}
		})
	}
}
