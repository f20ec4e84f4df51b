package translate

import (
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/term"
)

// imports emits one module handle per distinct imported road and one
// binding per taken name. Taken names are declared in the root frame
// under their alias.
func (t *translator) imports() ([]jsast.Stmt, error) {
	var out []jsast.Stmt
	seen := make(map[string]bool)
	for _, imp := range t.unit.Imports {
		handle := t.store.Resolve(term.Root, term.File, imp.Road)
		if !seen[imp.Road] {
			seen[imp.Road] = true
			out = append(out, jsast.Const(
				jsast.Ident(handle.String()),
				jsast.MethodCall(jsast.Ident("base"), "file", jsast.Str(imp.Road)),
			))
		}
		for _, take := range imp.Take {
			if take.Name == "" {
				return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "load "+imp.Road,
					"take has no name")
			}
			host := t.store.Declare(term.Root, term.Host, take.Alias())
			out = append(out, jsast.Const(
				jsast.Ident(host.String()),
				jsast.MethodCall(jsast.Ident(handle.String()), "take", jsast.Str(take.Name)),
			))
		}
	}
	return out, nil
}

// declareTasks puts every task name in the root frame before any body is
// translated, so tasks can refer to each other in any order.
func (t *translator) declareTasks() {
	for _, task := range t.file.Task {
		if task.Name != "" && !task.Loan {
			t.store.Declare(term.Root, term.Host, task.Name)
		}
	}
}
