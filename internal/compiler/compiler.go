package compiler

import (
	"errors"
	"fmt"

	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/normalize"
	"github.com/lhaig/deck/internal/resolve"
	"github.com/lhaig/deck/internal/translate"
)

// Compile runs the full pipeline: resolve -> translate -> normalize ->
// assemble. Each reachable unit is translated exactly once, in worklist
// order. The first fatal error aborts the compile and no program is
// returned.
func Compile(d *deck.Deck) (*jsast.Program, error) {
	units, err := resolve.Worklist(d)
	if err != nil {
		return nil, err
	}

	prog := &jsast.Program{}
	for _, unit := range units {
		out, err := translate.File(unit)
		if err != nil {
			return nil, err
		}
		normalize.Statements(out.Body)
		prog.Body = append(prog.Body, wrap(out))
	}
	return prog, nil
}

// wrap registers a unit body with the runtime:
//
//	base.file("<road>", function (file) { ... })
func wrap(unit *translate.Unit) jsast.Stmt {
	body := jsast.Func(nil, []*jsast.Identifier{jsast.Ident(translate.ModuleParam)}, unit.Body, false)
	return jsast.ExprStmt(jsast.MethodCall(jsast.Ident("base"), "file", jsast.Str(unit.Road), body))
}

// Check runs structural validation, then a full compile when validation
// found no errors. Nothing is emitted.
func Check(d *deck.Deck) *diagnostic.Diagnostics {
	diag := deck.Validate(d)
	if diag.HasErrors() {
		return diag
	}

	if _, err := Compile(d); err != nil {
		var ce *diagnostic.CompileError
		if errors.As(err, &ce) {
			diag.Add(ce)
		} else {
			diag.Errorf("", "", "%s", err)
		}
	}
	return diag
}

// CompileFile loads a deck from path and compiles it.
func CompileFile(path string) (*jsast.Program, error) {
	d, err := deck.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := Compile(d)
	if err != nil {
		return nil, fmt.Errorf("compilation failed: %w", err)
	}
	return prog, nil
}
