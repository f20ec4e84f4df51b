package translate

import (
	"github.com/iancoleman/strcase"

	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/term"
)

var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "static": true,
	"await": true, "implements": true, "interface": true, "package": true,
	"private": true, "protected": true, "public": true,
}

// memberName turns a deck name such as "load-file" into loadFile,
// prefixing reserved words with an underscore.
func memberName(name string) string {
	s := strcase.ToLowerCamel(name)
	if reserved[s] {
		return "_" + s
	}
	return s
}

// className turns a deck name into a PascalCase class name.
func className(name string) string {
	s := strcase.ToCamel(name)
	if reserved[s] {
		return "_" + s
	}
	return s
}

// forms emits each form as a class registered on the module. Forward
// declaration stubs are skipped.
func (t *translator) forms() ([]jsast.Stmt, error) {
	var out []jsast.Stmt
	for _, form := range t.file.Form {
		class, err := t.form(form)
		if err != nil {
			return nil, err
		}
		out = append(out, jsast.ExprStmt(jsast.MethodCall(jsast.Ident(ModuleParam), "form",
			jsast.Str(form.Name), class)))
	}
	return out, nil
}

func (t *translator) form(form *deck.Form) (*jsast.ClassExpression, error) {
	if form.Name == "" {
		return nil, diagnostic.Errorf(diagnostic.MalformedNode, "form", "form has no name")
	}

	params := make([]*jsast.Identifier, 0, len(form.Link))
	var assigns []jsast.Stmt
	for _, field := range form.Link {
		if field.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "form "+form.Name,
				"field has no name")
		}
		name := memberName(field.Name)
		params = append(params, jsast.Ident(name))
		assigns = append(assigns, jsast.ExprStmt(jsast.Assign(
			jsast.Member(jsast.This(), name),
			jsast.Ident(name),
		)))
	}

	methods := []*jsast.MethodDefinition{
		jsast.Constructor(jsast.Func(nil, params, assigns, false)),
	}
	for _, task := range form.Task {
		if task.Loan {
			continue
		}
		if task.Name == "" {
			return nil, diagnostic.Errorf(diagnostic.MalformedNode, "form "+form.Name,
				"method has no name")
		}
		params, body, err := t.function(term.Root, task.Link, task.Zone)
		if err != nil {
			return nil, err
		}
		methods = append(methods, jsast.Method(memberName(task.Name),
			jsast.Func(nil, params, body, task.Wait)))
	}

	return jsast.Class(jsast.Ident(className(form.Name)), methods...), nil
}
