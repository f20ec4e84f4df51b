package backend

import (
	"github.com/lhaig/deck/internal/jsast"
	"github.com/lhaig/deck/internal/printer"
)

// JSBackend wraps the printer as a Backend implementation.
type JSBackend struct{}

// Name returns the backend name.
func (b *JSBackend) Name() string {
	return "js"
}

func (b *JSBackend) Extension() string {
	return ".js"
}

// Generate produces JavaScript source code from a program.
func (b *JSBackend) Generate(prog *jsast.Program) ([]byte, error) {
	return []byte(printer.Generate(prog)), nil
}
