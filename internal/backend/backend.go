package backend

import "github.com/lhaig/deck/internal/jsast"

// Backend is the interface that all output backends implement.
type Backend interface {
	// Name returns the backend name (e.g., "js", "json")
	Name() string
	// Extension returns the file extension of the output, with the dot.
	Extension() string
	// Generate produces output from an assembled program.
	Generate(prog *jsast.Program) ([]byte, error)
}
