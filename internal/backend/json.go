package backend

import "github.com/lhaig/deck/internal/jsast"

// JSONBackend dumps the program tree as ESTree-style JSON, for debugging
// the compiler itself.
type JSONBackend struct{}

// Name returns the backend name.
func (b *JSONBackend) Name() string {
	return "json"
}

func (b *JSONBackend) Extension() string {
	return ".json"
}

// Generate encodes the program tree.
func (b *JSONBackend) Generate(prog *jsast.Program) ([]byte, error) {
	return jsast.Dump(prog)
}
