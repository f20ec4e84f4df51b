package compiler

import (
	"fmt"
	"os"

	"github.com/lhaig/deck/internal/backend"
	"github.com/lhaig/deck/internal/deck"
)

// getBackend returns the appropriate backend for the given target
func getBackend(target string) (backend.Backend, error) {
	switch target {
	case "js":
		return &backend.JSBackend{}, nil
	case "json":
		return &backend.JSONBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown target: %s", target)
	}
}

// Emit compiles a deck and renders it through the backend for target.
func Emit(d *deck.Deck, target string) ([]byte, error) {
	be, err := getBackend(target)
	if err != nil {
		return nil, err
	}
	prog, err := Compile(d)
	if err != nil {
		return nil, err
	}
	return be.Generate(prog)
}

// EmitToTarget compiles the deck at deckPath and writes the output for
// target. An empty outPath derives one from baseName and the target's
// extension.
func EmitToTarget(deckPath, target, outPath, baseName string) error {
	be, err := getBackend(target)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = baseName + be.Extension()
	}

	prog, err := CompileFile(deckPath)
	if err != nil {
		return err
	}
	out, err := be.Generate(prog)
	if err != nil {
		return fmt.Errorf("failed to generate %s output: %w", be.Name(), err)
	}

	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Wrote %s\n", outPath)
	return nil
}
