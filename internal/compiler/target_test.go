package compiler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDeck(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.json")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("Failed to write deck: %v", err)
	}
	return path
}

func TestEmitToTargetJS(t *testing.T) {
	deckPath := writeDeck(t, greetDeck)
	baseName := filepath.Join(t.TempDir(), "greet")

	if err := EmitToTarget(deckPath, "js", "", baseName); err != nil {
		t.Fatalf("EmitToTarget failed: %v", err)
	}

	content, err := os.ReadFile(baseName + ".js")
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	output := string(content)
	if !strings.Contains(output, `base.file("app", function (file) {`) {
		t.Errorf("Expected module wrapper, got:\n%s", output)
	}
	if !strings.Contains(output, `return "hello";`) {
		t.Errorf("Expected greet body, got:\n%s", output)
	}
}

func TestEmitToTargetJSON(t *testing.T) {
	deckPath := writeDeck(t, greetDeck)
	outPath := filepath.Join(t.TempDir(), "tree.out")

	if err := EmitToTarget(deckPath, "json", outPath, "ignored"); err != nil {
		t.Fatalf("EmitToTarget failed: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(content, &tree); err != nil {
		t.Fatalf("Expected valid JSON, got %v:\n%s", err, content)
	}
	if tree["type"] != "Program" {
		t.Errorf("Expected Program root, got %v", tree["type"])
	}
}

func TestEmitToTargetCompileError(t *testing.T) {
	deckPath := writeDeck(t, fooOpDeck)
	baseName := filepath.Join(t.TempDir(), "bad")

	err := EmitToTarget(deckPath, "js", "", baseName)
	if err == nil {
		t.Fatal("Expected compile error")
	}
	if !strings.Contains(err.Error(), "foo-op") {
		t.Errorf("Expected error to name foo-op, got %v", err)
	}
	if _, statErr := os.Stat(baseName + ".js"); !os.IsNotExist(statErr) {
		t.Error("Expected no output file on compile error")
	}
}

func TestEmitToTargetMissingDeck(t *testing.T) {
	err := EmitToTarget(filepath.Join(t.TempDir(), "nope.json"), "js", "", "out")
	if err == nil {
		t.Fatal("Expected error for missing deck")
	}
}

func TestGetBackend(t *testing.T) {
	tests := []struct {
		target      string
		extension   string
		shouldError bool
	}{
		{"js", ".js", false},
		{"json", ".json", false},
		{"rust", "", true},
		{"unknown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			be, err := getBackend(tt.target)
			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error for target %s, got none", tt.target)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for target %s: %v", tt.target, err)
			}
			if be.Name() != tt.target {
				t.Errorf("Expected backend %s, got %s", tt.target, be.Name())
			}
			if be.Extension() != tt.extension {
				t.Errorf("Expected extension %s, got %s", tt.extension, be.Extension())
			}
		})
	}
}

func TestEmitUnknownTarget(t *testing.T) {
	if _, err := Emit(mustDecode(t, greetDeck), "wasm"); err == nil {
		t.Error("Expected error for unknown target")
	}
}
