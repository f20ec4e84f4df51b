package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lhaig/deck/internal/compiler"
	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
	"github.com/lhaig/deck/internal/resolve"
)

const usage = `deckc - compile a deck to JavaScript

Usage:
  deckc build [--target js|json] [-o out] <deck.json>   Compile a deck
  deckc check <deck.json>                               Validate and compile without output
  deckc dump <deck.json>                                Print the program tree as JSON
  deckc roads <deck.json>                               Print the compile order

Options:
  --target   Output target: js (default) or json (program tree dump)
  -o         Output path (default: <deck name> plus the target extension)

Examples:
  deckc build app.json                 Write app.js
  deckc build --target json app.json   Write app.json tree next to the input name
  deckc check app.json                 Report structural problems
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		handleBuild(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "dump":
		handleDump(os.Args[2:])
	case "roads":
		handleRoads(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func handleBuild(args []string) {
	target := "js"
	var outPath, filePath string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--target" || arg == "-o":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "Error: %s needs a value\n", arg)
				os.Exit(1)
			}
			i++
			if arg == "--target" {
				target = args[i]
			} else {
				outPath = args[i]
			}
		case strings.HasPrefix(arg, "--target="):
			target = strings.TrimPrefix(arg, "--target=")
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			os.Exit(1)
		default:
			filePath = arg
		}
	}

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	baseName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	fmt.Printf("Compiling %s...\n", filePath)
	if err := compiler.EmitToTarget(filePath, target, outPath, baseName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func handleCheck(args []string) {
	d := loadDeck(args)

	diag := compiler.Check(d)
	if diag.HasErrors() {
		fmt.Fprint(os.Stderr, diag.Format())
		os.Exit(1)
	}
	for _, item := range diag.All() {
		if item.Severity != diagnostic.Error {
			fmt.Printf("%s[%s]: %s\n", item.Severity, item.Road, item.Message)
		}
	}

	fmt.Println("No errors found.")
}

func handleDump(args []string) {
	d := loadDeck(args)

	out, err := compiler.Emit(d, "json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}

func handleRoads(args []string) {
	d := loadDeck(args)

	units, err := resolve.Worklist(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	for _, unit := range units {
		fmt.Printf("%s (%s)\n", unit.Road, unit.File.Kind)
	}
}

func loadDeck(args []string) *deck.Deck {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	d, err := deck.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	return d
}
