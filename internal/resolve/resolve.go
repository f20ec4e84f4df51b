// Package resolve turns the load graph of a deck into an ordered compile
// worklist in which every reachable unit appears exactly once.
package resolve

import (
	"path"

	"github.com/lhaig/deck/internal/deck"
	"github.com/lhaig/deck/internal/diagnostic"
)

// Import is one imported unit as seen by the unit that loads it.
type Import struct {
	Road string       // resolved road
	Take []*deck.Take // bindings selected from it, empty for a re-export
}

// Namespaced reports whether the import names a package rather than a
// unit of the deck.
func (i Import) Namespaced() bool {
	return len(i.Road) > 0 && i.Road[0] == '@'
}

// Unit is one entry of the worklist.
type Unit struct {
	Road    string
	File    *deck.File
	Imports []Import
}

// Worklist performs a breadth-first walk from the lead unit. A unit is
// compiled the first time it is reached; later encounters are skipped, so
// import cycles terminate.
func Worklist(d *deck.Deck) ([]Unit, error) {
	lead, ok := d.Files[d.Lead]
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.UnresolvedReference, "lead",
			"lead road %q is not in the deck", d.Lead)
	}

	var units []Unit
	queue := []*deck.File{lead}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]

		if visited[file.Road] {
			continue
		}
		visited[file.Road] = true

		imports := Imports(d, file)
		units = append(units, Unit{Road: file.Road, File: file, Imports: imports})

		for _, imp := range imports {
			if next, ok := d.Files[imp.Road]; ok && !visited[imp.Road] {
				queue = append(queue, next)
			}
		}
	}

	return units, nil
}

// Imports flattens the load list of file into the bindings it imports.
// A load with a take list stops there; a load with nested loads descends
// into them; a bare load brings in the target unit and re-exports its own
// imports. Each target is expanded at most once per file.
func Imports(d *deck.Deck, file *deck.File) []Import {
	var out []Import
	visiting := map[string]bool{file.Road: true}
	for _, load := range file.Load {
		expand(d, file.Road, load, visiting, &out)
	}
	return out
}

func expand(d *deck.Deck, base string, load *deck.Load, visiting map[string]bool, out *[]Import) {
	road := load.Road
	if !load.IsNamespaced() {
		road = path.Join(base, load.Road)
	}

	switch {
	case len(load.Take) > 0:
		*out = append(*out, Import{Road: road, Take: load.Take})
	case len(load.Load) > 0:
		for _, nested := range load.Load {
			expand(d, road, nested, visiting, out)
		}
	default:
		target, ok := d.Files[road]
		if !ok || visiting[road] {
			return
		}
		visiting[road] = true
		*out = append(*out, Import{Road: road})
		for _, nested := range target.Load {
			expand(d, target.Road, nested, visiting, out)
		}
	}
}
