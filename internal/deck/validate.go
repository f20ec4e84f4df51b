package deck

import (
	"path"
	"sort"

	"github.com/lhaig/deck/internal/diagnostic"
)

// KnownKind reports whether k is a file kind the compiler translates.
func KnownKind(k Kind) bool {
	switch k {
	case KindBase, KindMill, KindDock, KindForm, KindMine, KindCall, KindFeed, KindTest, KindLace:
		return true
	default:
		return false
	}
}

// Validate checks the structural shape of a deck and returns diagnostics.
// It never stops at the first problem; a deck with no error-level
// diagnostics may still fail to compile on malformed nodes inside bodies.
func Validate(d *Deck) *diagnostic.Diagnostics {
	diag := diagnostic.New()

	if d.Lead == "" {
		diag.Errorf("", "", "deck has no lead road")
	} else if _, ok := d.Files[d.Lead]; !ok {
		diag.Errorf(d.Lead, "", "lead road is not in the deck")
	}

	// Sorted for deterministic output
	roads := make([]string, 0, len(d.Files))
	for road := range d.Files {
		roads = append(roads, road)
	}
	sort.Strings(roads)

	for _, road := range roads {
		validateFile(diag, d, d.Files[road])
	}

	return diag
}

func validateFile(diag *diagnostic.Diagnostics, d *Deck, f *File) {
	if !KnownKind(f.Kind) {
		diag.Errorf(f.Road, "", "unknown file kind %q", f.Kind)
	}

	for _, load := range f.Load {
		validateLoad(diag, d, f.Road, f.Road, load)
	}

	seen := make(map[string]bool)
	for _, task := range f.Task {
		if task.Name == "" {
			diag.Errorf(f.Road, "task", "task has no name")
			continue
		}
		if seen[task.Name] {
			diag.Errorf(f.Road, "task "+task.Name, "task %s is defined more than once", task.Name)
		}
		seen[task.Name] = true
		validateParams(diag, f.Road, "task "+task.Name, task.Link)
	}

	for _, form := range f.Form {
		if form.Name == "" {
			diag.Errorf(f.Road, "form", "form has no name")
			continue
		}
		validateParams(diag, f.Road, "form "+form.Name, form.Link)
		for _, method := range form.Task {
			if method.Name == "" {
				diag.Errorf(f.Road, "form "+form.Name, "method has no name")
			}
		}
	}

	for _, test := range f.Test {
		if !seen[test.Name] {
			diag.WarningWithHint(f.Road, "test "+test.Name,
				"test names a task that is not defined in this file",
				"the task must be taken from an import")
		}
	}
}

func validateLoad(diag *diagnostic.Diagnostics, d *Deck, owner, base string, load *Load) {
	if load.Road == "" {
		diag.Errorf(owner, "load", "load has no road")
		return
	}
	road := load.Road
	if !load.IsNamespaced() {
		road = path.Join(base, load.Road)
		if _, ok := d.Files[road]; !ok && len(load.Load) == 0 {
			diag.Warningf(owner, "load "+load.Road, "import %s is not in the deck", road)
		}
	}
	for _, take := range load.Take {
		if take.Name == "" {
			diag.Errorf(owner, "load "+load.Road, "take has no name")
		}
	}
	for _, nested := range load.Load {
		validateLoad(diag, d, owner, road, nested)
	}
}

func validateParams(diag *diagnostic.Diagnostics, road, node string, params []*Param) {
	seen := make(map[string]bool)
	for _, p := range params {
		if p.Name == "" {
			diag.Errorf(road, node, "parameter has no name")
			continue
		}
		if seen[p.Name] {
			diag.Warningf(road, node, "parameter %s is repeated", p.Name)
		}
		seen[p.Name] = true
	}
}
