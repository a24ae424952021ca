// Package editplan owns the Edit/CodeAction wire types internal/facade
// returns, plus the invariants spec.md §8 holds them to: never-overlapping
// spans and a stable descending-by-position application order. Its
// Validator checks a plan against an embedded CUE schema; internal/facade
// runs it on every plan before returning one. The Validator is grounded on
// the teacher's internal/validator.Validator "crash early" contract guard
// between the Go layer and its JSON-shaped boundary.
package editplan

import (
	"fmt"
	"sort"

	"github.com/vlog-tools/autoexpand/internal/vlog"
)

// Edit is one text replacement: the bytes in [Span.StartByte, Span.EndByte)
// of the file at Path are replaced by NewText.
type Edit struct {
	Path    string    `json:"path"`
	Span    vlog.Span `json:"span"`
	NewText string    `json:"newText"`
}

// CodeAction bundles a set of Edits under a user-facing Title (spec.md §6).
type CodeAction struct {
	Title string `json:"title"`
	Edits []Edit `json:"edits"`
}

// SortDescending returns edits ordered by descending start byte within each
// path, the order spec.md §8 requires them to be applied in so that an
// earlier edit's span never gets invalidated by a later one being applied
// first.
func SortDescending(edits []Edit) []Edit {
	out := make([]Edit, len(edits))
	copy(out, edits)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Span.StartByte > out[j].Span.StartByte
	})
	return out
}

// CheckDisjoint reports an error if any two edits to the same path overlap.
func CheckDisjoint(edits []Edit) error {
	byPath := make(map[string][]Edit)
	for _, e := range edits {
		byPath[e.Path] = append(byPath[e.Path], e)
	}
	for path, es := range byPath {
		sorted := make([]Edit, len(es))
		copy(sorted, es)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.StartByte < sorted[j].Span.StartByte })
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Span.StartByte < sorted[i-1].Span.EndByte {
				return fmt.Errorf("%s: overlapping edits at byte %d and %d", path, sorted[i-1].Span.StartByte, sorted[i].Span.StartByte)
			}
		}
	}
	return nil
}

// Apply applies edits (which must all target text) to text, in descending
// order, returning the resulting text. It does not itself re-check
// disjointness; call CheckDisjoint first.
func Apply(text string, edits []Edit) string {
	ordered := SortDescending(edits)
	for _, e := range ordered {
		if e.Span.StartByte < 0 || e.Span.EndByte > len(text) || e.Span.StartByte > e.Span.EndByte {
			continue
		}
		text = text[:e.Span.StartByte] + e.NewText + text[e.Span.EndByte:]
	}
	return text
}
