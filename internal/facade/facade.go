// Package facade is the entry point external collaborators (a language
// server, the CLI) call: spec.md §6's GenerateExpandEdits and
// GenerateCodeActions. It wires internal/vlog, internal/symtab,
// internal/template and internal/expand together, validates the result
// through internal/editplan before returning it, and recovers from any
// panic into an empty result rather than letting one malformed file bring
// down a caller that serves many (spec.md §7). Errors are returned, not
// logged — the teacher's own cmd/vhdl-lint/main.go reports failures with a
// plain fmt.Fprintln at the call site rather than through a logging
// package, and this repo follows the same division of labor.
package facade

import (
	"context"
	"fmt"
	"sort"

	"github.com/vlog-tools/autoexpand/internal/editplan"
	"github.com/vlog-tools/autoexpand/internal/expand"
	"github.com/vlog-tools/autoexpand/internal/locator"
	"github.com/vlog-tools/autoexpand/internal/policyguard"
	"github.com/vlog-tools/autoexpand/internal/symtab"
	"github.com/vlog-tools/autoexpand/internal/vlog"
)

const (
	titleExpandAll   = "Expand all AUTOs in file"
	titleExpandRange = "Expand all AUTOs in selected range"
)

// Project is the set of files one GenerateExpandEdits/GenerateCodeActions
// call sees: the file being edited plus whatever companion files contribute
// module declarations to the symbol index (spec.md §6 SymbolIndex).
type Project struct {
	Path       string
	Text       string
	Companions map[string]string // path -> text, for cross-file AUTOINST resolution

	// DisableAutoTemplate mirrors config.Config.Expand.EnableAutoTemplate
	// inverted so the zero value keeps the default (enabled) behavior.
	DisableAutoTemplate bool
}

func (p Project) buildIndex() (*vlog.TreeHandle, *symtab.StaticIndex) {
	idx := symtab.NewStaticIndex()

	// AddFile's add order decides first-wins resolution for ambiguous module
	// names (symtab.StaticIndex), so companions must be added in a
	// deterministic order rather than Go's randomized map iteration.
	paths := make([]string, 0, len(p.Companions))
	for path := range p.Companions {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		idx.AddFile(vlog.Scan(path, p.Companions[path]))
	}

	handle := vlog.Scan(p.Path, p.Text)
	idx.AddFile(handle)
	return handle, idx
}

// GenerateExpandEdits returns every edit needed to expand all AUTOARG and
// AUTOINST directives in the project's primary file.
func GenerateExpandEdits(p Project) ([]editplan.Edit, error) {
	edits := safeGenerate(p)

	v, err := editplan.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("loading edit schema: %w", err)
	}
	if err := v.ValidateEdits(edits); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return edits, nil
}

// GenerateCodeActions returns the code actions spec.md §6 defines: always
// "Expand all AUTOs in file" when there is anything to expand, and also
// "Expand all AUTOs in selected range" when rng is non-empty and at least
// one edit starts inside it. An edit starts right after its directive's
// closing "*/", so a directive counts as in range when the end of its
// comment lies in [rng.StartByte, rng.EndByte), not when its start does.
func GenerateCodeActions(p Project, rng vlog.Span) ([]editplan.CodeAction, error) {
	all := safeGenerate(p)

	var actions []editplan.CodeAction
	if len(all) > 0 {
		actions = append(actions, editplan.CodeAction{Title: titleExpandAll, Edits: all})
	}

	if rng.EndByte > rng.StartByte {
		var inRange []editplan.Edit
		for _, e := range all {
			if e.Span.StartByte >= rng.StartByte && e.Span.StartByte < rng.EndByte {
				inRange = append(inRange, e)
			}
		}
		if len(inRange) > 0 {
			actions = append(actions, editplan.CodeAction{Title: titleExpandRange, Edits: inRange})
		}
	}

	v, err := editplan.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("loading edit schema: %w", err)
	}
	if err := v.ValidateCodeActions(actions); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return actions, nil
}

// Diagnostics classifies every unexpandable directive sighting in the
// project's primary file (invalid context, unresolved or ambiguous module
// target, malformed AUTO_TEMPLATE) without producing any edits.
func Diagnostics(ctx context.Context, p Project) ([]locator.Diagnostic, error) {
	guard, err := policyguard.New()
	if err != nil {
		return nil, fmt.Errorf("loading directive policy: %w", err)
	}

	var diags []locator.Diagnostic
	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic while diagnosing %s: %v", p.Path, r)
			}
		}()
		handle, idx := p.buildIndex()
		site := locator.Locate(p.Path, handle)
		diags = locator.Diagnose(ctx, guard, idx, site)
		return nil
	}()
	return diags, err
}

// safeGenerate recovers from a panic anywhere in the scan/resolve/render
// pipeline and degrades to "nothing to expand" rather than taking down a
// caller that may be serving many files from one process. It also asserts
// the edit planner's pairwise-disjointness invariant (spec.md §4.4, §8
// invariant 2): a violation panics here and is recovered into an empty
// result rather than handed to a caller that would apply overlapping edits.
func safeGenerate(p Project) (edits []editplan.Edit) {
	defer func() {
		if recover() != nil {
			edits = nil
		}
	}()

	handle, idx := p.buildIndex()
	raw := expand.File(p.Path, handle, idx, !p.DisableAutoTemplate)
	if err := editplan.CheckDisjoint(raw); err != nil {
		panic(err)
	}
	return editplan.SortDescending(raw)
}
