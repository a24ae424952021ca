// Package locator assembles the flat list of directive sites a source file
// contains into the shapes internal/expand and internal/policyguard act on.
// Binding itself already happened structurally during internal/vlog.Scan;
// this package's job is to walk the resulting tree and classify each
// sighting, grounded on the teacher's extractor.go walkTree traversal shape.
package locator

import (
	"context"

	"github.com/vlog-tools/autoexpand/internal/policyguard"
	"github.com/vlog-tools/autoexpand/internal/symtab"
	"github.com/vlog-tools/autoexpand/internal/template"
	"github.com/vlog-tools/autoexpand/internal/vlog"
)

// Bound is one AUTOARG/AUTOINST directive that bound to a syntactic slot
// and is therefore eligible for expansion.
type Bound struct {
	Path          string
	Module        *vlog.Module
	Instantiation *vlog.Instantiation // nil for an AUTOARG directive
	Directive     *vlog.Directive
}

// Orphan is an AUTOARG/AUTOINST comment that never bound to anything.
type Orphan struct {
	Path      string
	Module    *vlog.Module
	Directive *vlog.Directive
}

// Site is everything locator found in one file.
type Site struct {
	Bound   []Bound
	Orphans []Orphan
}

// Locate walks handle's modules, collecting bound directives in module order
// (header directive before any instantiation directives, matching
// left-to-right source position) and orphan sightings.
func Locate(path string, handle *vlog.TreeHandle) Site {
	var site Site
	for _, mod := range handle.Modules {
		if mod.Header != nil && mod.Header.Directive != nil {
			site.Bound = append(site.Bound, Bound{Path: path, Module: mod, Directive: mod.Header.Directive})
		}
		for _, inst := range mod.Instantiations {
			if inst.Directive != nil {
				site.Bound = append(site.Bound, Bound{Path: path, Module: mod, Instantiation: inst, Directive: inst.Directive})
			}
		}
		for _, d := range mod.OrphanDirectives {
			site.Orphans = append(site.Orphans, Orphan{Path: path, Module: mod, Directive: d})
		}
	}
	return site
}

// Diagnostic is a classified issue surfaced alongside (not instead of) the
// edits internal/expand produces.
type Diagnostic struct {
	Path           string
	Span           vlog.Span
	Classification string
	Severity       string
}

// Diagnose classifies every orphan directive, and every bound AUTOINST
// directive whose target module is missing or ambiguous, or whose enclosing
// module holds any AUTO_TEMPLATE comment that failed to parse (whichever
// module that template names). idx is consulted for module resolution.
func Diagnose(ctx context.Context, guard *policyguard.Guard, idx symtab.Index, site Site) []Diagnostic {
	var out []Diagnostic

	for _, o := range site.Orphans {
		kind := "autoarg"
		if o.Directive.Kind == vlog.AutoInst {
			kind = "autoinst"
		}
		v, err := guard.Classify(ctx, policyguard.Occurrence{Kind: kind, Bound: false})
		if err != nil {
			continue
		}
		out = append(out, Diagnostic{Path: o.Path, Span: o.Directive.CommentSpan, Classification: v.Classification, Severity: v.Severity})
	}

	for _, b := range site.Bound {
		if b.Instantiation == nil {
			continue
		}
		declCount := countDeclarations(idx, b.Instantiation.ModuleName)
		_, found := idx.LookupModule(b.Instantiation.ModuleName)
		templateErr := false
		for _, tc := range b.Module.TemplateComments {
			if template.Parse(tc.Content).Malformed {
				templateErr = true
			}
		}
		v, err := guard.Classify(ctx, policyguard.Occurrence{
			Kind:                   "autoinst",
			Bound:                  true,
			ModuleFound:            found,
			ModuleDeclarationCount: declCount,
			TemplateParseError:     templateErr,
		})
		if err != nil {
			continue
		}
		if v.Classification == "ok" {
			continue
		}
		out = append(out, Diagnostic{Path: b.Path, Span: b.Directive.CommentSpan, Classification: v.Classification, Severity: v.Severity})
	}

	return out
}

// countDeclarations counts how many indexed modules share name, across every
// file the caller added to idx, used to feed the ambiguity classification.
func countDeclarations(idx symtab.Index, name string) int {
	n := 0
	for _, m := range idx.ListModules() {
		if m.Name == name {
			n++
		}
	}
	return n
}
