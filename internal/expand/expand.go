// Package expand computes the replacement text for a single bound AUTOARG
// or AUTOINST directive and wraps it in an editplan.Edit. The rendering
// rules (bucket order, per-bucket headers, trailing commas, indentation)
// come directly from the golden text the language server's own test suite
// checks against; the orchestration shape — walk modules, resolve targets,
// render, collect — follows the teacher's internal/indexer.Indexer.
package expand

import (
	"strings"

	"github.com/vlog-tools/autoexpand/internal/editplan"
	"github.com/vlog-tools/autoexpand/internal/symtab"
	"github.com/vlog-tools/autoexpand/internal/template"
	"github.com/vlog-tools/autoexpand/internal/vlog"
)

// AUTOARG fills from the module's own non-ANSI body port declarations,
// skipping any name already declared in the header (spec.md §4.3 step 1).
func AUTOARG(path string, mod *vlog.Module) (editplan.Edit, bool) {
	if mod.Header == nil || mod.Header.Directive == nil {
		return editplan.Edit{}, false
	}

	declared := make(map[string]bool, len(mod.Header.DeclaredHeaderPorts))
	for _, n := range mod.Header.DeclaredHeaderPorts {
		declared[n] = true
	}
	remaining := mod.NonANSIBodyPorts().Without(declared)

	text := renderAUTOARG(mod.Header.Directive.Indent, remaining)
	return editplan.Edit{Path: path, Span: mod.Header.Directive.FillSpan, NewText: text}, true
}

func renderAUTOARG(indent string, pl *vlog.PortList) string {
	contentIndent := indent + "  "
	var sb strings.Builder
	sb.WriteByte('\n')
	buckets := pl.Buckets()
	for bi, b := range buckets {
		sb.WriteString(contentIndent)
		sb.WriteString(b.Direction.BucketHeader())
		sb.WriteByte('\n')
		sb.WriteString(contentIndent)
		names := make([]string, len(b.Ports))
		for i, p := range b.Ports {
			names[i] = p.Name
		}
		sb.WriteString(strings.Join(names, ", "))
		if bi != len(buckets)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(contentIndent)
	return sb.String()
}

// AUTOINST fills from the target module's effective port list (ANSI header
// ports, then non-ANSI body ports), skipping ports already connected before
// the directive and applying the effective AUTO_TEMPLATE override, if any,
// to the connection expression (spec.md §4.3 step 2).
func AUTOINST(path string, inst *vlog.Instantiation, target *vlog.Module, tmpl *template.Record) (editplan.Edit, bool) {
	if inst.Directive == nil {
		return editplan.Edit{}, false
	}

	skip := make(map[string]bool, len(inst.ExistingConnections))
	for name := range inst.ExistingConnections {
		skip[name] = true
	}
	remaining := target.EffectivePorts().Without(skip)

	text := renderAUTOINST(inst.Directive.Indent, remaining, tmpl)
	return editplan.Edit{Path: path, Span: inst.Directive.FillSpan, NewText: text}, true
}

func renderAUTOINST(indent string, pl *vlog.PortList, tmpl *template.Record) string {
	contentIndent := indent + "  "
	buckets := pl.Buckets()
	total := pl.Len()
	emitted := 0

	var sb strings.Builder
	sb.WriteByte('\n')
	for _, b := range buckets {
		sb.WriteString(contentIndent)
		sb.WriteString(b.Direction.BucketHeader())
		sb.WriteByte('\n')
		for _, p := range b.Ports {
			expr := p.Name
			if tmpl != nil {
				if override, ok := tmpl.Connections[p.Name]; ok {
					expr = override
				}
			}
			sb.WriteString(contentIndent)
			sb.WriteByte('.')
			sb.WriteString(p.Name)
			sb.WriteByte('(')
			sb.WriteString(expr)
			sb.WriteByte(')')
			emitted++
			if emitted != total {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// File computes every Edit for the bound directives in handle's modules.
// idx resolves AUTOINST targets by module name; pass an index built from the
// whole project, not just this file, so cross-file targets resolve.
// enableTemplate mirrors config.Config.Expand.EnableAutoTemplate: when
// false, AUTO_TEMPLATE connection overrides are ignored and every port
// connects to a same-named signal.
func File(path string, handle *vlog.TreeHandle, idx symtab.Index, enableTemplate bool) []editplan.Edit {
	var edits []editplan.Edit
	for _, mod := range handle.Modules {
		if e, ok := AUTOARG(path, mod); ok {
			edits = append(edits, e)
		}

		var sets []*template.Set
		if enableTemplate {
			for _, tc := range mod.TemplateComments {
				sets = append(sets, template.Parse(tc.Content))
			}
		}

		for _, inst := range mod.Instantiations {
			if inst.Directive == nil {
				continue
			}
			target, ok := idx.LookupModule(inst.ModuleName)
			if !ok {
				continue // unresolved_module: no edit, spec.md §7
			}
			tmpl := template.EffectiveTemplate(sets, inst.ModuleName)
			if e, ok := AUTOINST(path, inst, target, tmpl); ok {
				edits = append(edits, e)
			}
		}
	}
	return edits
}
