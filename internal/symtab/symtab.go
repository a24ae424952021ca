// Package symtab is the module index adapter: a thin view over the
// project-wide symbol table external collaborators own (spec.md §6
// SymbolIndex). Index is the interface the expansion engine consumes;
// StaticIndex is the in-memory, test- and CLI-facing implementation built
// from a set of scanned files, modeled on the teacher's indexer.SymbolTable
// aggregation of extractor.FileFacts across files.
package symtab

import "github.com/vlog-tools/autoexpand/internal/vlog"

// Index resolves module names to their declaration, first match wins on
// ambiguous (duplicate) names (spec.md §3 ModuleDecl, §8 AUTOINST_Ambiguous).
type Index interface {
	LookupModule(name string) (*vlog.Module, bool)
	ListModules() []*vlog.Module
}

// StaticIndex aggregates modules scanned from one or more files in the order
// they were added, which is also ListModules' iteration order. Lookups
// resolve to the first-added declaration for a name, never a later one.
type StaticIndex struct {
	modules []*vlog.Module
	byName  map[string]*vlog.Module
}

// NewStaticIndex returns an empty index.
func NewStaticIndex() *StaticIndex {
	return &StaticIndex{byName: make(map[string]*vlog.Module)}
}

// AddFile indexes every module declared in handle. Call in a stable,
// deterministic file order (e.g. the order companion files were supplied)
// since that order determines ambiguous-name resolution.
func (idx *StaticIndex) AddFile(handle *vlog.TreeHandle) {
	for _, m := range handle.Modules {
		idx.modules = append(idx.modules, m)
		if _, ok := idx.byName[m.Name]; !ok {
			idx.byName[m.Name] = m
		}
	}
}

// LookupModule returns the first-declared module with the given name.
func (idx *StaticIndex) LookupModule(name string) (*vlog.Module, bool) {
	m, ok := idx.byName[name]
	return m, ok
}

// ListModules returns every indexed module in file-then-source order.
func (idx *StaticIndex) ListModules() []*vlog.Module {
	return idx.modules
}
