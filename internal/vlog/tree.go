package vlog

// DirectiveKind distinguishes the two directives that are actually expanded.
// AUTO_TEMPLATE is never itself a target of expansion (spec.md §4.3); it has
// no DirectiveKind of its own here and is represented by TemplateComment.
type DirectiveKind int

const (
	AutoArg DirectiveKind = iota
	AutoInst
)

// Directive is a located `/*AUTOARG*/` or `/*AUTOINST*/` comment bound to its
// enclosing syntactic context, plus the span of text it owns: from the end of
// the comment token through the syntactic delimiter that closes the
// enclosing list (spec.md's "directive span").
type Directive struct {
	Kind         DirectiveKind
	CommentSpan  Span // the `/*AUTOARG*/` / `/*AUTOINST*/` token itself
	FillSpan     Span // region to replace: end of comment through the closing delimiter (exclusive)
	Indent       string
	ValidContext bool
}

// ModuleHeader is a module header's port-list context, present only for
// modules that declare ports via `(` ... `)` after the module name.
type ModuleHeader struct {
	ModuleName         string
	HeaderOpen         int
	HeaderClose        int
	DeclaredHeaderPorts []string // names appearing before the AUTOARG directive (or, absent one, the whole header)
	Directive          *Directive
}

// Instantiation is one `module_name instance_name ( ... ) ;` site.
type Instantiation struct {
	ModuleName          string
	InstanceName        string
	ParenOpen, ParenClose int
	ExistingConnections map[string]string // port name -> expression text, pre-directive only
	Directive           *Directive
}

// TemplateComment is a located `AUTO_TEMPLATE` comment, bound to its
// enclosing module body as lexical scope.
type TemplateComment struct {
	Span    Span
	Content string // comment interior text, between /* and */
}

// Module is one `module ... endmodule` region.
type Module struct {
	Name             string
	NameSpan         Span
	AnsiPorts        []Port // header-declared ports, in header order
	BodyPorts        []Port // non-ANSI body-declared ports, in body order
	Header           *ModuleHeader
	Instantiations   []*Instantiation
	TemplateComments []*TemplateComment
	// OrphanDirectives are AUTOARG/AUTOINST comments found in the module body
	// that never bound to a header or instantiation paren list — a directive
	// written in a syntax position it can't act on (spec.md §7 invalid_context).
	OrphanDirectives []*Directive
}

// EffectivePorts returns the union PortList used to resolve this module as
// an AUTOINST target: ANSI header ports first (header order), then
// non-ANSI body ports (body order), per spec.md §4.3 step 2.
func (m *Module) EffectivePorts() *PortList {
	pl := NewPortList()
	for _, p := range m.AnsiPorts {
		pl.Add(p)
	}
	for _, p := range m.BodyPorts {
		pl.Add(p)
	}
	return pl
}

// NonANSIBodyPorts returns the PortList of this module's own non-ANSI body
// ports, the source AUTOARG fills from (spec.md §4.3 step 1).
func (m *Module) NonANSIBodyPorts() *PortList {
	pl := NewPortList()
	for _, p := range m.BodyPorts {
		pl.Add(p)
	}
	return pl
}

// TreeHandle is the external-parser stand-in: the parsed form of one source
// buffer, consumed by internal/locator and internal/symtab. It is what
// ParseTree(buffer) in spec.md §6 would hand back.
type TreeHandle struct {
	Buffer  *Buffer
	Modules []*Module
}
