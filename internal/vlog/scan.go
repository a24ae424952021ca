package vlog

import "strings"

// BlockComment is a located `/* ... */` comment.
type BlockComment struct {
	Span    Span
	Content string // text between /* and */, exclusive
}

func findBlockComments(text string) []BlockComment {
	var out []BlockComment
	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], "/*")
		if start < 0 {
			break
		}
		start += i
		end := strings.Index(text[start+2:], "*/")
		if end < 0 {
			break
		}
		contentStart := start + 2
		contentEnd := start + 2 + end
		out = append(out, BlockComment{
			Span:    Span{StartByte: start, EndByte: contentEnd + 2},
			Content: text[contentStart:contentEnd],
		})
		i = contentEnd + 2
	}
	return out
}

func commentAt(comments []BlockComment, offset int) *BlockComment {
	for i := range comments {
		if comments[i].Span.StartByte == offset {
			return &comments[i]
		}
	}
	return nil
}

// commentsIn returns comments whose span lies within [lo, hi).
func commentsIn(comments []BlockComment, lo, hi int) []BlockComment {
	var out []BlockComment
	for _, c := range comments {
		if c.Span.StartByte >= lo && c.Span.EndByte <= hi {
			out = append(out, c)
		}
	}
	return out
}

const (
	autoargToken   = "AUTOARG"
	autoinstToken  = "AUTOINST"
	autotemplateTok = "AUTO_TEMPLATE"
)

// Scan builds a TreeHandle from raw Verilog/SystemVerilog source text. It is
// not a general parser (see package doc): it recognizes module headers and
// bodies, ANSI and non-ANSI port declarations, instantiations, and the three
// AUTO comment forms, and treats everything else as opaque text.
func Scan(path, text string) *TreeHandle {
	buf := NewBuffer(path, text)
	comments := findBlockComments(text)

	handle := &TreeHandle{Buffer: buf}

	pos := 0
	for {
		kw := findWord(text, "module", pos)
		if kw < 0 {
			break
		}
		nameStart := skipSpaces(text, kw+len("module"))
		nameEnd := scanIdent(text, nameStart)
		if nameEnd == nameStart {
			pos = kw + len("module")
			continue
		}
		name := text[nameStart:nameEnd]

		endKw := findWord(text, "endmodule", nameEnd)
		bodyEnd := endKw
		if bodyEnd < 0 {
			bodyEnd = len(text)
		}

		mod := scanModule(buf, text, comments, name, nameStart, nameEnd, bodyEnd)
		handle.Modules = append(handle.Modules, mod)

		if endKw < 0 {
			break
		}
		pos = endKw + len("endmodule")
	}

	return handle
}

func scanModule(buf *Buffer, text string, comments []BlockComment, name string, nameStart, nameEnd, bodyEnd int) *Module {
	mod := &Module{Name: name, NameSpan: buf.Span(nameStart, nameEnd)}

	p := skipSpaces(text, nameEnd)
	// Optional SystemVerilog parameter list: module foo #(...) (...)
	if p < len(text) && text[p] == '#' {
		p2 := skipSpaces(text, p+1)
		if p2 < len(text) && text[p2] == '(' {
			close := skipMatchingParen(text, p2)
			if close >= 0 {
				p = skipSpaces(text, close+1)
			}
		}
	}

	headerOpen, headerClose := -1, -1
	if p < len(text) && text[p] == '(' {
		headerOpen = p
		headerClose = skipMatchingParen(text, p)
		if headerClose >= 0 {
			p = headerClose + 1
		}
	}

	semi := strings.IndexByte(text[clampIndex(p, len(text)):], ';')
	bodyStart := p
	if semi >= 0 {
		bodyStart = p + semi + 1
	}
	if bodyStart > bodyEnd {
		bodyStart = bodyEnd
	}

	if headerOpen >= 0 && headerClose >= 0 {
		scanHeader(buf, text, comments, mod, headerOpen, headerClose)
	}

	scanBody(buf, text, comments, mod, bodyStart, bodyEnd)

	return mod
}

func clampIndex(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// scanHeader parses the module header's port-list content, locating an
// AUTOARG directive if present and collecting the pre-directive (or, absent
// a directive, the whole list's) declared port names and ANSI ports.
func scanHeader(buf *Buffer, text string, comments []BlockComment, mod *Module, open, close int) {
	content := text[open+1 : close]

	var directiveRelStart = -1
	for _, c := range commentsIn(comments, open+1, close) {
		if strings.TrimSpace(c.Content) == autoargToken {
			directiveRelStart = c.Span.StartByte - (open + 1)
			break
		}
	}

	scanRange := content
	if directiveRelStart >= 0 {
		scanRange = content[:directiveRelStart]
	}

	var currentDir Direction
	haveDir := false
	var names []string
	for _, seg := range topLevelSplit(scanRange) {
		item := strings.TrimSpace(seg.Text)
		if item == "" {
			continue
		}
		name, dir, hasDir := extractItemName(item)
		if name == "" {
			continue
		}
		if hasDir {
			currentDir = dir
			haveDir = true
		}
		names = append(names, name)
		if haveDir {
			itemOffset := open + 1 + seg.Start
			mod.AnsiPorts = append(mod.AnsiPorts, Port{
				Name:      name,
				Direction: currentDir,
				Style:     ANSIHeader,
				FirstSeen: buf.PositionAt(itemOffset),
			})
		}
	}

	mod.Header = &ModuleHeader{
		ModuleName:          mod.Name,
		HeaderOpen:          open,
		HeaderClose:         close,
		DeclaredHeaderPorts: names,
	}

	if directiveRelStart >= 0 {
		commentStart := open + 1 + directiveRelStart
		c := commentAt(comments, commentStart)
		if c != nil {
			mod.Header.Directive = &Directive{
				Kind:         AutoArg,
				CommentSpan:  c.Span,
				FillSpan:     buf.Span(c.Span.EndByte, close),
				Indent:       buf.IndentOfLine(mod.NameSpan.StartByte),
				ValidContext: true,
			}
		}
	}
}

// scanBody walks a module body left to right, recognizing non-ANSI port
// declarations, instantiations, and AUTO_TEMPLATE comments; everything else
// is skipped token by token. Whitespace is skipped byte by byte rather than
// through skipSpaces, which also swallows comments as whitespace — doing
// that here would skip past a body-level /*AUTOARG*/, /*AUTOINST*/, or
// AUTO_TEMPLATE comment before this loop ever gets to inspect it.
func scanBody(buf *Buffer, text string, comments []BlockComment, mod *Module, start, end int) {
	i := start
	for i < end {
		skip := skipWhitespaceBounded(text, i, end)
		if skip != i {
			i = skip
			continue
		}
		if i >= end {
			break
		}

		if c := commentAt(comments, i); c != nil {
			commentEnd := c.Span.EndByte
			if commentEnd > end {
				commentEnd = end
			} else {
				trimmed := strings.TrimSpace(c.Content)
				switch {
				case strings.Contains(c.Content, autotemplateTok):
					mod.TemplateComments = append(mod.TemplateComments, &TemplateComment{
						Span:    c.Span,
						Content: c.Content,
					})
				case trimmed == autoargToken:
					mod.OrphanDirectives = append(mod.OrphanDirectives, &Directive{
						Kind:        AutoArg,
						CommentSpan: c.Span,
					})
				case trimmed == autoinstToken:
					mod.OrphanDirectives = append(mod.OrphanDirectives, &Directive{
						Kind:        AutoInst,
						CommentSpan: c.Span,
					})
				}
			}
			i = commentEnd
			continue
		}

		if i+1 < end && text[i] == '/' && text[i+1] == '/' {
			nl := strings.IndexByte(text[i:end], '\n')
			if nl < 0 {
				i = end
			} else {
				i += nl
			}
			continue
		}

		if !isIdentStart(text[i]) {
			i++
			continue
		}

		wordEnd := scanIdent(text, i)
		word := text[i:wordEnd]

		if dir, ok := directionWords[word]; ok {
			semi := strings.IndexByte(text[wordEnd:end], ';')
			stmtEnd := end
			if semi >= 0 {
				stmtEnd = wordEnd + semi
			}
			scanPortDecl(buf, text, mod, dir, wordEnd, stmtEnd)
			if semi >= 0 {
				i = wordEnd + semi + 1
			} else {
				i = end
			}
			continue
		}

		if reservedWords[word] {
			i = wordEnd
			continue
		}

		if inst, next, ok := tryParseInstantiation(buf, text, comments, word, i, wordEnd, end); ok {
			mod.Instantiations = append(mod.Instantiations, inst)
			i = next
			continue
		}

		i = wordEnd
	}
}

// skipWhitespaceBounded skips literal whitespace only, unlike skipSpaces,
// which also treats comments as whitespace; scanBody needs to stop at a
// comment's start to inspect it rather than skip over it.
func skipWhitespaceBounded(text string, i, end int) int {
	for i < end && isSpace(text[i]) {
		i++
	}
	return i
}

func scanPortDecl(buf *Buffer, text string, mod *Module, dir Direction, from, to int) {
	content := text[from:to]
	for _, seg := range topLevelSplit(content) {
		item := strings.TrimSpace(seg.Text)
		if item == "" {
			continue
		}
		name, _, _ := extractItemName(item)
		if name == "" {
			continue
		}
		mod.BodyPorts = append(mod.BodyPorts, Port{
			Name:      name,
			Direction: dir,
			Style:     NonANSIBody,
			FirstSeen: buf.PositionAt(from + seg.Start),
		})
	}
}

// tryParseInstantiation attempts to parse `<instanceModuleWord> <instance
// name> [params] ( connections ) ;` starting at the already-scanned module
// name token [nameStart,nameEnd). Returns the Instantiation and the offset
// to resume scanning from.
func tryParseInstantiation(buf *Buffer, text string, comments []BlockComment, moduleName string, nameStart, nameEnd, limit int) (*Instantiation, int, bool) {
	p := skipSpaces(text, nameEnd)
	if p >= limit {
		return nil, 0, false
	}
	// Optional parameter override: bar #(.WIDTH(8)) b (...)
	if text[p] == '#' {
		p2 := skipSpaces(text, p+1)
		if p2 < limit && text[p2] == '(' {
			close := skipMatchingParen(text, p2)
			if close < 0 {
				return nil, 0, false
			}
			p = skipSpaces(text, close+1)
		}
	}
	if p >= limit || !isIdentStart(text[p]) {
		return nil, 0, false
	}
	instEnd := scanIdent(text, p)
	instanceName := text[p:instEnd]
	if reservedWords[instanceName] {
		return nil, 0, false
	}

	open := skipSpaces(text, instEnd)
	if open >= limit || text[open] != '(' {
		return nil, 0, false
	}
	close := skipMatchingParen(text, open)
	if close < 0 || close > limit {
		return nil, 0, false
	}
	afterClose := skipSpaces(text, close+1)
	if afterClose >= limit || text[afterClose] != ';' {
		return nil, 0, false
	}

	inst := &Instantiation{
		ModuleName:          moduleName,
		InstanceName:        instanceName,
		ParenOpen:           open,
		ParenClose:          close,
		ExistingConnections: map[string]string{},
	}

	var directiveStart = -1
	for _, c := range commentsIn(comments, open+1, close) {
		if strings.TrimSpace(c.Content) == autoinstToken {
			directiveStart = c.Span.StartByte
			break
		}
	}

	preEnd := close
	if directiveStart >= 0 {
		preEnd = directiveStart
	}
	for _, seg := range topLevelSplit(text[open+1 : preEnd]) {
		item := strings.TrimSpace(seg.Text)
		if item == "" || item[0] != '.' {
			continue
		}
		rest := item[1:]
		pEnd := strings.IndexByte(rest, '(')
		if pEnd < 0 {
			continue
		}
		portName := strings.TrimSpace(rest[:pEnd])
		exprClose := skipMatchingParen(rest, pEnd)
		if exprClose < 0 {
			continue
		}
		expr := strings.TrimSpace(rest[pEnd+1 : exprClose])
		if portName != "" {
			inst.ExistingConnections[portName] = expr
		}
	}

	if directiveStart >= 0 {
		c := commentAt(comments, directiveStart)
		if c != nil {
			inst.Directive = &Directive{
				Kind:         AutoInst,
				CommentSpan:  c.Span,
				FillSpan:     buf.Span(c.Span.EndByte, close),
				Indent:       buf.IndentOfLine(nameStart),
				ValidContext: true,
			}
		}
	}

	return inst, afterClose + 1, true
}
