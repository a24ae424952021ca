// Package template parses AUTO_TEMPLATE comment bodies into ordered
// connection-override records, grounded on the comma-separated accumulation
// style of the teacher's extractor/patterns.go and facts/delta.go.
//
// Grammar (see spec.md §4.3 / GLOSSARY): a comment body is a sequence of
//
//	<module-name-pattern> AUTO_TEMPLATE ["quoted regex"] [( .port(expr), ... )]
//
// groups. A group that omits the parenthesized connection list inherits the
// list belonging to the next group in the sequence that has one — the list
// attaches backward to every immediately preceding list-less pattern. The
// quoted regex is parsed and retained but never evaluated: spec.md §9 is
// explicit that real-world AUTO_TEMPLATE patterns are almost always the bare
// module name, and guessing regex semantics without a reference
// implementation to check against would be worse than not matching at all.
package template

import "strings"

// Record is one resolved AUTO_TEMPLATE group: the module-name pattern it
// applies to, plus the port-name to connection-expression overrides it
// contributes. ConnOrder preserves the textual order of the .port(expr)
// pairs, though nothing in this package depends on that order.
type Record struct {
	Pattern     string
	Regex       string // quoted string token if present, unused
	HasList     bool
	Connections map[string]string
	ConnOrder   []string
}

// Set is every Record found in one AUTO_TEMPLATE comment, in lexical
// (appearance) order.
type Set struct {
	Records   []Record
	Malformed bool // an AUTO_TEMPLATE group opened a connection list that never closed
}

const keyword = "AUTO_TEMPLATE"

// Parse parses the interior text of one AUTO_TEMPLATE block comment.
func Parse(content string) *Set {
	type chunk struct {
		pattern string
		rest    string
	}

	var chunks []chunk
	i := 0
	for {
		kwIdx := indexKeyword(content, i)
		if kwIdx < 0 {
			break
		}
		pattern := strings.TrimSpace(content[i:kwIdx])
		pattern = lastIdent(pattern)

		next := indexKeyword(content, kwIdx+len(keyword))
		restEnd := len(content)
		if next >= 0 {
			restEnd = startOfPatternBefore(content, next)
		}
		rest := content[kwIdx+len(keyword) : restEnd]
		chunks = append(chunks, chunk{pattern: pattern, rest: rest})

		if next < 0 {
			break
		}
		i = restEnd
	}

	records := make([]Record, len(chunks))
	malformed := false
	for idx, c := range chunks {
		rec := Record{Pattern: c.pattern}
		rest := strings.TrimSpace(c.rest)
		rest, rec.Regex = consumeQuoted(rest)
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, "(") {
			closeIdx := matchParen(rest, 0)
			if closeIdx < 0 {
				malformed = true
			} else if closeIdx > 0 {
				rec.HasList = true
				rec.Connections, rec.ConnOrder = parseConnections(rest[1:closeIdx])
			}
		}
		records[idx] = rec
	}

	// Backward propagation: a list-less record inherits the next record's
	// list (spec.md §4.3).
	pending := []int{}
	for idx := range records {
		if !records[idx].HasList {
			pending = append(pending, idx)
			continue
		}
		for _, p := range pending {
			records[p].Connections = records[idx].Connections
			records[p].ConnOrder = records[idx].ConnOrder
		}
		pending = pending[:0]
	}

	return &Set{Records: records, Malformed: malformed}
}

// EffectiveTemplate returns the lexically-latest Record across all of sets
// whose Pattern equals moduleName, or nil if none match. sets should be
// passed in the module body's comment order (spec.md §4.3: "lexically-latest
// matching TemplateRecord ... used wholesale, never merged").
func EffectiveTemplate(sets []*Set, moduleName string) *Record {
	var found *Record
	for _, s := range sets {
		if s == nil {
			continue
		}
		for i := range s.Records {
			if s.Records[i].Pattern == moduleName {
				found = &s.Records[i]
			}
		}
	}
	return found
}

func indexKeyword(s string, from int) int {
	if from > len(s) {
		return -1
	}
	idx := strings.Index(s[from:], keyword)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// startOfPatternBefore walks backward from the next keyword occurrence to
// find where its pattern identifier begins, so the current chunk's rest
// excludes it.
func startOfPatternBefore(content string, nextKwIdx int) int {
	j := nextKwIdx
	for j > 0 && isSpace(content[j-1]) {
		j--
	}
	end := j
	for j > 0 && isIdentByte(content[j-1]) {
		j--
	}
	if j == end {
		return nextKwIdx
	}
	return j
}

func lastIdent(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// consumeQuoted strips a leading "..." token, returning the remainder and
// the quoted content (without quotes).
func consumeQuoted(s string) (rest string, quoted string) {
	if len(s) == 0 || s[0] != '"' {
		return s, ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			return s[i+1:], s[1:i]
		}
	}
	return s, ""
}

// matchParen returns the index of the ')' matching the '(' at open, or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseConnections parses a comma-separated ".port(expr)" list.
func parseConnections(s string) (map[string]string, []string) {
	conns := make(map[string]string)
	var order []string
	depth := 0
	start := 0
	flush := func(seg string) {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg[0] != '.' {
			return
		}
		rest := seg[1:]
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return
		}
		closeIdx := matchParen(rest, open)
		if closeIdx < 0 {
			return
		}
		name := strings.TrimSpace(rest[:open])
		expr := strings.TrimSpace(rest[open+1 : closeIdx])
		if name == "" {
			return
		}
		if _, exists := conns[name]; !exists {
			order = append(order, name)
		}
		conns[name] = expr
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(s[start:i])
				start = i + 1
			}
		}
	}
	flush(s[start:])
	return conns, order
}
