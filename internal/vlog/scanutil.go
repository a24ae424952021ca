package vlog

import "strings"

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '$'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// skipSpaces returns the offset of the first non-whitespace, non-comment
// byte at or after i.
func skipSpaces(text string, i int) int {
	for i < len(text) {
		if isSpace(text[i]) {
			i++
			continue
		}
		if i+1 < len(text) && text[i] == '/' && text[i+1] == '*' {
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return len(text)
			}
			i = i + 2 + end + 2
			continue
		}
		if i+1 < len(text) && text[i] == '/' && text[i+1] == '/' {
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return len(text)
			}
			i += end
			continue
		}
		break
	}
	return i
}

// scanIdent returns the end offset of the identifier starting at i (i must
// point at an identifier-start byte; otherwise returns i).
func scanIdent(text string, i int) int {
	if i >= len(text) || !isIdentStart(text[i]) {
		return i
	}
	j := i + 1
	for j < len(text) && isIdentChar(text[j]) {
		j++
	}
	return j
}

// findWord finds the next whole-word occurrence of word at or after from,
// skipping occurrences inside block/line comments. Returns -1 if not found.
func findWord(text, word string, from int) int {
	i := from
	for i <= len(text)-len(word) {
		// Skip comments as we scan so words inside them are never matched.
		skip := skipSpaces(text, i)
		if skip != i {
			i = skip
			continue
		}
		if strings.HasPrefix(text[i:], word) {
			before := byte(' ')
			if i > 0 {
				before = text[i-1]
			}
			afterIdx := i + len(word)
			after := byte(' ')
			if afterIdx < len(text) {
				after = text[afterIdx]
			}
			if !isIdentChar(before) && !isIdentChar(after) {
				return i
			}
		}
		i++
	}
	return -1
}

// skipMatchingParen returns the index of the ')' matching the '(' at
// openIdx, treating comments and string literals as opaque and tracking
// nested parens.
// Returns -1 if unmatched.
func skipMatchingParen(text string, openIdx int) int {
	depth := 0
	i := openIdx
	for i < len(text) {
		c := text[i]
		if c == '/' && i+1 < len(text) && text[i+1] == '*' {
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return -1
			}
			i = i + 2 + end + 2
			continue
		}
		if c == '/' && i+1 < len(text) && text[i+1] == '/' {
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return -1
			}
			i += end
			continue
		}
		if c == '"' {
			j := i + 1
			for j < len(text) && text[j] != '"' {
				if text[j] == '\\' {
					j++
				}
				j++
			}
			i = j + 1
			continue
		}
		if c == '(' {
			depth++
		} else if c == ')' {
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// topLevelSplit splits content on commas at paren/bracket/brace depth 0,
// treating comments as opaque; string literals get no special handling, so
// a comma or bracket inside one counts like any other. Each returned segment is
// (text, startOffsetWithinContent).
type segment struct {
	Text  string
	Start int
}

func topLevelSplit(content string) []segment {
	var segs []segment
	depth := 0
	start := 0
	i := 0
	for i < len(content) {
		c := content[i]
		switch {
		case c == '/' && i+1 < len(content) && content[i+1] == '*':
			end := strings.Index(content[i+2:], "*/")
			if end < 0 {
				i = len(content)
				continue
			}
			i = i + 2 + end + 2
			continue
		case c == '/' && i+1 < len(content) && content[i+1] == '/':
			end := strings.IndexByte(content[i:], '\n')
			if end < 0 {
				i = len(content)
				continue
			}
			i += end
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			segs = append(segs, segment{Text: content[start:i], Start: start})
			start = i + 1
		}
		i++
	}
	if start <= len(content) {
		segs = append(segs, segment{Text: content[start:], Start: start})
	}
	return segs
}

var directionWords = map[string]Direction{
	"input":  Input,
	"inout":  Inout,
	"output": Output,
}

var typeWords = map[string]bool{
	"wire": true, "reg": true, "logic": true, "signed": true, "unsigned": true,
	"integer": true, "real": true, "bit": true, "int": true, "tri": true,
	"wand": true, "wor": true, "supply0": true, "supply1": true, "byte": true,
	"shortint": true, "longint": true, "time": true, "var": true,
}

var reservedWords = map[string]bool{
	"input": true, "output": true, "inout": true, "wire": true, "reg": true,
	"logic": true, "parameter": true, "localparam": true, "signed": true,
	"unsigned": true, "genvar": true, "generate": true, "endgenerate": true,
	"begin": true, "end": true, "if": true, "else": true, "case": true,
	"casex": true, "casez": true, "endcase": true, "for": true, "while": true,
	"assign": true, "always": true, "always_comb": true, "always_ff": true,
	"always_latch": true, "initial": true, "function": true, "endfunction": true,
	"task": true, "endtask": true, "module": true, "endmodule": true,
	"integer": true, "real": true,
	"package": true, "endpackage": true, "import": true, "typedef": true,
	"struct": true, "enum": true, "interface": true, "endinterface": true,
}

// extractItemName pulls the declared identifier out of a single ANSI/body
// port-list item such as "logic [7:0] clk" or "rst = 1'b0", skipping type
// keywords, bit-range brackets and default-value expressions. direction, if
// the item starts with a direction keyword, is returned too (zero value and
// hasDir=false otherwise).
func extractItemName(item string) (name string, dir Direction, hasDir bool) {
	i := 0
	for i < len(item) {
		i = skipSpaces(item, i)
		if i >= len(item) {
			break
		}
		if item[i] == '=' {
			break
		}
		if item[i] == '[' {
			depth := 0
			for i < len(item) && (item[i] == '[' || depth > 0) {
				if item[i] == '[' {
					depth++
				} else if item[i] == ']' {
					depth--
				}
				i++
			}
			continue
		}
		if !isIdentStart(item[i]) {
			i++
			continue
		}
		end := scanIdent(item, i)
		word := item[i:end]
		if d, ok := directionWords[word]; ok && !hasDir && name == "" {
			dir = d
			hasDir = true
			i = end
			continue
		}
		if typeWords[word] {
			i = end
			continue
		}
		name = word
		i = end
	}
	return name, dir, hasDir
}
