// Package vlog is the self-contained source model for Verilog/SystemVerilog
// buffers used by the AUTO-expansion pipeline. It stands in for the external
// parser the rest of the pipeline is specified against (see internal/locator
// and internal/symtab): no production Verilog grammar was available to build
// this repository against, so Buffer and Scan implement just enough
// structural recognition — module headers, port declarations, instantiations,
// and the three AUTO comment forms — to drive directive expansion.
package vlog

import "strings"

// Position is a 0-based line/character position, matching the wire-level
// Edit coordinates the façade eventually returns.
type Position struct {
	Line      int
	Character int
}

// Span is a half-open byte range [Start, End) paired with its line/character
// form for both endpoints.
type Span struct {
	StartByte, EndByte int
	Start, End         Position
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.StartByte == s.EndByte }

// Buffer wraps the raw text of a source file along with line-offset and
// line-ending bookkeeping so byte offsets can be converted to the
// (line, character) coordinates the wire-level Edit type needs.
type Buffer struct {
	Path       string
	Text       string
	lineStarts []int
	lineEnding string
}

// NewBuffer indexes line starts and records the buffer's line ending (see
// LineEnding).
func NewBuffer(path, text string) *Buffer {
	b := &Buffer{Path: path, Text: text}
	b.lineStarts = append(b.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	b.lineEnding = sniffLineEnding(text)
	return b
}

// LineEnding returns "\r\n" if the buffer's first line ends in "\r\n", and
// "\n" otherwise.
func (b *Buffer) LineEnding() string { return b.lineEnding }

func sniffLineEnding(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx > 0 && text[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// PositionAt converts a byte offset into a 0-based (line, character) pair.
func (b *Buffer) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.Text) {
		offset = len(b.Text)
	}
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	return Position{Line: line, Character: offset - b.lineStarts[line]}
}

// Span constructs a Span from a byte range, deriving both endpoints'
// line/character coordinates.
func (b *Buffer) Span(startByte, endByte int) Span {
	return Span{
		StartByte: startByte,
		EndByte:   endByte,
		Start:     b.PositionAt(startByte),
		End:       b.PositionAt(endByte),
	}
}

// IndentOfLine returns the leading whitespace of the line containing offset.
func (b *Buffer) IndentOfLine(offset int) string {
	pos := b.PositionAt(offset)
	lineStart := b.lineStarts[pos.Line]
	i := lineStart
	for i < len(b.Text) && (b.Text[i] == ' ' || b.Text[i] == '\t') {
		i++
	}
	return b.Text[lineStart:i]
}
