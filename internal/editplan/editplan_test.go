package editplan

import (
	"testing"

	"github.com/vlog-tools/autoexpand/internal/vlog"
)

func span(start, end int) vlog.Span {
	return vlog.Span{StartByte: start, EndByte: end}
}

func TestApplyAppliesInDescendingOrderWithoutInvalidatingEarlierSpans(t *testing.T) {
	text := "0123456789"
	edits := []Edit{
		{Path: "f.v", Span: span(2, 4), NewText: "AA"},
		{Path: "f.v", Span: span(6, 8), NewText: "BBBB"},
	}
	got := Apply(text, edits)
	want := "01AA45BBBB89"
	if got != want {
		t.Fatalf("Apply() = %q, want %q", got, want)
	}
}

func TestCheckDisjointRejectsOverlap(t *testing.T) {
	edits := []Edit{
		{Path: "f.v", Span: span(0, 5)},
		{Path: "f.v", Span: span(3, 8)},
	}
	if err := CheckDisjoint(edits); err == nil {
		t.Fatalf("expected overlap to be rejected")
	}
}

func TestCheckDisjointAcceptsAdjacentNonOverlapping(t *testing.T) {
	edits := []Edit{
		{Path: "f.v", Span: span(0, 5)},
		{Path: "f.v", Span: span(5, 8)},
	}
	if err := CheckDisjoint(edits); err != nil {
		t.Fatalf("expected adjacent edits to be accepted, got %v", err)
	}
}

func TestSortDescendingOrdersByPathThenStartByte(t *testing.T) {
	edits := []Edit{
		{Path: "b.v", Span: span(1, 2)},
		{Path: "a.v", Span: span(5, 6)},
		{Path: "a.v", Span: span(1, 2)},
	}
	got := SortDescending(edits)
	want := []string{"a.v@5", "a.v@1", "b.v@1"}
	for i, e := range got {
		gotKey := e.Path + "@" + itoa(e.Span.StartByte)
		if gotKey != want[i] {
			t.Fatalf("SortDescending()[%d] = %s, want %s", i, gotKey, want[i])
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestValidateEditsAcceptsWellFormedEdits(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	edits := []Edit{
		{Path: "top.v", Span: span(0, 3), NewText: "abc"},
	}
	if err := v.ValidateEdits(edits); err != nil {
		t.Fatalf("expected well-formed edits to validate, got %v", err)
	}
}

func TestValidateEditsRejectsEmptyPath(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	edits := []Edit{
		{Path: "", Span: span(0, 3), NewText: "abc"},
	}
	if err := v.ValidateEdits(edits); err == nil {
		t.Fatalf("expected an empty path to fail validation")
	}
}

func TestValidateEditsAcceptsNilSlice(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	if err := v.ValidateEdits(nil); err != nil {
		t.Fatalf("expected a nil edit list (no directives found) to validate, got %v", err)
	}
}

func TestValidateCodeActionsRejectsEmptyTitle(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	actions := []CodeAction{
		{Title: "", Edits: []Edit{{Path: "top.v", Span: span(0, 1), NewText: "x"}}},
	}
	if err := v.ValidateCodeActions(actions); err == nil {
		t.Fatalf("expected an empty title to fail validation")
	}
}
