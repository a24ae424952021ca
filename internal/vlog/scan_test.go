package vlog

import (
	"strings"
	"testing"
)

func TestScanAUTOARGEmptyHeaderFillSpanIsEmpty(t *testing.T) {
	src := "module foo(/*AUTOARG*/);\n" +
		"    input a;\n" +
		"    output b;\n" +
		"endmodule\n"
	handle := Scan("foo.v", src)
	if len(handle.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(handle.Modules))
	}
	mod := handle.Modules[0]
	if mod.Header == nil || mod.Header.Directive == nil {
		t.Fatalf("expected a bound AUTOARG directive")
	}
	if !mod.Header.Directive.FillSpan.Empty() {
		t.Fatalf("expected an empty header's AUTOARG fill span to be empty, got %+v", mod.Header.Directive.FillSpan)
	}
	if len(mod.Header.DeclaredHeaderPorts) != 0 {
		t.Fatalf("expected no declared header ports, got %v", mod.Header.DeclaredHeaderPorts)
	}

	names := map[string]Direction{}
	for _, p := range mod.BodyPorts {
		names[p.Name] = p.Direction
	}
	if names["a"] != Input || names["b"] != Output {
		t.Fatalf("unexpected body ports: %+v", mod.BodyPorts)
	}
}

func TestScanAUTOARGSkipsPredeclaredHeaderPorts(t *testing.T) {
	src := "module foo(\n" +
		"    input clk,\n" +
		"    /*AUTOARG*/\n" +
		"    // Outputs\n" +
		"    out1\n" +
		");\n" +
		"    output out1;\n" +
		"    output out2;\n" +
		"endmodule\n"
	handle := Scan("foo.v", src)
	mod := handle.Modules[0]
	if mod.Header == nil || mod.Header.Directive == nil {
		t.Fatalf("expected a bound AUTOARG directive")
	}
	if len(mod.Header.DeclaredHeaderPorts) != 1 || mod.Header.DeclaredHeaderPorts[0] != "clk" {
		t.Fatalf("expected only clk as a pre-directive declared port, got %v", mod.Header.DeclaredHeaderPorts)
	}
	if len(mod.AnsiPorts) != 1 || mod.AnsiPorts[0].Name != "clk" || mod.AnsiPorts[0].Direction != Input {
		t.Fatalf("unexpected ANSI ports: %+v", mod.AnsiPorts)
	}

	names := map[string]Direction{}
	for _, p := range mod.BodyPorts {
		names[p.Name] = p.Direction
	}
	if names["out1"] != Output || names["out2"] != Output {
		t.Fatalf("unexpected body ports: %+v", mod.BodyPorts)
	}
}

func TestScanOrphanDirectiveInModuleBody(t *testing.T) {
	src := "module top;\n" +
		"    /*AUTOARG*/\n" +
		"endmodule\n"
	handle := Scan("top.v", src)
	mod := handle.Modules[0]
	if mod.Header != nil {
		t.Fatalf("expected no header for a module with no port-list parens")
	}
	if len(mod.OrphanDirectives) != 1 || mod.OrphanDirectives[0].Kind != AutoArg {
		t.Fatalf("expected 1 orphan AUTOARG directive, got %+v", mod.OrphanDirectives)
	}
}

// scanBody must inspect a body-level comment before treating it as
// whitespace to skip over, or AUTO_TEMPLATE comments and orphan
// AUTOARG/AUTOINST directives in a module body are never collected.
func TestScanBodyCollectsTemplateAndOrphanComments(t *testing.T) {
	src := "module top;\n" +
		"    /* bar AUTO_TEMPLATE (.i1(in_a)); */\n" +
		"    /*AUTOARG*/\n" +
		"    /*AUTOINST*/\n" +
		"endmodule\n"
	handle := Scan("top.v", src)
	mod := handle.Modules[0]

	if len(mod.TemplateComments) != 1 {
		t.Fatalf("expected 1 AUTO_TEMPLATE comment, got %d", len(mod.TemplateComments))
	}
	if !strings.Contains(mod.TemplateComments[0].Content, "bar AUTO_TEMPLATE") {
		t.Fatalf("unexpected template comment content: %q", mod.TemplateComments[0].Content)
	}

	if len(mod.OrphanDirectives) != 2 {
		t.Fatalf("expected 2 orphan directives, got %d", len(mod.OrphanDirectives))
	}
	if mod.OrphanDirectives[0].Kind != AutoArg || mod.OrphanDirectives[1].Kind != AutoInst {
		t.Fatalf("unexpected orphan directive kinds: %+v", mod.OrphanDirectives)
	}
}

func TestScanInstantiationExistingConnectionsAndDirective(t *testing.T) {
	src := "module top;\n" +
		"    sub u_sub(\n" +
		"        .clk(clk),\n" +
		"        /*AUTOINST*/\n" +
		"    );\n" +
		"endmodule\n"
	handle := Scan("top.v", src)
	mod := handle.Modules[0]
	if len(mod.Instantiations) != 1 {
		t.Fatalf("expected 1 instantiation, got %d", len(mod.Instantiations))
	}
	inst := mod.Instantiations[0]
	if inst.ModuleName != "sub" || inst.InstanceName != "u_sub" {
		t.Fatalf("unexpected instantiation: %+v", inst)
	}
	if inst.ExistingConnections["clk"] != "clk" {
		t.Fatalf("expected clk's pre-directive connection to be captured, got %v", inst.ExistingConnections)
	}
	if inst.Directive == nil || inst.Directive.Kind != AutoInst {
		t.Fatalf("expected a bound AUTOINST directive")
	}
}

func TestPortListWithoutPreservesOrderAndDedupsByLastDirection(t *testing.T) {
	pl := NewPortList()
	pl.Add(Port{Name: "a", Direction: Input})
	pl.Add(Port{Name: "b", Direction: Output})
	pl.Add(Port{Name: "a", Direction: Output}) // redeclared: direction updates, position stays first

	if pl.Len() != 2 {
		t.Fatalf("expected 2 distinct ports, got %d", pl.Len())
	}
	all := pl.All()
	if all[0].Name != "a" || all[0].Direction != Output {
		t.Fatalf("expected a's direction to be updated in place, got %+v", all[0])
	}

	remaining := pl.Without(map[string]bool{"b": true})
	if remaining.Len() != 1 || remaining.All()[0].Name != "a" {
		t.Fatalf("unexpected Without() result: %+v", remaining.All())
	}
}

func TestPortListBucketsFixedOrderSkipsEmpty(t *testing.T) {
	pl := NewPortList()
	pl.Add(Port{Name: "o1", Direction: Output})
	pl.Add(Port{Name: "i1", Direction: Input})

	buckets := pl.Buckets()
	if len(buckets) != 2 {
		t.Fatalf("expected 2 non-empty buckets, got %d", len(buckets))
	}
	if buckets[0].Direction != Input || buckets[1].Direction != Output {
		t.Fatalf("expected Input before Output regardless of insertion order, got %+v", buckets)
	}
}
