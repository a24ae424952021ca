package locator

import (
	"context"
	"testing"

	"github.com/vlog-tools/autoexpand/internal/policyguard"
	"github.com/vlog-tools/autoexpand/internal/symtab"
	"github.com/vlog-tools/autoexpand/internal/vlog"
)

func TestLocateCollectsBoundAndOrphanDirectives(t *testing.T) {
	src := "module top;\n" +
		"    /*AUTOARG*/\n" +
		"    sub u_sub(\n" +
		"        /*AUTOINST*/\n" +
		"    );\n" +
		"endmodule\n"
	handle := vlog.Scan("top.v", src)
	site := Locate("top.v", handle)

	if len(site.Orphans) != 1 {
		t.Fatalf("expected 1 orphan AUTOARG, got %d: %+v", len(site.Orphans), site.Orphans)
	}
	if site.Orphans[0].Directive.Kind != vlog.AutoArg {
		t.Fatalf("expected orphan to be an AUTOARG directive")
	}

	if len(site.Bound) != 1 {
		t.Fatalf("expected 1 bound AUTOINST directive, got %d", len(site.Bound))
	}
	if site.Bound[0].Instantiation == nil || site.Bound[0].Instantiation.ModuleName != "sub" {
		t.Fatalf("unexpected bound directive: %+v", site.Bound[0])
	}
}

func TestDiagnoseFlagsUnresolvedModule(t *testing.T) {
	guard, err := policyguard.New()
	if err != nil {
		t.Fatalf("policyguard.New: %v", err)
	}

	src := "module top;\n" +
		"    sub u_sub(\n" +
		"        /*AUTOINST*/\n" +
		"    );\n" +
		"endmodule\n"
	handle := vlog.Scan("top.v", src)
	idx := symtab.NewStaticIndex()
	idx.AddFile(handle)

	diags := Diagnose(context.Background(), guard, idx, Locate("top.v", handle))
	if len(diags) != 1 || diags[0].Classification != "unresolved_module" {
		t.Fatalf("expected a single unresolved_module diagnostic, got %+v", diags)
	}
	if diags[0].Severity != "error" {
		t.Fatalf("expected unresolved_module severity error, got %q", diags[0].Severity)
	}
}

func TestDiagnoseFlagsAmbiguousModule(t *testing.T) {
	guard, err := policyguard.New()
	if err != nil {
		t.Fatalf("policyguard.New: %v", err)
	}

	src := "module bar(input i1, output o1);\nendmodule\n" +
		"module bar(input i2);\nendmodule\n" +
		"module top;\n" +
		"    bar u_bar(\n" +
		"        /*AUTOINST*/\n" +
		"    );\n" +
		"endmodule\n"
	handle := vlog.Scan("top.v", src)
	idx := symtab.NewStaticIndex()
	idx.AddFile(handle)

	diags := Diagnose(context.Background(), guard, idx, Locate("top.v", handle))
	if len(diags) != 1 || diags[0].Classification != "ambiguous_module" {
		t.Fatalf("expected a single ambiguous_module diagnostic, got %+v", diags)
	}
}

func TestDiagnoseReportsNothingForCleanAutoinst(t *testing.T) {
	guard, err := policyguard.New()
	if err != nil {
		t.Fatalf("policyguard.New: %v", err)
	}

	src := "module bar(input i1, output o1);\nendmodule\n" +
		"module top;\n" +
		"    bar u_bar(\n" +
		"        /*AUTOINST*/\n" +
		"    );\n" +
		"endmodule\n"
	handle := vlog.Scan("top.v", src)
	idx := symtab.NewStaticIndex()
	idx.AddFile(handle)

	diags := Diagnose(context.Background(), guard, idx, Locate("top.v", handle))
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics for a clean resolution, got %+v", diags)
	}
}
