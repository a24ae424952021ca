// Command autoexpand computes and optionally applies the text edits that
// expand /*AUTOARG*/, /*AUTOINST*/ and AUTO_TEMPLATE directives in a
// Verilog/SystemVerilog file, the same edits a language server's code
// action would offer.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vlog-tools/autoexpand/internal/config"
	"github.com/vlog-tools/autoexpand/internal/editplan"
	"github.com/vlog-tools/autoexpand/internal/facade"
	"github.com/vlog-tools/autoexpand/internal/vlog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit()
	case "expand":
		runExpand(os.Args[2:])
	case "range":
		runRange(os.Args[2:])
	case "diag":
		runDiag(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: autoexpand <command> [options] <file>

Commands:
  expand <file>             Expand every AUTOARG/AUTOINST directive
  range <file> <start> <end>  Show the whole-file expansion and the one for
                            directives within a byte range
  diag <file>               Report unresolved/ambiguous/invalid directives
  init                       Create an autoexpand.json configuration file

Options:
  -v, --verbose   Also print diagnostics alongside edits
  --json          Print edits (expand) or code actions (range) as JSON
                  instead of applying them
  --write         Apply edits to the file in place
  -c, --config    Use a specific config file

Configuration search order:
  1. ./autoexpand.json
  2. ./.autoexpand.json
  3. <file's directory>/autoexpand.json
  4. <file's directory>/.autoexpand.json
  5. ~/.config/autoexpand/config.json`)
}

func runInit() {
	path := "autoexpand.json"
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file %s already exists. Overwrite? [y/N]: ", path)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s\n", path)
}

type flags struct {
	verbose    bool
	jsonOutput bool
	write      bool
	configPath string
	rest       []string
}

func parseFlags(args []string) flags {
	var f flags
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-v", "--verbose":
			f.verbose = true
		case "--json":
			f.jsonOutput = true
		case "--write":
			f.write = true
		case "-c", "--config":
			if i+1 < len(args) {
				f.configPath = args[i+1]
				i++
			}
		default:
			f.rest = append(f.rest, args[i])
		}
	}
	return f
}

func loadConfig(f flags, root string) *config.Config {
	if f.configPath != "" {
		cfg, err := config.LoadFile(f.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", f.configPath, err)
			os.Exit(1)
		}
		return cfg
	}
	cfg, err := config.Load(root)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return cfg
}

func buildProject(cfg *config.Config, path string) facade.Project {
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	root := filepath.Dir(path)
	companions := make(map[string]string)
	sources, _ := cfg.ResolveSources(root)
	absPath, _ := filepath.Abs(path)
	for _, src := range sources {
		absSrc, _ := filepath.Abs(src)
		if absSrc == absPath {
			continue
		}
		data, err := os.ReadFile(src)
		if err != nil {
			continue
		}
		companions[src] = string(data)
	}

	return facade.Project{
		Path:                path,
		Text:                string(text),
		Companions:          companions,
		DisableAutoTemplate: !cfg.AutoTemplateEnabled(),
	}
}

func runExpand(args []string) {
	f := parseFlags(args)
	if len(f.rest) < 1 {
		printUsage()
		os.Exit(1)
	}
	path := f.rest[0]
	cfg := loadConfig(f, filepath.Dir(path))
	proj := buildProject(cfg, path)

	edits, err := facade.GenerateExpandEdits(proj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if f.verbose {
		printDiagnostics(proj)
	}

	if f.jsonOutput {
		printJSON(edits)
		return
	}

	result := editplan.Apply(proj.Text, edits)
	if f.write {
		if err := os.WriteFile(path, []byte(result), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Applied %d edit(s) to %s\n", len(edits), path)
		return
	}
	fmt.Print(result)
}

func runRange(args []string) {
	f := parseFlags(args)
	if len(f.rest) < 3 {
		printUsage()
		os.Exit(1)
	}
	path := f.rest[0]
	start, err1 := strconv.Atoi(f.rest[1])
	end, err2 := strconv.Atoi(f.rest[2])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(os.Stderr, "range bounds must be integers (byte offsets)")
		os.Exit(1)
	}

	cfg := loadConfig(f, filepath.Dir(path))
	proj := buildProject(cfg, path)

	actions, err := facade.GenerateCodeActions(proj, vlog.Span{StartByte: start, EndByte: end})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if f.jsonOutput {
		printJSON(actions)
		return
	}

	for _, a := range actions {
		fmt.Printf("=== %s ===\n", a.Title)
		fmt.Print(editplan.Apply(proj.Text, a.Edits))
		fmt.Println()
	}
}

func runDiag(args []string) {
	f := parseFlags(args)
	if len(f.rest) < 1 {
		printUsage()
		os.Exit(1)
	}
	path := f.rest[0]
	cfg := loadConfig(f, filepath.Dir(path))
	proj := buildProject(cfg, path)
	printDiagnostics(proj)
}

func printDiagnostics(proj facade.Project) {
	diags, err := facade.Diagnostics(context.Background(), proj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing diagnostics: %v\n", err)
		return
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s (%s)\n",
			d.Path, d.Span.Start.Line+1, d.Span.Start.Character+1, d.Classification, d.Severity)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
