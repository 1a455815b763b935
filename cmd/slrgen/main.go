/*
Slrgen compiles a declarative grammar file into an SLR(1) parser.

It reads a JSON grammar file (nonterminal alternatives, an operator
precedence table, semantic action templates), builds the parse table, and
either emits a self-contained Go parser, prints a statistics report, or
dumps the grammar as an s-expression.

Usage:

	slrgen [flags] GRAMMAR_FILE

The flags are:

	-v, --version
		Give the current version of slrgen and then exit.

	-o, --output FILE
		Write the emitted parser to FILE (default "parser.go"); "-" writes
		it to stdout.

	-p, --package NAME
		Package name for the emitted parser (default "parser").

	-j, --jison
		Compile action templates in jison mode instead of sexp mode.

	-s, --stats
		Print a statistics report (token/type/rule/state/conflict counts)
		and the full action/goto table instead of emitting a parser.

	-d, --dump
		Dump the grammar as an s-expression instead of emitting a parser.

	--dump-items
		Dump every LR(0) item (rule, dot position) instead of emitting a
		parser; useful for inspecting automaton construction by hand.

	-c, --config FILE
		Load defaults (grammar path, output path, package, mode) from a
		.slrgen.toml project config; flags override config values.

	--serve ADDR
		After printing stats, serve them as JSON at ADDR until interrupted.

	--repl
		After building the parser, start an interactive token-feed REPL.

Exit 0 on success, 1 on any error, consistent with spec.md §6's CLI surface.
*/
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/action"
	"github.com/dekarrin/ictiobus/config"
	"github.com/dekarrin/ictiobus/emit"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/httpstats"
	"github.com/dekarrin/ictiobus/internal/version"
	"github.com/dekarrin/ictiobus/repl"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGrammarError indicates an unsuccessful execution due to a problem
	// loading or compiling the grammar.
	ExitGrammarError

	// ExitUsageError indicates an unsuccessful execution due to bad flags
	// or arguments. It is the same status as ExitGrammarError: every error
	// exits 1.
	ExitUsageError = ExitGrammarError
)

var (
	returnCode = ExitSuccess

	flagVersion   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagOutput    = pflag.StringP("output", "o", "", "Write the emitted parser to FILE (default parser.go; - for stdout)")
	flagPackage   = pflag.StringP("package", "p", "", "Package name for the emitted parser")
	flagJison     = pflag.BoolP("jison", "j", false, "Compile action templates in jison mode instead of sexp mode")
	flagStats     = pflag.BoolP("stats", "s", false, "Print a statistics report instead of emitting a parser")
	flagDump      = pflag.BoolP("dump", "d", false, "Dump the grammar as an s-expression instead of emitting a parser")
	flagDumpItems = pflag.Bool("dump-items", false, "Dump every LR(0) item instead of emitting a parser")
	flagConfig    = pflag.StringP("config", "c", "", "Load defaults from a .slrgen.toml project config")
	flagServe     = pflag.String("serve", "", "After printing stats, serve them as JSON at ADDR")
	flagRepl      = pflag.Bool("repl", false, "Start an interactive token-feed REPL after building the parser")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.CommandLine.Init(os.Args[0], pflag.ContinueOnError)
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		if err != pflag.ErrHelp {
			fail(ExitUsageError, err)
		}
		return
	}

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := config.Config{Output: "parser.go", Package: "parser"}
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			fail(ExitGrammarError, err)
			return
		}
		cfg = loaded
	}

	args := pflag.Args()
	grammarPath := cfg.Grammar
	if len(args) > 0 {
		grammarPath = args[0]
	}
	if grammarPath == "" {
		fail(ExitUsageError, fmt.Errorf("no grammar file given"))
		return
	}

	mode := cfg.ActionMode()
	if *flagJison {
		mode = action.Jison
	}

	data, err := os.ReadFile(grammarPath)
	if err != nil {
		fail(ExitGrammarError, err)
		return
	}
	gf, err := grammar.LoadFile(data)
	if err != nil {
		fail(ExitGrammarError, err)
		return
	}
	if gf.IsJison() {
		mode = action.Jison
	}

	opRows, err := gf.OperatorRows()
	if err != nil {
		fail(ExitGrammarError, err)
		return
	}

	g, err := grammar.Build(gf.Order, gf.Definition(), gf.Start, opRows)
	if err != nil {
		fail(ExitGrammarError, err)
		return
	}

	gen, err := ictiobus.Generate(g, mode)
	if err != nil {
		fail(ExitGrammarError, err)
		return
	}

	if *flagDump {
		fmt.Println(dumpSExpr(g))
		return
	}

	if *flagDumpItems {
		for _, it := range g.LR0Items() {
			fmt.Println(it.String(g))
		}
		return
	}

	if *flagStats {
		fmt.Println(gen.Stats.Report())
		for _, c := range gen.Stats.Conflicts {
			fmt.Printf("  conflict: state %d, terminal %d, rule %d, category %s\n",
				c.State, c.Terminal, c.RuleID, c.Category)
		}
		fmt.Println()
		fmt.Println(gen.Table.String())
		if *flagServe != "" {
			serveStats(gen, *flagServe)
		}
		return
	}

	if *flagRepl {
		runRepl(gen)
		return
	}

	pkg := cfg.Package
	if *flagPackage != "" {
		pkg = *flagPackage
	}
	out, err := emit.Emit(g, gen.Table, pkg)
	if err != nil {
		fail(ExitGrammarError, err)
		return
	}

	outPath := cfg.Output
	if *flagOutput != "" {
		outPath = *flagOutput
	}
	if outPath == "" || outPath == "-" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		fail(ExitGrammarError, err)
		return
	}
}

func fail(code int, err error) {
	fmt.Fprintf(os.Stderr, "slrgen: %v\n", err)
	returnCode = code
}

func serveStats(gen *ictiobus.Generator, addr string) {
	h := httpstats.NewHandler(gen.Stats.HTTPReport())
	fmt.Printf("serving stats at http://%s/stats\n", addr)
	if err := http.ListenAndServe(addr, h.Router()); err != nil {
		fail(ExitGrammarError, err)
	}
}

func runRepl(gen *ictiobus.Generator) {
	r, err := repl.New(gen.NewDriver(), gen.Grammar)
	if err != nil {
		fail(ExitGrammarError, err)
		return
	}
	defer r.Close()
	if err := r.Run(); err != nil {
		fail(ExitGrammarError, err)
	}
}

func dumpSExpr(g *grammar.Grammar) string {
	var b strings.Builder
	b.WriteString("(grammar")
	for id := 1; id < g.RuleCount(); id++ {
		b.WriteString(" ")
		b.WriteString(g.Rule(id).String(g))
	}
	b.WriteString(")")
	return b.String()
}
