// Package main provides the compiler entry point.
//
// This demonstrates the complete compiler pipeline:
// 1. Lexical Analysis (tokenization)
// 2. Syntax Analysis (parsing)
// 3. Semantic Analysis (type checking, name resolution)
// 4. IR Generation (intermediate representation)
// 5. Optimization (constant folding, dead code elimination)
//
// Future versions will add code generation for target architectures.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hassandahiru/compiler/internal/config"
	"github.com/hassandahiru/compiler/internal/diagnostics"
	"github.com/hassandahiru/compiler/internal/ir"
	"github.com/hassandahiru/compiler/internal/lexer"
	"github.com/hassandahiru/compiler/internal/optimizer"
	"github.com/hassandahiru/compiler/internal/parser"
	"github.com/hassandahiru/compiler/internal/parser/ast"
	"github.com/hassandahiru/compiler/internal/semantic"
)

var (
	flagVerbose bool
	flagColor   bool
	flagNoColor bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "compiler <source-file>",
		Short: "Lexes, parses, type-checks, and lowers a source file to IR",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}

	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "trace analyzer entry/leave for functions, blocks, control-flow statements, and expressions")
	root.Flags().BoolVar(&flagColor, "color", false, "set the color option to on (diagnostics are colorized only when writing to a terminal)")
	root.Flags().BoolVar(&flagNoColor, "no-color", false, "set the color option to off (diagnostics are colorized only when writing to a terminal)")

	return root
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("failed to load .compilerrc.toml, using defaults")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
	if flagColor {
		cfg.Color = true
	}
	if flagNoColor {
		cfg.Color = false
	}

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	filename := args[0]
	source, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	lex := lexer.New(string(source), filename)
	p := parser.New(lex)

	file, parseErrors := p.ParseFile(filename)
	if len(parseErrors) > 0 {
		fmt.Fprintf(os.Stderr, "Parsing errors:\n")
		for _, err := range parseErrors {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(parseErrors))
	}
	fmt.Printf("✓ Parsing successful\n")

	sink := diagnostics.NewSink(os.Stderr)
	analyzer := semantic.New(semantic.WithSink(sink), semantic.WithVerbose(cfg.Verbose))

	semanticErrors := analyzer.Analyze(file)
	if len(semanticErrors) > 0 {
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(semanticErrors))
	}
	for _, w := range analyzer.Warnings() {
		fmt.Fprintln(os.Stderr, w)
	}
	fmt.Printf("✓ Semantic analysis successful\n")

	builder := ir.NewBuilder(analyzer)
	module, irErrors := builder.Build(file)
	if len(irErrors) > 0 {
		fmt.Fprintf(os.Stderr, "\nIR generation errors:\n")
		for _, err := range irErrors {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		return fmt.Errorf("IR generation failed with %d error(s)", len(irErrors))
	}
	fmt.Printf("✓ IR generation successful\n")

	if verifyErrors := module.Verify(); len(verifyErrors) > 0 {
		fmt.Fprintf(os.Stderr, "\nIR verification errors:\n")
		for _, err := range verifyErrors {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		return fmt.Errorf("IR verification failed with %d error(s)", len(verifyErrors))
	}

	fmt.Printf("\n=== Unoptimized IR ===\n\n")
	fmt.Println(module.String())

	opt := optimizer.NewOptimizer()
	opt.SetVerbose(cfg.Verbose)
	if err := opt.Optimize(module); err != nil {
		return fmt.Errorf("optimization: %w", err)
	}
	fmt.Printf("✓ Optimization successful\n")

	if verifyErrors := module.Verify(); len(verifyErrors) > 0 {
		fmt.Fprintf(os.Stderr, "\nIR verification errors after optimization:\n")
		for _, err := range verifyErrors {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		return fmt.Errorf("post-optimization IR verification failed with %d error(s)", len(verifyErrors))
	}

	fmt.Printf("\n=== Compilation Summary ===\n")
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Package: %s\n", file.Package.Name.Name)
	fmt.Printf("Imports: %d\n", len(file.Imports))
	fmt.Printf("Declarations: %d\n", len(file.Decls))
	fmt.Printf("Comments: %d\n", len(file.Comments))
	fmt.Printf("\n=== Optimized IR ===\n\n")
	fmt.Println(module.String())

	fmt.Println("\nDeclarations:")
	for i, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			fmt.Printf("  %d. Function: %s\n", i+1, d.Name.Name)
		case *ast.VarDecl:
			names := make([]string, len(d.Names))
			for j, name := range d.Names {
				names[j] = name.Name
			}
			fmt.Printf("  %d. Variable(s): %v\n", i+1, names)
		case *ast.StructDecl:
			fmt.Printf("  %d. Struct: %s (%d fields)\n", i+1, d.Name.Name, len(d.Fields))
		case *ast.TypeDecl:
			fmt.Printf("  %d. Type alias: %s\n", i+1, d.Name.Name)
		}
	}

	return nil
}
