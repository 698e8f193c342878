// This is the main-driver for our compiler.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/skx/double-compiler/ast"
	"github.com/skx/double-compiler/codegen"
	"github.com/skx/double-compiler/lexer"
	"github.com/skx/double-compiler/parser"
	"github.com/skx/double-compiler/token"
)

// version is set via -ldflags at build time; "dev" otherwise.
var version = "dev"

func main() {
	//
	// Look for flags.
	//
	output := flag.String("o", "", "Output path for the emitted IR (default stdout).")
	emit := flag.String("emit", "ir", "Stop after this stage: lex, ast, or ir.")
	showVersion := flag.Bool("version", false, "Print the version and exit.")
	flag.Parse()

	if *showVersion {
		fmt.Printf("double-compiler %s\n", version)
		return
	}

	//
	// Read the program, either from a named file or from stdin.
	//
	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: double-compiler [flags] file.dbl|-\n")
		os.Exit(1)
	}

	src, err := readSource(flag.Args()[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %s\n", *output, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := run(src, *emit, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// readSource reads name's contents, treating "-" as stdin.
func readSource(name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(name)
	return string(b), err
}

// run drives the pipeline up to the requested stage, writing its output
// to out.
func run(src string, emit string, out io.Writer) error {
	switch emit {
	case "lex":
		return emitLex(src, out)
	case "ast":
		return emitAST(src, out)
	case "ir":
		return emitIR(src, out)
	default:
		return fmt.Errorf("unknown -emit stage %q (want lex, ast, or ir)", emit)
	}
}

// emitLex prints the token stream produced by the lexer, one token per
// line, stopping at End or at the first Error token.
func emitLex(src string, out io.Writer) error {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		fmt.Fprintln(out, tok.String())
		if tok.Type == token.End {
			break
		}
		if tok.Type == token.Error {
			return l.Err()
		}
	}
	return nil
}

// emitAST prints the indented tree-dump of the parsed program.
func emitAST(src string, out io.Writer) error {
	prog, err := parser.Parse(src)
	if err != nil {
		return err
	}
	fmt.Fprint(out, ast.Render(prog))
	return nil
}

// emitIR parses, lowers, and prints the finished module's textual IR.
func emitIR(src string, out io.Writer) error {
	prog, err := parser.Parse(src)
	if err != nil {
		return err
	}

	m, b := codegen.NewLLVMModule("double")
	mod, err := codegen.Generate(prog, m, b)
	if err != nil {
		return err
	}

	fmt.Fprint(out, mod.String())
	return nil
}
