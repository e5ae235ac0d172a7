package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/compiler"
	"github.com/icss-lang/icss/internal/diag"
	"github.com/icss-lang/icss/internal/lsp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: icss <command> [options]\n")
	fmt.Fprintf(w, "\nCommands:\n")
	fmt.Fprintf(w, "  build [-o file] [-force] <file>   Compile an ICSS file to CSS\n")
	fmt.Fprintf(w, "  check [-ast] <file>               Type check an ICSS file\n")
	fmt.Fprintf(w, "  repl                              Start an interactive session\n")
	fmt.Fprintf(w, "  lsp                               Run the language server on stdio\n")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	command, rest := args[0], args[1:]
	switch command {
	case "build":
		return runBuild(rest, stdout, stderr)
	case "check":
		return runCheck(rest, stdout, stderr)
	case "repl":
		return runREPL(stdout, stderr)
	case "lsp":
		return runLSP(stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		usage(stderr)
		return 2
	}
}

func runBuild(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outPath := fs.String("o", "", "write CSS to `file` instead of stdout")
	force := fs.Bool("force", false, "emit CSS even when the type checker reports errors")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: icss build [-o file] [-force] <file>\n")
		return 2
	}

	filename := fs.Arg(0)
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %s: %v\n", filename, err)
		return 1
	}

	res, err := compiler.Compile(string(src),
		compiler.WithFilename(filename),
		compiler.WithEvaluateOnError(*force),
	)
	reportDiagnostics(stderr, filename, string(src), res.Diagnostics)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if !res.Emitted {
		fmt.Fprintf(stderr, "%s: %d error(s), no CSS written\n", filename, len(res.Diagnostics))
		return 1
	}

	if *outPath == "" {
		io.WriteString(stdout, res.CSS)
	} else if err := os.WriteFile(*outPath, []byte(res.CSS), 0o644); err != nil {
		fmt.Fprintf(stderr, "Error writing %s: %v\n", *outPath, err)
		return 1
	}

	if res.HasErrors() {
		return 1
	}
	return 0
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dumpAST := fs.Bool("ast", false, "print the annotated syntax tree")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: icss check [-ast] <file>\n")
		return 2
	}

	filename := fs.Arg(0)
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %s: %v\n", filename, err)
		return 1
	}

	res := compiler.Check(string(src), compiler.WithFilename(filename))
	if *dumpAST {
		if err := ast.Fprint(stdout, res.AST.Root); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	reportDiagnostics(stderr, filename, string(src), res.Diagnostics)

	if res.HasErrors() {
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok\n", filename)
	return 0
}

func runLSP(stderr io.Writer) int {
	srv := lsp.NewServer(os.Stdin, os.Stdout)
	if err := srv.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}

func reportDiagnostics(w io.Writer, filename, src string, diags []diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	f := diag.NewFormatter(w)
	f.AddSource(filename, src)
	f.FormatAll(diags)
}
