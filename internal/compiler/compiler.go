// Package compiler wires the ICSS passes together: parse, type check,
// evaluate and generate CSS.
package compiler

import (
	"fmt"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/codegen"
	"github.com/icss-lang/icss/internal/diag"
	"github.com/icss-lang/icss/internal/parser"
	"github.com/icss-lang/icss/internal/transform"
	"github.com/icss-lang/icss/internal/types"
)

type Option func(*options)

type options struct {
	filename        string
	evaluateOnError bool
}

// WithFilename attributes every diagnostic span to name.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithEvaluateOnError makes Compile evaluate and emit CSS even when the
// checker reported errors. Off by default. Parse errors always stop the
// pipeline before checking.
func WithEvaluateOnError(enabled bool) Option {
	return func(o *options) {
		o.evaluateOnError = enabled
	}
}

// Result holds the outcome of a compilation.
type Result struct {
	// AST is nil only if Compile was never able to parse.
	AST *ast.AST
	// CSS is the generated stylesheet; empty unless Emitted.
	CSS         string
	Diagnostics []diag.Diagnostic
	Emitted     bool
}

// HasErrors reports whether any collected diagnostic is an error.
func (r *Result) HasErrors() bool {
	return diag.HasErrors(r.Diagnostics)
}

// Check runs the front end and the type checker on src. The returned tree
// carries the checker's annotations.
func Check(src string, opts ...Option) *Result {
	o := buildOptions(opts)
	res, _ := check(src, o)
	return res
}

// Compile turns ICSS source into CSS. Source problems are reported through
// Result.Diagnostics; the error return is reserved for evaluator failures,
// which can only happen when WithEvaluateOnError lets an ill-typed tree
// through.
func Compile(src string, opts ...Option) (*Result, error) {
	o := buildOptions(opts)

	res, parsed := check(src, o)
	if !parsed {
		return res, nil
	}
	if res.HasErrors() && !o.evaluateOnError {
		return res, nil
	}

	if err := transform.NewEvaluator().Apply(res.AST); err != nil {
		return res, fmt.Errorf("compiler: evaluate %s: %w", displayName(o.filename), err)
	}

	res.CSS = codegen.NewGenerator().Generate(res.AST.Root)
	res.Emitted = true
	return res, nil
}

// check parses and type checks src. parsed is false when parse errors kept
// the checker from running.
func check(src string, o options) (res *Result, parsed bool) {
	var popts []parser.Option
	if o.filename != "" {
		popts = append(popts, parser.WithFilename(o.filename))
	}

	tree, diags := parser.Parse(src, popts...)
	res = &Result{AST: tree, Diagnostics: diags}
	if diag.HasErrors(diags) {
		return res, false
	}

	checker := types.NewChecker()
	checker.Check(tree)
	res.Diagnostics = append(res.Diagnostics, checker.Errors...)
	return res, true
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
