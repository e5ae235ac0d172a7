package lsp

import (
	"math"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/lexer"
	"github.com/icss-lang/icss/internal/scope"
)

// Binding is one variable assignment together with the span of the body
// it is visible in.
type Binding struct {
	Assignment *ast.VariableAssignment
	Scope      lexer.Span
}

// Symbols maps the variable references of a document to the assignments
// they resolve to, using the same scoping rules as the checker.
type Symbols struct {
	Definitions map[*ast.VariableReference]*ast.VariableAssignment
	Bindings    []Binding
}

// Resolve builds the symbol table for tree. Unresolved references are
// simply absent from Definitions.
func Resolve(tree *ast.AST) *Symbols {
	r := &resolver{
		scopes: scope.NewChain[*ast.VariableAssignment](),
		syms: &Symbols{
			Definitions: make(map[*ast.VariableReference]*ast.VariableAssignment),
		},
	}
	if tree == nil || tree.Root == nil {
		return r.syms
	}

	// top-level bindings stay visible up to the end of any edit
	global := lexer.Span{End: math.MaxInt}

	r.scopes.Push()
	for _, item := range tree.Root.Body {
		switch n := item.(type) {
		case *ast.VariableAssignment:
			r.assign(n, global)
		case *ast.Stylerule:
			r.scopes.Push()
			r.body(n.Body, n.Span())
			r.scopes.Pop()
		}
	}
	r.scopes.Pop()

	return r.syms
}

type resolver struct {
	scopes *scope.Chain[*ast.VariableAssignment]
	syms   *Symbols
}

func (r *resolver) body(items []ast.BodyItem, span lexer.Span) {
	for _, item := range items {
		switch n := item.(type) {
		case *ast.Declaration:
			r.expr(n.Value)
		case *ast.VariableAssignment:
			r.assign(n, span)
		case *ast.IfClause:
			// the clause span covers its else branch too
			ifSpan := n.Span()
			if n.Else != nil {
				ifSpan.End = n.Else.Span().Start
			}

			r.scopes.Push()
			r.expr(n.Condition)
			r.body(n.Body, ifSpan)
			r.scopes.Pop()

			if n.Else != nil {
				r.scopes.Push()
				r.body(n.Else.Body, n.Else.Span())
				r.scopes.Pop()
			}
		}
	}
}

func (r *resolver) assign(a *ast.VariableAssignment, span lexer.Span) {
	r.expr(a.Value)
	r.scopes.Bind(a.Name.Name, a)
	r.syms.Definitions[a.Name] = a
	r.syms.Bindings = append(r.syms.Bindings, Binding{Assignment: a, Scope: span})
}

func (r *resolver) expr(e ast.Expr) {
	ast.Walk(e, func(n ast.Node) bool {
		if ref, ok := n.(*ast.VariableReference); ok {
			if a, found := r.scopes.Resolve(ref.Name); found {
				r.syms.Definitions[ref] = a
			}
		}
		return true
	})
}

// Visible returns the bindings in effect at offset, innermost last. A name
// bound more than once is reported once, by its latest binding.
func (s *Symbols) Visible(offset int) []Binding {
	var out []Binding
	index := make(map[string]int)

	for _, b := range s.Bindings {
		if b.Assignment.Span().End > offset {
			continue
		}
		if offset < b.Scope.Start || offset >= b.Scope.End {
			continue
		}

		name := b.Assignment.Name.Name
		if i, ok := index[name]; ok {
			out[i] = b
			continue
		}
		index[name] = len(out)
		out = append(out, b)
	}

	return out
}
