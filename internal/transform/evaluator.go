// Package transform folds a type-checked ICSS tree into plain CSS shape:
// variables are substituted, arithmetic is computed and conditionals are
// resolved, leaving every rule with a flat list of literal declarations.
package transform

import (
	"errors"
	"fmt"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/lexer"
	"github.com/icss-lang/icss/internal/scope"
	"github.com/icss-lang/icss/internal/types"
)

// The evaluator expects a tree that passed the checker. These errors report
// trees that did not.
var (
	ErrUndefinedVariable   = errors.New("undefined variable")
	ErrNonBooleanCondition = errors.New("condition is not a boolean")
	ErrInvalidOperand      = errors.New("operand cannot be used in arithmetic")
)

// Evaluator rewrites an AST in place. An Evaluator may be reused; each call
// to Apply starts with a fresh scope chain.
type Evaluator struct {
	scopes *scope.Chain[ast.Literal]
}

// NewEvaluator creates a new evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Apply folds tree. On success every Stylerule body holds only Declarations
// whose values are literals. When an error is returned the tree may be
// partially rewritten.
func (e *Evaluator) Apply(tree *ast.AST) error {
	e.scopes = scope.NewChain[ast.Literal]()
	e.scopes.Push()

	for _, item := range tree.Root.Body {
		var err error
		switch n := item.(type) {
		case *ast.VariableAssignment:
			err = e.applyAssignment(n)
		case *ast.Stylerule:
			err = e.applyStylerule(n)
		}
		if err != nil {
			return err
		}
	}

	e.scopes.Pop()
	return nil
}

func (e *Evaluator) applyStylerule(rule *ast.Stylerule) error {
	e.scopes.Push()
	flat, err := e.applyBody(rule.Body, make([]ast.BodyItem, 0, len(rule.Body)))
	if err != nil {
		return err
	}
	rule.Body = flat
	e.scopes.Pop()
	return nil
}

// applyBody processes body in order, appending surviving declarations to out.
func (e *Evaluator) applyBody(body []ast.BodyItem, out []ast.BodyItem) ([]ast.BodyItem, error) {
	for _, item := range body {
		var err error
		switch n := item.(type) {
		case *ast.Declaration:
			if err = e.applyDeclaration(n); err == nil {
				out = append(out, n)
			}
		case *ast.VariableAssignment:
			err = e.applyAssignment(n)
		case *ast.IfClause:
			out, err = e.applyIfClause(n, out)
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (e *Evaluator) applyDeclaration(decl *ast.Declaration) error {
	lit, err := e.value(decl.Value)
	if err != nil {
		return fmt.Errorf("declaration %q: %w", decl.Property, err)
	}
	decl.Value = lit
	return nil
}

func (e *Evaluator) applyAssignment(a *ast.VariableAssignment) error {
	lit, err := e.value(a.Value)
	if err != nil {
		return fmt.Errorf("assignment to %s: %w", a.Name.Name, err)
	}
	a.Value = lit
	e.scopes.Bind(a.Name.Name, lit)
	return nil
}

// applyIfClause keeps the branch selected by the condition and inlines its
// declarations into out. The clause itself never reaches out.
func (e *Evaluator) applyIfClause(clause *ast.IfClause, out []ast.BodyItem) ([]ast.BodyItem, error) {
	cond, err := e.condition(clause.Condition)
	if err != nil {
		return out, err
	}
	clause.Condition = cond

	switch {
	case cond.Value:
		if clause.Else != nil {
			clause.Else.Body = nil
		}
	case clause.Else != nil:
		clause.Body = clause.Else.Body
		clause.Else.Body = nil
	default:
		clause.Body = nil
	}

	e.scopes.Push()
	out, err = e.applyBody(clause.Body, out)
	if err != nil {
		return out, err
	}
	e.scopes.Pop()
	return out, nil
}

func (e *Evaluator) condition(expr ast.Expr) (*ast.BoolLiteral, error) {
	lit, err := e.value(expr)
	if err != nil {
		return nil, err
	}
	b, ok := lit.(*ast.BoolLiteral)
	if !ok {
		return nil, fmt.Errorf("%s: %w: found %s", where(expr.Span()), ErrNonBooleanCondition, lit)
	}
	return b, nil
}

// value reduces expr to a literal. Literals are returned as-is; resolved
// variables yield a copy positioned at the reference.
func (e *Evaluator) value(expr ast.Expr) (ast.Literal, error) {
	switch n := expr.(type) {
	case ast.Literal:
		return n, nil
	case *ast.VariableReference:
		lit, ok := e.scopes.Resolve(n.Name)
		if !ok {
			return nil, fmt.Errorf("%s: %w %s", where(n.Span()), ErrUndefinedVariable, n.Name)
		}
		return ast.CopyLiteral(lit, n.Span()), nil
	case ast.Operation:
		return e.fold(n)
	default:
		return nil, fmt.Errorf("unexpected expression %T", expr)
	}
}

// fold evaluates op. The result unit is percentage if either operand is a
// percentage, else pixel if either is a pixel, else scalar.
func (e *Evaluator) fold(op ast.Operation) (ast.Literal, error) {
	lhs, rhs := op.Operands()

	l, err := e.value(lhs)
	if err != nil {
		return nil, err
	}
	r, err := e.value(rhs)
	if err != nil {
		return nil, err
	}

	lv, lt, err := numeric(l)
	if err != nil {
		return nil, err
	}
	rv, rt, err := numeric(r)
	if err != nil {
		return nil, err
	}

	var v int
	switch op.Operator() {
	case lexer.PLUS:
		v = lv + rv
	case lexer.MINUS:
		v = lv - rv
	case lexer.ASTERISK:
		v = lv * rv
	default:
		return nil, fmt.Errorf("unknown operator %q", op.Operator())
	}

	span := op.Span()
	switch {
	case lt == types.Percentage || rt == types.Percentage:
		return ast.NewPercentageLiteral(v, span), nil
	case lt == types.Pixel || rt == types.Pixel:
		return ast.NewPixelLiteral(v, span), nil
	default:
		return ast.NewScalarLiteral(v, span), nil
	}
}

func numeric(lit ast.Literal) (int, types.ExpressionType, error) {
	switch l := lit.(type) {
	case *ast.PercentageLiteral:
		return l.Value, types.Percentage, nil
	case *ast.PixelLiteral:
		return l.Value, types.Pixel, nil
	case *ast.ScalarLiteral:
		return l.Value, types.Scalar, nil
	default:
		return 0, types.LiteralType(lit), fmt.Errorf("%s: %w: %s", where(lit.Span()), ErrInvalidOperand, lit)
	}
}

func where(span lexer.Span) string {
	if span.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", span.Filename, span.Line, span.Column)
	}
	return fmt.Sprintf("%d:%d", span.Line, span.Column)
}
