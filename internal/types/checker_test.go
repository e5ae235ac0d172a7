package types

import (
	"testing"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/diag"
	"github.com/icss-lang/icss/internal/lexer"
	"github.com/icss-lang/icss/internal/parser"
)

func checkSource(t *testing.T, src string) (*ast.AST, *Checker) {
	t.Helper()

	tree, diags := parser.Parse(src)
	if len(diags) > 0 {
		t.Fatalf("unexpected parse diagnostics for %q: %v", src, diags)
	}

	checker := NewChecker()
	checker.Check(tree)
	return tree, checker
}

func annotations(tree *ast.AST) []ast.Node {
	return ast.Annotated(tree.Root)
}

func TestChecker_WellTyped(t *testing.T) {
	src := `
LinkColor := #ff0000;
ParWidth := 500px;
AdjustColor := TRUE;
UseLinkColor := FALSE;

p {
	background-color: #ffffff;
	width: ParWidth;
	if [AdjustColor] {
		color: #124532;
		if [UseLinkColor] {
			background-color: LinkColor;
			height: 20px;
		}
	} else {
		background-color: #000000;
		height: 20%;
	}
}

a {
	color: LinkColor;
	width: ParWidth - 2 * 10px;
	height: 10% + 5%;
	z-index: 3;
}
`
	tree, checker := checkSource(t, src)

	if len(checker.Errors) > 0 {
		for _, err := range checker.Errors {
			t.Logf("Error: %s", err)
		}
		t.Fatalf("expected no errors, got %d", len(checker.Errors))
	}
	if got := annotations(tree); len(got) != 0 {
		t.Fatalf("expected no annotated nodes, got %d", len(got))
	}
}

func TestChecker_Operations(t *testing.T) {
	tests := []struct {
		name string
		expr string
		msg  string // "" when well-typed
	}{
		{"multiply two scalars", "2 * 3", MsgMultiplyTwoScalars},
		{"multiply scalar by pixel", "2 * 10px", ""},
		{"multiply pixel by scalar", "10px * 2", ""},
		{"multiply two pixels", "10px * 20px", MsgMultiplyNeedsScalar},
		{"multiply percentage by pixel", "10% * 20px", MsgMultiplyNeedsScalar},
		{"add pixel and percentage", "10px + 5%", MsgAddSubTypeMismatch},
		{"add pixels", "10px + 5px", ""},
		{"subtract percentages", "10% - 5%", ""},
		{"add two scalars", "3 + 2", MsgAddSubTwoScalars},
		{"subtract two scalars", "3 - 2", MsgAddSubTwoScalars},
		{"add scalar to pixel", "3 + 2px", MsgAddSubTypeMismatch},
		{"color on the left", "#ff0000 + 1", MsgColorInOperation},
		{"color on the right", "2 * #ff0000", MsgColorInOperation},
		{"two colors", "#ff0000 - #00ff00", MsgColorInOperation},
		{"booleans", "TRUE + TRUE", MsgBoolInOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, checker := checkSource(t, "p { margin: "+tt.expr+"; }")
			op := tree.Root.Body[0].(*ast.Stylerule).Body[0].(*ast.Declaration).Value.(ast.Operation)

			if op.Annotation() != tt.msg {
				t.Fatalf("expected annotation %q, got %q", tt.msg, op.Annotation())
			}

			wantErrs := 0
			if tt.msg != "" {
				wantErrs = 1
			}
			if len(checker.Errors) != wantErrs {
				t.Fatalf("expected %d diagnostics, got %d", wantErrs, len(checker.Errors))
			}
			if wantErrs == 1 && checker.Errors[0].Code != diag.CodeTypeInvalidOperation {
				t.Fatalf("expected code %q, got %q", diag.CodeTypeInvalidOperation, checker.Errors[0].Code)
			}
		})
	}
}

func TestChecker_NestedOperationValidatedOnce(t *testing.T) {
	tree, checker := checkSource(t, "p { width: 10px + (2px * 3px); }")

	if len(checker.Errors) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(checker.Errors), checker.Errors)
	}

	add := tree.Root.Body[0].(*ast.Stylerule).Body[0].(*ast.Declaration).Value.(*ast.AddOperation)
	if add.RHS.Annotation() != MsgMultiplyNeedsScalar {
		t.Fatalf("expected inner multiply to be annotated, got %q", add.RHS.Annotation())
	}
	// 2px * 3px still yields pixel, so the outer addition is well-typed
	if add.Annotation() != "" {
		t.Fatalf("expected outer addition to be clean, got %q", add.Annotation())
	}
}

func TestChecker_Declarations(t *testing.T) {
	tests := []struct {
		decl string
		msg  string
	}{
		{"width: #ff0000;", MsgValueMustBeDimension},
		{"width: 50%;", ""},
		{"width: 50px;", ""},
		{"height: 5;", MsgValueMustBeDimension},
		{"height: TRUE;", MsgValueMustBeDimension},
		{"color: 5;", MsgValueMustBeColor},
		{"color: #00ff00;", ""},
		{"background-color: 10px;", MsgValueMustBeColor},
		{"background-color: #00ff00;", ""},
		{"font-size: #00ff00;", ""},
		{"opacity: TRUE;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			tree, checker := checkSource(t, "p { "+tt.decl+" }")
			decl := tree.Root.Body[0].(*ast.Stylerule).Body[0]

			if decl.Annotation() != tt.msg {
				t.Fatalf("expected annotation %q, got %q", tt.msg, decl.Annotation())
			}
			if tt.msg != "" && checker.Errors[0].Code != diag.CodeTypeInvalidDeclaration {
				t.Fatalf("expected code %q, got %q", diag.CodeTypeInvalidDeclaration, checker.Errors[0].Code)
			}
		})
	}
}

func TestChecker_UndefinedVariable(t *testing.T) {
	tree, checker := checkSource(t, "p { width: Missing; }")

	got := annotations(tree)
	if len(got) != 1 {
		t.Fatalf("expected exactly one annotation, got %d", len(got))
	}
	ref, ok := got[0].(*ast.VariableReference)
	if !ok || ref.Name != "Missing" {
		t.Fatalf("expected annotation on reference Missing, got %T", got[0])
	}
	if ref.Annotation() != MsgUndefinedVariable {
		t.Fatalf("expected %q, got %q", MsgUndefinedVariable, ref.Annotation())
	}

	if len(checker.Errors) != 1 || checker.Errors[0].Code != diag.CodeTypeUndefinedVariable {
		t.Fatalf("expected a single undefined-variable diagnostic, got %v", checker.Errors)
	}
	if checker.Errors[0].Help == "" {
		t.Fatal("expected help text on undefined-variable diagnostic")
	}
}

func TestChecker_UndefinedVariableDoesNotCascade(t *testing.T) {
	tests := []string{
		"p { width: Missing + 10px; }",
		"p { color: 2 * Missing; }",
		"p { if [Missing] { width: 1px; } }",
		"p { X := Missing; width: X; }",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			tree, checker := checkSource(t, src)
			if len(checker.Errors) != 1 {
				t.Fatalf("expected exactly one diagnostic, got %d: %v", len(checker.Errors), checker.Errors)
			}
			if _, ok := annotations(tree)[0].(*ast.VariableReference); !ok {
				t.Fatalf("expected only the reference to be annotated")
			}
		})
	}
}

func TestChecker_Conditions(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"p { if [TRUE] { width: 1px; } }", ""},
		{"Flag := FALSE; p { if [Flag] { width: 1px; } }", ""},
		{"Size := 10px; p { if [Size] { width: 1px; } }", MsgConditionNotBool},
		{"p { Col := #ff0000; if [Col] { width: 1px; } }", MsgConditionNotBool},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, _ := checkSource(t, tt.src)
			rule := tree.Root.Body[len(tree.Root.Body)-1].(*ast.Stylerule)

			var clause *ast.IfClause
			for _, item := range rule.Body {
				if c, ok := item.(*ast.IfClause); ok {
					clause = c
				}
			}
			if clause.Annotation() != tt.msg {
				t.Fatalf("expected %q, got %q", tt.msg, clause.Annotation())
			}
		})
	}
}

func TestChecker_ScopeLifetime(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{
			name: "global visible in rule",
			src:  "W := 10px; p { width: W; }",
		},
		{
			name:    "rule variable not visible in sibling rule",
			src:     "p { W := 10px; } a { width: W; }",
			wantErr: true,
		},
		{
			name: "rule variable visible in nested if",
			src:  "p { W := 10px; if [TRUE] { width: W; } }",
		},
		{
			name:    "if variable not visible after if",
			src:     "p { if [TRUE] { W := 10px; } width: W; }",
			wantErr: true,
		},
		{
			name:    "if variable not visible in else",
			src:     "p { if [TRUE] { W := 10px; } else { width: W; } }",
			wantErr: true,
		},
		{
			name:    "use before assignment",
			src:     "p { width: W; W := 10px; }",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, checker := checkSource(t, tt.src)
			if got := len(checker.Errors) > 0; got != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, checker.Errors)
			}
		})
	}
}

func TestChecker_ShadowingChangesType(t *testing.T) {
	// X is a color at rule level but a pixel inside the if
	src := `p {
		X := #ff0000;
		if [TRUE] {
			X := 10px;
			width: X;
		}
		color: X;
	}`
	_, checker := checkSource(t, src)
	if len(checker.Errors) != 0 {
		t.Fatalf("expected shadowed types to check cleanly, got %v", checker.Errors)
	}
}

func TestChecker_CollectsAllErrors(t *testing.T) {
	src := `p {
		color: 5;
		width: #ff0000;
		height: 1px + 1%;
	}
	a {
		width: Nope;
	}`
	_, checker := checkSource(t, src)

	if len(checker.Errors) != 4 {
		t.Fatalf("expected 4 diagnostics, got %d: %v", len(checker.Errors), checker.Errors)
	}
	for _, d := range checker.Errors {
		if d.Stage != diag.StageTypeCheck || !d.Span.IsValid() {
			t.Fatalf("diagnostic missing stage or span: %+v", d)
		}
	}
}

func TestChecker_ResetsBetweenRuns(t *testing.T) {
	_, checker := checkSource(t, "p { color: 5; }")
	if len(checker.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(checker.Errors))
	}

	clean, _ := parser.Parse("p { color: #000000; }")
	checker.Check(clean)
	if len(checker.Errors) != 0 {
		t.Fatalf("expected errors to reset, got %v", checker.Errors)
	}
}

func TestChecker_HandBuiltTree(t *testing.T) {
	sp := lexer.Span{}
	ref := ast.NewVariableReference("Undeclared", sp)
	tree := ast.NewAST()
	tree.Root.Body = []ast.SheetItem{
		ast.NewStylerule(
			[]ast.Selector{ast.NewTagSelector("p", sp)},
			[]ast.BodyItem{ast.NewDeclaration("width", ref, sp)},
			sp,
		),
	}

	checker := NewChecker()
	checker.Check(tree)

	if ref.Annotation() != MsgUndefinedVariable {
		t.Fatalf("expected %q, got %q", MsgUndefinedVariable, ref.Annotation())
	}
}

func TestOperationResult(t *testing.T) {
	mul := ast.NewMultiplyOperation(nil, nil, lexer.Span{})
	add := ast.NewAddOperation(nil, nil, lexer.Span{})

	tests := []struct {
		op     ast.Operation
		lt, rt ExpressionType
		want   ExpressionType
	}{
		{mul, Scalar, Pixel, Pixel},
		{mul, Percentage, Scalar, Percentage},
		{mul, Scalar, Scalar, Scalar},
		{add, Pixel, Pixel, Pixel},
		{add, Percentage, Percentage, Percentage},
	}

	for i, tt := range tests {
		if got := OperationResult(tt.op, tt.lt, tt.rt); got != tt.want {
			t.Errorf("tests[%d] - expected %s, got %s", i, tt.want, got)
		}
	}
}
