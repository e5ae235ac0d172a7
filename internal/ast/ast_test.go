package ast

import (
	"bytes"
	"testing"

	"github.com/icss-lang/icss/internal/lexer"
)

func sampleSheet() *Stylesheet {
	sp := lexer.Span{}
	sheet := NewStylesheet(sp)
	sheet.Body = []SheetItem{
		NewVariableAssignment(NewVariableReference("Wide", sp), NewBoolLiteral(true, sp), sp),
		NewStylerule(
			[]Selector{NewClassSelector("menu", sp), NewTagSelector("p", sp)},
			[]BodyItem{
				NewDeclaration("width", NewAddOperation(NewPixelLiteral(10, sp), NewVariableReference("Pad", sp), sp), sp),
				NewIfClause(
					NewVariableReference("Wide", sp),
					[]BodyItem{NewDeclaration("color", NewColorLiteral("#ff0000", sp), sp)},
					NewElseClause([]BodyItem{NewDeclaration("height", NewPercentageLiteral(50, sp), sp)}, sp),
					sp,
				),
			},
			sp,
		),
	}
	return sheet
}

func TestLiteralString(t *testing.T) {
	tests := []struct {
		lit  Literal
		want string
	}{
		{NewPixelLiteral(20, lexer.Span{}), "20px"},
		{NewPercentageLiteral(50, lexer.Span{}), "50%"},
		{NewScalarLiteral(-3, lexer.Span{}), "-3"},
		{NewBoolLiteral(false, lexer.Span{}), "false"},
		{NewColorLiteral("#00ff00", lexer.Span{}), "#00ff00"},
	}

	for i, tt := range tests {
		if got := tt.lit.String(); got != tt.want {
			t.Errorf("tests[%d] - expected %q, got %q", i, tt.want, got)
		}
	}
}

func TestSelectorString(t *testing.T) {
	if got := NewTagSelector("a", lexer.Span{}).String(); got != "a" {
		t.Errorf("tag selector: got %q", got)
	}
	if got := NewClassSelector("menu", lexer.Span{}).String(); got != ".menu" {
		t.Errorf("class selector: got %q", got)
	}
	if got := NewIdSelector("nav", lexer.Span{}).String(); got != "#nav" {
		t.Errorf("id selector: got %q", got)
	}
}

func TestWalkOrder(t *testing.T) {
	var labels []string
	Walk(sampleSheet(), func(n Node) bool {
		labels = append(labels, label(n))
		return true
	})

	want := []string{
		"Stylesheet",
		"VariableAssignment",
		"VariableReference (Wide)",
		"BoolLiteral (true)",
		"Stylerule",
		"Selector (.menu)",
		"Selector (p)",
		"Declaration (width)",
		"AddOperation",
		"PixelLiteral (10px)",
		"VariableReference (Pad)",
		"IfClause",
		"VariableReference (Wide)",
		"Declaration (color)",
		"ColorLiteral (#ff0000)",
		"ElseClause",
		"Declaration (height)",
		"PercentageLiteral (50%)",
	}

	if len(labels) != len(want) {
		t.Fatalf("expected %d nodes, got %d: %v", len(want), len(labels), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("node %d: expected %q, got %q", i, want[i], labels[i])
		}
	}
}

func TestWalkPrune(t *testing.T) {
	count := 0
	Walk(sampleSheet(), func(n Node) bool {
		count++
		_, isRule := n.(*Stylerule)
		return !isRule
	})

	// Stylesheet, VariableAssignment + 2 children, Stylerule
	if count != 5 {
		t.Fatalf("expected 5 visited nodes, got %d", count)
	}
}

func TestAnnotated(t *testing.T) {
	sheet := sampleSheet()
	rule := sheet.Body[1].(*Stylerule)
	decl := rule.Body[0].(*Declaration)
	ref := decl.Value.(*AddOperation).RHS

	ref.Annotate("Variable is not defined")
	decl.Annotate("Value must be either a percentage, pixel or scalar")

	got := Annotated(sheet)
	if len(got) != 2 {
		t.Fatalf("expected 2 annotated nodes, got %d", len(got))
	}
	if got[0] != Node(decl) || got[1] != ref {
		t.Fatalf("annotated nodes out of pre-order: %v", got)
	}
}

func TestFprint(t *testing.T) {
	sheet := sampleSheet()
	sheet.Body[1].(*Stylerule).Body[1].Annotate("The condition must be a boolean")

	var buf bytes.Buffer
	if err := Fprint(&buf, sheet); err != nil {
		t.Fatalf("Fprint: %v", err)
	}

	want := `Stylesheet
  VariableAssignment
    VariableReference (Wide)
    BoolLiteral (true)
  Stylerule
    Selector (.menu)
    Selector (p)
    Declaration (width)
      AddOperation
        PixelLiteral (10px)
        VariableReference (Pad)
    IfClause  !! The condition must be a boolean
      VariableReference (Wide)
      Declaration (color)
        ColorLiteral (#ff0000)
      ElseClause
        Declaration (height)
          PercentageLiteral (50%)
`
	if buf.String() != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCopyLiteral(t *testing.T) {
	orig := NewPixelLiteral(12, lexer.Span{Line: 1, Column: 1})
	at := lexer.Span{Line: 4, Column: 9}

	cp := CopyLiteral(orig, at)
	px, ok := cp.(*PixelLiteral)
	if !ok {
		t.Fatalf("expected *PixelLiteral, got %T", cp)
	}
	if px == orig {
		t.Fatal("CopyLiteral returned the same node")
	}
	if px.Value != 12 || px.Span() != at {
		t.Fatalf("unexpected copy: value=%d span=%+v", px.Value, px.Span())
	}
}

func TestOperationOperands(t *testing.T) {
	var op Operation = NewMultiplyOperation(NewScalarLiteral(2, lexer.Span{}), NewPixelLiteral(10, lexer.Span{}), lexer.Span{})
	if op.Operator() != lexer.ASTERISK {
		t.Fatalf("expected operator %q, got %q", lexer.ASTERISK, op.Operator())
	}

	folded := NewPixelLiteral(20, lexer.Span{})
	op.SetOperands(folded, folded)
	lhs, rhs := op.Operands()
	if lhs != Expr(folded) || rhs != Expr(folded) {
		t.Fatal("SetOperands did not replace operands")
	}
}

func TestExprString(t *testing.T) {
	sp := lexer.Span{}
	px := func(v int) Expr { return NewPixelLiteral(v, sp) }

	tests := []struct {
		expr Expr
		want string
	}{
		{NewColorLiteral("#00ff00", sp), "#00ff00"},
		{NewVariableReference("Gap", sp), "Gap"},
		{NewAddOperation(px(1), NewMultiplyOperation(NewScalarLiteral(2, sp), px(3), sp), sp), "1px + 2 * 3px"},
		{NewMultiplyOperation(NewScalarLiteral(2, sp), NewAddOperation(px(1), px(3), sp), sp), "2 * (1px + 3px)"},
		{NewSubtractOperation(NewSubtractOperation(px(5), px(2), sp), px(1), sp), "5px - 2px - 1px"},
		{NewSubtractOperation(px(5), NewSubtractOperation(px(2), px(1), sp), sp), "5px - (2px - 1px)"},
	}

	for _, tt := range tests {
		if got := ExprString(tt.expr); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
