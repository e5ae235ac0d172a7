// Package codegen renders an evaluated ICSS tree as CSS text.
package codegen

import (
	"io"
	"strings"

	"github.com/icss-lang/icss/internal/ast"
)

// Generator converts a folded stylesheet to CSS. It assumes every rule body
// holds only Declarations with literal values and does no validation of
// its own; anything else in a body is skipped.
type Generator struct{}

// NewGenerator creates a new generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns the CSS text for sheet.
func (g *Generator) Generate(sheet *ast.Stylesheet) string {
	var b strings.Builder
	g.generate(&b, sheet)
	return b.String()
}

// Write renders sheet to w.
func (g *Generator) Write(w io.Writer, sheet *ast.Stylesheet) error {
	_, err := io.WriteString(w, g.Generate(sheet))
	return err
}

func (g *Generator) generate(b *strings.Builder, sheet *ast.Stylesheet) {
	for _, item := range sheet.Body {
		rule, ok := item.(*ast.Stylerule)
		if !ok {
			continue
		}
		g.genStylerule(b, rule)
	}
}

// genStylerule emits only the first selector of a rule.
func (g *Generator) genStylerule(b *strings.Builder, rule *ast.Stylerule) {
	if len(rule.Selectors) > 0 {
		b.WriteString(rule.Selectors[0].String())
	}
	b.WriteString(" {\n")

	for _, item := range rule.Body {
		decl, ok := item.(*ast.Declaration)
		if !ok {
			continue
		}
		lit, ok := decl.Value.(ast.Literal)
		if !ok {
			continue
		}

		b.WriteString(" ")
		b.WriteString(decl.Property)
		b.WriteString(": ")
		b.WriteString(lit.String())
		b.WriteString(";\n")
	}

	b.WriteString("}\n")
}
