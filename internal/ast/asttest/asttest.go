// Package asttest holds helpers for comparing ICSS syntax trees in tests.
package asttest

import (
	"reflect"
	"testing"

	"github.com/kr/pretty"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/lexer"
)

type spanSetter interface {
	SetSpan(lexer.Span)
}

// StripSpans zeroes the span of every node under root so trees built by
// hand can be compared against parsed ones.
func StripSpans(root ast.Node) {
	ast.Walk(root, func(n ast.Node) bool {
		if s, ok := n.(spanSetter); ok {
			s.SetSpan(lexer.Span{})
		}
		return true
	})
}

// AssertEqual fails the test with a field-level diff when want and got differ.
func AssertEqual(t testing.TB, want, got any) {
	t.Helper()

	if reflect.DeepEqual(want, got) {
		return
	}
	for _, d := range pretty.Diff(want, got) {
		t.Errorf("  %s", d)
	}
	t.Fatalf("trees differ\nwant: %# v\ngot:  %# v", pretty.Formatter(want), pretty.Formatter(got))
}
