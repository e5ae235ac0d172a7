// Package scope provides the nested variable scopes shared by the checker
// and the evaluator.
package scope

// Chain is a stack of name→value scopes. Depth 1 is the outermost
// (stylesheet) scope; every nested body pushes one more level and pops it
// on exit, so the depth always equals the current AST nesting level.
type Chain[V any] struct {
	scopes []map[string]V
}

// NewChain returns an empty chain with no open scopes.
func NewChain[V any]() *Chain[V] {
	return &Chain[V]{}
}

// Depth returns the number of open scopes.
func (c *Chain[V]) Depth() int {
	return len(c.scopes)
}

// Push opens a new innermost scope and returns its depth.
func (c *Chain[V]) Push() int {
	c.scopes = append(c.scopes, make(map[string]V))
	return len(c.scopes)
}

// Pop closes the innermost scope. Popping an empty chain panics: scopes are
// always closed by the same walk that opened them.
func (c *Chain[V]) Pop() {
	if len(c.scopes) == 0 {
		panic("scope: pop of empty chain")
	}
	c.scopes[len(c.scopes)-1] = nil
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// Bind sets name to value in the innermost scope, replacing any earlier
// binding of name at the same depth.
func (c *Chain[V]) Bind(name string, value V) {
	if len(c.scopes) == 0 {
		panic("scope: bind with no open scope")
	}
	c.scopes[len(c.scopes)-1][name] = value
}

// Resolve looks name up from the innermost scope outwards.
func (c *Chain[V]) Resolve(name string) (V, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}
