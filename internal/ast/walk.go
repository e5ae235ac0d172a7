package ast

// Children returns the direct children of node in syntactic order.
func Children(node Node) []Node {
	var out []Node

	switch n := node.(type) {
	case *Stylesheet:
		for _, item := range n.Body {
			out = append(out, item)
		}

	case *Stylerule:
		for _, sel := range n.Selectors {
			out = append(out, sel)
		}
		for _, item := range n.Body {
			out = append(out, item)
		}

	case *Declaration:
		if n.Value != nil {
			out = append(out, n.Value)
		}

	case *VariableAssignment:
		if n.Name != nil {
			out = append(out, n.Name)
		}
		if n.Value != nil {
			out = append(out, n.Value)
		}

	case *IfClause:
		if n.Condition != nil {
			out = append(out, n.Condition)
		}
		for _, item := range n.Body {
			out = append(out, item)
		}
		if n.Else != nil {
			out = append(out, n.Else)
		}

	case *ElseClause:
		for _, item := range n.Body {
			out = append(out, item)
		}

	case Operation:
		lhs, rhs := n.Operands()
		if lhs != nil {
			out = append(out, lhs)
		}
		if rhs != nil {
			out = append(out, rhs)
		}
	}

	return out
}

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// Annotated returns every node under root carrying an error annotation, in pre-order.
func Annotated(root Node) []Node {
	var out []Node
	Walk(root, func(n Node) bool {
		if n.Annotation() != "" {
			out = append(out, n)
		}
		return true
	})
	return out
}
