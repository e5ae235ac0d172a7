package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/types"
)

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (s *Server) handleHover(msg *jsonrpcMessage) *jsonrpcMessage {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg, codeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.AST == nil {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID}
	}

	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  getHover(doc, params.Position),
	}
}

func getHover(doc *Document, pos Position) *Hover {
	offset := positionToOffset(doc.Content, pos)

	node := nodeAt(doc.AST.Root, offset)
	if node == nil {
		return nil
	}

	var content string
	switch n := node.(type) {
	case *ast.VariableReference:
		def, ok := doc.Symbols.Definitions[n]
		if !ok {
			content = fmt.Sprintf("```icss\n%s\n```", n.Name)
			break
		}
		content = fmt.Sprintf("```icss\n%s := %s\n```", n.Name, ast.ExprString(def.Value))
	case ast.Literal:
		content = fmt.Sprintf("```icss\n%s\n```\n%s literal", n.String(), types.LiteralType(n))
	case *ast.Declaration:
		content = fmt.Sprintf("```icss\n%s: %s;\n```", n.Property, ast.ExprString(n.Value))
	case ast.Operation:
		content = fmt.Sprintf("```icss\n%s\n```", ast.ExprString(n))
	case ast.Selector:
		content = fmt.Sprintf("selector `%s`", n.String())
	default:
		if node.Annotation() == "" {
			return nil
		}
	}

	if msg := node.Annotation(); msg != "" {
		if content != "" {
			content += "\n\n"
		}
		content += "**error:** " + msg
	}

	span := node.Span()
	r := spanRange(span.Line, span.Column, span.End-span.Start)
	return &Hover{
		Contents: MarkupContent{Kind: "markdown", Value: strings.TrimSpace(content)},
		Range:    &r,
	}
}

// nodeAt returns the innermost node whose span contains offset.
func nodeAt(root ast.Node, offset int) ast.Node {
	var found ast.Node
	ast.Walk(root, func(n ast.Node) bool {
		span := n.Span()
		if offset < span.Start || offset >= span.End {
			// children lie within their parent's span, except for the root
			_, isRoot := n.(*ast.Stylesheet)
			return isRoot
		}
		found = n
		return true
	})
	if _, isRoot := found.(*ast.Stylesheet); isRoot {
		return nil
	}
	return found
}
