package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/icss-lang/icss/internal/ast"
)

// Location represents a location in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

func (s *Server) handleDefinition(msg *jsonrpcMessage) *jsonrpcMessage {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg, codeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.AST == nil {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID}
	}

	loc := findDefinition(doc, params.Position)
	if loc == nil {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID}
	}
	return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: loc}
}

// findDefinition locates the assignment a variable reference at pos
// resolves to. Variables never cross files.
func findDefinition(doc *Document, pos Position) *Location {
	offset := positionToOffset(doc.Content, pos)

	ref, ok := nodeAt(doc.AST.Root, offset).(*ast.VariableReference)
	if !ok {
		return nil
	}

	def, ok := doc.Symbols.Definitions[ref]
	if !ok {
		return nil
	}

	span := def.Name.Span()
	return &Location{
		URI:   doc.URI,
		Range: spanRange(span.Line, span.Column, span.End-span.Start),
	}
}
