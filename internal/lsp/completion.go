package lsp

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/icss-lang/icss/internal/ast"
)

// CompletionList represents a list of completion items.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

type CompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

const (
	completionKindVariable = 6
	completionKindProperty = 10
	completionKindKeyword  = 14
)

// Properties the checker knows the value domain of.
var checkedProperties = map[string]string{
	"color":            "color",
	"background-color": "color",
	"width":            "percentage or pixel",
	"height":           "percentage or pixel",
}

var keywords = []string{"if", "else", "TRUE", "FALSE"}

func (s *Server) handleCompletion(msg *jsonrpcMessage) *jsonrpcMessage {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorResponse(msg, codeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Symbols == nil {
		return &jsonrpcMessage{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Result:  CompletionList{Items: []CompletionItem{}},
		}
	}

	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  CompletionList{Items: getCompletions(doc, params.Position)},
	}
}

// getCompletions offers the variables in scope at pos, the checked
// properties and the keywords.
func getCompletions(doc *Document, pos Position) []CompletionItem {
	offset := positionToOffset(doc.Content, pos)

	var vars []CompletionItem
	for _, b := range doc.Symbols.Visible(offset) {
		vars = append(vars, CompletionItem{
			Label:  b.Assignment.Name.Name,
			Kind:   completionKindVariable,
			Detail: ast.ExprString(b.Assignment.Value),
		})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Label < vars[j].Label })

	var props []CompletionItem
	for name, domain := range checkedProperties {
		props = append(props, CompletionItem{Label: name, Kind: completionKindProperty, Detail: domain})
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Label < props[j].Label })

	items := append(vars, props...)
	for _, kw := range keywords {
		items = append(items, CompletionItem{Label: kw, Kind: completionKindKeyword})
	}
	return items
}
