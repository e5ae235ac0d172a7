package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/compiler"
	"github.com/icss-lang/icss/internal/diag"
)

// Server is a language server for ICSS documents speaking JSON-RPC over a
// pair of streams.
type Server struct {
	// Documents tracks open files by URI
	Documents map[string]*Document
	mu        sync.RWMutex

	in    *bufio.Reader
	out   io.Writer
	outMu sync.Mutex

	shutdown bool
}

// Document represents an open document.
type Document struct {
	URI         string
	Content     string
	Version     int
	AST         *ast.AST
	Diagnostics []diag.Diagnostic
	Symbols     *Symbols
}

// NewServer creates a server reading requests from in and writing
// responses and notifications to out.
func NewServer(in io.Reader, out io.Writer) *Server {
	return &Server{
		Documents: make(map[string]*Document),
		in:        bufio.NewReader(in),
		out:       out,
	}
}

// Run serves requests until the input ends, an exit notification arrives,
// or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var msg jsonrpcMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			log.Printf("Failed to parse JSON-RPC message: %v", err)
			continue
		}

		if msg.Method == "exit" {
			return nil
		}

		response := s.handleMessage(ctx, &msg)
		if response != nil {
			if err := s.send(response); err != nil {
				log.Printf("Failed to send response: %v", err)
			}
		}
	}
}

// readMessage reads one Content-Length framed message body.
func (s *Server) readMessage() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.in.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read header: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length %q: %w", value, err)
		}
		contentLength = n
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.in, body); err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	return body, nil
}

// jsonrpcMessage represents a JSON-RPC 2.0 message.
type jsonrpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
	codeInvalidRequest = -32600
)

// handleMessage processes a JSON-RPC message and returns a response.
func (s *Server) handleMessage(ctx context.Context, msg *jsonrpcMessage) *jsonrpcMessage {
	if s.shutdown && msg.Method != "exit" && msg.ID != nil {
		return errorResponse(msg, codeInvalidRequest, "server is shutting down")
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(msg)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(msg)
		return nil
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "shutdown":
		s.shutdown = true
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID}
	default:
		if msg.ID != nil {
			return errorResponse(msg, codeMethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method))
		}
		return nil
	}
}

func errorResponse(msg *jsonrpcMessage, code int, message string) *jsonrpcMessage {
	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Error:   &jsonrpcError{Code: code, Message: message},
	}
}

// send writes msg with its Content-Length header.
func (s *Server) send(msg *jsonrpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := io.WriteString(s.out, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

// InitializeResult represents the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	TextDocumentSync   int                    `json:"textDocumentSync"`
	CompletionProvider map[string]interface{} `json:"completionProvider,omitempty"`
	HoverProvider      bool                   `json:"hoverProvider"`
	DefinitionProvider bool                   `json:"definitionProvider"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) handleInitialize(msg *jsonrpcMessage) *jsonrpcMessage {
	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:   1, // full document sync
			CompletionProvider: map[string]interface{}{},
			HoverProvider:      true,
			DefinitionProvider: true,
		},
		ServerInfo: ServerInfo{
			Name:    "icss-lsp",
			Version: "0.1.0",
		},
	}

	return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: result}
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

// TextDocumentPositionParams represents a position in a text document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

func (s *Server) handleDidOpen(msg *jsonrpcMessage) {
	var params struct {
		TextDocument TextDocumentItem `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		log.Printf("Failed to parse didOpen params: %v", err)
		return
	}

	doc := &Document{
		URI:     params.TextDocument.URI,
		Content: params.TextDocument.Text,
		Version: params.TextDocument.Version,
	}
	updateDocument(doc)

	s.mu.Lock()
	s.Documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(doc)
}

func (s *Server) handleDidChange(msg *jsonrpcMessage) {
	var params struct {
		TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
		ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		log.Printf("Failed to parse didChange params: %v", err)
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}

	s.mu.Lock()
	doc, ok := s.Documents[params.TextDocument.URI]
	if ok {
		// full sync: the last change holds the whole text
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
		updateDocument(doc)
	}
	s.mu.Unlock()

	if ok {
		s.publishDiagnostics(doc)
	}
}

func (s *Server) handleDidClose(msg *jsonrpcMessage) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		log.Printf("Failed to parse didClose params: %v", err)
		return
	}

	s.mu.Lock()
	delete(s.Documents, params.TextDocument.URI)
	s.mu.Unlock()

	// clear the client's diagnostics for the closed file
	s.publishDiagnostics(&Document{URI: params.TextDocument.URI})
}

func (s *Server) document(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.Documents[uri]
	return doc, ok
}

// updateDocument parses and type checks a document.
func updateDocument(doc *Document) {
	res := compiler.Check(doc.Content, compiler.WithFilename(uriToPath(doc.URI)))
	doc.AST = res.AST
	doc.Diagnostics = res.Diagnostics
	doc.Symbols = Resolve(res.AST)
}

// Diagnostic represents an LSP diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Source   string `json:"source,omitempty"`
}

type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// publishDiagnostics sends diagnostics to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	lspDiagnostics := make([]Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		lspDiagnostics = append(lspDiagnostics, Diagnostic{
			Range:    spanRange(d.Span.Line, d.Span.Column, d.Span.End-d.Span.Start),
			Severity: diagnosticSeverity(d.Severity),
			Message:  d.Message,
			Code:     string(d.Code),
			Source:   "icss",
		})
	}

	params, err := json.Marshal(PublishDiagnosticsParams{URI: doc.URI, Diagnostics: lspDiagnostics})
	if err != nil {
		log.Printf("Failed to marshal diagnostics: %v", err)
		return
	}

	if err := s.send(&jsonrpcMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  params,
	}); err != nil {
		log.Printf("Failed to publish diagnostics: %v", err)
	}
}

// spanRange converts a 1-based line/column and a byte length to an LSP
// range on a single line.
func spanRange(line, column, length int) Range {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	if length < 0 {
		length = 0
	}
	start := Position{Line: line - 1, Character: column - 1}
	return Range{Start: start, End: Position{Line: start.Line, Character: start.Character + length}}
}

func diagnosticSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SeverityWarning:
		return 2
	case diag.SeverityNote:
		return 3
	default:
		return 1
	}
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		// Windows drive paths arrive as /C:/...
		if len(path) > 2 && path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}
		return path
	}
	return uri
}

// positionToOffset converts an LSP position to a rune offset in content,
// the unit spans are measured in.
func positionToOffset(content string, pos Position) int {
	runes := []rune(content)
	line, col := 0, 0
	for i, r := range runes {
		if line == pos.Line && col == pos.Character {
			return i
		}
		if r == '\n' {
			if line == pos.Line {
				return i
			}
			line++
			col = 0
		} else {
			col++
		}
	}
	return len(runes)
}
