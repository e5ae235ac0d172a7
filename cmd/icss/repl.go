package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/compiler"
)

const (
	historyFile = ".icss_history"
	promptMain  = "icss> "
	promptCont  = "....> "
	replName    = "<repl>"
)

func runREPL(stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, "ICSS interactive session. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	var sess session
	for {
		chunk, ok := readUntilBalanced(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}

		trimmed := strings.TrimSpace(chunk)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return 0
		case trimmed == ":vars":
			io.WriteString(stdout, sess.prelude)
			continue
		case trimmed == ":reset":
			sess = session{}
			continue
		case strings.HasPrefix(trimmed, ":"):
			fmt.Fprintln(stdout, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(chunk, "\n", " "))
		sess.eval(chunk, stdout, stderr)
	}
}

// readUntilBalanced prompts until every opened brace and bracket is closed.
// ok is false at end of input.
func readUntilBalanced(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if nesting(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// nesting returns the number of unclosed '{' and '[' in src, ignoring
// block comments.
func nesting(src string) int {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '/':
			if i+1 < len(src) && src[i+1] == '*' {
				end := strings.Index(src[i+2:], "*/")
				if end < 0 {
					// an unterminated comment keeps the entry open
					return depth + 1
				}
				i += end + 3
			}
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}
	return depth
}

// session carries top-level variables from one REPL entry to the next.
type session struct {
	prelude string
}

// eval compiles chunk after the session's variables and prints the CSS.
// Top-level assignments of a clean entry are kept for later entries.
func (s *session) eval(chunk string, stdout, stderr io.Writer) {
	src := s.prelude + chunk + "\n"

	res, err := compiler.Compile(src, compiler.WithFilename(replName))
	reportDiagnostics(stderr, replName, src, res.Diagnostics)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return
	}
	if !res.Emitted {
		return
	}

	io.WriteString(stdout, res.CSS)

	// keep only the latest binding of each name
	var names []string
	seen := make(map[string]bool)
	values := make(map[string]string)
	for _, item := range res.AST.Root.Body {
		a, ok := item.(*ast.VariableAssignment)
		if !ok {
			continue
		}
		text, ok := sourceForm(a.Value)
		if !ok {
			fmt.Fprintf(stderr, "note: %s is not kept for later entries\n", a.Name.Name)
			delete(values, a.Name.Name)
			continue
		}
		if !seen[a.Name.Name] {
			seen[a.Name.Name] = true
			names = append(names, a.Name.Name)
		}
		values[a.Name.Name] = text
	}

	var b strings.Builder
	for _, name := range names {
		if text, ok := values[name]; ok {
			fmt.Fprintf(&b, "%s := %s;\n", name, text)
		}
	}
	s.prelude = b.String()
}

// sourceForm renders a folded value so the lexer reads it back. Negative
// dimensions are written as a subtraction from zero.
func sourceForm(e ast.Expr) (string, bool) {
	switch lit := e.(type) {
	case *ast.PixelLiteral:
		if lit.Value < 0 {
			return fmt.Sprintf("0px - %dpx", -lit.Value), true
		}
	case *ast.PercentageLiteral:
		if lit.Value < 0 {
			return fmt.Sprintf("0%% - %d%%", -lit.Value), true
		}
	case *ast.ScalarLiteral:
		// TODO: negative scalars have no source form until the lexer accepts a unary minus.
		if lit.Value < 0 {
			return "", false
		}
	}
	return ast.ExprString(e), true
}
