package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	w           io.Writer
	sourceCache map[string]string // Cache of source files by filename
}

// NewFormatter creates a new diagnostic formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		w:           w,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers in-memory source text for filename, so snippets can be
// printed for input that never touched disk.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// FormatAll formats every diagnostic in order.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		f.Format(d)
	}
}

// Format formats and prints a diagnostic in Rust-style format.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	if !d.Span.IsValid() {
		f.printHelp(d)
		return
	}

	src, err := f.LoadSource(d.Span.Filename)
	if err != nil || src == "" {
		// No source to show; the location alone has to do
		fmt.Fprintf(f.w, "  --> %s\n", d.Span.String())
		f.printHelp(d)
		return
	}

	f.printSnippet(src, d)
	f.printHelp(d)
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}

	if d.Code != "" {
		fmt.Fprintf(f.w, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.w, "%s: %s\n", severity, d.Message)
	}
}

// printSnippet prints the offending line with one line of context on each side.
func (f *Formatter) printSnippet(src string, d Diagnostic) {
	lines := strings.Split(src, "\n")
	line := d.Span.Line
	if line > len(lines) {
		fmt.Fprintf(f.w, "  --> %s\n", d.Span.String())
		return
	}

	contextStart := max(1, line-1)
	contextEnd := min(len(lines), line+1)
	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	gutter := strings.Repeat(" ", lineNumWidth)

	fmt.Fprintf(f.w, "  --> %s\n", d.Span.String())
	fmt.Fprintf(f.w, "   %s |\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		content := lines[lineNum-1]
		fmt.Fprintf(f.w, " %*d | %s\n", lineNumWidth, lineNum, content)
		if lineNum == line {
			f.printUnderline(gutter, content, d)
		}
	}

	fmt.Fprintf(f.w, "   %s |\n", gutter)
}

// printUnderline prints carets (^) under the span on its line.
func (f *Formatter) printUnderline(gutter, content string, d Diagnostic) {
	start := d.Span.Column - 1
	width := max(1, d.Span.End-d.Span.Start)
	if start+width > len(content) {
		width = max(1, len(content)-start)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", start))
	b.WriteString(strings.Repeat("^", width))
	if d.Label != "" {
		b.WriteString(" ")
		b.WriteString(d.Label)
	}
	fmt.Fprintf(f.w, "   %s | %s\n", gutter, b.String())
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "help: %s\n", d.Help)
	}
}
