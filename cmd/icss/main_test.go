package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestBuild(t *testing.T) {
	path := writeFile(t, "site.icss", "Pad := 4px;\np { width: Pad * 3; }\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"build", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if want := "p {\n width: 12px;\n}\n"; stdout.String() != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, stdout.String())
	}
}

func TestBuild_OutputFile(t *testing.T) {
	path := writeFile(t, "site.icss", "a { color: #123456; }\n")
	out := filepath.Join(t.TempDir(), "site.css")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"build", "-o", out, path}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", stdout.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "a {\n color: #123456;\n}\n" {
		t.Fatalf("unexpected CSS %q", data)
	}
}

func TestBuild_Errors(t *testing.T) {
	path := writeFile(t, "bad.icss", "p {\n  width: Missing;\n}\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"build", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no CSS, got %q", stdout.String())
	}

	msg := stderr.String()
	for _, want := range []string{"TYPE_UNDEFINED_VARIABLE", "Variable is not defined", "width: Missing;", "no CSS written"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected stderr to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestBuild_Force(t *testing.T) {
	path := writeFile(t, "forced.icss", "p { color: 5; }\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"build", "-force", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 while errors remain, got %d", code)
	}
	if stdout.String() != "p {\n color: 5;\n}\n" {
		t.Fatalf("expected forced CSS, got %q", stdout.String())
	}
}

func TestCheck(t *testing.T) {
	path := writeFile(t, "c.icss", "p { color: 5; }\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"check", "-ast", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Declaration (color)  !! Value must be a color") {
		t.Fatalf("expected annotated AST dump, got:\n%s", stdout.String())
	}

	clean := writeFile(t, "ok.icss", "p { color: #000000; }\n")
	stdout.Reset()
	if code := run([]string{"check", clean}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasSuffix(stdout.String(), ": ok\n") {
		t.Fatalf("expected ok line, got %q", stdout.String())
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		nil,
		{"frobnicate"},
		{"build"},
		{"check", "a", "b"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 2 {
			t.Errorf("run(%q): expected exit 2, got %d", args, code)
		}
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"build", filepath.Join(t.TempDir(), "missing.icss")}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 for a missing file, got %d", code)
	}
}

func TestNesting(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"A := 1px;", 0},
		{"p {", 1},
		{"p { if [TRUE", 2},
		{"p { if [TRUE] { width: 1px; }", 1},
		{"p { } }", -1},
		{"p { /* } */", 1},
		{"/* unterminated {", 1},
	}
	for _, tt := range tests {
		if got := nesting(tt.src); got != tt.want {
			t.Errorf("nesting(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestSessionKeepsVariables(t *testing.T) {
	var sess session
	var stdout, stderr bytes.Buffer

	sess.eval("Base := 10px; Shift := 0px - 3px;", &stdout, &stderr)
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr: %s", stderr.String())
	}

	sess.eval("p { width: Base * 2; margin: Shift; }", &stdout, &stderr)
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr: %s", stderr.String())
	}
	if stdout.String() != "p {\n width: 20px;\n margin: -3px;\n}\n" {
		t.Fatalf("unexpected CSS %q", stdout.String())
	}

	// a failing entry leaves the session untouched
	before := sess.prelude
	sess.eval("a { width: Nope; }", &stdout, &stderr)
	if sess.prelude != before {
		t.Fatalf("expected prelude unchanged, got %q", sess.prelude)
	}
	if !strings.Contains(stderr.String(), "Variable is not defined") {
		t.Fatalf("expected diagnostic on stderr, got %q", stderr.String())
	}
}

func TestSourceForm(t *testing.T) {
	var sess session
	var stdout, stderr bytes.Buffer

	sess.eval("N := 2 - 2; P := 0% - 5%; S := 7;", &stdout, &stderr)
	// 2 - 2 is rejected by the checker, so nothing is kept
	if sess.prelude != "" {
		t.Fatalf("expected empty prelude after a failed entry, got %q", sess.prelude)
	}

	stderr.Reset()
	sess.eval("P := 0% - 5%; S := 7;", &stdout, &stderr)
	if want := "P := 0% - 5%;\nS := 7;\n"; sess.prelude != want {
		t.Fatalf("expected prelude %q, got %q", want, sess.prelude)
	}
}
