package scope

import "testing"

func TestChain_Shadowing(t *testing.T) {
	c := NewChain[string]()

	if d := c.Push(); d != 1 {
		t.Fatalf("expected depth 1, got %d", d)
	}
	c.Bind("X", "sheet")

	c.Push()
	c.Bind("X", "rule")

	c.Push()
	c.Bind("X", "if")

	if v, _ := c.Resolve("X"); v != "if" {
		t.Fatalf("expected innermost binding %q, got %q", "if", v)
	}

	c.Pop()
	if v, _ := c.Resolve("X"); v != "rule" {
		t.Fatalf("expected binding %q after leaving depth 3, got %q", "rule", v)
	}

	c.Pop()
	if v, _ := c.Resolve("X"); v != "sheet" {
		t.Fatalf("expected binding %q after leaving depth 2, got %q", "sheet", v)
	}
}

func TestChain_ResolveOuter(t *testing.T) {
	c := NewChain[int]()
	c.Push()
	c.Bind("Width", 10)
	c.Push()
	c.Push()

	v, ok := c.Resolve("Width")
	if !ok || v != 10 {
		t.Fatalf("expected outer binding 10, got %d (found=%v)", v, ok)
	}
	if c.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", c.Depth())
	}
}

func TestChain_Unresolved(t *testing.T) {
	c := NewChain[int]()

	if _, ok := c.Resolve("Missing"); ok {
		t.Fatal("expected lookup on an empty chain to fail")
	}

	c.Push()
	c.Push()
	c.Bind("Inner", 1)
	c.Pop()

	if _, ok := c.Resolve("Inner"); ok {
		t.Fatal("binding must not outlive its scope")
	}
}

func TestChain_RebindSameDepth(t *testing.T) {
	c := NewChain[int]()
	c.Push()
	c.Bind("X", 1)
	c.Bind("X", 2)

	if v, _ := c.Resolve("X"); v != 2 {
		t.Fatalf("expected rebinding to win, got %d", v)
	}
}

func TestChain_PopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when popping an empty chain")
		}
	}()
	NewChain[int]().Pop()
}
