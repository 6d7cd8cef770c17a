package permission

import "testing"

func TestResolveWithoutRules(t *testing.T) {
	reg := NewRemapRegistry()
	if got := reg.Resolve("page", ReadWrite); got != ReadWrite {
		t.Errorf("expected unchanged permission, got %s", got)
	}
}

func TestResolveSubstitutes(t *testing.T) {
	reg := NewRemapRegistry()
	reg.Declare("news-article", Remap{From: ReadWrite, To: ReadWritePublish})

	if got := reg.Resolve("news-article", ReadWrite); got != ReadWritePublish {
		t.Errorf("expected readwritepublish, got %s", got)
	}
	// Other types are untouched
	if got := reg.Resolve("page", ReadWrite); got != ReadWrite {
		t.Errorf("expected unchanged permission for undeclared type, got %s", got)
	}
	// Other levels of the same type are untouched
	if got := reg.Resolve("news-article", Full); got != Full {
		t.Errorf("expected unchanged permission for unmatched level, got %s", got)
	}
}

func TestResolveChainsInDeclaredOrder(t *testing.T) {
	reg := NewRemapRegistry()
	// Each rule's output feeds the next: ReadWrite -> ReadWritePublish -> Full
	reg.Declare("vault",
		Remap{From: ReadWrite, To: ReadWritePublish},
		Remap{From: ReadWritePublish, To: Full},
	)

	if got := reg.Resolve("vault", ReadWrite); got != Full {
		t.Errorf("expected chained resolve to Full, got %s", got)
	}

	// Reversed declaration order must not chain
	rev := NewRemapRegistry()
	rev.Declare("vault",
		Remap{From: ReadWritePublish, To: Full},
		Remap{From: ReadWrite, To: ReadWritePublish},
	)
	if got := rev.Resolve("vault", ReadWrite); got != ReadWritePublish {
		t.Errorf("expected single-step resolve, got %s", got)
	}
}
