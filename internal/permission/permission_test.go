package permission

import "testing"

func TestOrdering(t *testing.T) {
	ordered := []Permission{None, Read, ReadWrite, ReadWritePublish, Full}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("expected %s < %s", ordered[i-1], ordered[i])
		}
	}
}

func TestAuthorizesIsCeilingComparison(t *testing.T) {
	levels := []Permission{None, Read, ReadWrite, ReadWritePublish, Full}
	for _, ceiling := range levels {
		for _, requested := range levels {
			got := ceiling.Authorizes(requested)
			want := ceiling >= requested
			if got != want {
				t.Errorf("Authorizes(%s, %s) = %v, want %v", ceiling, requested, got, want)
			}
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, p := range []Permission{None, Read, ReadWrite, ReadWritePublish, Full} {
		parsed, err := Parse(p.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", p.String(), err)
		}
		if parsed != p {
			t.Errorf("Parse(%q) = %s, want %s", p.String(), parsed, p)
		}
	}
}

func TestParseUnknownFailsClosed(t *testing.T) {
	p, err := Parse("write")
	if err == nil {
		t.Fatal("expected error for unknown permission name")
	}
	if p != None {
		t.Errorf("expected None for unknown name, got %s", p)
	}
}
