package probe

import "testing"

func TestPathProbe_Has(t *testing.T) {
	p := NewPathProbe()

	if !p.Has("sh") {
		t.Error("Has(sh) should be true on any unix host")
	}
}

func TestPathProbe_Has_Missing(t *testing.T) {
	p := NewPathProbe()

	if p.Has("definitely-not-a-command-12345") {
		t.Error("Has() should be false for a nonexistent command")
	}
}
