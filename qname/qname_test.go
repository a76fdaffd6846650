package qname

import "testing"

func TestEqualIgnoresPrefix(t *testing.T) {
	a, err := NewPrefixed("http://example.com/ns", "a", "widget")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewPrefixed("http://example.com/ns", "b", "widget")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("Equal(%v, %v) = false, want true", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Errorf("Hash(%v) = %d, Hash(%v) = %d, want equal", a, a.Hash(), b, b.Hash())
	}
	if a.Key != b.Key {
		t.Errorf("Key(%v) = %v, Key(%v) = %v, want equal (so they are the same map key)", a, a.Key, b, b.Key)
	}
}

func TestNotEqualDifferentURI(t *testing.T) {
	a := New("http://example.com/ns1", "widget")
	b := New("http://example.com/ns2", "widget")
	if a.Equal(b) {
		t.Errorf("Equal(%v, %v) = true, want false", a, b)
	}
}

func TestQualified(t *testing.T) {
	n, err := NewPrefixed("http://example.com/ns", "ex", "widget")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := n.Qualified(), "ex:widget"; got != want {
		t.Errorf("Qualified() = %q, want %q", got, want)
	}
	plain := New("", "widget")
	if got, want := plain.Qualified(), "widget"; got != want {
		t.Errorf("Qualified() = %q, want %q", got, want)
	}
}

func TestUniversal(t *testing.T) {
	n := New("http://example.com/ns", "widget")
	if got, want := n.Universal(), "http://example.com/ns^widget"; got != want {
		t.Errorf("Universal() = %q, want %q", got, want)
	}
	plain := New("", "widget")
	if got, want := plain.Universal(), "widget"; got != want {
		t.Errorf("Universal() = %q, want %q", got, want)
	}
}

func TestNewPrefixedRejectsInvalidLocal(t *testing.T) {
	if _, err := NewPrefixed("urn:x", "p", "a:b"); err == nil {
		t.Error("expected error for local name containing ':'")
	}
	if _, err := NewPrefixed("urn:x", "p", "a^b"); err == nil {
		t.Error("expected error for local name containing '^'")
	}
}

func TestUnawareAllowsColon(t *testing.T) {
	n := NewUnaware("epub:type")
	if n.NamespaceAware() {
		t.Error("NewUnaware should not be namespace-aware")
	}
	if got, want := n.Local(), "epub:type"; got != want {
		t.Errorf("Local() = %q, want %q", got, want)
	}
}
