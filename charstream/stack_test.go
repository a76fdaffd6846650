package charstream

import (
	"io"
	"strings"
	"testing"
)

func TestNextRuneReadsString(t *testing.T) {
	s := NewStack(strings.NewReader("ab"), "", "")
	r, err := s.NextRune()
	if err != nil || r != 'a' {
		t.Fatalf("NextRune() = %q, %v; want 'a', nil", r, err)
	}
	r, err = s.NextRune()
	if err != nil || r != 'b' {
		t.Fatalf("NextRune() = %q, %v; want 'b', nil", r, err)
	}
	if _, err := s.NextRune(); err != io.EOF {
		t.Fatalf("NextRune() at end = %v, want io.EOF", err)
	}
}

func TestUnreadRuneRoundTrips(t *testing.T) {
	s := NewStack(strings.NewReader("xy"), "", "")
	r, _ := s.NextRune()
	if r != 'x' {
		t.Fatalf("got %q, want 'x'", r)
	}
	if err := s.UnreadRune(); err != nil {
		t.Fatalf("UnreadRune() = %v", err)
	}
	r, _ = s.NextRune()
	if r != 'x' {
		t.Fatalf("re-read got %q, want 'x'", r)
	}
}

func TestUnreadRuneTwiceFails(t *testing.T) {
	s := NewStack(strings.NewReader("z"), "", "")
	s.NextRune()
	if err := s.UnreadRune(); err != nil {
		t.Fatalf("first UnreadRune() = %v", err)
	}
	if err := s.UnreadRune(); err == nil {
		t.Fatal("second UnreadRune() = nil, want error")
	}
}

func TestPushPopResumesOuterFrame(t *testing.T) {
	s := NewStack(strings.NewReader("AB"), "outer.dtd", "")
	s.PushString("xy")
	var got []rune
	for i := 0; i < 4; i++ {
		r, err := s.NextRune()
		if err != nil {
			t.Fatalf("NextRune() #%d: %v", i, err)
		}
		got = append(got, r)
	}
	if string(got) != "xyAB" {
		t.Fatalf("got %q, want %q", string(got), "xyAB")
	}
	if s.SystemID() != "outer.dtd" {
		t.Fatalf("SystemID() = %q, want %q (resumed outer frame)", s.SystemID(), "outer.dtd")
	}
}

func TestLineColumnTracking(t *testing.T) {
	s := NewStack(strings.NewReader("ab\ncd"), "", "")
	for i := 0; i < 3; i++ {
		s.NextRune()
	}
	if s.Line() != 2 || s.Column() != 1 {
		t.Fatalf("after 3 runes: line=%d col=%d, want 2,1", s.Line(), s.Column())
	}
}

func TestFlagsScopedToFrame(t *testing.T) {
	s := NewStack(strings.NewReader("outer"), "", "")
	s.SetIgnoreMarkup(false)
	s.PushString("inner")
	s.SetIgnoreMarkup(true)
	if !s.IgnoreMarkup() {
		t.Fatal("inner frame should have IgnoreMarkup=true")
	}
	for range "inner" {
		s.NextRune()
	}
	s.NextRune() // triggers pop back to outer frame
	if s.IgnoreMarkup() {
		t.Fatal("outer frame's IgnoreMarkup should still be false after pop")
	}
}

func TestEmptyStringFrameDoesNotLoop(t *testing.T) {
	s := NewStack(strings.NewReader("A"), "", "")
	s.PushString("")
	r, err := s.NextRune()
	if err != nil || r != 'A' {
		t.Fatalf("NextRune() = %q, %v; want 'A', nil (empty pushed frame should pop immediately)", r, err)
	}
}
