package path

import (
	"errors"
	"testing"
)

func TestParseCanonical(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"/":         "",
		"a":         "a",
		"/a":        "a",
		"a/":        "a",
		"a/b/c":     "a/b/c",
		"a/./b":     "a/b",
		"a/b/../c":  "a/c",
		"./a":       "a",
	}
	for in, want := range cases {
		p, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", in, err)
		}
		if p.String() != want {
			t.Fatalf("Parse(%q) = %q, want %q", in, p.String(), want)
		}
	}
}

func TestParseRejectsEscape(t *testing.T) {
	_, err := Parse("..")
	if err == nil {
		t.Fatal("expected error for escape above root")
	}
	var ipe *InvalidPathError
	if !errors.As(err, &ipe) || ipe.Kind != ErrEscapeAboveRoot {
		t.Fatalf("expected ErrEscapeAboveRoot, got %v", err)
	}
}

func TestParseRejectsEmptySegment(t *testing.T) {
	_, err := Parse("a//b")
	var ipe *InvalidPathError
	if !errors.As(err, &ipe) || ipe.Kind != ErrEmptySegment {
		t.Fatalf("expected ErrEmptySegment, got %v", err)
	}
}

func TestParseRejectsNul(t *testing.T) {
	_, err := Parse("a/b\x00c")
	var ipe *InvalidPathError
	if !errors.As(err, &ipe) || ipe.Kind != ErrNulByte {
		t.Fatalf("expected ErrNulByte, got %v", err)
	}
}

func TestRootProperties(t *testing.T) {
	if !Root.IsRoot() {
		t.Fatal("Root.IsRoot() should be true")
	}
	if _, ok := Root.Parent(); ok {
		t.Fatal("Root.Parent() should report ok=false")
	}
	if _, ok := Root.LastSegment(); ok {
		t.Fatal("Root.LastSegment() should report ok=false")
	}
	if !Root.Equal(Root) {
		t.Fatal("Root should equal itself")
	}
}

// property 1 from spec.md §8: for all valid canonical paths p, parse(render(p)) == p.
func TestRoundTripProperty(t *testing.T) {
	inputs := []string{"", "a", "a/b/c", "data/users/1", "_mounts/memory"}
	for _, in := range inputs {
		p, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		p2, err := Parse(p.String())
		if err != nil {
			t.Fatalf("Parse(render(%q)): %v", in, err)
		}
		if !p.Equal(p2) {
			t.Fatalf("round trip mismatch for %q: %v != %v", in, p, p2)
		}
	}
}

// property 2 from spec.md §8: strip_prefix(join(a,b), a) == Some(b).
func TestJoinStripDuality(t *testing.T) {
	a := MustParse("a/b")
	b := MustParse("c/d")
	joined, err := a.Join(b)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	got, ok := joined.StripPrefix(a)
	if !ok {
		t.Fatal("StripPrefix should hold after Join")
	}
	if !got.Equal(b) {
		t.Fatalf("got %v, want %v", got, b)
	}
}

func TestJoinWithParentSegments(t *testing.T) {
	a := MustParse("a/b/c")
	joined, err := a.JoinString("../x")
	if err != nil {
		t.Fatalf("JoinString: %v", err)
	}
	if joined.String() != "a/b/x" {
		t.Fatalf("got %q", joined.String())
	}
}

func TestJoinUnderflow(t *testing.T) {
	a := MustParse("a")
	if _, err := a.JoinString("../../x"); err == nil {
		t.Fatal("expected underflow error")
	}
}

func TestHasPrefixAndStripPrefix(t *testing.T) {
	p := MustParse("a/b/x")
	prefix := MustParse("a/b")
	if !p.HasPrefix(prefix) {
		t.Fatal("expected HasPrefix to hold")
	}
	suffix, ok := p.StripPrefix(prefix)
	if !ok || suffix.String() != "x" {
		t.Fatalf("got suffix=%v ok=%v", suffix, ok)
	}
	other := MustParse("a/c")
	if other.HasPrefix(prefix) {
		t.Fatal("expected HasPrefix to fail")
	}
	if _, ok := other.StripPrefix(prefix); ok {
		t.Fatal("expected StripPrefix to fail")
	}
}

func TestValidateIdentifierRejectsHyphen(t *testing.T) {
	p := MustParse("my-mount")
	if err := ValidateIdentifier(p); err == nil {
		t.Fatal("expected hyphenated segment to fail strict identifier validation")
	}
}

func TestValidateIdentifierAcceptsPlainWord(t *testing.T) {
	p := MustParse("mymount_1")
	if err := ValidateIdentifier(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseAcceptsRelaxedAlphabet(t *testing.T) {
	// spec.md §9: filesystem interoperability requires hyphens and dots in
	// segments under the default (non-identifier) parsing rule.
	p, err := Parse("my-mount/v1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.String() != "my-mount/v1.2.3" {
		t.Fatalf("got %q", p.String())
	}
}
