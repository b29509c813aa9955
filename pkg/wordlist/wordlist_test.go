package wordlist

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello, World!", "hello world"},
		{"don’t", "don't"},
		{"  spaced   out  ", "spaced out"},
		{"Mixed-CASE text", "mixed case text"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestContains(t *testing.T) {
	l := Compile([]string{"the", "In Spite Of", "the"}) // dup dropped
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
	if !l.Contains("The") {
		t.Error("lookup should be case-insensitive")
	}
	if !l.Contains("in spite of") {
		t.Error("multi-word entries should be found")
	}
	if l.Contains("them") {
		t.Error("whole entries only, not prefixes")
	}
}

func TestScanWholeWords(t *testing.T) {
	l := Compile([]string{"cat", "in spite of"})
	matches := l.Scan("The cat sat, in spite of the catalogue.")
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 (catalogue must not match): %v", len(matches), matches)
	}
	if matches[0].Text != "cat" || matches[1].Text != "in spite of" {
		t.Errorf("unexpected matches: %v", matches)
	}
}

func TestFunctionWords(t *testing.T) {
	fw := FunctionWords()
	for _, w := range []string{"the", "of", "would", "according to"} {
		if !fw.Contains(w) {
			t.Errorf("function word list missing %q", w)
		}
	}
	for _, w := range []string{"linguistics", "complexity"} {
		if fw.Contains(w) {
			t.Errorf("content word %q should not be a function word", w)
		}
	}
}
