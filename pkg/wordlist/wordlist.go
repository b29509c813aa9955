// Package wordlist provides word- and phrase-list matching over running text
// using a single Aho-Corasick automaton. One compiled list serves both exact
// token lookup and linear-time text scanning, including multi-word entries
// such as "in spite of".
package wordlist

import (
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Normalize cleans and lowercases text for matching: curly apostrophes
// become straight, anything that is not a letter, digit, or apostrophe
// becomes a space, and runs of spaces collapse.
func Normalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	for _, ch := range s {
		c := unicode.ToLower(ch)

		if c == '’' {
			out.WriteRune('\'')
			continue
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' {
			out.WriteRune(c)
		} else {
			out.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(out.String()), " ")
}

// Match is one detected list entry in scanned text.
type Match struct {
	Start int    // byte offset into the normalized text
	End   int
	Text  string // normalized matched text
}

// List is a compiled word/phrase list.
type List struct {
	ac      ahocorasick.AhoCorasick
	entries map[string]bool
}

// Compile builds a list from words and phrases. Entries are normalized;
// duplicates and empties are dropped.
func Compile(words []string) *List {
	l := &List{entries: make(map[string]bool, len(words))}

	var patterns []string
	for _, w := range words {
		key := Normalize(w)
		if key == "" || l.entries[key] {
			continue
		}
		l.entries[key] = true
		patterns = append(patterns, key)
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	l.ac = builder.Build(patterns)
	return l
}

// Len returns the number of distinct entries.
func (l *List) Len() int { return len(l.entries) }

// Contains reports whether a single token (or phrase) is in the list.
func (l *List) Contains(token string) bool {
	return l.entries[Normalize(token)]
}

// Scan finds all whole-word list occurrences in text, leftmost-longest.
func (l *List) Scan(text string) []Match {
	normalized := Normalize(text)
	found := l.ac.FindAll(normalized)

	matches := make([]Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, Match{
			Start: m.Start(),
			End:   m.End(),
			Text:  normalized[m.Start():m.End()],
		})
	}
	return matches
}

// Count returns the number of whole-word list occurrences in text.
func (l *List) Count(text string) int {
	return len(l.Scan(text))
}
