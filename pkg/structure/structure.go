// Package structure defines countable syntactic structures and the validated
// catalog of structure definitions shared by all counters in a run.
//
// A structure is either terminal (counted by matching a Tregex pattern against
// parse trees) or derived (computed by a formula over sibling structures).
// The catalog starts from the built-in SCA inventory and applies user-supplied
// definitions as overrides or additions.
package structure

// Definition is an immutable catalog entry. It carries either a Tregex pattern
// (terminal), a formula over other structure names (derived), or neither
// (manual placeholder). A definition with both is evaluated by its formula;
// the pattern is still queried so matched subtrees stay available for export.
type Definition struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	TregexPattern string `json:"tregex_pattern"`
	Formula       string `json:"formula"`
}

// HasPattern reports whether the definition can be queried against trees.
func (d Definition) HasPattern() bool { return d.TregexPattern != "" }

// HasFormula reports whether the definition is computed from other structures.
func (d Definition) HasFormula() bool { return d.Formula != "" }

// Structure is one countable quantity inside a counter: a definition bound to
// its per-file state. The zero value state means "not yet computed".
//
// Structures do not mutate themselves. Terminal value and matches are written
// by the query driver; derived values are written by the counter's evaluator.
type Structure struct {
	def     Definition
	value   *float64
	matches []string
}

// New creates an unpopulated structure for a definition.
func New(def Definition) *Structure {
	return &Structure{def: def}
}

// Def returns the underlying definition.
func (s *Structure) Def() Definition { return s.def }

// Name returns the structure's catalog key.
func (s *Structure) Name() string { return s.def.Name }

// Value returns the computed value, if any. A terminal structure that was
// never queried and a derived structure that was never resolved both report
// ok == false.
func (s *Structure) Value() (float64, bool) {
	if s.value == nil {
		return 0, false
	}
	return *s.value, true
}

// SetValue records a computed value. Used by the query driver for terminal
// counts and by the counter for resolved derived values.
func (s *Structure) SetValue(v float64) {
	s.value = &v
}

// ClearValue discards the computed value. The counter uses this on derived
// structures after aggregation, since ratios of sums must be recomputed.
func (s *Structure) ClearValue() {
	s.value = nil
}

// Matches returns the matched subtree texts recorded for a terminal
// structure, in match order. Empty for derived structures and for terminals
// queried with match reservation off.
func (s *Structure) Matches() []string { return s.matches }

// SetMatches replaces the recorded matched subtrees.
func (s *Structure) SetMatches(matches []string) {
	s.matches = matches
}

// AppendMatches appends matched subtrees, preserving order. Used when a
// parent counter concatenates its children's matches.
func (s *Structure) AppendMatches(matches []string) {
	s.matches = append(s.matches, matches...)
}
