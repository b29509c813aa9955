package query

import (
	"context"
	"fmt"

	"github.com/gosca/gosca/pkg/counter"
)

// Driver queries every patterned structure of a counter against tree text.
type Driver struct {
	matcher Matcher

	// ReserveMatches keeps matched subtree texts on the structures for later
	// export. When off, matches are discarded after counting to bound memory.
	ReserveMatches bool
}

// NewDriver creates a driver delegating to the given matcher.
func NewDriver(matcher Matcher, reserveMatches bool) *Driver {
	return &Driver{matcher: matcher, ReserveMatches: reserveMatches}
}

// Query runs every catalog entry with a Tregex pattern against the trees, in
// catalog order (terminals have no data dependencies, but a deterministic
// order keeps match-export output reproducible). The matched count becomes
// the structure's value. Derived structures are left for lazy resolution.
//
// The counter is mutated and returned. Matcher failures propagate unchanged.
func (d *Driver) Query(ctx context.Context, c *counter.Counter, trees string) (*counter.Counter, error) {
	for _, def := range c.Catalog().Definitions() {
		if !def.HasPattern() {
			continue
		}
		count, matches, err := d.matcher.Match(ctx, def.TregexPattern, trees)
		if err != nil {
			return nil, fmt.Errorf("querying %q: %w", def.Name, err)
		}

		s, ok := c.Structure(def.Name)
		if !ok {
			return nil, fmt.Errorf("querying %q: structure missing from counter", def.Name)
		}
		// A definition with both pattern and formula keeps its matches for
		// export, but its value comes from the formula.
		if !def.HasFormula() {
			s.SetValue(float64(count))
		}
		if d.ReserveMatches {
			s.SetMatches(matches)
		}
	}
	return c, nil
}
