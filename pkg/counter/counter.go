// Package counter holds the per-file (or per-aggregate) collection of
// structure instances bound to one catalog, and resolves derived structure
// values through memoized, dependency-ordered formula evaluation.
//
// A counter is append-then-freeze: the query driver writes terminal counts
// first, then derived values are computed lazily on first read and cached for
// the counter's lifetime. The only later mutation is aggregation (Add), which
// sums terminal values and invalidates the derived cache so ratios are
// recomputed from the summed terminals.
//
// Counters are not safe for concurrent mutation. Independent counters may be
// built in parallel; they share only the read-only catalog.
package counter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gosca/gosca/pkg/structure"
)

// DefaultPrecision is the number of decimal places used for ratio measures
// when Options.Precision is left zero.
const DefaultPrecision = 4

// CircularDefinitionError reports a formula that references itself,
// directly or transitively. Diamond dependencies are fine; true cycles fail.
type CircularDefinitionError struct {
	Cycle []string
}

func (e *CircularDefinitionError) Error() string {
	return fmt.Sprintf("circular structure definition: %s", strings.Join(e.Cycle, " -> "))
}

// Options configures a counter.
type Options struct {
	// IFile labels the counter with its source file name, or a synthetic
	// label for aggregates. Informational only.
	IFile string

	// Precision is the number of decimal places for ratio measures at report
	// time. Zero means DefaultPrecision.
	Precision int

	// Selected restricts AllValues to an explicit subset of catalog names.
	// Nil means the full catalog. Must be validated against the catalog
	// beforehand (Catalog.CheckSelected).
	Selected []string
}

// Counter owns one structure instance per catalog entry.
type Counter struct {
	catalog   *structure.Catalog
	instances map[string]*structure.Structure

	ifile     string
	precision int
	selected  []string

	// Explicit per-counter resolution cache plus the in-progress set used
	// for cycle detection. Never invalidated except by Add.
	resolved  map[string]float64
	resolving map[string]bool
	stack     []string
}

// New creates a counter with one unpopulated structure per catalog entry.
func New(catalog *structure.Catalog, opts Options) *Counter {
	precision := opts.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}
	c := &Counter{
		catalog:   catalog,
		instances: make(map[string]*structure.Structure, catalog.Len()),
		ifile:     opts.IFile,
		precision: precision,
		selected:  opts.Selected,
		resolved:  make(map[string]float64),
		resolving: make(map[string]bool),
	}
	for _, def := range catalog.Definitions() {
		c.instances[def.Name] = structure.New(def)
	}
	return c
}

// Catalog returns the shared read-only catalog.
func (c *Counter) Catalog() *structure.Catalog { return c.catalog }

// IFile returns the counter's source label.
func (c *Counter) IFile() string { return c.ifile }

// SetIFile relabels the counter. Used for aggregate counters once their
// children are known.
func (c *Counter) SetIFile(label string) { c.ifile = label }

// Precision returns the configured decimal places for ratio measures.
func (c *Counter) Precision() int { return c.precision }

// Structure returns the instance for a catalog name. The query driver uses
// this to populate terminal counts and matches.
func (c *Counter) Structure(name string) (*structure.Structure, bool) {
	s, ok := c.instances[name]
	return s, ok
}

// Matches returns the recorded matched subtrees for a structure name.
func (c *Counter) Matches(name string) []string {
	s, ok := c.instances[name]
	if !ok {
		return nil
	}
	return s.Matches()
}

// Resolve computes the value of a structure by name.
//
// Terminal structures return their stored matched count; a terminal that was
// never queried resolves to 0 (indistinguishable from a query that matched
// nothing). Derived structures evaluate their catalog-cached formula
// expression, recursively resolving referenced names with memoization. A
// self-reference fails with CircularDefinitionError naming the cycle.
func (c *Counter) Resolve(name string) (float64, error) {
	if v, ok := c.resolved[name]; ok {
		return v, nil
	}

	s, ok := c.instances[name]
	if !ok {
		return 0, fmt.Errorf("counter: no structure named %q", name)
	}

	expr, derived := c.catalog.Expr(name)
	if !derived {
		v, _ := s.Value() // unset resolves to 0
		c.resolved[name] = v
		return v, nil
	}

	if c.resolving[name] {
		return 0, &CircularDefinitionError{Cycle: c.cycleFrom(name)}
	}
	c.resolving[name] = true
	c.stack = append(c.stack, name)

	v, err := expr.Eval(c.Resolve)

	c.stack = c.stack[:len(c.stack)-1]
	delete(c.resolving, name)
	if err != nil {
		return 0, err
	}

	c.resolved[name] = v
	s.SetValue(v)
	return v, nil
}

// cycleFrom slices the in-progress stack starting at the first occurrence of
// name and closes the loop.
func (c *Counter) cycleFrom(name string) []string {
	for i, n := range c.stack {
		if n == name {
			cycle := append([]string(nil), c.stack[i:]...)
			return append(cycle, name)
		}
	}
	return []string{name, name}
}

// ResolveAll forces resolution of every catalog name, in catalog order.
func (c *Counter) ResolveAll() error {
	for _, name := range c.catalog.Names() {
		if _, err := c.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

// ReportNames returns the names reported by AllValues: the selected subset if
// configured, otherwise the full catalog, in catalog order.
func (c *Counter) ReportNames() []string {
	if c.selected == nil {
		return c.catalog.Names()
	}
	selected := make(map[string]bool, len(c.selected))
	for _, name := range c.selected {
		selected[name] = true
	}
	var names []string
	for _, name := range c.catalog.Names() {
		if selected[name] {
			names = append(names, name)
		}
	}
	return names
}

// AllValues resolves every reported structure and returns name -> formatted
// value. Counts format as integers; ratio measures round to the counter's
// precision here and only here, never mid-computation.
func (c *Counter) AllValues() (map[string]string, error) {
	if err := c.ResolveAll(); err != nil {
		return nil, err
	}
	values := make(map[string]string, c.catalog.Len())
	for _, name := range c.ReportNames() {
		v, err := c.Resolve(name)
		if err != nil {
			return nil, err
		}
		def, _ := c.catalog.Get(name)
		values[name] = formatValue(v, def.HasFormula(), c.precision)
	}
	return values, nil
}

func formatValue(v float64, isRatio bool, precision int) string {
	if !isRatio {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	scale := math.Pow(10, float64(precision))
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64)
}

// Add accumulates another counter into this one (the parent += child of
// aggregation). Both counters must be built from the same catalog name set.
//
// Terminal values are summed and terminal matches concatenated in child
// order. Derived values are discarded and recomputed from the summed
// terminals on next read: ratios of sums are not sums of ratios.
func (c *Counter) Add(other *Counter) error {
	if err := sameNameSet(c.catalog, other.catalog); err != nil {
		return err
	}

	for _, def := range c.catalog.Definitions() {
		mine := c.instances[def.Name]
		theirs := other.instances[def.Name]

		if def.HasFormula() {
			mine.ClearValue()
		} else {
			ov, oset := theirs.Value()
			mv, mset := mine.Value()
			if mset || oset {
				mine.SetValue(mv + ov)
			}
		}
		if def.HasPattern() {
			mine.AppendMatches(theirs.Matches())
		}
	}

	// Summed terminals invalidate everything previously resolved.
	c.resolved = make(map[string]float64)
	return nil
}

func sameNameSet(a, b *structure.Catalog) error {
	if a == b {
		return nil
	}
	an, bn := a.Names(), b.Names()
	if len(an) != len(bn) {
		return fmt.Errorf("counter: cannot aggregate counters with different catalogs (%d vs %d structures)", len(an), len(bn))
	}
	for i := range an {
		if an[i] != bn[i] {
			return fmt.Errorf("counter: cannot aggregate counters with different catalogs (%q vs %q)", an[i], bn[i])
		}
	}
	return nil
}
