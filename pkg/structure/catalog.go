package structure

import (
	"fmt"
	"strings"

	"github.com/gosca/gosca/pkg/formula"
)

// UndefinedNameError reports a formula referencing a structure name that does
// not exist in the catalog. Raised at catalog build time, never at evaluation
// time.
type UndefinedNameError struct {
	Structure string // the definition whose formula is broken
	Name      string // the unknown referenced name
}

func (e *UndefinedNameError) Error() string {
	return fmt.Sprintf("structure %q: formula references undefined name %q", e.Structure, e.Name)
}

// UndefinedMeasureError reports selected output measures that are not in the
// catalog.
type UndefinedMeasureError struct {
	Names []string
}

func (e *UndefinedMeasureError) Error() string {
	return fmt.Sprintf("undefined measure(s): %s", strings.Join(e.Names, ", "))
}

// Catalog is the validated, insertion-ordered set of structure definitions
// shared read-only by every counter in a run. Formulas are parsed exactly
// once here; counters evaluate the cached expression trees.
type Catalog struct {
	defs  []Definition
	index map[string]int
	exprs map[string]formula.Expr
}

// BuildCatalog constructs a catalog from the built-in definition list plus
// user definitions applied in order. A user definition either overrides an
// existing name (non-empty fields replace, description wins when provided) or
// appends a new name. Referential integrity of every formula is checked after
// all overrides and additions, so forward and mutual references are allowed
// as long as every referenced name exists.
func BuildCatalog(userDefs []Definition) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int)}

	for _, def := range builtinDefinitions {
		c.append(def)
	}

	for _, def := range userDefs {
		if def.Name == "" {
			return nil, fmt.Errorf("user structure definition without a name")
		}
		if i, ok := c.index[def.Name]; ok {
			merged := c.defs[i]
			if def.Description != "" {
				merged.Description = def.Description
			}
			if def.TregexPattern != "" {
				merged.TregexPattern = def.TregexPattern
			}
			if def.Formula != "" {
				merged.Formula = def.Formula
			}
			c.defs[i] = merged
		} else {
			c.append(def)
		}
	}

	if err := c.compileFormulas(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) append(def Definition) {
	c.index[def.Name] = len(c.defs)
	c.defs = append(c.defs, def)
}

// compileFormulas parses every formula once and validates that all referenced
// names exist in the final name set.
func (c *Catalog) compileFormulas() error {
	c.exprs = make(map[string]formula.Expr)
	for _, def := range c.defs {
		if !def.HasFormula() {
			continue
		}
		expr, err := formula.Parse(def.Formula)
		if err != nil {
			return fmt.Errorf("structure %q: %w", def.Name, err)
		}
		for _, name := range formula.Names(expr) {
			if _, ok := c.index[name]; !ok {
				return &UndefinedNameError{Structure: def.Name, Name: name}
			}
		}
		c.exprs[def.Name] = expr
	}
	return nil
}

// Names returns all structure names in insertion order: built-in order
// followed by user-added order. This ordering defines output columns.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.defs))
	for i, def := range c.defs {
		names[i] = def.Name
	}
	return names
}

// Definitions returns the catalog entries in insertion order.
func (c *Catalog) Definitions() []Definition {
	return c.defs
}

// Get returns the definition for a name.
func (c *Catalog) Get(name string) (Definition, bool) {
	i, ok := c.index[name]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Expr returns the cached parsed formula for a derived structure.
func (c *Catalog) Expr(name string) (formula.Expr, bool) {
	e, ok := c.exprs[name]
	return e, ok
}

// Has reports whether a name exists in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// CheckSelected validates an explicit output-measure subset against the
// catalog, returning an UndefinedMeasureError listing every unknown name.
func (c *Catalog) CheckSelected(selected []string) error {
	var unknown []string
	for _, name := range selected {
		if !c.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &UndefinedMeasureError{Names: unknown}
	}
	return nil
}
