package writer

import (
	"fmt"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"

	"github.com/gosca/gosca/internal/latex"
	"github.com/gosca/gosca/pkg/counter"
)

// ExportMatches persists a counter's matched subtrees under
// odir/<base>/, where base is the input file name with its extension
// stripped. For every patterned structure with matches it writes
// <base>-<structure>.matches (raw subtrees, one per line) and
// <base>-<structure>.tex (LaTeX rendering of those subtrees).
func ExportMatches(fsys hackpadfs.FS, odir string, c *counter.Counter) error {
	base := strings.TrimSuffix(path.Base(c.IFile()), path.Ext(c.IFile()))
	if base == "" || base == "." {
		base = "matches"
	}
	subdir := path.Join(odir, base)
	if err := hackpadfs.MkdirAll(fsys, subdir, 0o755); err != nil {
		return fmt.Errorf("writer: creating %s: %w", subdir, err)
	}

	for _, def := range c.Catalog().Definitions() {
		if !def.HasPattern() {
			continue
		}
		matches := c.Matches(def.Name)
		if len(matches) == 0 {
			continue
		}

		// Structure names may contain '/', which cannot appear in a file name.
		name := strings.ReplaceAll(def.Name, "/", "_")
		raw := strings.Join(matches, "\n") + "\n"

		matchFile := path.Join(subdir, base+"-"+name+".matches")
		if err := hackpadfs.WriteFullFile(fsys, matchFile, []byte(raw), 0o644); err != nil {
			return fmt.Errorf("writer: writing %s: %w", matchFile, err)
		}

		texFile := path.Join(subdir, base+"-"+name+".tex")
		tex := latex.ToLatex(raw)
		if err := hackpadfs.WriteFullFile(fsys, texFile, []byte(tex), 0o644); err != nil {
			return fmt.Errorf("writer: writing %s: %w", texFile, err)
		}
	}
	return nil
}
