// Command gosca measures syntactic and lexical complexity of English text.
// Input files are parsed to constituency trees with the Stanford parser,
// structure patterns are counted with Stanford Tregex, and the resulting
// frequency table is written as CSV or JSON.
//
// Defaults can be placed in gosca.toml in the working directory; flags
// override the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	hackos "github.com/hack-pad/hackpadfs/os"

	"github.com/gosca/gosca/internal/cache"
	"github.com/gosca/gosca/internal/config"
	"github.com/gosca/gosca/internal/writer"
	"github.com/gosca/gosca/pkg/query"
	"github.com/gosca/gosca/pkg/sca"
)

const version = "0.1.0"

const configFile = "gosca.toml"

// appConfig holds gosca.toml defaults. Flags override every field.
type appConfig struct {
	Output     string `toml:"output"`
	Format     string `toml:"format"`
	Precision  int    `toml:"precision"`
	Workers    int    `toml:"workers"`
	TregexHome string `toml:"tregex_home"`
	ParserHome string `toml:"parser_home"`
	CachePath  string `toml:"cache_path"`
}

func (c *appConfig) Validate() error {
	if c.Precision < 0 {
		return errors.New("precision must not be negative")
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}

func defaultConfig() *appConfig {
	return &appConfig{
		Output:    "result.csv",
		Format:    string(writer.FormatCSV),
		CachePath: "gosca_cache.db",
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "gosca:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(configFile, defaultConfig())
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("gosca", flag.ContinueOnError)

	var output, format, structures, text, tregexHome, parserHome string
	var selectRaw, combine stringList
	var precision, workers int
	var reserveParsed, reserveMatched, skipParsing, skipQuerying bool
	var useCache, autoSave, doLexical, verbose, showVersion bool

	fs.StringVar(&output, "o", cfg.Output, "output file for the frequency table")
	fs.StringVar(&output, "output", cfg.Output, "output file for the frequency table")
	fs.StringVar(&format, "format", cfg.Format, `output format, "csv" or "json"`)
	fs.Var(&selectRaw, "select", "measure to report, repeatable (default: all)")
	fs.IntVar(&precision, "precision", cfg.Precision, "decimal places for ratio measures")
	fs.StringVar(&structures, "config", "", "JSON file with user structure definitions")
	fs.Var(&combine, "combine", "glob of subfiles analyzed as one unit, repeatable")
	fs.StringVar(&text, "text", "", "analyze this text instead of input files")
	fs.BoolVar(&reserveParsed, "p", false, "save parse trees next to each input file")
	fs.BoolVar(&reserveMatched, "m", false, "save matched subtrees for each measure")
	fs.BoolVar(&skipParsing, "skip-parsing", false, "treat input files as parse trees")
	fs.BoolVar(&skipQuerying, "skip-querying", false, "parse only, count nothing")
	fs.IntVar(&workers, "workers", cfg.Workers, "max files processed in parallel (0 = unlimited)")
	fs.StringVar(&tregexHome, "tregex", cfg.TregexHome, "directory containing stanford-tregex.jar")
	fs.StringVar(&parserHome, "parser", cfg.ParserHome, "directory containing the Stanford parser jars")
	fs.BoolVar(&useCache, "cache", false, "cache parse trees in "+cfg.CachePath)
	fs.BoolVar(&autoSave, "auto-save", false, "write the table after every batch, not only at the end")
	fs.BoolVar(&doLexical, "lexical", false, "also compute the lexical-complexity table")
	fs.BoolVar(&verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if showVersion {
		fmt.Println("gosca", version)
		return nil
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	osfs := hackos.NewFS()
	toFS := func(p string) (string, error) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		return osfs.FromOSPath(abs)
	}

	opts := sca.Options{
		Format:         writer.Format(format),
		Selected:       selectRaw,
		Precision:      precision,
		ReserveParsed:  reserveParsed,
		ReserveMatched: reserveMatched,
		UseCache:       useCache,
		SkipParsing:    skipParsing,
		SkipQuerying:   skipQuerying,
		AutoSave:       autoSave,
		Lexical:        doLexical,
		Workers:        workers,
	}
	if opts.Output, err = toFS(output); err != nil {
		return err
	}
	if reserveMatched {
		matchDir := strings.TrimSuffix(output, filepath.Ext(output)) + "_matches"
		if opts.MatchDir, err = toFS(matchDir); err != nil {
			return err
		}
	}
	if structures != "" {
		if opts.StructureConfig, err = toFS(structures); err != nil {
			return err
		}
	}

	var store cache.Store
	if useCache {
		store, err = cache.NewSQLiteStore(cfg.CachePath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	matcher := &query.TregexMatcher{Home: tregexHome}
	parser := &sca.CommandParser{Home: parserHome}

	eng, err := sca.New(opts, parser, matcher, store, osfs, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if text != "" {
		if err := eng.RunOnText(ctx, "cmdline_text", text); err != nil {
			return err
		}
		return eng.WriteResults()
	}

	groups, err := expandGroups(combine, toFS)
	if err != nil {
		return err
	}
	files, err := expandInputs(fs.Args(), toFS)
	if err != nil {
		return err
	}
	if len(groups) == 0 && len(files) == 0 {
		fs.Usage()
		return errors.New("no input files")
	}

	if len(groups) > 0 {
		if err := eng.RunOnFileGroups(ctx, groups); err != nil {
			return err
		}
	}
	if len(files) > 0 {
		if err := eng.RunOnFiles(ctx, files); err != nil {
			return err
		}
	}

	if skipQuerying {
		logger.Info("querying skipped, no table written")
		return nil
	}
	return eng.WriteResults()
}

// expandInputs glob-expands the positional arguments. A pattern matching
// nothing is kept literally so the engine reports the missing file.
func expandInputs(args []string, toFS func(string) (string, error)) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if matches == nil {
			matches = []string{arg}
		}
		for _, m := range matches {
			p, err := toFS(m)
			if err != nil {
				return nil, err
			}
			files = append(files, p)
		}
	}
	return files, nil
}

// expandGroups turns each -combine glob into one subfile group.
func expandGroups(patterns []string, toFS func(string) (string, error)) ([][]string, error) {
	var groups [][]string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matches no files", pattern)
		}
		group := make([]string, 0, len(matches))
		for _, m := range matches {
			p, err := toFS(m)
			if err != nil {
				return nil, err
			}
			group = append(group, p)
		}
		groups = append(groups, group)
	}
	return groups, nil
}
