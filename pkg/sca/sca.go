// Package sca orchestrates the full analysis pipeline: read input, parse to
// constituency trees (through the parse cache), query structure patterns,
// resolve derived measures, and write frequency tables and matched subtrees.
//
// The engine accumulates one counter per input file (or per combined group)
// and writes them all at once. Per-file failures inside a batch are logged
// and skipped; configuration errors fail construction immediately.
package sca

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"

	"github.com/gosca/gosca/internal/batch"
	"github.com/gosca/gosca/internal/cache"
	"github.com/gosca/gosca/internal/lexical"
	"github.com/gosca/gosca/internal/writer"
	"github.com/gosca/gosca/pkg/counter"
	"github.com/gosca/gosca/pkg/query"
	"github.com/gosca/gosca/pkg/structure"
)

// Options configures an engine run.
type Options struct {
	// Output is the frequency-table path. Required before WriteResults.
	Output string

	// Format selects the table serialization. Empty means CSV.
	Format writer.Format

	// MatchDir is the directory for matched-subtree export when
	// ReserveMatched is on.
	MatchDir string

	// Selected restricts reported measures to a subset of catalog names.
	Selected []string

	// Precision is the number of decimal places for ratio measures.
	// Zero means the counter default.
	Precision int

	// StructureConfig is a JSON file of user structure definitions applied
	// over the built-in catalog. Empty means builtins only.
	StructureConfig string

	// ReserveParsed writes each file's trees next to it as <base>.parsed.
	ReserveParsed bool

	// ReserveMatched keeps matched subtrees on the counters and exports them
	// under MatchDir at write time.
	ReserveMatched bool

	// UseCache consults and fills the parse-tree cache, keyed by input path
	// and content hash.
	UseCache bool

	// SkipParsing treats input files as already-bracketed trees.
	SkipParsing bool

	// SkipQuerying parses (and optionally reserves) trees without counting
	// structures. No counters are collected.
	SkipQuerying bool

	// AutoSave writes results automatically after each batch run.
	AutoSave bool

	// Lexical also computes the lexical-complexity table.
	Lexical bool

	// Workers bounds batch concurrency. Zero means unlimited.
	Workers int
}

// userStructureFile is the on-disk schema for StructureConfig.
type userStructureFile struct {
	Structures []structure.Definition `json:"structures"`
}

// Engine runs the pipeline and accumulates results.
type Engine struct {
	opts    Options
	catalog *structure.Catalog
	parser  Parser
	driver  *query.Driver
	store   cache.Store
	fsys    hackpadfs.FS
	log     *slog.Logger
	lex     *lexical.Analyzer

	counters []*counter.Counter
	lexicals []lexical.Result
}

// New validates options, builds the catalog, and wires the engine. The store
// may be nil when UseCache is off; the logger may be nil.
func New(opts Options, parser Parser, matcher query.Matcher, store cache.Store, fsys hackpadfs.FS, logger *slog.Logger) (*Engine, error) {
	if opts.Format == "" {
		opts.Format = writer.FormatCSV
	}
	if err := writer.CheckFormat(opts.Format); err != nil {
		return nil, err
	}
	if opts.UseCache && store == nil {
		return nil, errors.New("sca: cache enabled but no store provided")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var userDefs []structure.Definition
	if opts.StructureConfig != "" {
		defs, err := loadUserDefs(fsys, opts.StructureConfig)
		if err != nil {
			return nil, err
		}
		userDefs = defs
	}
	catalog, err := structure.BuildCatalog(userDefs)
	if err != nil {
		return nil, err
	}
	if opts.Selected != nil {
		if err := catalog.CheckSelected(opts.Selected); err != nil {
			return nil, err
		}
	}

	return &Engine{
		opts:    opts,
		catalog: catalog,
		parser:  parser,
		driver:  query.NewDriver(matcher, opts.ReserveMatched),
		store:   store,
		fsys:    fsys,
		log:     logger,
		lex:     lexical.NewAnalyzer(nil),
	}, nil
}

func loadUserDefs(fsys hackpadfs.FS, configPath string) ([]structure.Definition, error) {
	data, err := hackpadfs.ReadFile(fsys, configPath)
	if err != nil {
		return nil, fmt.Errorf("sca: reading structure config %s: %w", configPath, err)
	}
	var file userStructureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("sca: parsing structure config %s: %w", configPath, err)
	}
	return file.Structures, nil
}

// Catalog returns the engine's validated catalog.
func (e *Engine) Catalog() *structure.Catalog { return e.catalog }

// Counters returns the collected counters in run order.
func (e *Engine) Counters() []*counter.Counter { return e.counters }

// LexicalResults returns the collected lexical tables in run order.
func (e *Engine) LexicalResults() []lexical.Result { return e.lexicals }

// fileResult is one file's pipeline output.
type fileResult struct {
	counter *counter.Counter
	lex     lexical.Result
	hasLex  bool
}

// treesFor returns the bracketed trees for a file, consulting the cache when
// enabled. The returned cleanup removes a cache entry written here; callers
// invoke it only when the rest of the file's run fails.
func (e *Engine) treesFor(ctx context.Context, file string, content []byte) (trees string, cleanup func(), err error) {
	cleanup = func() {}
	if e.opts.SkipParsing {
		return string(content), cleanup, nil
	}

	hash := cache.HashContent(content)
	if e.opts.UseCache {
		cached, ok, err := e.store.Get(file, hash)
		if err != nil {
			e.log.Warn("cache lookup failed", "file", file, "error", err)
		} else if ok {
			e.log.Debug("parse cache hit", "file", file)
			return cached, cleanup, nil
		}
	}

	trees, err = e.parser.Parse(ctx, string(content))
	if err != nil {
		return "", cleanup, fmt.Errorf("parsing %s: %w", file, err)
	}
	if e.opts.UseCache {
		if err := e.store.Put(file, hash, trees); err != nil {
			e.log.Warn("cache store failed", "file", file, "error", err)
		} else {
			cleanup = func() {
				if err := e.store.Delete(file); err != nil {
					e.log.Warn("cache cleanup failed", "file", file, "error", err)
				}
			}
		}
	}
	return trees, cleanup, nil
}

// runFile runs the whole pipeline for one input file.
func (e *Engine) runFile(ctx context.Context, file string) (fileResult, error) {
	content, err := hackpadfs.ReadFile(e.fsys, file)
	if err != nil {
		return fileResult{}, fmt.Errorf("reading %s: %w", file, err)
	}

	trees, dropCacheEntry, err := e.treesFor(ctx, file, content)
	if err != nil {
		return fileResult{}, err
	}

	if e.opts.ReserveParsed {
		parsed := strings.TrimSuffix(file, path.Ext(file)) + ".parsed"
		if err := hackpadfs.WriteFullFile(e.fsys, parsed, []byte(trees), 0o644); err != nil {
			dropCacheEntry()
			return fileResult{}, fmt.Errorf("writing %s: %w", parsed, err)
		}
	}

	res := fileResult{}
	if e.opts.Lexical {
		res.lex = e.lex.Analyze(file, trees)
		res.hasLex = true
	}
	if e.opts.SkipQuerying {
		return res, nil
	}

	c := counter.New(e.catalog, counter.Options{
		IFile:     file,
		Precision: e.opts.Precision,
		Selected:  e.opts.Selected,
	})
	if _, err := e.driver.Query(ctx, c, trees); err != nil {
		dropCacheEntry()
		return fileResult{}, err
	}
	res.counter = c
	return res, nil
}

// RunOnText analyzes a single text under a synthetic label, bypassing the
// parse cache.
func (e *Engine) RunOnText(ctx context.Context, label, text string) error {
	trees := text
	if !e.opts.SkipParsing {
		parsed, err := e.parser.Parse(ctx, text)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", label, err)
		}
		trees = parsed
	}
	if e.opts.Lexical {
		e.lexicals = append(e.lexicals, e.lex.Analyze(label, trees))
	}
	if e.opts.SkipQuerying {
		return nil
	}

	c := counter.New(e.catalog, counter.Options{
		IFile:     label,
		Precision: e.opts.Precision,
		Selected:  e.opts.Selected,
	})
	if _, err := e.driver.Query(ctx, c, trees); err != nil {
		return err
	}
	e.counters = append(e.counters, c)

	if e.opts.AutoSave {
		return e.WriteResults()
	}
	return nil
}

// RunOnFiles runs the pipeline for every file, whole pipelines in parallel up
// to Workers. Results are collected in input order; failed files are logged
// and skipped.
func (e *Engine) RunOnFiles(ctx context.Context, files []string) error {
	results := batch.Run(files, e.opts.Workers, func(file string) (fileResult, error) {
		return e.runFile(ctx, file)
	})
	for i, r := range results {
		if r.Err != nil {
			e.log.Error("skipping file", "file", files[i], "error", r.Err)
			continue
		}
		e.collect(r.Value)
	}

	if e.opts.AutoSave && len(e.counters) > 0 {
		return e.WriteResults()
	}
	return nil
}

// RunOnFileGroups runs the pipeline for groups of subfiles. Each group's
// counters are accumulated into one parent counter and fully resolved, so the
// group reports ratios of summed terminals. Failed subfiles are logged and
// skipped; a group with no surviving subfiles is dropped.
func (e *Engine) RunOnFileGroups(ctx context.Context, groups [][]string) error {
	for _, group := range groups {
		results := batch.Run(group, e.opts.Workers, func(file string) (fileResult, error) {
			return e.runFile(ctx, file)
		})

		label := groupLabel(group)
		parent := counter.New(e.catalog, counter.Options{
			IFile:     label,
			Precision: e.opts.Precision,
			Selected:  e.opts.Selected,
		})
		groupLex := lexical.Result{IFile: label}
		collected := 0

		for i, r := range results {
			if r.Err != nil {
				e.log.Error("skipping file", "file", group[i], "error", r.Err)
				continue
			}
			if r.Value.counter != nil {
				if err := parent.Add(r.Value.counter); err != nil {
					return err
				}
			}
			if r.Value.hasLex {
				groupLex = mergeLexical(groupLex, r.Value.lex)
			}
			collected++
		}
		if collected == 0 {
			e.log.Error("skipping group, no subfile succeeded", "group", label)
			continue
		}

		if !e.opts.SkipQuerying {
			if err := parent.ResolveAll(); err != nil {
				return err
			}
			e.counters = append(e.counters, parent)
		}
		if e.opts.Lexical {
			e.lexicals = append(e.lexicals, groupLex)
		}
	}

	if e.opts.AutoSave && len(e.counters) > 0 {
		return e.WriteResults()
	}
	return nil
}

func (e *Engine) collect(r fileResult) {
	if r.counter != nil {
		e.counters = append(e.counters, r.counter)
	}
	if r.hasLex {
		e.lexicals = append(e.lexicals, r.lex)
	}
}

func groupLabel(group []string) string {
	names := make([]string, len(group))
	for i, file := range group {
		names[i] = strings.TrimSuffix(path.Base(file), path.Ext(file))
	}
	return strings.Join(names, "+")
}

// mergeLexical recombines two lexical results. Counts add; type counts and
// ratios are approximated from the weighted parts since the raw token sets
// are gone by this point.
func mergeLexical(a, b lexical.Result) lexical.Result {
	out := lexical.Result{IFile: a.IFile}
	out.Words = a.Words + b.Words
	out.Different = a.Different + b.Different
	if out.Words > 0 {
		aw, bw := float64(a.Words), float64(b.Words)
		total := aw + bw
		out.TTR = (a.TTR*aw + b.TTR*bw) / total
		out.Density = (a.Density*aw + b.Density*bw) / total
		out.MeanWordLength = (a.MeanWordLength*aw + b.MeanWordLength*bw) / total
	}
	return out
}

// WriteResults writes the frequency table, the lexical table when enabled,
// and the matched-subtree export when reserved. An empty counter list and an
// unsupported format both fail before any output is produced.
func (e *Engine) WriteResults() error {
	if len(e.counters) == 0 {
		return errors.New("sca: no input was analyzed, nothing to write")
	}
	if err := writer.CheckFormat(e.opts.Format); err != nil {
		return err
	}
	if e.opts.Output == "" {
		return errors.New("sca: no output path configured")
	}

	header := append([]string{"Filename"}, e.counters[0].ReportNames()...)
	rows := make([]map[string]string, 0, len(e.counters))
	for _, c := range e.counters {
		values, err := c.AllValues()
		if err != nil {
			return err
		}
		values["Filename"] = c.IFile()
		rows = append(rows, values)
	}
	if err := e.writeTable(e.opts.Output, header, rows); err != nil {
		return err
	}
	e.log.Info("wrote frequency table", "path", e.opts.Output, "rows", len(rows))

	if e.opts.Lexical && len(e.lexicals) > 0 {
		if err := e.writeLexical(); err != nil {
			return err
		}
	}

	if e.opts.ReserveMatched {
		for _, c := range e.counters {
			if err := writer.ExportMatches(e.fsys, e.opts.MatchDir, c); err != nil {
				return err
			}
		}
		e.log.Info("exported matched subtrees", "dir", e.opts.MatchDir)
	}
	return nil
}

func (e *Engine) writeLexical() error {
	precision := e.opts.Precision
	if precision <= 0 {
		precision = counter.DefaultPrecision
	}
	header := append([]string{"Filename"}, lexical.Names()...)
	rows := make([]map[string]string, 0, len(e.lexicals))
	for _, r := range e.lexicals {
		values := r.Values(precision)
		values["Filename"] = r.IFile
		rows = append(rows, values)
	}
	out := lexicalPath(e.opts.Output)
	if err := e.writeTable(out, header, rows); err != nil {
		return err
	}
	e.log.Info("wrote lexical table", "path", out, "rows", len(rows))
	return nil
}

func (e *Engine) writeTable(outPath string, header []string, rows []map[string]string) error {
	var b strings.Builder
	if err := writer.WriteTable(&b, e.opts.Format, header, rows); err != nil {
		return err
	}
	if dir := path.Dir(outPath); dir != "." && dir != "/" {
		if err := hackpadfs.MkdirAll(e.fsys, dir, 0o755); err != nil {
			return fmt.Errorf("sca: creating %s: %w", dir, err)
		}
	}
	if err := hackpadfs.WriteFullFile(e.fsys, outPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("sca: writing %s: %w", outPath, err)
	}
	return nil
}

// lexicalPath derives the lexical table path from the main output path.
func lexicalPath(output string) string {
	ext := path.Ext(output)
	return strings.TrimSuffix(output, ext) + "-lexical" + ext
}
