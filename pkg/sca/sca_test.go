package sca

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosca/gosca/internal/cache"
	"github.com/gosca/gosca/internal/writer"
	"github.com/gosca/gosca/pkg/structure"
)

// stubMatcher counts substring occurrences of the pattern, so tests can
// drive exact counts with crafted tree text.
type stubMatcher struct {
	fail map[string]error
}

func (m *stubMatcher) Match(_ context.Context, pattern, trees string) (int, []string, error) {
	if err := m.fail[pattern]; err != nil {
		return 0, nil, err
	}
	count := strings.Count(trees, pattern)
	matches := make([]string, count)
	for i := range matches {
		matches[i] = pattern
	}
	return count, matches, nil
}

// stubParser wraps each whitespace token as an (NN token) leaf.
type stubParser struct {
	calls int
}

func (p *stubParser) Parse(_ context.Context, text string) (string, error) {
	p.calls++
	if strings.Contains(text, "FAIL") {
		return "", errors.New("parser crashed")
	}
	var b strings.Builder
	b.WriteString("(ROOT (S")
	for _, tok := range strings.Fields(text) {
		b.WriteString(" (NN " + tok + ")")
	}
	b.WriteString("))")
	return b.String(), nil
}

// testConfig overrides W and S with substring-countable patterns so the stub
// matcher produces real counts; MLS = W / S stays a builtin formula.
const testConfig = `{"structures": [
	{"name": "W", "tregex_pattern": "(NN "},
	{"name": "S", "tregex_pattern": "(ROOT "}
]}`

func newTestFS(t *testing.T, files map[string]string) hackpadfs.FS {
	t.Helper()
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.WriteFullFile(fsys, "structures.json", []byte(testConfig), 0o644))
	for name, content := range files {
		require.NoError(t, hackpadfs.WriteFullFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

func defaultOptions() Options {
	return Options{
		Output:          "result.csv",
		Format:          writer.FormatCSV,
		Selected:        []string{"W", "S", "MLS"},
		StructureConfig: "structures.json",
	}
}

func readFile(t *testing.T, fsys hackpadfs.FS, path string) string {
	t.Helper()
	data, err := hackpadfs.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestRunOnFilesWritesTable(t *testing.T) {
	fsys := newTestFS(t, map[string]string{
		"a.txt": "dog cat",
		"b.txt": "dog",
	})
	parser := &stubParser{}
	eng, err := New(defaultOptions(), parser, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)

	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt", "b.txt"}))
	require.NoError(t, eng.WriteResults())

	got := readFile(t, fsys, "result.csv")
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Filename,W,S,MLS", lines[0])
	assert.Equal(t, "a.txt,2,1,2", lines[1])
	assert.Equal(t, "b.txt,1,1,1", lines[2])
	assert.Equal(t, 2, parser.calls)
}

func TestFailedFileIsLoggedAndSkipped(t *testing.T) {
	fsys := newTestFS(t, map[string]string{
		"good.txt": "dog",
		"bad.txt":  "FAIL",
	})
	eng, err := New(defaultOptions(), &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)

	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"good.txt", "bad.txt", "missing.txt"}))
	require.Len(t, eng.Counters(), 1)
	assert.Equal(t, "good.txt", eng.Counters()[0].IFile())
}

func TestCacheAvoidsReparsing(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"a.txt": "dog cat"})
	parser := &stubParser{}
	opts := defaultOptions()
	opts.UseCache = true

	eng, err := New(opts, parser, &stubMatcher{}, cache.NewMemStore(), fsys, nil)
	require.NoError(t, err)

	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))
	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))

	assert.Equal(t, 1, parser.calls, "second run must hit the cache")
	assert.Len(t, eng.Counters(), 2)
}

func TestFailedRunDropsCacheEntry(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"a.txt": "dog"})
	parser := &stubParser{}
	store := cache.NewMemStore()
	opts := defaultOptions()
	opts.UseCache = true

	matcher := &stubMatcher{fail: map[string]error{"(NN ": errors.New("jvm died")}}
	eng, err := New(opts, parser, matcher, store, fsys, nil)
	require.NoError(t, err)

	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))
	require.Empty(t, eng.Counters())

	// The entry written during the failed run must be gone.
	content, _ := hackpadfs.ReadFile(fsys, "a.txt")
	_, ok, err := store.Get("a.txt", cache.HashContent(content))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunOnFileGroupsAggregates(t *testing.T) {
	fsys := newTestFS(t, map[string]string{
		"a.txt": "dog cat",
		"b.txt": "dog",
	})
	eng, err := New(defaultOptions(), &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)

	require.NoError(t, eng.RunOnFileGroups(context.Background(), [][]string{{"a.txt", "b.txt"}}))
	require.Len(t, eng.Counters(), 1)

	parent := eng.Counters()[0]
	assert.Equal(t, "a+b", parent.IFile())

	values, err := parent.AllValues()
	require.NoError(t, err)
	assert.Equal(t, "3", values["W"])
	assert.Equal(t, "2", values["S"])
	assert.Equal(t, "1.5", values["MLS"], "group ratio must come from summed terminals")
}

func TestWriteResultsWithoutCountersFails(t *testing.T) {
	fsys := newTestFS(t, nil)
	eng, err := New(defaultOptions(), &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)

	err = eng.WriteResults()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to write")
}

func TestNewRejectsBadOptions(t *testing.T) {
	fsys := newTestFS(t, nil)

	opts := defaultOptions()
	opts.Format = "xml"
	_, err := New(opts, &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.Error(t, err)

	opts = defaultOptions()
	opts.Selected = []string{"W", "NOPE"}
	_, err = New(opts, &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	var undef *structure.UndefinedMeasureError
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, []string{"NOPE"}, undef.Names)

	opts = defaultOptions()
	opts.UseCache = true
	_, err = New(opts, &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.Error(t, err)
}

func TestReserveParsedWritesTrees(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"a.txt": "dog"})
	opts := defaultOptions()
	opts.ReserveParsed = true

	eng, err := New(opts, &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)
	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))

	assert.Equal(t, "(ROOT (S (NN dog)))", readFile(t, fsys, "a.parsed"))
}

func TestSkipParsingReadsTreesDirectly(t *testing.T) {
	fsys := newTestFS(t, map[string]string{
		"a.parsed": "(ROOT (S (NN dog) (NN cat)))",
	})
	parser := &stubParser{}
	opts := defaultOptions()
	opts.SkipParsing = true

	eng, err := New(opts, parser, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)
	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.parsed"}))

	assert.Equal(t, 0, parser.calls)
	values, err := eng.Counters()[0].AllValues()
	require.NoError(t, err)
	assert.Equal(t, "2", values["W"])
}

func TestSkipQueryingCollectsNoCounters(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"a.txt": "dog"})
	parser := &stubParser{}
	opts := defaultOptions()
	opts.SkipQuerying = true
	opts.ReserveParsed = true

	eng, err := New(opts, parser, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)
	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))

	assert.Equal(t, 1, parser.calls)
	assert.Empty(t, eng.Counters())
	assert.Equal(t, "(ROOT (S (NN dog)))", readFile(t, fsys, "a.parsed"))
}

func TestLexicalTable(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"a.txt": "dog the dog"})
	opts := defaultOptions()
	opts.Lexical = true

	eng, err := New(opts, &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)
	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))
	require.NoError(t, eng.WriteResults())

	got := readFile(t, fsys, "result-lexical.csv")
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Filename,W,NDW,TTR,LD,MWL", lines[0])
	cells := strings.Split(lines[1], ",")
	assert.Equal(t, "a.txt", cells[0])
	assert.Equal(t, "3", cells[1], "word tokens")
	assert.Equal(t, "2", cells[2], "distinct words")
}

func TestRunOnText(t *testing.T) {
	fsys := newTestFS(t, nil)
	eng, err := New(defaultOptions(), &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)

	require.NoError(t, eng.RunOnText(context.Background(), "cmdline_text", "dog cat bird"))
	require.Len(t, eng.Counters(), 1)

	values, err := eng.Counters()[0].AllValues()
	require.NoError(t, err)
	assert.Equal(t, "3", values["W"])
	assert.Equal(t, "3", values["MLS"])
}

func TestMatchExport(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"a.txt": "dog cat"})
	opts := defaultOptions()
	opts.ReserveMatched = true
	opts.MatchDir = "out_matches"

	eng, err := New(opts, &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)
	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))
	require.NoError(t, eng.WriteResults())

	got := readFile(t, fsys, "out_matches/a/a-W.matches")
	assert.Equal(t, 2, strings.Count(got, "(NN "))
}

func TestAutoSave(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"a.txt": "dog"})
	opts := defaultOptions()
	opts.AutoSave = true

	eng, err := New(opts, &stubParser{}, &stubMatcher{}, nil, fsys, nil)
	require.NoError(t, err)
	require.NoError(t, eng.RunOnFiles(context.Background(), []string{"a.txt"}))

	got := readFile(t, fsys, "result.csv")
	assert.Contains(t, got, "a.txt,1,1,1")
}
