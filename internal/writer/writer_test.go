package writer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosca/gosca/pkg/counter"
	"github.com/gosca/gosca/pkg/structure"
)

var (
	testHeader = []string{"ifile", "W", "S", "MLS"}
	testRows   = []map[string]string{
		{"ifile": "a.txt", "W": "40", "S": "4", "MLS": "10"},
		{"ifile": "b.txt", "W": "9", "S": "3", "MLS": "3"},
	}
)

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, CheckFormat(FormatCSV))
	assert.NoError(t, CheckFormat(FormatJSON))
	assert.Error(t, CheckFormat(Format("xlsx")))
	assert.Error(t, CheckFormat(Format("")))
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testHeader, testRows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, testHeader, records[0])

	for i, row := range testRows {
		parsed := make(map[string]string, len(testHeader))
		for j, name := range records[0] {
			parsed[name] = records[i+1][j]
		}
		assert.Equal(t, row, parsed)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testHeader, testRows))

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, testRows[0], parsed[0])
	assert.Equal(t, testRows[1], parsed[1])
}

func TestJSONKeyOrderFollowsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testHeader, testRows[:1]))

	out := buf.String()
	// Keys must appear in header order, not Go map order.
	last := -1
	for _, key := range testHeader {
		idx := strings.Index(out, `"`+key+`"`)
		require.GreaterOrEqual(t, idx, 0, "missing key %q", key)
		assert.Greater(t, idx, last, "key %q out of order", key)
		last = idx
	}
}

func TestWriteTableDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, FormatCSV, testHeader, nil))
	assert.Error(t, WriteTable(&buf, Format("yaml"), testHeader, nil))
}

func TestExportMatches(t *testing.T) {
	cat, err := structure.BuildCatalog(nil)
	require.NoError(t, err)

	c := counter.New(cat, counter.Options{IFile: "essays/sample.txt"})
	s, ok := c.Structure("S")
	require.True(t, ok)
	s.SetValue(1)
	s.SetMatches([]string{"(ROOT (S (NP (NN test))))"})

	fsys, err := mem.NewFS()
	require.NoError(t, err)

	require.NoError(t, ExportMatches(fsys, "matched", c))

	raw, err := hackpadfs.ReadFile(fsys, "matched/sample/sample-S.matches")
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (S (NP (NN test))))\n", string(raw))

	tex, err := hackpadfs.ReadFile(fsys, "matched/sample/sample-S.tex")
	require.NoError(t, err)
	assert.Contains(t, string(tex), `\Tree`)
	assert.Contains(t, string(tex), `\end{document}`)

	// Structures without matches produce no files.
	_, err = hackpadfs.ReadFile(fsys, "matched/sample/sample-W.matches")
	assert.Error(t, err)
}
