// Package lexical computes lexical-complexity metrics from bracketed
// constituency trees. Tokens are taken from the trees' terminal leaves, so
// the lexical table always describes exactly the text the syntactic counts
// were computed over.
package lexical

import (
	"math"
	"regexp"
	"strconv"

	"github.com/gosca/gosca/pkg/wordlist"
)

// preterminal captures (TAG token) pairs from bracketed tree text.
var preterminal = regexp.MustCompile(`\(([^\s()]+) ([^\s()]+)\)`)

// wordTag reports whether a preterminal tag labels a word rather than
// punctuation. Penn punctuation tags (",", ".", ":", "''", "``", -LRB-,
// -RRB-) all start with a non-letter.
var wordTag = regexp.MustCompile(`^[A-Za-z]`)

// Result holds the lexical metrics for one file or aggregate.
type Result struct {
	IFile string

	Words          int     // word tokens (punctuation excluded)
	Different      int     // NDW: distinct normalized word types
	TTR            float64 // type-token ratio, Different / Words
	Density        float64 // content words / Words
	MeanWordLength float64 // mean letters per word token
}

// Names returns the lexical table's column names in report order.
func Names() []string {
	return []string{"W", "NDW", "TTR", "LD", "MWL"}
}

// Values formats the result for the table writers, ratios rounded to the
// given number of decimal places.
func (r Result) Values(precision int) map[string]string {
	round := func(v float64) string {
		scale := math.Pow(10, float64(precision))
		return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64)
	}
	return map[string]string{
		"W":   strconv.Itoa(r.Words),
		"NDW": strconv.Itoa(r.Different),
		"TTR": round(r.TTR),
		"LD":  round(r.Density),
		"MWL": round(r.MeanWordLength),
	}
}

// Analyzer computes lexical metrics using a function-word list to separate
// content words from function words. Safe for concurrent use; the compiled
// list is read-only.
type Analyzer struct {
	functionWords *wordlist.List
}

// NewAnalyzer creates an analyzer. A nil list means the built-in English
// function-word list.
func NewAnalyzer(functionWords *wordlist.List) *Analyzer {
	if functionWords == nil {
		functionWords = wordlist.FunctionWords()
	}
	return &Analyzer{functionWords: functionWords}
}

// Analyze extracts word tokens from the tree forest and computes the
// metrics. Ratios over an empty token set are 0.
func (a *Analyzer) Analyze(ifile, trees string) Result {
	r := Result{IFile: ifile}

	types := make(map[string]bool)
	content := 0
	letters := 0

	for _, m := range preterminal.FindAllStringSubmatch(trees, -1) {
		tag, token := m[1], m[2]
		if !wordTag.MatchString(tag) {
			continue
		}
		r.Words++
		letters += len(token)

		norm := wordlist.Normalize(token)
		if norm == "" {
			norm = token
		}
		types[norm] = true
		if !a.functionWords.Contains(norm) {
			content++
		}
	}

	r.Different = len(types)
	if r.Words > 0 {
		r.TTR = float64(r.Different) / float64(r.Words)
		r.Density = float64(content) / float64(r.Words)
		r.MeanWordLength = float64(letters) / float64(r.Words)
	}
	return r
}
