// Package latex renders Penn-bracketed constituency trees as LaTeX documents
// using the Qtree tree-drawing package. Pure text transformation; the caller
// is responsible for running a LaTeX engine on the output.
package latex

import (
	"fmt"
	"regexp"
	"strings"
)

const preamble = `\documentclass[a4paper]{article}
\usepackage{qtree}
\usepackage{adjustbox}
\usepackage[hmargin=0.8in,vmargin=1in]{geometry}
\usepackage{hyperref}
\renewcommand\thesection{}
\begin{document}`

const (
	adjustboxBegin = `\begin{adjustbox}{width={\textwidth},totalheight={\textheight},keepaspectratio}`
	adjustboxEnd   = `\end{adjustbox}`
	closing        = `\end{document}`
)

// punctSubtree matches punctuation subtrees such as (. .) and (, ,), which
// carry no structure worth drawing.
var punctSubtree = regexp.MustCompile(`\(\W[^)]*\)`)

// latexEscapes, applied in order. Backslash first and braces before the
// caret, so replacement text is never re-escaped.
var latexEscapes = []struct{ from, to string }{
	{`\`, `\textbackslash`},
	{`{`, `\{`},
	{`}`, `\}`},
	{`#`, `\#`},
	{`$`, `\$`},
	{`%`, `\%`},
	{`^`, `\^{}`},
	{`_`, `\_`},
	{`&`, `\&`},
	{`~`, `\textasciitilde`},
}

// SplitForest splits bracketed tree text into individual balanced trees.
// Text outside parentheses is ignored.
func SplitForest(trees string) []string {
	var out []string
	depth := 0
	start := -1
	for i, r := range trees {
		switch r {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, trees[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}

// flatten collapses a multi-line tree onto one line with single spaces.
func flatten(tree string) string {
	return strings.Join(strings.Fields(tree), " ")
}

// treeToQtree converts one flattened tree to a \Tree command. Parentheses
// become Qtree's square brackets; closing brackets need a preceding space or
// LaTeX reports an error.
func treeToQtree(tree string) string {
	t := punctSubtree.ReplaceAllString(tree, "")
	t = strings.ReplaceAll(t, "(", "[.")
	t = strings.ReplaceAll(t, ")", " ]")
	for _, esc := range latexEscapes {
		t = strings.ReplaceAll(t, esc.from, esc.to)
	}
	t = strings.Join(strings.Fields(t), " ")
	return `\Tree ` + t
}

// ToLatex renders the whole forest as a standalone LaTeX document, one
// adjustbox-wrapped tree per section.
func ToLatex(trees string) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n")
	for i, tree := range SplitForest(trees) {
		fmt.Fprintf(&b, "\\section{Tree/Subtree %d}\n", i+1)
		b.WriteString(adjustboxBegin)
		b.WriteString("\n")
		b.WriteString(treeToQtree(flatten(tree)))
		b.WriteString("\n")
		b.WriteString(adjustboxEnd)
		b.WriteString("\n\\newline\n")
	}
	b.WriteString(closing)
	return b.String()
}
