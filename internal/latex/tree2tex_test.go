package latex

import (
	"strings"
	"testing"
)

const exampleTree = `(ROOT
  (S
    (NP (DT This))
    (VP (VBZ is)
      (NP (DT an) (NN example)))
    (. .)))`

func TestSplitForest(t *testing.T) {
	forest := exampleTree + "\n\n" + "(ROOT (S (NP (NN Second))))"
	trees := SplitForest(forest)
	if len(trees) != 2 {
		t.Fatalf("got %d trees, want 2", len(trees))
	}
	if !strings.HasPrefix(trees[0], "(ROOT") || !strings.HasSuffix(trees[1], ")") {
		t.Errorf("unexpected split: %q / %q", trees[0], trees[1])
	}
}

func TestSplitForestIgnoresStrayText(t *testing.T) {
	trees := SplitForest("Parsing file x...\n(ROOT (S (NN a)))\ndone")
	if len(trees) != 1 || trees[0] != "(ROOT (S (NN a)))" {
		t.Errorf("got %v", trees)
	}
}

func TestToLatexShape(t *testing.T) {
	doc := ToLatex(exampleTree)

	for _, want := range []string{
		`\documentclass[a4paper]{article}`,
		`\usepackage{qtree}`,
		`\section{Tree/Subtree 1}`,
		`\begin{adjustbox}`,
		`\Tree [.ROOT [.S [.NP [.DT This ] ]`,
		`\end{document}`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	// Punctuation subtrees are stripped.
	if strings.Contains(doc, "[.. ") || strings.Contains(doc, "[., ") {
		t.Error("punctuation subtree should have been removed")
	}
}

func TestLatexEscaping(t *testing.T) {
	doc := ToLatex(`(ROOT (S (NN 100%) (NN R_D)))`)
	if !strings.Contains(doc, `100\%`) {
		t.Error("percent sign not escaped")
	}
	if !strings.Contains(doc, `R\_D`) {
		t.Error("underscore not escaped")
	}
}

func TestToLatexSectionPerTree(t *testing.T) {
	doc := ToLatex("(ROOT (NN a))\n(ROOT (NN b))\n(ROOT (NN c))")
	if got := strings.Count(doc, `\section{`); got != 3 {
		t.Errorf("got %d sections, want 3", got)
	}
}
