// Package query runs terminal-pattern structures against a forest of
// constituency trees. Actual pattern matching is delegated to a Matcher; the
// driver only orchestrates querying and populates counts and matched subtrees
// back into the counter.
package query

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Matcher matches one Tregex pattern against bracketed tree text and returns
// the match count plus the matched subtree texts in match order. Matchers
// must be idempotent and side-effect-free from the caller's perspective.
type Matcher interface {
	Match(ctx context.Context, pattern, trees string) (count int, matches []string, err error)
}

// TregexMatcher shells out to Stanford Tregex. The trees are handed over via
// a temporary file and matched subtrees are read back one per line (-s).
//
// Matching may block on subprocess I/O; callers needing responsiveness should
// offload the whole per-file pipeline, not individual queries.
type TregexMatcher struct {
	// Home is the directory containing stanford-tregex.jar. Falls back to
	// the STANFORD_TREGEX_HOME environment variable.
	Home string

	// Java is the java executable. Defaults to "java".
	Java string

	// MaxHeap is the JVM -mx setting. Defaults to "100m".
	MaxHeap string
}

const tregexClass = "edu.stanford.nlp.trees.tregex.TregexPattern"

func (m *TregexMatcher) home() (string, error) {
	home := m.Home
	if home == "" {
		home = os.Getenv("STANFORD_TREGEX_HOME")
	}
	if home == "" {
		return "", fmt.Errorf("query: Stanford Tregex not found, set STANFORD_TREGEX_HOME")
	}
	return home, nil
}

// Match implements Matcher.
func (m *TregexMatcher) Match(ctx context.Context, pattern, trees string) (int, []string, error) {
	home, err := m.home()
	if err != nil {
		return 0, nil, err
	}

	tmp, err := os.CreateTemp("", "gosca-trees-*.parsed")
	if err != nil {
		return 0, nil, fmt.Errorf("query: creating tree file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(trees); err != nil {
		tmp.Close()
		return 0, nil, fmt.Errorf("query: writing tree file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, nil, fmt.Errorf("query: closing tree file: %w", err)
	}

	java := m.Java
	if java == "" {
		java = "java"
	}
	heap := m.MaxHeap
	if heap == "" {
		heap = "100m"
	}

	cmd := exec.CommandContext(ctx, java,
		"-mx"+heap,
		"-cp", filepath.Join(home, "stanford-tregex.jar"),
		tregexClass, "-s", pattern, tmp.Name(),
	)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return 0, nil, fmt.Errorf("query: tregex failed for pattern %q: %s", pattern, strings.TrimSpace(string(ee.Stderr)))
		}
		return 0, nil, fmt.Errorf("query: running tregex: %w", err)
	}

	var matches []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			matches = append(matches, line)
		}
	}
	return len(matches), matches, nil
}
