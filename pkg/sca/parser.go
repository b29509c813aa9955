package sca

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Parser turns raw text into bracketed constituency trees, one tree per
// sentence. Constituency parsing itself is an external collaborator; the
// engine only needs the bracketed output.
type Parser interface {
	Parse(ctx context.Context, text string) (trees string, err error)
}

// CommandParser shells out to the Stanford parser. Text is handed over via a
// temporary file and the Penn-bracketed trees are read from stdout.
type CommandParser struct {
	// Home is the directory containing the Stanford parser jars. Falls back
	// to the STANFORD_PARSER_HOME environment variable.
	Home string

	// Java is the java executable. Defaults to "java".
	Java string

	// MaxHeap is the JVM -mx setting. Defaults to "1500m".
	MaxHeap string

	// Model is the grammar model resource. Defaults to the English PCFG
	// model shipped inside the parser jar.
	Model string
}

const (
	lexparserClass = "edu.stanford.nlp.parser.lexparser.LexicalizedParser"
	defaultModel   = "edu/stanford/nlp/models/lexparser/englishPCFG.ser.gz"
)

func (p *CommandParser) home() (string, error) {
	home := p.Home
	if home == "" {
		home = os.Getenv("STANFORD_PARSER_HOME")
	}
	if home == "" {
		return "", fmt.Errorf("sca: Stanford parser not found, set STANFORD_PARSER_HOME")
	}
	return home, nil
}

// Parse implements Parser.
func (p *CommandParser) Parse(ctx context.Context, text string) (string, error) {
	home, err := p.home()
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "gosca-input-*.txt")
	if err != nil {
		return "", fmt.Errorf("sca: creating input file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sca: writing input file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("sca: closing input file: %w", err)
	}

	java := p.Java
	if java == "" {
		java = "java"
	}
	heap := p.MaxHeap
	if heap == "" {
		heap = "1500m"
	}
	model := p.Model
	if model == "" {
		model = defaultModel
	}

	cmd := exec.CommandContext(ctx, java,
		"-mx"+heap,
		"-cp", filepath.Join(home, "*"),
		lexparserClass, "-outputFormat", "penn", model, tmp.Name(),
	)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("sca: parser failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("sca: running parser: %w", err)
	}
	return string(out), nil
}
