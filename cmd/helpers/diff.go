package helpers

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffOptions tune how two texts are compared.
type DiffOptions struct {
	// Lines of context around each change.
	Context int
	// Ignore trailing whitespace on each line and trailing blank lines.
	IgnoreTrailing bool

	ExpectedLabel string
	ActualLabel   string
}

// MismatchError reports differing texts. The unified diff is recorded as the trace.
type MismatchError struct {
	Diff string
}

func (e *MismatchError) Error() string { return "output differs from expected" }

func (e *MismatchError) Trace() string { return e.Diff }

// UnifiedDiff returns a unified line diff turning expected into actual, or
// an empty string when they match.
func UnifiedDiff(expected, actual string, opts DiffOptions) (string, error) {
	if opts.IgnoreTrailing {
		expected = trimTrailing(expected)
		actual = trimTrailing(actual)
	}
	if expected == actual {
		return "", nil
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: opts.ExpectedLabel,
		ToFile:   opts.ActualLabel,
		Context:  opts.Context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to compute diff: %w", err)
	}
	return text, nil
}

func trimTrailing(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
