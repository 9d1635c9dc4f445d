package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

// captureOutput captures stdout during function execution
func captureOutput(f func() error) (string, error) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String(), err
}

// execute runs a freshly built command tree with args and returns what it
// printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	return captureOutput(root.Execute)
}

func decodeResult(t *testing.T, out string) model.TestResult {
	t.Helper()
	var result model.TestResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, out)
	}
	return result
}

// resultFiles lists the result documents written to dir.
func resultFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*-result.json"))
	if err != nil {
		t.Fatal(err)
	}
	return matches
}

func readAttachment(t *testing.T, dir string, steps []model.Step, step int, name string) string {
	t.Helper()
	if step >= len(steps) {
		t.Fatalf("step %d not recorded, got %d steps", step, len(steps))
	}
	for _, a := range steps[step].Attachments {
		if a.Name == name {
			data, err := os.ReadFile(filepath.Join(dir, a.Source))
			if err != nil {
				t.Fatalf("Failed to read attachment %s: %v", a.Source, err)
			}
			return string(data)
		}
	}
	names := make([]string, 0, len(steps[step].Attachments))
	for _, a := range steps[step].Attachments {
		names = append(names, a.Name)
	}
	t.Fatalf("attachment %q not found on step %q, have [%s]", name, steps[step].Name, strings.Join(names, ", "))
	return ""
}
