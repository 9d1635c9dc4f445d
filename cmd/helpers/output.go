package helpers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zinc-sig/ghost-allure/internal/report"
	"github.com/zinc-sig/ghost-allure/pkg/model"
)

// OutputJSON marshals and prints the result document as a single JSON line
func OutputJSON(w io.Writer, result *model.TestResult) error {
	jsonOutput, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

// PrintSummary prints the step tree of the result in verbose mode
func PrintSummary(w io.Writer, result *model.TestResult) {
	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintln(w, "Result Summary")
	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintln(w, report.Summary(result, true))
}
