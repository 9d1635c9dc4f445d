package runner

import (
	"fmt"
	"io"
)

const (
	rule = "========================================"
	thin = "----------------------------------------"
)

// PrintPreExecution prints command details before execution
func PrintPreExecution(w io.Writer, testName string, config *Config) {
	header := "Ghost Test Execution Details"
	if config.DryRun {
		header = "Ghost Test Execution Details (DRY RUN)"
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Test:    %s\n", testName)
	fmt.Fprintf(w, "Command: %s\n", config.FullCommand())
	if config.InputFile != "" {
		fmt.Fprintf(w, "Input:   %s\n", config.InputFile)
	}
	fmt.Fprintf(w, "Output:  %s\n", config.OutputFile)
	fmt.Fprintf(w, "Stderr:  %s\n", config.StderrFile)
	if config.Timeout > 0 {
		fmt.Fprintf(w, "Timeout: %s\n", config.Timeout)
	}
	fmt.Fprintln(w, thin)

	if config.DryRun {
		fmt.Fprintln(w, "[DRY RUN] Command would be executed here")
	} else {
		fmt.Fprintln(w, "Command Output:")
	}
	fmt.Fprintln(w, thin)
}

// PrintPostExecution prints execution results after command completion
func PrintPostExecution(w io.Writer, result *Result, dryRun bool) {
	fmt.Fprintln(w, thin)
	if dryRun {
		fmt.Fprintln(w, "Execution Results (DRY RUN - Simulated):")
	} else {
		fmt.Fprintln(w, "Execution Results:")
	}
	fmt.Fprintln(w, thin)
	fmt.Fprintf(w, "Status:         %s\n", result.Status)
	fmt.Fprintf(w, "Exit Code:      %d\n", result.ExitCode)
	fmt.Fprintf(w, "Execution Time: %d ms\n", result.ExecutionTime)
	fmt.Fprintln(w, rule)
}
