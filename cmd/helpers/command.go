package helpers

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/ghost-allure/internal/runner"
	"github.com/zinc-sig/ghost-allure/pkg/allure"
	"github.com/zinc-sig/ghost-allure/pkg/model"
)

// StderrTailLines is how much of stderr is kept as the trace of a failed command.
const StderrTailLines = 20

// IOFlags holds the common I/O flags for commands
type IOFlags struct {
	Input    string
	Output   string
	Stderr   string
	Expected string // Optional, only for diff command
}

// ValidateDiffFlags validates that both sides of a comparison are set
func ValidateDiffFlags(flags IOFlags) error {
	if flags.Input == "" {
		return fmt.Errorf("required flag 'input' not set")
	}
	if flags.Expected == "" {
		return fmt.Errorf("required flag 'expected' not set")
	}
	return nil
}

// CreateTempFiles creates temporary files capturing stdout and stderr when
// the caller did not name them. Returns the file paths and a cleanup function.
func CreateTempFiles(prefix string) (outputFile, stderrFile string, cleanup func(), err error) {
	tempOut, err := os.CreateTemp("", fmt.Sprintf("ghost-%s-output-*.txt", prefix))
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to create temp output file: %w", err)
	}
	outputFile = tempOut.Name()
	_ = tempOut.Close()

	tempErr, err := os.CreateTemp("", fmt.Sprintf("ghost-%s-stderr-*.txt", prefix))
	if err != nil {
		_ = os.Remove(outputFile)
		return "", "", nil, fmt.Errorf("failed to create temp stderr file: %w", err)
	}
	stderrFile = tempErr.Name()
	_ = tempErr.Close()

	cleanup = func() {
		_ = os.Remove(outputFile)
		_ = os.Remove(stderrFile)
	}

	return outputFile, stderrFile, cleanup, nil
}

// ValidateCommandSeparator checks if the '--' separator is present for run command
func ValidateCommandSeparator(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command specified after '--'")
	}

	dashIndex := cmd.ArgsLenAtDash()
	if dashIndex == -1 {
		return fmt.Errorf("command separator '--' is required")
	}

	return nil
}

// ParseTimeout parses and validates a timeout duration string
func ParseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}

	return timeout, nil
}

// ExitError reports a command that ran to completion with a non-zero exit code.
// The tail of its stderr is recorded as the trace.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

func (e *ExitError) Trace() string { return e.Stderr }

// CommandOutcome maps an execution result onto a test outcome: success passes,
// a non-zero exit fails and a timeout is broken.
func CommandOutcome(result *runner.Result, timeout time.Duration, stderr string) error {
	switch result.Status {
	case runner.StatusSuccess:
		return nil
	case runner.StatusTimeout:
		return allure.Broken(fmt.Errorf("command timed out after %s", timeout))
	default:
		return &ExitError{Code: result.ExitCode, Stderr: runner.Tail(stderr, StderrTailLines)}
	}
}

// ExecuteParams describes the execution as step parameters.
func ExecuteParams(config *runner.Config) []model.Parameter {
	params := []model.Parameter{allure.Param("command", config.FullCommand())}
	if config.Timeout > 0 {
		params = append(params, allure.Param("timeout", config.Timeout.String()))
	}
	return params
}
