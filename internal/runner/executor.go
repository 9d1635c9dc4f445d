package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// Status is the coarse outcome of a command execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

type Config struct {
	Command    string
	Args       []string
	InputFile  string // optional; stdin is empty when unset
	OutputFile string
	StderrFile string
	Timeout    time.Duration // zero means no limit
	Verbose    bool
	DryRun     bool
}

type Result struct {
	Command       string
	Status        Status
	ExitCode      int   // -1 when the command was killed on timeout
	ExecutionTime int64 // milliseconds
}

// FullCommand joins the command and its arguments with single spaces.
func (c *Config) FullCommand() string {
	return strings.Join(append([]string{c.Command}, c.Args...), " ")
}

func Execute(config *Config) (*Result, error) {
	return ExecuteContext(context.Background(), config)
}

// ExecuteContext runs the configured command with stdin, stdout and stderr
// redirected to files. Parent directories of the output files are created.
// A non-zero exit is reported through Result, not as an error; errors are
// reserved for failures to set up or start the command.
func ExecuteContext(ctx context.Context, config *Config) (*Result, error) {
	result := &Result{Command: config.FullCommand()}
	if config.DryRun {
		result.Status = StatusSuccess
		return result, nil
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, config.Command, config.Args...)

	if config.InputFile != "" {
		inputFile, err := os.Open(config.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file %s: %w", config.InputFile, err)
		}
		defer func() { _ = inputFile.Close() }()
		cmd.Stdin = inputFile
	}

	outputFile, err := createWithParents(config.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", config.OutputFile, err)
	}
	defer func() { _ = outputFile.Close() }()
	cmd.Stdout = outputFile

	stderrFile, err := createWithParents(config.StderrFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr file %s: %w", config.StderrFile, err)
	}
	defer func() { _ = stderrFile.Close() }()
	cmd.Stderr = stderrFile
	if config.Verbose {
		cmd.Stderr = io.MultiWriter(stderrFile, os.Stderr)
	}

	startTime := time.Now()
	err = cmd.Run()
	result.ExecutionTime = time.Since(startTime).Milliseconds()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.Status = StatusTimeout
		result.ExitCode = -1
		return result, nil
	}

	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			return nil, fmt.Errorf("failed to start command: %w", err)
		}
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			result.ExitCode = status.ExitStatus()
		} else {
			result.ExitCode = 1
		}
	}

	result.Status = StatusSuccess
	if result.ExitCode != 0 {
		result.Status = StatusFailed
	}
	return result, nil
}

func createWithParents(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
