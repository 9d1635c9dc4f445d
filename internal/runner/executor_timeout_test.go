package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestExecuteWithTimeout(t *testing.T) {
	tests := []struct {
		name          string
		command       string
		args          []string
		timeout       time.Duration
		wantStatus    Status
		wantExitCode  int
		checkDuration bool
		minDuration   time.Duration
		maxDuration   time.Duration
	}{
		{
			name:          "command completes before timeout",
			command:       "sleep",
			args:          []string{"0.1"},
			timeout:       1 * time.Second,
			wantStatus:    StatusSuccess,
			wantExitCode:  0,
			checkDuration: true,
			minDuration:   100 * time.Millisecond,
			maxDuration:   500 * time.Millisecond,
		},
		{
			name:          "command times out",
			command:       "sleep",
			args:          []string{"5"},
			timeout:       100 * time.Millisecond,
			wantStatus:    StatusTimeout,
			wantExitCode:  -1,
			checkDuration: true,
			minDuration:   100 * time.Millisecond,
			maxDuration:   300 * time.Millisecond,
		},
		{
			name:         "no timeout specified",
			command:      "echo",
			args:         []string{"hello"},
			wantStatus:   StatusSuccess,
			wantExitCode: 0,
		},
		{
			name:         "command with error and timeout",
			command:      "sh",
			args:         []string{"-c", "exit 42"},
			timeout:      1 * time.Second,
			wantStatus:   StatusFailed,
			wantExitCode: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			config := &Config{
				Command:    tt.command,
				Args:       tt.args,
				OutputFile: filepath.Join(dir, "output.txt"),
				StderrFile: filepath.Join(dir, "stderr.txt"),
				Timeout:    tt.timeout,
			}

			startTime := time.Now()
			result, err := Execute(config)
			duration := time.Since(startTime)

			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			if result.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", result.Status, tt.wantStatus)
			}

			if result.ExitCode != tt.wantExitCode {
				t.Errorf("ExitCode = %v, want %v", result.ExitCode, tt.wantExitCode)
			}

			if tt.checkDuration {
				if duration < tt.minDuration {
					t.Errorf("Execution too fast: %v < %v", duration, tt.minDuration)
				}
				if duration > tt.maxDuration {
					t.Errorf("Execution too slow: %v > %v", duration, tt.maxDuration)
				}
			}

			if result.Command != config.FullCommand() {
				t.Errorf("Command = %v, want %v", result.Command, config.FullCommand())
			}
		})
	}
}

func TestExecuteContextParentDeadline(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := ExecuteContext(ctx, &Config{
		Command:    "sleep",
		Args:       []string{"5"},
		OutputFile: filepath.Join(dir, "output.txt"),
		StderrFile: filepath.Join(dir, "stderr.txt"),
	})
	if err != nil {
		t.Fatalf("ExecuteContext() error = %v", err)
	}
	if result.Status != StatusTimeout || result.ExitCode != -1 {
		t.Errorf("result = %+v, want timeout with exit code -1", result)
	}
}
