package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zinc-sig/ghost-allure/pkg/model"
	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

func TestRunCommandRecordsPassingTest(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "input.txt")
	outputFile := filepath.Join(dir, "out", "stdout.txt")
	if err := os.WriteFile(inputFile, []byte("hello from stdin\n"), 0644); err != nil {
		t.Fatal(err)
	}
	resultsDir := filepath.Join(dir, "results")

	out, err := execute(t, "run", "--results-dir", resultsDir,
		"--name", "cat input", "-i", inputFile, "-o", outputFile,
		"--", "cat")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	result := decodeResult(t, out)
	if result.Name != "cat input" {
		t.Errorf("Name = %q, want %q", result.Name, "cat input")
	}
	if result.Status != model.StatusPassed {
		t.Errorf("Status = %q, want passed", result.Status)
	}
	if result.Stage != model.StageFinished {
		t.Errorf("Stage = %q, want finished", result.Stage)
	}
	if len(result.Steps) != 1 || result.Steps[0].Name != "execute" {
		t.Fatalf("Steps = %+v, want a single execute step", result.Steps)
	}

	step := result.Steps[0]
	if step.Status != model.StatusPassed {
		t.Errorf("execute status = %q, want passed", step.Status)
	}
	if len(step.Parameters) != 1 || step.Parameters[0] != (model.Parameter{Name: "command", Value: "cat"}) {
		t.Errorf("execute parameters = %+v", step.Parameters)
	}
	if got := readAttachment(t, resultsDir, result.Steps, 0, "stdout"); got != "hello from stdin\n" {
		t.Errorf("stdout attachment = %q", got)
	}
	for _, a := range step.Attachments {
		if a.Name == "stderr" {
			t.Error("empty stderr should not be attached")
		}
	}

	// the stdout file named on the command line is kept
	if data, err := os.ReadFile(outputFile); err != nil || string(data) != "hello from stdin\n" {
		t.Errorf("output file = %q, %v", data, err)
	}

	files := resultFiles(t, resultsDir)
	if len(files) != 1 || filepath.Base(files[0]) != sink.ResultFileName(result.UUID) {
		t.Errorf("result files = %v, want %s", files, sink.ResultFileName(result.UUID))
	}
}

func TestRunCommandOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantStatus  model.Status
		wantMessage string
		wantTrace   string
	}{
		{
			name:        "non-zero exit fails with stderr tail",
			args:        []string{"--", "sh", "-c", "echo first >&2; echo oops >&2; exit 3"},
			wantStatus:  model.StatusFailed,
			wantMessage: "command exited with code 3",
			wantTrace:   "first\noops",
		},
		{
			name:        "missing input file is broken",
			args:        []string{"-i", "does-not-exist.txt", "--", "cat"},
			wantStatus:  model.StatusBroken,
			wantMessage: "failed to open input file",
		},
		{
			name:        "unknown command is broken",
			args:        []string{"--", "ghost-no-such-binary"},
			wantStatus:  model.StatusBroken,
			wantMessage: "failed to start command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"run", "--results-dir", dir}, tt.args...)

			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("run returned error: %v", err)
			}

			result := decodeResult(t, out)
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", result.Status, tt.wantStatus)
			}
			if result.StatusDetails == nil || !strings.Contains(result.StatusDetails.Message, tt.wantMessage) {
				t.Fatalf("StatusDetails = %+v, want message containing %q", result.StatusDetails, tt.wantMessage)
			}
			if tt.wantTrace != "" && result.StatusDetails.Trace != tt.wantTrace {
				t.Errorf("Trace = %q, want %q", result.StatusDetails.Trace, tt.wantTrace)
			}
			if len(result.Steps) != 1 || result.Steps[0].Status != tt.wantStatus {
				t.Errorf("execute step = %+v, want status %q", result.Steps, tt.wantStatus)
			}
			if len(resultFiles(t, dir)) != 1 {
				t.Error("result document should be written whatever the outcome")
			}
		})
	}
}

func TestRunCommandMetadata(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GHOST_LABEL_EPIC", "grading")

	out, err := execute(t, "run", "--results-dir", dir,
		"--name", "metadata", "--suite", "cli",
		"--label", "owner=alice", "--label", "tag=smoke", "--label", "tag=fast",
		"--param", "case=1",
		"--link", "docs=https://example.com/docs",
		"--description", "Checks **metadata**",
		"--", "true")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	result := decodeResult(t, out)
	if result.FullName != "cli.metadata" {
		t.Errorf("FullName = %q, want cli.metadata", result.FullName)
	}

	labels := map[string][]string{}
	for _, l := range result.Labels {
		labels[l.Name] = append(labels[l.Name], l.Value)
	}
	if got := strings.Join(labels["tag"], ","); got != "smoke,fast" {
		t.Errorf("tag labels = %q, want smoke,fast", got)
	}
	for name, want := range map[string]string{"suite": "cli", "owner": "alice", "epic": "grading"} {
		if len(labels[name]) != 1 || labels[name][0] != want {
			t.Errorf("label %s = %v, want %q", name, labels[name], want)
		}
	}

	if len(result.Parameters) != 1 || result.Parameters[0].Name != "case" || result.Parameters[0].Value != "1" {
		t.Errorf("Parameters = %+v", result.Parameters)
	}
	if len(result.Links) != 1 || result.Links[0].URL != "https://example.com/docs" {
		t.Errorf("Links = %+v", result.Links)
	}
	if !strings.Contains(result.DescriptionHTML, "<strong>metadata</strong>") {
		t.Errorf("DescriptionHTML = %q", result.DescriptionHTML)
	}
}

func TestRunCommandAttachesFiles(t *testing.T) {
	dir := t.TempDir()
	resultsDir := filepath.Join(dir, "results")
	report := filepath.Join(dir, "report.json")
	if err := os.WriteFile(report, []byte(`{"passed":3}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "--results-dir", resultsDir,
		"--attach", "report="+report, "--", "true")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	result := decodeResult(t, out)
	if len(result.Attachments) != 1 {
		t.Fatalf("Attachments = %+v, want one test level attachment", result.Attachments)
	}
	a := result.Attachments[0]
	if a.Name != "report" || a.Type != "application/json" || !strings.HasSuffix(a.Source, ".json") {
		t.Errorf("attachment = %+v", a)
	}

	// a missing attachment breaks an otherwise passing test
	out, err = execute(t, "run", "--results-dir", resultsDir,
		"--attach", "report="+filepath.Join(dir, "missing.json"), "--", "true")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if result := decodeResult(t, out); result.Status != model.StatusBroken {
		t.Errorf("Status = %q, want broken", result.Status)
	}
}

func TestRunCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	out, err := execute(t, "run", "--results-dir", dir, "--dry-run",
		"--", "touch", marker)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	result := decodeResult(t, out)
	if result.Status != model.StatusPassed {
		t.Errorf("Status = %q, want passed", result.Status)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("dry run must not execute the command")
	}
	if files := resultFiles(t, dir); len(files) != 0 {
		t.Errorf("dry run wrote result files: %v", files)
	}
}

func TestRunCommandValidation(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantError string
	}{
		{
			name:      "missing separator",
			args:      []string{"run", "echo", "hi"},
			wantError: "command separator '--' is required",
		},
		{
			name:      "no command",
			args:      []string{"run", "--"},
			wantError: "no command specified",
		},
		{
			name:      "invalid label",
			args:      []string{"run", "--label", "novalue", "--", "true"},
			wantError: "novalue",
		},
		{
			name:      "invalid attachment",
			args:      []string{"run", "--attach", "noequals", "--", "true"},
			wantError: "",
		},
		{
			name:      "invalid log format",
			args:      []string{"run", "--log-format", "xml", "--", "true"},
			wantError: "invalid log format",
		},
		{
			name:      "unknown upload provider",
			args:      []string{"run", "--upload-provider", "ftp", "--", "true"},
			wantError: "unknown upload provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"--results-dir", dir}, tt.args...)

			out, err := execute(t, args...)
			if tt.wantError == "" {
				// recorded as a broken test rather than rejected
				if err != nil {
					t.Fatalf("run returned error: %v", err)
				}
				if result := decodeResult(t, out); result.Status != model.StatusBroken {
					t.Errorf("Status = %q, want broken", result.Status)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("Error = %v, want error containing %q", err, tt.wantError)
			}
			if files := resultFiles(t, dir); len(files) != 0 {
				t.Errorf("rejected invocation wrote result files: %v", files)
			}
		})
	}
}

func TestRunCommandSeparatorIsNotCarriedOver(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, "run", "--results-dir", dir, "--", "true"); err != nil {
		t.Fatalf("run with separator returned error: %v", err)
	}

	_, err := execute(t, "run", "--results-dir", dir, "echo", "hi")
	if err == nil || !strings.Contains(err.Error(), "command separator '--' is required") {
		t.Fatalf("second invocation error = %v, want missing separator", err)
	}
}

func TestRunCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	resultsDir := filepath.Join(dir, "from-config")
	configFile := filepath.Join(dir, "ghost.toml")
	content := `results_dir = "` + filepath.ToSlash(resultsDir) + `"
suite = "configured"
history_id = "random"

[labels]
team = "platform"
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "--config", configFile, "--name", "cfg", "--", "true")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	result := decodeResult(t, out)
	if suite, _ := result.Label(model.LabelSuite); suite != "configured" {
		t.Errorf("suite = %q, want configured", suite)
	}
	if team, _ := result.Label("team"); team != "platform" {
		t.Errorf("team = %q, want platform", team)
	}
	if len(resultFiles(t, resultsDir)) != 1 {
		t.Error("result should be written to the configured results directory")
	}

	// random history ids differ between runs of the same test
	again, err := execute(t, "run", "--config", configFile, "--name", "cfg", "--", "true")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if decodeResult(t, again).HistoryID == result.HistoryID {
		t.Error("random history ids should differ between runs")
	}
}
