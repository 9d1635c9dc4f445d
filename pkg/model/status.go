package model

// Status is the terminal outcome of a test or step.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusBroken  Status = "broken"
	StatusSkipped Status = "skipped"
)

// IsPassed reports whether the status is passed.
func (s Status) IsPassed() bool {
	return s == StatusPassed
}

// Stage tells whether a test or step is still running. It says nothing about the outcome.
type Stage string

const (
	StageRunning     Stage = "running"
	StageFinished    Stage = "finished"
	StageInterrupted Stage = "interrupted"
)

// StatusDetails carries the failure detail of a non-passed outcome.
type StatusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
	Known   bool   `json:"known,omitempty"`
	Muted   bool   `json:"muted,omitempty"`
	Flaky   bool   `json:"flaky,omitempty"`
}
