// Package model holds the Allure result document written for every finished test.
// Field names are the wire contract read by report generators.
package model

// Label is a name/value pair used by report generators for grouping and filtering.
type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Well known label names.
const (
	LabelSuite    = "suite"
	LabelHost     = "host"
	LabelLanguage = "language"
	LabelFeature  = "feature"
	LabelStory    = "story"
	LabelEpic     = "epic"
	LabelSeverity = "severity"
	LabelOwner    = "owner"
	LabelTag      = "tag"
)

// ParameterMode controls how a report renders a parameter value.
type ParameterMode string

const (
	ParameterModeDefault ParameterMode = "default"
	ParameterModeMasked  ParameterMode = "masked"
	ParameterModeHidden  ParameterMode = "hidden"
)

// Parameter is a name/value pair attached to a test or step.
type Parameter struct {
	Name     string        `json:"name"`
	Value    string        `json:"value"`
	Excluded bool          `json:"excluded,omitempty"` // left out of the history id
	Mode     ParameterMode `json:"mode,omitempty"`
}

// Link points a test at an external resource such as an issue or a test case.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// Attachment references a side file written next to the result document.
type Attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// Step is one (possibly nested) step of a test.
type Step struct {
	Name          string         `json:"name"`
	Status        Status         `json:"status"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         Stage          `json:"stage"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop"`
	Steps         []Step         `json:"steps"`
	Attachments   []Attachment   `json:"attachments"`
	Parameters    []Parameter    `json:"parameters"`
}

// TestResult is the finished document for one test.
type TestResult struct {
	UUID            string         `json:"uuid"`
	HistoryID       string         `json:"historyId"`
	TestCaseID      string         `json:"testCaseId,omitempty"`
	FullName        string         `json:"fullName,omitempty"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	DescriptionHTML string         `json:"descriptionHtml,omitempty"`
	Status          Status         `json:"status"`
	StatusDetails   *StatusDetails `json:"statusDetails,omitempty"`
	Stage           Stage          `json:"stage"`
	Start           int64          `json:"start"`
	Stop            int64          `json:"stop"`
	Labels          []Label        `json:"labels"`
	Parameters      []Parameter    `json:"parameters"`
	Links           []Link         `json:"links"`
	Steps           []Step         `json:"steps"`
	Attachments     []Attachment   `json:"attachments"`
}

// Label returns the value of the first label with the given name.
func (r *TestResult) Label(name string) (string, bool) {
	for _, l := range r.Labels {
		if l.Name == name {
			return l.Value, true
		}
	}
	return "", false
}

// Duration returns stop-start in milliseconds.
func (r *TestResult) Duration() int64 {
	return r.Stop - r.Start
}

// Duration returns stop-start in milliseconds, or 0 while the step is running.
func (s *Step) Duration() int64 {
	if s.Stage == StageRunning {
		return 0
	}
	return s.Stop - s.Start
}

// Walk visits every step of the result depth first, in document order.
func (r *TestResult) Walk(fn func(depth int, s *Step)) {
	walkSteps(r.Steps, 0, fn)
}

func walkSteps(steps []Step, depth int, fn func(int, *Step)) {
	for i := range steps {
		fn(depth, &steps[i])
		walkSteps(steps[i].Steps, depth+1, fn)
	}
}
