// Package allure records the execution of a test as an Allure result document.
//
// A Context tracks one in-flight test: the stack of open steps, the attachments
// registered so far and the test metadata. It is owned by the goroutine running
// the test and is not safe for concurrent use; tests running in parallel each
// create their own Context. When the test ends the Context assembles a
// model.TestResult and hands it to a sink.Sink.
package allure

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/ghost-allure/pkg/attachment"
	"github.com/zinc-sig/ghost-allure/pkg/model"
	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

var (
	// ErrNoTest is returned by operations issued while no test is running.
	ErrNoTest = errors.New("allure: no test is running")

	// ErrNoOpenStep is returned by EndStep when no step is open.
	ErrNoOpenStep = errors.New("allure: no open step to end")

	// ErrPersist wraps every error returned by the sink. Callers use it to
	// tell lost output apart from a bad test outcome.
	ErrPersist = errors.New("allure: sink write failed")
)

// danglingStepMessage is recorded on steps still open when their test ends.
const danglingStepMessage = "step was not finished before the test ended"

// Context is the live state of one test.
type Context struct {
	sink      sink.Sink
	now       func() time.Time
	logger    logrus.FieldLogger
	historyID HistoryFunc
	defaults  []model.Label

	running     bool
	uuid        string
	name        string
	fullName    string
	suite       string
	description string
	start       int64
	skipReason  string

	// open steps, innermost last
	stack       []*model.Step
	steps       []model.Step
	attachments []model.Attachment
	labels      []model.Label
	parameters  []model.Parameter
	links       []model.Link
}

// Option configures a Context.
type Option func(*Context)

// WithClock replaces the wall clock used for start/stop timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Context) {
		c.now = now
	}
}

// WithLogger sets the logger used to report instrumentation problems.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithHistoryID replaces the history id derivation.
func WithHistoryID(fn HistoryFunc) Option {
	return func(c *Context) {
		c.historyID = fn
	}
}

// WithLabels adds labels to every test recorded by the Context.
func WithLabels(labels ...model.Label) Option {
	return func(c *Context) {
		c.defaults = append(c.defaults, labels...)
	}
}

// WithHostLabel adds a host label with the machine host name.
func WithHostLabel() Option {
	return func(c *Context) {
		if host, err := os.Hostname(); err == nil {
			c.defaults = append(c.defaults, model.Label{Name: model.LabelHost, Value: host})
		}
	}
}

// New creates an idle Context writing to s.
func New(s sink.Sink, opts ...Option) *Context {
	c := &Context{
		sink:      s,
		now:       time.Now,
		logger:    logrus.StandardLogger(),
		historyID: DefaultHistoryID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Running reports whether a test has been started and not yet ended.
func (c *Context) Running() bool {
	return c.running
}

// UUID returns the identity of the current test.
func (c *Context) UUID() string {
	return c.uuid
}

// Depth returns the number of open steps.
func (c *Context) Depth() int {
	return len(c.stack)
}

func (c *Context) timestamp() int64 {
	return c.now().UnixMilli()
}

// StartTest discards all state and begins recording a new test.
func (c *Context) StartTest(name string, opts ...TestOption) {
	if c.running {
		c.logger.WithFields(logrus.Fields{
			"test":       c.name,
			"open_steps": len(c.stack),
		}).Warn("discarding unfinished test")
	}

	*c = Context{
		sink:      c.sink,
		now:       c.now,
		logger:    c.logger,
		historyID: c.historyID,
		defaults:  c.defaults,

		running: true,
		uuid:    uuid.New().String(),
		name:    name,
		start:   c.timestamp(),
	}
	for _, opt := range opts {
		opt(c)
	}
}

// StartStep opens a step nested in the innermost open step, or at the top level.
func (c *Context) StartStep(name string, params ...model.Parameter) error {
	if !c.running {
		return ErrNoTest
	}
	c.stack = append(c.stack, &model.Step{
		Name:        name,
		Status:      model.StatusPassed,
		Stage:       model.StageRunning,
		Start:       c.timestamp(),
		Steps:       []model.Step{},
		Attachments: []model.Attachment{},
		Parameters:  append([]model.Parameter{}, params...),
	})
	return nil
}

// EndStep closes the innermost open step with the outcome of err.
// A nil err means the step passed.
func (c *Context) EndStep(err error) error {
	if !c.running {
		return ErrNoTest
	}
	if len(c.stack) == 0 {
		return ErrNoOpenStep
	}
	status, details := Classify(err)
	c.closeTop(status, details, model.StageFinished)
	return nil
}

func (c *Context) closeTop(status model.Status, details *model.StatusDetails, stage model.Stage) {
	last := len(c.stack) - 1
	step := c.stack[last]
	c.stack[last] = nil
	c.stack = c.stack[:last]

	step.Stop = max(c.timestamp(), step.Start)
	step.Stage = stage
	step.Status = status
	step.StatusDetails = details

	if len(c.stack) == 0 {
		c.steps = append(c.steps, *step)
		return
	}
	parent := c.stack[len(c.stack)-1]
	if parent.Stage == model.StageRunning {
		parent.Steps = append(parent.Steps, *step)
		return
	}
	c.logger.WithField("step", step.Name).Warn("parent step already finished, recording step at top level")
	c.steps = append(c.steps, *step)
}

// AddAttachment persists the payload through the sink and records it on the
// innermost open step, or on the test when no step is open.
func (c *Context) AddAttachment(name string, p attachment.Payload) error {
	if !c.running {
		return ErrNoTest
	}
	content, err := p.Content()
	if err != nil {
		return fmt.Errorf("attachment %q: %w", name, err)
	}
	kind := p.Kind()
	source, err := c.sink.PersistAttachment(content, kind.Extension())
	if err != nil {
		return fmt.Errorf("failed to persist attachment %q: %w: %w", name, ErrPersist, err)
	}

	att := model.Attachment{
		Name:   name,
		Source: source,
		Type:   kind.MIMEType(),
	}
	if len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		top.Attachments = append(top.Attachments, att)
	} else {
		c.attachments = append(c.attachments, att)
	}
	return nil
}

// AttachFile attaches the content of a file, classified by its extension.
// Files with an unknown extension are attached as plain text.
func (c *Context) AttachFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read attachment file %s: %w", path, err)
	}
	kind, _ := attachment.KindFromPath(path)
	return c.AddAttachment(name, attachment.Typed(kind, data))
}

// AddLabel adds a label to the current test.
func (c *Context) AddLabel(name, value string) {
	c.labels = append(c.labels, model.Label{Name: name, Value: value})
}

// AddParameter adds a parameter to the current test.
func (c *Context) AddParameter(name, value string) {
	c.parameters = append(c.parameters, model.Parameter{Name: name, Value: value})
}

// AddLink adds a link to the current test.
func (c *Context) AddLink(name, url, linkType string) {
	c.links = append(c.links, model.Link{Name: name, URL: url, Type: linkType})
}

// SetDescription sets the markdown description of the current test.
func (c *Context) SetDescription(markdown string) {
	c.description = markdown
}

// EndTest finishes the current test with the outcome of err, assembles the
// result document and hands it to the sink. The document is persisted whatever
// the outcome. Steps still open are closed as broken and interrupted.
func (c *Context) EndTest(err error) (*model.TestResult, error) {
	if !c.running {
		return nil, ErrNoTest
	}

	if len(c.stack) > 0 {
		c.logger.WithFields(logrus.Fields{
			"test":       c.name,
			"open_steps": len(c.stack),
		}).Warn("test ended with open steps")
		for len(c.stack) > 0 {
			c.closeTop(model.StatusBroken, &model.StatusDetails{Message: danglingStepMessage}, model.StageInterrupted)
		}
	}

	status, details := Classify(err)
	result := c.assemble(status, details)
	c.running = false

	if err := c.sink.PersistResult(result); err != nil {
		return result, fmt.Errorf("failed to persist result of %q: %w: %w", c.name, ErrPersist, err)
	}
	return result, nil
}

func (c *Context) assemble(status model.Status, details *model.StatusDetails) *model.TestResult {
	fullName := c.fullName
	if fullName == "" {
		fullName = c.name
		if c.suite != "" {
			fullName = c.suite + "." + c.name
		}
	}

	labels := make([]model.Label, 0, len(c.defaults)+len(c.labels)+1)
	if c.suite != "" {
		labels = append(labels, model.Label{Name: model.LabelSuite, Value: c.suite})
	}
	labels = append(labels, c.defaults...)
	labels = append(labels, c.labels...)

	result := &model.TestResult{
		UUID:          c.uuid,
		HistoryID:     c.historyID(fullName, c.parameters),
		TestCaseID:    TestCaseID(fullName),
		FullName:      fullName,
		Name:          c.name,
		Description:   c.description,
		Status:        status,
		StatusDetails: details,
		Stage:         model.StageFinished,
		Start:         c.start,
		Stop:          max(c.timestamp(), c.start),
		Labels:        labels,
		Parameters:    append([]model.Parameter{}, c.parameters...),
		Links:         append([]model.Link{}, c.links...),
		Steps:         append([]model.Step{}, c.steps...),
		Attachments:   append([]model.Attachment{}, c.attachments...),
	}
	if c.description != "" {
		html, err := renderDescription(c.description)
		if err != nil {
			c.logger.WithError(err).Warn("failed to render description")
		} else {
			result.DescriptionHTML = html
		}
	}
	return result
}
