package allure

import (
	"cmp"
	"errors"
	"testing"

	"github.com/zinc-sig/ghost-allure/pkg/model"
	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

var (
	errTestFailed = errors.New("test failed")
	errSkipped    = errors.New("test skipped")
)

// Run records a Go test. The status follows the test: a panic or t.Failed()
// marks it failed, t.Skipped() skipped. A result that cannot be persisted fails t.
// Panics are re-raised once the result is written.
//
// testing.TB does not expose the reason given to t.Skip, so such tests are
// recorded as "test skipped". Use Context.SkipTest to keep the reason.
func Run(t testing.TB, s sink.Sink, fn func(*Context), opts ...TestOption) {
	t.Helper()

	c := New(s, WithLabels(model.Label{Name: model.LabelLanguage, Value: "go"}))
	c.StartTest(t.Name(), opts...)

	completed := false
	defer func() {
		var outcome error
		r := recover()
		switch {
		case r != nil:
			outcome = FromPanic(r, testPanicked)
		case t.Skipped():
			outcome = Skip(cmp.Or(c.skipReason, errSkipped.Error()))
		case t.Failed():
			outcome = errTestFailed
		case !completed:
			outcome = errExited
		}
		if _, err := c.EndTest(outcome); err != nil {
			t.Errorf("allure: %v", err)
		}
		if r != nil {
			panic(r)
		}
	}()

	fn(c)
	completed = true
}

// SkipTest skips t and records reason as the skip message of the test run by Run.
func (c *Context) SkipTest(t testing.TB, reason string) {
	t.Helper()
	c.skipReason = reason
	t.Skip(reason)
}
