package allure

import (
	"errors"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

// errExited is recorded when a body stops through runtime.Goexit, e.g. t.FailNow.
var errExited = errors.New("exited before completing")

// Step runs fn as a step. The step is always ended: with fn's error, with the
// panic raised by fn, or as failed when fn exits through runtime.Goexit.
// Panics are re-raised unchanged after the step is recorded.
func (c *Context) Step(name string, fn func() error, params ...model.Parameter) error {
	if err := c.StartStep(name, params...); err != nil {
		return err
	}

	completed := false
	defer func() {
		if completed {
			return
		}
		r := recover()
		if r == nil {
			_ = c.EndStep(errExited)
			return
		}
		_ = c.EndStep(FromPanic(r, stepPanicked))
		panic(r)
	}()

	fnErr := fn()
	completed = true
	if err := c.EndStep(fnErr); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

// Test records fn as a whole test. fn's error is returned unchanged unless the
// result could not be persisted. Panics are re-raised after the result is persisted.
func (c *Context) Test(name string, fn func(*Context) error, opts ...TestOption) (*model.TestResult, error) {
	c.StartTest(name, opts...)

	var (
		result    *model.TestResult
		persisted error
		completed bool
	)
	defer func() {
		if completed {
			return
		}
		r := recover()
		if r == nil {
			_, _ = c.EndTest(errExited)
			return
		}
		_, _ = c.EndTest(FromPanic(r, testPanicked))
		panic(r)
	}()

	fnErr := fn(c)
	completed = true
	result, persisted = c.EndTest(fnErr)
	if persisted != nil {
		return result, persisted
	}
	return result, fnErr
}
