package allure

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

const (
	stepPanicked = "step panicked"
	testPanicked = "test panicked"
)

type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

// Skip returns an outcome that marks a test or step as skipped.
func Skip(reason string) error {
	return &skipError{reason: reason}
}

type brokenError struct {
	err error
}

func (e *brokenError) Error() string { return e.err.Error() }
func (e *brokenError) Unwrap() error { return e.err }

// Broken marks err as an unexpected failure rather than a failed check.
func Broken(err error) error {
	if err == nil {
		return nil
	}
	return &brokenError{err: err}
}

// PanicError is the outcome recorded for a panic raised by a test or step body.
type PanicError struct {
	Value   any
	Message string
	Stack   []byte
}

func (e *PanicError) Error() string { return e.Message }

// Trace returns the stack captured when the panic was recovered.
func (e *PanicError) Trace() string { return string(e.Stack) }

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// FromPanic converts a recovered panic value into an outcome. String payloads
// are used verbatim, errors by their message; anything else gets the generic message.
func FromPanic(v any, generic string) *PanicError {
	msg := generic
	switch p := v.(type) {
	case string:
		msg = p
	case error:
		msg = p.Error()
	}
	return &PanicError{Value: v, Message: msg, Stack: debug.Stack()}
}

// Classify maps an outcome onto a status. nil is passed; errors wrapping Skip
// are skipped, errors wrapping Broken are broken, everything else failed.
func Classify(err error) (model.Status, *model.StatusDetails) {
	if err == nil {
		return model.StatusPassed, nil
	}

	details := &model.StatusDetails{Message: message(err)}
	var tracer interface{ Trace() string }
	if errors.As(err, &tracer) {
		details.Trace = tracer.Trace()
	}

	var skip *skipError
	if errors.As(err, &skip) {
		return model.StatusSkipped, details
	}
	var broken *brokenError
	if errors.As(err, &broken) {
		return model.StatusBroken, details
	}
	return model.StatusFailed, details
}

// message never fails, even for errors whose Error method panics.
func message(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("unprintable error of type %T", err)
		}
	}()
	return err.Error()
}
