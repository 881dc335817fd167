package errors

import "github.com/pkg/errors"

// ErrorTracer is a custom error type that includes a message and an underlying error.
type ErrorTracer struct {
	Message string
	Code    ErrorCode
	Err     error
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// NewTracer creates a new ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
		Code:    GeneralInternalServerError,
	}
}

// TracerFromError creates a new ErrorTracer from an existing error, preserving the stack trace.
func TracerFromError(err error) *ErrorTracer {
	tracer := NewTracer(err.Error())
	tracer.Err = err
	if _, ok := err.(StackTracer); !ok {
		tracer.Err = errors.WithStack(err)
	}
	return tracer
}

// WithCode sets the error code and returns the tracer for chaining.
func (e *ErrorTracer) WithCode(code ErrorCode) *ErrorTracer {
	e.Code = code
	return e
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap wraps an existing error into the ErrorTracer, preserving the stack trace.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if _, ok := err.(StackTracer); !ok {
		e.Err = errors.WithStack(err)
	}
	return e
}

// StackTrace returns the stack trace of the underlying error if it implements StackTracer.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if errWithStack, ok := e.Unwrap().(StackTracer); ok {
		return errWithStack.StackTrace()
	}
	return nil
}

// CodeEquals checks whether a given error is an ErrorTracer carrying a specific code.
func CodeEquals(err error, code ErrorCode) bool {
	tracer, ok := err.(*ErrorTracer)
	if !ok {
		return false
	}
	return tracer.Code == code
}
