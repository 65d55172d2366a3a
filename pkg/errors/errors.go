// Package errors provides structured errors carrying an HTTP status code,
// a message, optional metadata and a wrapped cause.
package errors

import (
	"fmt"
	"maps"
	"strings"
)

// UnknownCode is assigned when converting an untyped error.
const UnknownCode = 500

// Error is a structured error with an HTTP status code and optional metadata.
type Error struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	cause error
}

// New creates an error with the given code and formatted message.
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: message}
}

// FromError converts any error to *Error. Untyped errors map to UnknownCode.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if ge, ok := err.(*Error); ok {
		return ge
	}
	var ge *Error
	if As(err, &ge) {
		return ge
	}
	return New(UnknownCode, "%v", err)
}

// Wrap creates a new *Error with err as its cause. Returns nil for nil err.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "code=%d, message=%s", e.Code, e.Message)

	if len(e.Metadata) > 0 {
		b.WriteString(", metadata={")
		first := true
		for k, v := range e.Metadata {
			if !first {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
			first = false
		}
		b.WriteByte('}')
	}

	if e.cause != nil {
		b.WriteString(", cause=")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the wrapped cause.
func (e *Error) Cause() error {
	return e.cause
}

// Is matches errors by code and message so sentinel *Error values work
// with errors.Is across wrapping.
func (e *Error) Is(err error) bool {
	var ge *Error
	if As(err, &ge) {
		return e.Code == ge.Code && e.Message == ge.Message
	}
	return false
}

// WithCause returns a copy of the error with cause attached.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	err := e.clone()
	err.cause = cause
	return err
}

// WithMetadata returns a copy of the error with the given metadata merged in.
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}
	err := e.clone()
	if err.Metadata == nil {
		err.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(err.Metadata, m)
	return err
}

func (e *Error) clone() *Error {
	var metadata map[string]string
	if len(e.Metadata) > 0 {
		metadata = make(map[string]string, len(e.Metadata))
		maps.Copy(metadata, e.Metadata)
	}
	return &Error{
		Code:     e.Code,
		Message:  e.Message,
		Metadata: metadata,
		cause:    e.cause,
	}
}
