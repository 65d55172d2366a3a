package tag

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrTargetMustBePointer = errors.New("tag: target must be a non-nil pointer to struct")
	ErrUnsupportedType     = errors.New("tag: unsupported field type")
	ErrMaxDepthExceeded    = errors.New("tag: max nesting depth exceeded")
)

// FieldError reports which field a default value failed to apply to.
type FieldError struct {
	Path  string
	Kind  reflect.Kind
	Value string
	Err   error
}

func newFieldError(path string, kind reflect.Kind, value string, err error) *FieldError {
	return &FieldError{Path: path, Kind: kind, Value: value, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tag: field %s (%s): cannot apply default %q: %v", e.Path, e.Kind, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
