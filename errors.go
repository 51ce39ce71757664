package jsonshape

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/jsonshape/internal/plan"
)

var (
	// ErrConversion matches hard primitive conversion failures.
	ErrConversion = errors.New("conversion failed")
	// ErrUnsupportedShape matches destination shapes that cannot be constructed.
	ErrUnsupportedShape = errors.New("unsupported shape")
	// ErrDuplicateMember matches struct types with two members sharing an external name.
	ErrDuplicateMember = plan.ErrDuplicate
	// ErrInvalidDestination matches nil or non-pointer destinations.
	ErrInvalidDestination = errors.New("invalid destination")
)

// ConversionError reports primitive text that could not be converted to the requested kind.
type ConversionError struct {
	Text string
	Type reflect.Type
	Path []string
	Err  error
}

func (e *ConversionError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Text, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to %s at %s: %v", e.Text, e.Type, e.Location(), e.Err)
}

// Location renders Path with dotted members and bracketed indexes.
func (e *ConversionError) Location() string {
	builder := strings.Builder{}
	for _, segment := range e.Path {
		if builder.Len() > 0 && !strings.HasPrefix(segment, "[") {
			builder.WriteByte('.')
		}
		builder.WriteString(segment)
	}
	return builder.String()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is matches ErrConversion.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// ShapeError reports a destination shape that cannot be used, independent of input data.
type ShapeError struct {
	Type   reflect.Type
	Member string
	Err    error
}

func (e *ShapeError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("invalid shape %v: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("invalid shape %v, member %s: %v", e.Type, e.Member, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

func withPath(err error, segment string) error {
	var conversionErr *ConversionError
	if errors.As(err, &conversionErr) {
		conversionErr.Path = append([]string{segment}, conversionErr.Path...)
	}
	return err
}
