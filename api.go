// Package jsonshape parses JSON text into values whose shape is given by a Go type,
// or into an untyped Node graph when no shape is known. Malformed data degrades
// toward null or zero values; only unusable shapes and primitive conversion
// failures are reported as errors.
package jsonshape

import (
	"fmt"
	"reflect"
	"sync"
)

var workers = sync.Pool{New: func() interface{} { return NewWorker() }}

// Parse parses text into a new value of shape using a pooled worker.
// A nil result with a nil error means the input resolved to null.
func Parse(text string, shape reflect.Type) (interface{}, error) {
	w := workers.Get().(*Worker)
	defer workers.Put(w)
	return w.Parse(text, shape)
}

// ParseAs parses text into a value of T.
func ParseAs[T any](text string) (T, error) {
	var ret T
	err := Unmarshal(text, &ret)
	return ret, err
}

// Unmarshal parses text into the value dest points to.
func Unmarshal(text string, dest interface{}) error {
	w := workers.Get().(*Worker)
	defer workers.Put(w)
	return w.Unmarshal(text, dest)
}

// ParseUntyped parses text without a destination shape.
func ParseUntyped(text string) *Node {
	w := workers.Get().(*Worker)
	defer workers.Put(w)
	return w.ParseUntyped(text)
}

// ParseWith parses text into a value of T using w.
func ParseWith[T any](w *Worker, text string) (T, error) {
	var ret T
	err := w.Unmarshal(text, &ret)
	return ret, err
}

// Parse parses text into a new value of shape.
func (w *Worker) Parse(text string, shape reflect.Type) (interface{}, error) {
	if shape == nil {
		return nil, &ShapeError{Err: fmt.Errorf("%w: nil shape", ErrUnsupportedShape)}
	}
	if err := w.validate(shape); err != nil {
		return nil, err
	}
	w.path.segments = w.path.segments[:0]
	value, err := w.parse(w.compact(text), shape)
	if err != nil || !value.IsValid() {
		return nil, err
	}
	return value.Interface(), nil
}

// Unmarshal parses text into the value dest points to; null leaves it zeroed.
func (w *Worker) Unmarshal(text string, dest interface{}) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.IsNil() {
		return &ShapeError{Type: reflect.TypeOf(dest), Err: ErrInvalidDestination}
	}
	target := destValue.Elem()
	if err := w.validate(target.Type()); err != nil {
		return err
	}
	w.path.segments = w.path.segments[:0]
	value, err := w.parse(w.compact(text), target.Type())
	if err != nil {
		return err
	}
	if !value.IsValid() {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	target.Set(value)
	return nil
}

// ParseUntyped parses text without a destination shape.
func (w *Worker) ParseUntyped(text string) *Node {
	w.path.segments = w.path.segments[:0]
	return w.parseNode(w.compact(text))
}
