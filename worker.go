package jsonshape

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/valyala/bytebufferpool"
	"github.com/viant/jsonshape/internal/lru"
	"github.com/viant/jsonshape/internal/plan"
	"github.com/viant/jsonshape/internal/scan"
)

// maxRetainedElements caps the capacity of element lists returned to the free list.
const maxRetainedElements = 1024

// Worker owns the shape caches and scratch pools used by parse calls.
// A Worker is not safe for concurrent use; give each goroutine its own.
type Worker struct {
	options     Options
	compileName func(string) string
	plans       *lru.Cache[reflect.Type, *plan.Type]
	shapes      *lru.Cache[reflect.Type, error]
	enums       *lru.Cache[reflect.Type, map[string]int64]
	buffers     bytebufferpool.Pool
	lists       []*elementList
	path        pathState
}

type elementList struct {
	items []string
}

// NewWorker creates a worker with its own caches and pools.
func NewWorker(opts ...Option) *Worker {
	options := resolveOptions(opts)
	ret := &Worker{
		options: options,
		plans:   lru.New[reflect.Type, *plan.Type](options.CacheSize),
		shapes:  lru.New[reflect.Type, error](options.CacheSize),
		enums:   lru.New[reflect.Type, map[string]int64](options.CacheSize),
	}
	if options.CaseFormat != "" {
		ret.compileName = caseFormatTransformer{caseFormat: options.CaseFormat}.Transform
	}
	return ret
}

// Options returns the resolved worker options.
func (w *Worker) Options() Options {
	return w.options
}

func (w *Worker) split(text string) *elementList {
	var list *elementList
	if n := len(w.lists); n > 0 {
		list = w.lists[n-1]
		w.lists = w.lists[:n-1]
	} else {
		list = &elementList{}
	}
	list.items = scan.Split(text, list.items[:0])
	return list
}

func (w *Worker) release(list *elementList) {
	if cap(list.items) > maxRetainedElements {
		return
	}
	clear(list.items)
	list.items = list.items[:0]
	w.lists = append(w.lists, list)
}

func (w *Worker) compact(text string) string {
	buf := w.buffers.Get()
	var ret string
	ret, buf.B = scan.Compact(buf.B[:0], text)
	w.buffers.Put(buf)
	return ret
}

func (w *Worker) tracking() bool {
	return w.options.DegradationSink != nil
}

func (w *Worker) degrade(reason, text string) {
	if w.options.DegradationSink == nil {
		return
	}
	w.options.DegradationSink(Degradation{Path: w.path.ref(), Reason: reason, Text: text})
}

func (w *Worker) planFor(rType reflect.Type) (*plan.Type, error) {
	if aPlan, ok := w.plans.Get(rType); ok {
		return aPlan, nil
	}
	aPlan, err := plan.New(rType, w.compileName)
	if err != nil {
		return nil, err
	}
	w.plans.Set(rType, aPlan)
	return aPlan, nil
}

func (w *Worker) enumValues(rType reflect.Type) map[string]int64 {
	if values, ok := w.enums.Get(rType); ok {
		return values
	}
	declared := reflect.New(rType).Interface().(Enum).EnumValues()
	values := make(map[string]int64, len(declared))
	for name, value := range declared {
		values[strings.ToLower(name)] = value
	}
	w.enums.Set(rType, values)
	return values
}

// validate checks once per worker that rType can be constructed.
func (w *Worker) validate(rType reflect.Type) error {
	if err, ok := w.shapes.Get(rType); ok {
		return err
	}
	err := w.checkShape(rType, map[reflect.Type]bool{})
	w.shapes.Set(rType, err)
	return err
}

func (w *Worker) checkShape(rType reflect.Type, visiting map[reflect.Type]bool) error {
	if visiting[rType] {
		return nil
	}
	switch rType {
	case nodeType, nodePtrType, decimalType, timeType:
		return nil
	}
	switch rType.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Interface:
		if rType.NumMethod() == 0 {
			return nil
		}
		return &ShapeError{Type: rType, Err: fmt.Errorf("%w: interface with methods", ErrUnsupportedShape)}
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return w.checkShape(rType.Elem(), visiting)
	case reflect.Map:
		if rType.Key().Kind() != reflect.String {
			return nil
		}
		return w.checkShape(rType.Elem(), visiting)
	case reflect.Struct:
		visiting[rType] = true
		defer delete(visiting, rType)
		aPlan, err := w.planFor(rType)
		if err != nil {
			return &ShapeError{Type: rType, Err: err}
		}
		for _, accessor := range aPlan.Accessors {
			if err = w.checkShape(accessor.Type, visiting); err != nil {
				var shapeErr *ShapeError
				if errors.As(err, &shapeErr) && shapeErr.Member == "" && shapeErr.Type == accessor.Type {
					shapeErr.Type = rType
					shapeErr.Member = accessor.Field
					return shapeErr
				}
				return &ShapeError{Type: rType, Member: accessor.Field, Err: err}
			}
		}
		return nil
	}
	return &ShapeError{Type: rType, Err: fmt.Errorf("%w: %s", ErrUnsupportedShape, rType.Kind())}
}
