package jsonshape

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	nodeType    = reflect.TypeOf(Node{})
	nodePtrType = reflect.TypeOf((*Node)(nil))
	enumType    = reflect.TypeOf((*Enum)(nil)).Elem()
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
	timePtrType = reflect.TypeOf((*time.Time)(nil))
)

// Enum is implemented by named integer types to expose their member names.
// Names match case-insensitively; an unknown name yields the type's zero value.
type Enum interface {
	EnumValues() map[string]int64
}

// Degradation describes input that was recovered locally instead of failing.
type Degradation struct {
	Path   PathRef
	Reason string
	Text   string
}

// PathRef references path segments without eager string allocation.
type PathRef struct {
	segments []PathSegment
}

func (p PathRef) Len() int { return len(p.segments) }

func (p PathRef) At(i int) (PathSegment, bool) {
	if i < 0 || i >= len(p.segments) {
		return PathSegment{}, false
	}
	return p.segments[i], true
}

// String renders the path as dotted members and bracketed indexes.
func (p PathRef) String() string {
	builder := strings.Builder{}
	for _, segment := range p.segments {
		switch segment.Kind {
		case SegmentIndex:
			builder.WriteByte('[')
			builder.WriteString(strconv.Itoa(segment.Index))
			builder.WriteByte(']')
		default:
			if builder.Len() > 0 {
				builder.WriteByte('.')
			}
			builder.WriteString(segment.Field)
		}
	}
	return builder.String()
}

// PathSegment describes one path component.
type PathSegment struct {
	Field string
	Index int
	Kind  SegmentKind
}

// SegmentKind identifies path segment type.
type SegmentKind int

const (
	SegmentField SegmentKind = iota
	SegmentIndex
)

type pathState struct {
	segments []PathSegment
}

func (p *pathState) pushField(name string) {
	p.segments = append(p.segments, PathSegment{Kind: SegmentField, Field: name})
}

func (p *pathState) pushIndex(index int) {
	p.segments = append(p.segments, PathSegment{Kind: SegmentIndex, Index: index})
}

func (p *pathState) pop() {
	if len(p.segments) == 0 {
		return
	}
	p.segments = p.segments[:len(p.segments)-1]
}

func (p *pathState) ref() PathRef {
	cp := make([]PathSegment, len(p.segments))
	copy(cp, p.segments)
	return PathRef{segments: cp}
}
