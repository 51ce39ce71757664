package plan

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/viant/jsonshape/internal/tagutil"
	"github.com/viant/xunsafe"
)

// ErrDuplicate reports two members resolving to the same external name.
var ErrDuplicate = errors.New("duplicate member name")

// SetMarkerTag flags the struct field holding per-member presence booleans.
const SetMarkerTag = "setMarker"

// Type maps case-insensitive external key names to member accessors of one struct type.
type Type struct {
	Accessors []*Accessor
	Presence  *Presence
	byName    map[string]*Accessor
	byFold    map[uint64][]foldEntry
}

// Presence records which members were supplied by the input.
type Presence struct {
	holder *xunsafe.Field
	flags  map[string]*xunsafe.Field
}

type foldEntry struct {
	key      string
	accessor *Accessor
}

type candidate struct {
	accessor *Accessor
	depth    int
	explicit bool
}

// New builds the accessor map of rType. compileName, when set, supplies an alias for
// members without an explicit external name.
func New(rType reflect.Type, compileName func(string) string) (*Type, error) {
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", rType.String())
	}
	var candidates []*candidate
	presence := newPresence(rType)
	collect(rType, nil, 0, map[reflect.Type]bool{rType: true}, &candidates)

	shallowest := make(map[string]int, len(candidates))
	for _, c := range candidates {
		if depth, ok := shallowest[c.accessor.Field]; !ok || c.depth < depth {
			shallowest[c.accessor.Field] = c.depth
		}
	}
	ret := &Type{
		Presence: presence,
		byName:   make(map[string]*Accessor, len(candidates)),
		byFold:   make(map[uint64][]foldEntry, len(candidates)),
	}
	var implicit []*Accessor
	for _, c := range candidates {
		if c.depth != shallowest[c.accessor.Field] {
			continue
		}
		if existing := ret.Lookup(c.accessor.Name); existing != nil {
			return nil, fmt.Errorf("%w: %q declared by %s and %s in %s", ErrDuplicate, c.accessor.Name, existing.Field, c.accessor.Field, rType.String())
		}
		if presence != nil && c.depth == 0 {
			c.accessor.presence = presence.flags[c.accessor.Field]
		}
		ret.add(c.accessor.Name, c.accessor)
		ret.Accessors = append(ret.Accessors, c.accessor)
		if !c.explicit {
			implicit = append(implicit, c.accessor)
		}
	}
	if compileName != nil {
		for _, accessor := range implicit {
			alias := compileName(accessor.Name)
			if alias == "" || ret.Lookup(alias) != nil {
				continue
			}
			ret.add(alias, accessor)
		}
	}
	return ret, nil
}

func collect(rType reflect.Type, parent []*xunsafe.Field, depth int, visiting map[reflect.Type]bool, candidates *[]*candidate) {
	for i := 0; i < rType.NumField(); i++ {
		sf := rType.Field(i)
		if depth == 0 && isSetMarker(sf) {
			continue
		}
		tag := tagutil.ResolveMemberTag(sf)
		if tag.Ignore {
			continue
		}
		xField := xunsafe.NewField(sf)
		chain := append(append([]*xunsafe.Field{}, parent...), xField)
		if tag.Inline {
			inlineType := sf.Type
			if inlineType.Kind() == reflect.Ptr {
				if sf.PkgPath != "" {
					continue
				}
				inlineType = inlineType.Elem()
			}
			if inlineType.Kind() == reflect.Struct {
				if !visiting[inlineType] {
					visiting[inlineType] = true
					collect(inlineType, chain, depth+1, visiting, candidates)
					delete(visiting, inlineType)
				}
				continue
			}
		}
		if sf.PkgPath != "" {
			continue
		}
		*candidates = append(*candidates, &candidate{
			accessor: &Accessor{
				Name:       tag.Name,
				Field:      sf.Name,
				Type:       sf.Type,
				TimeLayout: tag.TimeLayout,
				chain:      chain,
			},
			depth:    depth,
			explicit: tag.Explicit,
		})
	}
}

func isSetMarker(sf reflect.StructField) bool {
	if sf.Tag.Get(SetMarkerTag) != "true" {
		return false
	}
	holderType := sf.Type
	if holderType.Kind() == reflect.Ptr {
		holderType = holderType.Elem()
	}
	return holderType.Kind() == reflect.Struct
}

func newPresence(rType reflect.Type) *Presence {
	for i := 0; i < rType.NumField(); i++ {
		sf := rType.Field(i)
		if !isSetMarker(sf) {
			continue
		}
		ret := &Presence{holder: xunsafe.NewField(sf), flags: map[string]*xunsafe.Field{}}
		holderType := sf.Type
		if holderType.Kind() == reflect.Ptr {
			holderType = holderType.Elem()
		}
		for j := 0; j < holderType.NumField(); j++ {
			if flag := holderType.Field(j); flag.Type.Kind() == reflect.Bool {
				ret.flags[flag.Name] = xunsafe.NewField(flag)
			}
		}
		return ret
	}
	return nil
}

// Holder returns the presence holder address within the struct at root, allocating a nil pointer holder.
func (p *Presence) Holder(root unsafe.Pointer) unsafe.Pointer {
	ptr := p.holder.Pointer(root)
	if p.holder.Type.Kind() != reflect.Ptr {
		return ptr
	}
	next := (*unsafe.Pointer)(ptr)
	if *next == nil {
		*next = unsafe.Pointer(reflect.New(p.holder.Type.Elem()).Pointer())
	}
	return *next
}

// Lookup returns the accessor matching key case-insensitively, or nil.
func (t *Type) Lookup(key string) *Accessor {
	if accessor, ok := t.byName[key]; ok {
		return accessor
	}
	for _, candidate := range t.byFold[foldedHash(key)] {
		if strings.EqualFold(candidate.key, key) {
			return candidate.accessor
		}
	}
	return nil
}

func (t *Type) add(name string, accessor *Accessor) {
	if _, ok := t.byName[name]; !ok {
		t.byName[name] = accessor
	}
	h := foldedHash(name)
	t.byFold[h] = append(t.byFold[h], foldEntry{key: name, accessor: accessor})
}

func foldedHash(s string) uint64 {
	const (
		offset64 = 1469598103934665603
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h ^= uint64(c)
		h *= prime64
	}
	return h
}

// Accessor sets one member, possibly promoted through embedded structs.
type Accessor struct {
	Name       string
	Field      string
	Type       reflect.Type
	TimeLayout string
	chain      []*xunsafe.Field
	presence   *xunsafe.Field
}

// Pointer returns the member address within the struct at root, allocating
// nil embedded pointers on the way.
func (a *Accessor) Pointer(root unsafe.Pointer) unsafe.Pointer {
	current := root
	last := len(a.chain) - 1
	for i, field := range a.chain {
		ptr := field.Pointer(current)
		if i == last {
			return ptr
		}
		if field.Type.Kind() == reflect.Ptr {
			next := (*unsafe.Pointer)(ptr)
			if *next == nil {
				*next = unsafe.Pointer(reflect.New(field.Type.Elem()).Pointer())
			}
			current = *next
			continue
		}
		current = ptr
	}
	return current
}

// Set assigns value, which must be of the accessor type, to the member of the struct at root.
func (a *Accessor) Set(root unsafe.Pointer, value reflect.Value) {
	reflect.NewAt(a.Type, a.Pointer(root)).Elem().Set(value)
}

// Mark flags the member as present when the struct declares a set marker holder.
func (t *Type) Mark(root unsafe.Pointer, accessor *Accessor) {
	if t.Presence == nil || accessor.presence == nil {
		return
	}
	*(*bool)(accessor.presence.Pointer(t.Presence.Holder(root))) = true
}
