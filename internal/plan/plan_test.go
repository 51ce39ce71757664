package plan

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	ID   int
	Name string
}

type audit struct {
	Created string
}

type Record struct {
	Base
	*Extra
	audit
	Name    string `json:"title"`
	Hidden  string `json:"-"`
	Skip    string `format:"ignore=true"`
	Comment string `format:"name=note"`
	secret  string
}

type Extra struct {
	Level int
}

func TestNew_Members(t *testing.T) {
	aType, err := New(reflect.TypeOf(Record{}), nil)
	require.NoError(t, err)

	var names []string
	for _, accessor := range aType.Accessors {
		names = append(names, accessor.Name)
	}
	assert.ElementsMatch(t, []string{"ID", "Level", "Created", "title", "note"}, names)
	assert.Nil(t, aType.Lookup("Hidden"))
	assert.Nil(t, aType.Lookup("Skip"))
	assert.Nil(t, aType.Lookup("secret"))
	assert.Nil(t, aType.Lookup("Name"), "promoted Name is shadowed by the outer field")
}

func TestLookup_CaseInsensitive(t *testing.T) {
	aType, err := New(reflect.TypeOf(Record{}), nil)
	require.NoError(t, err)
	for _, key := range []string{"id", "ID", "Id", "TITLE", "Note", "created"} {
		assert.NotNil(t, aType.Lookup(key), key)
	}
	assert.Nil(t, aType.Lookup("unknown"))
}

func TestAccessor_SetAllocatesEmbeddedPointer(t *testing.T) {
	aType, err := New(reflect.TypeOf(Record{}), nil)
	require.NoError(t, err)
	record := &Record{}
	root := unsafe.Pointer(record)

	aType.Lookup("level").Set(root, reflect.ValueOf(7))
	aType.Lookup("id").Set(root, reflect.ValueOf(3))
	aType.Lookup("title").Set(root, reflect.ValueOf("outer"))
	aType.Lookup("created").Set(root, reflect.ValueOf("today"))

	require.NotNil(t, record.Extra)
	assert.Equal(t, 7, record.Level)
	assert.Equal(t, 3, record.ID)
	assert.Equal(t, "outer", record.Name)
	assert.Equal(t, "", record.Base.Name)
	assert.Equal(t, "today", record.Created)
}

func TestNew_Duplicate(t *testing.T) {
	type conflict struct {
		Value int
		Other int `json:"value"`
	}
	_, err := New(reflect.TypeOf(conflict{}), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Contains(t, err.Error(), "Other")
}

func TestNew_DuplicateAtSameDepth(t *testing.T) {
	type left struct{ Key string }
	type right struct{ Key string }
	type both struct {
		left
		right
	}
	_, err := New(reflect.TypeOf(both{}), nil)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestNew_DuplicateAcrossDepths(t *testing.T) {
	type titled struct {
		Title string `json:"name"`
	}
	type named struct {
		titled
		Name string
	}
	_, err := New(reflect.TypeOf(named{}), nil)
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "Title")
	assert.Contains(t, err.Error(), "Name")
}

func TestNew_CompileNameAlias(t *testing.T) {
	type sample struct {
		UserName string
		Fixed    string `json:"fixed"`
	}
	aType, err := New(reflect.TypeOf(sample{}), func(name string) string {
		return strings.ToLower(name[:1]) + name[1:] + "_alias"
	})
	require.NoError(t, err)
	assert.Equal(t, "UserName", aType.Lookup("userName_alias").Field)
	assert.Nil(t, aType.Lookup("fixed_alias"))
	assert.Len(t, aType.Accessors, 2)
}

func TestNew_RecursiveEmbedding(t *testing.T) {
	type Node struct {
		*Node
		Value int
	}
	aType, err := New(reflect.TypeOf(Node{}), nil)
	require.NoError(t, err)
	assert.NotNil(t, aType.Lookup("value"))
}

func TestNew_NotStruct(t *testing.T) {
	_, err := New(reflect.TypeOf(1), nil)
	require.Error(t, err)
}

func TestType_MarkPresence(t *testing.T) {
	type marker struct {
		ID   bool
		Name bool
	}
	type sample struct {
		ID   int
		Name string
		Has  *marker `setMarker:"true"`
	}
	aType, err := New(reflect.TypeOf(sample{}), nil)
	require.NoError(t, err)
	assert.Len(t, aType.Accessors, 2)
	assert.Nil(t, aType.Lookup("has"))

	value := &sample{}
	root := unsafe.Pointer(value)
	accessor := aType.Lookup("name")
	accessor.Set(root, reflect.ValueOf("x"))
	aType.Mark(root, accessor)

	require.NotNil(t, value.Has)
	assert.True(t, value.Has.Name)
	assert.False(t, value.Has.ID)
}
