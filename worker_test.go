package jsonshape

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tagly/format/text"
)

func TestWorker_DegradationSink(t *testing.T) {
	type item struct {
		Color Color
		Tags  []string
	}
	type envelope struct {
		Items []item
		Meta  map[string]int
	}
	var reports []Degradation
	w := NewWorker(WithDegradationSink(func(d Degradation) { reports = append(reports, d) }))

	actual, err := ParseWith[envelope](w, `{"Items":[{"Color":"Blue","Tags":"x"}],"Meta":{"a":1,"b"}}`)
	require.NoError(t, err)
	require.Len(t, actual.Items, 1)
	assert.Equal(t, ColorNone, actual.Items[0].Color)
	assert.Nil(t, actual.Items[0].Tags)
	assert.Equal(t, map[string]int{"a": 1}, actual.Meta)

	require.Len(t, reports, 3)
	assert.Equal(t, "unknown enum name", reports[0].Reason)
	assert.Equal(t, "Items[0].Color", reports[0].Path.String())
	assert.Equal(t, `"Blue"`, reports[0].Text)
	assert.Equal(t, "expected array", reports[1].Reason)
	assert.Equal(t, "Items[0].Tags", reports[1].Path.String())
	assert.Equal(t, "dangling key", reports[2].Reason)
	assert.Equal(t, "Meta", reports[2].Path.String())

	segment, ok := reports[0].Path.At(1)
	require.True(t, ok)
	assert.Equal(t, SegmentIndex, segment.Kind)
	assert.Equal(t, 0, segment.Index)
	_, ok = reports[0].Path.At(5)
	assert.False(t, ok)
	assert.Equal(t, 3, reports[0].Path.Len())
}

func TestWorker_CaseFormat(t *testing.T) {
	type account struct {
		UserName string
		Nick     string `json:"nickName"`
		ID       int
	}
	var testCases = []struct {
		description string
		caseFormat  text.CaseFormat
		input       string
		expect      account
	}{
		{
			description: "lower underscore alias",
			caseFormat:  text.CaseFormatLowerUnderscore,
			input:       `{"user_name":"alice","nickName":"a","id":1}`,
			expect:      account{UserName: "alice", Nick: "a", ID: 1},
		},
		{
			description: "go name still matches",
			caseFormat:  text.CaseFormatLowerUnderscore,
			input:       `{"UserName":"bob"}`,
			expect:      account{UserName: "bob"},
		},
		{
			description: "explicit name gets no alias",
			caseFormat:  text.CaseFormatUpperUnderscore,
			input:       `{"NICK":"x","NICK_NAME":"y","USER_NAME":"z"}`,
			expect:      account{UserName: "z"},
		},
		{
			description: "no case format",
			input:       `{"user_name":"alice"}`,
			expect:      account{},
		},
	}
	for _, testCase := range testCases {
		w := NewWorker(WithCaseFormat(testCase.caseFormat))
		actual, err := ParseWith[account](w, testCase.input)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestWorker_PlanIsMemoized(t *testing.T) {
	w := NewWorker()
	_, err := ParseWith[counter](w, `{"Value":1}`)
	require.NoError(t, err)
	first, err := w.planFor(reflect.TypeOf(counter{}))
	require.NoError(t, err)
	second, err := w.planFor(reflect.TypeOf(counter{}))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, w.shapes.Len())
}

func TestWorker_ElementListsAreRecycled(t *testing.T) {
	w := NewWorker()
	_, err := ParseWith[[][]int](w, `[[1,2],[3]]`)
	require.NoError(t, err)
	retained := len(w.lists)
	assert.True(t, retained > 0)
	_, err = ParseWith[[][]int](w, `[[4],[5,6]]`)
	require.NoError(t, err)
	assert.Equal(t, retained, len(w.lists))
	for _, list := range w.lists {
		assert.Empty(t, list.items)
	}
}

func TestWorker_OversizedListsAreDropped(t *testing.T) {
	w := NewWorker()
	input := "[" + strings.TrimSuffix(strings.Repeat("1,", maxRetainedElements+1), ",") + "]"
	actual, err := ParseWith[[]int](w, input)
	require.NoError(t, err)
	assert.Len(t, actual, maxRetainedElements+1)
	assert.Empty(t, w.lists)
}

func TestWorker_CacheSizeOption(t *testing.T) {
	w := NewWorker(WithCacheSize(1), nil)
	assert.Equal(t, 1, w.Options().CacheSize)
	_, err := ParseWith[counter](w, `{"Value":1}`)
	require.NoError(t, err)
	_, err = ParseWith[pair](w, `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, 1, w.plans.Len())
	actual, err := ParseWith[counter](w, `{"Value":2}`)
	require.NoError(t, err)
	assert.Equal(t, 2, actual.Value)
}

func TestParse_Concurrent(t *testing.T) {
	wg := sync.WaitGroup{}
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				actual, err := ParseAs[document](`{"ID":5,"Tags":["a"],"Owner":{"Value":2}}`)
				if err != nil {
					errs <- err
					return
				}
				if actual.ID != 5 || actual.Owner.Value != 2 || len(actual.Tags) != 1 {
					t.Errorf("unexpected value: %+v", actual)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
