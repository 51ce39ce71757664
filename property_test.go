package jsonshape

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAddress struct {
	Street string `fake:"{street}"`
	City   string `fake:"{city}"`
	Zip    string `fake:"{zip}"`
}

type fakeContact struct {
	Name     string   `fake:"{name}"`
	Email    string   `fake:"{email}"`
	Bio      string   `fake:"{sentence:8}"`
	Age      int      `fake:"{number:1,120}"`
	Score    float64  `fake:"{float64range:0,1000}"`
	Active   bool     `fake:"{bool}"`
	Nicks    []string `fake:"{firstname}" fakesize:"3"`
	Address  fakeAddress
	Previous *fakeAddress
}

func TestParse_NormalizationInvariance(t *testing.T) {
	faker := gofakeit.New(42)
	w := NewWorker()
	for i := 0; i < 200; i++ {
		var expect fakeContact
		require.NoError(t, faker.Struct(&expect))
		if i%2 == 0 {
			expect.Previous = &fakeAddress{Street: faker.Street(), City: "New\tYork \"Old\"", Zip: faker.Zip()}
		}
		expect.Bio += " é \n end"

		compact, err := json.Marshal(expect)
		require.NoError(t, err)
		indented, err := json.MarshalIndent(expect, "", "\t ")
		require.NoError(t, err)

		fromCompact, err := ParseWith[fakeContact](w, string(compact))
		require.NoError(t, err)
		fromIndented, err := ParseWith[fakeContact](w, string(indented))
		require.NoError(t, err)

		assert.Equal(t, expect, fromCompact)
		assert.Equal(t, fromCompact, fromIndented)
	}
}

func TestParse_SliceElementsMatchIndependentParse(t *testing.T) {
	faker := gofakeit.New(7)
	w := NewWorker()
	for i := 0; i < 100; i++ {
		count := faker.Number(0, 20)
		items := make([]fakeAddress, count)
		for j := range items {
			require.NoError(t, faker.Struct(&items[j]))
		}
		data, err := json.Marshal(items)
		require.NoError(t, err)

		actual, err := ParseWith[[]fakeAddress](w, string(data))
		require.NoError(t, err)
		require.Len(t, actual, count)
		for j, item := range items {
			itemData, err := json.Marshal(item)
			require.NoError(t, err)
			independent, err := ParseWith[fakeAddress](w, string(itemData))
			require.NoError(t, err)
			assert.Equal(t, independent, actual[j])
		}
	}
}

func TestParse_MapMatchesGoccy(t *testing.T) {
	faker := gofakeit.New(3)
	for i := 0; i < 50; i++ {
		source := map[string][]int{}
		for j := faker.Number(0, 8); j > 0; j-- {
			values := make([]int, faker.Number(0, 5))
			for k := range values {
				values[k] = faker.Number(-1000, 1000)
			}
			source[faker.Word()+" "+faker.Word()] = values
		}
		data, err := json.MarshalIndent(source, "", "  ")
		require.NoError(t, err)

		var expect map[string][]int
		require.NoError(t, json.Unmarshal(data, &expect))
		actual, err := ParseAs[map[string][]int](string(data))
		require.NoError(t, err)
		assert.Equal(t, expect, actual)
	}
}
