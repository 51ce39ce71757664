package jsonshape

import (
	"testing"

	"github.com/goccy/go-json"
)

type benchBasic struct {
	ID   int
	Name string
	Flag bool
}

type benchAdvanced struct {
	ID      int
	Name    string
	Score   float64
	Tags    []string
	Payload map[string]interface{}
	Child   *benchBasic
}

const benchAdvancedInput = `{"ID":11,"Name":"beta","Score":99.1,"Tags":["x","y","z"],"Payload":{"k1":1,"k2":"v2"},"Child":{"ID":1,"Name":"child","Flag":true}}`

func BenchmarkUnmarshal_Basic(b *testing.B) {
	data := `{"ID":7,"Name":"alpha","Flag":true}`
	w := NewWorker()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var out benchBasic
		if err := w.Unmarshal(data, &out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshal_Advanced(b *testing.B) {
	w := NewWorker()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var out benchAdvanced
		if err := w.Unmarshal(benchAdvancedInput, &out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshal_Advanced_Pooled(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			var out benchAdvanced
			if err := Unmarshal(benchAdvancedInput, &out); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkUnmarshal_Advanced_Goccy(b *testing.B) {
	data := []byte(benchAdvancedInput)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var out benchAdvanced
		if err := json.Unmarshal(data, &out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseUntyped(b *testing.B) {
	w := NewWorker()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if node := w.ParseUntyped(benchAdvancedInput); node.Kind != KindObject {
			b.Fatalf("unexpected kind: %v", node.Kind)
		}
	}
}
