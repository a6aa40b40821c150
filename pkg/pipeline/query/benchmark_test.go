package query

import "testing"

const benchmarkContent = `{"location":"Zurich","maxPrice":2500,"rooms":[3,4],"balcony":true,"garden":null}`

func BenchmarkParseFilters(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseFilters(benchmarkContent); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilters_Values(b *testing.B) {
	filters, err := ParseFilters(benchmarkContent)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = filters.Values()
	}
}
