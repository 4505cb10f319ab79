package integration

import (
	"testing"

	"github.com/fairyhunter13/brand-price-service/internal/engine"
	"github.com/fairyhunter13/brand-price-service/internal/model"
	"github.com/fairyhunter13/brand-price-service/internal/seed"
	"github.com/fairyhunter13/brand-price-service/internal/store"
)

func seededSnapshot(b *testing.B) []model.Brand {
	b.Helper()
	brands, err := seed.Load("")
	if err != nil {
		b.Fatalf("seed: %v", err)
	}
	st := store.New()
	st.Load(brands)
	return st.Snapshot()
}

func BenchmarkLowestPerCategory(b *testing.B) {
	snap := seededSnapshot(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.LowestPerCategory(snap)
	}
}

func BenchmarkCheapestBundle(b *testing.B) {
	snap := seededSnapshot(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := engine.CheapestBundle(snap); !ok {
			b.Fatalf("expected winner")
		}
	}
}

func BenchmarkMinMaxForCategory(b *testing.B) {
	snap := seededSnapshot(b)
	cat := model.Categories()[0]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.MinMaxForCategory(snap, cat)
	}
}

func BenchmarkSnapshot(b *testing.B) {
	brands, err := seed.Load("")
	if err != nil {
		b.Fatalf("seed: %v", err)
	}
	st := store.New()
	st.Load(brands)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st.Snapshot()
	}
}
