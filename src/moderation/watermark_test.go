package moderation

import (
	"context"
	"sync"
	"testing"
)

func TestWatermarkAdvanceMonotonic(t *testing.T) {
	ctx := context.Background()
	w := NewWatermark(ctx, nil, 1)

	if got := w.Advance(ctx, 10, 5); got != 15 {
		t.Fatalf("advance(10,5) = %d, want 15", got)
	}
	// Same input again is a no-op.
	if got := w.Advance(ctx, 10, 5); got != 15 {
		t.Fatalf("repeated advance(10,5) = %d, want 15", got)
	}
	// A smaller scan never moves the watermark back.
	if got := w.Advance(ctx, 3, 2); got != 15 {
		t.Fatalf("advance(3,2) = %d, want 15", got)
	}
	if got := w.Current(); got != 15 {
		t.Fatalf("Current() = %d, want 15", got)
	}
}

func TestWatermarkBaseline(t *testing.T) {
	w := NewWatermark(context.Background(), nil, 21900)
	if got := w.Current(); got != 21900 {
		t.Fatalf("Current() = %d, want baseline 21900", got)
	}

	w = NewWatermark(context.Background(), nil, -5)
	if got := w.Current(); got != 1 {
		t.Fatalf("Current() = %d, want clamped baseline 1", got)
	}
}

func TestWatermarkConcurrentAdvances(t *testing.T) {
	ctx := context.Background()
	w := NewWatermark(ctx, nil, 1)

	var wg sync.WaitGroup
	for _, in := range []struct{ start, count int }{{10, 5}, {15, 5}} {
		wg.Add(1)
		go func(start, count int) {
			defer wg.Done()
			w.Advance(ctx, start, count)
		}(in.start, in.count)
	}
	wg.Wait()

	if got := w.Current(); got != 20 {
		t.Fatalf("Current() = %d, want 20 regardless of completion order", got)
	}
}

func TestWatermarkSeed(t *testing.T) {
	ctx := context.Background()
	w := NewWatermark(ctx, nil, 100)

	w.Seed(ctx, 50)
	if got := w.Current(); got != 50 {
		t.Fatalf("Current() after Seed(50) = %d, want 50", got)
	}
	w.Seed(ctx, 0)
	if got := w.Current(); got != 1 {
		t.Fatalf("Current() after Seed(0) = %d, want 1", got)
	}
}
