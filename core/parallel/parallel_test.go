package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForEach_VisitsEveryIndexOnce(t *testing.T) {
	const items = 1000
	counts := make([]int32, items)

	ForEach(items, 0, func(i int) {
		atomic.AddInt32(&counts[i], 1)
	})

	for i, c := range counts {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

func TestForEach_ZeroItems(t *testing.T) {
	called := false
	ForEach(0, 4, func(i int) { called = true })
	if called {
		t.Error("fn should not be called for zero items")
	}
}

func TestForEach_BoundedWorkers(t *testing.T) {
	const items = 17
	var total int64
	ForEach(items, 3, func(i int) {
		atomic.AddInt64(&total, int64(i))
	})

	want := int64(items * (items - 1) / 2)
	if total != want {
		t.Errorf("sum of indices = %d, want %d", total, want)
	}
}

func TestForEachWithThreshold_SequentialBelowThreshold(t *testing.T) {
	// Sequential execution preserves order, so appends are safe without locks.
	var order []int
	ForEachWithThreshold(5, 10, 0, func(i int) {
		order = append(order, i)
	})

	for i, v := range order {
		if i != v {
			t.Fatalf("sequential path visited %v, want ascending order", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("visited %d items, want 5", len(order))
	}
}
