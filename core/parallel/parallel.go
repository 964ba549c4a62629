// Package parallel provides CPU-chunked parallel loops used by grid search and
// nearest-neighbor prediction.
package parallel

import (
	"runtime"
	"sync"
)

// ForEach runs fn(i) for every i in [0, items) across at most maxWorkers
// goroutines. Each worker processes a contiguous chunk of indices.
// maxWorkers <= 0 means one worker per CPU core.
func ForEach(items, maxWorkers int, fn func(i int)) {
	if items == 0 {
		return
	}

	numWorkers := maxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}

	// Number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}

// ForEachWithThreshold runs sequentially when items is at or below threshold,
// in parallel otherwise. Small fold counts are not worth the goroutine setup.
func ForEachWithThreshold(items, threshold, maxWorkers int, fn func(i int)) {
	if items <= threshold {
		for i := 0; i < items; i++ {
			fn(i)
		}
		return
	}
	ForEach(items, maxWorkers, fn)
}
