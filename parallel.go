package memtable

import (
	"runtime"
	"sync"
)

// parallelMinRows is the row count from which engine-internal bulk
// scans (GroupBy, Unique, Find) fan out to worker goroutines.
// Below it the goroutine and merge overhead outweighs the scan.
const parallelMinRows = 8192

type chunkRange struct {
	start, end int
}

func splitChunks(n, workers int) []chunkRange {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		return nil
	}
	chunks := make([]chunkRange, 0, workers)
	size := n / workers
	rest := n % workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < rest {
			end++
		}
		chunks = append(chunks, chunkRange{start: start, end: end})
		start = end
	}
	return chunks
}

// runChunked partitions the row range [0,n) into one contiguous chunk
// per processor, runs fn for every chunk on its own goroutine and
// returns the chunk results ordered by chunk, so that concatenating
// them preserves ascending row order.
// The first chunk error in chunk order is returned.
func runChunked[T any](n int, fn func(start, end int) (T, error)) ([]T, error) {
	chunks := splitChunks(n, runtime.GOMAXPROCS(0))
	results := make([]T, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = fn(chunk.start, chunk.end)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
