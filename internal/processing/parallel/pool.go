// Package parallel splits row ranges of an image across a bounded set of
// goroutines.
//
// Usage:
//
//	pool := parallel.NewPool(params.Workers)
//	pool.ParallelFor(height, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        processRow(y)
//	    }
//	})
package parallel

import (
	"runtime"
	"sync"
)

// minChunk is the smallest number of rows handed to one goroutine.
const minChunk = 8

// Pool bounds the number of goroutines running at once. It holds no
// goroutines between calls, so a zero-cost Pool can be created per image.
type Pool struct {
	numWorkers int
	sem        chan struct{}
}

// NewPool creates a pool running at most numWorkers chunks concurrently.
// If numWorkers <= 0, uses GOMAXPROCS.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		numWorkers: numWorkers,
		sem:        make(chan struct{}, numWorkers),
	}
}

func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// ParallelFor executes fn over [0, n) split into contiguous ranges.
// fn receives (start, end) and must only write to outputs owned by that range.
// Blocks until all ranges complete.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, (n+minChunk-1)/minChunk)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)

		wg.Add(1)
		p.sem <- struct{}{} // acquire
		go func(start, end int) {
			defer wg.Done()
			defer func() { <-p.sem }() // release
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
