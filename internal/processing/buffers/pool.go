package buffers

import (
	"sync"
)

// Pool recycles float64 scratch buffers of equal length within one
// dehazing call. It is never shared between calls.
type Pool struct {
	free    map[int][][]float64
	maxSize int
	hits    int
	misses  int
	mu      sync.Mutex
}

// Stats reports how often Get was served from recycled buffers.
type Stats struct {
	Hits   int
	Misses int
	Pooled int
}

// NewPool keeps at most maxSize idle buffers per length.
func NewPool(maxSize int) *Pool {
	return &Pool{
		free:    make(map[int][][]float64),
		maxSize: maxSize,
	}
}

// Get returns a buffer of length n. Recycled buffers are not zeroed; callers
// must overwrite every element.
func (p *Pool) Get(n int) []float64 {
	if p == nil {
		return make([]float64, n)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bufs := p.free[n]
	if len(bufs) == 0 {
		p.misses++
		return make([]float64, n)
	}

	buf := bufs[len(bufs)-1]
	p.free[n] = bufs[:len(bufs)-1]
	p.hits++
	return buf
}

// Put hands buf back. It reports false when the pool for that length is full.
func (p *Pool) Put(buf []float64) bool {
	if p == nil || len(buf) == 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(buf)
	if len(p.free[n]) >= p.maxSize {
		return false
	}

	p.free[n] = append(p.free[n], buf)
	return true
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	pooled := 0
	for _, bufs := range p.free {
		pooled += len(bufs)
	}
	return Stats{Hits: p.hits, Misses: p.misses, Pooled: pooled}
}

// Cleanup drops every idle buffer and returns how many were released.
func (p *Pool) Cleanup() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for n, bufs := range p.free {
		count += len(bufs)
		delete(p.free, n)
	}
	return count
}
