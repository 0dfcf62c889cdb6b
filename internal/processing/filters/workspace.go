package filters

import (
	"dehazer/internal/models"
	"dehazer/internal/processing/buffers"
	"dehazer/internal/processing/parallel"
)

// maxPooledPerSize bounds idle scratch fields kept per image size.
const maxPooledPerSize = 8

// Workspace carries the worker pool and scratch buffers of a single dehazing
// call. A nil *Workspace is valid and behaves like NewWorkspace(0).
type Workspace struct {
	Workers *parallel.Pool
	Buffers *buffers.Pool
}

func NewWorkspace(workers int) *Workspace {
	return &Workspace{
		Workers: parallel.NewPool(workers),
		Buffers: buffers.NewPool(maxPooledPerSize),
	}
}

func (w *Workspace) orDefault() *Workspace {
	if w == nil {
		return NewWorkspace(0)
	}
	if w.Workers == nil {
		return &Workspace{Workers: parallel.NewPool(0), Buffers: w.Buffers}
	}
	return w
}

// NewField returns a width x height field backed by a scratch buffer. Its
// contents are undefined until written.
func (w *Workspace) NewField(width, height int) *models.Field {
	var pool *buffers.Pool
	if w != nil {
		pool = w.Buffers
	}
	return &models.Field{
		Width:  width,
		Height: height,
		Data:   pool.Get(width * height),
	}
}

// Release returns the buffers of fields that are no longer read.
func (w *Workspace) Release(fields ...*models.Field) {
	if w == nil {
		return
	}
	for _, f := range fields {
		if f != nil {
			w.Buffers.Put(f.Data)
		}
	}
}

// Rows runs fn over [0, n) row ranges on the worker pool.
func (w *Workspace) Rows(n int, fn func(start, end int)) {
	w.orDefault().Workers.ParallelFor(n, fn)
}
