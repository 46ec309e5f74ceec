package dispatch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/solgrind/solgrind/internal/kernel"
	"github.com/solgrind/solgrind/pkg/pattern"
)

// Pool executes the search kernel on a fixed pool of goroutines, one
// contiguous work-item range per worker. Its output is bitwise identical
// to a GPU back-end running the same kernel, which makes it both the
// reference the GPU path is verified against and a usable back-end in its
// own right.
type Pool struct {
	workers   int
	groupSize int
}

// NewPool creates a pool dispatcher. workers <= 0 selects one worker per
// CPU core.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers, groupSize: DefaultGroupSize}
}

// Name returns the back-end name.
func (p *Pool) Name() string { return "cpu-pool" }

// GroupSize returns the work-group granularity.
func (p *Pool) GroupSize() int { return p.groupSize }

// Dispatch runs work-items 0..batch-1 across the pool and returns when all
// have finished. A started dispatch always runs to completion; there is no
// in-flight cancellation, matching the GPU submission model.
func (p *Pool) Dispatch(_ context.Context, hostSeed [2]uint64, pat *pattern.Pattern, batch int, slot *kernel.ResultSlot) error {
	params := &kernel.Params{HostSeed: hostSeed, Pattern: pat}

	workers := p.workers
	if workers > batch {
		workers = batch
	}
	per := (batch + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * per
		hi := lo + per
		if hi > batch {
			hi = batch
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for id := lo; id < hi; id++ {
				kernel.Run(params, uint32(id), slot)
			}
			return nil
		})
	}
	return g.Wait()
}
