// Package dispatch abstracts the compute back-end that executes a batch of
// search work-items. The batch driver talks only to the Dispatcher
// interface; whether work-items run on GPU threads or a CPU worker pool is
// invisible to it.
package dispatch

import (
	"context"

	"github.com/pkg/errors"

	"github.com/solgrind/solgrind/internal/kernel"
	"github.com/solgrind/solgrind/pkg/pattern"
)

// ErrGPUUnavailable is returned by NewGPU when no GPU binding layer has
// registered itself.
var ErrGPUUnavailable = errors.New("dispatch: no GPU compute back-end available")

// DefaultGroupSize is the work-group size back-ends default to. Batch sizes
// are rounded up to a multiple of the group size.
const DefaultGroupSize = 64

// Dispatcher executes batches of search work-items.
//
// Dispatch runs work-items 0..batch-1 against the given host seed and
// pattern, writing at most one match into slot, and returns only once every
// work-item has completed. That completion is the total synchronisation
// point the result protocol relies on: the host must not read slot while a
// dispatch is in flight.
type Dispatcher interface {
	// Name identifies the back-end for display.
	Name() string

	// GroupSize returns the work-group granularity batches are rounded to.
	GroupSize() int

	// Dispatch executes one batch. A dispatch that has started is run to
	// completion; ctx is consulted by back-ends only where the underlying
	// API supports safe early teardown.
	Dispatch(ctx context.Context, hostSeed [2]uint64, pat *pattern.Pattern, batch int, slot *kernel.ResultSlot) error
}

// RoundUpBatch rounds batch up to a whole number of groups.
func RoundUpBatch(batch, groupSize int) int {
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	if rem := batch % groupSize; rem != 0 {
		batch += groupSize - rem
	}
	return batch
}
