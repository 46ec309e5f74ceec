// Package batch implements the host-side batch driver: it owns a compute
// dispatcher, the state and result buffers, and the multi-match loop that
// reseeds, dispatches, harvests and verifies.
package batch

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/solgrind/solgrind/internal/kernel"
	"github.com/solgrind/solgrind/pkg/dispatch"
	"github.com/solgrind/solgrind/pkg/generator"
)

// Driver runs the one-dispatch-one-result-slot search loop: each iteration
// zeroes the slot, draws a fresh 128-bit host seed from the OS CSPRNG,
// dispatches a batch, and harvests at most one verified match.
type Driver struct {
	disp dispatch.Dispatcher
	log  *zap.Logger

	attempts  atomic.Uint64
	found     atomic.Uint64
	startTime time.Time

	mu  sync.Mutex
	err error
}

// New creates a batch driver over the given dispatcher. A nil logger
// disables logging.
func New(disp dispatch.Dispatcher, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{disp: disp, log: log}
}

// Name returns the underlying dispatcher name.
func (d *Driver) Name() string { return d.disp.Name() }

// Stats returns current performance statistics.
func (d *Driver) Stats() generator.Stats {
	attempts := d.attempts.Load()
	elapsed := time.Since(d.startTime).Seconds()

	var rate float64
	if elapsed > 0 {
		rate = float64(attempts) / elapsed
	}
	return generator.Stats{
		Attempts:    attempts,
		HashRate:    rate,
		ElapsedSecs: elapsed,
		Found:       d.found.Load(),
	}
}

// Err returns the terminal error of a finished search, if any.
func (d *Driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Driver) setErr(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

// Start begins the search loop. The returned channel receives every
// verified match and is closed when the loop ends: after Count matches,
// on context cancellation, or on a terminal dispatch or verification
// failure (reported by Err).
func (d *Driver) Start(ctx context.Context, config *generator.Config) (<-chan generator.Result, error) {
	if config.Pattern == nil {
		return nil, errors.New("batch: config has no pattern")
	}

	batch := config.BatchSize
	if batch <= 0 {
		batch = generator.DefaultBatchSize
	}
	batch = dispatch.RoundUpBatch(batch, d.disp.GroupSize())

	d.startTime = time.Now()
	d.attempts.Store(0)
	d.found.Store(0)
	d.setErr(nil)

	results := make(chan generator.Result, 1)
	go d.run(ctx, config, batch, results)
	return results, nil
}

func (d *Driver) run(ctx context.Context, config *generator.Config, batch int, results chan<- generator.Result) {
	defer close(results)

	d.log.Debug("search loop starting",
		zap.String("dispatcher", d.disp.Name()),
		zap.Int("batch", batch),
		zap.String("pattern", config.Pattern.String()))

	var slot kernel.ResultSlot
	for {
		if ctx.Err() != nil {
			return
		}
		if config.Count > 0 && d.found.Load() >= uint64(config.Count) {
			return
		}

		slot.Reset()

		seed, err := hostSeed()
		if err != nil {
			d.setErr(errors.Wrap(err, "batch: drawing host seed"))
			d.log.Error("host seed generation failed", zap.Error(err))
			return
		}

		// The await inside Dispatch is the only synchronisation point; the
		// slot is not touched until it returns.
		if err := d.disp.Dispatch(ctx, seed, config.Pattern, batch, &slot); err != nil {
			d.setErr(errors.Wrap(err, "batch: dispatch failed"))
			d.log.Error("dispatch failed", zap.Error(err))
			return
		}

		// Every completed dispatch contributes the full batch, found or not.
		d.attempts.Add(uint64(batch))

		if !slot.Found() {
			continue
		}

		res := harvest(&slot)
		if err := generator.Verify(res); err != nil {
			// A kernel that reports an address its own public key does not
			// re-encode to is broken; surface it rather than persist junk.
			d.setErr(err)
			d.log.Error("result verification failed",
				zap.String("address", res.Address),
				zap.Error(err))
			return
		}
		d.found.Add(1)

		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
	}
}

// harvest copies the winning work-item payload out of the result slot.
func harvest(slot *kernel.ResultSlot) generator.Result {
	res := generator.Result{
		Address:    string(slot.Address[:slot.AddrLen]),
		PublicKey:  slot.PublicKey,
		PrivateKey: slot.PrivateKey,
		WorkItem:   slot.WorkItem,
	}
	return res
}

// hostSeed draws a fresh 128-bit seed from the OS CSPRNG. The in-kernel
// PRNG is not cryptographic, so reseeding every dispatch from a secure
// source is what keeps dispatches independent.
func hostSeed() ([2]uint64, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return [2]uint64{}, err
	}
	return [2]uint64{
		binary.LittleEndian.Uint64(buf[0:8]),
		binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}
