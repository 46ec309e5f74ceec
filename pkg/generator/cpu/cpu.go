// Package cpu implements the fallback search path for machines without a
// GPU back-end. It generates keypairs with the standard library Ed25519
// implementation on a pool of goroutines and shares the pattern predicate
// and difficulty model with the dispatched kernel path. Semantics are
// identical; throughput is one to three orders of magnitude lower.
package cpu

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/solgrind/solgrind/pkg/generator"
)

// counterFlush is how many local attempts a worker accumulates before
// touching the shared counter. Per-iteration atomic adds bounce the cache
// line across cores.
const counterFlush = 4096

// Generator implements generator.Generator on a fixed worker pool.
type Generator struct {
	workers int
	log     *zap.Logger

	attempts  atomic.Uint64
	found     atomic.Uint64
	startTime time.Time

	mu  sync.Mutex
	err error
}

// New creates a CPU-based generator. workers <= 0 selects one worker per
// CPU core. A nil logger disables logging.
func New(workers int, log *zap.Logger) *Generator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{workers: workers, log: log}
}

// Name returns the back-end name.
func (g *Generator) Name() string { return "cpu" }

// Stats returns current performance statistics.
func (g *Generator) Stats() generator.Stats {
	attempts := g.attempts.Load()
	elapsed := time.Since(g.startTime).Seconds()

	var rate float64
	if elapsed > 0 {
		rate = float64(attempts) / elapsed
	}
	return generator.Stats{
		Attempts:    attempts,
		HashRate:    rate,
		ElapsedSecs: elapsed,
		Found:       g.found.Load(),
	}
}

// Err returns the terminal error of a finished search, if any.
func (g *Generator) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Start launches the worker pool. The returned channel receives each match
// and is closed once all workers have stopped: after Count matches or on
// context cancellation.
func (g *Generator) Start(ctx context.Context, config *generator.Config) (<-chan generator.Result, error) {
	if config.Pattern == nil {
		return nil, errors.New("cpu: config has no pattern")
	}

	workers := g.workers
	if config.Threads > 0 {
		workers = config.Threads
	}

	g.startTime = time.Now()
	g.attempts.Store(0)
	g.found.Store(0)

	// Workers share a derived context cancelled once the requested count is
	// reached, so all of them drain promptly after the final match.
	ctx, cancel := context.WithCancel(ctx)

	results := make(chan generator.Result, 1)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			g.worker(ctx, cancel, config, results)
		}()
	}
	go func() {
		wg.Wait()
		cancel()
		close(results)
	}()

	g.log.Debug("cpu search starting",
		zap.Int("workers", workers),
		zap.String("pattern", config.Pattern.String()))

	return results, nil
}

// worker generates and tests keypairs until the context is cancelled.
func (g *Generator) worker(ctx context.Context, cancel context.CancelFunc, config *generator.Config, results chan<- generator.Result) {
	pat := config.Pattern
	local := uint64(0)

	for {
		if local%counterFlush == 0 {
			g.attempts.Add(local)
			local = 0
			select {
			case <-ctx.Done():
				return
			default:
			}
		}

		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			g.attempts.Add(local)
			g.mu.Lock()
			g.err = errors.Wrap(err, "cpu: keypair generation")
			g.mu.Unlock()
			cancel()
			return
		}
		local++

		addr := base58.Encode(pub)
		if !pat.Matches(addr) {
			continue
		}

		g.attempts.Add(local)
		local = 0

		// Claim a delivery slot before sending so concurrent winners cannot
		// push the total past the requested count.
		n := g.found.Add(1)
		if config.Count > 0 && n > uint64(config.Count) {
			g.found.Add(^uint64(0))
			cancel()
			return
		}

		// ed25519.PrivateKey is already seed || public key.
		var res generator.Result
		res.Address = addr
		copy(res.PublicKey[:], pub)
		copy(res.PrivateKey[:], priv)

		select {
		case results <- res:
		case <-ctx.Done():
			return
		}

		if config.Count > 0 && n >= uint64(config.Count) {
			cancel()
			return
		}
	}
}
