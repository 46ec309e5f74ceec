package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solgrind/solgrind/internal/ui"
	"github.com/solgrind/solgrind/pkg/dispatch"
	"github.com/solgrind/solgrind/pkg/generator"
	"github.com/solgrind/solgrind/pkg/generator/batch"
	"github.com/solgrind/solgrind/pkg/generator/cpu"
	"github.com/solgrind/solgrind/pkg/pattern"
)

const (
	benchWindow = 10 * time.Second
	benchTarget = "ZZZZ"

	// Smaller dispatches than the search default so the window closes on a
	// dispatch boundary reasonably near 10s even on slow hosts.
	benchBatchSize = 8192
)

// runBenchmark measures the throughput of every available path against the
// fixed pattern ZZZZ for a 10-second window each.
func runBenchmark(opts *options, log *zap.Logger) error {
	pat, err := pattern.Compile(benchTarget, pattern.Prefix, true)
	if err != nil {
		return err
	}

	type path struct {
		name string
		gen  generator.Generator
	}
	paths := []path{
		{"kernel/cpu-pool", batch.New(dispatch.NewPool(0), log)},
	}
	if disp, gpuErr := dispatch.NewGPU(opts.threads); gpuErr == nil {
		paths = append(paths, path{"kernel/" + disp.Name(), batch.New(disp, log)})
	} else {
		fmt.Printf("GPU path unavailable, benchmarking CPU paths only\n")
	}
	paths = append(paths, path{"cpu-fallback", cpu.New(opts.threads, log)})

	for _, p := range paths {
		fmt.Printf("Benchmarking %s for %s...\n", p.name, benchWindow)

		ctx, cancel := context.WithTimeout(context.Background(), benchWindow)
		cfg := &generator.Config{
			Pattern:   pat,
			Count:     0,
			Threads:   opts.threads,
			BatchSize: benchBatchSize,
		}
		results, err := p.gen.Start(ctx, cfg)
		if err != nil {
			cancel()
			return err
		}
		for range results {
			// Matches during a benchmark are counted but not persisted.
		}
		cancel()
		if err := p.gen.Err(); err != nil {
			return err
		}

		stats := p.gen.Stats()
		fmt.Printf("%-20s %14s attempts in %s  (%s)\n",
			p.name,
			ui.FormatNumber(stats.Attempts),
			ui.FormatDuration(time.Duration(stats.ElapsedSecs*float64(time.Second))),
			ui.FormatHashRate(stats.HashRate))
	}
	return nil
}
