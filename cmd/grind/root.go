package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solgrind/solgrind/internal/ui"
	"github.com/solgrind/solgrind/pkg/difficulty"
	"github.com/solgrind/solgrind/pkg/dispatch"
	"github.com/solgrind/solgrind/pkg/generator"
	"github.com/solgrind/solgrind/pkg/generator/batch"
	"github.com/solgrind/solgrind/pkg/generator/cpu"
	"github.com/solgrind/solgrind/pkg/keystore"
	"github.com/solgrind/solgrind/pkg/pattern"
)

const progressRate = 200 * time.Millisecond

type options struct {
	caseSensitive bool
	prefix        bool
	suffix        bool
	anywhere      bool
	cpu           bool
	threads       int
	benchmark     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "grind <pattern>[:<count>]",
		Short: "Brute-force search for Solana vanity addresses",
		Long: `grind searches Ed25519 keypairs for a Base58-encoded public key matching
the given pattern. The pattern uses the Base58 alphabet plus '?' as a
wildcard; append :<count> to keep searching until that many matches are
found. Found keypairs are written as <address>.json in the working
directory, wire-compatible with Solana keypair tooling.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	fl := cmd.Flags()
	fl.BoolVarP(&opts.caseSensitive, "case-sensitive", "s", false, "compare case-sensitively")
	fl.BoolVar(&opts.prefix, "prefix", false, "anchor the pattern at the start of the address (default)")
	fl.BoolVar(&opts.suffix, "suffix", false, "anchor the pattern at the end of the address")
	fl.BoolVar(&opts.anywhere, "anywhere", false, "match the pattern anywhere in the address")
	fl.BoolVar(&opts.cpu, "cpu", false, "force the CPU fallback path")
	fl.IntVar(&opts.threads, "threads", 64, "work-group size for GPU, worker count for CPU")
	fl.BoolVar(&opts.benchmark, "benchmark", false, "benchmark the available paths against ZZZZ for 10s each")
	cmd.MarkFlagsMutuallyExclusive("prefix", "suffix", "anywhere")

	return cmd
}

// env exposes the optional environment configuration.
func env() *viper.Viper {
	v := viper.New()
	_ = v.BindEnv("pattern", "VANITY_PATTERN")
	_ = v.BindEnv("mode", "MATCH_MODE")
	_ = v.BindEnv("case_sensitive", "CASE_SENSITIVE")
	return v
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func run(opts *options, args []string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	if opts.benchmark {
		return runBenchmark(opts, log)
	}

	v := env()

	raw := ""
	if len(args) == 1 {
		raw = args[0]
	} else if s := v.GetString("pattern"); s != "" {
		raw = s
	}
	if raw == "" {
		return errors.New("no pattern given (positional argument or VANITY_PATTERN)")
	}

	text, count, err := parseTarget(raw)
	if err != nil {
		return err
	}

	mode, err := resolveMode(opts, v)
	if err != nil {
		return err
	}
	ignoreCase := !opts.caseSensitive && !truthy(v.GetString("case_sensitive"))

	pat, err := pattern.Compile(text, mode, ignoreCase)
	if err != nil {
		return err
	}
	est := difficulty.ForPattern(pat)

	gen, err := selectGenerator(opts, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := &generator.Config{
		Pattern: pat,
		Count:   0, // the loop below counts persisted matches
		Threads: opts.threads,
	}
	results, err := gen.Start(ctx, cfg)
	if err != nil {
		return err
	}

	ui.PrintSearchInfo(pat, est, gen.Name(), count)
	start := time.Now()

	ticker := time.NewTicker(progressRate)
	defer ticker.Stop()
	frame := 0
	found := 0

	for {
		select {
		case res, ok := <-results:
			if !ok {
				ui.ClearLine()
				if err := gen.Err(); err != nil {
					return err
				}
				ui.PrintSummary(gen.Stats(), time.Since(start))
				return nil
			}

			ui.ClearLine()
			if err := generator.Verify(res); err != nil {
				// A mismatch between the reported address and the
				// re-encoded public key means the kernel is broken.
				os.Stdout.WriteString("VERIFICATION FAILED\n")
				cancel()
				drain(results)
				return err
			}

			path, serr := keystore.Save(".", res)
			if serr != nil {
				// The match is reported but a key we could not persist does
				// not count toward the requested total.
				log.Warn("failed to persist keypair", zap.Error(serr))
				ui.PrintMatch(found+1, count, res, "")
				continue
			}

			found++
			ui.PrintMatch(found, count, res, path)
			if found >= count {
				cancel()
				drain(results)
				ui.PrintSummary(gen.Stats(), time.Since(start))
				return nil
			}

		case <-ticker.C:
			ui.PrintProgress(gen.Stats(), est, found, count, frame)
			frame++

		case <-ctx.Done():
			// Interrupted: the in-flight dispatch completes, then the
			// back-end closes the channel.
			drain(results)
			ui.ClearLine()
			ui.PrintSummary(gen.Stats(), time.Since(start))
			return nil
		}
	}
}

// selectGenerator picks the search back-end: the dispatched kernel path on
// the GPU, or the CPU fallback when --cpu is given. A missing GPU without
// --cpu is a hard error (exit 2).
func selectGenerator(opts *options, log *zap.Logger) (generator.Generator, error) {
	if opts.cpu {
		return cpu.New(opts.threads, log), nil
	}
	disp, err := dispatch.NewGPU(opts.threads)
	if err != nil {
		return nil, errors.Wrap(err, "no GPU back-end (re-run with --cpu to use the CPU fallback)")
	}
	return batch.New(disp, log), nil
}

// parseTarget splits "<pattern>[:<count>]". The Base58 alphabet cannot
// contain ':', so the last colon is unambiguous.
func parseTarget(raw string) (string, int, error) {
	i := strings.LastIndexByte(raw, ':')
	if i < 0 {
		return raw, 1, nil
	}
	count, err := strconv.Atoi(raw[i+1:])
	if err != nil || count < 1 {
		return "", 0, errors.Errorf("invalid match count %q", raw[i+1:])
	}
	return raw[:i], count, nil
}

// resolveMode picks the anchor mode: explicit flags win, then MATCH_MODE,
// then the prefix default.
func resolveMode(opts *options, v *viper.Viper) (pattern.Mode, error) {
	switch {
	case opts.suffix:
		return pattern.Suffix, nil
	case opts.anywhere:
		return pattern.Anywhere, nil
	case opts.prefix:
		return pattern.Prefix, nil
	}
	if s := v.GetString("mode"); s != "" {
		return pattern.ParseMode(s)
	}
	return pattern.Prefix, nil
}

// truthy reports whether an environment value means "on".
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// drain consumes remaining results so the back-end can shut down.
func drain(results <-chan generator.Result) {
	for range results {
	}
}
