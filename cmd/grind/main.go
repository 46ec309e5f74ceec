package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/solgrind/solgrind/pkg/dispatch"
	"github.com/solgrind/solgrind/pkg/pattern"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy to process exit codes: 1 for an invalid
// pattern (and any other failure), 2 when a GPU was required but none is
// available.
func exitCode(err error) int {
	var invalid *pattern.InvalidCharError
	if errors.As(err, &invalid) {
		return 1
	}
	if errors.Is(err, dispatch.ErrGPUUnavailable) {
		return 2
	}
	return 1
}
