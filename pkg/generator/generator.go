// Package generator defines the contract shared by the vanity search
// back-ends. This design allows swapping the batch-dispatched kernel path
// and the CPU fallback behind one interface.
package generator

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/solgrind/solgrind/pkg/pattern"
)

// DefaultBatchSize is the number of work-items per dispatch when the
// configuration does not override it. Back-ends round it up to a whole
// number of work-groups.
const DefaultBatchSize = 65536

// Config holds the configuration for a vanity address search.
type Config struct {
	// Pattern is the compiled address predicate. Required.
	Pattern *pattern.Pattern

	// Count is the number of matches to find before the search stops.
	// Zero means search until the context is cancelled.
	Count int

	// Threads is the worker count for the CPU fallback. Zero selects the
	// default. The batch driver does not read it: dispatched back-ends take
	// their work-group size from the dispatcher they were created with.
	Threads int

	// BatchSize overrides DefaultBatchSize for dispatched back-ends.
	BatchSize int
}

// Result is a found vanity keypair.
type Result struct {
	// Address is the Base58-encoded public key.
	Address string

	// PublicKey is the compressed Edwards point.
	PublicKey [32]byte

	// PrivateKey is seed || PublicKey, the 64-byte keypair form expected
	// by wallet tooling.
	PrivateKey [64]byte

	// WorkItem is the id of the work-item that found the match, zero on
	// back-ends without dispatch ids.
	WorkItem uint32
}

// Stats holds real-time performance statistics.
type Stats struct {
	Attempts    uint64  // Total keypairs generated
	HashRate    float64 // Current attempts per second
	ElapsedSecs float64 // Time since the search started
	Found       uint64  // Matches published so far
}

// Generator is the contract for search back-ends.
type Generator interface {
	// Start begins the search and returns a channel that receives each
	// match. The channel is closed when the search ends; Err reports any
	// terminal failure afterwards.
	Start(ctx context.Context, config *Config) (<-chan Result, error)

	// Stats returns current performance statistics. Safe to call
	// concurrently with the search.
	Stats() Stats

	// Err returns the terminal error of a finished search, if any.
	Err() error

	// Name returns the back-end name.
	Name() string
}

// VerificationError reports a result whose re-encoded public key does not
// reproduce the reported address. It always indicates a kernel bug.
type VerificationError struct {
	Address   string
	Reencoded string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("generator: verification failed: address %q, re-encoded public key %q", e.Address, e.Reencoded)
}

// Verify re-encodes the compressed public key with the host reference
// Base58 implementation and compares it byte-for-byte against the reported
// address, and checks the keypair halves are consistent. The kernel has a
// long history of subtle field-carry and sign-bit bugs upstream; this pins
// the correctness boundary at a tiny amount of host code.
func Verify(r Result) error {
	if !bytes.Equal(r.PrivateKey[32:], r.PublicKey[:]) {
		return &VerificationError{Address: r.Address, Reencoded: "(keypair halves disagree)"}
	}
	enc := base58.Encode(r.PublicKey[:])
	if enc != r.Address {
		return &VerificationError{Address: r.Address, Reencoded: enc}
	}
	return nil
}
