// Package kernel implements the per-work-item search pipeline:
//
//	host seed + work-item id -> PRNG -> 32-byte seed -> SHA-512 ->
//	clamped scalar -> scalar*G -> compressed point -> Base58 -> match ->
//	atomic publish
//
// The pipeline uses only fixed-size buffers, integer arithmetic and a
// single atomic, so the same logic is expressible one-to-one in a GPU
// kernel with bitwise-identical output. The in-process dispatcher in
// pkg/dispatch runs exactly this code.
package kernel

import (
	"sync/atomic"

	"github.com/solgrind/solgrind/internal/edwards"
	"github.com/solgrind/solgrind/pkg/pattern"
)

// Params holds the per-dispatch inputs shared read-only by all work-items.
type Params struct {
	// HostSeed is the 128-bit seed drawn by the host from a CSPRNG before
	// the dispatch.
	HostSeed [2]uint64

	// Pattern is the compiled address predicate.
	Pattern *pattern.Pattern
}

// ResultSlot is the single per-dispatch result buffer. The host zeroes it
// before each dispatch; at most one work-item claims it and writes the
// payload. The host reads it only after the dispatch completes, which
// orders the payload write before the read.
type ResultSlot struct {
	found uint32

	// WorkItem is the id of the winning work-item.
	WorkItem uint32

	// PublicKey is the compressed Edwards point.
	PublicKey [32]byte

	// PrivateKey is the 64-byte keypair seed || PublicKey, the form
	// expected by downstream wallet tooling. Note that the first half is
	// the pre-hash seed, not the clamped scalar.
	PrivateKey [64]byte

	// Address holds AddrLen bytes of the Base58-encoded public key.
	Address [44]byte
	AddrLen int32
}

// Reset zeroes the slot for the next dispatch.
func (s *ResultSlot) Reset() {
	*s = ResultSlot{}
}

// Found reports whether a work-item has claimed the slot.
func (s *ResultSlot) Found() bool {
	return atomic.LoadUint32(&s.found) != 0
}

// claim attempts the at-most-once claim. Only the caller that flips the
// flag from 0 to 1 may write the payload.
func (s *ResultSlot) claim() bool {
	return atomic.CompareAndSwapUint32(&s.found, 0, 1)
}

// Clamp fixes the scalar bits as mandated by Ed25519: the low three bits
// are cleared, bit 254 is set and bit 255 is cleared.
func Clamp(scalar *[32]byte) {
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
}

// Run executes one work-item. On a pattern match it claims slot and, if it
// won the claim, publishes the work-item id, public key, 64-byte keypair
// and address text.
func Run(p *Params, id uint32, slot *ResultSlot) {
	// A claimed slot means this dispatch is already decided.
	if slot.Found() {
		return
	}

	r := newRng(p.HostSeed, id)
	var seed [32]byte
	r.fillSeed(&seed)

	var digest [64]byte
	Sum512(seed[:], &digest)

	var scalar [32]byte
	copy(scalar[:], digest[:32])
	Clamp(&scalar)

	var point edwards.Point
	var pk [32]byte
	point.ScalarBaseMult(&scalar)
	point.Bytes(&pk)

	var addr [AddressMax]byte
	n := EncodeBase58(&pk, &addr)

	if !p.Pattern.MatchBytes(addr[:n]) {
		return
	}
	if !slot.claim() {
		return
	}

	slot.WorkItem = id
	slot.PublicKey = pk
	copy(slot.PrivateKey[:32], seed[:])
	copy(slot.PrivateKey[32:], pk[:])
	slot.Address = addr
	slot.AddrLen = int32(n)
}
