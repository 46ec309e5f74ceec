package kernel

import (
	"crypto/ed25519"
	"sync"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/solgrind/solgrind/pkg/pattern"
)

func mustPattern(t *testing.T, text string, mode pattern.Mode, ignoreCase bool) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Compile(text, mode, ignoreCase)
	require.NoError(t, err)
	return p
}

func TestClamp(t *testing.T) {
	for _, fill := range []byte{0x00, 0xff, 0xa5} {
		var s [32]byte
		for i := range s {
			s[i] = fill
		}
		Clamp(&s)
		require.Zero(t, s[0]&7)
		require.Equal(t, byte(0x40), s[31]&0xC0)
	}
}

// The pipeline must agree with the standard library: the public key derived
// from the work-item seed is exactly ed25519.NewKeyFromSeed's.
func TestRunMatchesEd25519(t *testing.T) {
	params := &Params{
		HostSeed: [2]uint64{0xdeadbeefcafe1234, 0x0102030405060708},
		Pattern:  mustPattern(t, "?", pattern.Prefix, true),
	}

	for id := uint32(0); id < 8; id++ {
		var slot ResultSlot
		Run(params, id, &slot)
		require.True(t, slot.Found())
		require.Equal(t, id, slot.WorkItem)

		// Re-derive from the published seed with crypto/ed25519.
		priv := ed25519.NewKeyFromSeed(slot.PrivateKey[:32])
		pub := priv.Public().(ed25519.PublicKey)
		require.Equal(t, []byte(pub), slot.PublicKey[:])
		require.Equal(t, slot.PublicKey[:], slot.PrivateKey[32:])

		addr := base58.Encode(slot.PublicKey[:])
		require.Equal(t, addr, string(slot.Address[:slot.AddrLen]))
	}
}

func TestRunDeterministic(t *testing.T) {
	params := &Params{
		HostSeed: [2]uint64{42, 43},
		Pattern:  mustPattern(t, "?", pattern.Prefix, true),
	}

	var a, b ResultSlot
	Run(params, 99, &a)
	Run(params, 99, &b)
	require.Equal(t, a.PrivateKey, b.PrivateKey)
	require.Equal(t, a.Address, b.Address)
}

func TestRunRespectsPattern(t *testing.T) {
	// A pattern that cannot occur in Base58 output of this length never
	// publishes; use a long all-same pattern as a practically-impossible one.
	params := &Params{
		HostSeed: [2]uint64{7, 8},
		Pattern:  mustPattern(t, "zzzzzzzzzzzzzzzz", pattern.Prefix, false),
	}
	var slot ResultSlot
	for id := uint32(0); id < 64; id++ {
		Run(params, id, &slot)
	}
	require.False(t, slot.Found())
}

// At most one work-item wins even when every work-item matches.
func TestAtMostOneWinner(t *testing.T) {
	params := &Params{
		HostSeed: [2]uint64{1234, 5678},
		Pattern:  mustPattern(t, "????", pattern.Prefix, true),
	}

	var slot ResultSlot
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(base uint32) {
			defer wg.Done()
			for id := base * 16; id < base*16+16; id++ {
				Run(params, id, &slot)
			}
		}(uint32(w))
	}
	wg.Wait()

	require.True(t, slot.Found())

	// The payload must be internally consistent: the winner id reproduces
	// the published keypair.
	var check ResultSlot
	Run(params, slot.WorkItem, &check)
	require.Equal(t, slot.PrivateKey, check.PrivateKey)
	require.Equal(t, slot.Address, check.Address)
}

func TestResultSlotClaim(t *testing.T) {
	var slot ResultSlot
	require.True(t, slot.claim())
	require.False(t, slot.claim())
	require.True(t, slot.Found())

	slot.Reset()
	require.False(t, slot.Found())
	require.True(t, slot.claim())
}
