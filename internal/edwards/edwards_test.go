package edwards_test

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	mrand "math/rand"
	"testing"

	ref "filippo.io/edwards25519"
	"github.com/stretchr/testify/require"

	"github.com/solgrind/solgrind/internal/edwards"
)

// RFC 8032 §7.1 test vectors: Ed25519 secret seed and the expected public
// key, i.e. compress(clamp(SHA-512(seed)[0:32]) * G).
var rfc8032Vectors = []struct{ seed, pub string }{
	{
		"9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60",
		"d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a",
	},
	{
		"4ccd089b28ff96da9db6c346ec114e0f5b8a319f35aba624da8cf6ed4fb8a6fb",
		"3d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c",
	},
	{
		"c5aa8df43f9f837bedb7442f31dcb7b166d38535076f094b85ce3a2e0b4458f7",
		"fc51cd8e6218a1a38da47ed00230f0580816ed13ba3303ac5deb911548908025",
	},
}

func clamp(s *[32]byte) {
	s[0] &= 248
	s[31] &= 127
	s[31] |= 64
}

func scalarBaseBytes(scalar *[32]byte) [32]byte {
	var p edwards.Point
	var out [32]byte
	p.ScalarBaseMult(scalar)
	p.Bytes(&out)
	return out
}

func TestRFC8032Vectors(t *testing.T) {
	for _, tv := range rfc8032Vectors {
		seed, err := hex.DecodeString(tv.seed)
		require.NoError(t, err)

		digest := sha512.Sum512(seed)
		var scalar [32]byte
		copy(scalar[:], digest[:32])
		clamp(&scalar)

		got := scalarBaseBytes(&scalar)
		require.Equal(t, tv.pub, hex.EncodeToString(got[:]))
	}
}

func TestMatchesStandardLibrary(t *testing.T) {
	r := mrand.New(mrand.NewSource(7))

	for i := 0; i < 32; i++ {
		seed := make([]byte, ed25519.SeedSize)
		_, err := r.Read(seed)
		require.NoError(t, err)

		digest := sha512.Sum512(seed)
		var scalar [32]byte
		copy(scalar[:], digest[:32])
		clamp(&scalar)

		got := scalarBaseBytes(&scalar)
		want := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
		require.Equal(t, []byte(want), got[:])
	}
}

func TestMatchesReferenceImplementation(t *testing.T) {
	r := mrand.New(mrand.NewSource(8))

	for i := 0; i < 32; i++ {
		var raw [32]byte
		_, err := r.Read(raw[:])
		require.NoError(t, err)

		s, err := new(ref.Scalar).SetBytesWithClamping(raw[:])
		require.NoError(t, err)
		want := new(ref.Point).ScalarBaseMult(s).Bytes()

		var scalar [32]byte
		copy(scalar[:], raw[:])
		clamp(&scalar)
		got := scalarBaseBytes(&scalar)

		require.Equal(t, want, got[:])
	}
}

func TestDoubleMatchesAdd(t *testing.T) {
	var g, doubled, added edwards.Point
	g.Base()
	doubled.Double(&g)
	added.Add(&g, &g)

	var db, ab [32]byte
	doubled.Bytes(&db)
	added.Bytes(&ab)
	require.Equal(t, db, ab)
}

func TestIdentity(t *testing.T) {
	var id, g, sum edwards.Point
	id.Identity()
	g.Base()
	sum.Add(&g, &id)

	var gb, sb [32]byte
	g.Bytes(&gb)
	sum.Bytes(&sb)
	require.Equal(t, gb, sb)

	// The identity compresses to y = 1.
	var ib [32]byte
	id.Bytes(&ib)
	want := [32]byte{1}
	require.Equal(t, want, ib)
}
