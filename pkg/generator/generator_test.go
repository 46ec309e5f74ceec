package generator

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResult(t *testing.T) Result {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var res Result
	res.Address = base58.Encode(pub)
	copy(res.PublicKey[:], pub)
	copy(res.PrivateKey[:], priv)
	return res
}

func TestVerifyAccepts(t *testing.T) {
	require.NoError(t, Verify(makeResult(t)))
}

func TestVerifyRejectsWrongAddress(t *testing.T) {
	res := makeResult(t)
	res.Address = "1" + res.Address[1:]

	err := Verify(res)
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, res.Address, verr.Address)
}

func TestVerifyRejectsInconsistentKeypair(t *testing.T) {
	res := makeResult(t)
	res.PrivateKey[40] ^= 0xff
	require.Error(t, Verify(res))
}
