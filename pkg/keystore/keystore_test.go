package keystore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solgrind/solgrind/pkg/generator"
	"github.com/solgrind/solgrind/pkg/keystore"
)

func sampleResult() generator.Result {
	var res generator.Result
	res.Address = "TestAddr1111111111111111111111111111111111"
	for i := range res.PrivateKey {
		res.PrivateKey[i] = byte(i * 3)
	}
	copy(res.PublicKey[:], res.PrivateKey[32:])
	return res
}

func TestSaveFormat(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	path, err := keystore.Save(dir, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, res.Address+".json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(raw)

	// One line, decimal bytes, trailing newline.
	assert.True(t, strings.HasPrefix(body, "["))
	assert.True(t, strings.HasSuffix(body, "]\n"))
	assert.Equal(t, 1, strings.Count(body, "\n"))
	assert.Equal(t, 64, strings.Count(body, ",")+1)
	assert.True(t, strings.HasPrefix(body, "[0,3,6,"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	path, err := keystore.Save(dir, res)
	require.NoError(t, err)

	key, err := keystore.Load(path)
	require.NoError(t, err)
	assert.Equal(t, res.PrivateKey, key)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.json")
	require.NoError(t, os.WriteFile(short, []byte("[1,2,3]\n"), 0o600))
	_, err := keystore.Load(short)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0o600))
	_, err = keystore.Load(garbage)
	assert.Error(t, err)

	_, err = keystore.Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSaveFailsOnBadDir(t *testing.T) {
	_, err := keystore.Save(filepath.Join(t.TempDir(), "nope"), sampleResult())
	assert.Error(t, err)
}
