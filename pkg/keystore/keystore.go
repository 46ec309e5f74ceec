// Package keystore persists found keypairs in the JSON array format
// consumed by Solana wallet tooling: the 64 byte values of seed||publickey
// as decimal numbers on a single line.
package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/solgrind/solgrind/pkg/generator"
)

// Save writes <address>.json into dir and returns the file path. The file
// is a single line followed by a trailing newline, mode 0600.
func Save(dir string, res generator.Result) (string, error) {
	ints := make([]int, len(res.PrivateKey))
	for i, b := range res.PrivateKey {
		ints[i] = int(b)
	}
	body, err := json.Marshal(ints)
	if err != nil {
		return "", errors.Wrap(err, "keystore: encoding keypair")
	}
	body = append(body, '\n')

	path := filepath.Join(dir, res.Address+".json")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", errors.Wrapf(err, "keystore: writing %s", path)
	}
	return path, nil
}

// Load reads a keypair file written by Save and returns the 64-byte
// private key.
func Load(path string) ([64]byte, error) {
	var key [64]byte

	raw, err := os.ReadFile(path)
	if err != nil {
		return key, errors.Wrapf(err, "keystore: reading %s", path)
	}
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return key, errors.Wrapf(err, "keystore: parsing %s", path)
	}
	if len(ints) != len(key) {
		return key, errors.Errorf("keystore: %s holds %d bytes, want %d", path, len(ints), len(key))
	}
	for i, v := range ints {
		if v < 0 || v > 255 {
			return key, errors.Errorf("keystore: %s byte %d out of range: %d", path, i, v)
		}
		key[i] = byte(v)
	}
	return key, nil
}
