package kernel

import "github.com/solgrind/solgrind/pkg/pattern"

// AddressMax is the longest Base58 encoding of 32 bytes:
// ceil(32 * log(256) / log(58)) = 44 characters.
const AddressMax = 44

// EncodeBase58 encodes the 32-byte big-endian value pk into out using the
// Bitcoin alphabet and returns the encoded length. Leading zero bytes map
// to leading '1' characters. Fixed buffers and per-byte long division keep
// the routine identical to its GPU rendition.
func EncodeBase58(pk *[32]byte, out *[AddressMax]byte) int {
	zeros := 0
	for zeros < 32 && pk[zeros] == 0 {
		zeros++
	}

	// Little-endian base-58 digits of the non-zero tail.
	var digits [AddressMax]byte
	length := 0
	for i := zeros; i < 32; i++ {
		carry := int(pk[i])
		j := 0
		for ; j < length || carry != 0; j++ {
			if j < length {
				carry += int(digits[j]) << 8
			}
			digits[j] = byte(carry % 58)
			carry /= 58
		}
		length = j
	}

	n := 0
	for ; n < zeros; n++ {
		out[n] = '1'
	}
	for i := length - 1; i >= 0; i-- {
		out[n] = pattern.Alphabet[digits[i]]
		n++
	}
	return n
}
