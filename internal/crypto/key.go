package crypto

import "dweetmsg/internal/domain"

const (
	aes128KeyBytes = 16
	aes256KeyBytes = 32

	// BlockBytes is the AES block size, also the IV length.
	BlockBytes = 16
)

// Normalize converts raw key and IV strings into AES-compatible key
// material, applying NormalizeKey and NormalizeIV independently.
func Normalize(key, iv string) domain.KeyMaterial {
	return domain.KeyMaterial{Key: NormalizeKey(key), IV: NormalizeIV(iv)}
}

// NormalizeKey converts an arbitrary string into a valid AES key.
// Inputs shorter than 16 bytes are space-padded to 16, inputs of 16 to 32
// bytes are space-padded to 32, longer inputs are truncated to 32.
func NormalizeKey(s string) []byte {
	b := []byte(s)
	switch {
	case len(b) < aes128KeyBytes:
		return padSpaces(b, aes128KeyBytes)
	case len(b) <= aes256KeyBytes:
		return padSpaces(b, aes256KeyBytes)
	default:
		return b[:aes256KeyBytes]
	}
}

// NormalizeIV converts an arbitrary string into a 16-byte AES-CBC IV,
// space-padding short inputs and truncating long ones.
func NormalizeIV(s string) []byte {
	b := []byte(s)
	if len(b) > BlockBytes {
		return b[:BlockBytes]
	}
	return padSpaces(b, BlockBytes)
}

func padSpaces(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	for i := len(b); i < n; i++ {
		out[i] = ' '
	}
	return out
}
