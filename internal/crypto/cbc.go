package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"

	"dweetmsg/internal/domain"
)

// Cipher performs AES-CBC encryption with a fixed key and IV, hex-encoding
// ciphertexts for the wire. A Cipher is safe to reuse across calls; each
// call starts a fresh CBC chain from the configured IV.
type Cipher struct {
	block cipher.Block
	iv    []byte
}

// NewCipher builds a Cipher from normalized key material.
func NewCipher(km domain.KeyMaterial) (*Cipher, error) {
	block, err := aes.NewCipher(km.Key)
	if err != nil {
		return nil, fmt.Errorf("new aes cipher: %w", err)
	}
	if len(km.IV) != BlockBytes {
		return nil, fmt.Errorf("iv length %d, want %d", len(km.IV), BlockBytes)
	}
	return &Cipher{block: block, iv: km.IV}, nil
}

// EncryptHex pads plaintext with PKCS#7, encrypts it with AES-CBC and
// returns the lowercase hex encoding of the ciphertext.
func (c *Cipher) EncryptHex(plaintext []byte) string {
	padded := pkcs7Pad(plaintext, BlockBytes)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(ct, padded)
	return hex.EncodeToString(ct)
}

// DecryptHex reverses EncryptHex. It fails on malformed hex, ciphertexts
// that are not a whole number of blocks, and invalid padding.
func (c *Cipher) DecryptHex(s string) ([]byte, error) {
	ct, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext hex: %w", err)
	}
	if len(ct) == 0 || len(ct)%BlockBytes != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ct))
	}
	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(pt, ct)
	return pkcs7Unpad(pt, BlockBytes)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, errors.New("invalid padding")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
