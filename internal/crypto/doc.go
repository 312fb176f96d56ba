// Package crypto exposes the minimal primitives used by dweetmsg.
//
// Contents
//
//   - Key and IV normalization to AES-compatible sizes (NormalizeKey,
//     NormalizeIV)
//   - AES-CBC encryption and decryption with PKCS#7 padding and hex wire
//     encoding (Cipher, EncryptHex, DecryptHex)
//
// # Notes
//
// Normalization pads short inputs with ASCII spaces and truncates long ones,
// so any string is accepted as key material. Keys normalize to 16 or 32
// bytes, IVs always to 16. The hex encoding keeps ciphertexts safe to embed
// in URL paths and JSON without further escaping.
package crypto
