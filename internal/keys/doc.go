// Package keys implements the key lifecycle of pinsign.
//
// It generates RSA key pairs, derives a symmetric key from a PIN and
// encrypts the private key for storage on removable media.
//
// # PIN Handling
//
// A Pin is a non-empty string of ASCII digits. NewPin rejects anything else
// with ErrInvalidPinFormat before any cryptographic work is done. The PIN is
// hashed with SHA-256 to produce an AES-256 key:
//
//	key := keys.DeriveKey(pin) // [32]byte, deterministic
//
// Call Clear when the PIN is no longer needed.
//
// # Encrypted Private Key Format
//
// The private key is serialised as an unencrypted PKCS#8 PEM block, padded
// with PKCS#7 and encrypted with AES-256-CBC. The file layout is:
//
//	IV (16 bytes) || ciphertext
//
// The IV is random for every encryption. There is no integrity tag: a wrong
// PIN is detected by the padding check (ErrInvalidPin) and, on the rare
// occasion the padding happens to look valid, by the key failing to parse
// (ErrCorruptKey).
//
// # Public Key Format
//
// Public keys are PEM "PUBLIC KEY" blocks (PKIX / SubjectPublicKeyInfo).
package keys
