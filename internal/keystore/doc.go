// Package keystore persists and locates pinsign key files.
//
// A key pair is stored as two files with fixed names:
//
//   - public_key.pubk: PEM public key, safe to share (0644)
//   - encrypted_private_key.pk: IV || ciphertext blob (0600)
//
// The two files may live in different directories, typically the private key
// on a removable drive and the public key somewhere it can be distributed.
// Lookups walk a directory tree depth-first and return the first match.
package keystore
