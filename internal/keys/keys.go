package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"golang.org/x/crypto/ssh"
)

const (
	// DefaultKeyBits is the modulus size used when none is configured.
	DefaultKeyBits = 4096

	// MinKeyBits is the smallest modulus GenerateKeyPair accepts.
	MinKeyBits = 3072

	publicKeyPEMType = "PUBLIC KEY"
)

// GenerateKeyPair creates a new RSA key pair with public exponent 65537.
// This can take several seconds for 4096-bit keys.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("%w: %d bits, need at least %d", kerrors.ErrWeakKeySize, bits, MinKeyBits)
	}
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: generating RSA key pair: %v", kerrors.ErrEntropyFailure, err)
	}
	return privateKey, nil
}

// MarshalPublicKey encodes pub as a PEM "PUBLIC KEY" block (PKIX).
func MarshalPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: publicKeyPEMType, Bytes: der}), nil
}

// ParsePublicKey decodes a PEM "PUBLIC KEY" block holding an RSA key.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != publicKeyPEMType {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPub, nil
}

// Fingerprint returns the OpenSSH SHA256 fingerprint of pub.
func Fingerprint(pub *rsa.PublicKey) (string, error) {
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to convert public key: %w", err)
	}
	return ssh.FingerprintSHA256(sshPub), nil
}

// Destroy overwrites the secret parts of priv in place. priv must not be used afterwards.
//
// The wipe is best effort. crypto/rsa keeps its own precomputed copy of the
// key, which this cannot reach; that copy is released with priv itself.
func Destroy(priv *rsa.PrivateKey) {
	if priv == nil {
		return
	}
	wipe(priv.D)
	for _, p := range priv.Primes {
		wipe(p)
	}
	wipe(priv.Precomputed.Dp)
	wipe(priv.Precomputed.Dq)
	wipe(priv.Precomputed.Qinv)
	for i := range priv.Precomputed.CRTValues {
		wipe(priv.Precomputed.CRTValues[i].Exp)
		wipe(priv.Precomputed.CRTValues[i].Coeff)
		wipe(priv.Precomputed.CRTValues[i].R)
	}
}

func wipe(n *big.Int) {
	if n == nil {
		return
	}
	words := n.Bits()
	for i := range words {
		words[i] = 0
	}
	n.SetInt64(0)
}
