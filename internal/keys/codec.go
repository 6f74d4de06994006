package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/youmark/pkcs8"
)

// IVSize is the length of the random IV stored at the front of every blob.
const IVSize = aes.BlockSize

const privateKeyPEMType = "PRIVATE KEY"

// randReader is swapped in tests to simulate a failing entropy source.
var randReader io.Reader = rand.Reader

// EncryptPrivateKey serialises priv as unencrypted PKCS#8 PEM and encrypts it
// with AES-256-CBC under the key derived from pin.
//
// The returned blob is IV (16 bytes) followed by the ciphertext. A fresh IV
// is drawn for every call.
func EncryptPrivateKey(priv *rsa.PrivateKey, pin *Pin) ([]byte, error) {
	if pin.Len() == 0 {
		return nil, kerrors.ErrInvalidPinFormat
	}

	blob := make([]byte, IVSize)
	if _, err := io.ReadFull(randReader, blob); err != nil {
		return nil, fmt.Errorf("%w: reading IV: %v", kerrors.ErrEntropyFailure, err)
	}

	der, err := pkcs8.MarshalPrivateKey(priv, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	defer zero(der)

	plaintext := pad(pem.EncodeToMemory(&pem.Block{Type: privateKeyPEMType, Bytes: der}))
	defer zero(plaintext)

	key := DeriveKey(pin)
	defer zero(key[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, blob[:IVSize]).CryptBlocks(ciphertext, plaintext)

	return append(blob, ciphertext...), nil
}

// DecryptPrivateKey reverses EncryptPrivateKey.
//
// Returns ErrInvalidPin when the padding check fails, which is what a wrong
// PIN almost always produces. The encryption is not authenticated, so a
// wrong PIN occasionally gets past the padding check; the garbage that comes
// out then fails to parse and ErrCorruptKey is returned instead. A blob that
// is too short or not block aligned also returns ErrCorruptKey.
func DecryptPrivateKey(blob []byte, pin *Pin) (*rsa.PrivateKey, error) {
	if pin.Len() == 0 {
		return nil, kerrors.ErrInvalidPinFormat
	}
	if len(blob) < IVSize+aes.BlockSize || (len(blob)-IVSize)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: blob length %d is not IV plus whole blocks", kerrors.ErrCorruptKey, len(blob))
	}

	iv, ciphertext := blob[:IVSize], blob[IVSize:]

	key := DeriveKey(pin)
	defer zero(key[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	defer zero(plaintext)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := unpad(plaintext)
	if !ok {
		return nil, kerrors.ErrInvalidPin
	}

	pemBlock, _ := pem.Decode(unpadded)
	if pemBlock == nil || pemBlock.Type != privateKeyPEMType {
		return nil, fmt.Errorf("%w: no PEM private key block", kerrors.ErrCorruptKey)
	}
	defer zero(pemBlock.Bytes)

	privateKey, err := pkcs8.ParsePKCS8PrivateKeyRSA(pemBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrCorruptKey, err)
	}
	return privateKey, nil
}

// pad applies PKCS#7 padding up to the AES block size. A full block is added
// when the input is already aligned.
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	zero(data)
	return padded
}

// unpad strips PKCS#7 padding and reports whether it was well formed.
func unpad(data []byte) ([]byte, bool) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
