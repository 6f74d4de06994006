package keys

import (
	"bytes"
	"crypto/aes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy pool exhausted") }

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := sharedTestKey(t)

	for _, digits := range []string{"1234", "0", "000000", "98765432109876543210"} {
		t.Run(digits, func(t *testing.T) {
			pin, err := NewPin(digits)
			if err != nil {
				t.Fatalf("NewPin failed: %v", err)
			}

			blob, err := EncryptPrivateKey(key, pin)
			if err != nil {
				t.Fatalf("EncryptPrivateKey failed: %v", err)
			}

			decrypted, err := DecryptPrivateKey(blob, pin)
			if err != nil {
				t.Fatalf("DecryptPrivateKey failed: %v", err)
			}
			if !decrypted.Equal(key) {
				t.Error("Decrypted private key does not match original")
			}
		})
	}
}

func TestEncryptPrivateKey_Layout(t *testing.T) {
	key := sharedTestKey(t)
	pin, _ := NewPin("1234")

	blob, err := EncryptPrivateKey(key, pin)
	if err != nil {
		t.Fatalf("EncryptPrivateKey failed: %v", err)
	}

	if len(blob) < IVSize+aes.BlockSize {
		t.Fatalf("Blob too short: %d bytes", len(blob))
	}
	if (len(blob)-IVSize)%aes.BlockSize != 0 {
		t.Errorf("Ciphertext length %d is not a multiple of the block size", len(blob)-IVSize)
	}
	if bytes.Contains(blob, []byte("PRIVATE KEY")) {
		t.Error("Blob must not contain the plaintext PEM header")
	}
}

func TestEncryptPrivateKey_FreshIV(t *testing.T) {
	key := sharedTestKey(t)
	pin, _ := NewPin("1234")

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		blob, err := EncryptPrivateKey(key, pin)
		if err != nil {
			t.Fatalf("EncryptPrivateKey failed: %v", err)
		}
		iv := string(blob[:IVSize])
		if seen[iv] {
			t.Fatalf("IV reused on iteration %d", i)
		}
		seen[iv] = true
	}
}

// A wrong PIN is rejected with overwhelming probability, not with certainty:
// the encryption carries no integrity tag, so roughly 1 in 256 wrong keys
// produce plausible padding. Those must still fail as ErrCorruptKey.
func TestDecryptPrivateKey_WrongPin(t *testing.T) {
	key := sharedTestKey(t)
	right, _ := NewPin("1234")

	blob, err := EncryptPrivateKey(key, right)
	if err != nil {
		t.Fatalf("EncryptPrivateKey failed: %v", err)
	}

	for _, digits := range []string{"1235", "4321", "0000", "12345", "123"} {
		wrong, _ := NewPin(digits)
		_, err := DecryptPrivateKey(blob, wrong)
		if !errors.Is(err, kerrors.ErrInvalidPin) && !errors.Is(err, kerrors.ErrCorruptKey) {
			t.Errorf("PIN %s: error = %v, want ErrInvalidPin or ErrCorruptKey", digits, err)
		}
	}
}

func TestDecryptPrivateKey_MalformedBlob(t *testing.T) {
	key := sharedTestKey(t)
	pin, _ := NewPin("1234")

	blob, err := EncryptPrivateKey(key, pin)
	if err != nil {
		t.Fatalf("EncryptPrivateKey failed: %v", err)
	}

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"IV only", blob[:IVSize]},
		{"not block aligned", blob[:len(blob)-1]},
		{"shorter than one block", blob[:IVSize+5]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptPrivateKey(tt.blob, pin)
			if !errors.Is(err, kerrors.ErrCorruptKey) {
				t.Errorf("error = %v, want ErrCorruptKey", err)
			}
		})
	}
}

func TestDecryptPrivateKey_TruncatedKeepsPadding(t *testing.T) {
	key := sharedTestKey(t)
	pin, _ := NewPin("1234")

	blob, err := EncryptPrivateKey(key, pin)
	if err != nil {
		t.Fatalf("EncryptPrivateKey failed: %v", err)
	}

	// Dropping whole blocks from the front of the ciphertext keeps the final
	// padding block intact but breaks the PEM structure.
	damaged := append(append([]byte{}, blob[:IVSize]...), blob[IVSize+4*aes.BlockSize:]...)
	_, err = DecryptPrivateKey(damaged, pin)
	if !errors.Is(err, kerrors.ErrCorruptKey) {
		t.Errorf("error = %v, want ErrCorruptKey", err)
	}
}

func TestEncryptDecrypt_RequirePin(t *testing.T) {
	key := sharedTestKey(t)

	cleared, _ := NewPin("1234")
	cleared.Clear()

	if _, err := EncryptPrivateKey(key, cleared); !errors.Is(err, kerrors.ErrInvalidPinFormat) {
		t.Errorf("EncryptPrivateKey with cleared PIN: error = %v, want ErrInvalidPinFormat", err)
	}
	if _, err := DecryptPrivateKey(make([]byte, 64), nil); !errors.Is(err, kerrors.ErrInvalidPinFormat) {
		t.Errorf("DecryptPrivateKey with nil PIN: error = %v, want ErrInvalidPinFormat", err)
	}
}

func TestEncryptPrivateKey_EntropyFailure(t *testing.T) {
	key := sharedTestKey(t)
	pin, _ := NewPin("1234")

	original := randReader
	randReader = failingReader{}
	defer func() { randReader = original }()

	_, err := EncryptPrivateKey(key, pin)
	if !errors.Is(err, kerrors.ErrEntropyFailure) {
		t.Errorf("error = %v, want ErrEntropyFailure", err)
	}
}

func TestPadUnpad(t *testing.T) {
	for n := 0; n <= 2*aes.BlockSize; n++ {
		data := bytes.Repeat([]byte{'k'}, n)
		padded := pad(append([]byte{}, data...))

		if len(padded)%aes.BlockSize != 0 || len(padded) <= n {
			t.Fatalf("pad(%d bytes) produced %d bytes", n, len(padded))
		}
		got, ok := unpad(padded)
		if !ok {
			t.Fatalf("unpad rejected valid padding for %d bytes", n)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("unpad(pad(%d bytes)) mismatch", n)
		}
	}
}

func TestUnpad_Rejects(t *testing.T) {
	block := func(last ...byte) []byte {
		b := bytes.Repeat([]byte{'a'}, aes.BlockSize)
		copy(b[aes.BlockSize-len(last):], last)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unaligned", []byte{1, 2, 3}},
		{"zero pad byte", block(0)},
		{"pad byte too large", block(17)},
		{"inconsistent pad bytes", block(3, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := unpad(tt.data); ok {
				t.Error("Expected unpad to reject input")
			}
		})
	}
}
