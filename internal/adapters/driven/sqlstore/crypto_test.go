package sqlstore

import (
	"bytes"
	"errors"
	"testing"
)

var testKey = []byte("01234567890123456789012345678901")

func TestSecretEncryptor_RoundTrip(t *testing.T) {
	encryptor, err := NewSecretEncryptor(testKey)
	if err != nil {
		t.Fatalf("NewSecretEncryptor: %v", err)
	}

	blob, err := encryptor.EncryptString("sk-test-key")
	if err != nil {
		t.Fatalf("EncryptString: %v", err)
	}

	if len(blob) < 1+nonceSize {
		t.Fatalf("blob too short: %d bytes", len(blob))
	}
	if blob[0] != secretVersion {
		t.Errorf("version byte: got %d, want %d", blob[0], secretVersion)
	}
	if bytes.Contains(blob, []byte("sk-test-key")) {
		t.Error("blob contains plaintext")
	}

	decrypted, err := encryptor.DecryptString(blob)
	if err != nil {
		t.Fatalf("DecryptString: %v", err)
	}
	if decrypted != "sk-test-key" {
		t.Errorf("got %q, want %q", decrypted, "sk-test-key")
	}
}

func TestSecretEncryptor_EmptyString(t *testing.T) {
	encryptor, _ := NewSecretEncryptor(testKey)

	blob, err := encryptor.EncryptString("")
	if err != nil {
		t.Fatalf("EncryptString: %v", err)
	}
	if blob != nil {
		t.Errorf("expected nil blob, got %v", blob)
	}

	s, err := encryptor.DecryptString(nil)
	if err != nil || s != "" {
		t.Errorf("DecryptString(nil) = %q, %v", s, err)
	}
}

func TestSecretEncryptor_InvalidKeySize(t *testing.T) {
	tests := []struct {
		name    string
		keySize int
	}{
		{"too short", 16},
		{"too long", 64},
		{"empty", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSecretEncryptor(make([]byte, tt.keySize))
			if !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("expected ErrInvalidKeySize, got %v", err)
			}
		})
	}
}

func TestSecretEncryptor_DecryptInvalidBlob(t *testing.T) {
	encryptor, _ := NewSecretEncryptor(testKey)

	tests := []struct {
		name string
		blob []byte
		want error
	}{
		{"too short", []byte{0x01, 0x02}, ErrInvalidBlobSize},
		{"wrong version", append([]byte{0x99}, make([]byte, 100)...), ErrUnsupportedVersion},
		{"garbage", append([]byte{secretVersion}, make([]byte, 100)...), ErrDecryptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encryptor.DecryptString(tt.blob)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSecretEncryptor_WrongKey(t *testing.T) {
	enc1, _ := NewSecretEncryptor(testKey)
	enc2, _ := NewSecretEncryptor([]byte("10987654321098765432109876543210"))

	blob, err := enc1.EncryptString("secret data")
	if err != nil {
		t.Fatalf("EncryptString: %v", err)
	}

	if _, err := enc2.DecryptString(blob); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestSecretEncryptor_UniqueNonce(t *testing.T) {
	encryptor, _ := NewSecretEncryptor(testKey)

	nonces := make(map[string]bool)
	for i := 0; i < 10; i++ {
		blob, err := encryptor.EncryptString("same value")
		if err != nil {
			t.Fatalf("EncryptString %d: %v", i, err)
		}
		nonce := string(blob[1 : 1+nonceSize])
		if nonces[nonce] {
			t.Errorf("duplicate nonce at index %d", i)
		}
		nonces[nonce] = true
	}
}

func TestDeriveKey(t *testing.T) {
	k1, err := DeriveKey("correct horse battery staple")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if len(k1) != keySize {
		t.Errorf("key size = %d, want %d", len(k1), keySize)
	}

	k2, _ := DeriveKey("correct horse battery staple")
	if !bytes.Equal(k1, k2) {
		t.Error("derivation is not deterministic")
	}

	k3, _ := DeriveKey("another secret")
	if bytes.Equal(k1, k3) {
		t.Error("different secrets produced the same key")
	}

	if _, err := DeriveKey(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("expected ErrEmptySecret, got %v", err)
	}

	enc, err := NewSecretEncryptorFromSecret("s")
	if err != nil || enc == nil {
		t.Fatalf("NewSecretEncryptorFromSecret: %v", err)
	}
}
