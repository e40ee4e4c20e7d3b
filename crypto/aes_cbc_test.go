package crypto

import (
	"bytes"
	"crypto/aes"
	"errors"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":         {},
		"short":         []byte("hi"),
		"block aligned": bytes.Repeat([]byte{0xAB}, aes.BlockSize*4),
		"binary":        {0x00, 0xFF, 0x10, 0x80, 0x7F},
	}

	for name, plaintext := range cases {
		t.Run(name, func(t *testing.T) {
			blob, err := Encrypt(plaintext, "pw")
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}

			wantLen := SaltLen + IVLen + (len(plaintext)/aes.BlockSize+1)*aes.BlockSize
			if len(blob) != wantLen {
				t.Errorf("blob length = %d, want %d", len(blob), wantLen)
			}

			got, err := Decrypt(blob, "pw")
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if !bytes.Equal(got, plaintext) {
				t.Errorf("Decrypt = %x, want %x", got, plaintext)
			}
		})
	}
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	a, err := Encrypt([]byte("same input"), "pw")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encrypt([]byte("same input"), "pw")
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(a[:SaltLen], b[:SaltLen]) {
		t.Error("salt reused between calls")
	}
	if bytes.Equal(a[SaltLen:SaltLen+IVLen], b[SaltLen:SaltLen+IVLen]) {
		t.Error("iv reused between calls")
	}
	if bytes.Equal(a, b) {
		t.Error("identical blobs for identical inputs")
	}
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, SaltLen)

	k1 := DeriveKey("password", salt)
	k2 := DeriveKey("password", salt)
	if len(k1) != KeyLen {
		t.Fatalf("key length = %d, want %d", len(k1), KeyLen)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("same password and salt gave different keys")
	}

	if bytes.Equal(k1, DeriveKey("password", bytes.Repeat([]byte{0x02}, SaltLen))) {
		t.Error("different salt gave the same key")
	}
	if bytes.Equal(k1, DeriveKey("Password", salt)) {
		t.Error("different password gave the same key")
	}
}

func TestDecryptWrongPasswordNeverReturnsPlaintext(t *testing.T) {
	plaintext := []byte("top secret payload")
	blob, err := Encrypt(plaintext, "right")
	if err != nil {
		t.Fatal(err)
	}

	for _, pw := range []string{"wrong", "Right", "right ", ""} {
		got, err := Decrypt(blob, pw)
		if err == nil && bytes.Equal(got, plaintext) {
			t.Errorf("password %q recovered the plaintext", pw)
		}
		if err != nil && !errors.Is(err, ErrDecryption) {
			t.Errorf("password %q: error %v is not ErrDecryption", pw, err)
		}
	}
}

func TestDecryptRejectsCorruptedBlobs(t *testing.T) {
	blob, err := Encrypt([]byte("hello"), "pw")
	if err != nil {
		t.Fatal(err)
	}

	// "hello" pads with 11 bytes of 0x0b; flipping the last IV byte turns the
	// final padding byte into 0x20, which is out of range.
	badPadding := bytes.Clone(blob)
	badPadding[SaltLen+IVLen-1] ^= 0x0b ^ 0x20

	cases := map[string][]byte{
		"nil":          nil,
		"salt only":    blob[:SaltLen],
		"no blocks":    blob[:SaltLen+IVLen],
		"misaligned":   blob[:len(blob)-1],
		"bad padding":  badPadding,
		"extra suffix": append(bytes.Clone(blob), 0x00),
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decrypt(in, "pw")
			if !errors.Is(err, ErrDecryption) {
				t.Fatalf("Decrypt error = %v, want ErrDecryption", err)
			}
		})
	}
}

func TestPadUnpad(t *testing.T) {
	for n := 0; n <= 2*aes.BlockSize; n++ {
		data := bytes.Repeat([]byte{'x'}, n)
		padded := pad(data, aes.BlockSize)
		if len(padded)%aes.BlockSize != 0 || len(padded) <= n {
			t.Fatalf("pad(%d bytes) length = %d", n, len(padded))
		}
		got, err := unpad(padded, aes.BlockSize)
		if err != nil {
			t.Fatalf("unpad(%d bytes): %v", n, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("unpad(pad(%d bytes)) mismatch", n)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(""); err == nil {
		t.Error("empty password accepted")
	}
	if err := ValidatePassword("pw"); err != nil {
		t.Errorf("short password rejected: %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordLength+1)); err == nil {
		t.Error("oversized password accepted")
	}
}
