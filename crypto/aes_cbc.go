// Package crypto contains the password based AES-256-CBC payload cipher
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation and blob layout constants. A blob is salt || iv || ciphertext.
const (
	KDFIterations     = 100000
	KeyLen            = 32 // AES-256
	SaltLen           = 16
	IVLen             = aes.BlockSize
	MaxPasswordLength = 1024
)

// ErrDecryption is returned for every decrypt failure. A wrong password and a
// corrupted blob are indistinguishable.
var ErrDecryption = errors.New("wrong password or corrupted data")

// DeriveKey derives the AES key from a password with PBKDF2-HMAC-SHA1.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, KDFIterations, KeyLen, sha1.New)
}

func Encrypt(plaintext []byte, password string) ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	iv := make([]byte, IVLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	key := DeriveKey(password, salt)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pad(plaintext, aes.BlockSize)
	blob := make([]byte, SaltLen+IVLen+len(padded))
	copy(blob, salt)
	copy(blob[SaltLen:], iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(blob[SaltLen+IVLen:], padded)

	return blob, nil
}

func Decrypt(blob []byte, password string) ([]byte, error) {
	ciphertextLen := len(blob) - SaltLen - IVLen
	if ciphertextLen < aes.BlockSize || ciphertextLen%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d",
			ErrDecryption, max(ciphertextLen, 0), aes.BlockSize)
	}

	salt := blob[:SaltLen]
	iv := blob[SaltLen : SaltLen+IVLen]

	key := DeriveKey(password, salt)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, ciphertextLen)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, blob[SaltLen+IVLen:])

	unpadded, err := unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, err
	}
	return unpadded, nil
}

// ValidatePassword validates if the password is usable for payload encryption
func ValidatePassword(password string) error {
	if len(password) == 0 {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password length cannot exceed %d bytes", MaxPasswordLength)
	}
	return nil
}

// pad applies PKCS#7 padding; a full block is added when data is aligned.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded length", ErrDecryption)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
		}
	}
	return data[:len(data)-n], nil
}

// zeroBytes overwrites a byte slice with zeros
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
