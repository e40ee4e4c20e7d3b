package stego

import (
	"crypto/sha1"
	"errors"
	"fmt"

	"image-steganography/crypto"
	"image-steganography/models"

	"github.com/rs/zerolog/log"
)

// encryptionOverhead is salt + iv; PKCS#7 adds 1 to 16 more bytes.
const encryptionOverhead = crypto.SaltLen + crypto.IVLen

type ImageLSBSteganography struct {
	config    *models.StegoConfig
	seedSpec  SeedSpec
	seed      uint64
	scrambled bool
}

// NewImageLSBSteganography parses and resolves the seed once, before any
// pixel is touched.
func NewImageLSBSteganography(config *models.StegoConfig) (*ImageLSBSteganography, error) {
	spec, err := ParseSeedSpec(config.Seed)
	if err != nil {
		return nil, err
	}

	seed, scrambled, err := spec.Resolve(config.Password, config.SeedImage)
	if err != nil {
		return nil, err
	}

	return &ImageLSBSteganography{
		config:    config,
		seedSpec:  spec,
		seed:      seed,
		scrambled: scrambled,
	}, nil
}

func (lsb *ImageLSBSteganography) Scrambled() bool {
	return lsb.scrambled
}

// CalculateCapacity returns the payload bytes that fit after the header.
func (lsb *ImageLSBSteganography) CalculateCapacity(img Carrier) int {
	return max(Capacity(img)/BitsInByte-HeaderLength, 0)
}

// MaxSecretLength returns the largest secret file that fits, accounting for
// encryption overhead when a password is configured.
func (lsb *ImageLSBSteganography) MaxSecretLength(img Carrier) int {
	return MaxPlaintextLength(lsb.CalculateCapacity(img), lsb.config.Password != "")
}

// MaxPlaintextLength converts a payload budget in bytes into the largest
// secret that fits, with or without AES-CBC framing.
func MaxPlaintextLength(payloadBytes int, encrypted bool) int {
	if !encrypted {
		return payloadBytes
	}
	blocks := (payloadBytes - encryptionOverhead) / 16
	return max((blocks-1)*16+15, 0)
}

// Embed hides secretData in img and returns the number of bits written.
func (lsb *ImageLSBSteganography) Embed(img Carrier, secretData []byte) (int, error) {
	checksum := sha1.Sum(secretData)

	payload := secretData
	if lsb.config.Password != "" {
		encrypted, err := crypto.Encrypt(secretData, lsb.config.Password)
		if err != nil {
			return 0, fmt.Errorf("failed to encrypt secret data: %w", err)
		}
		payload = encrypted
	}

	header, err := BuildHeader(payload, lsb.config.SecretFilename, checksum)
	if err != nil {
		return 0, err
	}

	bits := BytesToBits(append(header, payload...))
	capacity := Capacity(img)

	log.Debug().
		Int("width", img.Width()).
		Int("height", img.Height()).
		Int("capacity", capacity).
		Int("required", len(bits)).
		Str("seed", lsb.seedSpec.Kind.String()).
		Msg("Embedding payload")

	if len(bits) > capacity {
		return 0, fmt.Errorf("%w: need %d bits, image holds %d", ErrCapacityExceeded, len(bits), capacity)
	}

	order, err := lsb.bitOrder(img)
	if err != nil {
		return 0, err
	}

	if err := EmbedBits(img, bits, order); err != nil {
		return 0, err
	}
	return len(bits), nil
}

// Extract recovers the hidden file and its stored filename from img.
func (lsb *ImageLSBSteganography) Extract(img Carrier) ([]byte, string, error) {
	order, err := lsb.bitOrder(img)
	if err != nil {
		return nil, "", err
	}

	bits, err := ExtractBits(img, order)
	if err != nil {
		return nil, "", err
	}
	raw := BitsToBytes(bits)

	header, err := ParseHeader(raw)
	if err != nil {
		return nil, "", err
	}

	available := uint64(len(raw) - HeaderLength)
	if header.DataLength > available {
		return nil, "", fmt.Errorf("%w: header declares %d bytes, image holds %d",
			ErrTruncatedPayload, header.DataLength, available)
	}
	data := raw[HeaderLength : HeaderLength+int(header.DataLength)]

	log.Debug().
		Uint64("length", header.DataLength).
		Str("filename", header.Filename).
		Msg("Found payload header")

	if lsb.config.Password != "" {
		data, err = crypto.Decrypt(data, lsb.config.Password)
		if err != nil {
			return nil, "", fmt.Errorf("decryption failed: %w", err)
		}
	}

	if sha1.Sum(data) != header.Checksum {
		return nil, "", ErrChecksumMismatch
	}

	return data, header.Filename, nil
}

// bitOrder returns nil for raster order or the seeded permutation.
func (lsb *ImageLSBSteganography) bitOrder(img Carrier) ([]uint32, error) {
	if !lsb.scrambled {
		return nil, nil
	}
	scrambler, err := NewPixelScrambler(img.Width(), img.Height(), lsb.seed)
	if err != nil {
		return nil, err
	}
	return scrambler.BitPositions(), nil
}

// IsDataError reports whether err means the image holds no valid payload for
// the given seed and password, as opposed to an I/O or usage problem.
func IsDataError(err error) bool {
	return errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrTruncatedPayload) ||
		errors.Is(err, crypto.ErrDecryption)
}
