package stego

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

type SeedKind int

const (
	SeedNone SeedKind = iota
	SeedLiteral
	SeedPassword
	SeedImage
	SeedToken
)

func (k SeedKind) String() string {
	switch k {
	case SeedNone:
		return "none"
	case SeedLiteral:
		return "literal"
	case SeedPassword:
		return "password"
	case SeedImage:
		return "image"
	case SeedToken:
		return "token"
	default:
		return fmt.Sprintf("SeedKind(%d)", int(k))
	}
}

// SeedSpec says where the scrambling seed comes from. Only Literal uses
// Value and only Token uses Token.
type SeedSpec struct {
	Kind  SeedKind
	Value uint64
	Token string
}

const seedMask = 0x7FFFFFFF

// ParseSeedSpec turns the user facing seed string into a SeedSpec. An empty
// string disables scrambling, a decimal number is a literal seed, and
// "password" and "image" are matched case-insensitively.
func ParseSeedSpec(s string) (SeedSpec, error) {
	if s == "" {
		return SeedSpec{Kind: SeedNone}, nil
	}

	if isDecimal(s) {
		v, err := strconv.ParseUint(s, 10, 63)
		if err != nil {
			return SeedSpec{}, fmt.Errorf("%w: %q must fit in 63 bits", ErrInvalidSeed, s)
		}
		return SeedSpec{Kind: SeedLiteral, Value: v}, nil
	}

	switch strings.ToLower(s) {
	case "password":
		return SeedSpec{Kind: SeedPassword}, nil
	case "image":
		return SeedSpec{Kind: SeedImage}, nil
	}

	return SeedSpec{Kind: SeedToken, Token: s}, nil
}

// Resolve returns the numeric seed. scrambled is false for SeedNone, in
// which case bits go in raster order.
func (s SeedSpec) Resolve(password string, image []byte) (seed uint64, scrambled bool, err error) {
	switch s.Kind {
	case SeedNone:
		return 0, false, nil
	case SeedLiteral:
		return s.Value, true, nil
	case SeedPassword:
		if password == "" {
			return 0, false, ErrMissingPassword
		}
		return HashToSeed([]byte(password)), true, nil
	case SeedImage:
		return HashToSeed(image), true, nil
	case SeedToken:
		return HashToSeed([]byte(s.Token)), true, nil
	default:
		return 0, false, fmt.Errorf("unknown seed kind %v", s.Kind)
	}
}

// HashToSeed takes the first eight bytes of SHA-256(data) as a little-endian
// integer and keeps the low 31 bits.
func HashToSeed(data []byte) uint64 {
	sum := sha256.Sum256(data)
	return binary.LittleEndian.Uint64(sum[:8]) & seedMask
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
