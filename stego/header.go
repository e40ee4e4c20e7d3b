package stego

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Payload header layout, little-endian:
//
//	+-----------+-------------+------------------+-----------+
//	| signature | data length | filename (NUL    | SHA-1 of  |
//	|   "LS"    |   uint64    |  padded UTF-8)   | plaintext |
//	+-----------+-------------+------------------+-----------+
//	|  2 bytes  |   8 bytes   |    256 bytes     | 20 bytes  |
//	+-----------+-------------+------------------+-----------+
const (
	Signature           = "LS"
	SignatureLength     = len(Signature)
	DataLengthBytes     = 8
	FilenameFieldLength = 256
	ChecksumLength      = sha1.Size
	HeaderLength        = SignatureLength + DataLengthBytes + FilenameFieldLength + ChecksumLength

	BitsInByte       = 8
	ChannelsPerPixel = 3
)

const (
	dataLengthOffset = SignatureLength
	filenameOffset   = dataLengthOffset + DataLengthBytes
	checksumOffset   = filenameOffset + FilenameFieldLength
)

// Header precedes the payload inside the image.
type Header struct {
	DataLength uint64 // bytes that follow the header, ciphertext size if encrypted
	Filename   string
	Checksum   [ChecksumLength]byte // SHA-1 of the original, unencrypted data
}

// BuildHeader frames payload. checksum must cover the plaintext, not payload.
func BuildHeader(payload []byte, filename string, checksum [ChecksumLength]byte) ([]byte, error) {
	if len(filename) > FilenameFieldLength {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrFilenameTooLong, len(filename), FilenameFieldLength)
	}

	header := make([]byte, HeaderLength)
	copy(header, Signature)
	binary.LittleEndian.PutUint64(header[dataLengthOffset:], uint64(len(payload)))
	copy(header[filenameOffset:], filename)
	copy(header[checksumOffset:], checksum[:])

	return header, nil
}

func ParseHeader(raw []byte) (*Header, error) {
	if len(raw) < HeaderLength {
		return nil, fmt.Errorf("%w: need %d bytes, image holds %d", ErrInvalidSignature, HeaderLength, len(raw))
	}
	if string(raw[:SignatureLength]) != Signature {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSignature, raw[:SignatureLength])
	}

	name := bytes.TrimRight(raw[filenameOffset:checksumOffset], "\x00")
	if !utf8.Valid(name) {
		return nil, fmt.Errorf("%w: filename is not valid UTF-8", ErrInvalidSignature)
	}

	h := &Header{
		DataLength: binary.LittleEndian.Uint64(raw[dataLengthOffset:filenameOffset]),
		Filename:   string(name),
	}
	copy(h.Checksum[:], raw[checksumOffset:HeaderLength])

	return h, nil
}
