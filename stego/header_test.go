package stego

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestBuildHeaderLayout(t *testing.T) {
	payload := []byte("payload bytes")
	checksum := sha1.Sum([]byte("plain"))

	h, err := BuildHeader(payload, "notes.txt", checksum)
	if err != nil {
		t.Fatal(err)
	}

	if len(h) != 286 || HeaderLength != 286 {
		t.Fatalf("header length = %d, want 286", len(h))
	}
	if string(h[:2]) != "LS" {
		t.Errorf("signature = %q", h[:2])
	}
	if n := binary.LittleEndian.Uint64(h[2:10]); n != uint64(len(payload)) {
		t.Errorf("data length = %d, want %d", n, len(payload))
	}
	if !bytes.HasPrefix(h[10:266], []byte("notes.txt\x00")) {
		t.Errorf("filename field = %q", h[10:30])
	}
	if !bytes.Equal(h[266:286], checksum[:]) {
		t.Errorf("checksum field mismatch")
	}
}

func TestParseHeaderRoundTrip(t *testing.T) {
	checksum := sha1.Sum([]byte("plain"))
	raw, err := BuildHeader(make([]byte, 1234), "répertoire/ファイル.bin", checksum)
	if err != nil {
		t.Fatal(err)
	}
	raw = append(raw, "trailing payload"...)

	h, err := ParseHeader(raw)
	if err != nil {
		t.Fatal(err)
	}
	if h.DataLength != 1234 {
		t.Errorf("DataLength = %d", h.DataLength)
	}
	if h.Filename != "répertoire/ファイル.bin" {
		t.Errorf("Filename = %q", h.Filename)
	}
	if h.Checksum != checksum {
		t.Error("Checksum mismatch")
	}
}

func TestFilenameBoundary(t *testing.T) {
	var checksum [ChecksumLength]byte

	exact := strings.Repeat("a", 254) + "é" // 256 bytes
	raw, err := BuildHeader(nil, exact, checksum)
	if err != nil {
		t.Fatalf("256-byte filename rejected: %v", err)
	}
	h, err := ParseHeader(raw)
	if err != nil {
		t.Fatal(err)
	}
	if h.Filename != exact {
		t.Errorf("filename not preserved")
	}

	_, err = BuildHeader(nil, strings.Repeat("a", 257), checksum)
	if !errors.Is(err, ErrFilenameTooLong) {
		t.Errorf("257-byte filename: err = %v, want ErrFilenameTooLong", err)
	}
}

func TestParseHeaderRejects(t *testing.T) {
	var checksum [ChecksumLength]byte
	good, _ := BuildHeader(nil, "a", checksum)

	badSig := bytes.Clone(good)
	badSig[0] = 'X'

	badName := bytes.Clone(good)
	badName[10] = 0xFF

	cases := map[string][]byte{
		"short":        good[:HeaderLength-1],
		"empty":        nil,
		"signature":    badSig,
		"invalid utf8": badName,
	}
	for name, raw := range cases {
		if _, err := ParseHeader(raw); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("%s: err = %v, want ErrInvalidSignature", name, err)
		}
	}
}
