package stego

import "errors"

var (
	// ErrInvalidSignature means the extracted bytes do not start with a
	// payload header: wrong seed, wrong image, or no hidden data at all.
	ErrInvalidSignature = errors.New("invalid payload signature")
	// ErrChecksumMismatch means the recovered data does not hash to the
	// checksum stored in the header.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrCapacityExceeded = errors.New("payload exceeds image capacity")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrMissingPassword  = errors.New("password seed requested but no password provided")
	ErrInvalidSeed      = errors.New("invalid seed")
	// ErrTruncatedPayload means the header declares more data than the
	// image can hold.
	ErrTruncatedPayload = errors.New("declared payload length exceeds extracted data")
)
