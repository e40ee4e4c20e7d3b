// Package models contain needed models
package models

// StegoConfig represents configuration for steganography operations
type StegoConfig struct {
	Password       string
	Seed           string // "", decimal literal, "password", "image" or any token
	SeedImage      []byte // bytes hashed when Seed is "image"
	SecretFilename string
}

// StegoResponse represents the response after insertion
type StegoResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	PSNR    float64 `json:"psnr,omitempty"`
}

// ExtractResponse represents the response after extracting a secret file
type ExtractResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	SecretFilename string `json:"secret_filename,omitempty"`
}

// CapacityResponse describes how much a cover image can carry
type CapacityResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message,omitempty"`
	Width               int    `json:"width"`
	Height              int    `json:"height"`
	Format              string `json:"format"`
	CapacityBits        int    `json:"capacity_bits"`
	MaxPayloadBytes     int    `json:"max_payload_bytes"`
	MaxEncryptedPayload int    `json:"max_encrypted_payload_bytes"`
}

// ImageMetadata represents metadata about a carrier image
type ImageMetadata struct {
	Width    int
	Height   int
	Format   string
	Capacity int // in bits, one per RGB channel
}

// EncodeReport summarises a completed embed
type EncodeReport struct {
	Output      string
	Capacity    int
	BitsWritten int
	Encrypted   bool
	Scrambled   bool
	PSNR        float64
}
