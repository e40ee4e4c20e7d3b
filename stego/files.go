package stego

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"image-steganography/imaging"
	"image-steganography/models"

	"github.com/rs/zerolog/log"
)

// MinPSNR is the quality below which an encode logs a warning.
const MinPSNR = 40.0

type EncodeOptions struct {
	Password string
	Seed     string
}

type DecodeOptions struct {
	Password string
	Seed     string
	// SeedImagePath, when set, is hashed for an "image" seed instead of the
	// stego image itself. Point it at the original cover to undo an
	// image-seeded encode.
	SeedImagePath string
}

// EncodeFile hides inputFile in coverImage and writes the result to
// outputImage, whose extension selects a lossless format.
func EncodeFile(inputFile, coverImage, outputImage string, opts EncodeOptions) (*models.EncodeReport, error) {
	format, err := imaging.FormatFromPath(outputImage)
	if err != nil {
		return nil, err
	}

	secretData, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret file: %w", err)
	}

	codec := imaging.NewImageCodec()
	img, metadata, coverBytes, err := codec.Load(coverImage)
	if err != nil {
		return nil, err
	}

	engine, err := NewImageLSBSteganography(&models.StegoConfig{
		Password:       opts.Password,
		Seed:           opts.Seed,
		SeedImage:      coverBytes,
		SecretFilename: filepath.Base(inputFile),
	})
	if err != nil {
		return nil, err
	}

	original := img.Clone()
	written, err := engine.Embed(img, secretData)
	if err != nil {
		return nil, err
	}

	if err := codec.Save(outputImage, img, format); err != nil {
		return nil, err
	}

	psnr := imaging.CalculatePSNR(original, img)
	if !imaging.ValidatePSNR(psnr, MinPSNR) {
		log.Warn().Float64("psnr", psnr).Msg("Stego image quality is low")
	}

	log.Info().
		Str("output", outputImage).
		Str("cover_format", metadata.Format).
		Int("bits", written).
		Int("capacity", metadata.Capacity).
		Msg("Encoded file into image")

	return &models.EncodeReport{
		Output:      outputImage,
		Capacity:    metadata.Capacity,
		BitsWritten: written,
		Encrypted:   opts.Password != "",
		Scrambled:   engine.Scrambled(),
		PSNR:        psnr,
	}, nil
}

// DecodeFile extracts the file hidden in inputImage and returns the path it
// was written to. If outputPathOrDir is a directory, or ends in a path
// separator, the filename stored in the image is appended.
func DecodeFile(inputImage, outputPathOrDir string, opts DecodeOptions) (string, error) {
	codec := imaging.NewImageCodec()
	img, _, imageBytes, err := codec.Load(inputImage)
	if err != nil {
		return "", err
	}

	seedImage := imageBytes
	if opts.SeedImagePath != "" {
		seedImage, err = os.ReadFile(opts.SeedImagePath)
		if err != nil {
			return "", fmt.Errorf("failed to read seed image: %w", err)
		}
	}

	engine, err := NewImageLSBSteganography(&models.StegoConfig{
		Password:  opts.Password,
		Seed:      opts.Seed,
		SeedImage: seedImage,
	})
	if err != nil {
		return "", err
	}

	data, filename, err := engine.Extract(img)
	if err != nil {
		return "", err
	}

	outputPath, err := ResolveOutputPath(outputPathOrDir, filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFileAtomic(outputPath, data); err != nil {
		return "", err
	}

	log.Info().
		Str("output", outputPath).
		Int("bytes", len(data)).
		Msg("Decoded file from image")

	return outputPath, nil
}

// ResolveOutputPath appends the stored filename when target names a
// directory. Only the base name of the stored filename is used.
func ResolveOutputPath(target, storedName string) (string, error) {
	isDir := strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/")
	if !isDir {
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			isDir = true
		}
	}
	if !isDir {
		return target, nil
	}

	name := filepath.Base(filepath.Clean("/" + filepath.ToSlash(storedName)))
	if name == "" || name == "." || name == "/" || name == string(os.PathSeparator) {
		return "", fmt.Errorf("image stores no usable filename; give an output file path")
	}
	return filepath.Join(target, name), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".steg_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
