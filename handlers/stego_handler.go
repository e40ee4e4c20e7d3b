// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"image-steganography/crypto"
	"image-steganography/imaging"
	"image-steganography/models"
	"image-steganography/stego"

	"github.com/gin-gonic/gin"
)

const defaultSecretFilename = "secret.bin"

type StegoHandler struct {
	imageCodec     *imaging.ImageCodec
	maxUploadBytes int64
}

func NewStegoHandler(maxUploadBytes int64) *StegoHandler {
	return &StegoHandler{
		imageCodec:     imaging.NewImageCodec(),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Steganography API is running",
		"version": "1.0.0",
	})
}

func (h *StegoHandler) InsertMessage(c *gin.Context) {
	if status, err := h.parseForm(c); err != nil {
		c.JSON(status, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	password := c.PostForm("password")
	seed := c.PostForm("seed")

	if password != "" {
		if err := crypto.ValidatePassword(password); err != nil {
			c.JSON(http.StatusBadRequest, models.StegoResponse{
				Success: false,
				Message: fmt.Sprintf("Invalid password: %v", err),
			})
			return
		}
	}

	format, err := imaging.ParseFormat(c.DefaultPostForm("format", string(imaging.FormatPNG)))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid output format: %v", err),
		})
		return
	}

	coverData, coverHeader, err := readFormFile(c, "cover_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: "Cover image is required",
		})
		return
	}

	secretData, secretHeader, err := readFormFile(c, "secret_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: "Secret file is required",
		})
		return
	}

	img, metadata, err := h.imageCodec.Decode(coverData)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid cover image: %v", err),
		})
		return
	}

	config := &models.StegoConfig{
		Password:       password,
		Seed:           seed,
		SeedImage:      coverData,
		SecretFilename: secretHeader.Filename,
	}

	imageStego, err := stego.NewImageLSBSteganography(config)
	if err != nil {
		_ = c.Error(err)
		c.JSON(errorStatus(err), models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid seed: %v", err),
		})
		return
	}

	original := img.Clone()
	if _, err := imageStego.Embed(img, secretData); err != nil {
		_ = c.Error(err)
		c.JSON(errorStatus(err), models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to embed secret data: %v. Maximum secret size for this image: %d bytes",
				err, imageStego.MaxSecretLength(img)),
		})
		return
	}

	stegoImage, err := h.imageCodec.EncodeBytes(img, format)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to encode stego image: %v", err),
		})
		return
	}

	psnr := imaging.CalculatePSNR(original, img)

	baseFilename := strings.TrimSuffix(coverHeader.Filename, filepath.Ext(coverHeader.Filename))
	outputFilename := fmt.Sprintf("%s_stego%s", baseFilename, format.Extension())

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename))

	c.Header("X-Stego-Method", "RGB LSB")
	c.Header("X-Stego-PSNR", strconv.FormatFloat(psnr, 'f', 2, 64))
	c.Header("X-Stego-Capacity", strconv.Itoa(metadata.Capacity))
	c.Header("X-Stego-Scrambled", strconv.FormatBool(imageStego.Scrambled()))

	c.Data(http.StatusOK, format.ContentType(), stegoImage)
}

func (h *StegoHandler) ExtractMessage(c *gin.Context) {
	if status, err := h.parseForm(c); err != nil {
		c.JSON(status, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	stegoData, _, err := readFormFile(c, "stego_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: "Stego image is required",
		})
		return
	}

	// an "image" seed hashes the original cover when one is uploaded
	seedImage := stegoData
	if data, _, err := readFormFile(c, "seed_image"); err == nil {
		seedImage = data
	}

	img, _, err := h.imageCodec.Decode(stegoData)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid stego image: %v", err),
		})
		return
	}

	config := &models.StegoConfig{
		Password:  c.PostForm("password"),
		Seed:      c.PostForm("seed"),
		SeedImage: seedImage,
	}

	imageStego, err := stego.NewImageLSBSteganography(config)
	if err != nil {
		_ = c.Error(err)
		c.JSON(errorStatus(err), models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid seed: %v", err),
		})
		return
	}

	secretData, secretFilename, err := imageStego.Extract(img)
	if err != nil {
		_ = c.Error(err)
		c.JSON(errorStatus(err), models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to extract secret data: %v. Check the password and seed used for embedding.", err),
		})
		return
	}

	secretFilename = downloadName(secretFilename)

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", secretFilename))
	c.Header("X-Stego-Filename", secretFilename)

	c.Data(http.StatusOK, "application/octet-stream", secretData)
}

func (h *StegoHandler) Capacity(c *gin.Context) {
	if status, err := h.parseForm(c); err != nil {
		c.JSON(status, models.CapacityResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	coverData, _, err := readFormFile(c, "cover_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.CapacityResponse{
			Success: false,
			Message: "Cover image is required",
		})
		return
	}

	img, metadata, err := h.imageCodec.Decode(coverData)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.CapacityResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid cover image: %v", err),
		})
		return
	}

	payloadBytes := max(stego.Capacity(img)/stego.BitsInByte-stego.HeaderLength, 0)

	c.JSON(http.StatusOK, models.CapacityResponse{
		Success:             true,
		Width:               metadata.Width,
		Height:              metadata.Height,
		Format:              metadata.Format,
		CapacityBits:        metadata.Capacity,
		MaxPayloadBytes:     stego.MaxPlaintextLength(payloadBytes, false),
		MaxEncryptedPayload: stego.MaxPlaintextLength(payloadBytes, true),
	})
}

// parseForm caps the request body and parses the multipart form, returning
// the status to report on failure.
func (h *StegoHandler) parseForm(c *gin.Context) (int, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, err
		}
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}

func readFormFile(c *gin.Context, field string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	return data, header, nil
}

// errorStatus maps steganography errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case stego.IsDataError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, stego.ErrCapacityExceeded),
		errors.Is(err, stego.ErrFilenameTooLong),
		errors.Is(err, stego.ErrMissingPassword),
		errors.Is(err, stego.ErrInvalidSeed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func downloadName(stored string) string {
	name := filepath.Base(filepath.Clean("/" + filepath.ToSlash(stored)))
	if name == "/" || name == "." || name == string(filepath.Separator) {
		return defaultSecretFilename
	}
	return name
}
