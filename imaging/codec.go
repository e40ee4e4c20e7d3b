// Package imaging loads carrier images into RGB buffers and writes them back
// in lossless formats.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image-steganography/models"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is a lossless output format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

const ChannelsPerPixel = 3

// RGBImage is an 8-bit RGB pixel buffer. Alpha is forced opaque so the
// saved image carries only the three data channels.
type RGBImage struct {
	Img *image.NRGBA
}

func NewRGBImage(width, height int) *RGBImage {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return &RGBImage{Img: img}
}

// FromImage copies src into a new RGBImage anchored at the origin.
func FromImage(src image.Image) *RGBImage {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}
	return &RGBImage{Img: dst}
}

func (r *RGBImage) Width() int {
	return r.Img.Bounds().Dx()
}

func (r *RGBImage) Height() int {
	return r.Img.Bounds().Dy()
}

func (r *RGBImage) Channel(x, y, channel int) uint8 {
	return r.Img.Pix[r.Img.PixOffset(x, y)+channel]
}

func (r *RGBImage) SetChannel(x, y, channel int, value uint8) {
	r.Img.Pix[r.Img.PixOffset(x, y)+channel] = value
}

// Clone returns an independent copy of the pixel buffer.
func (r *RGBImage) Clone() *RGBImage {
	dst := image.NewNRGBA(r.Img.Rect)
	copy(dst.Pix, r.Img.Pix)
	return &RGBImage{Img: dst}
}

type ImageCodec struct{}

func NewImageCodec() *ImageCodec {
	return &ImageCodec{}
}

// Decode reads any registered image format (PNG, BMP, TIFF, GIF, JPEG, WebP).
// Lossy inputs are fine as covers; only the output must be lossless.
func (ic *ImageCodec) Decode(data []byte) (*RGBImage, *models.ImageMetadata, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img := FromImage(src)
	metadata := &models.ImageMetadata{
		Width:    img.Width(),
		Height:   img.Height(),
		Format:   format,
		Capacity: img.Width() * img.Height() * ChannelsPerPixel,
	}
	return img, metadata, nil
}

// Load reads and decodes the image at path. The raw file bytes are returned
// too, for image derived seeds.
func (ic *ImageCodec) Load(path string) (*RGBImage, *models.ImageMetadata, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	img, metadata, err := ic.Decode(data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, metadata, data, nil
}

func (ic *ImageCodec) Encode(w io.Writer, img *RGBImage, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img.Img)
	case FormatBMP:
		err = bmp.Encode(w, img.Img)
	case FormatTIFF:
		err = tiff.Encode(w, img.Img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// EncodeBytes encodes img in memory.
func (ic *ImageCodec) EncodeBytes(img *RGBImage, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := ic.Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes img to path through a temporary file in the same directory
// and renames it into place, so a failed save never leaves a partial image.
func (ic *ImageCodec) Save(path string, img *RGBImage, format Format) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".steg_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := ic.Encode(tmp, img, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move image into place: %w", err)
	}
	return nil
}

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "jpg", "jpeg", "webp", "gif":
		return "", fmt.Errorf("%q is lossy or palettised and would destroy hidden bits; use png, bmp or tiff", name)
	default:
		return "", fmt.Errorf("unsupported output format %q; use png, bmp or tiff", name)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

func (f Format) Extension() string {
	if f == FormatTIFF {
		return ".tiff"
	}
	return "." + string(f)
}
