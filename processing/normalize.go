package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when the payload is not an image we can read
var ErrDecode = errors.New("cannot decode image")

// DefaultMaxPixels is the largest width x height decoded (0x3FFF * 0x3FFF)
const DefaultMaxPixels = 268402689

// Normalizer turns an arbitrary uploaded image into a size x size image
type Normalizer interface {
	Normalize(data []byte, size int) (Normalized, error)
}

type Normalized struct {
	Data   []byte
	Format string // "jpeg", "png" or "gif"
}

// Ext returns the file extension matching Format, preferring the one of
// the original file name when both mean the same thing (.jpeg vs .jpg)
func (n Normalized) Ext(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	switch n.Format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	}
	if ext == ".jpeg" || ext == ".jpg" {
		return ext
	}
	return ".jpg"
}

// CoverNormalizer scales the image to fill the target box and crops the
// overflow around the center. The aspect ratio is kept, there is no padding.
// PNG and GIF stay in their format, everything else is written as JPEG.
type CoverNormalizer struct {
	Quality   int   // JPEG quality, defaults to 90
	MaxPixels int64 // larger images are rejected before decoding, defaults to DefaultMaxPixels
}

func (n *CoverNormalizer) Normalize(data []byte, size int) (result Normalized, err error) {
	if size <= 0 {
		return result, fmt.Errorf("invalid target size %d", size)
	}
	// Compressed size says nothing about the decoded size, check the header first
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	maxPixels := n.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return result, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, maxPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return result, fmt.Errorf("%w: empty image", ErrDecode)
	}
	out := CoverCrop(img, size)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, out)
	case "gif":
		err = gif.Encode(&buf, out, nil)
	default:
		format = "jpeg"
		quality := n.Quality
		if quality <= 0 {
			quality = 90
		}
		err = jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return result, err
	}
	result.Data = buf.Bytes()
	result.Format = format
	return result, nil
}

// CoverCrop cuts the largest centered square out of img and resizes it to size x size
func CoverCrop(img image.Image, size int) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	square := image.NewRGBA(image.Rect(0, 0, side, side))
	offset := image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2)
	draw.Draw(square, square.Bounds(), img, offset, draw.Src)
	return resize.Resize(uint(size), uint(size), square, resize.Lanczos3)
}
