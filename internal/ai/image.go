package ai

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when bytes cannot be decoded as any supported image format.
var ErrNotImage = errors.New("data is not a supported image")

// ImageInfo describes an uploaded image without decoding its pixels.
type ImageInfo struct {
	Format   string // jpeg, png, gif, bmp, webp
	MIMEType string
	Width    int
	Height   int
}

// DetectImage reads only the image header to determine format and dimensions.
func DetectImage(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return &ImageInfo{
		Format:   format,
		MIMEType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// ResizeImage resizes an image to fit within maxSize (width or height) while keeping aspect ratio.
// The result is always JPEG.
func ResizeImage(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxSize && height <= maxSize {
		// Re-encode as JPEG to ensure consistent format.
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		return buf.Bytes(), nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(float64(height) * float64(maxSize) / float64(width))
	} else {
		newHeight = maxSize
		newWidth = int(float64(width) * float64(maxSize) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// PrepareImage downsizes data when either edge exceeds maxSize. maxSize <= 0
// or an image already within bounds returns the original bytes and MIME type.
func PrepareImage(data []byte, mimeType string, maxSize int) ([]byte, string, error) {
	if maxSize <= 0 {
		return data, mimeType, nil
	}

	info, err := DetectImage(data)
	if err != nil {
		return nil, "", err
	}
	if info.Width <= maxSize && info.Height <= maxSize {
		return data, mimeType, nil
	}

	resized, err := ResizeImage(data, maxSize)
	if err != nil {
		return nil, "", err
	}
	return resized, "image/jpeg", nil
}
