package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const (
	CompressThreshold = 1 * 1024 * 1024
	maxImageWidth     = 1280
)

// ShrinkImage re-encodes JPEG/PNG data over CompressThreshold as a JPEG at
// most 1280px wide. Other content types and small images pass through.
func ShrinkImage(data []byte, contentType string) ([]byte, string, error) {
	if len(data) < CompressThreshold {
		return data, contentType, nil
	}

	var img image.Image
	var err error
	switch contentType {
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return data, contentType, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
