package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const DefaultMaxImageSize = 5 * 1024 * 1024

var (
	ErrImageTooLarge     = errors.New("image size must be less than 5MB")
	ErrNotAnImage        = errors.New("file is not a valid image")
	ErrUnsupportedFormat = errors.New("image must be JPEG or PNG")
)

var (
	variantSizes        = map[string]int{"large": 1200, "medium": 600, "thumbnail": 300}
	contentTypeByFormat = map[string]string{"jpeg": "image/jpeg", "png": "image/png"}
	extensionByFormat   = map[string]string{"jpeg": ".jpg", "png": ".png"}
)

// ImageProcessor validates uploads and renders resized variants
type ImageProcessor struct {
	MaxSize int64
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: DefaultMaxImageSize}
}

// ValidateImage checks size and format, returning the decoded format name ("jpeg" or "png")
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if int64(len(data)) > p.MaxSize {
		return "", ErrImageTooLarge
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	if _, ok := contentTypeByFormat[format]; !ok {
		return "", fmt.Errorf("%w (got %s)", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// ContentType maps a format returned by ValidateImage to its MIME type
func ContentType(format string) string {
	return contentTypeByFormat[format]
}

// Extension maps a format returned by ValidateImage to a file extension
func Extension(format string) string {
	return extensionByFormat[format]
}

// ProcessImage returns JPEG encoded variants keyed by name (large, medium, thumbnail)
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := make(map[string][]byte, len(variantSizes))
	for name, size := range variantSizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)

		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", name, err)
		}
		variants[name] = buf.Bytes()
	}
	return variants, nil
}
