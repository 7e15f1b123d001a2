// Package encode exports already-rendered render-mode buffers to common
// image formats. It is a thin adapter over the standard image codecs (plus
// WebP) and has no awareness of the render pipeline itself: callers pass it
// the image.Image a rendermode buffer already produces (the Image() of
// SDFMode, DebugMode or ShadedNormalMode, HeightmapMode's ToGray16()).
// BitMode has no image export.
package encode

import (
	"fmt"
	"image"
)

// Encoder encodes a rendered image into a file format's byte encoding.
type Encoder interface {
	// Encode encodes img into the format's byte representation.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "jpeg", "png", "webp").
	Format() string

	// FileExtension returns the format's conventional file extension.
	FileExtension() string
}

// NewEncoder creates an encoder for the given format and quality (quality
// is ignored by lossless formats).
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "jpeg", "jpg":
		return &JPEGEncoder{Quality: quality}, nil
	case "png":
		return &PNGEncoder{}, nil
	case "webp":
		return newWebPEncoder(quality)
	default:
		return nil, fmt.Errorf("unsupported image format: %q (supported: jpeg, png, webp)", format)
	}
}
