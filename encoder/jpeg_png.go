package encoder

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// EncodeJPEG encodes using the job quality
func EncodeJPEG(w io.Writer, img image.Image, o EncodeOptions) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(clampQuality(o.Quality)))
}

// EncodePNG ignores quality; PNG is always written with default compression.
func EncodePNG(w io.Writer, img image.Image, _ EncodeOptions) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// Shared helper for the containers that have no quality knob
func imagingEncoder(format imaging.Format) EncodeFunc {
	return func(w io.Writer, img image.Image, _ EncodeOptions) error {
		return imaging.Encode(w, img, format)
	}
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}
