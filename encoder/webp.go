package encoder

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	webpenc "github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// LosslessQuality is the only quality that selects lossless WebP.
const LosslessQuality = 100

// losslessLevel is libwebp's effort level (0 fastest .. 9 smallest).
const losslessLevel = 6

// EncodeWebP writes lossless WebP at quality 100 and lossy WebP at 1–99.
func EncodeWebP(w io.Writer, img image.Image, o EncodeOptions) error {
	var (
		options *webpenc.Options
		err     error
	)
	q := clampQuality(o.Quality)
	if q == LosslessQuality {
		options, err = webpenc.NewLosslessEncoderOptions(webpenc.PresetDefault, losslessLevel)
	} else {
		options, err = webpenc.NewLossyEncoderOptions(webpenc.PresetDefault, float32(q))
	}
	if err != nil {
		return fmt.Errorf("webp options: %w", err)
	}

	// libwebp imports straight 8-bit RGBA
	return webp.Encode(w, toNRGBA(img), options)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
