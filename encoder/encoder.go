package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"pixbatch/logger"
	"pixbatch/models"

	"github.com/disintegration/imaging"
)

var (
	ErrFormatMismatch   = errors.New("output format does not match destination extension")
	ErrUnknownContainer = errors.New("cannot determine output container")
	ErrNoEncoder        = errors.New("no encoder registered")
)

// EncodeFunc is the function signature for any encoder.
// It serializes img into w; it never touches the destination file.
type EncodeFunc func(w io.Writer, img image.Image, opts EncodeOptions) error

type EncodeOptions struct {
	Quality int // 1–100, meaning is encoder specific
}

// Registry maps container name ("png", "jpeg", "webp", ...) → encoder function.
// Container names match the ones image.Decode reports.
var Registry = map[string]EncodeFunc{}

var registerOnce sync.Once

// Register adds or replaces the encoder for a container
func Register(container string, fn EncodeFunc) {
	Registry[container] = fn
	logger.Debugf("encoder [%s] registered", container)
}

// Get looks up an encoder by container name
func Get(container string) (EncodeFunc, bool) {
	fn, ok := Registry[container]
	return fn, ok
}

// RegisterDefaults registers the built-in encoders once per process.
func RegisterDefaults() {
	registerOnce.Do(func() {
		Register("png", EncodePNG)
		Register("jpeg", EncodeJPEG)
		Register("webp", EncodeWebP)
		Register("gif", imagingEncoder(imaging.GIF))
		Register("bmp", imagingEncoder(imaging.BMP))
		Register("tiff", imagingEncoder(imaging.TIFF))
	})
}

// ContainerFromPath returns the container implied by the path's extension,
// or "" if the extension is not a known image extension.
func ContainerFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return "webp"
	}
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return ""
	}
	return strings.ToLower(f.String())
}

// tagContainer is the container an explicit format tag selects; "" for KeepOriginal.
func tagContainer(format models.OutputFormat) string {
	switch format {
	case models.Png:
		return "png"
	case models.Jpeg:
		return "jpeg"
	case models.Webp:
		return "webp"
	default:
		return ""
	}
}

// CheckDestination verifies that an explicit format tag and a recognized
// destination extension agree. It needs no pixels, so it runs before decode.
func CheckDestination(format models.OutputFormat, destination string) error {
	want := tagContainer(format)
	if want == "" {
		return nil
	}
	if got := ContainerFromPath(destination); got != "" && got != want {
		return fmt.Errorf("%w: format %s, extension %s", ErrFormatMismatch, format, filepath.Ext(destination))
	}
	return nil
}

// Resolve picks the container to write.
// Explicit tags win. KeepOriginal follows the destination extension and,
// when that is not an image extension, the source's own container.
func Resolve(format models.OutputFormat, destination, sourceContainer string) (string, error) {
	if err := CheckDestination(format, destination); err != nil {
		return "", err
	}
	container := tagContainer(format)
	if container == "" {
		container = ContainerFromPath(destination)
	}
	if container == "" {
		container = sourceContainer
	}
	if container == "" {
		return "", fmt.Errorf("%w for %s", ErrUnknownContainer, destination)
	}
	if _, ok := Get(container); !ok {
		return "", fmt.Errorf("%w for container %s", ErrNoEncoder, container)
	}
	return container, nil
}

// Encode resolves and runs the encoder for a job's output.
func Encode(w io.Writer, img image.Image, container string, opts EncodeOptions) error {
	enc, ok := Get(container)
	if !ok {
		return fmt.Errorf("%w for container %s", ErrNoEncoder, container)
	}
	return enc(w, img, opts)
}
