package job

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"pixbatch/encoder"
	"pixbatch/logger"
	"pixbatch/models"

	"github.com/disintegration/imaging"
	// imaging registers jpeg, png, gif, bmp and tiff; webp sources need this
	_ "golang.org/x/image/webp"
)

// DecodedImage is a source image held in memory between decode and resize.
type DecodedImage struct {
	Image     image.Image
	Container string // as reported by image.Decode ("jpeg", "png", "webp", ...)
}

func (d DecodedImage) Width() int  { return d.Image.Bounds().Dx() }
func (d DecodedImage) Height() int { return d.Image.Bounds().Dy() }

// Transcode runs one job: validate → decode → resize → ensure directory →
// encode → write. The destination is replaced atomically.
func Transcode(j models.TranscodeJob) error {
	encoder.RegisterDefaults()

	if err := Validate(j); err != nil {
		return err
	}

	decoded, err := Decode(j.SourcePath)
	if err != nil {
		return err
	}
	logger.Debugf("decoded %s (%s %dx%d)", j.SourcePath, decoded.Container, decoded.Width(), decoded.Height())

	resized := Resize(decoded.Image, j.Width, j.Height)

	container, err := encoder.Resolve(j.Format, j.DestinationPath, decoded.Container)
	if err != nil {
		return newError(ErrConfig, j.DestinationPath, err)
	}

	if err := ensureDir(j.DestinationPath); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, resized, container, encoder.EncodeOptions{Quality: int(j.Quality)}); err != nil {
		return newError(ErrEncode, j.DestinationPath, fmt.Errorf("%s encoding failed: %w", container, err))
	}

	if err := writeFile(j.DestinationPath, buf.Bytes()); err != nil {
		return err
	}

	logger.Debugf("wrote %s (%s, %d bytes)", j.DestinationPath, container, buf.Len())
	return nil
}

// Decode opens a source read-only and decodes it.
func Decode(path string) (DecodedImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return DecodedImage{}, newError(ErrDecode, path, err)
	}
	defer file.Close()

	img, container, err := image.Decode(file)
	if err != nil {
		return DecodedImage{}, newError(ErrDecode, path, err)
	}
	return DecodedImage{Image: img, Container: container}, nil
}

// Resize scales to exactly width × height with a Lanczos (a=3) kernel.
// Aspect ratio is not preserved.
func Resize(img image.Image, width, height uint32) *image.NRGBA {
	return imaging.Resize(img, int(width), int(height), imaging.Lanczos)
}

func ensureDir(destination string) error {
	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return newError(ErrIO, dir, fmt.Errorf("failed to create directories: %w", err))
	}
	return nil
}

// writeFile writes data next to the destination and renames it into place,
// so readers see either the old file or the complete new one.
func writeFile(destination string, data []byte) error {
	dir := filepath.Dir(destination)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destination)+".*.tmp")
	if err != nil {
		return newError(ErrIO, destination, fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return newError(ErrIO, destination, fmt.Errorf("%s: %w", step, err))
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return newError(ErrIO, destination, fmt.Errorf("close: %w", err))
	}
	if err := os.Rename(tmpName, destination); err != nil {
		os.Remove(tmpName)
		return newError(ErrIO, destination, fmt.Errorf("rename: %w", err))
	}
	return nil
}
