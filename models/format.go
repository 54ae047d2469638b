package models

import (
	"fmt"
	"strings"
)

// OutputFormat selects the encoder branch for a job.
type OutputFormat int

const (
	KeepOriginal OutputFormat = iota
	Png
	Jpeg
	Webp
)

var formatNames = map[OutputFormat]string{
	KeepOriginal: "keep_original",
	Png:          "png",
	Jpeg:         "jpeg",
	Webp:         "webp",
}

// ParseOutputFormat accepts the wire tags case-insensitively; "jpg" is an alias for jpeg.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep_original":
		return KeepOriginal, nil
	case "png":
		return Png, nil
	case "jpeg", "jpg":
		return Jpeg, nil
	case "webp":
		return Webp, nil
	default:
		return KeepOriginal, fmt.Errorf("unknown output format %q", s)
	}
}

// Valid reports whether f is one of the declared formats.
func (f OutputFormat) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

func (f OutputFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("OutputFormat(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML carry the tag.
func (f OutputFormat) MarshalText() ([]byte, error) {
	name, ok := formatNames[f]
	if !ok {
		return nil, fmt.Errorf("invalid output format %d", int(f))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *OutputFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseOutputFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
