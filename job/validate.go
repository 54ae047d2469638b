package job

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"pixbatch/encoder"
	"pixbatch/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a job's preconditions. Failures are ErrConfig and are
// raised before anything is decoded or written.
func Validate(j models.TranscodeJob) error {
	if err := validate.Struct(j); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newError(ErrConfig, j.DestinationPath, describe(verrs))
		}
		return newError(ErrConfig, j.DestinationPath, err)
	}
	if !j.Format.Valid() {
		return newError(ErrConfig, j.DestinationPath, fmt.Errorf("invalid output format %d", int(j.Format)))
	}
	if !filepath.IsAbs(j.DestinationPath) {
		return newError(ErrConfig, j.DestinationPath, errors.New("destination_path must be absolute"))
	}
	if err := encoder.CheckDestination(j.Format, j.DestinationPath); err != nil {
		return newError(ErrConfig, j.DestinationPath, err)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be between 1 and 100, got %v", e.Field(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", e.Field(), e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
