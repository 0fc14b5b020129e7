package image

import (
	"bytes"
	"image"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
)

// allowedFormats is the upload allow-list. Format names are the ones the
// registered decoders report through image.DecodeConfig.
var allowedFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"webp": true,
}

// Validator performs size and format checks against incoming diagram payloads.
type Validator struct {
	maxBytes int64
	logger   *logging.Logger
}

// NewValidator constructs a validator with the given size ceiling.
func NewValidator(maxBytes int64, logger *logging.Logger) *Validator {
	return &Validator{maxBytes: maxBytes, logger: logger}
}

// Validate checks the payload against the size ceiling and the format
// allow-list. The format is determined by decoding the image header, never
// by trusting the file name or a declared MIME type.
func (v *Validator) Validate(data []byte, filename string) (ValidationResult, error) {
	const op = "image.Validate"

	if len(data) == 0 {
		return ValidationResult{}, errors.New(errors.KindValidation, op, "empty image payload")
	}
	if int64(len(data)) > v.maxBytes {
		v.logger.Component("image").Warnf(
			"rejected oversized upload: size=%d max=%d file=%s",
			len(data), v.maxBytes, filename,
		)
		return ValidationResult{}, errors.New(errors.KindValidation, op,
			"image exceeds maximum size of %d bytes", v.maxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ValidationResult{}, errors.Wrap(errors.KindValidation, op,
			"unrecognised image data", err)
	}
	if !allowedFormats[format] {
		v.logger.Component("image").Warnf(
			"rejected unsupported format: format=%s file=%s", format, filename,
		)
		return ValidationResult{}, errors.New(errors.KindValidation, op,
			"unsupported image format: %s", format)
	}

	return ValidationResult{
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		FileSize: int64(len(data)),
	}, nil
}
