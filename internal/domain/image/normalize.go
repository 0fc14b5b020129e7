package image

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"

	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
)

// Normalizer turns accepted uploads into the canonical diagram form.
type Normalizer struct {
	validator *Validator
	maxDim    int
	logger    *logging.Logger
}

// NewNormalizer constructs a normalizer bounded by maxDim on both axes.
func NewNormalizer(validator *Validator, maxDim int, logger *logging.Logger) *Normalizer {
	return &Normalizer{validator: validator, maxDim: maxDim, logger: logger}
}

// Normalize validates the payload, flattens transparency onto white, shrinks
// anything larger than the dimension bound, and re-encodes as PNG. Images
// already within bounds keep their pixel dimensions; nothing is upscaled.
func (n *Normalizer) Normalize(data []byte, filename string) (*Normalized, error) {
	const op = "image.Normalize"

	validation, err := n.validator.Validate(data, filename)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.KindProcessing, op, "decode image", err)
	}

	flat := Flatten(src)

	resized := false
	bounds := flat.Bounds()
	if bounds.Dx() > n.maxDim || bounds.Dy() > n.maxDim {
		flat = imaging.Fit(flat, n.maxDim, n.maxDim, imaging.Lanczos)
		resized = true
		n.logger.Component("image").Debugf(
			"resized diagram: from=%dx%d to=%dx%d",
			bounds.Dx(), bounds.Dy(), flat.Bounds().Dx(), flat.Bounds().Dy(),
		)
	}

	encoded, err := EncodePNG(flat)
	if err != nil {
		return nil, err
	}

	out := flat.Bounds()
	return &Normalized{
		Bytes:        encoded,
		Width:        out.Dx(),
		Height:       out.Dy(),
		SourceFormat: validation.Format,
		Resized:      resized,
	}, nil
}

// Flatten composites the source onto an opaque white canvas. Alpha and
// palette images come out as plain RGB pixels, which keeps the PNG encoder
// from emitting an alpha channel.
func Flatten(src image.Image) image.Image {
	bounds := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Over)
	return canvas
}

// EncodePNG serialises a flattened image into PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.KindProcessing, "image.EncodePNG", "encode png", err)
	}
	return buf.Bytes(), nil
}
