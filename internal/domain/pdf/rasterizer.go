package pdf

import (
	"bytes"
	"fmt"
	stdimage "image"

	"github.com/gen2brain/go-fitz"

	"skyrchitect-server-go/internal/domain/image"
	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
)

var pdfMagic = []byte("%PDF-")

// Rasterizer converts uploaded PDF diagrams into PNG payloads that the image
// normalizer can take from there.
type Rasterizer struct {
	maxBytes int64
	dpi      float64
	logger   *logging.Logger
}

// NewRasterizer constructs a rasterizer with the given size ceiling and
// render resolution.
func NewRasterizer(maxBytes int64, dpi float64, logger *logging.Logger) *Rasterizer {
	return &Rasterizer{maxBytes: maxBytes, dpi: dpi, logger: logger}
}

// Validate checks the payload size and the PDF header, opens the document and
// rejects anything without at least one page. Returns the page count.
func (r *Rasterizer) Validate(data []byte) (int, error) {
	const op = "pdf.Validate"

	if len(data) == 0 {
		return 0, errors.New(errors.KindValidation, op, "empty PDF payload")
	}
	if int64(len(data)) > r.maxBytes {
		r.logger.Component("pdf").Warnf(
			"rejected oversized upload: size=%d max=%d", len(data), r.maxBytes,
		)
		return 0, errors.New(errors.KindValidation, op,
			"PDF exceeds maximum size of %d bytes", r.maxBytes)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return 0, errors.New(errors.KindValidation, op, "payload is not a PDF document")
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return 0, errors.Wrap(errors.KindValidation, op, "open PDF document", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages < 1 {
		return 0, errors.New(errors.KindValidation, op, "PDF has no pages")
	}
	return pages, nil
}

// Render rasterizes a single page (1-based) as an opaque PNG. The result is
// still raw output of the renderer; callers run it through the image
// normalizer for dimension bounding.
func (r *Rasterizer) Render(data []byte, page int) ([]byte, error) {
	const op = "pdf.Render"

	pages, err := r.Validate(data)
	if err != nil {
		return nil, err
	}
	if page < 1 || page > pages {
		return nil, errors.New(errors.KindValidation, op,
			"page %d out of range (document has %d pages)", page, pages)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, errors.Wrap(errors.KindProcessing, op, "open PDF document", err)
	}
	defer doc.Close()

	rendered, err := doc.ImageDPI(page-1, r.dpi)
	if err != nil {
		return nil, errors.Wrap(errors.KindProcessing, op,
			fmt.Sprintf("could not convert PDF page %d", page), err)
	}
	if err := checkRendered(rendered, page); err != nil {
		return nil, err
	}

	encoded, err := image.EncodePNG(image.Flatten(rendered))
	if err != nil {
		return nil, err
	}

	r.logger.Component("pdf").Debugf(
		"rendered page: page=%d of=%d dpi=%.0f bytes=%d", page, pages, r.dpi, len(encoded),
	)
	return encoded, nil
}

// checkRendered rejects renders that came back without pixels, which some
// malformed documents produce without a renderer error.
func checkRendered(rendered stdimage.Image, page int) error {
	if rendered == nil || rendered.Bounds().Empty() {
		return errors.New(errors.KindProcessing, "pdf.Render",
			"could not convert PDF page %d", page)
	}
	return nil
}
