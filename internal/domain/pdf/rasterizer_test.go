package pdf

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
)

// minimalPDF is a single blank page. MuPDF reconstructs the missing xref
// table on load.
const minimalPDF = `%PDF-1.4
1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj
2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj
3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] >> endobj
trailer << /Root 1 0 R >>
%%EOF
`

func newTestRasterizer(maxBytes int64) *Rasterizer {
	return NewRasterizer(maxBytes, 200, logging.Discard())
}

func TestRasterizer_Validate(t *testing.T) {
	r := newTestRasterizer(20 * 1024 * 1024)

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "valid document", data: []byte(minimalPDF)},
		{name: "empty payload", data: nil, wantErr: true},
		{name: "not a pdf", data: []byte("hello world"), wantErr: true},
		{name: "truncated garbage", data: []byte("%PDF-1.4\nnothing else"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := r.Validate(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d pages", pages)
				}
				if !errors.IsKind(err, errors.KindValidation) {
					t.Fatalf("expected validation kind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pages != 1 {
				t.Fatalf("pages = %d, want 1", pages)
			}
		})
	}
}

func TestRasterizer_ValidateSizeCeiling(t *testing.T) {
	r := newTestRasterizer(8)
	if _, err := r.Validate([]byte(minimalPDF)); err == nil {
		t.Fatal("expected oversized payload to be rejected")
	}
}

func TestRasterizer_Render(t *testing.T) {
	r := newTestRasterizer(20 * 1024 * 1024)

	data, err := r.Render([]byte(minimalPDF), 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Fatalf("empty render: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRasterizer_RenderPageOutOfRange(t *testing.T) {
	r := newTestRasterizer(20 * 1024 * 1024)

	for _, page := range []int{0, 2, -1} {
		if _, err := r.Render([]byte(minimalPDF), page); err == nil {
			t.Fatalf("expected page %d to be rejected", page)
		}
	}
}

func TestCheckRenderedRejectsEmptyOutput(t *testing.T) {
	if err := checkRendered(nil, 1); !errors.IsKind(err, errors.KindProcessing) {
		t.Fatalf("nil render: got %v", err)
	}

	err := checkRendered(image.NewRGBA(image.Rect(0, 0, 0, 0)), 3)
	if !errors.IsKind(err, errors.KindProcessing) {
		t.Fatalf("zero-area render: got %v", err)
	}
	if !strings.Contains(err.Error(), "could not convert PDF page 3") {
		t.Fatalf("unexpected message: %v", err)
	}

	if err := checkRendered(image.NewRGBA(image.Rect(0, 0, 10, 10)), 1); err != nil {
		t.Fatalf("valid render rejected: %v", err)
	}
}
