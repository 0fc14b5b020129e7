package diagram

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"skyrchitect-server-go/internal/domain/analysis"
	domainimage "skyrchitect-server-go/internal/domain/image"
	"skyrchitect-server-go/internal/domain/pdf"
	"skyrchitect-server-go/internal/platform/config"
	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
	httptransport "skyrchitect-server-go/internal/transport/http"
)

const analysisJSON = `{
  "provider": "aws",
  "detected_components": [
    {"type": "load_balancer", "service_name": "Application Load Balancer", "confidence": 95, "category": "network"},
    {"type": "database", "service_name": "RDS", "confidence": 88, "category": "database"}
  ],
  "complexity": "low",
  "estimated_monthly_cost": 120.0,
  "connections": [{"from": 0, "to": 1, "type": "tcp"}],
  "architecture_pattern": "Load balanced database app"
}`

type fakeModel struct {
	response string
	err      error
	lastPNG  []byte
}

func (f *fakeModel) AnalyzeImage(_ context.Context, pngData []byte, _ string) (string, error) {
	f.lastPNG = pngData
	return f.response, f.err
}

func (f *fakeModel) Complete(_ context.Context, _, _ string) (string, error) {
	return f.response, f.err
}

func newTestServer(t *testing.T, client *fakeModel) *httptest.Server {
	t.Helper()
	logger := logging.Discard()
	cfg := config.DefaultConfig()

	router, err := httptransport.Build(httptransport.Options{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	validator := domainimage.NewValidator(cfg.Upload.MaxImageBytes, logger)
	normalizer := domainimage.NewNormalizer(validator, cfg.Upload.MaxDimension, logger)
	rasterizer := pdf.NewRasterizer(cfg.Upload.MaxPDFBytes, cfg.Upload.PDFRenderDPI, logger)
	analyzer := analysis.NewAnalyzer(client, logger, nil)

	NewService(normalizer, rasterizer, analyzer, nil, logger, nil).Register(router)

	server := httptest.NewServer(router.Engine)
	t.Cleanup(server.Close)
	return server
}

func multipartPNG(t *testing.T, filename string, img image.Image) (*bytes.Buffer, string) {
	t.Helper()
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()
	return &body, writer.FormDataContentType()
}

func postUpload(t *testing.T, server *httptest.Server, body *bytes.Buffer, contentType string) (*http.Response, httptransport.APIResponse) {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/architecture/analyze-image", contentType, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var envelope httptransport.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, envelope
}

func TestAnalyzeImage_EndToEnd(t *testing.T) {
	client := &fakeModel{response: "```json\n" + analysisJSON + "\n```"}
	server := newTestServer(t, client)

	// 4000x3000 with a fully transparent background
	src := image.NewNRGBA(image.Rect(0, 0, 4000, 3000))
	src.Set(10, 10, color.NRGBA{R: 10, G: 10, B: 10, A: 255})

	body, contentType := multipartPNG(t, "diagram.png", src)
	resp, envelope := postUpload(t, server, body, contentType)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, message = %s", resp.StatusCode, envelope.Message)
	}
	if !envelope.Success {
		t.Fatalf("success = false: %s", envelope.Message)
	}

	// model must receive an in-bound opaque PNG
	cfg, err := png.DecodeConfig(bytes.NewReader(client.lastPNG))
	if err != nil {
		t.Fatalf("payload sent to model is not PNG: %v", err)
	}
	if cfg.Width != 1920 || cfg.Height != 1440 {
		t.Fatalf("model payload = %dx%d, want 1920x1440", cfg.Width, cfg.Height)
	}
	decoded, _, err := image.Decode(bytes.NewReader(client.lastPNG))
	if err != nil {
		t.Fatalf("decode model payload: %v", err)
	}
	if _, _, _, a := decoded.At(1900, 1430).RGBA(); a != 0xffff {
		t.Fatal("model payload must be fully opaque")
	}

	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("data has unexpected shape: %T", envelope.Data)
	}
	result, ok := data["analysis_result"].(map[string]any)
	if !ok {
		t.Fatalf("analysis_result missing: %v", data)
	}
	components, ok := result["detected_components"].([]any)
	if !ok || len(components) != 2 {
		t.Fatalf("detected_components = %v", result["detected_components"])
	}
	if cost := result["estimated_monthly_cost"].(float64); cost != 120.0 {
		t.Fatalf("cost = %v, want 120.0", cost)
	}
	if envelope.Reasoning != "Load balanced database app" {
		t.Fatalf("reasoning = %q", envelope.Reasoning)
	}
	if arch, ok := data["architecture"].(map[string]any); !ok {
		t.Fatal("architecture missing from response")
	} else if arch["name"] != "Analyzed: diagram.png" {
		t.Fatalf("architecture name = %v", arch["name"])
	}
}

func TestAnalyzeImage_MissingFile(t *testing.T) {
	server := newTestServer(t, &fakeModel{response: "{}"})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.Close()

	resp, envelope := postUpload(t, server, &body, writer.FormDataContentType())
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Success {
		t.Fatal("success must be false")
	}
}

func TestAnalyzeImage_RejectsNonImage(t *testing.T) {
	server := newTestServer(t, &fakeModel{response: "{}"})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "notes.txt")
	part.Write([]byte("just some text"))
	writer.Close()

	resp, _ := postUpload(t, server, &body, writer.FormDataContentType())
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeImage_TransportErrorIs500(t *testing.T) {
	client := &fakeModel{err: errors.New(errors.KindTransport, "test", "endpoint down")}
	server := newTestServer(t, client)

	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	body, contentType := multipartPNG(t, "d.png", src)
	resp, envelope := postUpload(t, server, body, contentType)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if envelope.Success {
		t.Fatal("success must be false")
	}
}

func TestAnalyzeImage_MalformedModelOutputStillSucceeds(t *testing.T) {
	client := &fakeModel{response: "I cannot read this diagram."}
	server := newTestServer(t, client)

	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	body, contentType := multipartPNG(t, "d.png", src)
	resp, envelope := postUpload(t, server, body, contentType)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded, not failed)", resp.StatusCode)
	}
	data := envelope.Data.(map[string]any)
	result := data["analysis_result"].(map[string]any)
	if result["error"] == nil || result["error"] == "" {
		t.Fatal("degraded result must carry an error field")
	}
}
