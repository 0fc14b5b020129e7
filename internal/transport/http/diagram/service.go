// Package diagram exposes the diagram analysis endpoint: upload in,
// structured architecture out.
package diagram

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"skyrchitect-server-go/internal/domain/analysis"
	"skyrchitect-server-go/internal/domain/image"
	"skyrchitect-server-go/internal/domain/pdf"
	"skyrchitect-server-go/internal/platform/logging"
	"skyrchitect-server-go/internal/platform/observability"
	"skyrchitect-server-go/internal/platform/storage"
	httptransport "skyrchitect-server-go/internal/transport/http"
)

// Service wires the upload pipeline: validate, normalize, back up, analyze.
type Service struct {
	normalizer *image.Normalizer
	rasterizer *pdf.Rasterizer
	analyzer   *analysis.Analyzer
	uploader   *storage.Uploader
	logger     *logging.Logger
	metrics    *observability.Metrics
}

// NewService constructs the diagram service.
func NewService(
	normalizer *image.Normalizer,
	rasterizer *pdf.Rasterizer,
	analyzer *analysis.Analyzer,
	uploader *storage.Uploader,
	logger *logging.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		normalizer: normalizer,
		rasterizer: rasterizer,
		analyzer:   analyzer,
		uploader:   uploader,
		logger:     logger,
		metrics:    metrics,
	}
}

// Register mounts the analyze-image endpoint on the API group.
func (s *Service) Register(router *httptransport.Router) {
	router.API.POST("/architecture/analyze-image", s.handleAnalyzeImage)
}

func (s *Service) handleAnalyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "missing file upload", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "could not open upload", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "could not read upload", nil)
		return
	}

	filename := fileHeader.Filename
	declaredType := fileHeader.Header.Get("Content-Type")
	isPDF := strings.EqualFold(filepath.Ext(filename), ".pdf") || declaredType == "application/pdf"

	s.logger.Component("diagram").Infof(
		"received upload: file=%s type=%s bytes=%d pdf=%v",
		filename, declaredType, len(data), isPDF,
	)

	// PDFs are rasterized first, then both paths share the normalizer
	payload := data
	if isPDF {
		payload, err = s.rasterizer.Render(data, 1)
		if err != nil {
			httptransport.RespondDomainError(c, err)
			return
		}
	}

	normalized, err := s.normalizer.Normalize(payload, filename)
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}
	if s.metrics != nil {
		s.metrics.UploadBytes.Observe(float64(len(data)))
	}

	backupURL := ""
	if s.uploader != nil {
		backupURL = s.uploader.UploadDiagram(c.Request.Context(), normalized.Bytes, filename, "image/png", map[string]string{
			"original_type": declaredType,
			"is_pdf":        strconv.FormatBool(isPDF),
		})
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), normalized.Bytes)
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}
	result.S3BackupURL = backupURL
	result.OriginalFilename = filename

	architecture := analysis.Assemble(result, filename)

	reasoning := result.ArchitecturePattern
	if reasoning == "" {
		reasoning = "Architecture analyzed from uploaded diagram"
	}

	httptransport.RespondSuccessWithReasoning(c, http.StatusOK, gin.H{
		"architecture":        architecture,
		"analysis_result":     result,
		"detected_components": result.DetectedComponents,
	}, "Architecture diagram analyzed successfully", reasoning)
}
