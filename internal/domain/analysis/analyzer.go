package analysis

import (
	"context"

	"skyrchitect-server-go/internal/domain/model"
	"skyrchitect-server-go/internal/platform/logging"
	"skyrchitect-server-go/internal/platform/observability"
)

// Analyzer drives one diagram through the remote vision model and the
// response extractor. The client handle is stateless and shared across
// requests.
type Analyzer struct {
	client  model.Client
	logger  *logging.Logger
	metrics *observability.Metrics
}

// NewAnalyzer constructs an analyzer around a model client.
func NewAnalyzer(client model.Client, logger *logging.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{client: client, logger: logger, metrics: metrics}
}

// Analyze sends the normalized PNG to the model and extracts the structured
// result. Transport failures propagate to the caller; malformed model output
// does not, it comes back as a degraded result.
func (a *Analyzer) Analyze(ctx context.Context, pngData []byte) (*Result, error) {
	text, err := a.client.AnalyzeImage(ctx, pngData, AnalysisPrompt)
	if err != nil {
		a.observe("failed")
		return nil, err
	}

	result := Extract(text)
	if result.Degraded() {
		a.observe("degraded")
		a.logger.Component("analysis").Warnf(
			"model response did not parse, returning degraded result: preview=%q",
			truncateRunes(text, 120),
		)
		return result, nil
	}

	a.observe("ok")
	a.logger.Component("analysis").Infof(
		"diagram analyzed: provider=%s components=%d complexity=%s cost=%.2f",
		result.Provider, len(result.DetectedComponents), result.Complexity,
		result.EstimatedMonthlyCost,
	)
	return result, nil
}

func (a *Analyzer) observe(outcome string) {
	if a.metrics == nil {
		return
	}
	a.metrics.Analyses.WithLabelValues(outcome).Inc()
}
