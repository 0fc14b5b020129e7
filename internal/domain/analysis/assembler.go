package analysis

import (
	"fmt"
	"math"
	"strings"
)

// UIComponent is the display-ready form of a detected component.
type UIComponent struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
	Confidence  int     `json:"confidence"`
}

// UIDiagram is a placeholder canvas. The frontend lays out nodes and edges
// itself.
type UIDiagram struct {
	Nodes []any `json:"nodes"`
	Edges []any `json:"edges"`
}

// UIArchitecture is the display-ready architecture built from one analysis.
type UIArchitecture struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Provider         string        `json:"provider"`
	Components       []UIComponent `json:"components"`
	OptimizationGoal string        `json:"optimization_goal"`
	EstimatedCost    float64       `json:"estimated_cost"`
	Complexity       string        `json:"complexity"`
	S3BackupURL      string        `json:"s3_backup_url,omitempty"`
	Diagram          UIDiagram     `json:"diagram"`
}

// Assemble turns an analysis result into the UI architecture shape. The
// total estimated cost is split evenly across components as a placeholder
// per-component figure, a deliberate approximation with no per-service
// weighting.
func Assemble(result *Result, filename string) *UIArchitecture {
	provider := result.Provider
	if provider == "" {
		provider = "aws"
	}
	complexity := result.Complexity
	if complexity == "" {
		complexity = "medium"
	}

	count := len(result.DetectedComponents)
	perComponent := 0.0
	if count > 0 {
		perComponent = roundCents(result.EstimatedMonthlyCost / float64(count))
	}

	components := make([]UIComponent, 0, count)
	for idx, comp := range result.DetectedComponents {
		category := comp.Category
		if category == "" {
			category = "compute"
		}
		components = append(components, UIComponent{
			ID:          fmt.Sprintf("%s-%d", comp.Type, idx+1),
			Name:        comp.ServiceName,
			Category:    category,
			Type:        comp.Type,
			Cost:        perComponent,
			Description: fmt.Sprintf("%s (Confidence: %d%%)", comp.Description, comp.Confidence),
			Confidence:  comp.Confidence,
		})
	}

	base := filename
	if dot := strings.IndexByte(base, '.'); dot >= 0 {
		base = base[:dot]
	}

	return &UIArchitecture{
		ID:               "analyzed-" + base,
		Name:             "Analyzed: " + filename,
		Provider:         provider,
		Components:       components,
		OptimizationGoal: "balanced",
		EstimatedCost:    result.EstimatedMonthlyCost,
		Complexity:       complexity,
		S3BackupURL:      result.S3BackupURL,
		Diagram:          UIDiagram{Nodes: []any{}, Edges: []any{}},
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
