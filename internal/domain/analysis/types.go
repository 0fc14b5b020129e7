package analysis

import (
	"strconv"
	"strings"
)

// FlexIndex tolerates models emitting connection endpoints as either JSON
// numbers or numeric strings.
type FlexIndex int

func (f *FlexIndex) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexIndex(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexIndex(int(v))
		return nil
	}
	// non-numeric endpoint labels are tolerated as zero
	*f = 0
	return nil
}

// DetectedComponent is a single cloud service identified in the diagram.
// Only the response extractor constructs these.
type DetectedComponent struct {
	Type        string `json:"type"`
	ServiceName string `json:"service_name"`
	Confidence  int    `json:"confidence"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// Connection is a directed edge between two detected components, addressed
// by index into the component list.
type Connection struct {
	From FlexIndex `json:"from"`
	To   FlexIndex `json:"to"`
	Type string    `json:"type,omitempty"`
}

// Result is the structured outcome of one diagram analysis. The shape stays
// valid even when extraction fails: Error carries the reason and RawResponse
// the truncated model text.
type Result struct {
	Provider             string              `json:"provider"`
	DetectedComponents   []DetectedComponent `json:"detected_components"`
	Complexity           string              `json:"complexity"`
	EstimatedMonthlyCost float64             `json:"estimated_monthly_cost"`
	Connections          []Connection        `json:"connections"`
	ArchitecturePattern  string              `json:"architecture_pattern,omitempty"`
	Recommendations      []string            `json:"recommendations,omitempty"`
	Error                string              `json:"error,omitempty"`
	RawResponse          string              `json:"raw_response,omitempty"`

	// attached after analysis, not produced by the model
	S3BackupURL      string `json:"s3_backup_url,omitempty"`
	OriginalFilename string `json:"original_filename,omitempty"`
}

// Degraded reports whether this result carries the failure-shaped default
// instead of parsed model output.
func (r *Result) Degraded() bool {
	return r.Error != ""
}
