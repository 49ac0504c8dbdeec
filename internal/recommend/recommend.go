// Package recommend produces the clinical recommendations attached to an
// analysis, either from fixed per-risk-level sets or from an LLM.
package recommend

import (
	"context"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
)

// Recommendation is a single actionable item for the report.
type Recommendation struct {
	Type string `json:"type"` // urgent, monitoring, or routine
	Text string `json:"text"`
}

// Advisor generates recommendations from an analysis outcome.
type Advisor interface {
	Recommend(ctx context.Context, risk mask.RiskLevel, stats mask.Statistics) ([]Recommendation, error)
}

// StaticAdvisor returns the fixed recommendation sets; it is also the
// fallback when the LLM-backed advisor fails.
type StaticAdvisor struct{}

// Recommend implements Advisor.
func (StaticAdvisor) Recommend(_ context.Context, risk mask.RiskLevel, _ mask.Statistics) ([]Recommendation, error) {
	return Static(risk), nil
}

// Static returns the fixed recommendation set for a risk level.
func Static(risk mask.RiskLevel) []Recommendation {
	if risk == mask.RiskHigh || risk == mask.RiskMedium {
		return []Recommendation{
			{Type: "urgent", Text: "Schedule consultation with an oncologist for further evaluation"},
			{Type: "urgent", Text: "Biopsy recommended for histopathological confirmation"},
			{Type: "monitoring", Text: "Close monitoring with follow-up imaging"},
		}
	}
	return []Recommendation{
		{Type: "routine", Text: "Monitor during next routine screening"},
		{Type: "routine", Text: "Continue standard screening interval"},
	}
}
