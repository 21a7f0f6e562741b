package model

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type DataPoint struct {
	Time  int       `json:"time"`
	Value float64   `json:"value"`
	Risk  RiskLevel `json:"risk"`
}

// PredictionBatch is one generated curve plus the presentation metadata the
// client renders alongside it.
type PredictionBatch struct {
	ID       string      `json:"-"` // ULID, used for logging/correlation only
	Points   []DataPoint `json:"prediction"`
	Metadata Metadata    `json:"metadata"`
}

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Protocol  string    `json:"protocol"`
	Node      string    `json:"node"`
}

// FinalMultiplier is the last point of the curve, the value the product copy
// treats as "the prediction".
func (b *PredictionBatch) FinalMultiplier() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	return b.Points[len(b.Points)-1].Value
}
