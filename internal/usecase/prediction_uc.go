// File: internal/usecase/prediction_uc.go
package usecase

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/infra/metrics"
)

var _ PredictionUseCase = (*predictionUC)(nil)

type PredictionUseCase interface {
	// Generate produces a multiplier curve. Callers may be anonymous.
	Generate(ctx context.Context, in PredictionInput) (*model.PredictionBatch, error)
}

type PredictionInput struct {
	UserID      string // empty for anonymous callers
	Type        string // "elite" (default) | anything else is the standard curve
	RiskSetting string // "low" | "medium" (default) | "high", elite only
}

// SequenceCounter hands out the caller's position in the configured output
// sequence. Backed by Redis so positions survive restarts and are shared
// across instances.
type SequenceCounter interface {
	Next(ctx context.Context, userID string) (int64, error)
}

type predictionUC struct {
	sequence []float64
	counter  SequenceCounter
	log      *zerolog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPredictionUseCase(sequence []float64, counter SequenceCounter, logger *zerolog.Logger) *predictionUC {
	l := logger.With().Str("component", "PredictionUC").Logger()
	return &predictionUC{
		sequence: sequence,
		counter:  counter,
		log:      &l,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (u *predictionUC) Generate(ctx context.Context, in PredictionInput) (*model.PredictionBatch, error) {
	typ := in.Type
	if typ == "" {
		typ = "elite"
	}
	riskSetting := in.RiskSetting
	if riskSetting == "" {
		riskSetting = "medium"
	}

	var points []model.DataPoint
	if typ == "elite" {
		points = u.eliteCurve(riskSetting)
	} else {
		points = u.standardCurve()
	}

	mode := "random"
	if len(u.sequence) > 0 && in.UserID != "" {
		pos, err := u.counter.Next(ctx, in.UserID)
		if err != nil {
			// Counter outage degrades to random output rather than failing
			// the request.
			u.log.Warn().Err(err).Str("user_id", in.UserID).Msg("sequence counter unavailable")
		} else {
			forced := u.sequence[pos%int64(len(u.sequence))]
			points[len(points)-1].Value = round2(forced)
			mode = "sequence"
		}
	}
	metrics.IncPredictionGenerated(typ, mode)

	batch := &model.PredictionBatch{
		ID:     ulid.Make().String(),
		Points: points,
		Metadata: model.Metadata{
			Timestamp: time.Now().UTC(),
			Protocol:  "AES-256-GCM",
			Node:      u.nodeLabel(),
		},
	}
	u.log.Debug().
		Str("batch_id", batch.ID).
		Str("type", typ).
		Str("mode", mode).
		Float64("final", batch.FinalMultiplier()).
		Msg("prediction generated")
	return batch, nil
}

// eliteCurve: 20 points around a risk-dependent base. Risk on every point is
// reported as "low" regardless of the setting; the setting only widens the
// spread.
func (u *predictionUC) eliteCurve(riskSetting string) []model.DataPoint {
	base, volatility := 1.0, 1.0
	switch riskSetting {
	case "low":
		base, volatility = 1.5, 0.5
	case "high":
		base, volatility = 2.5, 3.0
	}
	points := make([]model.DataPoint, 0, 20)
	for i := 0; i < 20; i++ {
		val := math.Max(1.0, base+(u.float64()-0.4)*volatility*2)
		points = append(points, model.DataPoint{Time: i, Value: round2(val), Risk: model.RiskLow})
	}
	return points
}

// standardCurve: 40 points with a sine drift on top of the noise.
func (u *predictionUC) standardCurve() []model.DataPoint {
	points := make([]model.DataPoint, 0, 40)
	for i := 0; i < 40; i++ {
		val := math.Max(1.0, 1.2+u.float64()*3+math.Sin(float64(i)/4)*0.8)
		points = append(points, model.DataPoint{Time: i, Value: round2(val), Risk: model.RiskLow})
	}
	return points
}

func (u *predictionUC) nodeLabel() string {
	u.mu.Lock()
	n := u.rnd.Intn(9000) + 1000
	u.mu.Unlock()
	return "NODE_" + strconv.Itoa(n)
}

func (u *predictionUC) float64() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rnd.Float64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
