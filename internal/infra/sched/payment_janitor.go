package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/repository"
	"pluxo-backend/internal/infra/metrics"
)

// PaymentJanitor periodically scans for stale pending payments and marks them
// failed so abandoned checkouts do not linger as pending forever. A finished
// IPN arriving after that still activates: the finished claim excludes only
// payments that are already finished.
type PaymentJanitor struct {
	payments   repository.PaymentRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to expire
	log        *zerolog.Logger
}

func NewPaymentJanitor(payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentJanitor {
	compLog := logger.With().Str("component", "PaymentJanitor").Logger()
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 24 * time.Hour
	}
	return &PaymentJanitor{
		payments:   payments,
		interval:   interval,
		staleAfter: staleAfter,
		log:        &compLog,
	}
}

func (w *PaymentJanitor) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment janitor")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment janitor")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentJanitor) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.payments.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("janitor scan failed")
		return
	}
	for _, p := range stale {
		expired, err := w.payments.MarkFailedIfPending(ctx, repository.NoTX, p.ID)
		if err != nil {
			w.log.Error().Err(err).Str("order_id", p.ID).Msg("janitor expire failed")
			continue
		}
		if !expired {
			// an IPN moved the payment on between the scan and now
			continue
		}
		metrics.IncPayment(string(model.PaymentStatusFailed))
		w.log.Info().Str("order_id", p.ID).Time("created_at", p.CreatedAt).Msg("stale pending payment expired")
	}
}
