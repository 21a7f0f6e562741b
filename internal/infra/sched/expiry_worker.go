package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain/ports/repository"
	"pluxo-backend/internal/infra/metrics"
)

// ExpiryWorker periodically flips active=false on subscriptions whose window
// has passed. Entitlement checks compare endsAt anyway; this keeps listings
// and metrics honest.
type ExpiryWorker struct {
	interval time.Duration
	subs     repository.SubscriptionRepository
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subs repository.SubscriptionRepository, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpiryWorker{
		interval: interval,
		subs:     subs,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.subs.DeactivateExpired(ctx, repository.NoTX)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
				continue
			}
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
				w.log.Info().Int64("count", n).Msg("expired subscriptions deactivated")
			}
		}
	}
}
