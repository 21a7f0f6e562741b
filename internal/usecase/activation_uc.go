// File: internal/usecase/activation_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/repository"
	"pluxo-backend/internal/infra/metrics"
)

var _ ActivationUseCase = (*activationUC)(nil)

// NotificationOutcome tells the webhook handler which acknowledgement to send.
type NotificationOutcome int

const (
	// OutcomeAcknowledged: a non-terminal status was recorded, nothing granted.
	OutcomeAcknowledged NotificationOutcome = iota
	// OutcomeActivated: the payment finished and the subscription was written.
	OutcomeActivated
	// OutcomeDuplicate: this finished notification was already processed.
	OutcomeDuplicate
)

type ActivationUseCase interface {
	// HandleNotification applies one provider status notification. Deliveries
	// are at-least-once and unordered; calling this twice with the same
	// finished notification grants access exactly once.
	HandleNotification(ctx context.Context, n Notification) (NotificationOutcome, error)
}

// Notification is the parsed IPN payload, already signature-checked.
type Notification struct {
	OrderID    string
	ExternalID string
	Status     string
}

type activationUC struct {
	txManager     repository.TransactionManager
	payments      repository.PaymentRepository
	subscriptions repository.SubscriptionRepository
	log           *zerolog.Logger
}

func NewActivationUseCase(txm repository.TransactionManager, payments repository.PaymentRepository, subscriptions repository.SubscriptionRepository, logger *zerolog.Logger) *activationUC {
	l := logger.With().Str("component", "ActivationUC").Logger()
	return &activationUC{
		txManager:     txm,
		payments:      payments,
		subscriptions: subscriptions,
		log:           &l,
	}
}

func (u *activationUC) HandleNotification(ctx context.Context, n Notification) (NotificationOutcome, error) {
	if n.OrderID == "" || n.Status == "" {
		return 0, domain.ErrInvalidArgument
	}
	status := model.PaymentStatus(n.Status)

	if status != model.PaymentStatusFinished {
		// Progress updates (waiting, confirming, failed, ...) are recorded and
		// acknowledged so the provider stops retrying. An order id we never
		// issued matches zero rows and is still acknowledged.
		if err := u.payments.UpdateStatus(ctx, repository.NoTX, n.OrderID, status); err != nil {
			return 0, err
		}
		u.log.Info().Str("order_id", n.OrderID).Str("status", n.Status).Msg("payment status recorded")
		return OutcomeAcknowledged, nil
	}

	var payment *model.Payment
	claimed := false
	err := u.txManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, n.OrderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}
		payment = p
		won, err := u.payments.ClaimFinished(ctx, tx, n.OrderID)
		if err != nil {
			return err
		}
		claimed = won
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !claimed {
		u.log.Info().Str("order_id", n.OrderID).Msg("duplicate finished notification ignored")
		return OutcomeDuplicate, nil
	}

	// The claim is committed before the subscription write. If the upsert
	// fails the payment stays finished and the provider's retry finds a
	// duplicate, so the grant is repaired out of band rather than double
	// charged. Re-running the whole flow in one transaction would instead
	// retry the claim too, which is the behavior we want to avoid.
	now := time.Now()
	sub := &model.Subscription{
		UserID:   payment.UserID,
		PlanType: payment.PlanType,
		StartsAt: now,
		EndsAt:   now.Add(time.Duration(payment.DurationMinutes) * time.Minute),
		Active:   true,
	}
	if err := u.subscriptions.Upsert(ctx, repository.NoTX, sub); err != nil {
		u.log.Error().Err(err).Str("order_id", n.OrderID).Str("user_id", payment.UserID).
			Msg("payment finished but subscription write failed")
		return 0, err
	}

	metrics.IncPayment(string(model.PaymentStatusFinished))
	metrics.AddPaymentRevenue(string(payment.PlanType), payment.AmountCents)
	metrics.IncSubscriptionActivated(string(payment.PlanType), "ipn")

	u.log.Info().
		Str("order_id", n.OrderID).
		Str("user_id", payment.UserID).
		Str("plan_type", string(payment.PlanType)).
		Time("ends_at", sub.EndsAt).
		Msg("subscription activated")
	return OutcomeActivated, nil
}
