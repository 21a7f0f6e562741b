package repository

import (
	"context"
	"time"

	"pluxo-backend/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	// SetExternalID stores the gateway's payment id once the invoice exists.
	SetExternalID(ctx context.Context, tx Tx, id, externalID string) error
	// UpdateStatus records a non-terminal provider status. Matching zero rows
	// is not an error: the gateway may report ids we never issued.
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.PaymentStatus) error
	// ClaimFinished marks the payment finished unless it already is, returning
	// whether this call won the claim. Concurrent duplicate deliveries for the
	// same order coalesce here: exactly one caller sees true.
	ClaimFinished(ctx context.Context, tx Tx, id string) (bool, error)
	// MarkFailedIfPending expires a stale pending payment. The guard skips
	// rows a concurrent IPN delivery has already moved past pending.
	MarkFailedIfPending(ctx context.Context, tx Tx, id string) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
}
