package repository

import (
	"context"

	"pluxo-backend/internal/domain/model"
)

type SubscriptionRepository interface {
	// Upsert inserts or replaces the user's subscription row (keyed by UserID).
	Upsert(ctx context.Context, tx Tx, sub *model.Subscription) error
	// FindActiveByUser returns the user's effective subscription
	// (active and not yet expired), or domain.ErrNotFound.
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.Subscription, error)
	Deactivate(ctx context.Context, tx Tx, userID string) error
	// DeactivateExpired flips active=false on rows whose window has passed,
	// returning how many rows changed.
	DeactivateExpired(ctx context.Context, tx Tx) (int64, error)
}
