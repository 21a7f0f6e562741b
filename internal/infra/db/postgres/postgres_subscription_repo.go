package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

// Upsert relies on the unique key on user_id: a new purchase replaces the
// previous window outright, it never stacks.
func (r *subscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	const q = `
INSERT INTO vip_subscriptions (user_id, plan_type, starts_at, ends_at, active)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (user_id) DO UPDATE SET
  plan_type=$2, starts_at=$3, ends_at=$4, active=$5;`
	_, err := execSQL(ctx, r.pool, tx, q, sub.UserID, sub.PlanType, sub.StartsAt, sub.EndsAt, sub.Active)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `SELECT user_id, plan_type, starts_at, ends_at, active FROM vip_subscriptions WHERE user_id=$1 AND active AND ends_at > NOW();`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	s := &model.Subscription{}
	if err := row.Scan(&s.UserID, &s.PlanType, &s.StartsAt, &s.EndsAt, &s.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *subscriptionRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	const q = `SELECT user_id, plan_type, starts_at, ends_at, active FROM vip_subscriptions WHERE active AND ends_at > NOW();`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s := new(model.Subscription)
		if err := rows.Scan(&s.UserID, &s.PlanType, &s.StartsAt, &s.EndsAt, &s.Active); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *subscriptionRepo) Deactivate(ctx context.Context, tx repository.Tx, userID string) error {
	const q = `UPDATE vip_subscriptions SET active=false WHERE user_id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, userID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) DeactivateExpired(ctx context.Context, tx repository.Tx) (int64, error) {
	const q = `UPDATE vip_subscriptions SET active=false WHERE active AND ends_at <= NOW();`
	cmd, err := execSQL(ctx, r.pool, tx, q)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return cmd.RowsAffected(), nil
}
