// File: internal/usecase/admin_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/repository"
	"pluxo-backend/internal/infra/metrics"
)

var _ AdminUseCase = (*adminUC)(nil)

type AdminUseCase interface {
	// ListUsers pages through users, each merged with their effective
	// subscription when one exists.
	ListUsers(ctx context.Context, offset, limit int) (*UserListing, error)
	// GrantVIP hands out a subscription window without a payment. A fresh
	// grant replaces whatever window the user had.
	GrantVIP(ctx context.Context, g Grant) (*model.Subscription, error)
	// RevokeVIP deactivates the user's subscription immediately.
	RevokeVIP(ctx context.Context, userID string) error
}

type Grant struct {
	UserID   string
	Duration int
	Unit     string // "minutes" | "hours" | "days"
	PlanType model.PlanType
}

type UserListing struct {
	Users []*UserProfile
	Total int
}

type adminUC struct {
	users         repository.UserRepository
	subscriptions repository.SubscriptionRepository
	log           *zerolog.Logger
}

func NewAdminUseCase(users repository.UserRepository, subscriptions repository.SubscriptionRepository, logger *zerolog.Logger) *adminUC {
	l := logger.With().Str("component", "AdminUC").Logger()
	return &adminUC{users: users, subscriptions: subscriptions, log: &l}
}

func (u *adminUC) ListUsers(ctx context.Context, offset, limit int) (*UserListing, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	users, err := u.users.List(ctx, repository.NoTX, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := u.users.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listing := &UserListing{Total: total}
	for _, usr := range users {
		p := &UserProfile{User: usr}
		sub, err := u.subscriptions.FindActiveByUser(ctx, repository.NoTX, usr.ID)
		switch {
		case err == nil:
			if sub.Effective(now) {
				p.Subscription = sub
			}
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, err
		}
		listing.Users = append(listing.Users, p)
	}
	return listing, nil
}

func (u *adminUC) GrantVIP(ctx context.Context, g Grant) (*model.Subscription, error) {
	if g.UserID == "" || g.Duration < 1 {
		return nil, domain.ErrInvalidArgument
	}
	var per time.Duration
	switch g.Unit {
	case "minutes":
		per = time.Minute
	case "hours":
		per = time.Hour
	case "days":
		per = 24 * time.Hour
	default:
		return nil, domain.ErrInvalidDuration
	}
	planType := g.PlanType
	if planType == "" {
		planType = model.PlanTypeVIP
	}
	if planType != model.PlanTypeVIP && planType != model.PlanTypeVUP {
		return nil, domain.ErrInvalidPlan
	}

	if _, err := u.users.FindByID(ctx, repository.NoTX, g.UserID); err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &model.Subscription{
		UserID:   g.UserID,
		PlanType: planType,
		StartsAt: now,
		EndsAt:   now.Add(time.Duration(g.Duration) * per),
		Active:   true,
	}
	if err := u.subscriptions.Upsert(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	metrics.IncSubscriptionActivated(string(planType), "admin")
	u.log.Info().
		Str("user_id", g.UserID).
		Str("plan_type", string(planType)).
		Time("ends_at", sub.EndsAt).
		Msg("vip granted")
	return sub, nil
}

func (u *adminUC) RevokeVIP(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidArgument
	}
	if err := u.subscriptions.Deactivate(ctx, repository.NoTX, userID); err != nil {
		return err
	}
	u.log.Info().Str("user_id", userID).Msg("vip revoked")
	return nil
}
