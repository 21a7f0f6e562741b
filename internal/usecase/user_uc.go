// File: internal/usecase/user_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/repository"
)

var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	// Profile returns the user plus their effective subscription, if any.
	Profile(ctx context.Context, userID string) (*UserProfile, error)
}

type UserProfile struct {
	User         *model.User
	Subscription *model.Subscription // nil when no effective subscription
}

type userUC struct {
	users         repository.UserRepository
	subscriptions repository.SubscriptionRepository
	log           *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, subscriptions repository.SubscriptionRepository, logger *zerolog.Logger) *userUC {
	l := logger.With().Str("component", "UserUC").Logger()
	return &userUC{users: users, subscriptions: subscriptions, log: &l}
}

func (u *userUC) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	profile := &UserProfile{User: user}

	sub, err := u.subscriptions.FindActiveByUser(ctx, repository.NoTX, userID)
	switch {
	case err == nil:
		if sub.Effective(time.Now()) {
			profile.Subscription = sub
		}
	case errors.Is(err, domain.ErrNotFound):
		// no subscription is a normal state
	default:
		return nil, err
	}
	return profile, nil
}
