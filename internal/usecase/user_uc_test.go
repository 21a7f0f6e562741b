//go:build !integration

// File: internal/usecase/user_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/repository"
	"pluxo-backend/internal/usecase"
)

func TestUserUseCase_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user with their effective subscription", func(t *testing.T) {
		users := NewMockUserRepo()
		subs := NewMockSubscriptionRepo()
		users.Put(&model.User{ID: "user-1", Email: "a@b.c", Role: "user"})
		subs.Upsert(ctx, repository.NoTX, &model.Subscription{
			UserID: "user-1", PlanType: model.PlanTypeVIP,
			StartsAt: time.Now().Add(-time.Minute),
			EndsAt:   time.Now().Add(time.Hour),
			Active:   true,
		})

		uc := usecase.NewUserUseCase(users, subs, newTestLogger())
		p, err := uc.Profile(ctx, "user-1")
		if err != nil {
			t.Fatalf("Profile: %v", err)
		}
		if p.User.Email != "a@b.c" {
			t.Fatalf("email = %q", p.User.Email)
		}
		if p.Subscription == nil || p.Subscription.PlanType != model.PlanTypeVIP {
			t.Fatalf("subscription = %+v, want active vip", p.Subscription)
		}
	})

	t.Run("no subscription is a normal profile", func(t *testing.T) {
		users := NewMockUserRepo()
		users.Put(&model.User{ID: "user-1"})
		uc := usecase.NewUserUseCase(users, NewMockSubscriptionRepo(), newTestLogger())

		p, err := uc.Profile(ctx, "user-1")
		if err != nil {
			t.Fatalf("Profile: %v", err)
		}
		if p.Subscription != nil {
			t.Fatalf("subscription = %+v, want nil", p.Subscription)
		}
	})

	t.Run("expired subscription is not surfaced", func(t *testing.T) {
		users := NewMockUserRepo()
		subs := NewMockSubscriptionRepo()
		users.Put(&model.User{ID: "user-1"})
		subs.Upsert(ctx, repository.NoTX, &model.Subscription{
			UserID: "user-1", PlanType: model.PlanTypeVUP,
			StartsAt: time.Now().Add(-2 * time.Hour),
			EndsAt:   time.Now().Add(-time.Hour),
			Active:   true,
		})

		uc := usecase.NewUserUseCase(users, subs, newTestLogger())
		p, err := uc.Profile(ctx, "user-1")
		if err != nil {
			t.Fatalf("Profile: %v", err)
		}
		if p.Subscription != nil {
			t.Fatalf("expired subscription surfaced: %+v", p.Subscription)
		}
	})

	t.Run("unknown user is ErrNotFound", func(t *testing.T) {
		uc := usecase.NewUserUseCase(NewMockUserRepo(), NewMockSubscriptionRepo(), newTestLogger())
		if _, err := uc.Profile(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
