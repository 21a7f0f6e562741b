package repository

import (
	"context"

	"pluxo-backend/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.User, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
