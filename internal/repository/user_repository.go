package repository

import (
	"context"

	"example.com/helloapi/internal/domain"
)

// UserRepository keeps users in insertion order. CreateUser assigns the id.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, name string) (domain.User, error)
}
