package repository

import (
	"context"

	"example.com/helloapi/internal/domain"
)

// MessageRepository holds at most one greeting row.
// GetMessage returns storage.ErrNotFound when the row is absent.
// EnsureMessage inserts text only if no row exists and reports whether it did.
type MessageRepository interface {
	GetMessage(ctx context.Context) (domain.Message, error)
	UpsertMessage(ctx context.Context, text string) (domain.Message, error)
	EnsureMessage(ctx context.Context, text string) (bool, error)
	Close() error
}
