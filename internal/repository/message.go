package repository

import (
	"context"

	"github.com/momotired/servo-msg-demo/internal/model"
)

// MessageRepository defines the database operations required for messages.
type MessageRepository interface {
	Insert(ctx context.Context, user, content string, visible bool) (int64, error)
	ListVisible(ctx context.Context) ([]model.Message, error)
	ListAll(ctx context.Context) ([]model.Message, error)
	SetVisibility(ctx context.Context, id int64, visible bool) error
}
