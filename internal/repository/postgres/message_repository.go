package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/momotired/servo-msg-demo/internal/model"
	"github.com/momotired/servo-msg-demo/internal/repository"
)

var _ repository.MessageRepository = (*MessageRepository)(nil)

// MessageRepository provides PostgreSQL backed message operations.
type MessageRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewMessageRepository creates a new repository instance.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Insert persists a new message. The timestamp is assigned server-side;
// client-supplied times are never stored.
func (r *MessageRepository) Insert(ctx context.Context, user, content string, visible bool) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO messages ("user", content, "time", is_visible)
        VALUES ($1, $2, $3, $4)
        RETURNING id`, user, content, r.now(), visible).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListVisible retrieves all publicly visible messages, most recent first.
func (r *MessageRepository) ListVisible(ctx context.Context) ([]model.Message, error) {
	return r.list(ctx, `
        SELECT id, "user", content, "time", is_visible
        FROM messages
        WHERE is_visible
        ORDER BY "time" DESC, id DESC`)
}

// ListAll retrieves every message regardless of visibility, most recent first.
func (r *MessageRepository) ListAll(ctx context.Context) ([]model.Message, error) {
	return r.list(ctx, `
        SELECT id, "user", content, "time", is_visible
        FROM messages
        ORDER BY "time" DESC, id DESC`)
}

func (r *MessageRepository) list(ctx context.Context, query string) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.User, &msg.Content, &msg.Time, &msg.IsVisible); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// SetVisibility updates the moderation flag for one message. Returns
// sql.ErrNoRows when no message has the given id.
func (r *MessageRepository) SetVisibility(ctx context.Context, id int64, visible bool) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE messages
        SET is_visible = $1
        WHERE id = $2`, visible, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
