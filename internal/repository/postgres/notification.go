package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"renthub-backend/internal/domain"
)

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return fmt.Errorf("marshal notification attributes: %w", err)
	}
	query := `INSERT INTO notifications (user_id, title, message, is_read, attributes, created_at)
		VALUES ($1,$2,$3,false,$4, now()) RETURNING id, created_at`
	err = r.s.q(ctx).QueryRowContext(ctx, query, note.UserID, note.Title, note.Message, attrs).
		Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	var count int32
	if err := r.s.q(ctx).QueryRowContext(ctx, "SELECT count(*) FROM notifications WHERE user_id = $1", userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	query := `SELECT id, user_id, title, message, is_read, attributes, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.s.q(ctx).QueryContext(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal notification attributes: %w", err)
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("notification %d not found", id)
	}
	return nil
}
