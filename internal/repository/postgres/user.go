package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"renthub-backend/internal/domain"

	"github.com/lib/pq"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, email, name, roles, created_at FROM users WHERE id = $1`
	u := &domain.User{}
	var roles []string
	err := r.s.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Name, pq.Array(&roles), &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	for _, role := range roles {
		u.Roles = append(u.Roles, domain.Role(role))
	}
	return u, nil
}
