package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"renthub-backend/internal/domain"
)

type itemRepository struct {
	s *Store
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT id, owner_id, title, image_url, base_price_cents, deposit_cents, price_unit,
			quantity, available_quantity, status, is_deleted, created_at
		FROM items WHERE id = $1 AND is_deleted = false`
	it := &domain.Item{}
	err := r.s.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&it.ID, &it.OwnerID, &it.Title, &it.ImageURL, &it.BasePriceCents, &it.DepositCents,
		&it.PriceUnit, &it.Quantity, &it.AvailableQuantity, &it.Status, &it.IsDeleted, &it.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("item %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return it, nil
}

// Reserve is the race-condition defense for concurrent confirmations: the
// guard and the decrement are one statement, so of two racing reserves on
// a single remaining unit exactly one sees available_quantity >= 1.
func (r *itemRepository) Reserve(ctx context.Context, itemID int64) error {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE items SET available_quantity = available_quantity - 1
		 WHERE id = $1 AND available_quantity >= 1`, itemID)
	if err != nil {
		return fmt.Errorf("reserve item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve item rows: %w", err)
	}
	if n == 0 {
		return domain.ErrStateConflict("item %d is out of stock", itemID)
	}
	return nil
}

func (r *itemRepository) Release(ctx context.Context, itemID int64) error {
	_, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE items SET available_quantity = LEAST(available_quantity + 1, quantity)
		 WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("release item: %w", err)
	}
	return nil
}

func (r *itemRepository) WriteOff(ctx context.Context, itemID int64) error {
	_, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE items SET quantity = GREATEST(quantity - 1, 0),
			available_quantity = LEAST(available_quantity, GREATEST(quantity - 1, 0))
		 WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("write off item: %w", err)
	}
	return nil
}
