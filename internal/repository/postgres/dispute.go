package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"renthub-backend/internal/domain"
)

type disputeRepository struct {
	s *Store
}

const disputeColumns = `id, order_id, opened_by, reason, status, decision, refund_cents, resolved_by, resolved_at, created_at`

func (r *disputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	query := `INSERT INTO disputes (order_id, opened_by, reason, status, refund_cents, created_at)
		VALUES ($1,$2,$3,$4,0, now()) RETURNING id, created_at`
	err := r.s.q(ctx).QueryRowContext(ctx, query, d.OrderID, d.OpenedBy, d.Reason, d.Status).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create dispute: %w", err)
	}
	return nil
}

func (r *disputeRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1 FOR UPDATE`
	d, err := scanDispute(r.s.q(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("dispute %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	return d, nil
}

func (r *disputeRepository) Update(ctx context.Context, d *domain.Dispute) error {
	query := `UPDATE disputes SET status = $1, decision = $2, refund_cents = $3, resolved_by = $4, resolved_at = $5
		WHERE id = $6`
	res, err := r.s.q(ctx).ExecContext(ctx, query,
		d.Status, d.Decision, d.RefundCents, d.ResolvedBy, d.ResolvedAt, d.ID)
	if err != nil {
		return fmt.Errorf("update dispute: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update dispute rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("dispute %d not found", d.ID)
	}
	return nil
}

func (r *disputeRepository) ListByStatus(ctx context.Context, status domain.DisputeStatus, page, pageSize int32) ([]domain.Dispute, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	var count int32
	if err := r.s.q(ctx).QueryRowContext(ctx, "SELECT count(*) FROM disputes WHERE status = $1", status).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count disputes: %w", err)
	}
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE status = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.s.q(ctx).QueryContext(ctx, query, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()

	var ds []domain.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan dispute: %w", err)
		}
		ds = append(ds, *d)
	}
	return ds, count, rows.Err()
}

func scanDispute(row rowScanner) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	var decision sql.NullString
	err := row.Scan(&d.ID, &d.OrderID, &d.OpenedBy, &d.Reason, &d.Status,
		&decision, &d.RefundCents, &d.ResolvedBy, &d.ResolvedAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Decision = decision.String
	return d, nil
}
