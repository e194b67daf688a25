package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
)

type orderRepository struct {
	s *Store
}

const orderColumns = `id, guid, item_id, renter_id, owner_id,
	item_title, item_image_url, base_price_cents, price_unit,
	unit_count, start_at, end_at,
	total_amount_cents, deposit_cents, service_fee_cents, currency, payment_method, payment_status,
	status, shipping_address,
	returned_at, return_confirmed_by, condition_status, return_notes, damage_fee_cents,
	cancel_reason, dispute_reason,
	created_at, confirmed_at, started_at, completed_at, canceled_at, disputed_at`

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (guid, item_id, renter_id, owner_id,
			item_title, item_image_url, base_price_cents, price_unit,
			unit_count, start_at, end_at,
			total_amount_cents, deposit_cents, service_fee_cents, currency, payment_method, payment_status,
			status, shipping_address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING id`
	err := r.s.q(ctx).QueryRowContext(ctx, query,
		o.GUID, o.ItemID, o.RenterID, o.OwnerID,
		o.ItemTitle, o.ItemImageURL, o.BasePriceCents, o.PriceUnit,
		o.UnitCount, o.StartAt, o.EndAt,
		o.TotalAmountCents, o.DepositCents, o.ServiceFeeCents, o.Currency, o.PaymentMethod, o.PaymentStatus,
		o.Status, o.ShippingAddress, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *orderRepository) getByGUID(ctx context.Context, guid string, forUpdate bool) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE guid = $1 AND is_deleted = false`
	if forUpdate {
		query += " FOR UPDATE"
	}
	o, err := scanOrder(r.s.q(ctx).QueryRowContext(ctx, query, guid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("order %s not found", guid)
	}
	if err != nil {
		return nil, fmt.Errorf("get order by guid: %w", err)
	}
	return o, nil
}

func (r *orderRepository) GetByGUID(ctx context.Context, guid string) (*domain.Order, error) {
	return r.getByGUID(ctx, guid, false)
}

func (r *orderRepository) GetByGUIDForUpdate(ctx context.Context, guid string) (*domain.Order, error) {
	return r.getByGUID(ctx, guid, true)
}

func (r *orderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND is_deleted = false FOR UPDATE`
	o, err := scanOrder(r.s.q(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("order %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	query := `UPDATE orders SET
			payment_status = $1, status = $2,
			returned_at = $3, return_confirmed_by = $4, condition_status = $5, return_notes = $6, damage_fee_cents = $7,
			cancel_reason = $8, dispute_reason = $9,
			confirmed_at = $10, started_at = $11, completed_at = $12, canceled_at = $13, disputed_at = $14
		WHERE id = $15 AND is_deleted = false`
	var condition *string
	if o.Return.ConditionStatus != "" {
		c := string(o.Return.ConditionStatus)
		condition = &c
	}
	res, err := r.s.q(ctx).ExecContext(ctx, query,
		o.PaymentStatus, o.Status,
		o.Return.ReturnedAt, o.Return.ConfirmedBy, condition, o.Return.Notes, o.Return.DamageFeeCents,
		o.CancelReason, o.DisputeReason,
		o.ConfirmedAt, o.StartedAt, o.CompletedAt, o.CanceledAt, o.DisputedAt,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("order %s not found", o.GUID)
	}
	return nil
}

func (r *orderRepository) ListByRenter(ctx context.Context, renterID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *orderRepository) ListByOwner(ctx context.Context, ownerID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *orderRepository) list(ctx context.Context, partyCol string, partyID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	where := fmt.Sprintf("%s = $1 AND is_deleted = false", partyCol)
	args := []any{partyID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	var count int32
	if err := r.s.q(ctx).QueryRowContext(ctx, "SELECT count(*) FROM orders WHERE "+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, count, rows.Err()
}

func (r *orderRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE status = $1 AND end_at < $2 AND is_deleted = false`
	rows, err := r.s.q(ctx).QueryContext(ctx, query, domain.OrderStatusProgress, asOf)
	if err != nil {
		return nil, fmt.Errorf("list overdue orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan overdue order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	o := &domain.Order{}
	var condition sql.NullString
	var notes sql.NullString
	err := row.Scan(
		&o.ID, &o.GUID, &o.ItemID, &o.RenterID, &o.OwnerID,
		&o.ItemTitle, &o.ItemImageURL, &o.BasePriceCents, &o.PriceUnit,
		&o.UnitCount, &o.StartAt, &o.EndAt,
		&o.TotalAmountCents, &o.DepositCents, &o.ServiceFeeCents, &o.Currency, &o.PaymentMethod, &o.PaymentStatus,
		&o.Status, &o.ShippingAddress,
		&o.Return.ReturnedAt, &o.Return.ConfirmedBy, &condition, &notes, &o.Return.DamageFeeCents,
		&o.CancelReason, &o.DisputeReason,
		&o.CreatedAt, &o.ConfirmedAt, &o.StartedAt, &o.CompletedAt, &o.CanceledAt, &o.DisputedAt,
	)
	if err != nil {
		return nil, err
	}
	if condition.Valid {
		o.Return.ConditionStatus = domain.ConditionStatus(condition.String)
	}
	o.Return.Notes = notes.String
	return o, nil
}
