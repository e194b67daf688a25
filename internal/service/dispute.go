package service

import (
	"context"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

// disputeService arbitrates escalated orders. Resolve is a one-shot
// decision recorder: it completes the order and releases any held
// reservation, but never moves wallet funds itself. Refund execution is
// delegated to the wallet ledger by the caller with the stated amount.
type disputeService struct {
	tx       repository.TxManager
	disputes repository.DisputeRepository
	orders   repository.OrderRepository
	items    repository.ItemRepository
	notifier Notifier
	now      func() time.Time
}

func NewDisputeService(
	tx repository.TxManager,
	disputes repository.DisputeRepository,
	orders repository.OrderRepository,
	items repository.ItemRepository,
	notifier Notifier,
) DisputeService {
	return &disputeService{
		tx:       tx,
		disputes: disputes,
		orders:   orders,
		items:    items,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *disputeService) Resolve(ctx context.Context, operatorID, disputeID int64, decision string, refundCents int64) (*domain.Dispute, *domain.Order, error) {
	if decision == "" {
		return nil, nil, domain.ErrValidation("decision is required")
	}
	if refundCents < 0 {
		return nil, nil, domain.ErrValidation("refund amount cannot be negative")
	}

	var dispute *domain.Dispute
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.disputes.GetByIDForUpdate(ctx, disputeID)
		if err != nil {
			return err
		}
		if d.Status != domain.DisputeStatusPending {
			return domain.ErrStateConflict("dispute %d is already resolved", disputeID)
		}
		o, err := s.orders.GetByIDForUpdate(ctx, d.OrderID)
		if err != nil {
			return err
		}

		if refundCents > 0 {
			o.PaymentStatus = domain.PaymentStatusRefunded
		} else {
			o.PaymentStatus = domain.PaymentStatusPaid
		}
		if err := o.Transition(domain.OrderStatusCompleted, s.now()); err != nil {
			return err
		}
		// A confirmed order still holds a unit; settlement puts it back.
		if o.ConfirmedAt != nil {
			if err := s.items.Release(ctx, o.ItemID); err != nil {
				return err
			}
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}

		now := s.now()
		d.Status = domain.DisputeStatusResolved
		d.Decision = decision
		d.RefundCents = refundCents
		d.ResolvedBy = &operatorID
		d.ResolvedAt = &now
		if err := s.disputes.Update(ctx, d); err != nil {
			return err
		}
		dispute = d
		order = o
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, userID := range []int64{order.RenterID, order.OwnerID} {
		s.notifier.Notify(ctx, userID, "Dispute resolved",
			fmt.Sprintf("The dispute on order for %s was resolved: %s", order.ItemTitle, decision),
			map[string]string{"type": "DISPUTE_RESOLVED", "order_guid": order.GUID})
	}
	return dispute, order, nil
}

func (s *disputeService) ListByStatus(ctx context.Context, status domain.DisputeStatus, page, pageSize int32) ([]domain.Dispute, int32, error) {
	return s.disputes.ListByStatus(ctx, status, page, pageSize)
}
