package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"

	"github.com/google/uuid"
)

type orderService struct {
	tx       repository.TxManager
	orders   repository.OrderRepository
	items    repository.ItemRepository
	disputes repository.DisputeRepository
	wallet   WalletService
	notifier Notifier
	taxRate  TaxRateFunc
	now      func() time.Time
}

func NewOrderService(
	tx repository.TxManager,
	orders repository.OrderRepository,
	items repository.ItemRepository,
	disputes repository.DisputeRepository,
	wallet WalletService,
	notifier Notifier,
	taxRate TaxRateFunc,
) OrderService {
	return &orderService{
		tx:       tx,
		orders:   orders,
		items:    items,
		disputes: disputes,
		wallet:   wallet,
		notifier: notifier,
		taxRate:  taxRate,
		now:      time.Now,
	}
}

// billedUnits converts the rental window into whole billing units of the
// item's price unit, rounding up and never below one.
func billedUnits(start, end time.Time, priceUnit string) int64 {
	var unit time.Duration
	switch priceUnit {
	case "week":
		unit = 7 * 24 * time.Hour
	case "month":
		unit = 30 * 24 * time.Hour
	default:
		unit = 24 * time.Hour
	}
	n := int64(math.Ceil(float64(end.Sub(start)) / float64(unit)))
	if n < 1 {
		n = 1
	}
	return n
}

func (s *orderService) Create(ctx context.Context, renterID int64, in CreateOrderInput) (*domain.Order, error) {
	if in.UnitCount < 1 {
		return nil, domain.ErrValidation("unit count must be at least 1")
	}
	if in.ShippingAddress == "" {
		return nil, domain.ErrValidation("shipping address is required")
	}
	startAt, err := time.Parse(time.RFC3339, in.StartAt)
	if err != nil {
		return nil, domain.ErrValidation("invalid start_at: %v", err)
	}
	endAt, err := time.Parse(time.RFC3339, in.EndAt)
	if err != nil {
		return nil, domain.ErrValidation("invalid end_at: %v", err)
	}
	if !endAt.After(startAt) {
		return nil, domain.ErrValidation("end_at must be after start_at")
	}

	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusAvailable {
		return nil, domain.ErrStateConflict("item %d is not available for rent", item.ID)
	}
	if item.AvailableQuantity < in.UnitCount {
		return nil, domain.ErrStateConflict("item %d has only %d units available", item.ID, item.AvailableQuantity)
	}
	if item.OwnerID == renterID {
		return nil, domain.ErrValidation("cannot rent your own item")
	}

	units := billedUnits(startAt, endAt, item.PriceUnit)
	total := item.BasePriceCents * int64(in.UnitCount) * units
	serviceFee := int64(math.Round(float64(total) * s.taxRate() / 100))

	order := &domain.Order{
		GUID:             uuid.NewString(),
		ItemID:           item.ID,
		RenterID:         renterID,
		OwnerID:          item.OwnerID,
		ItemTitle:        item.Title,
		ItemImageURL:     item.ImageURL,
		BasePriceCents:   item.BasePriceCents,
		PriceUnit:        item.PriceUnit,
		UnitCount:        in.UnitCount,
		StartAt:          startAt,
		EndAt:            endAt,
		TotalAmountCents: total + serviceFee,
		DepositCents:     item.DepositCents * int64(in.UnitCount),
		ServiceFeeCents:  serviceFee,
		Currency:         "VND",
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    domain.PaymentStatusNotPaid,
		Status:           domain.OrderStatusPending,
		ShippingAddress:  in.ShippingAddress,
		CreatedAt:        s.now(),
	}
	// No inventory is held yet: reservation happens at confirm so stock
	// is never parked on orders the owner may never accept.
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, domain.ErrInternal("persist order", err)
	}

	s.notifier.Notify(ctx, order.OwnerID, "New rental request",
		fmt.Sprintf("You received a rental request for %s", order.ItemTitle),
		map[string]string{"type": "ORDER_CREATED", "order_guid": order.GUID})
	return order, nil
}

func (s *orderService) Confirm(ctx context.Context, ownerID int64, guid string) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByGUIDForUpdate(ctx, guid)
		if err != nil {
			return err
		}
		if o.OwnerID != ownerID {
			return domain.ErrUnauthorized("only the owner can confirm order %s", guid)
		}
		if o.Status != domain.OrderStatusPending {
			return domain.ErrStateConflict("order %s is %s, not PENDING", guid, o.Status)
		}
		// Reservation and status write commit together; the guarded
		// decrement makes racing confirmations on the last unit fail
		// here with a conflict instead of overselling.
		if err := s.items.Reserve(ctx, o.ItemID); err != nil {
			return err
		}
		if err := o.Transition(domain.OrderStatusConfirmed, s.now()); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, order.RenterID, "Rental confirmed",
		fmt.Sprintf("Your rental of %s was confirmed by the owner", order.ItemTitle),
		map[string]string{"type": "ORDER_CONFIRMED", "order_guid": order.GUID})
	return order, nil
}

func (s *orderService) Start(ctx context.Context, ownerID int64, guid string) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByGUIDForUpdate(ctx, guid)
		if err != nil {
			return err
		}
		if o.OwnerID != ownerID {
			return domain.ErrUnauthorized("only the owner can start order %s", guid)
		}
		if o.Status != domain.OrderStatusConfirmed {
			return domain.ErrStateConflict("order %s is %s, not CONFIRMED", guid, o.Status)
		}
		now := s.now()
		if o.StartAt.After(now) {
			return domain.ErrStateConflict("order %s rental period has not started yet", guid)
		}
		if err := o.Transition(domain.OrderStatusProgress, now); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, order.RenterID, "Rental started",
		fmt.Sprintf("Your rental of %s is now in progress", order.ItemTitle),
		map[string]string{"type": "ORDER_STARTED", "order_guid": order.GUID})
	return order, nil
}

func (s *orderService) RenterReturn(ctx context.Context, renterID int64, guid, notes string) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByGUIDForUpdate(ctx, guid)
		if err != nil {
			return err
		}
		if o.RenterID != renterID {
			return domain.ErrUnauthorized("only the renter can report a return for order %s", guid)
		}
		if o.Status != domain.OrderStatusProgress {
			return domain.ErrStateConflict("order %s is %s, not PROGRESS", guid, o.Status)
		}
		now := s.now()
		o.Return.ReturnedAt = &now
		o.Return.Notes = notes
		if err := o.Transition(domain.OrderStatusReturned, now); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, order.OwnerID, "Item returned",
		fmt.Sprintf("The renter reported returning %s; please inspect and complete the order", order.ItemTitle),
		map[string]string{"type": "ORDER_RETURNED", "order_guid": order.GUID})
	return order, nil
}

func (s *orderService) OwnerComplete(ctx context.Context, ownerID int64, guid string, in CompleteOrderInput) (*domain.Order, error) {
	if !domain.ValidCondition(in.ConditionStatus) {
		return nil, domain.ErrValidation("invalid condition status %q", in.ConditionStatus)
	}
	if in.DamageFeeCents < 0 {
		return nil, domain.ErrValidation("damage fee cannot be negative")
	}

	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByGUIDForUpdate(ctx, guid)
		if err != nil {
			return err
		}
		if o.OwnerID != ownerID {
			return domain.ErrUnauthorized("only the owner can complete order %s", guid)
		}
		if o.Status != domain.OrderStatusProgress && o.Status != domain.OrderStatusReturned {
			return domain.ErrStateConflict("order %s is %s, not PROGRESS or RETURNED", guid, o.Status)
		}
		now := s.now()
		if o.Return.ReturnedAt == nil {
			// Completing straight from PROGRESS: the owner is attesting
			// receipt of the item without a renter return report.
			o.Return.ReturnedAt = &now
		}
		o.Return.ConfirmedBy = &ownerID
		o.Return.ConditionStatus = in.ConditionStatus
		o.Return.DamageFeeCents = in.DamageFeeCents
		if in.Notes != "" {
			o.Return.Notes = in.Notes
		}
		if in.DamageFeeCents > 0 {
			o.PaymentStatus = domain.PaymentStatusPartial
		} else {
			o.PaymentStatus = domain.PaymentStatusPaid
		}
		if err := o.Transition(domain.OrderStatusCompleted, now); err != nil {
			return err
		}

		if o.ConfirmedAt != nil {
			if in.ConditionStatus == domain.ConditionLost {
				// Permanent loss: shrink the owned total, not just
				// availability.
				if err := s.items.WriteOff(ctx, o.ItemID); err != nil {
					return err
				}
			} else {
				// Includes HEAVILY_DAMAGED: the unit re-enters the rentable
				// pool, and pulling a damaged listing stays the owner's
				// call through the catalog.
				if err := s.items.Release(ctx, o.ItemID); err != nil {
					return err
				}
			}
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if order.Return.DamageFeeCents > 0 {
		s.settleDamageFee(ctx, order)
	}
	s.notifier.Notify(ctx, order.RenterID, "Rental completed",
		fmt.Sprintf("Your rental of %s was completed (condition: %s)", order.ItemTitle, order.Return.ConditionStatus),
		map[string]string{"type": "ORDER_COMPLETED", "order_guid": order.GUID})
	return order, nil
}

// settleDamageFee moves the assessed fee renter -> owner, best effort.
// An uncovered renter wallet leaves the order's payment status PARTIAL
// with the fee outstanding; completion itself is never rolled back.
func (s *orderService) settleDamageFee(ctx context.Context, o *domain.Order) {
	desc := fmt.Sprintf("Damage fee for order %s", o.GUID)
	if _, err := s.wallet.Debit(ctx, o.RenterID, o.Return.DamageFeeCents, domain.TransactionTypeDamageFee, &o.ID, desc); err != nil {
		logger.WarnContext(ctx, "damage fee not settled", "order", o.GUID, "error", err)
		return
	}
	if _, err := s.wallet.Credit(ctx, o.OwnerID, o.Return.DamageFeeCents, domain.TransactionTypeDamageFee, &o.ID, desc); err != nil {
		logger.ErrorContext(ctx, "damage fee debited but owner credit failed", "order", o.GUID, "error", err)
	}
}

func (s *orderService) Cancel(ctx context.Context, actorID int64, guid, reason string) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByGUIDForUpdate(ctx, guid)
		if err != nil {
			return err
		}
		switch o.Status {
		case domain.OrderStatusPending:
			if actorID != o.RenterID && actorID != o.OwnerID {
				return domain.ErrUnauthorized("only a party to order %s can cancel it", guid)
			}
		case domain.OrderStatusConfirmed:
			if actorID != o.OwnerID {
				return domain.ErrUnauthorized("only the owner can cancel confirmed order %s", guid)
			}
			// Undo the reservation taken at confirm.
			if err := s.items.Release(ctx, o.ItemID); err != nil {
				return err
			}
		default:
			return domain.ErrStateConflict("order %s is %s and cannot be cancelled", guid, o.Status)
		}
		o.CancelReason = reason
		if err := o.Transition(domain.OrderStatusCancelled, s.now()); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	counterparty := order.RenterID
	if actorID == order.RenterID {
		counterparty = order.OwnerID
	}
	s.notifier.Notify(ctx, counterparty, "Rental cancelled",
		fmt.Sprintf("Order for %s was cancelled: %s", order.ItemTitle, reason),
		map[string]string{"type": "ORDER_CANCELLED", "order_guid": order.GUID})
	return order, nil
}

func (s *orderService) Dispute(ctx context.Context, actorID int64, guid, reason string) (*domain.Order, error) {
	if reason == "" {
		return nil, domain.ErrValidation("dispute reason is required")
	}
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByGUIDForUpdate(ctx, guid)
		if err != nil {
			return err
		}
		if actorID != o.RenterID && actorID != o.OwnerID {
			return domain.ErrUnauthorized("only a party to order %s can dispute it", guid)
		}
		o.DisputeReason = reason
		if err := o.Transition(domain.OrderStatusDisputed, s.now()); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		d := &domain.Dispute{
			OrderID:  o.ID,
			OpenedBy: actorID,
			Reason:   reason,
			Status:   domain.DisputeStatusPending,
		}
		if err := s.disputes.Create(ctx, d); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	counterparty := order.RenterID
	if actorID == order.RenterID {
		counterparty = order.OwnerID
	}
	s.notifier.Notify(ctx, counterparty, "Order disputed",
		fmt.Sprintf("Order for %s was escalated to a dispute: %s", order.ItemTitle, reason),
		map[string]string{"type": "ORDER_DISPUTED", "order_guid": order.GUID})
	return order, nil
}

func (s *orderService) Get(ctx context.Context, userID int64, guid string) (*domain.Order, error) {
	o, err := s.orders.GetByGUID(ctx, guid)
	if err != nil {
		return nil, err
	}
	if o.RenterID != userID && o.OwnerID != userID {
		return nil, domain.ErrUnauthorized("order %s does not belong to you", guid)
	}
	return o, nil
}

func (s *orderService) ListByRenter(ctx context.Context, renterID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orders.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *orderService) ListByOwner(ctx context.Context, ownerID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orders.ListByOwner(ctx, ownerID, status, page, pageSize)
}
