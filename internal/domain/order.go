package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusProgress  OrderStatus = "PROGRESS"
	OrderStatusReturned  OrderStatus = "RETURNED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusDisputed  OrderStatus = "DISPUTED"
)

type PaymentStatus string

const (
	PaymentStatusNotPaid  PaymentStatus = "NOT_PAID"
	PaymentStatusPartial  PaymentStatus = "PARTIAL"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

type ConditionStatus string

const (
	ConditionGood            ConditionStatus = "GOOD"
	ConditionSlightlyDamaged ConditionStatus = "SLIGHTLY_DAMAGED"
	ConditionHeavilyDamaged  ConditionStatus = "HEAVILY_DAMAGED"
	ConditionLost            ConditionStatus = "LOST"
)

func ValidCondition(c ConditionStatus) bool {
	switch c {
	case ConditionGood, ConditionSlightlyDamaged, ConditionHeavilyDamaged, ConditionLost:
		return true
	}
	return false
}

// allowedTransitions is the order state machine as a directed graph.
// Any transition not listed here is rejected at the boundary; terminal
// states (COMPLETED, CANCELLED) have no outgoing edges.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusConfirmed: {OrderStatusProgress, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusProgress:  {OrderStatusReturned, OrderStatusCompleted, OrderStatusDisputed},
	OrderStatusReturned:  {OrderStatusCompleted, OrderStatusDisputed},
	OrderStatusDisputed:  {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ReturnInfo captures the outcome of the physical return, written once
// by the return report and the owner's final inspection.
type ReturnInfo struct {
	ReturnedAt      *time.Time      `json:"returned_at,omitempty"`
	ConfirmedBy     *int64          `json:"confirmed_by,omitempty"`
	ConditionStatus ConditionStatus `json:"condition_status,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	DamageFeeCents  int64           `json:"damage_fee_cents"`
}

// Order is one rental agreement between a renter and an owner for one
// catalog item. The item snapshot fields are frozen at creation time so
// later catalog edits never change a live order.
type Order struct {
	ID      int64  `json:"id"`
	GUID    string `json:"guid"`
	ItemID  int64  `json:"item_id"`
	RenterID int64 `json:"renter_id"`
	OwnerID  int64 `json:"owner_id"`

	// Item snapshot.
	ItemTitle      string `json:"item_title"`
	ItemImageURL   string `json:"item_image_url"`
	BasePriceCents int64  `json:"base_price_cents"`
	PriceUnit      string `json:"price_unit"`

	UnitCount int32     `json:"unit_count"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`

	TotalAmountCents int64         `json:"total_amount_cents"`
	DepositCents     int64         `json:"deposit_cents"`
	ServiceFeeCents  int64         `json:"service_fee_cents"`
	Currency         string        `json:"currency"`
	PaymentMethod    string        `json:"payment_method"`
	PaymentStatus    PaymentStatus `json:"payment_status"`

	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	Return          ReturnInfo  `json:"return_info"`

	CancelReason  string `json:"cancel_reason,omitempty"`
	DisputeReason string `json:"dispute_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
	DisputedAt  *time.Time `json:"disputed_at,omitempty"`

	IsDeleted bool `json:"-"`
}

// Transition moves the order to a new status and stamps the matching
// lifecycle timestamp. Callers check actor and precondition guards first;
// this rejects only edges missing from the state machine.
func (o *Order) Transition(to OrderStatus, now time.Time) error {
	if !CanTransition(o.Status, to) {
		return ErrStateConflict("order %s cannot transition from %s to %s", o.GUID, o.Status, to)
	}
	o.Status = to
	switch to {
	case OrderStatusConfirmed:
		if o.ConfirmedAt == nil {
			t := now
			o.ConfirmedAt = &t
		}
	case OrderStatusProgress:
		if o.StartedAt == nil {
			t := now
			o.StartedAt = &t
		}
	case OrderStatusCompleted:
		if o.CompletedAt == nil {
			t := now
			o.CompletedAt = &t
		}
	case OrderStatusCancelled:
		if o.CanceledAt == nil {
			t := now
			o.CanceledAt = &t
		}
	case OrderStatusDisputed:
		if o.DisputedAt == nil {
			t := now
			o.DisputedAt = &t
		}
	}
	return nil
}

// Terminal reports whether the order has left the active states.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
