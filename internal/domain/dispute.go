package domain

import "time"

type DisputeStatus string

const (
	DisputeStatusPending  DisputeStatus = "PENDING"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
)

// Dispute is an escalated order awaiting arbitration. Resolution is a
// one-shot decision record; refund execution happens in the wallet ledger.
type Dispute struct {
	ID          int64         `json:"id"`
	OrderID     int64         `json:"order_id"`
	OpenedBy    int64         `json:"opened_by"`
	Reason      string        `json:"reason"`
	Status      DisputeStatus `json:"status"`
	Decision    string        `json:"decision,omitempty"`
	RefundCents int64         `json:"refund_cents"`
	ResolvedBy  *int64        `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
