package domain

import "time"

type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "AVAILABLE"
	ItemStatusUnavailable ItemStatus = "UNAVAILABLE"
)

// Item mirrors the catalog record. This core reads its fields and mutates
// only the two counters: Quantity is the total owned count, AvailableQuantity
// the currently rentable count. AvailableQuantity <= Quantity always.
type Item struct {
	ID                int64      `json:"id"`
	OwnerID           int64      `json:"owner_id"`
	Title             string     `json:"title"`
	ImageURL          string     `json:"image_url"`
	BasePriceCents    int64      `json:"base_price_cents"`
	DepositCents      int64      `json:"deposit_cents"`
	PriceUnit         string     `json:"price_unit"`
	Quantity          int32      `json:"quantity"`
	AvailableQuantity int32      `json:"available_quantity"`
	Status            ItemStatus `json:"status"`
	IsDeleted         bool       `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}
