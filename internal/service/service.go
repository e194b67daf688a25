package service

import (
	"context"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/payment"
)

// TaxRateFunc returns the current service-fee tax rate as a percentage.
// Tax lookup lives outside this core; it is consumed as a pure function.
type TaxRateFunc func() float64

type CreateOrderInput struct {
	ItemID          int64  `json:"item_id"`
	UnitCount       int32  `json:"unit_count"`
	StartAt         string `json:"start_at"`
	EndAt           string `json:"end_at"`
	PaymentMethod   string `json:"payment_method"`
	ShippingAddress string `json:"shipping_address"`
}

type CompleteOrderInput struct {
	ConditionStatus domain.ConditionStatus `json:"condition_status"`
	DamageFeeCents  int64                  `json:"damage_fee_cents"`
	Notes           string                 `json:"notes"`
}

type OrderService interface {
	Create(ctx context.Context, renterID int64, in CreateOrderInput) (*domain.Order, error)
	Confirm(ctx context.Context, ownerID int64, guid string) (*domain.Order, error)
	Start(ctx context.Context, ownerID int64, guid string) (*domain.Order, error)
	RenterReturn(ctx context.Context, renterID int64, guid, notes string) (*domain.Order, error)
	OwnerComplete(ctx context.Context, ownerID int64, guid string, in CompleteOrderInput) (*domain.Order, error)
	Cancel(ctx context.Context, actorID int64, guid, reason string) (*domain.Order, error)
	Dispute(ctx context.Context, actorID int64, guid, reason string) (*domain.Order, error)
	Get(ctx context.Context, userID int64, guid string) (*domain.Order, error)
	ListByRenter(ctx context.Context, renterID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error)
	ListByOwner(ctx context.Context, ownerID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error)
}

// WalletService is the wallet ledger: every mutation pairs a balance
// update with an immutable transaction record in one atomic unit.
type WalletService interface {
	GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
	Credit(ctx context.Context, userID int64, amountCents int64, typ domain.TransactionType, orderID *int64, description string) (*domain.WalletTransaction, error)
	Debit(ctx context.Context, userID int64, amountCents int64, typ domain.TransactionType, orderID *int64, description string) (*domain.WalletTransaction, error)
	RequestDeposit(ctx context.Context, userID int64, amountCents int64) (*domain.WalletTransaction, *payment.Link, error)
	AddBankAccount(ctx context.Context, userID int64, bankName, accountNumber, accountHolder string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, userID int64) ([]domain.BankAccount, error)
}

// PaymentCallbackService consumes asynchronous gateway notifications
// exactly once, keyed by order code.
type PaymentCallbackService interface {
	ProcessCallback(ctx context.Context, cb payment.Webhook) error
}

type WithdrawalService interface {
	Request(ctx context.Context, userID int64, amountCents int64, bankAccountID int64) (*domain.WalletTransaction, error)
	Review(ctx context.Context, operatorID, transactionID int64, approve bool) (*domain.WalletTransaction, error)
	Complete(ctx context.Context, operatorID, transactionID int64) (*domain.WalletTransaction, error)
	ListByStatus(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

type DisputeService interface {
	Resolve(ctx context.Context, operatorID, disputeID int64, decision string, refundCents int64) (*domain.Dispute, *domain.Order, error)
	ListByStatus(ctx context.Context, status domain.DisputeStatus, page, pageSize int32) ([]domain.Dispute, int32, error)
}

// Notifier delivers a fire-and-forget notification. Failures are logged
// and never roll back the transition that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message string, attrs map[string]string)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

type EmailService interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}
