package repository

import (
	"context"
	"time"

	"renthub-backend/internal/domain"
)

// TxManager runs a function inside one atomic unit of work. Every
// multi-record mutation (order + item, wallet + transaction) goes through
// it; repositories executed with the returned context join the same
// database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByGUID(ctx context.Context, guid string) (*domain.Order, error)
	// GetByGUIDForUpdate locks the order row for the duration of the
	// surrounding transaction. Use for every state transition.
	GetByGUIDForUpdate(ctx context.Context, guid string) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	ListByRenter(ctx context.Context, renterID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error)
	ListByOwner(ctx context.Context, ownerID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Order, error)
}

// ItemRepository is the inventory coordinator. Reserve, Release and
// WriteOff are single guarded statements so they stay correct when two
// operations race on the same item, and they join the caller's
// transaction so inventory and order state commit together.
type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	// Reserve decrements available_quantity, guarded by available_quantity >= 1.
	// Returns a StateConflict error when the item is out of stock.
	Reserve(ctx context.Context, itemID int64) error
	// Release increments available_quantity, clamped to quantity.
	Release(ctx context.Context, itemID int64) error
	// WriteOff decrements quantity and clamps available_quantity to the
	// new total. Models permanent loss, not temporary unavailability.
	WriteOff(ctx context.Context, itemID int64) error
}

type WalletRepository interface {
	GetOrCreateByUser(ctx context.Context, userID int64, currency string) (*domain.Wallet, error)
	// AddBalance applies a signed delta. A debit is guarded by
	// balance_cents >= -delta; an uncovered debit returns InsufficientFunds.
	AddBalance(ctx context.Context, walletID int64, deltaCents int64) (int64, error)

	CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error
	// GetTransactionByID locks the row for the surrounding transaction.
	GetTransactionByID(ctx context.Context, id int64) (*domain.WalletTransaction, error)
	GetTransactionByOrderCodeForUpdate(ctx context.Context, orderCode string) (*domain.WalletTransaction, error)
	UpdateTransaction(ctx context.Context, tx *domain.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID int64, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
	ListWithdrawalsByStatus(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
	// ExpireStalePending marks deposit transactions failed when they are
	// older than cutoff and still unsettled. Returns the number expired.
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error)

	CreateBankAccount(ctx context.Context, acct *domain.BankAccount) error
	GetBankAccountByID(ctx context.Context, id int64) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, userID int64) ([]domain.BankAccount, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, d *domain.Dispute) error
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Dispute, error)
	Update(ctx context.Context, d *domain.Dispute) error
	ListByStatus(ctx context.Context, status domain.DisputeStatus, page, pageSize int32) ([]domain.Dispute, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
