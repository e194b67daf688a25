package domain

import "time"

type TransactionType string

const (
	TransactionTypeDeposit   TransactionType = "DEPOSIT"
	TransactionTypeWithdraw  TransactionType = "WITHDRAW"
	TransactionTypeCharge    TransactionType = "RENTAL_CHARGE"
	TransactionTypeRefund    TransactionType = "REFUND"
	TransactionTypeDamageFee TransactionType = "DAMAGE_FEE"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalStatusFailed    WithdrawalStatus = "FAILED"
)

// Wallet holds a user's spendable balance. Created lazily on first access.
type Wallet struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WalletTransaction is one ledger entry. OrderCode is globally unique and
// doubles as the idempotency key for gateway callbacks. BalanceAfterCents
// is nil until the entry's effect is applied to the wallet; it is written
// exactly once, inside the same atomic unit as the balance update.
type WalletTransaction struct {
	ID               int64            `json:"id"`
	WalletID         int64            `json:"wallet_id"`
	OrderID          *int64           `json:"order_id,omitempty"`
	OrderCode        string           `json:"order_code"`
	Type             TransactionType  `json:"type"`
	AmountCents      int64            `json:"amount_cents"`
	BalanceAfterCents *int64          `json:"balance_after_cents,omitempty"`
	Status           WithdrawalStatus `json:"status,omitempty"`
	ReviewedBy       *int64           `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time       `json:"reviewed_at,omitempty"`
	BankAccountID    *int64           `json:"bank_account_id,omitempty"`
	Description      string           `json:"description"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Settled reports whether the entry's money movement has happened.
// An unsettled entry must never be applied twice.
func (t *WalletTransaction) Settled() bool {
	return t.BalanceAfterCents != nil
}

// BankAccount is a user-registered payout target for withdrawals.
type BankAccount struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	AccountHolder string    `json:"account_holder"`
	CreatedAt     time.Time `json:"created_at"`
}
