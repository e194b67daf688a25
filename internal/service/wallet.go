package service

import (
	"context"

	"github.com/google/uuid"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/payment"
	"renthub-backend/internal/repository"
)

type walletService struct {
	tx       repository.TxManager
	wallets  repository.WalletRepository
	gateway  payment.Gateway
	currency string
}

func NewWalletService(tx repository.TxManager, wallets repository.WalletRepository, gateway payment.Gateway, currency string) WalletService {
	return &walletService{
		tx:       tx,
		wallets:  wallets,
		gateway:  gateway,
		currency: currency,
	}
}

func (s *walletService) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	return s.wallets.GetOrCreateByUser(ctx, userID, s.currency)
}

func (s *walletService) ListTransactions(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	w, err := s.wallets.GetOrCreateByUser(ctx, userID, s.currency)
	if err != nil {
		return nil, 0, err
	}
	return s.wallets.ListTransactions(ctx, w.ID, page, pageSize)
}

// Credit applies a positive delta and writes the ledger entry with its
// balance-after in the same atomic unit.
func (s *walletService) Credit(ctx context.Context, userID int64, amountCents int64, typ domain.TransactionType, orderID *int64, description string) (*domain.WalletTransaction, error) {
	if amountCents <= 0 {
		return nil, domain.ErrValidation("credit amount must be positive")
	}
	return s.apply(ctx, userID, amountCents, typ, orderID, description)
}

// Debit applies a negative delta; the balance guard runs inside the same
// statement as the update, so an uncovered debit fails with
// InsufficientFunds and nothing is written.
func (s *walletService) Debit(ctx context.Context, userID int64, amountCents int64, typ domain.TransactionType, orderID *int64, description string) (*domain.WalletTransaction, error) {
	if amountCents <= 0 {
		return nil, domain.ErrValidation("debit amount must be positive")
	}
	return s.apply(ctx, userID, -amountCents, typ, orderID, description)
}

func (s *walletService) apply(ctx context.Context, userID, deltaCents int64, typ domain.TransactionType, orderID *int64, description string) (*domain.WalletTransaction, error) {
	var entry *domain.WalletTransaction
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.wallets.GetOrCreateByUser(ctx, userID, s.currency)
		if err != nil {
			return err
		}
		balance, err := s.wallets.AddBalance(ctx, w.ID, deltaCents)
		if err != nil {
			return err
		}
		amount := deltaCents
		if amount < 0 {
			amount = -amount
		}
		entry = &domain.WalletTransaction{
			WalletID:          w.ID,
			OrderID:           orderID,
			OrderCode:         newOrderCode(),
			Type:              typ,
			AmountCents:       amount,
			BalanceAfterCents: &balance,
			Description:       description,
		}
		return s.wallets.CreateTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RequestDeposit records a pending ledger entry, then asks the gateway
// for a checkout link. The entry's balance-after stays unset until the
// webhook confirms payment; a gateway failure leaves the pending entry
// in place for a late webhook or the reconciliation job.
func (s *walletService) RequestDeposit(ctx context.Context, userID int64, amountCents int64) (*domain.WalletTransaction, *payment.Link, error) {
	if amountCents <= 0 {
		return nil, nil, domain.ErrValidation("deposit amount must be positive")
	}
	w, err := s.wallets.GetOrCreateByUser(ctx, userID, s.currency)
	if err != nil {
		return nil, nil, err
	}
	entry := &domain.WalletTransaction{
		WalletID:    w.ID,
		OrderCode:   newOrderCode(),
		Type:        domain.TransactionTypeDeposit,
		AmountCents: amountCents,
		Status:      domain.WithdrawalStatusPending,
		Description: "Wallet deposit",
	}
	if err := s.wallets.CreateTransaction(ctx, entry); err != nil {
		return nil, nil, err
	}

	link, err := s.gateway.CreatePaymentLink(ctx, entry.OrderCode, amountCents, entry.Description)
	if err != nil {
		return nil, nil, domain.ErrExternalDependency("payment gateway unavailable", err)
	}
	return entry, link, nil
}

func (s *walletService) AddBankAccount(ctx context.Context, userID int64, bankName, accountNumber, accountHolder string) (*domain.BankAccount, error) {
	if bankName == "" || accountNumber == "" || accountHolder == "" {
		return nil, domain.ErrValidation("bank name, account number and account holder are required")
	}
	acct := &domain.BankAccount{
		UserID:        userID,
		BankName:      bankName,
		AccountNumber: accountNumber,
		AccountHolder: accountHolder,
	}
	if err := s.wallets.CreateBankAccount(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *walletService) ListBankAccounts(ctx context.Context, userID int64) ([]domain.BankAccount, error) {
	return s.wallets.ListBankAccounts(ctx, userID)
}

// newOrderCode builds the globally unique code the gateway echoes back in
// callbacks, and that concurrent requests must never collide on. The
// column's unique constraint backstops it.
func newOrderCode() string {
	return uuid.NewString()
}
