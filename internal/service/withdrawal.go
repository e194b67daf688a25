package service

import (
	"context"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

// withdrawalService is the two-phase human-in-the-loop payout flow:
// request and review never touch the balance; complete is the only step
// that moves money, so the "funds held" window stays auditable.
type withdrawalService struct {
	tx      repository.TxManager
	wallets repository.WalletRepository
	wallet  WalletService
	now     func() time.Time
}

func NewWithdrawalService(tx repository.TxManager, wallets repository.WalletRepository, wallet WalletService) WithdrawalService {
	return &withdrawalService{
		tx:      tx,
		wallets: wallets,
		wallet:  wallet,
		now:     time.Now,
	}
}

func (s *withdrawalService) Request(ctx context.Context, userID int64, amountCents int64, bankAccountID int64) (*domain.WalletTransaction, error) {
	if amountCents <= 0 {
		return nil, domain.ErrValidation("withdrawal amount must be positive")
	}
	acct, err := s.wallets.GetBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if acct.UserID != userID {
		return nil, domain.ErrUnauthorized("bank account %d does not belong to you", bankAccountID)
	}
	w, err := s.wallet.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w.BalanceCents < amountCents {
		return nil, domain.ErrInsufficientFunds("balance %d cannot cover withdrawal of %d", w.BalanceCents, amountCents)
	}

	entry := &domain.WalletTransaction{
		WalletID:      w.ID,
		OrderCode:     newOrderCode(),
		Type:          domain.TransactionTypeWithdraw,
		AmountCents:   amountCents,
		Status:        domain.WithdrawalStatusPending,
		BankAccountID: &bankAccountID,
		Description:   fmt.Sprintf("Withdrawal to %s %s", acct.BankName, acct.AccountNumber),
	}
	if err := s.wallets.CreateTransaction(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Review records the operator's policy decision. No balance effect: the
// operator can approve in principle before executing the bank transfer.
func (s *withdrawalService) Review(ctx context.Context, operatorID, transactionID int64, approve bool) (*domain.WalletTransaction, error) {
	var entry *domain.WalletTransaction
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tx, err := s.wallets.GetTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx.Type != domain.TransactionTypeWithdraw {
			return domain.ErrStateConflict("transaction %d is not a withdrawal", transactionID)
		}
		if tx.Status != domain.WithdrawalStatusPending {
			return domain.ErrStateConflict("withdrawal %d is %s, not PENDING", transactionID, tx.Status)
		}
		if approve {
			tx.Status = domain.WithdrawalStatusApproved
		} else {
			tx.Status = domain.WithdrawalStatusRejected
		}
		now := s.now()
		tx.ReviewedBy = &operatorID
		tx.ReviewedAt = &now
		if err := s.wallets.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		entry = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Complete is the irreversible financial event. The balance is re-checked
// inside the atomic unit because it may have dropped since approval.
func (s *withdrawalService) Complete(ctx context.Context, operatorID, transactionID int64) (*domain.WalletTransaction, error) {
	var entry *domain.WalletTransaction
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tx, err := s.wallets.GetTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx.Type != domain.TransactionTypeWithdraw {
			return domain.ErrStateConflict("transaction %d is not a withdrawal", transactionID)
		}
		if tx.Status != domain.WithdrawalStatusApproved {
			return domain.ErrStateConflict("withdrawal %d is %s, not APPROVED", transactionID, tx.Status)
		}
		balance, err := s.wallets.AddBalance(ctx, tx.WalletID, -tx.AmountCents)
		if err != nil {
			return err
		}
		tx.BalanceAfterCents = &balance
		tx.Status = domain.WithdrawalStatusCompleted
		if err := s.wallets.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		entry = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "withdrawal settled",
		"transaction_id", entry.ID, "amount_cents", entry.AmountCents, "operator", operatorID)
	return entry, nil
}

func (s *withdrawalService) ListByStatus(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	return s.wallets.ListWithdrawalsByStatus(ctx, status, page, pageSize)
}
