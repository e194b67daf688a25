package postgres

import (
	"context"
	"testing"
	"time"

	"renthub-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestWalletRepository_GetOrCreateByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "balance_cents", "currency", "created_at", "updated_at"}).
		AddRow(5, 1, 0, "VND", time.Now(), time.Now())
	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(int64(1), "VND").
		WillReturnRows(rows)

	w, err := store.WalletRepository.GetOrCreateByUser(context.Background(), 1, "VND")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), w.ID)
	assert.Equal(t, int64(0), w.BalanceCents)
}

func TestWalletRepository_AddBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	t.Run("Credit", func(t *testing.T) {
		mock.ExpectQuery("UPDATE wallets SET balance_cents = balance_cents").
			WithArgs(int64(5), int64(100000)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(600000))

		balance, err := store.WalletRepository.AddBalance(ctx, 5, 100000)
		assert.NoError(t, err)
		assert.Equal(t, int64(600000), balance)
	})

	t.Run("UncoveredDebit", func(t *testing.T) {
		// The non-negative guard filtered the row out, so RETURNING yields
		// nothing.
		mock.ExpectQuery("UPDATE wallets SET balance_cents = balance_cents").
			WithArgs(int64(5), int64(-900000)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}))

		_, err := store.WalletRepository.AddBalance(ctx, 5, -900000)
		assert.Equal(t, domain.KindInsufficientFunds, domain.KindOf(err))
	})
}

func TestWalletRepository_CreateTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)

	entry := &domain.WalletTransaction{
		WalletID:    5,
		OrderCode:   "1749556800042",
		Type:        domain.TransactionTypeDeposit,
		AmountCents: 100000,
		Status:      domain.WithdrawalStatusPending,
		Description: "Wallet deposit",
	}
	mock.ExpectQuery("INSERT INTO wallet_transactions").
		WithArgs(entry.WalletID, nil, entry.OrderCode, entry.Type, entry.AmountCents, nil,
			"PENDING", nil, nil, nil, entry.Description).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(31, time.Now(), time.Now()))

	err = store.WalletRepository.CreateTransaction(context.Background(), entry)
	assert.NoError(t, err)
	assert.Equal(t, int64(31), entry.ID)
}

func TestWalletRepository_GetTransactionByOrderCodeForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "wallet_id", "order_id", "order_code", "type", "amount_cents", "balance_after_cents", "status", "reviewed_by", "reviewed_at", "bank_account_id", "description", "created_at", "updated_at"}).
			AddRow(31, 5, nil, "1749556800042", "DEPOSIT", 100000, nil, "PENDING", nil, nil, nil, "Wallet deposit", time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM wallet_transactions WHERE order_code = \\$1 FOR UPDATE").
			WithArgs("1749556800042").
			WillReturnRows(rows)

		tx, err := store.WalletRepository.GetTransactionByOrderCodeForUpdate(ctx, "1749556800042")
		assert.NoError(t, err)
		assert.False(t, tx.Settled())
		assert.Equal(t, domain.WithdrawalStatusPending, tx.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM wallet_transactions WHERE order_code = \\$1 FOR UPDATE").
			WithArgs("999").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.WalletRepository.GetTransactionByOrderCodeForUpdate(ctx, "999")
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestWalletRepository_ExpireStalePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec("UPDATE wallet_transactions SET status").
		WithArgs(domain.WithdrawalStatusFailed, domain.TransactionTypeDeposit, domain.WithdrawalStatusPending, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.WalletRepository.ExpireStalePending(context.Background(), cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
