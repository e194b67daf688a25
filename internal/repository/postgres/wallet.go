package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
)

type walletRepository struct {
	s *Store
}

func (r *walletRepository) GetOrCreateByUser(ctx context.Context, userID int64, currency string) (*domain.Wallet, error) {
	// Wallets are created lazily on first access. ON CONFLICT keeps this
	// safe when two first-touch requests race.
	query := `INSERT INTO wallets (user_id, balance_cents, currency, created_at, updated_at)
		VALUES ($1, 0, $2, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = wallets.updated_at
		RETURNING id, user_id, balance_cents, currency, created_at, updated_at`
	w := &domain.Wallet{}
	err := r.s.q(ctx).QueryRowContext(ctx, query, userID, currency).Scan(
		&w.ID, &w.UserID, &w.BalanceCents, &w.Currency, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get or create wallet: %w", err)
	}
	return w, nil
}

// AddBalance applies a signed delta with the non-negative balance guard in
// the same statement, and returns the resulting balance.
func (r *walletRepository) AddBalance(ctx context.Context, walletID int64, deltaCents int64) (int64, error) {
	var balance int64
	err := r.s.q(ctx).QueryRowContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + $2, updated_at = now()
		 WHERE id = $1 AND balance_cents + $2 >= 0
		 RETURNING balance_cents`, walletID, deltaCents).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrInsufficientFunds("wallet %d balance cannot cover %d", walletID, -deltaCents)
	}
	if err != nil {
		return 0, fmt.Errorf("add wallet balance: %w", err)
	}
	return balance, nil
}

const txColumns = `id, wallet_id, order_id, order_code, type, amount_cents, balance_after_cents,
	status, reviewed_by, reviewed_at, bank_account_id, description, created_at, updated_at`

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions
			(wallet_id, order_id, order_code, type, amount_cents, balance_after_cents,
			 status, reviewed_by, reviewed_at, bank_account_id, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, now(), now())
		RETURNING id, created_at, updated_at`
	var status *string
	if tx.Status != "" {
		s := string(tx.Status)
		status = &s
	}
	err := r.s.q(ctx).QueryRowContext(ctx, query,
		tx.WalletID, tx.OrderID, tx.OrderCode, tx.Type, tx.AmountCents, tx.BalanceAfterCents,
		status, tx.ReviewedBy, tx.ReviewedAt, tx.BankAccountID, tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) getTransaction(ctx context.Context, where string, forUpdate bool, arg any) (*domain.WalletTransaction, error) {
	query := `SELECT ` + txColumns + ` FROM wallet_transactions WHERE ` + where
	if forUpdate {
		query += " FOR UPDATE"
	}
	tx, err := scanTransaction(r.s.q(ctx).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("wallet transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet transaction: %w", err)
	}
	return tx, nil
}

func (r *walletRepository) GetTransactionByID(ctx context.Context, id int64) (*domain.WalletTransaction, error) {
	return r.getTransaction(ctx, "id = $1", true, id)
}

func (r *walletRepository) GetTransactionByOrderCodeForUpdate(ctx context.Context, orderCode string) (*domain.WalletTransaction, error) {
	return r.getTransaction(ctx, "order_code = $1", true, orderCode)
}

func (r *walletRepository) UpdateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	query := `UPDATE wallet_transactions SET
			balance_after_cents = $1, status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = now()
		WHERE id = $5`
	var status *string
	if tx.Status != "" {
		s := string(tx.Status)
		status = &s
	}
	res, err := r.s.q(ctx).ExecContext(ctx, query,
		tx.BalanceAfterCents, status, tx.ReviewedBy, tx.ReviewedAt, tx.ID)
	if err != nil {
		return fmt.Errorf("update wallet transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update wallet transaction rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("wallet transaction %d not found", tx.ID)
	}
	return nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID int64, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	return r.listTransactions(ctx, "wallet_id = $1", walletID, page, pageSize)
}

func (r *walletRepository) ListWithdrawalsByStatus(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	return r.listTransactions(ctx, fmt.Sprintf("type = '%s' AND status = $1", domain.TransactionTypeWithdraw), status, page, pageSize)
}

func (r *walletRepository) listTransactions(ctx context.Context, where string, arg any, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	var count int32
	if err := r.s.q(ctx).QueryRowContext(ctx, "SELECT count(*) FROM wallet_transactions WHERE "+where, arg).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count wallet transactions: %w", err)
	}
	query := `SELECT ` + txColumns + ` FROM wallet_transactions WHERE ` + where +
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.s.q(ctx).QueryContext(ctx, query, arg, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan wallet transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	return txs, count, rows.Err()
}

// ExpireStalePending is guarded on balance_after_cents IS NULL so a webhook
// that settled the deposit concurrently always wins.
func (r *walletRepository) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE wallet_transactions SET status = $1, updated_at = now()
		 WHERE type = $2 AND status = $3 AND balance_after_cents IS NULL AND created_at < $4`,
		domain.WithdrawalStatusFailed, domain.TransactionTypeDeposit, domain.WithdrawalStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire stale deposits: %w", err)
	}
	return res.RowsAffected()
}

func (r *walletRepository) CreateBankAccount(ctx context.Context, acct *domain.BankAccount) error {
	query := `INSERT INTO bank_accounts (user_id, bank_name, account_number, account_holder, created_at)
		VALUES ($1,$2,$3,$4, now()) RETURNING id, created_at`
	err := r.s.q(ctx).QueryRowContext(ctx, query,
		acct.UserID, acct.BankName, acct.AccountNumber, acct.AccountHolder,
	).Scan(&acct.ID, &acct.CreatedAt)
	if err != nil {
		return fmt.Errorf("create bank account: %w", err)
	}
	return nil
}

func (r *walletRepository) GetBankAccountByID(ctx context.Context, id int64) (*domain.BankAccount, error) {
	query := `SELECT id, user_id, bank_name, account_number, account_holder, created_at
		FROM bank_accounts WHERE id = $1`
	a := &domain.BankAccount{}
	err := r.s.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.BankName, &a.AccountNumber, &a.AccountHolder, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("bank account %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

func (r *walletRepository) ListBankAccounts(ctx context.Context, userID int64) ([]domain.BankAccount, error) {
	query := `SELECT id, user_id, bank_name, account_number, account_holder, created_at
		FROM bank_accounts WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.s.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var accts []domain.BankAccount
	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.BankName, &a.AccountNumber, &a.AccountHolder, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		accts = append(accts, a)
	}
	return accts, rows.Err()
}

func scanTransaction(row rowScanner) (*domain.WalletTransaction, error) {
	tx := &domain.WalletTransaction{}
	var status sql.NullString
	err := row.Scan(
		&tx.ID, &tx.WalletID, &tx.OrderID, &tx.OrderCode, &tx.Type, &tx.AmountCents, &tx.BalanceAfterCents,
		&status, &tx.ReviewedBy, &tx.ReviewedAt, &tx.BankAccountID, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if status.Valid {
		tx.Status = domain.WithdrawalStatus(status.String)
	}
	return tx, nil
}
