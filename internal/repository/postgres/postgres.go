package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"renthub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx the repositories use, so
// every query transparently joins a transaction carried in the context.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

type Store struct {
	db *sql.DB
	repository.OrderRepository
	repository.ItemRepository
	repository.WalletRepository
	repository.DisputeRepository
	repository.NotificationRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	s := &Store{db: db}
	s.OrderRepository = &orderRepository{s}
	s.ItemRepository = &itemRepository{s}
	s.WalletRepository = &walletRepository{s}
	s.DisputeRepository = &disputeRepository{s}
	s.NotificationRepository = &notificationRepository{s}
	s.UserRepository = &userRepository{s}
	return s
}

// WithinTx runs fn inside one database transaction. Nested calls join
// the transaction already carried by the context instead of opening a
// second one.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
