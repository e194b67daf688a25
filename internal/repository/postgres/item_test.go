package postgres

import (
	"context"
	"testing"
	"time"

	"renthub-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestItemRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "image_url", "base_price_cents", "deposit_cents", "price_unit", "quantity", "available_quantity", "status", "is_deleted", "created_at"}).
			AddRow(7, 2, "Cordless drill", "", 100000, 50000, "day", 3, 2, "AVAILABLE", false, time.Now())
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id = \\$1").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		item, err := store.ItemRepository.GetByID(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), item.AvailableQuantity)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id = \\$1").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.ItemRepository.GetByID(ctx, 404)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestItemRepository_Reserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE items SET available_quantity = available_quantity - 1").
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.ItemRepository.Reserve(ctx, 7))
	})

	t.Run("OutOfStock", func(t *testing.T) {
		// The guard in the WHERE clause matched no row: the last unit was
		// taken by a concurrent confirmation.
		mock.ExpectExec("UPDATE items SET available_quantity = available_quantity - 1").
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.ItemRepository.Reserve(ctx, 7)
		assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))
	})
}

func TestItemRepository_Release(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)

	mock.ExpectExec("UPDATE items SET available_quantity = LEAST").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.ItemRepository.Release(context.Background(), 7))
}

func TestItemRepository_WriteOff(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)

	mock.ExpectExec("UPDATE items SET quantity = GREATEST").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.ItemRepository.WriteOff(context.Background(), 7))
}
