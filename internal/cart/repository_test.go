package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetOrCreateCart(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "created_at"}).
			AddRow(1, 10, time.Now())

		dbmock.ExpectQuery("INSERT INTO carts").
			WithArgs(uint(10)).
			WillReturnRows(rows)

		c, err := repo.GetOrCreateCart(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, uint(1), c.ID)
	})

	t.Run("Error", func(t *testing.T) {
		dbmock.ExpectQuery("INSERT INTO carts").
			WillReturnError(errors.New("db error"))

		_, err := repo.GetOrCreateCart(context.Background(), 10)
		assert.Error(t, err)
	})
}

func TestRepository_GetItem(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "cart_id", "product_id", "quantity", "created_at", "updated_at"}

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).AddRow(1, 1, 5, 2, time.Now(), time.Now())

		dbmock.ExpectQuery("SELECT id, cart_id, product_id").
			WithArgs(uint(1), uint(5)).
			WillReturnRows(rows)

		item, err := repo.GetItem(context.Background(), 1, 5)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("Missing returns nil without error", func(t *testing.T) {
		dbmock.ExpectQuery("SELECT id, cart_id, product_id").
			WithArgs(uint(1), uint(9)).
			WillReturnRows(sqlmock.NewRows(cols))

		item, err := repo.GetItem(context.Background(), 1, 9)
		assert.NoError(t, err)
		assert.Nil(t, item)
	})
}

func TestRepository_UpdateItemQuantity(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		dbmock.ExpectExec("UPDATE cart_items").
			WithArgs(3, uint(1), uint(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateItemQuantity(context.Background(), 1, 5, 3))
	})

	t.Run("NotFound", func(t *testing.T) {
		dbmock.ExpectExec("UPDATE cart_items").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateItemQuantity(context.Background(), 1, 9, 3), ErrCartItemNotFound)
	})
}

func TestRepository_Clear(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	dbmock.ExpectExec("DELETE FROM cart_items WHERE cart_id").
		WithArgs(uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.Clear(context.Background(), 1))
}

func TestRepository_GetLines(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	cols := []string{"id", "product_id", "name", "store_id", "store_name", "price", "stock", "status", "quantity"}
	rows := sqlmock.NewRows(cols).
		AddRow(1, 5, "Kopi Gayo", 3, "Warung Kopi", "10000.00", 8, "active", 2).
		AddRow(2, 6, "Teh Melati", 3, "Warung Kopi", "5000.00", 4, "active", 1)

	dbmock.ExpectQuery("SELECT").
		WithArgs(uint(1)).
		WillReturnRows(rows)

	lines, err := repo.GetLines(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "20000.00", lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "5000.00", lines[1].Subtotal.StringFixed(2))
}
