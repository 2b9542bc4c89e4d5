package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := RegisterParams{Email: "buyer@example.com", Password: "x", Name: "Buyer"}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "created_at", "updated_at"}).
			AddRow(1, params.Email, "hash", params.Name, RoleUser, time.Now(), time.Now())

		dbmock.ExpectQuery("INSERT INTO users").
			WithArgs(params.Email, "hash", params.Name).
			WillReturnRows(rows)

		u, err := repo.Create(context.Background(), params, "hash")
		assert.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
		assert.Equal(t, RoleUser, u.Role)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		dbmock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: pq.ErrorCode(PgUniqueViolation)})

		_, err := repo.Create(context.Background(), params, "hash")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("Error", func(t *testing.T) {
		dbmock.ExpectQuery("INSERT INTO users").
			WillReturnError(errors.New("db error"))

		_, err := repo.Create(context.Background(), params, "hash")
		assert.Error(t, err)
	})
}

func TestRepository_GetByEmail(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "email", "password_hash", "name", "role", "store_id", "created_at", "updated_at"}

	t.Run("Success with store", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow(2, "seller@example.com", "hash", "Seller", RoleUser, 5, time.Now(), time.Now())

		dbmock.ExpectQuery("SELECT u.id, u.email").
			WithArgs("seller@example.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(context.Background(), "seller@example.com")
		require.NoError(t, err)
		require.NotNil(t, u.StoreID)
		assert.Equal(t, uint(5), *u.StoreID)
	})

	t.Run("NotFound", func(t *testing.T) {
		dbmock.ExpectQuery("SELECT u.id, u.email").
			WithArgs("missing@example.com").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetByEmail(context.Background(), "missing@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_UpdateRole(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		dbmock.ExpectExec("UPDATE users SET role").
			WithArgs(RoleTourismManager, uint(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateRole(context.Background(), 3, RoleTourismManager))
	})

	t.Run("NotFound", func(t *testing.T) {
		dbmock.ExpectExec("UPDATE users SET role").
			WithArgs(RoleAdmin, uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateRole(context.Background(), 99, RoleAdmin), ErrUserNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "created_at", "updated_at"}).
		AddRow(1, "a@example.com", "A", RoleUser, time.Now(), time.Now()).
		AddRow(2, "b@example.com", "B", RoleAdmin, time.Now(), time.Now())

	dbmock.ExpectQuery("SELECT id, email, name, role").
		WithArgs(20, 0).
		WillReturnRows(rows)

	users, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
