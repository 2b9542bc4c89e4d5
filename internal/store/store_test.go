package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var storeCols = []string{"id", "user_id", "name", "slug", "description", "created_at", "updated_at"}

func TestRepository_Create(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(storeCols).
			AddRow(1, 10, "Bali Tours", "bali-tours", nil, time.Now(), time.Now())

		dbmock.ExpectQuery("INSERT INTO stores").
			WithArgs(uint(10), "Bali Tours", "bali-tours", nil).
			WillReturnRows(rows)

		s, err := repo.Create(context.Background(), 10, CreateParams{Name: "Bali Tours"}, "bali-tours")
		require.NoError(t, err)
		assert.Equal(t, "bali-tours", s.Slug)
	})

	t.Run("SlugTaken", func(t *testing.T) {
		dbmock.ExpectQuery("INSERT INTO stores").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "stores_slug_key"})

		_, err := repo.Create(context.Background(), 10, CreateParams{Name: "Bali Tours"}, "bali-tours")
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("SecondStoreForUser", func(t *testing.T) {
		dbmock.ExpectQuery("INSERT INTO stores").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "stores_user_id_key"})

		_, err := repo.Create(context.Background(), 10, CreateParams{Name: "Another"}, "another")
		assert.ErrorIs(t, err, ErrStoreExists)
	})
}

func TestRepository_GetBySlug(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(storeCols).
			AddRow(1, 10, "Bali Tours", "bali-tours", nil, time.Now(), time.Now())

		dbmock.ExpectQuery("SELECT .+ FROM stores WHERE slug").
			WithArgs("bali-tours").
			WillReturnRows(rows)

		s, err := repo.GetBySlug(context.Background(), "bali-tours")
		require.NoError(t, err)
		assert.Equal(t, uint(1), s.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		dbmock.ExpectQuery("SELECT .+ FROM stores WHERE slug").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(storeCols))

		_, err := repo.GetBySlug(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID uint, params CreateParams, slug string) (*Store, error) {
	args := m.Called(ctx, userID, params, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uint) (*Store, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Store, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]*Store, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Store), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, storeID uint, params CreateParams) (*Store, error) {
	args := m.Called(ctx, storeID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Store), args.Error(1)
}

func TestService_Create(t *testing.T) {
	t.Run("slugifies the name", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", mock.Anything, uint(1), mock.Anything, "warung-kopi").
			Return(&Store{ID: 1, Slug: "warung-kopi"}, nil)

		svc := NewService(repo)
		s, err := svc.Create(context.Background(), 1, CreateParams{Name: "  Warung & Kopi! "})
		require.NoError(t, err)
		assert.Equal(t, "warung-kopi", s.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.Create(context.Background(), 1, CreateParams{Name: "   "})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
