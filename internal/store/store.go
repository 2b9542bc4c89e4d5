package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrStoreNotFound = errors.New("store not found")
	ErrStoreExists   = errors.New("user already owns a store")
	ErrSlugTaken     = errors.New("store slug already taken")
	ErrInvalidInput  = errors.New("invalid store input")
)

const pgUniqueViolation = "23505"

type Store struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateParams struct {
	Name        string
	Description *string
}

type Repository interface {
	Create(ctx context.Context, userID uint, params CreateParams, slug string) (*Store, error)
	GetByUserID(ctx context.Context, userID uint) (*Store, error)
	GetBySlug(ctx context.Context, slug string) (*Store, error)
	List(ctx context.Context, limit, offset int) ([]*Store, error)
	Update(ctx context.Context, storeID uint, params CreateParams) (*Store, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const storeColumns = "id, user_id, name, slug, description, created_at, updated_at"

func scanStore(row *sql.Row) (*Store, error) {
	var s Store
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Slug, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, userID uint, params CreateParams, slug string) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateStore"),
		zap.Uint("user_id", userID),
	)

	s, err := scanStore(r.db.QueryRowContext(ctx, `
		INSERT INTO stores (user_id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		RETURNING `+storeColumns,
		userID, params.Name, slug, params.Description,
	))

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			if strings.Contains(pqErr.Constraint, "slug") {
				return nil, ErrSlugTaken
			}
			return nil, ErrStoreExists
		}
		log.Error("failed to create store", zap.Error(err))
		return nil, err
	}

	log.Info("store created", zap.Uint("store_id", s.ID))
	return s, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) (*Store, error) {
	s, err := scanStore(r.db.QueryRowContext(ctx, `
		SELECT `+storeColumns+` FROM stores WHERE user_id = $1
	`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	return s, err
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Store, error) {
	s, err := scanStore(r.db.QueryRowContext(ctx, `
		SELECT `+storeColumns+` FROM stores WHERE slug = $1
	`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	return s, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Slug, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &s)
	}
	return res, rows.Err()
}

func (r *repository) Update(ctx context.Context, storeID uint, params CreateParams) (*Store, error) {
	s, err := scanStore(r.db.QueryRowContext(ctx, `
		UPDATE stores
		SET name = $1,
		    description = COALESCE($2, description),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING `+storeColumns,
		params.Name, params.Description, storeID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	return s, err
}

type Service interface {
	Create(ctx context.Context, userID uint, params CreateParams) (*Store, error)
	GetOwn(ctx context.Context, userID uint) (*Store, error)
	GetBySlug(ctx context.Context, slug string) (*Store, error)
	List(ctx context.Context, limit, page int) ([]*Store, error)
	Update(ctx context.Context, storeID uint, params CreateParams) (*Store, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID uint, params CreateParams) (*Store, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, ErrInvalidInput
	}

	slug := utils.Slugify(params.Name)
	if slug == "" {
		return nil, ErrInvalidInput
	}

	return s.repo.Create(ctx, userID, params, slug)
}

func (s *service) GetOwn(ctx context.Context, userID uint) (*Store, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Store, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context, limit, page int) ([]*Store, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.List(ctx, limit, (page-1)*limit)
}

func (s *service) Update(ctx context.Context, storeID uint, params CreateParams) (*Store, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.Update(ctx, storeID, params)
}
