package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lokapasar-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, storeID uint, params CreateParams) (*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = "id, store_id, name, description, price, stock, status, type, image_url, created_at, updated_at"

func scanProduct(scanner interface {
	Scan(dest ...any) error
}) (*Product, error) {
	var p Product
	err := scanner.Scan(
		&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Status, &p.Type, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, storeID uint, params CreateParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProduct"),
		zap.Uint("store_id", storeID),
	)

	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		INSERT INTO products (store_id, name, description, price, stock, type, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		storeID, params.Name, params.Description, params.Price, params.Stock,
		params.Type, params.ImageURL,
	))
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", p.ID))
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	where := []string{"1=1"}
	args := []any{}

	if opts.StoreID != nil {
		where = append(where, fmt.Sprintf("store_id = $%d", len(args)+1))
		args = append(args, *opts.StoreID)
	}
	if opts.OnlyActive {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, StatusActive)
	}
	if opts.Search != nil && *opts.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*opts.Search+"%")
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *repository) Update(ctx context.Context, id uint, params UpdateParams) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name        = COALESCE($1, name),
		    description = COALESCE($2, description),
		    price       = COALESCE($3, price),
		    stock       = COALESCE($4, stock),
		    status      = COALESCE($5, status),
		    type        = COALESCE($6, type),
		    image_url   = COALESCE($7, image_url),
		    updated_at  = NOW()
		WHERE id = $8
		RETURNING `+productColumns,
		params.Name, params.Description, params.Price, params.Stock,
		params.Status, params.Type, params.ImageURL, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}
