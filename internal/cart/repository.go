package cart

import (
	"context"
	"database/sql"
	"errors"

	"lokapasar-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// GetOrCreateCart lazily creates the user's cart on first access.
	GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error)
	GetItem(ctx context.Context, cartID, productID uint) (*CartItem, error)
	CreateItem(ctx context.Context, cartID, productID uint, quantity int) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID uint, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uint) error
	Clear(ctx context.Context, cartID uint) error
	GetLines(ctx context.Context, cartID uint) ([]*CartLine, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id)
		DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get or create cart",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetItem(ctx context.Context, cartID, productID uint) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, cartID, productID uint, quantity int) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at
	`, cartID, productID, quantity).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, cartID, productID uint, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE cart_id = $2 AND product_id = $3
	`, quantity, cartID, productID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID, productID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, cartID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1
	`, cartID)
	return err
}

func (r *repository) GetLines(ctx context.Context, cartID uint) ([]*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCartLines"),
		zap.Uint("cart_id", cartID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			ci.id,
			ci.product_id,
			p.name,
			p.store_id,
			s.name,
			p.price,
			p.stock,
			p.status,
			ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN stores s ON s.id = p.store_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, cartID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lines []*CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(
			&l.ItemID, &l.ProductID, &l.ProductName, &l.StoreID, &l.StoreName,
			&l.Price, &l.Stock, &l.Status, &l.Quantity,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		l.Subtotal = l.Price.Mul(decimalFromInt(l.Quantity))
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
