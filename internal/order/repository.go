package order

import (
	"context"
	"database/sql"
	"errors"

	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/product"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, params CreateTxParams) (*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetDetail(ctx context.Context, id uint) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]*Order, error)
	ListByStore(ctx context.Context, storeID uint) ([]*SellerOrder, error)
	UpdateStatus(ctx context.Context, id uint, from, to Status) error
}

// CreateTxParams carries everything checkout needs inside one transaction.
// Fees are snapshotted by the caller before the transaction starts.
type CreateTxParams struct {
	BuyerID         uint
	AddressID       uint
	Items           []RequestedItem
	ServiceFeePct   decimal.Decimal
	BuyerServiceFee decimal.Decimal
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderTx creates the order header, snapshots its items, decrements
// stock and removes the ordered products from the buyer's cart, all in a
// single transaction. Any failure rolls the whole order back.
func (r *repository) CreateOrderTx(ctx context.Context, params CreateTxParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.Uint("buyer_id", params.BuyerID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Lock each product row and snapshot its current state.
	items := make([]*OrderItem, 0, len(params.Items))
	total := decimal.Zero
	for _, req := range params.Items {
		var (
			name   string
			store  uint
			price  decimal.Decimal
			status string
		)
		err = tx.QueryRowContext(ctx, `
			SELECT name, store_id, price, status
			FROM products
			WHERE id = $1
			FOR UPDATE
		`, req.ProductID).Scan(&name, &store, &price, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, product.ErrProductNotFound
		}
		if err != nil {
			return nil, err
		}
		if status != product.StatusActive {
			return nil, ErrProductUnavailable
		}

		// 2. Deduct stock; the condition keeps it from going negative.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, req.Quantity, req.ProductID)
		if err != nil {
			return nil, err
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			log.Warn("insufficient stock, rolling back",
				zap.Uint("product_id", req.ProductID),
				zap.Int("quantity", req.Quantity),
			)
			return nil, ErrInsufficientStock
		}

		items = append(items, &OrderItem{
			ProductID:   req.ProductID,
			StoreID:     store,
			ProductName: name,
			Price:       price,
			Quantity:    req.Quantity,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(req.Quantity))))
	}

	serviceFee := total.Mul(params.ServiceFeePct).Div(decimal.NewFromInt(100))

	// 3. Insert the order header.
	o := &Order{
		BuyerID:         params.BuyerID,
		AddressID:       params.AddressID,
		Status:          StatusPending,
		Total:           total,
		ServiceFee:      serviceFee,
		BuyerServiceFee: params.BuyerServiceFee,
		Items:           items,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (buyer_id, address_id, status, total, service_fee, buyer_service_fee)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		o.BuyerID, o.AddressID, o.Status, o.Total, o.ServiceFee, o.BuyerServiceFee,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// 4. Insert item snapshots.
	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, store_id, product_name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`,
			item.OrderID, item.ProductID, item.StoreID,
			item.ProductName, item.Price, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
		productIDs = append(productIDs, int64(item.ProductID))
	}

	// 5. Remove only the ordered products from the cart; anything else the
	// buyer has in there stays.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
		AND product_id = ANY($2)
	`, params.BuyerID, pq.Array(productIDs))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}

const orderColumns = "id, buyer_id, address_id, status, total, service_fee, buyer_service_fee, created_at, updated_at"

func scanOrder(scanner interface {
	Scan(dest ...any) error
}) (*Order, error) {
	var o Order
	err := scanner.Scan(
		&o.ID, &o.BuyerID, &o.AddressID, &o.Status, &o.Total,
		&o.ServiceFee, &o.BuyerServiceFee, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// GetDetail returns the order with all its item snapshots.
func (r *repository) GetDetail(ctx context.Context, id uint) (*Order, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, []int64{int64(id)})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []*OrderItem{}
	}
	return o, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uint) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
	`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, int64(o.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []*Order{}, nil
	}

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
		if o.Items == nil {
			o.Items = []*OrderItem{}
		}
	}
	return orders, nil
}

// ListByStore returns orders containing the store's items, with only those
// items attached and the seller total summed over them.
func (r *repository) ListByStore(ctx context.Context, storeID uint) ([]*SellerOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT o.id, o.buyer_id, o.address_id, o.status, o.total,
			o.service_fee, o.buyer_service_fee, o.created_at, o.updated_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.store_id = $1
		ORDER BY o.created_at DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []*SellerOrder{}, nil
	}

	result := make([]*SellerOrder, 0, len(orders))
	for _, o := range orders {
		items, err := r.storeItems(ctx, o.ID, storeID)
		if err != nil {
			return nil, err
		}

		sellerTotal := decimal.Zero
		for _, item := range items {
			sellerTotal = sellerTotal.Add(item.Subtotal())
		}
		result = append(result, &SellerOrder{
			Order:       o,
			Items:       items,
			SellerTotal: sellerTotal,
		})
	}
	return result, nil
}

// UpdateStatus moves the order from one status to another. The current
// status is part of the predicate so concurrent updates cannot skip a step.
func (r *repository) UpdateStatus(ctx context.Context, id uint, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

const itemColumns = "id, order_id, product_id, store_id, product_name, price, quantity"

func (r *repository) itemsForOrders(ctx context.Context, orderIDs []int64) (map[uint][]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uint][]*OrderItem)
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.StoreID,
			&item.ProductName, &item.Price, &item.Quantity,
		); err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], &item)
	}
	return items, rows.Err()
}

func (r *repository) storeItems(ctx context.Context, orderID, storeID uint) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM order_items
		WHERE order_id = $1 AND store_id = $2
		ORDER BY id
	`, orderID, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.StoreID,
			&item.ProductName, &item.Price, &item.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
