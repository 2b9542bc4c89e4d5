package ticket

import (
	"context"
	"database/sql"
	"errors"

	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/product"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

type Repository interface {
	// TicketItems lists the order's items whose product is a ticket.
	TicketItems(ctx context.Context, orderID uint) ([]*TicketItem, error)
	// Insert stores one QR row. A duplicate (order_item_id, unit_index) is
	// treated as already issued and succeeds without writing.
	Insert(ctx context.Context, t *TicketQr) error
	ListByOrderItem(ctx context.Context, orderItemID uint) ([]*TicketQr, error)
	ListByStore(ctx context.Context, storeID uint) ([]*StoreTicket, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TicketItems(ctx context.Context, orderID uint) ([]*TicketItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.store_id, oi.product_name, oi.quantity
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1 AND p.type = $2
		ORDER BY oi.id
	`, orderID, product.TypeTicket)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*TicketItem
	for rows.Next() {
		var item TicketItem
		if err := rows.Scan(
			&item.OrderItemID, &item.OrderID, &item.StoreID,
			&item.ProductName, &item.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *repository) Insert(ctx context.Context, t *TicketQr) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ticket_qrs (order_id, order_item_id, serial, unit_index, qr_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		t.OrderID, t.OrderItemID, t.Serial, t.UnitIndex, t.QRImage,
	).Scan(&t.ID, &t.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		logger.FromCtx(ctx).Info("ticket unit already issued",
			zap.Uint("order_item_id", t.OrderItemID),
			zap.Int("unit_index", t.UnitIndex),
		)
		return nil
	}
	return err
}

const qrColumns = "id, order_id, order_item_id, serial, unit_index, qr_image, is_used, used_at, created_at"

func scanQr(scanner interface {
	Scan(dest ...any) error
}) (*TicketQr, error) {
	var t TicketQr
	err := scanner.Scan(
		&t.ID, &t.OrderID, &t.OrderItemID, &t.Serial, &t.UnitIndex,
		&t.QRImage, &t.IsUsed, &t.UsedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListByOrderItem(ctx context.Context, orderItemID uint) ([]*TicketQr, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+qrColumns+`
		FROM ticket_qrs
		WHERE order_item_id = $1
		ORDER BY unit_index
	`, orderItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qrs []*TicketQr
	for rows.Next() {
		t, err := scanQr(rows)
		if err != nil {
			return nil, err
		}
		qrs = append(qrs, t)
	}
	return qrs, rows.Err()
}

func (r *repository) ListByStore(ctx context.Context, storeID uint) ([]*StoreTicket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.order_id, t.order_item_id, t.serial, t.unit_index,
			t.qr_image, t.is_used, t.used_at, t.created_at,
			oi.product_name, u.name, o.status
		FROM ticket_qrs t
		JOIN order_items oi ON oi.id = t.order_item_id
		JOIN orders o ON o.id = t.order_id
		JOIN users u ON u.id = o.buyer_id
		WHERE oi.store_id = $1
		ORDER BY t.created_at DESC, t.unit_index
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []*StoreTicket{}
	for rows.Next() {
		var (
			qr TicketQr
			st StoreTicket
		)
		if err := rows.Scan(
			&qr.ID, &qr.OrderID, &qr.OrderItemID, &qr.Serial, &qr.UnitIndex,
			&qr.QRImage, &qr.IsUsed, &qr.UsedAt, &qr.CreatedAt,
			&st.ProductName, &st.BuyerName, &st.OrderStatus,
		); err != nil {
			return nil, err
		}
		st.Qr = &qr
		st.OrderID = qr.OrderID
		tickets = append(tickets, &st)
	}
	return tickets, rows.Err()
}
