package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lokapasar-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// GetReusable returns the order's pending payment created after cutoff,
	// or nil when there is none.
	GetReusable(ctx context.Context, orderID uint, cutoff time.Time) (*Payment, error)
	// CreateOrReuse re-checks for a reusable payment inside a transaction
	// and inserts p only when none appeared. The returned payment is the
	// row that won.
	CreateOrReuse(ctx context.Context, p *Payment, cutoff time.Time) (*Payment, error)
	GetByExternalOrderID(ctx context.Context, externalOrderID string) (*Payment, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]*Payment, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const paymentColumns = "id, order_id, transaction_id, external_order_id, redirect_url, gross_amount, status, created_at, updated_at"

func scanPayment(scanner interface {
	Scan(dest ...any) error
}) (*Payment, error) {
	var p Payment
	err := scanner.Scan(
		&p.ID, &p.OrderID, &p.TransactionID, &p.ExternalOrderID,
		&p.RedirectURL, &p.GrossAmount, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetReusable(ctx context.Context, orderID uint, cutoff time.Time) (*Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE order_id = $1 AND status = $2 AND created_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID, StatusPending, cutoff))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *repository) CreateOrReuse(ctx context.Context, p *Payment, cutoff time.Time) (*Payment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreatePayment"),
		zap.Uint("order_id", p.OrderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := scanPayment(tx.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE order_id = $1 AND status = $2 AND created_at > $3
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, p.OrderID, StatusPending, cutoff))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		// A concurrent initiation got there first; hand back its row.
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		log.Info("reusing concurrent pending payment", zap.Uint("payment_id", existing.ID))
		return existing, nil
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, transaction_id, external_order_id, redirect_url, gross_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		p.OrderID, p.TransactionID, p.ExternalOrderID,
		p.RedirectURL, p.GrossAmount, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("payment created",
		zap.Uint("payment_id", p.ID),
		zap.String("external_order_id", p.ExternalOrderID),
	)
	return p, nil
}

func (r *repository) GetByExternalOrderID(ctx context.Context, externalOrderID string) (*Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE external_order_id = $1
	`, externalOrderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uint) ([]*Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.order_id, p.transaction_id, p.external_order_id,
			p.redirect_url, p.gross_amount, p.status, p.created_at, p.updated_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE o.buyer_id = $1
		ORDER BY p.created_at DESC
	`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
