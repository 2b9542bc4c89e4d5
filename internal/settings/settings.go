package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	KeyServiceFeePercentage = "service_fee_percentage"
	KeyBuyerServiceFee      = "buyer_service_fee"
)

var ErrSettingNotFound = errors.New("setting not found")

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CheckoutFees is the fee snapshot captured once at the start of checkout so a
// concurrent settings change cannot drift mid-operation.
type CheckoutFees struct {
	ServiceFeePercentage decimal.Decimal
	BuyerServiceFee      decimal.Decimal
}

type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	List(ctx context.Context) ([]*Setting, error)
	Set(ctx context.Context, key, value string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, key string) (*Setting, error) {
	var s Setting
	err := r.db.QueryRowContext(ctx, `
		SELECT key, value, updated_at
		FROM system_settings
		WHERE key = $1
	`, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]*Setting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value, updated_at
		FROM system_settings
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &s)
	}
	return res, rows.Err()
}

func (r *repository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	return err
}

type Service interface {
	CheckoutFees(ctx context.Context) (*CheckoutFees, error)
	List(ctx context.Context) ([]*Setting, error)
	Update(ctx context.Context, key, value string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

var ErrInvalidSetting = errors.New("invalid setting value")

// CheckoutFees reads both fee settings once. Missing keys default to zero.
func (s *service) CheckoutFees(ctx context.Context) (*CheckoutFees, error) {
	pct, err := s.decimalValue(ctx, KeyServiceFeePercentage)
	if err != nil {
		return nil, err
	}

	flat, err := s.decimalValue(ctx, KeyBuyerServiceFee)
	if err != nil {
		return nil, err
	}

	return &CheckoutFees{
		ServiceFeePercentage: pct,
		BuyerServiceFee:      flat,
	}, nil
}

func (s *service) decimalValue(ctx context.Context, key string) (decimal.Decimal, error) {
	setting, err := s.repo.Get(ctx, key)
	if errors.Is(err, ErrSettingNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}

	d, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return decimal.Zero, ErrInvalidSetting
	}
	return d, nil
}

func (s *service) List(ctx context.Context) ([]*Setting, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, key, value string) error {
	if key != KeyServiceFeePercentage && key != KeyBuyerServiceFee {
		return ErrSettingNotFound
	}
	if _, err := decimal.NewFromString(value); err != nil {
		return ErrInvalidSetting
	}
	return s.repo.Set(ctx, key, value)
}
