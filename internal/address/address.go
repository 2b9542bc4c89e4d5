package address

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"lokapasar-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressInUse    = errors.New("address is referenced by an order")
	ErrInvalidInput    = errors.New("invalid address input")
)

// pgForeignKeyViolation fires on delete because orders reference addresses
// with ON DELETE RESTRICT.
const pgForeignKeyViolation = "23503"

type Address struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"userId"`
	ReceiverName string    `json:"receiverName"`
	Phone        string    `json:"phone"`
	AddressLine  string    `json:"addressLine"`
	City         string    `json:"city"`
	Province     string    `json:"province"`
	PostalCode   string    `json:"postalCode"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Params struct {
	ReceiverName string
	Phone        string
	AddressLine  string
	City         string
	Province     string
	PostalCode   string
	IsDefault    bool
}

type Repository interface {
	Create(ctx context.Context, userID uint, params Params) (*Address, error)
	GetByUserID(ctx context.Context, userID uint) ([]*Address, error)
	GetOwned(ctx context.Context, id, userID uint) (*Address, error)
	Update(ctx context.Context, id, userID uint, params Params) (*Address, error)
	Delete(ctx context.Context, id, userID uint) error
	ClearDefault(ctx context.Context, userID uint) error
	SetDefault(ctx context.Context, id, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const addressColumns = "id, user_id, receiver_name, phone, address_line, city, province, postal_code, is_default, created_at, updated_at"

func scanAddress(scanner interface{ Scan(dest ...any) error }) (*Address, error) {
	var a Address
	err := scanner.Scan(
		&a.ID, &a.UserID, &a.ReceiverName, &a.Phone, &a.AddressLine,
		&a.City, &a.Province, &a.PostalCode, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, userID uint, params Params) (*Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, `
		INSERT INTO addresses (user_id, receiver_name, phone, address_line, city, province, postal_code, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+addressColumns,
		userID, params.ReceiverName, params.Phone, params.AddressLine,
		params.City, params.Province, params.PostalCode, params.IsDefault,
	))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create address", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) ([]*Address, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// GetOwned returns the address only when it belongs to userID.
func (r *repository) GetOwned(ctx context.Context, id, userID uint) (*Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	return a, err
}

func (r *repository) Update(ctx context.Context, id, userID uint, params Params) (*Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, `
		UPDATE addresses
		SET receiver_name = $1, phone = $2, address_line = $3,
		    city = $4, province = $5, postal_code = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING `+addressColumns,
		params.ReceiverName, params.Phone, params.AddressLine,
		params.City, params.Province, params.PostalCode, id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	return a, err
}

func (r *repository) Delete(ctx context.Context, id, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM addresses WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation {
			return ErrAddressInUse
		}
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default
	`, userID)
	return err
}

func (r *repository) SetDefault(ctx context.Context, id, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

type Service interface {
	Create(ctx context.Context, userID uint, params Params) (*Address, error)
	List(ctx context.Context, userID uint) ([]*Address, error)
	Update(ctx context.Context, id, userID uint, params Params) (*Address, error)
	Delete(ctx context.Context, id, userID uint) error
	SetDefault(ctx context.Context, id, userID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(params Params) error {
	if strings.TrimSpace(params.ReceiverName) == "" ||
		strings.TrimSpace(params.AddressLine) == "" ||
		strings.TrimSpace(params.City) == "" {
		return ErrInvalidInput
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID uint, params Params) (*Address, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	if params.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}

	return s.repo.Create(ctx, userID, params)
}

func (s *service) List(ctx context.Context, userID uint) ([]*Address, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) Update(ctx context.Context, id, userID uint, params Params) (*Address, error) {
	if err := validate(params); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, userID, params)
}

func (s *service) Delete(ctx context.Context, id, userID uint) error {
	return s.repo.Delete(ctx, id, userID)
}

// SetDefault makes the address the user's default, clearing any previous one.
func (s *service) SetDefault(ctx context.Context, id, userID uint) error {
	if _, err := s.repo.GetOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.ClearDefault(ctx, userID); err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, id, userID)
}
