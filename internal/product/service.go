package product

import (
	"context"
	"strings"
)

type Service interface {
	Create(ctx context.Context, storeID uint, params CreateParams) (*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetPublicByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Update(ctx context.Context, storeID, productID uint, params UpdateParams) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, storeID uint, params CreateParams) (*Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, ErrInvalidInput
	}
	if params.Price.IsNegative() {
		return nil, ErrInvalidInput
	}
	if params.Stock < 0 {
		return nil, ErrInvalidInput
	}
	if params.Type != nil && *params.Type != TypeTicket {
		return nil, ErrInvalidInput
	}

	return s.repo.Create(ctx, storeID, params)
}

func (s *service) GetByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPublicByID hides inactive products from the public catalog.
func (s *service) GetPublicByID(ctx context.Context, id uint) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusActive {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}
	return s.repo.List(ctx, opts)
}

// Update modifies a product after verifying it belongs to the caller's store.
func (s *service) Update(ctx context.Context, storeID, productID uint, params UpdateParams) (*Product, error) {
	existing, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if existing.StoreID != storeID {
		return nil, ErrNotOwner
	}

	if params.Status != nil && *params.Status != StatusActive && *params.Status != StatusInactive {
		return nil, ErrInvalidStatus
	}
	if params.Price != nil && params.Price.IsNegative() {
		return nil, ErrInvalidInput
	}
	if params.Stock != nil && *params.Stock < 0 {
		return nil, ErrInvalidInput
	}

	return s.repo.Update(ctx, productID, params)
}
