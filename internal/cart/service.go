package cart

import (
	"context"
	"errors"

	"lokapasar-be/internal/product"

	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

type Service interface {
	Add(ctx context.Context, params AddParams) (*CartItem, error)
	Get(ctx context.Context, userID uint) (*CartView, error)
	UpdateQuantity(ctx context.Context, params UpdateParams) error
	Remove(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// Add puts a product into the user's cart, merging quantities when the
// product is already there. The cart never reserves stock.
func (s *service) Add(ctx context.Context, params AddParams) (*CartItem, error) {
	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if p.Status != product.StatusActive {
		return nil, ErrProductNotFound
	}

	c, err := s.repo.GetOrCreateCart(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetItem(ctx, c.ID, params.ProductID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return s.repo.CreateItem(ctx, c.ID, params.ProductID, params.Quantity)
	}

	merged := existing.Quantity + params.Quantity
	if err := s.repo.UpdateItemQuantity(ctx, c.ID, params.ProductID, merged); err != nil {
		return nil, err
	}
	existing.Quantity = merged
	return existing, nil
}

func (s *service) Get(ctx context.Context, userID uint) (*CartView, error) {
	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	count := 0
	for _, l := range lines {
		total = total.Add(l.Subtotal)
		count += l.Quantity
	}

	if lines == nil {
		lines = []*CartLine{}
	}

	return &CartView{
		Items:     lines,
		ItemCount: count,
		Total:     total.StringFixed(2),
	}, nil
}

// UpdateQuantity sets the quantity of a cart line; zero or below removes it.
func (s *service) UpdateQuantity(ctx context.Context, params UpdateParams) error {
	c, err := s.repo.GetOrCreateCart(ctx, params.UserID)
	if err != nil {
		return err
	}

	if params.Quantity <= 0 {
		return s.repo.RemoveItem(ctx, c.ID, params.ProductID)
	}

	return s.repo.UpdateItemQuantity(ctx, c.ID, params.ProductID, params.Quantity)
}

func (s *service) Remove(ctx context.Context, userID, productID uint) error {
	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveItem(ctx, c.ID, productID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, c.ID)
}
