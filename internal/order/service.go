package order

import (
	"context"
	"errors"

	"lokapasar-be/internal/address"
	"lokapasar-be/internal/cart"
	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/settings"

	"go.uber.org/zap"
)

// TicketIssuer is notified when an order turns paid. Issuance is
// best-effort: implementations must not fail the status update.
type TicketIssuer interface {
	IssueForOrder(ctx context.Context, orderID uint)
}

type Service interface {
	Create(ctx context.Context, params CreateParams) (*Order, error)
	GetDetail(ctx context.Context, id, callerID uint, callerStoreID *uint) (*Order, error)
	ListForBuyer(ctx context.Context, buyerID uint) ([]*Order, error)
	ListForStore(ctx context.Context, storeID uint) ([]*SellerOrder, error)
	UpdateStatus(ctx context.Context, id uint, to Status, callerID uint, callerStoreID *uint) (*Order, error)
	MarkPaid(ctx context.Context, id uint) error
	SetTicketIssuer(issuer TicketIssuer)
}

type service struct {
	repo        Repository
	cartRepo    cart.Repository
	addressRepo address.Repository
	settings    settings.Service
	issuer      TicketIssuer
}

func NewService(
	repo Repository,
	cartRepo cart.Repository,
	addressRepo address.Repository,
	settingsSvc settings.Service,
) Service {
	return &service{
		repo:        repo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		settings:    settingsSvc,
	}
}

// SetTicketIssuer wires ticket issuance after construction. The order and
// ticket services reference each other, so one side is attached late.
func (s *service) SetTicketIssuer(issuer TicketIssuer) {
	s.issuer = issuer
}

// Create turns the buyer's cart into a pending order. Fees are read once
// before the transaction so a concurrent fee change cannot split the order.
func (s *service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	fees, err := s.settings.CheckoutFees(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.addressRepo.GetOwned(ctx, params.AddressID, params.BuyerID); err != nil {
		return nil, err
	}

	c, err := s.cartRepo.GetOrCreateCart(ctx, params.BuyerID)
	if err != nil {
		return nil, err
	}
	lines, err := s.cartRepo.GetLines(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]RequestedItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, RequestedItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	return s.repo.CreateOrderTx(ctx, CreateTxParams{
		BuyerID:         params.BuyerID,
		AddressID:       params.AddressID,
		Items:           items,
		ServiceFeePct:   fees.ServiceFeePercentage,
		BuyerServiceFee: fees.BuyerServiceFee,
	})
}

func (s *service) GetDetail(ctx context.Context, id, callerID uint, callerStoreID *uint) (*Order, error) {
	o, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(o, callerID, callerStoreID) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uint) ([]*Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *service) ListForStore(ctx context.Context, storeID uint) ([]*SellerOrder, error) {
	return s.repo.ListByStore(ctx, storeID)
}

// UpdateStatus applies one step of the status machine. Callers outside the
// order (neither buyer nor a seller with an item in it) get not-found, the
// same answer as for an order that does not exist.
func (s *service) UpdateStatus(ctx context.Context, id uint, to Status, callerID uint, callerStoreID *uint) (*Order, error) {
	if !ValidStatus(to) {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(o, callerID, callerStoreID) {
		return nil, ErrOrderNotFound
	}

	if !CanTransition(o.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, o.Status, to); err != nil {
		return nil, err
	}
	o.Status = to

	if to == StatusPaid {
		s.notifyPaid(ctx, o.ID)
	}
	return o, nil
}

// MarkPaid is the payment notification path. It is idempotent: an order that
// is already paid is left alone.
func (s *service) MarkPaid(ctx context.Context, id uint) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status == StatusPaid {
		return nil
	}
	if !CanTransition(o.Status, StatusPaid) {
		return ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, o.Status, StatusPaid); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			// Lost the race to another settlement of the same order.
			return nil
		}
		return err
	}

	s.notifyPaid(ctx, id)
	return nil
}

func (s *service) notifyPaid(ctx context.Context, orderID uint) {
	if s.issuer == nil {
		logger.FromCtx(ctx).Warn("no ticket issuer wired, skipping issuance",
			zap.Uint("order_id", orderID),
		)
		return
	}
	s.issuer.IssueForOrder(ctx, orderID)
}

func canAccess(o *Order, callerID uint, callerStoreID *uint) bool {
	if o.BuyerID == callerID {
		return true
	}
	if callerStoreID == nil {
		return false
	}
	for _, item := range o.Items {
		if item.StoreID == *callerStoreID {
			return true
		}
	}
	return false
}
