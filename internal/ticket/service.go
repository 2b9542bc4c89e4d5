package ticket

import "context"

// Service exposes ticket views. Issuance lives on Issuer.
type Service interface {
	ListForStore(ctx context.Context, storeID uint) ([]*StoreTicket, error)
	ListForOrderItem(ctx context.Context, orderItemID uint) ([]*TicketQr, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForStore(ctx context.Context, storeID uint) ([]*StoreTicket, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *service) ListForOrderItem(ctx context.Context, orderItemID uint) ([]*TicketQr, error) {
	return s.repo.ListByOrderItem(ctx, orderItemID)
}
