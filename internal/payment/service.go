package payment

import (
	"context"
	"fmt"
	"time"

	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/order"
	"lokapasar-be/internal/user"
	"lokapasar-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Initiate(ctx context.Context, orderID, buyerID uint) (*Payment, error)
	ListForBuyer(ctx context.Context, buyerID uint) ([]*Payment, error)
	HandleNotification(ctx context.Context, n Notification) error
}

type service struct {
	repo      Repository
	orderRepo order.Repository
	orderSvc  order.Service
	userRepo  user.Repository
	gateway   Gateway
	finishURL string
}

func NewService(
	repo Repository,
	orderRepo order.Repository,
	orderSvc order.Service,
	userRepo user.Repository,
	gateway Gateway,
	finishURL string,
) Service {
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		orderSvc:  orderSvc,
		userRepo:  userRepo,
		gateway:   gateway,
		finishURL: finishURL,
	}
}

// Initiate opens a hosted-checkout transaction for a pending order. A
// pending payment younger than 24 hours is handed back instead of opening a
// second gateway transaction for the same order.
func (s *service) Initiate(ctx context.Context, orderID, buyerID uint) (*Payment, error) {
	o, err := s.orderRepo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != buyerID {
		return nil, order.ErrOrderNotFound
	}
	if o.Status != order.StatusPending {
		return nil, ErrOrderNotPending
	}

	cutoff := time.Now().Add(-reuseWindow)
	if existing, err := s.repo.GetReusable(ctx, orderID, cutoff); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	buyer, err := s.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	// The gateway only takes whole rupiah.
	gross := o.Total.Add(o.BuyerServiceFee).Round(0)

	items := make([]ItemDetail, 0, len(o.Items)+1)
	for _, item := range o.Items {
		items = append(items, ItemDetail{
			ID:       fmt.Sprintf("%d", item.ProductID),
			Name:     item.ProductName,
			Price:    item.Price.Round(0).IntPart(),
			Quantity: item.Quantity,
		})
	}
	if o.BuyerServiceFee.IsPositive() {
		items = append(items, ItemDetail{
			ID:       "buyer-service-fee",
			Name:     "Biaya Layanan",
			Price:    o.BuyerServiceFee.Round(0).IntPart(),
			Quantity: 1,
		})
	}

	externalOrderID := utils.ExternalOrderID(o.ID)
	res, err := s.gateway.CreateTransaction(ctx, SnapRequest{
		TransactionDetails: TransactionDetails{
			OrderID:     externalOrderID,
			GrossAmount: gross.IntPart(),
		},
		CustomerDetails: CustomerDetails{
			FirstName: buyer.Name,
			Email:     buyer.Email,
		},
		ItemDetails: items,
		Callbacks: Callbacks{
			Finish: s.finishURL,
		},
	})
	if err != nil {
		return nil, err
	}

	return s.repo.CreateOrReuse(ctx, &Payment{
		OrderID:         o.ID,
		TransactionID:   res.Token,
		ExternalOrderID: externalOrderID,
		RedirectURL:     res.RedirectURL,
		GrossAmount:     gross,
		Status:          StatusPending,
	}, cutoff)
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uint) ([]*Payment, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

// HandleNotification processes the gateway's status callback. Duplicate
// notifications for a payment already in its final status are no-ops.
func (s *service) HandleNotification(ctx context.Context, n Notification) error {
	log := logger.FromCtx(ctx).With(
		zap.String("external_order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
	)

	if !s.gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		log.Warn("rejected notification with bad signature")
		return ErrInvalidSignature
	}

	p, err := s.repo.GetByExternalOrderID(ctx, n.OrderID)
	if err != nil {
		return err
	}

	switch n.TransactionStatus {
	case "settlement", "capture":
		if p.Status == StatusSettled {
			return nil
		}
		if err := s.repo.UpdateStatus(ctx, p.ID, StatusSettled); err != nil {
			return err
		}
		if err := s.orderSvc.MarkPaid(ctx, p.OrderID); err != nil {
			return err
		}
		log.Info("payment settled", zap.Uint("order_id", p.OrderID))
	case "expire", "cancel", "deny":
		if p.Status == StatusFailed {
			return nil
		}
		if err := s.repo.UpdateStatus(ctx, p.ID, StatusFailed); err != nil {
			return err
		}
		log.Info("payment failed", zap.Uint("order_id", p.OrderID))
	default:
		log.Info("ignoring notification status")
	}
	return nil
}
