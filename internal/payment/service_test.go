package payment

import (
	"context"
	"testing"
	"time"

	"lokapasar-be/internal/order"
	"lokapasar-be/internal/user"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetReusable(ctx context.Context, orderID uint, cutoff time.Time) (*Payment, error) {
	args := m.Called(ctx, orderID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) CreateOrReuse(ctx context.Context, p *Payment, cutoff time.Time) (*Payment, error) {
	args := m.Called(ctx, p, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByExternalOrderID(ctx context.Context, externalOrderID string) (*Payment, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]*Payment, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Payment), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SnapResponse), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	args := m.Called(orderID, statusCode, grossAmount, signature)
	return args.Bool(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrderTx(ctx context.Context, params order.CreateTxParams) (*order.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetDetail(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]*order.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStore(ctx context.Context, storeID uint) ([]*order.SellerOrder, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.SellerOrder), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uint, from, to order.Status) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, params order.CreateParams) (*order.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetDetail(ctx context.Context, id, callerID uint, callerStoreID *uint) (*order.Order, error) {
	args := m.Called(ctx, id, callerID, callerStoreID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListForBuyer(ctx context.Context, buyerID uint) ([]*order.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) ListForStore(ctx context.Context, storeID uint) ([]*order.SellerOrder, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.SellerOrder), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uint, to order.Status, callerID uint, callerStoreID *uint) (*order.Order, error) {
	args := m.Called(ctx, id, to, callerID, callerStoreID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) MarkPaid(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderService) SetTicketIssuer(issuer order.TicketIssuer) {
	m.Called(issuer)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, params user.RegisterParams, passwordHash string) (*user.User, error) {
	args := m.Called(ctx, params, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

type testDeps struct {
	repo      *MockRepository
	orderRepo *MockOrderRepository
	orderSvc  *MockOrderService
	userRepo  *MockUserRepository
	gateway   *MockGateway
	svc       Service
}

func newTestService() testDeps {
	d := testDeps{
		repo:      new(MockRepository),
		orderRepo: new(MockOrderRepository),
		orderSvc:  new(MockOrderService),
		userRepo:  new(MockUserRepository),
		gateway:   new(MockGateway),
	}
	d.svc = NewService(d.repo, d.orderRepo, d.orderSvc, d.userRepo, d.gateway, "https://lokapasar.example.com/orders")
	return d
}

func pendingOrder() *order.Order {
	return &order.Order{
		ID:              1,
		BuyerID:         10,
		Status:          order.StatusPending,
		Total:           dec("25000"),
		ServiceFee:      dec("1250"),
		BuyerServiceFee: dec("2000"),
		Items: []*order.OrderItem{
			{ID: 1, OrderID: 1, ProductID: 5, StoreID: 3, ProductName: "Kopi Gayo", Price: dec("10000"), Quantity: 2},
			{ID: 2, OrderID: 1, ProductID: 6, StoreID: 3, ProductName: "Teh Melati", Price: dec("5000"), Quantity: 1},
		},
	}
}

func TestService_Initiate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		d := newTestService()

		d.orderRepo.On("GetDetail", ctx, uint(1)).Return(pendingOrder(), nil)
		d.repo.On("GetReusable", ctx, uint(1), mock.AnythingOfType("time.Time")).Return(nil, nil)
		d.userRepo.On("GetByID", ctx, uint(10)).Return(&user.User{ID: 10, Name: "Budi", Email: "budi@example.com"}, nil)

		d.gateway.On("CreateTransaction", ctx, mock.MatchedBy(func(req SnapRequest) bool {
			return req.TransactionDetails.GrossAmount == 27000 &&
				len(req.ItemDetails) == 3 &&
				req.ItemDetails[2].ID == "buyer-service-fee"
		})).Return(&SnapResponse{Token: "snap-token", RedirectURL: "https://pay.example.com/snap-token"}, nil)

		d.repo.On("CreateOrReuse", ctx, mock.MatchedBy(func(p *Payment) bool {
			return p.OrderID == 1 &&
				p.TransactionID == "snap-token" &&
				p.Status == StatusPending &&
				p.GrossAmount.Equal(dec("27000"))
		}), mock.AnythingOfType("time.Time")).
			Return(&Payment{ID: 1, OrderID: 1, TransactionID: "snap-token", Status: StatusPending}, nil)

		p, err := d.svc.Initiate(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "snap-token", p.TransactionID)
		d.gateway.AssertExpectations(t)
	})

	t.Run("Reuses recent pending payment", func(t *testing.T) {
		d := newTestService()

		d.orderRepo.On("GetDetail", ctx, uint(1)).Return(pendingOrder(), nil)
		d.repo.On("GetReusable", ctx, uint(1), mock.AnythingOfType("time.Time")).
			Return(&Payment{ID: 7, OrderID: 1, TransactionID: "old-token", Status: StatusPending}, nil)

		p, err := d.svc.Initiate(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "old-token", p.TransactionID)
		d.gateway.AssertNotCalled(t, "CreateTransaction")
	})

	t.Run("Foreign order", func(t *testing.T) {
		d := newTestService()

		d.orderRepo.On("GetDetail", ctx, uint(1)).Return(pendingOrder(), nil)

		_, err := d.svc.Initiate(ctx, 1, 99)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("Order not pending", func(t *testing.T) {
		d := newTestService()

		o := pendingOrder()
		o.Status = order.StatusPaid
		d.orderRepo.On("GetDetail", ctx, uint(1)).Return(o, nil)

		_, err := d.svc.Initiate(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrOrderNotPending)
	})

	t.Run("Gateway failure writes nothing", func(t *testing.T) {
		d := newTestService()

		d.orderRepo.On("GetDetail", ctx, uint(1)).Return(pendingOrder(), nil)
		d.repo.On("GetReusable", ctx, uint(1), mock.AnythingOfType("time.Time")).Return(nil, nil)
		d.userRepo.On("GetByID", ctx, uint(10)).Return(&user.User{ID: 10, Name: "Budi", Email: "budi@example.com"}, nil)
		d.gateway.On("CreateTransaction", ctx, mock.Anything).Return(nil, assert.AnError)

		_, err := d.svc.Initiate(ctx, 1, 10)
		assert.Error(t, err)
		d.repo.AssertNotCalled(t, "CreateOrReuse")
	})
}

func TestService_HandleNotification(t *testing.T) {
	ctx := context.Background()

	settled := Notification{
		OrderID:           "1_1700000000",
		StatusCode:        "200",
		GrossAmount:       "27000.00",
		TransactionStatus: "settlement",
		SignatureKey:      "sig",
	}

	t.Run("Settlement marks order paid", func(t *testing.T) {
		d := newTestService()

		d.gateway.On("VerifySignature", "1_1700000000", "200", "27000.00", "sig").Return(true)
		d.repo.On("GetByExternalOrderID", ctx, "1_1700000000").
			Return(&Payment{ID: 1, OrderID: 1, Status: StatusPending}, nil)
		d.repo.On("UpdateStatus", ctx, uint(1), StatusSettled).Return(nil)
		d.orderSvc.On("MarkPaid", ctx, uint(1)).Return(nil)

		require.NoError(t, d.svc.HandleNotification(ctx, settled))
		d.orderSvc.AssertExpectations(t)
	})

	t.Run("Duplicate settlement is a no-op", func(t *testing.T) {
		d := newTestService()

		d.gateway.On("VerifySignature", "1_1700000000", "200", "27000.00", "sig").Return(true)
		d.repo.On("GetByExternalOrderID", ctx, "1_1700000000").
			Return(&Payment{ID: 1, OrderID: 1, Status: StatusSettled}, nil)

		require.NoError(t, d.svc.HandleNotification(ctx, settled))
		d.repo.AssertNotCalled(t, "UpdateStatus")
		d.orderSvc.AssertNotCalled(t, "MarkPaid")
	})

	t.Run("Bad signature", func(t *testing.T) {
		d := newTestService()

		d.gateway.On("VerifySignature", "1_1700000000", "200", "27000.00", "sig").Return(false)

		assert.ErrorIs(t, d.svc.HandleNotification(ctx, settled), ErrInvalidSignature)
		d.repo.AssertNotCalled(t, "GetByExternalOrderID")
	})

	t.Run("Expire fails the payment", func(t *testing.T) {
		d := newTestService()

		n := settled
		n.TransactionStatus = "expire"
		d.gateway.On("VerifySignature", "1_1700000000", "200", "27000.00", "sig").Return(true)
		d.repo.On("GetByExternalOrderID", ctx, "1_1700000000").
			Return(&Payment{ID: 1, OrderID: 1, Status: StatusPending}, nil)
		d.repo.On("UpdateStatus", ctx, uint(1), StatusFailed).Return(nil)

		require.NoError(t, d.svc.HandleNotification(ctx, n))
		d.orderSvc.AssertNotCalled(t, "MarkPaid")
	})
}
