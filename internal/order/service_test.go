package order

import (
	"context"
	"testing"

	"lokapasar-be/internal/address"
	"lokapasar-be/internal/cart"
	"lokapasar-be/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, params CreateTxParams) (*Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetDetail(ctx context.Context, id uint) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]*Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListByStore(ctx context.Context, storeID uint) ([]*SellerOrder, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*SellerOrder), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uint, from, to Status) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetOrCreateCart(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) GetItem(ctx context.Context, cartID, productID uint) (*cart.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) CreateItem(ctx context.Context, cartID, productID uint, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, cartID, productID uint, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, cartID, productID uint) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, cartID uint) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCartRepository) GetLines(ctx context.Context, cartID uint) ([]*cart.CartLine, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartLine), args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, userID uint, params address.Params) (*address.Address, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressRepository) GetByUserID(ctx context.Context, userID uint) ([]*address.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*address.Address), args.Error(1)
}

func (m *MockAddressRepository) GetOwned(ctx context.Context, id, userID uint) (*address.Address, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressRepository) Update(ctx context.Context, id, userID uint, params address.Params) (*address.Address, error) {
	args := m.Called(ctx, id, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) CheckoutFees(ctx context.Context) (*settings.CheckoutFees, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.CheckoutFees), args.Error(1)
}

func (m *MockSettingsService) List(ctx context.Context) ([]*settings.Setting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settings.Setting), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockTicketIssuer struct {
	mock.Mock
}

func (m *MockTicketIssuer) IssueForOrder(ctx context.Context, orderID uint) {
	m.Called(ctx, orderID)
}

func newTestService() (*MockRepository, *MockCartRepository, *MockAddressRepository, *MockSettingsService, Service) {
	repo := new(MockRepository)
	cartRepo := new(MockCartRepository)
	addrRepo := new(MockAddressRepository)
	settingsSvc := new(MockSettingsService)
	svc := NewService(repo, cartRepo, addrRepo, settingsSvc)
	return repo, cartRepo, addrRepo, settingsSvc, svc
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	fees := &settings.CheckoutFees{
		ServiceFeePercentage: dec("5"),
		BuyerServiceFee:      dec("2000"),
	}

	t.Run("Success", func(t *testing.T) {
		repo, cartRepo, addrRepo, settingsSvc, svc := newTestService()

		settingsSvc.On("CheckoutFees", ctx).Return(fees, nil)
		addrRepo.On("GetOwned", ctx, uint(4), uint(10)).Return(&address.Address{ID: 4, UserID: 10}, nil)
		cartRepo.On("GetOrCreateCart", ctx, uint(10)).Return(&cart.Cart{ID: 1, UserID: 10}, nil)
		cartRepo.On("GetLines", ctx, uint(1)).Return([]*cart.CartLine{
			{ProductID: 5, Quantity: 2},
			{ProductID: 6, Quantity: 1},
		}, nil)

		repo.On("CreateOrderTx", ctx, CreateTxParams{
			BuyerID:   10,
			AddressID: 4,
			Items: []RequestedItem{
				{ProductID: 5, Quantity: 2},
				{ProductID: 6, Quantity: 1},
			},
			ServiceFeePct:   fees.ServiceFeePercentage,
			BuyerServiceFee: fees.BuyerServiceFee,
		}).Return(&Order{ID: 1, BuyerID: 10, Status: StatusPending, Total: dec("25000")}, nil)

		o, err := svc.Create(ctx, CreateParams{BuyerID: 10, AddressID: 4})
		require.NoError(t, err)
		assert.Equal(t, uint(1), o.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Foreign address", func(t *testing.T) {
		repo, _, addrRepo, settingsSvc, svc := newTestService()

		settingsSvc.On("CheckoutFees", ctx).Return(fees, nil)
		addrRepo.On("GetOwned", ctx, uint(4), uint(10)).Return(nil, address.ErrAddressNotFound)

		_, err := svc.Create(ctx, CreateParams{BuyerID: 10, AddressID: 4})
		assert.ErrorIs(t, err, address.ErrAddressNotFound)
		repo.AssertNotCalled(t, "CreateOrderTx")
	})

	t.Run("Empty cart", func(t *testing.T) {
		repo, cartRepo, addrRepo, settingsSvc, svc := newTestService()

		settingsSvc.On("CheckoutFees", ctx).Return(fees, nil)
		addrRepo.On("GetOwned", ctx, uint(4), uint(10)).Return(&address.Address{ID: 4, UserID: 10}, nil)
		cartRepo.On("GetOrCreateCart", ctx, uint(10)).Return(&cart.Cart{ID: 1, UserID: 10}, nil)
		cartRepo.On("GetLines", ctx, uint(1)).Return(nil, nil)

		_, err := svc.Create(ctx, CreateParams{BuyerID: 10, AddressID: 4})
		assert.ErrorIs(t, err, ErrEmptyCart)
		repo.AssertNotCalled(t, "CreateOrderTx")
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	pendingOrder := func() *Order {
		return &Order{
			ID:      1,
			BuyerID: 10,
			Status:  StatusPending,
			Items: []*OrderItem{
				{ID: 1, OrderID: 1, ProductID: 5, StoreID: 3, Quantity: 2},
			},
		}
	}

	t.Run("Buyer cancels pending order", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()

		repo.On("GetDetail", ctx, uint(1)).Return(pendingOrder(), nil)
		repo.On("UpdateStatus", ctx, uint(1), StatusPending, StatusCancelled).Return(nil)

		o, err := svc.UpdateStatus(ctx, 1, StatusCancelled, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("Seller ships paid order", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()

		o := pendingOrder()
		o.Status = StatusPaid
		repo.On("GetDetail", ctx, uint(1)).Return(o, nil)
		repo.On("UpdateStatus", ctx, uint(1), StatusPaid, StatusShipped).Return(nil)

		storeID := uint(3)
		got, err := svc.UpdateStatus(ctx, 1, StatusShipped, 99, &storeID)
		require.NoError(t, err)
		assert.Equal(t, StatusShipped, got.Status)
	})

	t.Run("Stranger gets not found", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()

		repo.On("GetDetail", ctx, uint(1)).Return(pendingOrder(), nil)

		otherStore := uint(77)
		_, err := svc.UpdateStatus(ctx, 1, StatusCancelled, 99, &otherStore)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		repo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Illegal transition", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()

		o := pendingOrder()
		o.Status = StatusCompleted
		repo.On("GetDetail", ctx, uint(1)).Return(o, nil)

		_, err := svc.UpdateStatus(ctx, 1, StatusShipped, 10, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Unknown status", func(t *testing.T) {
		_, _, _, _, svc := newTestService()

		_, err := svc.UpdateStatus(ctx, 1, Status("teleported"), 10, nil)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Paid fires ticket issuance", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		issuer := new(MockTicketIssuer)
		svc.SetTicketIssuer(issuer)

		repo.On("GetDetail", ctx, uint(1)).Return(pendingOrder(), nil)
		repo.On("UpdateStatus", ctx, uint(1), StatusPending, StatusPaid).Return(nil)
		issuer.On("IssueForOrder", ctx, uint(1)).Return()

		_, err := svc.UpdateStatus(ctx, 1, StatusPaid, 10, nil)
		require.NoError(t, err)
		issuer.AssertExpectations(t)
	})
}

func TestService_MarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending order settles", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		issuer := new(MockTicketIssuer)
		svc.SetTicketIssuer(issuer)

		repo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, Status: StatusPending}, nil)
		repo.On("UpdateStatus", ctx, uint(1), StatusPending, StatusPaid).Return(nil)
		issuer.On("IssueForOrder", ctx, uint(1)).Return()

		require.NoError(t, svc.MarkPaid(ctx, 1))
		issuer.AssertExpectations(t)
	})

	t.Run("Already paid is a no-op", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		issuer := new(MockTicketIssuer)
		svc.SetTicketIssuer(issuer)

		repo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, Status: StatusPaid}, nil)

		require.NoError(t, svc.MarkPaid(ctx, 1))
		repo.AssertNotCalled(t, "UpdateStatus")
		issuer.AssertNotCalled(t, "IssueForOrder")
	})

	t.Run("Cancelled order cannot settle", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()

		repo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, Status: StatusCancelled}, nil)

		assert.ErrorIs(t, svc.MarkPaid(ctx, 1), ErrInvalidTransition)
	})
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPaid, StatusShipped, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusPending, false},
		{StatusShipped, StatusCompleted, true},
		{StatusShipped, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPaid, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
