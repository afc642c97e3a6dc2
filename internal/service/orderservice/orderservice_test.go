package orderservice

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

const (
	userID     = "6f1c1c1e-8a8e-4c39-9d4b-0c1f5b1a2e11"
	orderID    = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	productID  = "0b7c2a54-1d7e-4a8f-b3c4-5d6e7f809a1b"
	productID2 = "1c8d3b65-2e8f-4b90-c4d5-6e7f8091ab2c"
)

type mocks struct {
	users    *MockUserRepo
	products *MockProductRepo
	orders   *MockOrderRepo
	notifier *MockNotifier
	cache    *MockCache
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		users:    NewMockUserRepo(ctrl),
		products: NewMockProductRepo(ctrl),
		orders:   NewMockOrderRepo(ctrl),
		notifier: NewMockNotifier(ctrl),
		cache:    NewMockCache(ctrl),
	}
	service := New(m.users, m.products, m.orders, m.notifier, m.cache)
	return service, m
}

func storedOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:     orderID,
		UserID: userID,
		Total:  1300,
		Status: status,
		Items: []domain.OrderItem{
			{ID: "i1", OrderID: orderID, ProductID: productID, Quantity: 2, PriceAtPurchase: 500},
			{ID: "i2", OrderID: orderID, ProductID: productID2, Quantity: 1, PriceAtPurchase: 300},
		},
	}
}

func returnSaved(_ context.Context, order *domain.Order) (*domain.Order, error) {
	order.ID = orderID
	return order, nil
}

func returnUpdated(_ context.Context, order *domain.Order, _ domain.OrderStatus) (*domain.Order, error) {
	return order, nil
}

func TestCreateOrder(t *testing.T) {
	twoItems := []domain.ItemRequest{
		{ProductID: productID, Quantity: 2},
		{ProductID: productID2, Quantity: 1},
	}

	tests := []struct {
		name          string
		items         []domain.ItemRequest
		prepareMock   func(m *mocks)
		expectedTotal int64
		expectedError error
	}{
		{
			name:  "Order created with price snapshot",
			items: twoItems,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID, Balance: 0}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(&domain.Product{ID: productID, Price: 500, Stock: 10}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID2).Return(&domain.Product{ID: productID2, Price: 300, Stock: 1}, nil)
				m.orders.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(returnSaved)
				m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			expectedTotal: 1300,
		},
		{
			name:  "Cache write failure does not fail the request",
			items: twoItems[:1],
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(&domain.Product{ID: productID, Price: 500, Stock: 10}, nil)
				m.orders.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(returnSaved)
				m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			expectedTotal: 1000,
		},
		{
			name:          "No items",
			items:         nil,
			prepareMock:   func(m *mocks) {},
			expectedError: domain.ErrInvalidRequest,
		},
		{
			name:  "Zero quantity",
			items: []domain.ItemRequest{{ProductID: productID, Quantity: 0}},
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
			},
			expectedError: domain.ErrInvalidRequest,
		},
		{
			name:  "User not found",
			items: twoItems,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(nil, domain.ErrUserNotFound)
			},
			expectedError: domain.ErrUserNotFound,
		},
		{
			name:  "Product not found",
			items: twoItems,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(nil, domain.ErrProductNotFound)
			},
			expectedError: domain.ErrProductNotFound,
		},
		{
			name:  "Insufficient stock",
			items: twoItems,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(&domain.Product{ID: productID, Price: 500, Stock: 1}, nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name:  "Line total overflows",
			items: []domain.ItemRequest{{ProductID: productID, Quantity: 2}},
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(&domain.Product{ID: productID, Price: math.MaxInt64/2 + 1, Stock: 10}, nil)
			},
			expectedError: domain.ErrInvalidRequest,
		},
		{
			name:  "Order total overflows",
			items: twoItems,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(&domain.Product{ID: productID, Price: math.MaxInt64 / 2, Stock: 10}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID2).Return(&domain.Product{ID: productID2, Price: 2, Stock: 10}, nil)
			},
			expectedError: domain.ErrInvalidRequest,
		},
		{
			name:  "Largest representable total",
			items: []domain.ItemRequest{{ProductID: productID, Quantity: 1}},
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(&domain.Product{ID: productID, Price: math.MaxInt64, Stock: 1}, nil)
				m.orders.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(returnSaved)
				m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			expectedTotal: math.MaxInt64,
		},
		{
			name:  "Store failure",
			items: twoItems[:1],
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.products.EXPECT().FindByID(gomock.Any(), productID).Return(&domain.Product{ID: productID, Price: 500, Stock: 10}, nil)
				m.orders.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			order, err := service.CreateOrder(context.Background(), userID, tt.items)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderID, order.ID)
			assert.Equal(t, domain.StatusCreated, order.Status)
			assert.Equal(t, tt.expectedTotal, order.Total)

			var sum int64
			for i, item := range order.Items {
				assert.Equal(t, tt.items[i].ProductID, item.ProductID)
				assert.Equal(t, tt.items[i].Quantity, item.Quantity)
				sum += item.Quantity * item.PriceAtPurchase
			}
			assert.Equal(t, order.Total, sum)
		})
	}
}

func TestGetOrder(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(m *mocks)
		expectedError error
	}{
		{
			name: "Served from cache",
			prepareMock: func(m *mocks) {
				m.cache.EXPECT().Get(gomock.Any(), orderID).Return(storedOrder(domain.StatusPaid), nil)
			},
		},
		{
			name: "Cache miss loads from store",
			prepareMock: func(m *mocks) {
				m.cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, nil)
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusPaid), nil)
				m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "Cache error falls through to store",
			prepareMock: func(m *mocks) {
				m.cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, errors.New("redis down"))
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusPaid), nil)
				m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
		},
		{
			name: "Order not found",
			prepareMock: func(m *mocks) {
				m.cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, nil)
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(nil, domain.ErrOrderNotFound)
			},
			expectedError: domain.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			order, err := service.GetOrder(context.Background(), orderID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, storedOrder(domain.StatusPaid), order)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		status         domain.OrderStatus
		prepareMock    func(m *mocks)
		expectedStatus domain.OrderStatus
		expectedError  error
		expectedMsg    string
	}{
		{
			name:   "Pay order settles balance and stock",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
				gomock.InOrder(
					m.users.EXPECT().ConditionalDebit(gomock.Any(), userID, int64(1300)).Return(true, nil),
					m.products.EXPECT().ConditionalReserve(gomock.Any(), productID, int64(2)).Return(true, nil),
					m.products.EXPECT().ConditionalReserve(gomock.Any(), productID2, int64(1)).Return(true, nil),
					m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), domain.StatusCreated).DoAndReturn(returnUpdated),
				)
				m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			expectedStatus: domain.StatusPaid,
		},
		{
			name:   "Ship order changes status only",
			status: domain.StatusShipped,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusPaid), nil)
				m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), domain.StatusPaid).DoAndReturn(returnUpdated)
				m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			expectedStatus: domain.StatusShipped,
		},
		{
			name:   "Skip from created to shipped",
			status: domain.StatusShipped,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
			},
			expectedError: domain.ErrInvalidRequest,
			expectedMsg:   "cannot transition from created to shipped",
		},
		{
			name:   "Pay twice",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusPaid), nil)
			},
			expectedError: domain.ErrInvalidRequest,
			expectedMsg:   "cannot transition from paid to paid",
		},
		{
			name:   "Backward from shipped",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusShipped), nil)
			},
			expectedError: domain.ErrInvalidRequest,
			expectedMsg:   "cannot transition from shipped to paid",
		},
		{
			name:   "Unknown status",
			status: domain.OrderStatus("cancelled"),
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
			},
			expectedError: domain.ErrInvalidRequest,
			expectedMsg:   "cannot transition from created to cancelled",
		},
		{
			name:   "Order not found",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(nil, domain.ErrOrderNotFound)
			},
			expectedError: domain.ErrOrderNotFound,
		},
		{
			name:   "Insufficient balance touches no stock",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
				m.users.EXPECT().ConditionalDebit(gomock.Any(), userID, int64(1300)).Return(false, nil)
			},
			expectedError: domain.ErrInsufficientBalance,
		},
		{
			name:   "Insufficient stock stops at first failing item",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
				m.users.EXPECT().ConditionalDebit(gomock.Any(), userID, int64(1300)).Return(true, nil)
				m.products.EXPECT().ConditionalReserve(gomock.Any(), productID, int64(2)).Return(false, nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name:   "Debit store error",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
				m.users.EXPECT().ConditionalDebit(gomock.Any(), userID, int64(1300)).Return(false, assert.AnError)
			},
			expectedError: assert.AnError,
		},
		{
			name:   "Reserve store error",
			status: domain.StatusPaid,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
				m.users.EXPECT().ConditionalDebit(gomock.Any(), userID, int64(1300)).Return(true, nil)
				m.products.EXPECT().ConditionalReserve(gomock.Any(), productID, int64(2)).Return(false, assert.AnError)
			},
			expectedError: assert.AnError,
		},
		{
			name:   "Status changed concurrently",
			status: domain.StatusShipped,
			prepareMock: func(m *mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusPaid), nil)
				m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), domain.StatusPaid).Return(nil, domain.ErrStatusConflict)
			},
			expectedError: domain.ErrStatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			order, err := service.UpdateStatus(context.Background(), orderID, tt.status)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.expectedMsg != "" {
					assert.EqualError(t, err, tt.expectedMsg)
				}
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, order.Status)
			assert.Equal(t, int64(1300), order.Total)
		})
	}
}

func TestGetOrder_SharedLoadSurvivesFirstCallerCancel(t *testing.T) {
	service, m := NewMock(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	m.cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, nil).Times(2)
	m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).
		DoAndReturn(func(ctx context.Context, _ string, _ bool) (*domain.Order, error) {
			close(entered)
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return storedOrder(domain.StatusPaid), nil
		})
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := service.GetOrder(firstCtx, orderID)
		firstErr <- err
	}()
	<-entered

	type result struct {
		order *domain.Order
		err   error
	}
	second := make(chan result, 1)
	go func() {
		order, err := service.GetOrder(context.Background(), orderID)
		second <- result{order, err}
	}()
	// let the second caller join the flight started by the first one
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, storedOrder(domain.StatusPaid), res.order)
}

func TestUpdateStatus_SettlementIgnoresCallerCancel(t *testing.T) {
	service, m := NewMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failIfDone := func(ctx context.Context) error {
		return ctx.Err()
	}

	m.orders.EXPECT().FindByID(gomock.Any(), orderID, true).Return(storedOrder(domain.StatusCreated), nil)
	gomock.InOrder(
		m.users.EXPECT().ConditionalDebit(gomock.Any(), userID, int64(1300)).
			DoAndReturn(func(ctx context.Context, _ string, _ int64) (bool, error) {
				cancel()
				return true, nil
			}),
		m.products.EXPECT().ConditionalReserve(gomock.Any(), productID, int64(2)).
			DoAndReturn(func(ctx context.Context, _ string, _ int64) (bool, error) {
				return true, failIfDone(ctx)
			}),
		m.products.EXPECT().ConditionalReserve(gomock.Any(), productID2, int64(1)).
			DoAndReturn(func(ctx context.Context, _ string, _ int64) (bool, error) {
				return true, failIfDone(ctx)
			}),
		m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), domain.StatusCreated).
			DoAndReturn(func(ctx context.Context, order *domain.Order, _ domain.OrderStatus) (*domain.Order, error) {
				if err := failIfDone(ctx); err != nil {
					return nil, err
				}
				return order, nil
			}),
	)
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())

	order, err := service.UpdateStatus(ctx, orderID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
