package orderservice

import (
	"context"
	"math"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=orderservice.go -destination=mock_orderservice.go -package=orderservice

type UserRepo interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ConditionalDebit(ctx context.Context, id string, amount int64) (bool, error)
}

type ProductRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ConditionalReserve(ctx context.Context, id string, quantity int64) (bool, error)
}

type OrderRepo interface {
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string, withItems bool) (*domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) (*domain.Order, error)
}

// Notifier is told about every order that was created or changed status.
type Notifier interface {
	Notify(ctx context.Context, order *domain.Order)
}

// Cache holds read copies of orders. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	Set(ctx context.Context, order *domain.Order) error
}

type Service struct {
	users    UserRepo
	products ProductRepo
	orders   OrderRepo
	notifier Notifier
	cache    Cache

	group singleflight.Group
}

func New(users UserRepo, products ProductRepo, orders OrderRepo, notifier Notifier, cache Cache) *Service {
	return &Service{
		users:    users,
		products: products,
		orders:   orders,
		notifier: notifier,
		cache:    cache,
	}
}

// CreateOrder snapshots the current product prices into a new order in
// status created. Stock is only checked here, never reserved.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []domain.ItemRequest) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.InvalidRequest("order must contain at least one item")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID: userID,
		Status: domain.StatusCreated,
		Items:  make([]domain.OrderItem, 0, len(items)),
	}
	for _, req := range items {
		if req.Quantity <= 0 {
			return nil, domain.InvalidRequest("quantity must be positive")
		}
		product, err := s.products.FindByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < req.Quantity {
			zap.L().Info("not enough stock for new order",
				zap.String("product_id", product.ID),
				zap.Int64("stock", product.Stock),
				zap.Int64("quantity", req.Quantity))
			return nil, domain.ErrInsufficientStock
		}
		if product.Price > 0 && req.Quantity > (math.MaxInt64-order.Total)/product.Price {
			return nil, domain.InvalidRequest("order total is too large")
		}
		order.Total += product.Price * req.Quantity
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:       product.ID,
			Quantity:        req.Quantity,
			PriceAtPurchase: product.Price,
		})
	}

	saved, err := s.orders.Insert(ctx, order)
	if err != nil {
		zap.L().Error("can't save order", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	zap.L().Info("order created", zap.String("order_id", saved.ID), zap.Int64("total", saved.Total))

	s.publish(ctx, saved)
	return saved, nil
}

// GetOrder reads through the cache. Concurrent misses for the same id
// share one store lookup.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		zap.L().Warn("order cache read failed", zap.String("order_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	ch := s.group.DoChan(id, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		order, err := s.orders.FindByID(loadCtx, id, true)
		if err != nil {
			return nil, err
		}
		s.storeInCache(loadCtx, order)
		return order, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Order), nil
	}
}

// UpdateStatus moves the order one step forward. Moving to paid settles the
// order first and the status is left untouched if settlement fails. Once the
// transition is accepted the caller can no longer cancel it.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !domain.CanTransition(from, status) {
		return nil, domain.InvalidTransition(from, status)
	}
	ctx = context.WithoutCancel(ctx)

	if status == domain.StatusPaid {
		if err := s.settle(ctx, order); err != nil {
			return nil, err
		}
	}

	order.Status = status
	updated, err := s.orders.UpdateStatus(ctx, order, from)
	if err != nil {
		if status == domain.StatusPaid {
			zap.L().Error("order settled but status not stored",
				zap.String("order_id", order.ID),
				zap.String("user_id", order.UserID),
				zap.Int64("amount", order.Total),
				zap.Error(err))
		}
		return nil, err
	}
	zap.L().Info("order status changed",
		zap.String("order_id", updated.ID),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)))

	s.publish(ctx, updated)
	return updated, nil
}

// settle debits the order total and then reserves stock item by item.
// The debit is not reverted when a reservation fails.
func (s *Service) settle(ctx context.Context, order *domain.Order) error {
	ok, err := s.users.ConditionalDebit(ctx, order.UserID, order.Total)
	if err != nil {
		return err
	}
	if !ok {
		zap.L().Info("not enough balance to pay order",
			zap.String("order_id", order.ID),
			zap.String("user_id", order.UserID),
			zap.Int64("amount", order.Total))
		return domain.ErrInsufficientBalance
	}

	for _, item := range order.Items {
		ok, err := s.products.ConditionalReserve(ctx, item.ProductID, item.Quantity)
		if err == nil && ok {
			continue
		}
		zap.L().Error("balance debited but stock not reserved",
			zap.String("order_id", order.ID),
			zap.String("user_id", order.UserID),
			zap.Int64("amount", order.Total),
			zap.String("product_id", item.ProductID),
			zap.Int64("quantity", item.Quantity),
			zap.Error(err))
		if err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (s *Service) publish(ctx context.Context, order *domain.Order) {
	s.storeInCache(ctx, order)
	s.notifier.Notify(ctx, order)
}

func (s *Service) storeInCache(ctx context.Context, order *domain.Order) {
	if err := s.cache.Set(ctx, order); err != nil {
		zap.L().Warn("order cache write failed", zap.String("order_id", order.ID), zap.Error(err))
	}
}
