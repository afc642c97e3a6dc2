package orderrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/GlebRadaev/ordermart/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

// Insert writes the order and all of its items in one transaction.
// Items keep the order they were given in.
func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	orderQuery := `
		INSERT INTO orders (user_id, total, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	itemQuery := `
		INSERT INTO order_items (order_id, product_id, position, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, orderQuery, order.UserID, order.Total, string(order.Status)).
			Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			zap.L().Error("can't save order", zap.String("user_id", order.UserID), zap.Error(err))
			return err
		}
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err := r.db.QueryRow(ctx, itemQuery, order.ID, item.ProductID, i, item.Quantity, item.PriceAtPurchase).
				Scan(&item.ID)
			if err != nil {
				zap.L().Error("can't save order item", zap.String("order_id", order.ID), zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindByID(ctx context.Context, id string, withItems bool) (*domain.Order, error) {
	query := `
		SELECT id, user_id, total, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	var (
		order  domain.Order
		status string
	)
	err := r.db.QueryRow(ctx, query, id).
		Scan(&order.ID, &order.UserID, &order.Total, &status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		zap.L().Error("can't find order", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}
	order.Status = domain.OrderStatus(status)

	if !withItems {
		return &order, nil
	}
	items, err := r.findItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *Repository) findItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_purchase
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("can't get order items", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase); err != nil {
			zap.L().Error("can't scan order item row", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate order item rows", zap.Error(err))
		return nil, err
	}
	return items, nil
}

// UpdateStatus stores order.Status only if the row still has status from.
// A lost race returns domain.ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, string(order.Status), order.ID, string(from)).Scan(&order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatusConflict
		}
		zap.L().Error("failed to update order status", zap.String("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	return order, nil
}
