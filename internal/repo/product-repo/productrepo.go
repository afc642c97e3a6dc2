package productrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/GlebRadaev/ordermart/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, price, stock, created_at
		FROM products
		WHERE id = $1
	`
	var product domain.Product
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		zap.L().Error("can't find product", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, stock, created_at
		FROM products
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't get products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.CreatedAt); err != nil {
			zap.L().Error("can't scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate product rows", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, price, stock)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, product.Name, product.Price, product.Stock).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		zap.L().Error("can't save product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (r *Repository) UpdateStock(ctx context.Context, id string, stock int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET stock = $1
		WHERE id = $2
		RETURNING id, name, price, stock, created_at
	`
	var product domain.Product
	err := r.db.QueryRow(ctx, query, stock, id).Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		zap.L().Error("can't update product stock", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	return &product, nil
}

// ConditionalReserve takes quantity out of stock in one statement guarded by
// stock >= quantity. It reports false when the guard did not hold.
func (r *Repository) ConditionalReserve(ctx context.Context, id string, quantity int64) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`
	tag, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		zap.L().Error("can't reserve product stock", zap.String("product_id", id), zap.Int64("quantity", quantity), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
