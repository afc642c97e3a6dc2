package productrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

const (
	productID  = "0b7c2a54-1d7e-4a8f-b3c4-5d6e7f809a1b"
	productID2 = "1c8d3b65-2e8f-4b90-c4d5-6e7f8091ab2c"
)

var productColumns = []string{"id", "name", "price", "stock", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	query := regexp.QuoteMeta("SELECT id, name, price, stock, created_at FROM products WHERE id = $1")

	tests := []struct {
		name      string
		mockSetup func()
		expectErr error
		result    *domain.Product
	}{
		{
			name: "Product found",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(productID).
					WillReturnRows(pgxmock.NewRows(productColumns).AddRow(productID, "Laptop", int64(500), int64(10), now))
			},
			result: &domain.Product{ID: productID, Name: "Laptop", Price: 500, Stock: 10, CreatedAt: now},
		},
		{
			name: "Product not found",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(productID).WillReturnError(pgx.ErrNoRows)
			},
			expectErr: domain.ErrProductNotFound,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(productID).WillReturnError(errors.New("database error"))
			},
			expectErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), productID)
			if tt.expectErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectErr.Error(), err.Error())
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindAll(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	query := regexp.QuoteMeta("SELECT id, name, price, stock, created_at FROM products ORDER BY created_at, id")

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    []domain.Product
	}{
		{
			name: "Products found",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(productColumns).
					AddRow(productID, "Laptop", int64(500), int64(10), now).
					AddRow(productID2, "Phone", int64(300), int64(5), now))
			},
			result: []domain.Product{
				{ID: productID, Name: "Laptop", Price: 500, Stock: 10, CreatedAt: now},
				{ID: productID2, Name: "Phone", Price: 300, Stock: 5, CreatedAt: now},
			},
		},
		{
			name: "No products",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(productColumns))
			},
			result: []domain.Product{},
		},
		{
			name: "Scan row error",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(productColumns).
					AddRow(productID, "Laptop", "not-a-price", int64(10), now))
			},
			expectErr: true,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindAll(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	query := regexp.QuoteMeta("INSERT INTO products (name, price, stock) VALUES ($1, $2, $3) RETURNING id, created_at")

	t.Run("Create product successfully", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("Laptop", int64(500), int64(10)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(productID, now))

		result, err := repo.Create(context.Background(), &domain.Product{Name: "Laptop", Price: 500, Stock: 10})
		assert.NoError(t, err)
		assert.Equal(t, &domain.Product{ID: productID, Name: "Laptop", Price: 500, Stock: 10, CreatedAt: now}, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("Laptop", int64(500), int64(10)).
			WillReturnError(errors.New("database error"))

		result, err := repo.Create(context.Background(), &domain.Product{Name: "Laptop", Price: 500, Stock: 10})
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateStock(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	query := regexp.QuoteMeta("UPDATE products SET stock = $1 WHERE id = $2 RETURNING id, name, price, stock, created_at")

	t.Run("Stock updated", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(42), productID).
			WillReturnRows(pgxmock.NewRows(productColumns).AddRow(productID, "Laptop", int64(500), int64(42), now))

		result, err := repo.UpdateStock(context.Background(), productID, 42)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), result.Stock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Product not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(42), productID).
			WillReturnError(pgx.ErrNoRows)

		result, err := repo.UpdateStock(context.Background(), productID, 42)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ConditionalReserve(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1")

	tests := []struct {
		name      string
		quantity  int64
		mockSetup func()
		expectErr bool
		applied   bool
	}{
		{
			name:     "Enough stock",
			quantity: 2,
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(int64(2), productID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			applied: true,
		},
		{
			name:     "Not enough stock",
			quantity: 20,
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(int64(20), productID).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			applied: false,
		},
		{
			name:     "Database error",
			quantity: 2,
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(int64(2), productID).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			applied, err := repo.ConditionalReserve(context.Background(), productID, tt.quantity)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.applied, applied)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
