package repo

import (
	"testing"

	"github.com/GlebRadaev/ordermart/internal/pg"
	orderrepo "github.com/GlebRadaev/ordermart/internal/repo/order-repo"
	productrepo "github.com/GlebRadaev/ordermart/internal/repo/product-repo"
	userrepo "github.com/GlebRadaev/ordermart/internal/repo/user-repo"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.IsType(t, &userrepo.Repository{}, repo.UserRepo)
	assert.IsType(t, &productrepo.Repository{}, repo.ProductRepo)
	assert.IsType(t, &orderrepo.Repository{}, repo.OrderRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
