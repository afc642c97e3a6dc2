package repo

import (
	"github.com/GlebRadaev/ordermart/internal/pg"
	orderrepo "github.com/GlebRadaev/ordermart/internal/repo/order-repo"
	productrepo "github.com/GlebRadaev/ordermart/internal/repo/product-repo"
	userrepo "github.com/GlebRadaev/ordermart/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo    *userrepo.Repository
	ProductRepo *productrepo.Repository
	OrderRepo   *orderrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:    userrepo.New(conn),
		ProductRepo: productrepo.New(conn),
		OrderRepo:   orderrepo.New(conn, txManager),
	}
}
