package service

import (
	"github.com/GlebRadaev/ordermart/internal/handlers/orders"
	"github.com/GlebRadaev/ordermart/internal/handlers/products"
	"github.com/GlebRadaev/ordermart/internal/handlers/users"

	"github.com/GlebRadaev/ordermart/internal/repo"
	"github.com/GlebRadaev/ordermart/internal/service/orderservice"
	"github.com/GlebRadaev/ordermart/internal/service/productservice"
	"github.com/GlebRadaev/ordermart/internal/service/userservice"
)

type Services struct {
	UserService    users.Service
	ProductService products.Service
	OrderService   orders.Service
}

func New(repo *repo.Repositories, notifier orderservice.Notifier, cache orderservice.Cache) *Services {
	userService := userservice.New(repo.UserRepo)
	productService := productservice.New(repo.ProductRepo)
	orderService := orderservice.New(repo.UserRepo, repo.ProductRepo, repo.OrderRepo, notifier, cache)

	return &Services{
		UserService:    userService,
		ProductService: productService,
		OrderService:   orderService,
	}
}
