package handlers

import (
	"net/http"
	"time"

	_ "github.com/GlebRadaev/ordermart/docs"
	ordershandlers "github.com/GlebRadaev/ordermart/internal/handlers/orders"
	productshandlers "github.com/GlebRadaev/ordermart/internal/handlers/products"
	usershandlers "github.com/GlebRadaev/ordermart/internal/handlers/users"
	"github.com/GlebRadaev/ordermart/internal/service"
	"github.com/GlebRadaev/ordermart/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

type UserHandler interface {
	CreateUser(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	UpdateBalance(w http.ResponseWriter, r *http.Request)
}

type ProductHandler interface {
	CreateProduct(w http.ResponseWriter, r *http.Request)
	ListProducts(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	UpdateStock(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	UserHandler    UserHandler
	ProductHandler ProductHandler
	OrderHandler   OrderHandler

	tokens  auth.JWTServiceInterface
	timeout time.Duration
}

func New(s *service.Services, tokens auth.JWTServiceInterface, timeout time.Duration) *Handlers {
	return &Handlers{
		UserHandler:    usershandlers.New(s.UserService),
		ProductHandler: productshandlers.New(s.ProductService),
		OrderHandler:   ordershandlers.New(s.OrderService),
		tokens:         tokens,
		timeout:        timeout,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	if h.timeout > 0 {
		r.Use(middleware.Timeout(h.timeout))
	}
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))

	admin := auth.RequireRole(h.tokens, auth.RoleAdmin)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.UserHandler.CreateUser)
		r.Get("/{id}", h.UserHandler.GetUser)
		r.With(admin).Patch("/{id}/balance", h.UserHandler.UpdateBalance)
	})
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.ProductHandler.CreateProduct)
		r.Get("/", h.ProductHandler.ListProducts)
		r.Get("/{id}", h.ProductHandler.GetProduct)
		r.With(admin).Patch("/{id}/stock", h.ProductHandler.UpdateStock)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.OrderHandler.CreateOrder)
		r.Get("/{id}", h.OrderHandler.GetOrder)
		r.Patch("/{id}/status", h.OrderHandler.UpdateStatus)
	})

	return r
}
