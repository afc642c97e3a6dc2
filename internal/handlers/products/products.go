package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/GlebRadaev/ordermart/internal/dto"
	"github.com/GlebRadaev/ordermart/pkg/utils"
	"github.com/GlebRadaev/ordermart/pkg/validate"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=products.go -destination=mock_products.go -package=products

type Service interface {
	CreateProduct(ctx context.Context, name string, price, stock int64) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateStock(ctx context.Context, id string, stock int64) (*domain.Product, error)
}

type ProductHandler struct {
	productService Service
}

func New(productService Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProduct godoc
//
//	@Summary	Register a product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CreateProductRequestDTO	true	"New product"
//	@Success	201		{object}	domain.Product
//	@Failure	400		{object}	utils.Response	"Validation failed"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := validate.Errors{}
	errs.Check(strings.TrimSpace(req.Name) != "", "name", "is required")
	errs.Check(req.Price != nil, "price", "is required")
	errs.Check(req.Price == nil || *req.Price >= 0, "price", "must not be negative")
	errs.Check(req.Stock != nil, "stock", "is required")
	errs.Check(req.Stock == nil || *req.Stock >= 0, "stock", "must not be negative")
	if !errs.Valid() {
		utils.RespondWithValidation(w, errs)
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), req.Name, *req.Price, *req.Stock)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// ListProducts godoc
//
//	@Summary	List products
//	@Tags		Products
//	@Produce	json
//	@Success	200	{array}		domain.Product
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct godoc
//
//	@Summary	Get a product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	domain.Product
//	@Failure	400	{object}	utils.Response	"Malformed id"
//	@Failure	404	{object}	utils.Response	"Product not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validate.IsUUID(id) {
		utils.RespondWithValidation(w, validate.Errors{"id": "must be a uuid"})
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateStock godoc
//
//	@Summary	Set product stock
//	@Tags		Products
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Product id"
//	@Param		request	body		dto.UpdateStockRequestDTO	true	"New stock"
//	@Success	200		{object}	domain.Product
//	@Failure	400		{object}	utils.Response	"Malformed id or body"
//	@Failure	401		{object}	utils.Response	"Missing or invalid token"
//	@Failure	403		{object}	utils.Response	"Not an admin"
//	@Failure	404		{object}	utils.Response	"Product not found"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateStockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := validate.Errors{}
	errs.Check(validate.IsUUID(id), "id", "must be a uuid")
	errs.Check(req.Stock != nil, "stock", "is required")
	errs.Check(req.Stock == nil || *req.Stock >= 0, "stock", "must not be negative")
	if !errs.Valid() {
		utils.RespondWithValidation(w, errs)
		return
	}

	product, err := h.productService.UpdateStock(r.Context(), id, *req.Stock)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}
