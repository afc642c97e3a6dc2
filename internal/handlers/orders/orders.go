package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/GlebRadaev/ordermart/internal/dto"
	"github.com/GlebRadaev/ordermart/pkg/utils"
	"github.com/GlebRadaev/ordermart/pkg/validate"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=orders.go -destination=mock_orders.go -package=orders

type Service interface {
	CreateOrder(ctx context.Context, userID string, items []domain.ItemRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder godoc
//
//	@Summary		Create an order
//	@Description	Snapshot current product prices into a new order in status created. Balance and stock are not touched.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateOrderRequestDTO	true	"Buyer and items"
//	@Success		201		{object}	domain.Order
//	@Failure		400		{object}	utils.Response	"Validation failed or insufficient stock"
//	@Failure		404		{object}	utils.Response	"User or product not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := validate.Errors{}
	errs.Check(validate.IsUUID(req.UserID), "userId", "must be a uuid")
	errs.Check(len(req.Items) > 0, "items", "must not be empty")
	items := make([]domain.ItemRequest, 0, len(req.Items))
	for i, item := range req.Items {
		errs.Check(validate.IsUUID(item.ProductID), fmt.Sprintf("items[%d].productId", i), "must be a uuid")
		errs.Check(item.Quantity > 0, fmt.Sprintf("items[%d].quantity", i), "must be positive")
		items = append(items, domain.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if !errs.Valid() {
		utils.RespondWithValidation(w, errs)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req.UserID, items)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrder godoc
//
//	@Summary	Get an order with its items
//	@Tags		Orders
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	domain.Order
//	@Failure	400	{object}	utils.Response	"Malformed id"
//	@Failure	404	{object}	utils.Response	"Order not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validate.IsUUID(id) {
		utils.RespondWithValidation(w, validate.Errors{"id": "must be a uuid"})
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus godoc
//
//	@Summary		Move an order to the next status
//	@Description	created to paid settles the order: the total is debited and stock is reserved. paid to shipped only changes the status.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Order id"
//	@Param			request	body		dto.UpdateStatusRequestDTO	true	"Target status"
//	@Success		200		{object}	domain.Order
//	@Failure		400		{object}	utils.Response	"Illegal transition, insufficient balance or stock"
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := validate.Errors{}
	errs.Check(validate.IsUUID(id), "id", "must be a uuid")
	errs.Check(validate.IsStatus(req.Status), "status", "must be one of created, paid, shipped")
	if !errs.Valid() {
		utils.RespondWithValidation(w, errs)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}
