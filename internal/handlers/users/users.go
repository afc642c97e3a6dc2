package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/GlebRadaev/ordermart/internal/dto"
	"github.com/GlebRadaev/ordermart/pkg/utils"
	"github.com/GlebRadaev/ordermart/pkg/validate"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=users

type Service interface {
	CreateUser(ctx context.Context, email string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateBalance(ctx context.Context, id string, balance int64) (*domain.User, error)
}

type UserHandler struct {
	userService Service
}

func New(userService Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser godoc
//
//	@Summary		Register a user
//	@Description	Create a user with the given email and a zero balance.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateUserRequestDTO	true	"New user"
//	@Success		201		{object}	domain.User
//	@Failure		400		{object}	utils.Response	"Invalid email or email already registered"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := validate.Errors{}
	errs.Check(validate.IsEmail(req.Email), "email", "must be a valid email address")
	if !errs.Valid() {
		utils.RespondWithValidation(w, errs)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Email)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// GetUser godoc
//
//	@Summary	Get a user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	domain.User
//	@Failure	400	{object}	utils.Response	"Malformed id"
//	@Failure	404	{object}	utils.Response	"User not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validate.IsUUID(id) {
		utils.RespondWithValidation(w, validate.Errors{"id": "must be a uuid"})
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateBalance godoc
//
//	@Summary		Set a user balance
//	@Description	Administrative overwrite of the balance. Negative values are accepted.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		dto.UpdateBalanceRequestDTO	true	"New balance"
//	@Success		200		{object}	domain.User
//	@Failure		400		{object}	utils.Response	"Malformed id or body"
//	@Failure		401		{object}	utils.Response	"Missing or invalid token"
//	@Failure		403		{object}	utils.Response	"Not an admin"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/users/{id}/balance [patch]
func (h *UserHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateBalanceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := validate.Errors{}
	errs.Check(validate.IsUUID(id), "id", "must be a uuid")
	errs.Check(req.Balance != nil, "balance", "is required")
	if !errs.Valid() {
		utils.RespondWithValidation(w, errs)
		return
	}

	user, err := h.userService.UpdateBalance(r.Context(), id, *req.Balance)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
