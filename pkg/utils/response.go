package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"go.uber.org/zap"
)

type Response struct {
	Message string            `json:"message" example:"order not found"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("can't write response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Response{Message: message})
}

func RespondWithValidation(w http.ResponseWriter, fields map[string]string) {
	RespondWithJSON(w, http.StatusBadRequest, Response{Message: "validation failed", Errors: fields})
}

// RespondWithDomainError maps NotFound to 404 and InvalidRequest to 400.
// Anything else is logged and answered with a generic 500.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
