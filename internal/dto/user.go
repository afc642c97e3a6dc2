package dto

type CreateUserRequestDTO struct {
	Email string `json:"email" example:"alice@example.com"`
}

// UpdateBalanceRequestDTO sets an absolute balance. A nil Balance means
// the field was missing from the body.
type UpdateBalanceRequestDTO struct {
	Balance *int64 `json:"balance" example:"1000"`
}
