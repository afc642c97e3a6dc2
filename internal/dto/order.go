package dto

type OrderItemRequestDTO struct {
	ProductID string `json:"productId" example:"0b7c2a54-1d7e-4a8f-b3c4-5d6e7f809a1b"`
	Quantity  int64  `json:"quantity" example:"2"`
}

type CreateOrderRequestDTO struct {
	UserID string                `json:"userId" example:"6f1c1c1e-8a8e-4c39-9d4b-0c1f5b1a2e11"`
	Items  []OrderItemRequestDTO `json:"items"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status" example:"paid" enums:"created,paid,shipped"`
}
