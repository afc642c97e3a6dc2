package dto

type CreateProductRequestDTO struct {
	Name  string `json:"name" example:"Laptop"`
	Price *int64 `json:"price" example:"500"`
	Stock *int64 `json:"stock" example:"10"`
}

type UpdateStockRequestDTO struct {
	Stock *int64 `json:"stock" example:"25"`
}
