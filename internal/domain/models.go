package domain

import "time"

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Product struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Price     int64     `db:"price" json:"price"`
	Stock     int64     `db:"stock" json:"stock"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Order struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"userId"`
	Items     []OrderItem `json:"items"`
	Total     int64       `db:"total" json:"total"`
	Status    OrderStatus `db:"status" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}

// OrderItem keeps the unit price the product had when the order was created.
type OrderItem struct {
	ID              string `db:"id" json:"id"`
	OrderID         string `db:"order_id" json:"orderId"`
	ProductID       string `db:"product_id" json:"productId"`
	Quantity        int64  `db:"quantity" json:"quantity"`
	PriceAtPurchase int64  `db:"price_at_purchase" json:"priceAtPurchase"`
}

// ItemRequest is one requested line of a new order.
type ItemRequest struct {
	ProductID string
	Quantity  int64
}
