package orders

import "time"

type Order struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Username    string    `json:"username"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	OrderDate   time.Time `json:"order_date"`
	Quantity    int       `json:"quantity"`
	PriceCents  int64     `json:"price_cents"`
	TotalCents  int64     `json:"total_cents"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
