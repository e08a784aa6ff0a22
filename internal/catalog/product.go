package catalog

import "time"

type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	PriceCents     int64     `json:"price_cents"`
	StockAvailable int       `json:"stock_available"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Announcements published on product lifecycle changes. Field names are
// part of the external queue contract.

type ProductCreatedEvent struct {
	Type        string `json:"type"` // "product-created"
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Stock       int    `json:"stock"`
	Price       int64  `json:"price"`
}

type ProductUpdatedEvent struct {
	Type        string `json:"type"` // "product-updated"
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Stock       int    `json:"stock"`
}
