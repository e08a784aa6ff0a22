// Package catalog manages product records and owns the stock
// adjustment primitive used by the order reconciliation engine.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abcretail/retail-orders/internal/queue"
	"github.com/abcretail/retail-orders/internal/store"
)

var (
	ErrNameRequired = errors.New("product name is required")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidStock = errors.New("stock must not be negative")
)

// Entities is the slice of the entity store the catalog needs.
type Entities interface {
	Get(ctx context.Context, partition, rowKey string) ([]byte, error)
	GetAll(ctx context.Context, partition string) ([][]byte, error)
	Insert(ctx context.Context, partition, rowKey string, v any) error
	Replace(ctx context.Context, partition, rowKey string, v any) error
	Delete(ctx context.Context, partition, rowKey string) error
}

type Publisher interface {
	Send(queueName string, payload any)
}

type Service struct {
	Store Entities
	Queue Publisher
}

type CreateProductInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	PriceCents     int64  `json:"price_cents"`
	StockAvailable int    `json:"stock_available"`
}

func (s *Service) Create(ctx context.Context, in CreateProductInput) (Product, error) {
	if in.Name == "" {
		return Product{}, ErrNameRequired
	}
	if in.PriceCents < 0 {
		return Product{}, ErrInvalidPrice
	}
	if in.StockAvailable < 0 {
		return Product{}, ErrInvalidStock
	}

	now := time.Now().UTC()
	p := Product{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Description:    in.Description,
		PriceCents:     in.PriceCents,
		StockAvailable: in.StockAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.Insert(ctx, store.PartitionProduct, p.ID, p); err != nil {
		return Product{}, err
	}

	s.Queue.Send(queue.StocksInventory, ProductCreatedEvent{
		Type:        "product-created",
		ProductID:   p.ID,
		ProductName: p.Name,
		Stock:       p.StockAvailable,
		Price:       p.PriceCents,
	})
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	data, err := s.Store.Get(ctx, store.PartitionProduct, id)
	if err != nil {
		return Product{}, err
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return Product{}, fmt.Errorf("decode product %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	records, err := s.Store.GetAll(ctx, store.PartitionProduct)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(records))
	for _, data := range records {
		var p Product
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

type UpdateProductInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	PriceCents     int64  `json:"price_cents"`
	StockAvailable int    `json:"stock_available"`
}

// Update mutates the freshly loaded record rather than trusting the
// caller's copy, then announces the new stock level.
func (s *Service) Update(ctx context.Context, id string, in UpdateProductInput) (Product, error) {
	if in.Name == "" {
		return Product{}, ErrNameRequired
	}
	if in.PriceCents < 0 {
		return Product{}, ErrInvalidPrice
	}
	if in.StockAvailable < 0 {
		return Product{}, ErrInvalidStock
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.StockAvailable = in.StockAvailable
	p.UpdatedAt = time.Now().UTC()

	if err := s.Store.Replace(ctx, store.PartitionProduct, p.ID, p); err != nil {
		return Product{}, err
	}

	s.Queue.Send(queue.StockUpdates, ProductUpdatedEvent{
		Type:        "product-updated",
		ProductID:   p.ID,
		ProductName: p.Name,
		Stock:       p.StockAvailable,
	})
	return p, nil
}

func (s *Service) SetImageURL(ctx context.Context, id, url string) (Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.ImageURL = url
	p.UpdatedAt = time.Now().UTC()
	if err := s.Store.Replace(ctx, store.PartitionProduct, p.ID, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, store.PartitionProduct, id)
}

// StockAdjustment reports a stock write for event construction.
type StockAdjustment struct {
	Product  Product
	Previous int
	Current  int
}

// AdjustStock applies a signed stock delta to a product. Deductions are
// clamped at zero; restorations are never clamped. Every stock write in
// the system goes through here so the clamping asymmetry is applied
// consistently.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (StockAdjustment, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return StockAdjustment{}, err
	}

	prev := p.StockAvailable
	next := prev + delta
	if delta < 0 && next < 0 {
		next = 0
	}
	p.StockAvailable = next
	p.UpdatedAt = time.Now().UTC()

	if err := s.Store.Replace(ctx, store.PartitionProduct, p.ID, p); err != nil {
		return StockAdjustment{}, err
	}
	return StockAdjustment{Product: p, Previous: prev, Current: next}, nil
}
