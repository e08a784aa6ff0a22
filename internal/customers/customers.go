// Package customers is the customer directory. Customers are read-only
// from the order engine's perspective; they carry no reconciliation
// state.
package customers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/abcretail/retail-orders/internal/store"
)

var (
	ErrNameRequired  = errors.New("customer name is required")
	ErrEmailRequired = errors.New("customer email is required")
)

type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Entities is the slice of the entity store the directory needs.
type Entities interface {
	Get(ctx context.Context, partition, rowKey string) ([]byte, error)
	GetAll(ctx context.Context, partition string) ([][]byte, error)
	Insert(ctx context.Context, partition, rowKey string, v any) error
	Replace(ctx context.Context, partition, rowKey string, v any) error
	Delete(ctx context.Context, partition, rowKey string) error
}

type Directory struct{ Store Entities }

func (d *Directory) Create(ctx context.Context, c Customer) (Customer, error) {
	if c.Name == "" || c.Surname == "" {
		return Customer{}, ErrNameRequired
	}
	if c.Email == "" {
		return Customer{}, ErrEmailRequired
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := d.Store.Insert(ctx, store.PartitionCustomer, c.ID, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (d *Directory) Get(ctx context.Context, id string) (Customer, error) {
	data, err := d.Store.Get(ctx, store.PartitionCustomer, id)
	if err != nil {
		return Customer{}, err
	}
	var c Customer
	if err := json.Unmarshal(data, &c); err != nil {
		return Customer{}, fmt.Errorf("decode customer %s: %w", id, err)
	}
	return c, nil
}

// List returns all customers sorted by surname, then name.
func (d *Directory) List(ctx context.Context) ([]Customer, error) {
	records, err := d.Store.GetAll(ctx, store.PartitionCustomer)
	if err != nil {
		return nil, err
	}
	out := make([]Customer, 0, len(records))
	for _, data := range records {
		var c Customer
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Surname != out[j].Surname {
			return out[i].Surname < out[j].Surname
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (d *Directory) Update(ctx context.Context, c Customer) (Customer, error) {
	if c.Name == "" || c.Surname == "" {
		return Customer{}, ErrNameRequired
	}
	if c.Email == "" {
		return Customer{}, ErrEmailRequired
	}
	if _, err := d.Get(ctx, c.ID); err != nil {
		return Customer{}, err
	}
	if err := d.Store.Replace(ctx, store.PartitionCustomer, c.ID, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (d *Directory) Delete(ctx context.Context, id string) error {
	return d.Store.Delete(ctx, store.PartitionCustomer, id)
}
