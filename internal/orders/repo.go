package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abcretail/retail-orders/internal/store"
)

// Entities is the slice of the entity store the order repo needs.
type Entities interface {
	Get(ctx context.Context, partition, rowKey string) ([]byte, error)
	GetAll(ctx context.Context, partition string) ([][]byte, error)
	Insert(ctx context.Context, partition, rowKey string, v any) error
	Replace(ctx context.Context, partition, rowKey string, v any) error
	Delete(ctx context.Context, partition, rowKey string) error
}

type Repo struct{ Store Entities }

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	data, err := r.Store.Get(ctx, store.PartitionOrder, id)
	if err != nil {
		return Order{}, err
	}
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return Order{}, fmt.Errorf("decode order %s: %w", id, err)
	}
	return o, nil
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	records, err := r.Store.GetAll(ctx, store.PartitionOrder)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(records))
	for _, data := range records {
		var o Order
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *Repo) Insert(ctx context.Context, o Order) error {
	return r.Store.Insert(ctx, store.PartitionOrder, o.ID, o)
}

func (r *Repo) Replace(ctx context.Context, o Order) error {
	return r.Store.Replace(ctx, store.PartitionOrder, o.ID, o)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, store.PartitionOrder, id)
}
