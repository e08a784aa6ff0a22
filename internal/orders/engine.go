// Package orders holds the order reconciliation engine: every
// order-affecting operation derives the stock delta it owes from the
// transition between old and new order state, applies it through the
// catalog's stock primitive, and emits a stock-update event per delta.
//
// Operations are request-scoped with no cross-request coordination.
// Order and product writes are independent best-effort calls: there is
// no transaction spanning them and no rollback, so a failure mid-way
// leaves a partially applied state that is surfaced to the caller.
// Concurrent edits to the same order or product race last-writer-wins.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abcretail/retail-orders/internal/catalog"
	"github.com/abcretail/retail-orders/internal/customers"
	"github.com/abcretail/retail-orders/internal/queue"
	"github.com/abcretail/retail-orders/internal/store"
)

// Validation failures; surfaced before any write happens.
var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownCustomer = errors.New("customer does not exist")
	ErrUnknownProduct  = errors.New("product does not exist")
)

type OrderStore interface {
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Insert(ctx context.Context, o Order) error
	Replace(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
}

type Catalog interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (catalog.StockAdjustment, error)
}

type Customers interface {
	Get(ctx context.Context, id string) (customers.Customer, error)
}

type Publisher interface {
	Send(queueName string, payload any)
}

type Engine struct {
	Orders    OrderStore
	Catalog   Catalog
	Customers Customers
	Queue     Publisher
	Log       *zap.Logger
}

type CreateOrderInput struct {
	CustomerID string
	ProductID  string
	Quantity   int
	OrderDate  time.Time
	Status     string
}

// Create validates the referenced customer and product, persists the
// order with denormalized product fields, deducts stock unless the
// initial status is Cancelled, and always announces the new order.
func (e *Engine) Create(ctx context.Context, in CreateOrderInput) (Order, error) {
	if in.Quantity < 1 {
		return Order{}, ErrInvalidQuantity
	}

	customer, err := e.Customers.Get(ctx, in.CustomerID)
	if errors.Is(err, store.ErrNotFound) {
		return Order{}, ErrUnknownCustomer
	}
	if err != nil {
		return Order{}, fmt.Errorf("load customer: %w", err)
	}

	product, err := e.Catalog.Get(ctx, in.ProductID)
	if errors.Is(err, store.ErrNotFound) {
		return Order{}, ErrUnknownProduct
	}
	if err != nil {
		return Order{}, fmt.Errorf("load product: %w", err)
	}

	now := time.Now().UTC()
	orderDate := in.OrderDate.UTC()
	if in.OrderDate.IsZero() {
		orderDate = now
	}

	order := Order{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		Username:    customer.Username,
		ProductID:   product.ID,
		ProductName: product.Name,
		OrderDate:   orderDate,
		Quantity:    in.Quantity,
		PriceCents:  product.PriceCents,
		TotalCents:  int64(in.Quantity) * product.PriceCents,
		Status:      ParseStatus(in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.Orders.Insert(ctx, order); err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	if err := e.applyChanges(ctx, order.ID, CreationChanges(order)); err != nil {
		return Order{}, err
	}

	e.Queue.Send(queue.OrderNotifications, OrderCreatedEvent{
		Type:        "order-created",
		OrderID:     order.ID,
		Customer:    order.Username,
		ProductID:   order.ProductID,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		Total:       order.TotalCents,
	})
	return order, nil
}

type EditOrderInput struct {
	ProductID string
	Quantity  int
	OrderDate time.Time
	Status    string
}

// Edit re-reads the persisted order, persists the updated form
// unconditionally, then applies whichever single transition branch the
// old/new pair matches. Repeating an identical edit is a no-op on
// inventory since old and new then coincide.
func (e *Engine) Edit(ctx context.Context, id string, in EditOrderInput) (Order, error) {
	existing, err := e.Orders.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if in.Quantity < 1 {
		return Order{}, ErrInvalidQuantity
	}

	updated := existing
	updated.ProductID = in.ProductID
	if updated.ProductID == "" {
		updated.ProductID = existing.ProductID
	}
	updated.Quantity = in.Quantity
	updated.Status = ParseStatus(in.Status)
	if !in.OrderDate.IsZero() {
		updated.OrderDate = in.OrderDate.UTC()
	}

	// Re-derive denormalized product fields from the (possibly new)
	// product. A vanished product keeps the old fields; the affected
	// transition branch will skip its stock write below.
	product, err := e.Catalog.Get(ctx, updated.ProductID)
	switch {
	case err == nil:
		updated.ProductName = product.Name
		updated.PriceCents = product.PriceCents
	case errors.Is(err, store.ErrNotFound):
	default:
		return Order{}, fmt.Errorf("load product: %w", err)
	}

	updated.TotalCents = int64(updated.Quantity) * updated.PriceCents
	updated.UpdatedAt = time.Now().UTC()

	if err := e.Orders.Replace(ctx, updated); err != nil {
		return Order{}, fmt.Errorf("replace order: %w", err)
	}

	if err := e.applyChanges(ctx, updated.ID, EditChanges(existing, updated)); err != nil {
		return Order{}, err
	}
	return updated, nil
}

// Delete restores the order's reservation unless it was cancelled, then
// removes the record.
func (e *Engine) Delete(ctx context.Context, id string) error {
	existing, err := e.Orders.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := e.applyChanges(ctx, existing.ID, DeletionChanges(existing)); err != nil {
		return err
	}
	return e.Orders.Delete(ctx, id)
}

// ConfirmPayment promotes the order to Processing and deducts its
// quantity without consulting the prior status. For orders that were
// active at creation this double-deducts; that asymmetry is inherited
// from the original system and deliberately kept.
func (e *Engine) ConfirmPayment(ctx context.Context, orderID string) (Order, error) {
	order, err := e.Orders.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	order.Status = StatusProcessing
	order.UpdatedAt = time.Now().UTC()
	if err := e.Orders.Replace(ctx, order); err != nil {
		return Order{}, fmt.Errorf("replace order: %w", err)
	}

	change := StockChange{
		ProductID: order.ProductID,
		Delta:     -order.Quantity,
		Reason:    ReasonPaymentProof,
	}
	if err := e.applyChanges(ctx, order.ID, []StockChange{change}); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (e *Engine) Get(ctx context.Context, id string) (Order, error) {
	return e.Orders.Get(ctx, id)
}

func (e *Engine) List(ctx context.Context) ([]Order, error) {
	return e.Orders.List(ctx)
}

// applyChanges runs each delta through the stock primitive and emits
// one stock-update event per applied delta. A product that no longer
// exists skips its write and event; the already-persisted order write
// stands either way.
func (e *Engine) applyChanges(ctx context.Context, orderID string, changes []StockChange) error {
	for _, ch := range changes {
		adj, err := e.Catalog.AdjustStock(ctx, ch.ProductID, ch.Delta)
		if errors.Is(err, store.ErrNotFound) {
			e.Log.Warn("stock adjustment skipped, product missing",
				zap.String("product_id", ch.ProductID),
				zap.String("order_id", orderID),
				zap.String("reason", ch.Reason))
			continue
		}
		if err != nil {
			return fmt.Errorf("adjust stock %s: %w", ch.ProductID, err)
		}

		e.Queue.Send(queue.StockUpdates, StockUpdateEvent{
			Type:        "stock-update",
			ProductID:   adj.Product.ID,
			ProductName: adj.Product.Name,
			Change:      ch.Delta,
			Previous:    adj.Previous,
			Current:     adj.Current,
			Reason:      ch.Reason,
			OrderID:     orderID,
		})
	}
	return nil
}
