package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abcretail/retail-orders/internal/orders"
	"github.com/abcretail/retail-orders/internal/redisx"
)

type OrdersService interface {
	Create(ctx context.Context, in orders.CreateOrderInput) (orders.Order, error)
	Edit(ctx context.Context, id string, in orders.EditOrderInput) (orders.Order, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (orders.Order, error)
	List(ctx context.Context) ([]orders.Order, error)
}

type OrdersHandler struct {
	Service OrdersService
	Redis   *redis.Client
	Log     *zap.Logger
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.list)
	r.Post("/orders", h.create)
	r.Get("/orders/{id}", h.get)
	r.Get("/orders/{id}/status", h.status)
	r.Put("/orders/{id}", h.edit)
	r.Delete("/orders/{id}", h.delete)
}

type createOrderReq struct {
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	OrderDate  time.Time `json:"order_date"`
	Status     string    `json:"status"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerID == "" || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_id and product_id are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Create(ctx, orders.CreateOrderInput{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		OrderDate:  req.OrderDate,
		Status:     req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusCreated, o)
}

type editOrderReq struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	OrderDate time.Time `json:"order_date"`
	Status    string    `json:"status"`
}

func (h *OrdersHandler) edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req editOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Edit(ctx, id, orders.EditOrderInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		OrderDate: req.OrderDate,
		Status:    req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, id); err != nil {
		writeServiceError(w, err)
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, id)).Err()
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Service.Get(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// status serves from the Redis cache first and falls back to the store.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	o, err := h.Service.Get(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(o.Status)})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Service.List(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o orders.Order) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body := fmt.Sprintf(`{"status":%q}`, o.Status)
	if err := h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err(); err != nil {
		h.Log.Warn("order status cache write failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}
