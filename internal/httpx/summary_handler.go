package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abcretail/retail-orders/internal/catalog"
)

// SummaryHandler serves the storefront dashboard: entity counts plus a
// handful of featured products.
type SummaryHandler struct {
	Customers CustomersService
	Products  ProductsService
	Orders    OrdersService
}

type summaryResp struct {
	CustomerCount    int               `json:"customer_count"`
	ProductCount     int               `json:"product_count"`
	OrderCount       int               `json:"order_count"`
	FeaturedProducts []catalog.Product `json:"featured_products"`
}

func (h *SummaryHandler) Register(r *chi.Mux) {
	r.Get("/summary", h.summary)
}

func (h *SummaryHandler) summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cs, err := h.Customers.List(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ps, err := h.Products.List(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	all, err := h.Orders.List(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	featured := ps
	if len(featured) > 5 {
		featured = featured[:5]
	}
	writeJSON(w, http.StatusOK, summaryResp{
		CustomerCount:    len(cs),
		ProductCount:     len(ps),
		OrderCount:       len(all),
		FeaturedProducts: featured,
	})
}
