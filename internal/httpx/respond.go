package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abcretail/retail-orders/internal/catalog"
	"github.com/abcretail/retail-orders/internal/customers"
	"github.com/abcretail/retail-orders/internal/orders"
	"github.com/abcretail/retail-orders/internal/store"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// validationErrs fail before any write and map to 400; anything else
// unrecognized is a store failure the caller may retry whole.
var validationErrs = []error{
	orders.ErrInvalidQuantity,
	orders.ErrUnknownCustomer,
	orders.ErrUnknownProduct,
	catalog.ErrNameRequired,
	catalog.ErrInvalidPrice,
	catalog.ErrInvalidStock,
	customers.ErrNameRequired,
	customers.ErrEmailRequired,
}

func writeServiceError(w http.ResponseWriter, err error) {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
