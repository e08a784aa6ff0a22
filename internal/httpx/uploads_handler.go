package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abcretail/retail-orders/internal/blob"
	"github.com/abcretail/retail-orders/internal/orders"
	"github.com/abcretail/retail-orders/internal/queue"
	"github.com/abcretail/retail-orders/internal/store"
)

type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, orderID string) (orders.Order, error)
}

type Publisher interface {
	Send(queueName string, payload any)
}

// UploadsHandler accepts proof-of-payment documents. The file is stored
// and the notification sent before the order is promoted; a missing
// order does not fail an upload that already committed.
type UploadsHandler struct {
	Blob      blob.Store
	Confirmer PaymentConfirmer
	Queue     Publisher
	Log       *zap.Logger
}

func (h *UploadsHandler) Register(r *chi.Mux) {
	r.Post("/uploads", h.upload)
}

func (h *UploadsHandler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("proof_of_payment")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "proof_of_payment file is required"})
		return
	}
	defer file.Close()

	orderID := r.FormValue("order_id")
	customerName := r.FormValue("customer_name")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	name, err := h.Blob.Upload(ctx, blob.ContainerPaymentProofs, header.Filename, file)
	if err != nil {
		h.Log.Error("payment proof upload failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "upload failed"})
		return
	}

	h.Queue.Send(queue.OrderNotifications, orders.PaymentProofEvent{
		OrderID:      orderID,
		CustomerName: customerName,
		File:         name,
	})

	if orderID != "" {
		if _, err := h.Confirmer.ConfirmPayment(ctx, orderID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.Log.Warn("payment confirmation skipped, order missing",
					zap.String("order_id", orderID))
			} else {
				writeServiceError(w, err)
				return
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"file": name})
}
