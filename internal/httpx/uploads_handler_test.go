package httpx

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abcretail/retail-orders/internal/orders"
	"github.com/abcretail/retail-orders/internal/queue"
	"github.com/abcretail/retail-orders/internal/store"
)

type fakeBlobStore struct {
	uploaded map[string][]byte
}

func (f *fakeBlobStore) Upload(ctx context.Context, container, filename string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	name := container + "/" + filename
	f.uploaded[name] = b
	return filename, nil
}

type fakeConfirmer struct {
	confirmed []string
	err       error
}

func (f *fakeConfirmer) ConfirmPayment(ctx context.Context, orderID string) (orders.Order, error) {
	if f.err != nil {
		return orders.Order{}, f.err
	}
	f.confirmed = append(f.confirmed, orderID)
	return orders.Order{ID: orderID, Status: orders.StatusProcessing}, nil
}

type capturingPublisher struct {
	sent []struct {
		queue   string
		payload any
	}
}

func (p *capturingPublisher) Send(queueName string, payload any) {
	p.sent = append(p.sent, struct {
		queue   string
		payload any
	}{queueName, payload})
}

func proofForm(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if withFile {
		fw, err := mw.CreateFormFile("proof_of_payment", "proof.pdf")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("%PDF-1.4 test")); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	t.Parallel()

	t.Run("stores, notifies and confirms payment", func(t *testing.T) {
		t.Parallel()
		blobStore := &fakeBlobStore{}
		confirmer := &fakeConfirmer{}
		pub := &capturingPublisher{}
		h := &UploadsHandler{Blob: blobStore, Confirmer: confirmer, Queue: pub, Log: zap.NewNop()}
		r := chi.NewRouter()
		h.Register(r)

		body, contentType := proofForm(t, map[string]string{
			"order_id":      "o1",
			"customer_name": "Thandi",
		}, true)
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		if len(blobStore.uploaded) != 1 {
			t.Fatalf("uploads = %v", blobStore.uploaded)
		}
		if len(confirmer.confirmed) != 1 || confirmer.confirmed[0] != "o1" {
			t.Fatalf("confirmed = %v", confirmer.confirmed)
		}
		if len(pub.sent) != 1 || pub.sent[0].queue != queue.OrderNotifications {
			t.Fatalf("sent = %+v", pub.sent)
		}
		ev := pub.sent[0].payload.(orders.PaymentProofEvent)
		if ev.OrderID != "o1" || ev.CustomerName != "Thandi" || ev.File == "" {
			t.Fatalf("event = %+v", ev)
		}
	})

	t.Run("missing file is rejected", func(t *testing.T) {
		t.Parallel()
		h := &UploadsHandler{Blob: &fakeBlobStore{}, Confirmer: &fakeConfirmer{}, Queue: &capturingPublisher{}, Log: zap.NewNop()}
		r := chi.NewRouter()
		h.Register(r)

		body, contentType := proofForm(t, map[string]string{"order_id": "o1"}, false)
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("missing order still accepts the upload", func(t *testing.T) {
		t.Parallel()
		pub := &capturingPublisher{}
		h := &UploadsHandler{
			Blob:      &fakeBlobStore{},
			Confirmer: &fakeConfirmer{err: store.ErrNotFound},
			Queue:     pub,
			Log:       zap.NewNop(),
		}
		r := chi.NewRouter()
		h.Register(r)

		body, contentType := proofForm(t, map[string]string{"order_id": "ghost"}, true)
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		if len(pub.sent) != 1 {
			t.Fatalf("sent = %+v", pub.sent)
		}
	})

	t.Run("no order id skips confirmation", func(t *testing.T) {
		t.Parallel()
		confirmer := &fakeConfirmer{}
		h := &UploadsHandler{Blob: &fakeBlobStore{}, Confirmer: confirmer, Queue: &capturingPublisher{}, Log: zap.NewNop()}
		r := chi.NewRouter()
		h.Register(r)

		body, contentType := proofForm(t, map[string]string{"customer_name": "Thandi"}, true)
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if len(confirmer.confirmed) != 0 {
			t.Fatalf("confirmed = %v", confirmer.confirmed)
		}
	})
}
