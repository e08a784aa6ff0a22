package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type fakeCache struct {
	levels map[string]int
	err    error
}

func (f *fakeCache) SetStock(ctx context.Context, productID string, stock int) error {
	if f.err != nil {
		return f.err
	}
	if f.levels == nil {
		f.levels = map[string]int{}
	}
	f.levels[productID] = stock
	return nil
}

func TestHandle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		payload   string
		wantLevel int
		cached    bool
	}{
		{
			name:      "stock-update uses current",
			payload:   `{"type":"stock-update","productId":"p1","change":-3,"previous":10,"current":7,"reason":"order-created-submitted","orderId":"o1"}`,
			wantLevel: 7,
			cached:    true,
		},
		{
			name:      "product-created uses stock",
			payload:   `{"type":"product-created","productId":"p2","productName":"Widget","stock":25,"price":1999}`,
			wantLevel: 25,
			cached:    true,
		},
		{
			name:      "product-updated uses stock",
			payload:   `{"type":"product-updated","productId":"p3","productName":"Widget","stock":8}`,
			wantLevel: 8,
			cached:    true,
		},
		{
			name:    "unknown type ignored",
			payload: `{"type":"order-created","productId":"p4","quantity":2}`,
		},
		{
			name:    "missing product id ignored",
			payload: `{"type":"stock-update","current":5}`,
		},
		{
			name:    "malformed payload committed without caching",
			payload: `{"type":"stock-update",`,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cache := &fakeCache{}
			svc := &Service{Cache: cache, Log: zap.NewNop()}

			err := svc.Handle(context.Background(), kafka.Message{
				Topic: "stock-updates",
				Value: []byte(tc.payload),
			})
			if err != nil {
				t.Fatalf("handle: %v", err)
			}

			if !tc.cached {
				if len(cache.levels) != 0 {
					t.Fatalf("unexpected cache writes: %v", cache.levels)
				}
				return
			}
			if len(cache.levels) != 1 {
				t.Fatalf("cache writes = %v, want one entry", cache.levels)
			}
			for _, level := range cache.levels {
				if level != tc.wantLevel {
					t.Fatalf("cached level = %d, want %d", level, tc.wantLevel)
				}
			}
		})
	}

	t.Run("cache failure propagates for redelivery", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("redis down")
		svc := &Service{Cache: &fakeCache{err: wantErr}, Log: zap.NewNop()}

		err := svc.Handle(context.Background(), kafka.Message{
			Value: []byte(`{"type":"stock-update","productId":"p1","current":3}`),
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
	})
}
