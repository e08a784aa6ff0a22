package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abcretail/retail-orders/internal/queue"
	"github.com/abcretail/retail-orders/internal/store"
)

type memEntities struct {
	data map[string]map[string][]byte
}

func newMemEntities() *memEntities {
	return &memEntities{data: map[string]map[string][]byte{}}
}

func (m *memEntities) Get(ctx context.Context, partition, rowKey string) ([]byte, error) {
	b, ok := m.data[partition][rowKey]
	if !ok {
		return nil, store.ErrNotFound
	}
	return b, nil
}

func (m *memEntities) GetAll(ctx context.Context, partition string) ([][]byte, error) {
	var out [][]byte
	for _, b := range m.data[partition] {
		out = append(out, b)
	}
	return out, nil
}

func (m *memEntities) put(partition, rowKey string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if m.data[partition] == nil {
		m.data[partition] = map[string][]byte{}
	}
	m.data[partition][rowKey] = b
	return nil
}

func (m *memEntities) Insert(ctx context.Context, partition, rowKey string, v any) error {
	return m.put(partition, rowKey, v)
}

func (m *memEntities) Replace(ctx context.Context, partition, rowKey string, v any) error {
	return m.put(partition, rowKey, v)
}

func (m *memEntities) Delete(ctx context.Context, partition, rowKey string) error {
	delete(m.data[partition], rowKey)
	return nil
}

type recordedSend struct {
	queue   string
	payload any
}

type recordingPublisher struct {
	sent []recordedSend
}

func (p *recordingPublisher) Send(queueName string, payload any) {
	p.sent = append(p.sent, recordedSend{queue: queueName, payload: payload})
}

func newTestService() (*Service, *memEntities, *recordingPublisher) {
	me := newMemEntities()
	pub := &recordingPublisher{}
	return &Service{Store: me, Queue: pub}, me, pub
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("persists and announces on stocksinventory", func(t *testing.T) {
		svc, _, pub := newTestService()
		p, err := svc.Create(context.Background(), CreateProductInput{
			Name:           "Widget",
			PriceCents:     1999,
			StockAvailable: 25,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if p.ID == "" {
			t.Fatal("no id assigned")
		}

		got, err := svc.Get(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "Widget" || got.StockAvailable != 25 {
			t.Fatalf("got = %+v", got)
		}

		if len(pub.sent) != 1 || pub.sent[0].queue != queue.StocksInventory {
			t.Fatalf("sent = %+v", pub.sent)
		}
		ev := pub.sent[0].payload.(ProductCreatedEvent)
		if ev.Type != "product-created" || ev.ProductID != p.ID || ev.Stock != 25 || ev.Price != 1999 {
			t.Fatalf("event = %+v", ev)
		}
	})

	t.Run("validation", func(t *testing.T) {
		svc, _, pub := newTestService()
		ctx := context.Background()
		cases := []struct {
			name string
			in   CreateProductInput
			want error
		}{
			{"missing name", CreateProductInput{PriceCents: 100}, ErrNameRequired},
			{"negative price", CreateProductInput{Name: "X", PriceCents: -1}, ErrInvalidPrice},
			{"negative stock", CreateProductInput{Name: "X", StockAvailable: -1}, ErrInvalidStock},
		}
		for _, tc := range cases {
			if _, err := svc.Create(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
			}
		}
		if len(pub.sent) != 0 {
			t.Fatalf("events published on failed create: %d", len(pub.sent))
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()
	svc, _, pub := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Widget", PriceCents: 1000, StockAvailable: 5})
	if err != nil {
		t.Fatal(err)
	}
	pub.sent = nil

	updated, err := svc.Update(ctx, p.ID, UpdateProductInput{
		Name:           "Widget v2",
		PriceCents:     1200,
		StockAvailable: 8,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Widget v2" || updated.StockAvailable != 8 {
		t.Fatalf("updated = %+v", updated)
	}

	if len(pub.sent) != 1 || pub.sent[0].queue != queue.StockUpdates {
		t.Fatalf("sent = %+v", pub.sent)
	}
	ev := pub.sent[0].payload.(ProductUpdatedEvent)
	if ev.Type != "product-updated" || ev.Stock != 8 {
		t.Fatalf("event = %+v", ev)
	}

	if _, err := svc.Update(ctx, "ghost", UpdateProductInput{Name: "X"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing product err = %v", err)
	}
}

func TestAdjustStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cases := []struct {
		name     string
		start    int
		delta    int
		wantCurr int
	}{
		{"deduction within stock", 10, -3, 7},
		{"deduction clamps at zero", 2, -5, 0},
		{"deduction to exactly zero", 3, -3, 0},
		{"restoration", 7, 3, 10},
		{"restoration beyond prior level is not clamped", 0, 5, 5},
		{"zero delta", 4, 0, 4},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, _, _ := newTestService()
			p, err := svc.Create(ctx, CreateProductInput{Name: "Widget", StockAvailable: tc.start})
			if err != nil {
				t.Fatal(err)
			}

			adj, err := svc.AdjustStock(ctx, p.ID, tc.delta)
			if err != nil {
				t.Fatalf("adjust: %v", err)
			}
			if adj.Previous != tc.start || adj.Current != tc.wantCurr {
				t.Fatalf("adjustment = %+v, want previous %d current %d", adj, tc.start, tc.wantCurr)
			}

			got, err := svc.Get(ctx, p.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.StockAvailable != tc.wantCurr {
				t.Fatalf("persisted stock = %d, want %d", got.StockAvailable, tc.wantCurr)
			}
		})
	}

	t.Run("missing product", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService()
		if _, err := svc.AdjustStock(ctx, "ghost", -1); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestSetImageURL(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Widget"})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := svc.SetImageURL(ctx, p.ID, "product-images/abc-widget.png")
	if err != nil {
		t.Fatalf("set image: %v", err)
	}
	if updated.ImageURL != "product-images/abc-widget.png" {
		t.Fatalf("image url = %q", updated.ImageURL)
	}
}
