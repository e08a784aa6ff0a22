// Package inventory consumes the stock feed queues and maintains a
// Redis read model of current stock per product.
package inventory

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type StockCache interface {
	SetStock(ctx context.Context, productID string, stock int) error
}

type Service struct {
	Cache StockCache
	Log   *zap.Logger
}

// stockMessage covers the three payload shapes seen on the feed:
// stock-update carries current, product-created/-updated carry stock.
type stockMessage struct {
	Type      string `json:"type"`
	ProductID string `json:"productId"`
	Current   int    `json:"current"`
	Stock     int    `json:"stock"`
}

// Handle is installed as the consumer handler for both the
// stock-updates and stocksinventory queues. Cache writes are idempotent
// sets, so redelivered messages are harmless. Malformed payloads are
// logged and committed rather than retried forever.
func (s *Service) Handle(ctx context.Context, m kafka.Message) error {
	var msg stockMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		s.Log.Warn("discarding malformed stock message",
			zap.String("queue", m.Topic),
			zap.Error(err))
		return nil
	}
	if msg.ProductID == "" {
		return nil
	}

	var level int
	switch msg.Type {
	case "stock-update":
		level = msg.Current
	case "product-created", "product-updated":
		level = msg.Stock
	default:
		return nil
	}

	if err := s.Cache.SetStock(ctx, msg.ProductID, level); err != nil {
		return err
	}
	s.Log.Info("stock level cached",
		zap.String("product_id", msg.ProductID),
		zap.Int("stock", level),
		zap.String("type", msg.Type))
	return nil
}
