package redisx

import "time"

const (
	// Current stock read model: stock:{product_id} -> int
	KeyProductStock = "stock:%s"

	// Cache of order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"
)

var TTLStatusCache = 5 * time.Minute
