package orders

import "strings"

// Reason codes identify why a stock-update event was emitted. They are
// part of the external queue contract and must not change.
const (
	ReasonReactivated    = "order-status-reactivated"
	ReasonCancelled      = "order-cancelled"
	ReasonSwapRestore    = "order-edit-product-change-restore"
	ReasonSwapDeduct     = "order-edit-product-change-deduct"
	ReasonQuantityChange = "order-edit-quantity-change"
	ReasonDeleted        = "order-deleted"
	ReasonPaymentProof   = "payment-proof-uploaded"
)

// creationReason tags the deduction made for a newly placed order with
// its initial status, e.g. "order-created-submitted".
func creationReason(s Status) string {
	return "order-created-" + strings.ToLower(string(s))
}

// StockUpdateEvent describes one inventory delta on the stock-updates
// queue. change is the requested signed delta; previous/current are the
// stock levels around the (possibly clamped) write.
type StockUpdateEvent struct {
	Type        string `json:"type"` // "stock-update"
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Change      int    `json:"change"`
	Previous    int    `json:"previous"`
	Current     int    `json:"current"`
	Reason      string `json:"reason"`
	OrderID     string `json:"orderId"`
}

// OrderCreatedEvent goes to order-notifications on every order
// placement, regardless of initial status.
type OrderCreatedEvent struct {
	Type        string `json:"type"` // "order-created"
	OrderID     string `json:"orderId"`
	Customer    string `json:"customer"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Total       int64  `json:"total"`
}

// PaymentProofEvent goes to order-notifications when a proof of payment
// is uploaded.
type PaymentProofEvent struct {
	OrderID      string `json:"orderId"`
	CustomerName string `json:"customerName"`
	File         string `json:"file"`
}
