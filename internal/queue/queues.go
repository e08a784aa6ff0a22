package queue

// Queue names are part of the external contract; downstream consumers
// subscribe to these topics by name.
const (
	OrderNotifications = "order-notifications"
	StockUpdates       = "stock-updates"
	StocksInventory    = "stocksinventory"
)
