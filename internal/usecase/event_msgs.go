package usecase

// Published to RabbitMQ once an order is paid and persisted.
type OrderPaidMsg struct {
	OrderID        string `json:"orderId"`
	UserID         string `json:"userId"`
	RestaurantID   string `json:"restaurantId"`
	TotalCents     int64  `json:"totalCents"`
	Currency       string `json:"currency"`
	GatewayOrderID string `json:"gatewayOrderId"`
}

// Sent by the fulfilment side on Kafka when a kitchen/courier moves an order.
type DeliveryStatusChangedMsg struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"` // e.g. "PREPARING", "ON_THE_WAY", "DELIVERED"
}
