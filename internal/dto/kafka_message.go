package dto

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

// OrderEvent is published to the operator topic on fulfillment outcomes so
// paid-but-undelivered orders never disappear into logs.
type OrderEvent struct {
	OrderID      string `json:"order_id"`
	BuyerSKUCode string `json:"buyer_sku_code"`
	CustomerNo   string `json:"customer_no"`
	TotalAmount  int64  `json:"total_amount"`
	Status       string `json:"status"`
	SerialNumber string `json:"serial_number,omitempty"`
	Reason       string `json:"reason,omitempty"`
	OccurredAt   int64  `json:"occurred_at"`
}
