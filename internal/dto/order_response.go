package dto

type OrderResponse struct {
	OrderID           string `json:"order_id"`
	Category          string `json:"category"`
	ProductName       string `json:"product_name"`
	CustomerNo        string `json:"customer_no"`
	TotalAmount       int64  `json:"total_amount"`
	PaymentMethod     string `json:"payment_method"`
	Status            string `json:"status"`
	SerialNumber      string `json:"serial_number,omitempty"`
	FailureReason     string `json:"failure_reason,omitempty"`
	TransactionStatus string `json:"transaction_status,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// ReceiptResponse backs the payment-status page after checkout.
type ReceiptResponse struct {
	OrderID           string `json:"order_id"`
	ProductName       string `json:"product_name"`
	CustomerNo        string `json:"customer_no"`
	BasePrice         int64  `json:"base_price"`
	FeeAmount         int64  `json:"fee_amount"`
	TotalAmount       int64  `json:"gross_amount"`
	PaymentMethod     string `json:"payment_method"`
	PaymentType       string `json:"payment_type"`
	Status            string `json:"status"`
	TransactionStatus string `json:"transaction_status,omitempty"`
	SerialNumber      string `json:"serial_number,omitempty"`
	TransactionTime   string `json:"transaction_time"`
}
