package dto

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// CheckoutRequest is one checkout attempt. GrossAmount is advisory only: the
// charge amount is always recomputed from the catalog price plus the fee table.
type CheckoutRequest struct {
	OrderID         string          `json:"order_id"`
	BuyerSKUCode    string          `json:"buyer_sku_code"`
	CustomerNo      string          `json:"customer_no"`
	PaymentMethod   string          `json:"payment_method"`
	GrossAmount     int64           `json:"gross_amount"`
	CustomerDetails CustomerDetails `json:"customer_details"`
}

type CheckoutResponse struct {
	OrderID           string `json:"order_id"`
	ProductName       string `json:"product_name"`
	BasePrice         int64  `json:"base_price"`
	FeeAmount         int64  `json:"fee_amount"`
	FeeLabel          string `json:"fee_label"`
	TotalAmount       int64  `json:"total_amount"`
	PaymentMethod     string `json:"payment_method"`
	PaymentType       string `json:"payment_type"`
	TransactionStatus string `json:"transaction_status"`
	QRString          string `json:"qr_string,omitempty"`
	PaymentCode       string `json:"payment_code,omitempty"`
	RedirectURL       string `json:"redirect_url,omitempty"`
	ExpiredAt         string `json:"expired_at,omitempty"`
}
