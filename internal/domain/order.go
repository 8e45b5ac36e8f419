package domain

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusCharged   OrderStatus = "charged"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusExpired   OrderStatus = "expired"
)

type PaymentMethod string

const (
	PaymentMethodQris      PaymentMethod = "qris"
	PaymentMethodGopay     PaymentMethod = "gopay"
	PaymentMethodShopeePay PaymentMethod = "shopeepay"
	PaymentMethodOvo       PaymentMethod = "ovo"
	PaymentMethodDana      PaymentMethod = "dana"
	PaymentMethodAlfamart  PaymentMethod = "alfamart"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodQris, PaymentMethodGopay, PaymentMethodShopeePay,
		PaymentMethodOvo, PaymentMethodDana, PaymentMethodAlfamart:
		return PaymentMethod(s), true
	}
	return "", false
}

type Order struct {
	ID                   int64       `db:"id"`
	OrderID              string      `db:"order_id"`
	Category             string      `db:"category"`
	BuyerSKUCode         string      `db:"buyer_sku_code"`
	ProductName          string      `db:"product_name"`
	CustomerNo           string      `db:"customer_no"`
	BasePrice            int64       `db:"base_price"`
	FeeAmount            int64       `db:"fee_amount"`
	TotalAmount          int64       `db:"total_amount"`
	PaymentMethod        string      `db:"payment_method"`
	PaymentType          string      `db:"payment_type"`
	Status               OrderStatus `db:"status"`
	QRString             *string     `db:"qr_string"`
	PaymentCode          *string     `db:"payment_code"`
	RedirectURL          *string     `db:"redirect_url"`
	GatewayTransactionID *string     `db:"gateway_transaction_id"`
	SerialNumber         *string     `db:"serial_number"`
	FailureReason        *string     `db:"failure_reason"`
	RefID                *string     `db:"ref_id"`
	PaidAt               *int64      `db:"paid_at"`
	ExpiredAt            int64       `db:"expired_at"`
	CreatedAt            int64       `db:"created_at"`
	UpdatedAt            int64       `db:"updated_at"`
	DeletedAt            *int64      `db:"deleted_at"`
}

// ChargeResult is the normalized projection of the gateway's heterogeneous
// per-method charge response. It is derived per request, never persisted as-is.
type ChargeResult struct {
	TransactionID     string
	TransactionStatus string
	PaymentType       string
	QRString          string
	PaymentCode       string
	RedirectURL       string
	ExpiryTime        string
}

// PaymentStatus is the authoritative transaction state fetched from the
// gateway's status endpoint, never taken from a webhook body.
type PaymentStatus struct {
	OrderID           string
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	GrossAmount       string
	SettlementTime    string
}

// FulfillmentResult is the goods provider's verdict for one delivery attempt.
type FulfillmentResult struct {
	RefID        string
	Status       string
	ResponseCode string
	Message      string
	SerialNumber string
	SellingPrice int64
}

func (r FulfillmentResult) Success() bool {
	return r.Status == "Sukses" || r.ResponseCode == "00"
}
