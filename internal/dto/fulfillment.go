package dto

// TransactionRequest is the signed Digiflazz /v1/transaction body. Cmd is only
// set for inquiry calls; topups leave it empty.
type TransactionRequest struct {
	Cmd          string `json:"cmd,omitempty"`
	Username     string `json:"username"`
	BuyerSKUCode string `json:"buyer_sku_code"`
	CustomerNo   string `json:"customer_no"`
	RefID        string `json:"ref_id"`
	Sign         string `json:"sign"`
}

type TransactionData struct {
	RefID           string `json:"ref_id"`
	CustomerNo      string `json:"customer_no"`
	BuyerSKUCode    string `json:"buyer_sku_code"`
	CustomerName    string `json:"customer_name"`
	Status          string `json:"status"`
	RC              string `json:"rc"`
	Message         string `json:"message"`
	SN              string `json:"sn"`
	SellingPrice    int64  `json:"selling_price"`
	SubscriberPower string `json:"subscriber_power"`
	SegmentPower    string `json:"segment_power"`
	Month           string `json:"month"`
	BillAmount      int64  `json:"bill_amount"`
}

type TransactionResponse struct {
	Data    *TransactionData `json:"data"`
	Message string           `json:"message"`
}

// ReconciliationResult is what the webhook handler acknowledges back to the
// gateway once a notification has been verified and acted on.
type ReconciliationResult struct {
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
	Fulfilled    bool   `json:"fulfilled"`
	SerialNumber string `json:"serial_number,omitempty"`
	Message      string `json:"message,omitempty"`
}
