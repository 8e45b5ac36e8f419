package dto

type PLNInquiryRequest struct {
	CustomerNo   string `json:"customer_no"`
	BuyerSKUCode string `json:"buyer_sku_code"`
}

type PostpaidInquiryRequest struct {
	CustomerNo string `json:"customer_no"`
}

// InquiryResponse carries customer metadata back from a non-charging inquiry.
type InquiryResponse struct {
	RefID           string `json:"ref_id"`
	CustomerNo      string `json:"customer_no"`
	CustomerName    string `json:"customer_name"`
	MeterNo         string `json:"meter_no"`
	SubscriberPower string `json:"subscriber_power"`
	Month           string `json:"month,omitempty"`
	BillAmount      int64  `json:"bill_amount,omitempty"`
	Message         string `json:"message,omitempty"`
}
