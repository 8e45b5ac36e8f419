package dto

// PriceListRequest is the signed Digiflazz price-list request body.
type PriceListRequest struct {
	Cmd      string `json:"cmd"`
	Username string `json:"username"`
	Sign     string `json:"sign"`
}

type PriceListItem struct {
	Category     string      `json:"category"`
	Brand        string      `json:"brand"`
	ProductName  string      `json:"product_name"`
	Price        interface{} `json:"price"`
	BuyerSKUCode string      `json:"buyer_sku_code"`
}

type PriceListResponse struct {
	Data []PriceListItem `json:"data"`
}

// ProductResponse is one catalog entry as shown to storefront clients. Price is
// the retail (marked-up) price.
type ProductResponse struct {
	Category     string `json:"category"`
	Brand        string `json:"brand"`
	ProductName  string `json:"product_name"`
	Price        int64  `json:"price"`
	BuyerSKUCode string `json:"buyer_sku_code"`
}
