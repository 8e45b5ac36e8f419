package domain

import "strings"

type Category string

const (
	CategoryCredit      Category = "credit"
	CategoryDataBundle  Category = "data-bundle"
	CategoryElectricity Category = "electricity"
	CategoryEWallet     Category = "e-wallet"
	CategoryGameVoucher Category = "game-voucher"
)

// CategoryFromProvider maps the goods provider's category labels onto ours.
// Unknown labels pass through lowercased so new provider categories still list.
func CategoryFromProvider(s string) Category {
	switch strings.ToLower(s) {
	case "pulsa":
		return CategoryCredit
	case "data":
		return CategoryDataBundle
	case "pln":
		return CategoryElectricity
	case "e-money":
		return CategoryEWallet
	case "games", "voucher game":
		return CategoryGameVoucher
	}
	return Category(strings.ToLower(s))
}

// CatalogItem is one purchasable SKU from the goods provider. SellPrice is the
// marked-up retail price; BasePrice is the provider's wholesale price and is
// never exposed to clients.
type CatalogItem struct {
	Category     Category
	Brand        string
	ProductName  string
	BasePrice    int64
	SellPrice    int64
	BuyerSKUCode string
}
