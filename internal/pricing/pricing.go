package pricing

import "github.com/alimikegami/ppob-storefront/internal/domain"

// Markup tiers over the provider's wholesale price. All amounts are rupiah.
const (
	tierOneMax    = 25_000
	tierTwoMax    = 50_000
	tierOneMarkup = 1_500
	tierTwoMarkup = 2_000

	// DefaultHighTierMarkup is used when MARKUP_HIGH_TIER is unset.
	DefaultHighTierMarkup = 5_000

	roundingStep = 500
)

// Engine applies the markup policy. Fee computation is stateless and lives on
// ComputeFee; only the high-tier markup is configurable.
type Engine struct {
	highTierMarkup int64
}

func NewEngine(highTierMarkup int64) *Engine {
	if highTierMarkup <= 0 {
		highTierMarkup = DefaultHighTierMarkup
	}

	return &Engine{highTierMarkup: highTierMarkup}
}

// ApplyMarkup returns the retail price for a wholesale price: tiered additive
// markup, then rounded up to the nearest 500.
func (e *Engine) ApplyMarkup(basePrice int64) int64 {
	if basePrice < 0 {
		basePrice = 0
	}

	var markup int64
	switch {
	case basePrice <= tierOneMax:
		markup = tierOneMarkup
	case basePrice <= tierTwoMax:
		markup = tierTwoMarkup
	default:
		markup = e.highTierMarkup
	}

	price := basePrice + markup

	return (price + roundingStep - 1) / roundingStep * roundingStep
}

// ComputeFee returns the payment-method transaction fee for a charge amount
// plus the label shown on the checkout summary. Unknown methods carry no fee.
func ComputeFee(amount int64, method domain.PaymentMethod) (int64, string) {
	if amount < 0 {
		amount = 0
	}

	switch method {
	case domain.PaymentMethodQris:
		return ceilDiv(amount*7, 1000), "Biaya QRIS (0.7%)"
	case domain.PaymentMethodGopay, domain.PaymentMethodOvo, domain.PaymentMethodDana:
		return ceilDiv(amount*5, 100), "Biaya E-Wallet (5%)"
	case domain.PaymentMethodShopeePay:
		return ceilDiv(amount*4, 100), "Biaya ShopeePay (4%)"
	case domain.PaymentMethodAlfamart:
		return 2_500, "Biaya Alfamart"
	default:
		return 0, "Tanpa Biaya Admin"
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
