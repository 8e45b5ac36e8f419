package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alimikegami/ppob-storefront/config"
	"github.com/alimikegami/ppob-storefront/internal/domain"
	"github.com/alimikegami/ppob-storefront/internal/dto"
	"github.com/alimikegami/ppob-storefront/internal/pricing"
	"github.com/alimikegami/ppob-storefront/pkg/errs"
	"github.com/stretchr/testify/assert"
)

func testCatalogItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{Category: domain.CategoryCredit, Brand: "TELKOMSEL", ProductName: "Telkomsel 10.000", BasePrice: 10_000, BuyerSKUCode: "tsel10"},
		{Category: domain.CategoryDataBundle, Brand: "TELKOMSEL", ProductName: "Telkomsel Data 5GB", BasePrice: 48_000, BuyerSKUCode: "tseldata5"},
		{Category: domain.CategoryElectricity, Brand: "PLN", ProductName: "Token PLN 50.000", BasePrice: 49_500, BuyerSKUCode: "pln50"},
	}
}

func newTestOrderService(repo *fakeOrderRepository, gateway *fakeGateway, provider *fakeGoodsProvider) OrderService {
	catalog := CreateCatalogService(provider, pricing.NewEngine(0))
	conf := &config.Config{PaymentWindowSec: 3600}
	return CreateOrderService(repo, catalog, gateway, provider, nil, conf)
}

func TestCheckoutComputesChargeAmount(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		chargeResult: domain.ChargeResult{
			TransactionID:     "mt-123",
			TransactionStatus: "pending",
			PaymentType:       "qris",
			QRString:          "00020101021226",
			ExpiryTime:        "2026-09-01 10:00:00",
		},
	}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	resp, err := svc.Checkout(context.Background(), dto.CheckoutRequest{
		BuyerSKUCode:  "tsel10",
		CustomerNo:    "081234567890",
		PaymentMethod: "qris",
		GrossAmount:   1, // advisory, must be ignored
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, int64(11_500), resp.BasePrice)
	assert.Equal(t, int64(81), resp.FeeAmount)
	assert.Equal(t, "Biaya QRIS (0.7%)", resp.FeeLabel)
	assert.Equal(t, int64(11_581), resp.TotalAmount)
	assert.Equal(t, "qris", resp.PaymentType)
	assert.Equal(t, "00020101021226", resp.QRString)

	assert.Equal(t, 1, gateway.chargeCalls)
	assert.Equal(t, int64(11_581), gateway.lastCharged.TotalAmount)

	stored, err := repo.GetOrderByOrderID(context.Background(), resp.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCharged, stored.Status)
	assert.Equal(t, "081234567890", stored.CustomerNo)
}

func TestCheckoutAlfamartFlatFee(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		chargeResult: domain.ChargeResult{
			TransactionID:     "mt-456",
			TransactionStatus: "pending",
			PaymentType:       "cstore",
			PaymentCode:       "812345678901",
		},
	}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	resp, err := svc.Checkout(context.Background(), dto.CheckoutRequest{
		BuyerSKUCode:  "tseldata5",
		CustomerNo:    "081234567890",
		PaymentMethod: "alfamart",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(50_000), resp.BasePrice)
	assert.Equal(t, int64(2_500), resp.FeeAmount)
	assert.Equal(t, int64(52_500), resp.TotalAmount)
	assert.Equal(t, "cstore", gateway.lastCharged.PaymentType)
	assert.Equal(t, "812345678901", resp.PaymentCode)
}

func TestCheckoutDanaRidesOnGopay(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		chargeResult: domain.ChargeResult{TransactionStatus: "pending", PaymentType: "gopay"},
	}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	resp, err := svc.Checkout(context.Background(), dto.CheckoutRequest{
		BuyerSKUCode:  "tsel10",
		CustomerNo:    "081234567890",
		PaymentMethod: "dana",
	})

	assert.NoError(t, err)
	assert.Equal(t, "dana", resp.PaymentMethod)
	assert.Equal(t, "gopay", gateway.lastCharged.PaymentType)
	// dana fee is 5 percent of the marked-up price
	assert.Equal(t, int64(575), resp.FeeAmount)
}

func TestCheckoutValidation(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	tests := []struct {
		name     string
		req      dto.CheckoutRequest
		expected error
	}{
		{
			name:     "missing sku",
			req:      dto.CheckoutRequest{CustomerNo: "081234567890", PaymentMethod: "qris"},
			expected: errs.ErrInvalidOrder,
		},
		{
			name:     "missing customer number",
			req:      dto.CheckoutRequest{BuyerSKUCode: "tsel10", PaymentMethod: "qris"},
			expected: errs.ErrInvalidOrder,
		},
		{
			name:     "customer number too short",
			req:      dto.CheckoutRequest{BuyerSKUCode: "tsel10", CustomerNo: "0812", PaymentMethod: "qris"},
			expected: errs.ErrInvalidOrder,
		},
		{
			name:     "customer number not numeric",
			req:      dto.CheckoutRequest{BuyerSKUCode: "tsel10", CustomerNo: "0812abc567", PaymentMethod: "qris"},
			expected: errs.ErrInvalidOrder,
		},
		{
			name:     "unsupported payment method",
			req:      dto.CheckoutRequest{BuyerSKUCode: "tsel10", CustomerNo: "081234567890", PaymentMethod: "wire-transfer"},
			expected: errs.ErrUnsupportedPaymentMethod,
		},
		{
			name:     "unknown product",
			req:      dto.CheckoutRequest{BuyerSKUCode: "nope", CustomerNo: "081234567890", PaymentMethod: "qris"},
			expected: errs.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, 0, gateway.chargeCalls)
		})
	}
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		chargeResult: domain.ChargeResult{
			TransactionID:     "mt-789",
			TransactionStatus: "pending",
			PaymentType:       "qris",
			QRString:          "00020101021226",
		},
	}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	req := dto.CheckoutRequest{
		OrderID:       "order-replay-1",
		BuyerSKUCode:  "tsel10",
		CustomerNo:    "081234567890",
		PaymentMethod: "qris",
	}

	first, err := svc.Checkout(context.Background(), req)
	assert.NoError(t, err)

	second, err := svc.Checkout(context.Background(), req)
	assert.NoError(t, err)

	// the gateway was only charged once; the retry got the stored payload back
	assert.Equal(t, 1, gateway.chargeCalls)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.TotalAmount, second.TotalAmount)
	assert.Equal(t, first.QRString, second.QRString)
}

func TestCheckoutDuplicateBeforeChargeConflicts(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{chargeErr: errs.WrapGateway("connection reset")}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	req := dto.CheckoutRequest{
		OrderID:       "order-conflict-1",
		BuyerSKUCode:  "tsel10",
		CustomerNo:    "081234567890",
		PaymentMethod: "qris",
	}

	_, err := svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, errs.ErrGateway)

	stored, _ := repo.GetOrderByOrderID(context.Background(), req.OrderID)
	assert.Equal(t, domain.OrderStatusFailed, stored.Status)

	// charges are never retried for the same order id, even after a failure
	_, err = svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, errs.ErrDuplicateOrder)
	assert.Equal(t, 1, gateway.chargeCalls)
}

func seedChargedOrder(t *testing.T, repo *fakeOrderRepository, orderID string) {
	t.Helper()

	err := repo.AddOrder(context.Background(), domain.Order{
		OrderID:       orderID,
		Category:      string(domain.CategoryCredit),
		BuyerSKUCode:  "tsel10",
		ProductName:   "Telkomsel 10.000",
		CustomerNo:    "081234567890",
		BasePrice:     11_500,
		FeeAmount:     81,
		TotalAmount:   11_581,
		PaymentMethod: "qris",
		PaymentType:   "qris",
		Status:        domain.OrderStatusCreated,
	})
	assert.NoError(t, err)

	order, err := repo.GetOrderByOrderID(context.Background(), orderID)
	assert.NoError(t, err)
	order.Status = domain.OrderStatusCreated
	assert.NoError(t, repo.MarkCharged(context.Background(), order))
}

func TestNotificationSettlementFulfillsExactlyOnce(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		status: domain.PaymentStatus{TransactionStatus: "settlement", FraudStatus: "accept"},
	}
	provider := &fakeGoodsProvider{
		priceList:   testCatalogItems(),
		topupResult: domain.FulfillmentResult{Status: "Sukses", ResponseCode: "00", SerialNumber: "SN-0001", Message: "transaksi sukses"},
	}
	svc := newTestOrderService(repo, gateway, provider)

	seedChargedOrder(t, repo, "order-settle-1")

	result, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{OrderID: "order-settle-1"})
	assert.NoError(t, err)
	assert.True(t, result.Fulfilled)
	assert.Equal(t, string(domain.OrderStatusFulfilled), result.Status)
	assert.Equal(t, "SN-0001", result.SerialNumber)
	assert.Equal(t, 1, provider.topupCalls)

	// the delivery carries the stored order's sku and customer number
	assert.Equal(t, "tsel10", provider.lastTopup.BuyerSKUCode)
	assert.Equal(t, "081234567890", provider.lastTopup.CustomerNo)
	assert.True(t, strings.HasPrefix(provider.lastTopup.RefID, "DIGI-"))

	// redelivery of the same notification acknowledges without a second topup
	again, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{OrderID: "order-settle-1"})
	assert.NoError(t, err)
	assert.True(t, again.Fulfilled)
	assert.Equal(t, "SN-0001", again.SerialNumber)
	assert.Equal(t, 1, provider.topupCalls)
}

func TestNotificationBodyIsNotTrusted(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		status: domain.PaymentStatus{TransactionStatus: "pending"},
	}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	seedChargedOrder(t, repo, "order-forged-1")

	// the body claims settlement, but the gateway still says pending
	result, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{
		OrderID:           "order-forged-1",
		TransactionStatus: "settlement",
		FraudStatus:       "accept",
	})

	assert.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.Equal(t, 0, provider.topupCalls)

	stored, _ := repo.GetOrderByOrderID(context.Background(), "order-forged-1")
	assert.Equal(t, domain.OrderStatusCharged, stored.Status)
}

func TestNotificationFraudChallengeTakesNoAction(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		status: domain.PaymentStatus{TransactionStatus: "capture", FraudStatus: "challenge"},
	}
	provider := &fakeGoodsProvider{priceList: testCatalogItems()}
	svc := newTestOrderService(repo, gateway, provider)

	seedChargedOrder(t, repo, "order-fraud-1")

	result, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{OrderID: "order-fraud-1"})
	assert.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.Equal(t, 0, provider.topupCalls)
}

func TestNotificationDenyAndExpire(t *testing.T) {
	tests := []struct {
		name           string
		gatewayStatus  string
		expectedStatus domain.OrderStatus
	}{
		{name: "deny", gatewayStatus: "deny", expectedStatus: domain.OrderStatusFailed},
		{name: "cancel", gatewayStatus: "cancel", expectedStatus: domain.OrderStatusFailed},
		{name: "expire", gatewayStatus: "expire", expectedStatus: domain.OrderStatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepository()
			gateway := &fakeGateway{status: domain.PaymentStatus{TransactionStatus: tt.gatewayStatus}}
			provider := &fakeGoodsProvider{priceList: testCatalogItems()}
			svc := newTestOrderService(repo, gateway, provider)

			seedChargedOrder(t, repo, "order-terminal-1")

			result, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{OrderID: "order-terminal-1"})
			assert.NoError(t, err)
			assert.Equal(t, string(tt.expectedStatus), result.Status)
			assert.Equal(t, 0, provider.topupCalls)

			stored, _ := repo.GetOrderByOrderID(context.Background(), "order-terminal-1")
			assert.Equal(t, tt.expectedStatus, stored.Status)

			// terminal orders are acknowledged without another gateway lookup
			again, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{OrderID: "order-terminal-1"})
			assert.NoError(t, err)
			assert.Equal(t, "order is terminal", again.Message)
		})
	}
}

func TestNotificationFulfillmentFailureKeepsAck(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{
		status: domain.PaymentStatus{TransactionStatus: "settlement", FraudStatus: "accept"},
	}
	provider := &fakeGoodsProvider{
		priceList:   testCatalogItems(),
		topupResult: domain.FulfillmentResult{Status: "Gagal", ResponseCode: "55", Message: "saldo tidak cukup"},
	}
	svc := newTestOrderService(repo, gateway, provider)

	seedChargedOrder(t, repo, "order-fulfail-1")

	// the handler must not surface an error: a non-2xx ack would make the
	// gateway hammer the webhook while the failure needs an operator anyway
	result, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{OrderID: "order-fulfail-1"})
	assert.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.Equal(t, string(domain.OrderStatusFailed), result.Status)
	assert.Equal(t, "saldo tidak cukup", result.Message)

	stored, _ := repo.GetOrderByOrderID(context.Background(), "order-fulfail-1")
	assert.Equal(t, domain.OrderStatusFailed, stored.Status)
	assert.Equal(t, "saldo tidak cukup", *stored.FailureReason)
}

func TestNotificationUnknownOrder(t *testing.T) {
	repo := newFakeOrderRepository()
	svc := newTestOrderService(repo, &fakeGateway{}, &fakeGoodsProvider{priceList: testCatalogItems()})

	_, err := svc.HandlePaymentNotification(context.Background(), dto.PaymentNotification{OrderID: "no-such-order"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetOrderReceipt(t *testing.T) {
	repo := newFakeOrderRepository()
	gateway := &fakeGateway{status: domain.PaymentStatus{TransactionStatus: "pending"}}
	svc := newTestOrderService(repo, gateway, &fakeGoodsProvider{priceList: testCatalogItems()})

	seedChargedOrder(t, repo, "order-receipt-1")

	resp, err := svc.GetOrder(context.Background(), "order-receipt-1")
	assert.NoError(t, err)
	assert.Equal(t, "order-receipt-1", resp.OrderID)
	assert.Equal(t, int64(11_581), resp.TotalAmount)
	assert.Equal(t, string(domain.OrderStatusCharged), resp.Status)
	assert.Equal(t, "pending", resp.TransactionStatus)

	_, err = svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInquiryValidation(t *testing.T) {
	repo := newFakeOrderRepository()
	provider := &fakeGoodsProvider{
		priceList:     testCatalogItems(),
		inquiryResult: dto.InquiryResponse{CustomerName: "BUDI SANTOSO", SubscriberPower: "R1/900VA"},
	}
	svc := newTestOrderService(repo, &fakeGateway{}, provider)

	_, err := svc.InquiryPLN(context.Background(), dto.PLNInquiryRequest{})
	assert.ErrorIs(t, err, errs.ErrInvalidOrder)

	resp, err := svc.InquiryPLN(context.Background(), dto.PLNInquiryRequest{CustomerNo: "123456789012", BuyerSKUCode: "pln50"})
	assert.NoError(t, err)
	assert.Equal(t, "BUDI SANTOSO", resp.CustomerName)

	_, err = svc.InquiryPostpaid(context.Background(), dto.PostpaidInquiryRequest{})
	assert.ErrorIs(t, err, errs.ErrInvalidOrder)
}
