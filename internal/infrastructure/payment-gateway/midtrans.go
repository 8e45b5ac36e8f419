package paymentgateway

import (
	"context"
	"fmt"

	"github.com/alimikegami/ppob-storefront/config"
	"github.com/alimikegami/ppob-storefront/internal/domain"
	"github.com/alimikegami/ppob-storefront/internal/dto"
	"github.com/alimikegami/ppob-storefront/pkg/errs"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/rs/zerolog/log"
)

// PaymentGateway is the slice of the payment provider the order flow needs:
// one charge per order and an authoritative status lookup for reconciliation.
type PaymentGateway interface {
	Charge(ctx context.Context, order domain.Order, customer dto.CustomerDetails) (domain.ChargeResult, error)
	TransactionStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error)
}

func CreateMidtransClient(config *config.Config) *coreapi.Client {
	midtrans.ServerKey = config.MidtransConfig.ServerKey
	midtrans.Environment = midtrans.Sandbox
	if config.MidtransConfig.Environment == "production" {
		midtrans.Environment = midtrans.Production
	}

	midtransClient := &coreapi.Client{}
	midtransClient.New(midtrans.ServerKey, midtrans.Environment)

	return midtransClient
}

type MidtransGateway struct {
	client  *coreapi.Client
	siteURL string
}

func CreateMidtransGateway(client *coreapi.Client, siteURL string) PaymentGateway {
	return &MidtransGateway{
		client:  client,
		siteURL: siteURL,
	}
}

func (g *MidtransGateway) Charge(ctx context.Context, order domain.Order, customer dto.CustomerDetails) (domain.ChargeResult, error) {
	if order.PaymentType == "ovo" {
		// The typed ChargeReq has no ovo payload, so ovo goes through the
		// map-based charge call with the documented phone_number field.
		return g.chargeOvo(ctx, order, customer)
	}

	items := chargeItems(order)
	chargeReq := &coreapi.ChargeReq{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderID,
			GrossAmt: order.TotalAmount,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FName: customer.FirstName,
			LName: customer.LastName,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		Items: &items,
	}

	switch order.PaymentType {
	case "qris":
		chargeReq.PaymentType = coreapi.PaymentTypeQris
		chargeReq.Qris = &coreapi.QrisDetails{Acquirer: "gopay"}
	case "gopay":
		chargeReq.PaymentType = coreapi.PaymentTypeGopay
		chargeReq.Gopay = &coreapi.GopayDetails{
			EnableCallback: true,
			CallbackUrl:    fmt.Sprintf("%s/payment-status", g.siteURL),
		}
	case "shopeepay":
		chargeReq.PaymentType = coreapi.PaymentTypeShopeepay
		chargeReq.ShopeePay = &coreapi.ShopeePayDetails{
			CallbackUrl: fmt.Sprintf("%s/payment-status", g.siteURL),
		}
	case "cstore":
		chargeReq.PaymentType = coreapi.PaymentTypeConvenienceStore
		chargeReq.ConvStore = &coreapi.ConvStoreDetails{
			Store:   "alfamart",
			Message: "Pembayaran di gerai Alfamart",
		}
	default:
		return domain.ChargeResult{}, errs.ErrUnsupportedPaymentMethod
	}

	response, chargeErr := g.client.ChargeTransaction(chargeReq)
	if chargeErr != nil {
		log.Ctx(ctx).Error().Err(chargeErr).Str("component", "Charge").Str("order_id", order.OrderID).Msg("")
		return domain.ChargeResult{}, errs.WrapGateway(chargeErr.Message)
	}

	if response.StatusCode != "200" && response.StatusCode != "201" {
		return domain.ChargeResult{}, errs.WrapGateway(response.StatusMessage)
	}

	return domain.ChargeResult{
		TransactionID:     response.TransactionID,
		TransactionStatus: response.TransactionStatus,
		PaymentType:       response.PaymentType,
		QRString:          response.QRString,
		PaymentCode:       response.PaymentCode,
		RedirectURL:       redirectURL(response.Actions),
		ExpiryTime:        response.ExpiryTime,
	}, nil
}

func (g *MidtransGateway) chargeOvo(ctx context.Context, order domain.Order, customer dto.CustomerDetails) (domain.ChargeResult, error) {
	req := &coreapi.ChargeReqWithMap{
		"payment_type": "ovo",
		"transaction_details": map[string]interface{}{
			"order_id":     order.OrderID,
			"gross_amount": order.TotalAmount,
		},
		"customer_details": map[string]interface{}{
			"first_name": customer.FirstName,
			"email":      customer.Email,
			"phone":      customer.Phone,
		},
		"ovo": map[string]interface{}{
			"phone_number": order.CustomerNo,
		},
	}

	response, chargeErr := g.client.ChargeTransactionWithMap(req)
	if chargeErr != nil {
		log.Ctx(ctx).Error().Err(chargeErr).Str("component", "chargeOvo").Str("order_id", order.OrderID).Msg("")
		return domain.ChargeResult{}, errs.WrapGateway(chargeErr.Message)
	}

	statusCode := mapString(response, "status_code")
	if statusCode != "200" && statusCode != "201" {
		return domain.ChargeResult{}, errs.WrapGateway(mapString(response, "status_message"))
	}

	return domain.ChargeResult{
		TransactionID:     mapString(response, "transaction_id"),
		TransactionStatus: mapString(response, "transaction_status"),
		PaymentType:       mapString(response, "payment_type"),
		ExpiryTime:        mapString(response, "expiry_time"),
	}, nil
}

func (g *MidtransGateway) TransactionStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error) {
	response, statusErr := g.client.CheckTransaction(orderID)
	if statusErr != nil {
		log.Ctx(ctx).Error().Err(statusErr).Str("component", "TransactionStatus").Str("order_id", orderID).Msg("")
		return domain.PaymentStatus{}, errs.ErrUpstreamUnavailable
	}

	if response.StatusCode == "404" {
		return domain.PaymentStatus{}, errs.ErrNotFound
	}

	return domain.PaymentStatus{
		OrderID:           response.OrderID,
		TransactionID:     response.TransactionID,
		TransactionStatus: response.TransactionStatus,
		FraudStatus:       response.FraudStatus,
		PaymentType:       response.PaymentType,
		GrossAmount:       response.GrossAmount,
		SettlementTime:    response.SettlementTime,
	}, nil
}

// chargeItems splits the charge into product + admin fee rows so the item total
// always matches the gross amount Midtrans validates against.
func chargeItems(order domain.Order) []midtrans.ItemDetails {
	items := []midtrans.ItemDetails{
		{
			ID:    order.BuyerSKUCode,
			Price: order.BasePrice,
			Qty:   1,
			Name:  order.ProductName,
		},
	}

	if order.FeeAmount > 0 {
		items = append(items, midtrans.ItemDetails{
			ID:    "ADMIN-FEE",
			Price: order.FeeAmount,
			Qty:   1,
			Name:  "Biaya Admin",
		})
	}

	return items
}

func redirectURL(actions []coreapi.Action) string {
	for _, action := range actions {
		switch action.Name {
		case "deeplink-redirect", "mobile", "desktop":
			return action.URL
		}
	}

	return ""
}

func mapString(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}
