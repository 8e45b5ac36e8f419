package service

import (
	"context"

	"github.com/alimikegami/ppob-storefront/internal/domain"
	"github.com/alimikegami/ppob-storefront/internal/dto"
	pkgdto "github.com/alimikegami/ppob-storefront/pkg/dto"
)

type CatalogService interface {
	GetPriceList(ctx context.Context, category string, brand string) (items []dto.ProductResponse, err error)
	GetItem(ctx context.Context, buyerSKUCode string) (item domain.CatalogItem, err error)
}

type OrderService interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (resp dto.CheckoutResponse, err error)
	HandlePaymentNotification(ctx context.Context, req dto.PaymentNotification) (result dto.ReconciliationResult, err error)
	GetOrder(ctx context.Context, orderID string) (resp dto.ReceiptResponse, err error)
	GetOrders(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error)
	InquiryPLN(ctx context.Context, req dto.PLNInquiryRequest) (resp dto.InquiryResponse, err error)
	InquiryPostpaid(ctx context.Context, req dto.PostpaidInquiryRequest) (resp dto.InquiryResponse, err error)
	ExpireStaleOrders()
}
