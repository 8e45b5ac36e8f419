package repository

import (
	"context"

	"github.com/alimikegami/ppob-storefront/internal/domain"
	pkgdto "github.com/alimikegami/ppob-storefront/pkg/dto"
)

type OrderRepository interface {
	AddOrder(ctx context.Context, data domain.Order) (err error)
	GetOrderByOrderID(ctx context.Context, orderID string) (data domain.Order, err error)

	// MarkCharged stores the normalized charge payload and moves the order from
	// created to charged.
	MarkCharged(ctx context.Context, data domain.Order) (err error)

	// ClaimPaid atomically moves charged -> paid and reports whether this call
	// won the claim. A false return means another delivery already did.
	ClaimPaid(ctx context.Context, orderID string, paidAt int64) (claimed bool, err error)

	RecordFulfillment(ctx context.Context, orderID string, refID string, serialNumber string) (err error)
	RecordFailure(ctx context.Context, orderID string, refID string, reason string, status domain.OrderStatus) (err error)

	GetOrders(ctx context.Context, filter pkgdto.Filter) (data []domain.Order, total int, err error)
	ExpireStaleOrders(ctx context.Context, now int64) (count int64, err error)
}
