package service

import (
	"context"
	"sync"

	"github.com/alimikegami/ppob-storefront/internal/domain"
	"github.com/alimikegami/ppob-storefront/internal/dto"
	pkgdto "github.com/alimikegami/ppob-storefront/pkg/dto"
	"github.com/alimikegami/ppob-storefront/pkg/errs"
)

type fakeGoodsProvider struct {
	mu sync.Mutex

	priceList      []domain.CatalogItem
	priceListErr   error
	priceListCalls int

	topupResult domain.FulfillmentResult
	topupErr    error
	topupCalls  int
	lastTopup   dto.TransactionRequest

	inquiryResult dto.InquiryResponse
	inquiryErr    error
}

func (f *fakeGoodsProvider) PriceList(ctx context.Context) ([]domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.priceListCalls++
	if f.priceListErr != nil {
		return nil, f.priceListErr
	}

	items := make([]domain.CatalogItem, len(f.priceList))
	copy(items, f.priceList)
	return items, nil
}

func (f *fakeGoodsProvider) Topup(ctx context.Context, buyerSKUCode, customerNo, refID string) (domain.FulfillmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.topupCalls++
	f.lastTopup = dto.TransactionRequest{
		BuyerSKUCode: buyerSKUCode,
		CustomerNo:   customerNo,
		RefID:        refID,
	}

	if f.topupErr != nil {
		return domain.FulfillmentResult{}, f.topupErr
	}

	result := f.topupResult
	result.RefID = refID
	return result, nil
}

func (f *fakeGoodsProvider) InquiryPLN(ctx context.Context, buyerSKUCode, customerNo, refID string) (dto.InquiryResponse, error) {
	if f.inquiryErr != nil {
		return dto.InquiryResponse{}, f.inquiryErr
	}
	return f.inquiryResult, nil
}

func (f *fakeGoodsProvider) InquiryPostpaid(ctx context.Context, customerNo, refID string) (dto.InquiryResponse, error) {
	if f.inquiryErr != nil {
		return dto.InquiryResponse{}, f.inquiryErr
	}
	return f.inquiryResult, nil
}

type fakeGateway struct {
	mu sync.Mutex

	chargeCalls  int
	lastCharged  domain.Order
	chargeResult domain.ChargeResult
	chargeErr    error

	status    domain.PaymentStatus
	statusErr error
}

func (f *fakeGateway) Charge(ctx context.Context, order domain.Order, customer dto.CustomerDetails) (domain.ChargeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chargeCalls++
	f.lastCharged = order

	if f.chargeErr != nil {
		return domain.ChargeResult{}, f.chargeErr
	}

	return f.chargeResult, nil
}

func (f *fakeGateway) TransactionStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error) {
	if f.statusErr != nil {
		return domain.PaymentStatus{}, f.statusErr
	}

	status := f.status
	status.OrderID = orderID
	return status, nil
}

// fakeOrderRepository is an in-memory stand-in for the Postgres store with the
// same conditional state-transition semantics.
type fakeOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderRepository) AddOrder(ctx context.Context, data domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.orders[data.OrderID]; exists {
		return errs.ErrDuplicateOrder
	}

	stored := data
	f.orders[data.OrderID] = &stored
	return nil
}

func (f *fakeOrderRepository) GetOrderByOrderID(ctx context.Context, orderID string) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, exists := f.orders[orderID]
	if !exists {
		return domain.Order{}, errs.ErrNotFound
	}

	return *order, nil
}

func (f *fakeOrderRepository) MarkCharged(ctx context.Context, data domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, exists := f.orders[data.OrderID]
	if !exists || order.Status != domain.OrderStatusCreated {
		return nil
	}

	data.Status = domain.OrderStatusCharged
	*order = data
	return nil
}

func (f *fakeOrderRepository) ClaimPaid(ctx context.Context, orderID string, paidAt int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, exists := f.orders[orderID]
	if !exists || order.Status != domain.OrderStatusCharged {
		return false, nil
	}

	order.Status = domain.OrderStatusPaid
	order.PaidAt = &paidAt
	return true, nil
}

func (f *fakeOrderRepository) RecordFulfillment(ctx context.Context, orderID string, refID string, serialNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, exists := f.orders[orderID]
	if !exists {
		return errs.ErrNotFound
	}

	order.Status = domain.OrderStatusFulfilled
	order.RefID = &refID
	order.SerialNumber = &serialNumber
	return nil
}

func (f *fakeOrderRepository) RecordFailure(ctx context.Context, orderID string, refID string, reason string, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, exists := f.orders[orderID]
	if !exists {
		return errs.ErrNotFound
	}

	order.Status = status
	order.FailureReason = &reason
	if refID != "" {
		order.RefID = &refID
	}
	return nil
}

func (f *fakeOrderRepository) GetOrders(ctx context.Context, filter pkgdto.Filter) ([]domain.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var orders []domain.Order
	for _, order := range f.orders {
		if filter.Status != "" && string(order.Status) != filter.Status {
			continue
		}
		orders = append(orders, *order)
	}

	return orders, len(orders), nil
}

func (f *fakeOrderRepository) ExpireStaleOrders(ctx context.Context, now int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, order := range f.orders {
		if (order.Status == domain.OrderStatusCreated || order.Status == domain.OrderStatusCharged) && order.ExpiredAt < now {
			order.Status = domain.OrderStatusExpired
			count++
		}
	}

	return count, nil
}
