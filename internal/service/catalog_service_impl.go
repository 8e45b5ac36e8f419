package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alimikegami/ppob-storefront/internal/domain"
	"github.com/alimikegami/ppob-storefront/internal/dto"
	goodsprovider "github.com/alimikegami/ppob-storefront/internal/infrastructure/goods-provider"
	"github.com/alimikegami/ppob-storefront/internal/pricing"
	"github.com/alimikegami/ppob-storefront/pkg/errs"
	"github.com/rs/zerolog/log"
)

const catalogTTL = 30 * time.Minute

type CatalogServiceImpl struct {
	provider goodsprovider.GoodsProvider
	pricing  *pricing.Engine
	ttl      time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	refreshMu sync.Mutex
	items     []domain.CatalogItem
	fetchedAt time.Time
}

func CreateCatalogService(provider goodsprovider.GoodsProvider, pricingEngine *pricing.Engine) CatalogService {
	return &CatalogServiceImpl{
		provider: provider,
		pricing:  pricingEngine,
		ttl:      catalogTTL,
		now:      time.Now,
	}
}

func (s *CatalogServiceImpl) GetPriceList(ctx context.Context, category string, brand string) (response []dto.ProductResponse, err error) {
	items, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	category = strings.ToLower(strings.TrimSpace(category))
	brand = strings.ToLower(strings.TrimSpace(brand))

	response = make([]dto.ProductResponse, 0, len(items))
	for _, item := range items {
		if category != "" && string(item.Category) != category {
			continue
		}
		if brand != "" && strings.ToLower(item.Brand) != brand {
			continue
		}

		response = append(response, dto.ProductResponse{
			Category:     string(item.Category),
			Brand:        item.Brand,
			ProductName:  item.ProductName,
			Price:        item.SellPrice,
			BuyerSKUCode: item.BuyerSKUCode,
		})
	}

	return response, nil
}

func (s *CatalogServiceImpl) GetItem(ctx context.Context, buyerSKUCode string) (item domain.CatalogItem, err error) {
	items, err := s.catalog(ctx)
	if err != nil {
		return item, err
	}

	for _, candidate := range items {
		if candidate.BuyerSKUCode == buyerSKUCode {
			return candidate, nil
		}
	}

	return item, errs.ErrProductNotFound
}

// catalog returns the cached price list, refreshing it once the TTL has
// elapsed. The whole list is swapped at once; readers keep seeing the old
// snapshot until the swap, and only one refresh runs at a time.
func (s *CatalogServiceImpl) catalog(ctx context.Context) ([]domain.CatalogItem, error) {
	if items, ok := s.cached(); ok {
		return items, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// a concurrent caller may have refreshed while we waited on the lock
	if items, ok := s.cached(); ok {
		return items, nil
	}

	fresh, err := s.provider.PriceList(ctx)
	if err == nil && len(fresh) == 0 {
		// an empty list would be indistinguishable from "no products"
		err = errs.ErrUpstreamUnavailable
	}
	if err != nil {
		s.mu.RLock()
		stale := s.items
		s.mu.RUnlock()

		if stale != nil {
			log.Ctx(ctx).Warn().Err(err).Str("component", "catalog").Msg("price list refresh failed, serving stale cache")
			return stale, nil
		}

		return nil, err
	}

	for i := range fresh {
		fresh[i].SellPrice = s.pricing.ApplyMarkup(fresh[i].BasePrice)
	}

	s.mu.Lock()
	s.items = fresh
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return fresh, nil
}

func (s *CatalogServiceImpl) cached() ([]domain.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.items == nil || s.now().Sub(s.fetchedAt) >= s.ttl {
		return nil, false
	}

	return s.items, true
}
