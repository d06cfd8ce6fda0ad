package service

import (
	"context"

	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"go.uber.org/zap"
)

// ItemCache is the read-through cache in front of the catalog. Implemented by
// the redis repository; nil disables caching.
type ItemCache interface {
	CacheItem(ctx context.Context, item *models.Item) error
	GetItemCache(ctx context.Context, itemID string) (*models.Item, error)
	GetItemCacheBySlug(ctx context.Context, slug string) (*models.Item, error)
	InvalidateItem(ctx context.Context, itemID, slug string) error
}

// ItemService is the read-only catalog access consumed by the cart and order
// modules. Stock mutation stays behind the reservation path.
type ItemService struct {
	items  repository.ItemStore
	cache  ItemCache
	logger *zap.Logger
}

func NewItemService(items repository.ItemStore, cache ItemCache, logger *zap.Logger) *ItemService {
	return &ItemService{
		items:  items,
		cache:  cache,
		logger: logger.Named("item-service"),
	}
}

func (s *ItemService) GetByID(ctx context.Context, id string) (*models.Item, error) {
	if s.cache != nil {
		if item, err := s.cache.GetItemCache(ctx, id); err == nil {
			return item, nil
		}
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheItem(ctx, item); err != nil {
			s.logger.Warn("Failed to cache item", zap.String("item_id", id), zap.Error(err))
		}
	}
	return item, nil
}

func (s *ItemService) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	if s.cache != nil {
		if item, err := s.cache.GetItemCacheBySlug(ctx, slug); err == nil {
			return item, nil
		}
	}

	item, err := s.items.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheItem(ctx, item); err != nil {
			s.logger.Warn("Failed to cache item", zap.String("slug", slug), zap.Error(err))
		}
	}
	return item, nil
}

func (s *ItemService) List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, int64, error) {
	return s.items.List(ctx, filter)
}
