package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemFilter struct {
	CategorySlug string
	Search       string
	Page         int
	PageSize     int
}

// ItemStore is the catalog read access plus the single stock mutation path.
type ItemStore interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetBySlug(ctx context.Context, slug string) (*models.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error)

	// ReserveStock locks the item row for the duration of tx, verifies
	// stock >= quantity and decrements it as one atomic step relative to
	// other lockers. Returns the locked item so callers can snapshot the
	// price observed under the lock.
	ReserveStock(tx *gorm.DB, itemID string, quantity int) (*models.Item, error)
}

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Item{}).Preload("Category")

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN item_categories ON item_categories.id = items.item_category_id").
			Where("item_categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("items.title LIKE ? OR items.author LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var items []models.Item
	err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ItemRepository) ReserveStock(tx *gorm.DB, itemID string, quantity int) (*models.Item, error) {
	var item models.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock item %s: %w", itemID, err)
	}

	if item.Stock < quantity {
		return nil, &errs.InsufficientStockError{
			ItemID:    item.ID,
			ItemTitle: item.Title,
			Available: item.Stock,
			Requested: quantity,
		}
	}

	err = tx.Model(&models.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock for item %s: %w", itemID, err)
	}

	item.Stock -= quantity
	return &item, nil
}
