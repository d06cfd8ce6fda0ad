package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartStore interface {
	GetActive(ctx context.Context, userID string) (*models.Cart, error)
	Create(ctx context.Context, userID string) (*models.Cart, error)
	GetItem(ctx context.Context, cartItemID string) (*models.CartItem, error)
	AddItem(ctx context.Context, cartID, itemID string, quantity int) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartItemID string, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, cartItemID string) error
	RemoveItems(ctx context.Context, cartItemIDs []string) error

	// Clear deletes all line items of the user's active cart and marks the
	// cart checked_out, in one transaction.
	Clear(ctx context.Context, userID string) error
}

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetActive(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items.Item").
		Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Create(ctx context.Context, userID string) (*models.Cart, error) {
	cart := &models.Cart{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: models.CartStatusActive,
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *CartRepository) GetItem(ctx context.Context, cartItemID string) (*models.CartItem, error) {
	var cartItem models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Cart").
		Preload("Item").
		Where("id = ?", cartItemID).
		First(&cartItem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &cartItem, nil
}

// AddItem upserts on the (cart, item) unique pair: an existing row gets its
// quantity incremented rather than a duplicate inserted.
func (r *CartRepository) AddItem(ctx context.Context, cartID, itemID string, quantity int) (*models.CartItem, error) {
	var cartItem models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("cart_id = ? AND item_id = ?", cartID, itemID).First(&cartItem).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cartItem = models.CartItem{
				ID:       uuid.NewString(),
				CartID:   cartID,
				ItemID:   itemID,
				Quantity: quantity,
			}
			return tx.Create(&cartItem).Error
		case err != nil:
			return err
		}

		err = tx.Model(&cartItem).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error
		if err != nil {
			return err
		}
		cartItem.Quantity += quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Preload("Item").First(&cartItem, "id = ?", cartItem.ID).Error; err != nil {
		return nil, err
	}
	return &cartItem, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartItemID string, quantity int) (*models.CartItem, error) {
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", cartItemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}
	return r.GetItem(ctx, cartItemID)
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartItemID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", cartItemID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *CartRepository) RemoveItems(ctx context.Context, cartItemIDs []string) error {
	return r.db.WithContext(ctx).Where("id IN ?", cartItemIDs).Delete(&models.CartItem{}).Error
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	cart, err := r.GetActive(ctx, userID)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cart.ID).
			Update("status", models.CartStatusCheckedOut).Error
	})
}
