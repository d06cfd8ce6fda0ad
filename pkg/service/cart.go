package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"go.uber.org/zap"
)

// CartService manages the per-user pending line items that checkout consumes.
type CartService struct {
	carts  repository.CartStore
	items  repository.ItemStore
	logger *zap.Logger
}

func NewCartService(carts repository.CartStore, items repository.ItemStore, logger *zap.Logger) *CartService {
	return &CartService{
		carts:  carts,
		items:  items,
		logger: logger.Named("cart-service"),
	}
}

// GetCart returns the user's active cart, creating one lazily on first
// access.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetActive(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return s.carts.Create(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem upsert-increments the (cart, item) line. The stock check here is a
// pre-check against the current counter, not a reservation; the authoritative
// check happens under the row lock at checkout.
func (s *CartService) AddItem(ctx context.Context, userID, itemID string, quantity int) (*models.CartItem, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	current := 0
	for _, line := range cart.Items {
		if line.ItemID == itemID {
			current = line.Quantity
			break
		}
	}

	if current+quantity > item.Stock {
		return nil, fmt.Errorf("%w: available stock %d", errs.ErrExceedsStock, item.Stock)
	}

	return s.carts.AddItem(ctx, cart.ID, itemID, quantity)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*models.CartItem, error) {
	cartItem, err := s.carts.GetItem(ctx, cartItemID)
	if err != nil {
		return nil, err
	}

	if cartItem.Cart == nil || cartItem.Cart.UserID != userID {
		return nil, errs.ErrForbidden
	}

	if cartItem.Item != nil && quantity > cartItem.Item.Stock {
		return nil, fmt.Errorf("%w: available stock %d", errs.ErrExceedsStock, cartItem.Item.Stock)
	}

	return s.carts.UpdateItemQuantity(ctx, cartItemID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID string) error {
	cartItem, err := s.carts.GetItem(ctx, cartItemID)
	if err != nil {
		return err
	}

	if cartItem.Cart == nil || cartItem.Cart.UserID != userID {
		return errs.ErrForbidden
	}

	return s.carts.RemoveItem(ctx, cartItemID)
}

func (s *CartService) RemoveItems(ctx context.Context, cartItemIDs []string) error {
	return s.carts.RemoveItems(ctx, cartItemIDs)
}

// Clear empties the active cart. It also flips the cart to checked_out even
// when called outside checkout; longstanding behavior that clients rely on.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}
