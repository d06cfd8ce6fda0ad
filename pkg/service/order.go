package service

import (
	"context"
	"errors"
	"sort"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutRequest carries the order metadata supplied by the client.
type CheckoutRequest struct {
	Address string
	Note    string
}

type orderLine struct {
	itemID   string
	quantity int
}

// OrderService turns cart contents or a direct product purchase into a
// persisted order, decrementing stock inside one transaction.
type OrderService struct {
	tx     repository.TxRunner
	carts  repository.CartStore
	items  repository.ItemStore
	orders repository.OrderStore
	cache  ItemCache
	logger *zap.Logger
}

func NewOrderService(
	tx repository.TxRunner,
	carts repository.CartStore,
	items repository.ItemStore,
	orders repository.OrderStore,
	cache ItemCache,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		tx:     tx,
		carts:  carts,
		items:  items,
		orders: orders,
		cache:  cache,
		logger: logger.Named("order-service"),
	}
}

// CreateFromCart converts every line of the active cart into an order. The
// cart is cleared after the order commits; a crash in between leaves a stale
// cart behind rather than a lost order.
func (s *OrderService) CreateFromCart(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	cart, err := s.carts.GetActive(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, errs.ErrEmptyCart
	}

	lines := make([]orderLine, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		lines = append(lines, orderLine{itemID: cartItem.ItemID, quantity: cartItem.Quantity})
	}

	order, err := s.createOrder(ctx, userID, lines, req)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	return order, nil
}

// CreateFromProduct orders a single product directly, without a cart.
func (s *OrderService) CreateFromProduct(ctx context.Context, userID, itemID string, quantity int, req CheckoutRequest) (*models.Order, error) {
	if quantity <= 0 {
		quantity = 1
	}
	return s.createOrder(ctx, userID, []orderLine{{itemID: itemID, quantity: quantity}}, req)
}

// createOrder reserves stock for every line and persists the order in one
// transaction; any failed reservation rolls the whole thing back. Lines are
// locked in ascending item-id order so two overlapping checkouts cannot
// deadlock on each other.
func (s *OrderService) createOrder(ctx context.Context, userID string, lines []orderLine, req CheckoutRequest) (*models.Order, error) {
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].itemID < lines[j].itemID
	})

	var order *models.Order
	touched := make([]*models.Item, 0, len(lines))

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		orderItems := make([]models.OrderItem, 0, len(lines))
		var total int64

		for _, line := range lines {
			item, err := s.items.ReserveStock(tx, line.itemID, line.quantity)
			if err != nil {
				return err
			}
			touched = append(touched, item)

			orderItems = append(orderItems, models.OrderItem{
				ID:       uuid.NewString(),
				ItemID:   item.ID,
				Quantity: line.quantity,
				Price:    item.Price, // snapshot under the lock
			})
			total += item.Price * int64(line.quantity)
		}

		order = &models.Order{
			ID:          uuid.NewString(),
			UserID:      userID,
			Status:      models.OrderStatusPending,
			TotalAmount: total,
			Address:     req.Address,
			Note:        req.Note,
			Items:       orderItems,
		}
		return s.orders.CreateInTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Int("item_count", len(order.Items)))

	if s.cache != nil {
		for _, item := range touched {
			if err := s.cache.InvalidateItem(ctx, item.ID, item.Slug); err != nil {
				s.logger.Warn("Failed to invalidate item cache", zap.String("item_id", item.ID), zap.Error(err))
			}
		}
	}

	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return s.orders.GetByUser(ctx, userID, orderID)
}
