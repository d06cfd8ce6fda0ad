package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/gateway"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stores backing the service tests. The tx runner serializes
// "transactions" with a mutex and rolls stock back when the callback fails,
// mirroring the commit/rollback contract of the real database.

type fakeTxRunner struct {
	mu    sync.Mutex
	items *fakeItemStore
}

func (r *fakeTxRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.items.snapshotStocks()
	if err := fn(nil); err != nil {
		r.items.restoreStocks(snapshot)
		return err
	}
	return nil
}

type fakeItemStore struct {
	mu    sync.Mutex
	items map[string]*models.Item
}

func newFakeItemStore(items ...*models.Item) *fakeItemStore {
	s := &fakeItemStore{items: make(map[string]*models.Item)}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *fakeItemStore) snapshotStocks() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	stocks := make(map[string]int, len(s.items))
	for id, item := range s.items {
		stocks[id] = item.Stock
	}
	return stocks
}

func (s *fakeItemStore) restoreStocks(stocks map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, stock := range stocks {
		if item, ok := s.items[id]; ok {
			item.Stock = stock
		}
	}
}

func (s *fakeItemStore) GetByID(ctx context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *fakeItemStore) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Slug == slug {
			copied := *item
			return &copied, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s *fakeItemStore) List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	return items, int64(len(items)), nil
}

func (s *fakeItemStore) ReserveStock(tx *gorm.DB, itemID string, quantity int) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if item.Stock < quantity {
		return nil, &errs.InsufficientStockError{
			ItemID:    item.ID,
			ItemTitle: item.Title,
			Available: item.Stock,
			Requested: quantity,
		}
	}
	item.Stock -= quantity
	copied := *item
	return &copied, nil
}

type fakeCartStore struct {
	mu        sync.Mutex
	carts     map[string]*models.Cart // by user id, active cart
	clearCnt  int
	clearFail bool
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*models.Cart)}
}

func (s *fakeCartStore) seed(userID string, items ...models.CartItem) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := &models.Cart{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: models.CartStatusActive,
		Items:  items,
	}
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
		cart.Items[i].Cart = cart
	}
	s.carts[userID] = cart
	return cart
}

func (s *fakeCartStore) GetActive(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok || cart.Status != models.CartStatusActive {
		return nil, errs.ErrNotFound
	}
	return cart, nil
}

func (s *fakeCartStore) Create(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := &models.Cart{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: models.CartStatusActive,
	}
	s.carts[userID] = cart
	return cart, nil
}

func (s *fakeCartStore) GetItem(ctx context.Context, cartItemID string) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == cartItemID {
				return &cart.Items[i], nil
			}
		}
	}
	return nil, errs.ErrNotFound
}

func (s *fakeCartStore) AddItem(ctx context.Context, cartID, itemID string, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ItemID == itemID {
				cart.Items[i].Quantity += quantity
				return &cart.Items[i], nil
			}
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:       uuid.NewString(),
			CartID:   cartID,
			ItemID:   itemID,
			Quantity: quantity,
			Cart:     cart,
		})
		return &cart.Items[len(cart.Items)-1], nil
	}
	return nil, errs.ErrNotFound
}

func (s *fakeCartStore) UpdateItemQuantity(ctx context.Context, cartItemID string, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == cartItemID {
				cart.Items[i].Quantity = quantity
				return &cart.Items[i], nil
			}
		}
	}
	return nil, errs.ErrNotFound
}

func (s *fakeCartStore) RemoveItem(ctx context.Context, cartItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == cartItemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return errs.ErrNotFound
}

func (s *fakeCartStore) RemoveItems(ctx context.Context, cartItemIDs []string) error {
	for _, id := range cartItemIDs {
		if err := s.RemoveItem(ctx, id); err != nil && err != errs.ErrNotFound {
			return err
		}
	}
	return nil
}

func (s *fakeCartStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCnt++
	if s.clearFail {
		return fmt.Errorf("simulated clear failure")
	}
	cart, ok := s.carts[userID]
	if !ok || cart.Status != models.CartStatusActive {
		return errs.ErrNotFound
	}
	cart.Items = nil
	cart.Status = models.CartStatusCheckedOut
	return nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: make(map[string]*models.Order)}
	for _, order := range orders {
		s.orders[order.ID] = order
	}
	return s
}

func (s *fakeOrderStore) CreateInTx(tx *gorm.DB, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = order
	return nil
}

func (s *fakeOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (s *fakeOrderStore) GetByUser(ctx context.Context, userID, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, errs.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, orderID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return errs.ErrNotFound
	}
	order.Status = status
	return nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakePaymentStore struct {
	mu       sync.Mutex
	payments map[string]*models.Payment // by payment reference
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *fakePaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payments[payment.PaymentReference]; exists {
		return fmt.Errorf("duplicate payment reference %s", payment.PaymentReference)
	}
	copied := *payment
	s.payments[payment.PaymentReference] = &copied
	return nil
}

func (s *fakePaymentStore) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[reference]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *payment
	return &copied, nil
}

func (s *fakePaymentStore) FindPendingByOrder(ctx context.Context, orderID, gatewayName string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, payment := range s.payments {
		if payment.OrderID == orderID && payment.Gateway == gatewayName && payment.Status == models.PaymentStatusPending {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s *fakePaymentStore) ListPending(ctx context.Context, limit int) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []models.Payment
	for _, payment := range s.payments {
		if payment.Status == models.PaymentStatusPending && len(pending) < limit {
			pending = append(pending, *payment)
		}
	}
	return pending, nil
}

func (s *fakePaymentStore) UpdateByReference(ctx context.Context, reference string, updates map[string]interface{}) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[reference]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if v, ok := updates["status"].(string); ok {
		payment.Status = v
	}
	if v, ok := updates["payment_method"].(string); ok {
		payment.PaymentMethod = v
	}
	if v, ok := updates["payment_url"].(string); ok {
		payment.PaymentURL = v
	}
	if v, ok := updates["meta"].(string); ok {
		payment.Meta = v
	}
	copied := *payment
	return &copied, nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if s == nil || s.users == nil {
		return nil, errs.ErrNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return user, nil
}

// fakeGateway speaks the midtrans payload dialect for webhook extraction.
type fakeGateway struct {
	mu        sync.Mutex
	name      string
	createErr error
	calls     int
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) CreatePayment(ctx context.Context, externalID string, amount int64, opts gateway.ChargeOptions) (*gateway.ChargeResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &gateway.ChargeResponse{
		Status:     "pending",
		PaymentURL: "https://pay.example.com/" + externalID,
		Reference:  externalID,
		Raw: map[string]interface{}{
			"redirect_url": "https://pay.example.com/" + externalID,
			"token":        "tok-" + externalID,
		},
	}, nil
}

func (g *fakeGateway) ExtractReference(payload map[string]interface{}) string {
	ref, _ := payload["order_id"].(string)
	return ref
}

func (g *fakeGateway) ExtractStatus(payload map[string]interface{}) string {
	status, _ := payload["transaction_status"].(string)
	if status == "" {
		status = "pending"
	}
	return status
}

func (g *fakeGateway) ExtractPaymentMethod(payload map[string]interface{}) string {
	method, _ := payload["payment_type"].(string)
	return method
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
