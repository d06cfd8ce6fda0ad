package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/gateway"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// successStatuses are the provider status strings treated as money received.
var successStatuses = map[string]bool{
	"success":    true,
	"paid":       true,
	"settled":    true,
	"settlement": true,
	"completed":  true,
}

// PaymentEventLogger appends an audit entry per payment action. Implemented
// by the mongo repository; nil disables auditing.
type PaymentEventLogger interface {
	LogPaymentEvent(ctx context.Context, event *repository.PaymentEvent) error
}

// PaymentService creates payments against orders and reconciles webhook
// notifications back into payment and order state. It is the only writer of
// Payment.Status, and the only post-creation writer of Order.Status.
type PaymentService struct {
	registry *gateway.Registry
	payments repository.PaymentStore
	orders   repository.OrderStore
	users    repository.UserStore
	events   PaymentEventLogger
	logger   *zap.Logger
}

func NewPaymentService(
	registry *gateway.Registry,
	payments repository.PaymentStore,
	orders repository.OrderStore,
	users repository.UserStore,
	events PaymentEventLogger,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		registry: registry,
		payments: payments,
		orders:   orders,
		users:    users,
		events:   events,
		logger:   logger.Named("payment-service"),
	}
}

// CreatePayment creates a charge for the order on the named gateway. Calling
// it again while a pending payment exists for the same (order, gateway) pair
// returns that payment unchanged, so a retry never double-charges.
func (s *PaymentService) CreatePayment(ctx context.Context, gatewayName, orderID string, opts gateway.ChargeOptions) (*models.Payment, *gateway.ChargeResponse, error) {
	gw, err := s.registry.Resolve(gatewayName)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	status := strings.ToLower(order.Status)
	if status == models.OrderStatusPaid || status == "settlement" {
		return nil, nil, errs.ErrAlreadyPaid
	}

	existing, err := s.payments.FindPendingByOrder(ctx, order.ID, gw.Name())
	if err == nil {
		return existing, chargeResponseFromPayment(existing), nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, nil, err
	}

	externalID := newExternalID()
	payment := &models.Payment{
		ID:               uuid.NewString(),
		OrderID:          order.ID,
		Gateway:          gw.Name(),
		ExternalID:       externalID,
		PaymentReference: externalID,
		Amount:           order.TotalAmount,
		Status:           models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, nil, err
	}

	if user, err := s.users.GetByID(ctx, order.UserID); err == nil {
		if opts.CustomerName == "" {
			opts.CustomerName = user.Name
		}
		if opts.CustomerEmail == "" {
			opts.CustomerEmail = user.Email
		}
		if opts.Phone == "" {
			opts.Phone = user.Phone
		}
	}

	resp, err := gw.CreatePayment(ctx, externalID, order.TotalAmount, opts)
	if err != nil {
		// The pending row stays behind for the retry path; the provider
		// detail is logged, never surfaced to the caller.
		s.logger.Error("Payment creation failed",
			zap.String("gateway", gw.Name()),
			zap.String("order_id", order.ID),
			zap.String("external_id", externalID),
			zap.Error(err))
		return nil, nil, errs.ErrGatewayFailure
	}

	meta, err := json.Marshal(resp.Raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize gateway response: %w", err)
	}

	updated, err := s.payments.UpdateByReference(ctx, externalID, map[string]interface{}{
		"status":      models.PaymentStatusPending,
		"payment_url": resp.PaymentURL,
		"meta":        string(meta),
	})
	if err != nil {
		return nil, nil, err
	}

	s.logEvent(gw.Name(), "create_payment", externalID, models.PaymentStatusPending, resp.Raw)

	return updated, resp, nil
}

// HandleWebhook reconciles one provider notification. An unknown reference
// is a no-op, not an error: webhooks for foreign transactions are expected.
// Status and meta are applied last-write-wins with no sequencing against
// out-of-order delivery.
func (s *PaymentService) HandleWebhook(ctx context.Context, gatewayName string, payload map[string]interface{}) error {
	gw, err := s.registry.Resolve(gatewayName)
	if err != nil {
		return err
	}

	reference := gw.ExtractReference(payload)
	status := gw.ExtractStatus(payload)
	method := gw.ExtractPaymentMethod(payload)

	s.logEvent(gw.Name(), "webhook", reference, status, payload)

	if reference == "" {
		s.logger.Warn("Webhook payload carries no payment reference",
			zap.String("gateway", gw.Name()))
		return nil
	}

	meta := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		meta[k] = v
	}
	meta["payment_method"] = method

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to serialize webhook payload: %w", err)
	}

	payment, err := s.payments.UpdateByReference(ctx, reference, map[string]interface{}{
		"status":         status,
		"payment_method": method,
		"meta":           string(metaJSON),
	})
	if errors.Is(err, errs.ErrNotFound) {
		s.logger.Warn("Payment not found for webhook reference",
			zap.String("gateway", gw.Name()),
			zap.String("reference", reference))
		return nil
	}
	if err != nil {
		return err
	}

	if successStatuses[status] {
		if err := s.orders.UpdateStatus(ctx, payment.OrderID, models.OrderStatusPaid); err != nil {
			return fmt.Errorf("failed to mark order %s paid: %w", payment.OrderID, err)
		}
		s.logger.Info("Order marked paid",
			zap.String("order_id", payment.OrderID),
			zap.String("reference", reference),
			zap.String("status", status))
	} else {
		s.logger.Info("Payment status not successful yet",
			zap.String("reference", reference),
			zap.String("status", status))
	}

	return nil
}

func (s *PaymentService) logEvent(gatewayName, action, reference, status string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	event := &repository.PaymentEvent{
		Gateway:   gatewayName,
		Action:    action,
		Reference: reference,
		Status:    status,
		Payload:   bson.M(payload),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.LogPaymentEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to write payment audit event",
				zap.String("reference", reference),
				zap.Error(err))
		}
	}()
}

func chargeResponseFromPayment(payment *models.Payment) *gateway.ChargeResponse {
	raw := map[string]interface{}{}
	if payment.Meta != "" {
		// best effort; meta is an opaque provider blob
		_ = json.Unmarshal([]byte(payment.Meta), &raw)
	}
	return &gateway.ChargeResponse{
		Status:     payment.Status,
		PaymentURL: payment.PaymentURL,
		Reference:  payment.PaymentReference,
		Raw:        raw,
	}
}

// newExternalID builds the caller-generated correlation token sent to the
// provider: a time-based prefix plus a random suffix.
func newExternalID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102150405"), suffix)
}
