// Package simulator drives background load against the live store: stock
// drains as if other channels were selling, and pending payments receive
// status updates as if the provider were settling them. Both paths exercise
// exactly the code the real traffic uses.
package simulator

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"github.com/example/bookshop/pkg/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Messages
type SimulateOrder struct {
	ItemID   string
	Quantity int
}

type SimulatePaymentUpdate struct {
	Reference string
	Status    string
}

// StockActor drains item stock through the same locked reservation path the
// order factory uses; running out of stock is expected, not an error.
type StockActor struct {
	tx     repository.TxRunner
	items  repository.ItemStore
	logger *zap.Logger
}

func (a *StockActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *SimulateOrder:
		err := a.tx.Transaction(context.Background(), func(tx *gorm.DB) error {
			_, err := a.items.ReserveStock(tx, msg.ItemID, msg.Quantity)
			return err
		})

		if stockErr, ok := errs.IsInsufficientStock(err); ok {
			a.logger.Warn("Simulated order hit insufficient stock",
				zap.String("item_id", msg.ItemID),
				zap.Int("available", stockErr.Available),
				zap.Int("requested", stockErr.Requested))
			return
		}
		if errors.Is(err, errs.ErrNotFound) {
			a.logger.Warn("Simulated order for unknown item", zap.String("item_id", msg.ItemID))
			return
		}
		if err != nil {
			a.logger.Error("Simulated order failed",
				zap.String("item_id", msg.ItemID),
				zap.Error(err))
			return
		}

		a.logger.Info("Simulated order reserved stock",
			zap.String("item_id", msg.ItemID),
			zap.Int("quantity", msg.Quantity))

	case *actor.Started:
		a.logger.Info("Stock actor started")

	case *actor.Stopping:
		a.logger.Info("Stock actor stopping")
	}
}

// PaymentActor replays the provider settling behavior: a short random delay,
// then a status update that flips the order to paid on success.
type PaymentActor struct {
	payments repository.PaymentStore
	orders   repository.OrderStore
	logger   *zap.Logger
}

func (a *PaymentActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *SimulatePaymentUpdate:
		time.Sleep(time.Duration(rand.Intn(3)) * time.Second)

		bg := context.Background()
		payment, err := a.payments.UpdateByReference(bg, msg.Reference, map[string]interface{}{
			"status": msg.Status,
		})
		if errors.Is(err, errs.ErrNotFound) {
			a.logger.Warn("Payment not found", zap.String("reference", msg.Reference))
			return
		}
		if err != nil {
			a.logger.Error("Simulated payment update failed",
				zap.String("reference", msg.Reference),
				zap.Error(err))
			return
		}

		if service.IsSuccessStatus(msg.Status) {
			if err := a.orders.UpdateStatus(bg, payment.OrderID, models.OrderStatusPaid); err != nil {
				a.logger.Error("Failed to mark order paid",
					zap.String("order_id", payment.OrderID),
					zap.Error(err))
				return
			}
		}

		a.logger.Info("Simulated payment update applied",
			zap.String("reference", msg.Reference),
			zap.String("status", msg.Status))

	case *actor.Started:
		a.logger.Info("Payment actor started")

	case *actor.Stopping:
		a.logger.Info("Payment actor stopping")
	}
}
