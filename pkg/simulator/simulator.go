package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/bookshop/pkg/config"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"go.uber.org/zap"
)

var simulatedStatuses = []string{
	models.PaymentStatusPending,
	"settlement",
	"success",
	models.PaymentStatusFailed,
	"expire",
}

type Simulator struct {
	config *config.SimulatorConfig
	logger *zap.Logger

	tx       repository.TxRunner
	items    repository.ItemStore
	payments repository.PaymentStore
	orders   repository.OrderStore
}

func New(
	cfg *config.SimulatorConfig,
	tx repository.TxRunner,
	items repository.ItemStore,
	payments repository.PaymentStore,
	orders repository.OrderStore,
	logger *zap.Logger,
) *Simulator {
	return &Simulator{
		config:   cfg,
		logger:   logger,
		tx:       tx,
		items:    items,
		payments: payments,
		orders:   orders,
	}
}

// Start spawns the actors and begins firing simulation messages at them
// until ctx is cancelled.
func (s *Simulator) Start(ctx context.Context) error {
	system := actor.NewActorSystem()

	stockProps := actor.PropsFromProducer(func() actor.Actor {
		return &StockActor{tx: s.tx, items: s.items, logger: s.logger.Named("stock-actor")}
	})
	stockPid, err := system.Root.SpawnNamed(stockProps, "stock-actor")
	if err != nil {
		return fmt.Errorf("failed to spawn stock actor: %w", err)
	}

	paymentProps := actor.PropsFromProducer(func() actor.Actor {
		return &PaymentActor{payments: s.payments, orders: s.orders, logger: s.logger.Named("payment-actor")}
	})
	paymentPid, err := system.Root.SpawnNamed(paymentProps, "payment-actor")
	if err != nil {
		return fmt.Errorf("failed to spawn payment actor: %w", err)
	}

	s.logger.Info("Simulation actors started",
		zap.String("stock_actor", stockPid.Id),
		zap.String("payment_actor", paymentPid.Id))

	interval := s.config.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				system.Root.Stop(stockPid)
				system.Root.Stop(paymentPid)
				return
			case <-ticker.C:
				s.fireStockOrder(ctx, system, stockPid)
				s.firePaymentUpdates(ctx, system, paymentPid)
			}
		}
	}()

	return nil
}

func (s *Simulator) fireStockOrder(ctx context.Context, system *actor.ActorSystem, pid *actor.PID) {
	items, _, err := s.items.List(ctx, repository.ItemFilter{PageSize: 50})
	if err != nil {
		s.logger.Error("Failed to list items for simulation", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	maxQty := s.config.MaxQuantity
	if maxQty <= 0 {
		maxQty = 3
	}

	item := items[rand.Intn(len(items))]
	system.Root.Send(pid, &SimulateOrder{
		ItemID:   item.ID,
		Quantity: 1 + rand.Intn(maxQty),
	})
}

func (s *Simulator) firePaymentUpdates(ctx context.Context, system *actor.ActorSystem, pid *actor.PID) {
	batch := s.config.PendingBatch
	if batch <= 0 {
		batch = 5
	}

	pending, err := s.payments.ListPending(ctx, batch)
	if err != nil {
		s.logger.Error("Failed to list pending payments for simulation", zap.Error(err))
		return
	}

	for _, payment := range pending {
		system.Root.Send(pid, &SimulatePaymentUpdate{
			Reference: payment.PaymentReference,
			Status:    simulatedStatuses[rand.Intn(len(simulatedStatuses))],
		})
	}
}
