package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/bookshop/pkg/config"
	"github.com/example/bookshop/pkg/gateway"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"github.com/example/bookshop/pkg/server"
	"github.com/example/bookshop/pkg/service"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting bookshop server",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// Connect to MySQL
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}

	// Auto migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.ItemCategory{},
		&models.Item{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		logger.Fatal("Failed to migrate", zap.Error(err))
	}

	// Redis
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	ctx := context.Background()
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed, item cache disabled", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}

	// MongoDB
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoRepo.Close(closeCtx)
	}()

	// Repositories
	txRunner := repository.NewGormTxRunner(db)
	itemRepo := repository.NewItemRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Payment gateways
	registry := gateway.NewRegistry(
		gateway.NewMidtransGateway(&cfg.Gateways.Midtrans, logger),
		gateway.NewXenditGateway(&cfg.Gateways.Xendit, logger),
	)
	logger.Info("Payment gateways configured", zap.Strings("gateways", registry.Names()))

	// Services
	itemService := service.NewItemService(itemRepo, redisRepo, logger)
	cartService := service.NewCartService(cartRepo, itemRepo, logger)
	orderService := service.NewOrderService(txRunner, cartRepo, itemRepo, orderRepo, redisRepo, logger)
	paymentService := service.NewPaymentService(registry, paymentRepo, orderRepo, userRepo, mongoRepo, logger)

	srv := server.NewServer(cfg, logger, itemService, cartService, orderService, paymentService)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down cleanly", zap.Error(err))
	}

	logger.Info("Server stopped")
}
