package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/bookshop/pkg/config"
	"github.com/example/bookshop/pkg/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	config     *config.Config
	logger     *zap.Logger
	router     *gin.Engine
	httpServer *http.Server

	items    *service.ItemService
	carts    *service.CartService
	orders   *service.OrderService
	payments *service.PaymentService
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	items *service.ItemService,
	carts *service.CartService,
	orders *service.OrderService,
	payments *service.PaymentService,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	s := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		items:    items,
		carts:    carts,
		orders:   orders,
		payments: payments,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		// Public catalog
		v1.GET("/items", s.listItems)
		v1.GET("/items/:slug", s.getItem)

		// Webhooks are authenticated by the provider, not the user
		v1.POST("/payments/webhook/:gateway", s.paymentWebhook)

		authed := v1.Group("", requireUser())
		{
			authed.GET("/cart", s.getCart)
			authed.POST("/cart/items", s.addCartItem)
			authed.PUT("/cart/items/:id", s.updateCartItem)
			authed.DELETE("/cart/items/:id", s.removeCartItem)
			authed.DELETE("/cart/items", s.removeCartItems)
			authed.DELETE("/cart", s.clearCart)

			authed.POST("/items/:slug/order", s.createOrderFromProduct)
			authed.POST("/orders/from-cart", s.createOrderFromCart)
			authed.GET("/orders", s.listOrders)
			authed.GET("/orders/:id", s.getOrder)

			authed.POST("/payments", s.createPayment)
		}
	}
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Server starting", zap.String("address", addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
