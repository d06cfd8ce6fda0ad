package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/example/bookshop/pkg/service"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Address string `json:"address"`
	Note    string `json:"note"`
}

type orderFromProductRequest struct {
	Quantity int    `json:"quantity" binding:"omitempty,gt=0"`
	Address  string `json:"address"`
	Note     string `json:"note"`
}

func (s *Server) createOrderFromCart(c *gin.Context) {
	// Body is optional; checkout metadata only.
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusUnprocessableEntity, CodeValidationError, "invalid request body", err.Error())
		return
	}

	order, err := s.orders.CreateFromCart(c.Request.Context(), currentUserID(c), service.CheckoutRequest{
		Address: req.Address,
		Note:    req.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "order created from cart", order)
}

func (s *Server) createOrderFromProduct(c *gin.Context) {
	var req orderFromProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusUnprocessableEntity, CodeValidationError, "invalid request body", err.Error())
		return
	}

	item, err := s.resolveItem(c, c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	order, err := s.orders.CreateFromProduct(c.Request.Context(), currentUserID(c), item.ID, req.Quantity, service.CheckoutRequest{
		Address: req.Address,
		Note:    req.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "order created", order)
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "orders retrieved", orders)
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.GetByID(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "order retrieved", order)
}
