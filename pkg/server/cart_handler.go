package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type removeCartItemsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (s *Server) getCart(c *gin.Context) {
	cart, err := s.carts.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "cart retrieved", cart)
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, CodeValidationError, "invalid request body", err.Error())
		return
	}

	cartItem, err := s.carts.AddItem(c.Request.Context(), currentUserID(c), req.ItemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "item added to cart", cartItem)
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, CodeValidationError, "invalid request body", err.Error())
		return
	}

	cartItem, err := s.carts.UpdateQuantity(c.Request.Context(), currentUserID(c), c.Param("id"), req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "cart item updated", cartItem)
}

func (s *Server) removeCartItem(c *gin.Context) {
	err := s.carts.RemoveItem(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "cart item removed", nil)
}

func (s *Server) removeCartItems(c *gin.Context) {
	var req removeCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, CodeValidationError, "invalid request body", err.Error())
		return
	}

	if err := s.carts.RemoveItems(c.Request.Context(), req.IDs); err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "cart items removed", nil)
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.carts.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "cart cleared", nil)
}
