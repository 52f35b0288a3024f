package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-api/internal/domain"
	cartsvc "eshop-api/internal/service/cart"
)

func (h handlers) getCart(c *gin.Context) {
	cart, err := h.deps.Carts.Get(c.Request.Context(), identityFrom(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No cart yet; data stays null.
			respondData(c, http.StatusOK, nil)
			return
		}
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, cart)
}

func (h handlers) addCartItem(c *gin.Context) {
	var req cartsvc.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId and a positive qty are required")
		return
	}

	cart, created, err := h.deps.Carts.AddItem(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondData(c, status, cart)
}

type updateCartItemRequest struct {
	Qty int `json:"qty" binding:"required,min=1"`
}

func (h handlers) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "a positive qty is required")
		return
	}

	cart, err := h.deps.Carts.UpdateItem(c.Request.Context(), identityFrom(c), c.Param("productId"), req.Qty)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, cart)
}

func (h handlers) removeCartItem(c *gin.Context) {
	cart, err := h.deps.Carts.RemoveItem(c.Request.Context(), identityFrom(c), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if cart == nil {
		// Removing the last line deleted the cart.
		respondMessage(c, http.StatusOK, "cart cleared")
		return
	}
	respondData(c, http.StatusOK, cart)
}

func (h handlers) clearCart(c *gin.Context) {
	if err := h.deps.Carts.Clear(c.Request.Context(), identityFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "cart cleared")
}
