package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-api/internal/domain"
	ordersvc "eshop-api/internal/service/order"
)

func (h handlers) createOrder(c *gin.Context) {
	var req ordersvc.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid order payload")
		return
	}

	o, err := h.deps.Orders.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, o)
}

func (h handlers) getOrder(c *gin.Context) {
	o, err := h.deps.Orders.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, o)
}

func (h handlers) listMyOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

func (h handlers) listAllOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

func (h handlers) payOrder(c *gin.Context) {
	var result domain.PaymentResult
	if err := c.ShouldBindJSON(&result); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payment result")
		return
	}

	// The caller must be allowed to see the order before paying it.
	if _, err := h.deps.Orders.Get(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	o, err := h.deps.Orders.MarkPaid(c.Request.Context(), c.Param("id"), result)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, o)
}

func (h handlers) deliverOrder(c *gin.Context) {
	o, err := h.deps.Orders.MarkDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, o)
}
