package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-api/internal/domain"
	usersvc "eshop-api/internal/service/user"
)

func (h handlers) getProfile(c *gin.Context) {
	respondData(c, http.StatusOK, currentUser(c))
}

func (h handlers) updateProfile(c *gin.Context) {
	var req usersvc.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid profile payload")
		return
	}

	u, err := h.deps.Users.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h handlers) updateAddress(c *gin.Context) {
	var addr domain.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		respondError(c, http.StatusBadRequest, "invalid address payload")
		return
	}

	u, err := h.deps.Users.UpdateAddress(c.Request.Context(), currentUser(c).ID, addr)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

func (h handlers) updatePaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "paymentMethod required")
		return
	}

	u, err := h.deps.Users.UpdatePaymentMethod(c.Request.Context(), currentUser(c).ID, req.PaymentMethod)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h handlers) listUsers(c *gin.Context) {
	users, err := h.deps.Users.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h handlers) getUser(c *gin.Context) {
	u, err := h.deps.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h handlers) updateUser(c *gin.Context) {
	var req usersvc.AdminUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid user payload")
		return
	}

	u, err := h.deps.Users.AdminUpdate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h handlers) deleteUser(c *gin.Context) {
	if c.Param("id") == currentUser(c).ID {
		respondError(c, http.StatusBadRequest, "cannot delete yourself")
		return
	}
	if err := h.deps.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "user deleted")
}
