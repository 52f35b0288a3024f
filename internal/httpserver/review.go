package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reviewsvc "eshop-api/internal/service/review"
)

func (h handlers) listReviews(c *gin.Context) {
	result, err := h.deps.Reviews.ListByProduct(
		c.Request.Context(),
		c.Param("id"),
		intQuery(c, "pageSize", 10),
		intQuery(c, "offset", 0),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h handlers) createReview(c *gin.Context) {
	var req reviewsvc.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid review payload")
		return
	}

	rv, err := h.deps.Reviews.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, rv)
}

func (h handlers) updateReview(c *gin.Context) {
	var req reviewsvc.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid review payload")
		return
	}

	rv, err := h.deps.Reviews.Update(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, rv)
}

func (h handlers) deleteReview(c *gin.Context) {
	if err := h.deps.Reviews.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "review deleted")
}
