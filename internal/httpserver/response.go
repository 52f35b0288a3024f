package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-api/internal/domain"
	ordersvc "eshop-api/internal/service/order"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, apiResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, apiResponse{Success: true, Message: msg})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, apiResponse{Success: false, Message: msg})
}

// respondServiceError maps domain errors to HTTP statuses. Only
// validation messages are surfaced verbatim; anything unrecognized is
// an internal failure and answers 500 with a generic body.
func respondServiceError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(c, http.StatusBadRequest, "Not enough stock")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(c, http.StatusConflict, "already exists")
	case errors.Is(err, ordersvc.ErrEmptyCart):
		respondError(c, http.StatusBadRequest, "cart is empty")
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
