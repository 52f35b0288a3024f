package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-api/internal/domain"
	usersvc "eshop-api/internal/service/user"
)

type authResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h handlers) signup(c *gin.Context) {
	var req usersvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid signup payload")
		return
	}

	u, pair, err := h.deps.Users.Signup(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.mergeSessionCart(c, u.ID)
	respondData(c, http.StatusCreated, authResponse{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h handlers) login(c *gin.Context) {
	var req usersvc.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid login payload")
		return
	}

	u, pair, err := h.deps.Users.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.mergeSessionCart(c, u.ID)
	respondData(c, http.StatusOK, authResponse{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h handlers) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "refreshToken required")
		return
	}

	u, pair, err := h.deps.Users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, authResponse{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// mergeSessionCart folds the caller's anonymous cart into the account
// they just signed in to. Merge failures are logged, never surfaced;
// the sign-in itself already succeeded.
func (h handlers) mergeSessionCart(c *gin.Context, userID string) {
	token := readSessionToken(c)
	if token == "" {
		return
	}
	if err := h.deps.Carts.MergeSessionIntoUser(c.Request.Context(), userID, token); err != nil {
		h.logger.Printf("http: session cart merge user=%s error=%v", userID, err)
	}
}
