package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eshop-api/internal/domain"
	"eshop-api/internal/identity"
)

const (
	ctxUserKey    = "currentUser"
	ctxSessionKey = "sessionCartToken"
)

// sessionCart ensures every caller carries a cart session token. The
// token comes from the cookie or the header; absent both, a fresh one
// is minted and set as a cookie on the response.
func sessionCart(cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := readSessionToken(c)
		if token == "" {
			token = identity.MintSessionToken()
			c.SetCookie(identity.CookieName, token, int(identity.CookieTTL.Seconds()), "/", "", cookieSecure, true)
		}
		c.Set(ctxSessionKey, token)
		c.Next()
	}
}

func readSessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(identity.CookieName); err == nil && cookie != "" {
		return cookie
	}
	return c.GetHeader(identity.HeaderName)
}

// userAuthenticator resolves a bearer token into its user.
type userAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// authRequired rejects requests without a valid bearer token.
func authRequired(users userAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := bearerUser(c, users)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// authOptional attaches the user when a valid bearer token is present
// and lets the request through either way.
func authOptional(users userAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, ok := bearerUser(c, users); ok {
			c.Set(ctxUserKey, u)
		}
		c.Next()
	}
}

// adminRequired must run after authRequired.
func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.IsAdmin() {
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerUser(c *gin.Context, users userAuthenticator) (*domain.User, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	u, err := users.Authenticate(c.Request.Context(), token)
	if err != nil {
		return nil, false
	}
	return u, true
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func sessionToken(c *gin.Context) string {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return readSessionToken(c)
	}
	token, _ := v.(string)
	return token
}

// identityFrom prefers the authenticated user over the session token.
func identityFrom(c *gin.Context) identity.Identity {
	if u := currentUser(c); u != nil {
		return identity.ForUser(u.ID)
	}
	if token := sessionToken(c); token != "" {
		return identity.ForSession(token)
	}
	return identity.Identity{}
}
