// Package identity defines the key a cart is addressed by: the id of
// an authenticated user, or an opaque anonymous session token. Exactly
// one of the two is ever set.
package identity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Cookie and header names the session token travels under, and its
// lifetime.
const (
	CookieName = "sessionCartId"
	HeaderName = "X-Session-Cart-Id"
	CookieTTL  = 30 * 24 * time.Hour
)

// Identity is a tagged value: User(id) or Anonymous(token).
type Identity struct {
	userID       string
	sessionToken string
}

// ForUser builds an authenticated identity.
func ForUser(userID string) Identity {
	return Identity{userID: userID}
}

// ForSession builds an anonymous identity.
func ForSession(token string) Identity {
	return Identity{sessionToken: token}
}

// IsUser reports whether the identity belongs to an authenticated user.
func (i Identity) IsUser() bool {
	return i.userID != ""
}

// UserID returns the user id for authenticated identities.
func (i Identity) UserID() (string, bool) {
	return i.userID, i.userID != ""
}

// SessionToken returns the anonymous session token, if that is the
// active key.
func (i Identity) SessionToken() (string, bool) {
	return i.sessionToken, i.userID == "" && i.sessionToken != ""
}

// Zero reports whether no key is set at all. Handlers must provision a
// session token before performing cart operations on a zero identity.
func (i Identity) Zero() bool {
	return i.userID == "" && i.sessionToken == ""
}

// Key returns a stable string for per-identity serialization.
func (i Identity) Key() string {
	if i.userID != "" {
		return "user:" + i.userID
	}
	return "session:" + i.sessionToken
}

// MintSessionToken creates a fresh anonymous session token: random
// uuid plus a base36 timestamp. Globally unique in practice; a
// collision would only merge two anonymous carts, so cryptographic
// guarantees are not required.
func MintSessionToken() string {
	return uuid.NewString() + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
