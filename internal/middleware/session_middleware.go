package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Cart-Session"
	SessionCookie = "tene_cart_session"

	sessionContextKey = "cart_session_id"
	sessionCookieAge  = 60 * 60 * 24 * 365
)

// client-chosen ids are used as storage keys, so keep them short and plain
var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// CartSession resolves the shopper's device session from the X-Cart-Session
// header or the tene_cart_session cookie, minting a new one when neither is
// usable. The id is echoed back in both places.
func CartSession(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if !validSessionID.MatchString(sessionID) {
			sessionID, _ = c.Cookie(SessionCookie)
		}
		if !validSessionID.MatchString(sessionID) {
			sessionID = uuid.NewString()
			GetLoggerFromContext(c).Debug("New cart session", map[string]interface{}{
				"session_id": sessionID,
			})
		}

		c.Set(sessionContextKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sessionID, sessionCookieAge, "/", "", secureCookie, true)

		c.Next()
	}
}

// GetSessionID extracts the cart session id from context
func GetSessionID(c *gin.Context) (string, bool) {
	id := c.GetString(sessionContextKey)
	return id, id != ""
}
