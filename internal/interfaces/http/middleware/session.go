package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
)

const (
	// SessionHeader carries the anonymous cart session for API clients
	SessionHeader = "X-Session-ID"
	// SessionCookie is the default cookie name for browsers
	SessionCookie = "mbv_session"
	// SessionContextKey holds the session id in the gin context
	SessionContextKey = "session_id"

	sessionIDLength = 32
)

// SessionID makes sure every request carries an anonymous session id. The id is
// read from the configured header first, then the cookie; a missing or malformed
// id is replaced with a fresh one, echoed back in both places.
func SessionID(cfg config.SessionConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = SessionHeader
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = SessionCookie
	}
	ttl := cfg.CartTTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}

	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !validSessionID(id) {
			id, _ = c.Cookie(cookieName)
		}
		if !validSessionID(id) {
			id = newSessionID()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(SessionContextKey, id)
		c.Header(header, id)
		c.Next()
	}
}

// GetSessionID returns the session id set by SessionID
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}

func newSessionID() string {
	b := make([]byte, sessionIDLength/2)
	if _, err := rand.Read(b); err != nil {
		return generateRequestID()
	}
	return hex.EncodeToString(b)
}

func validSessionID(id string) bool {
	if len(id) != sessionIDLength {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
