package middleware

import (
	"errors"   // Error inspection
	"net/http" // Cookie attributes

	"feedback_board/internal/auth"   // Session authenticator
	"feedback_board/internal/domain" // Error taxonomy
	"feedback_board/internal/web"    // Flash messages

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// SessionCookieName is the cookie holding the signed session token
const SessionCookieName = "session"

// SessionCookie writes and clears the session cookie
type SessionCookie struct {
	MaxAge int  // Seconds, matches the server-side session TTL
	Secure bool // HTTPS only
}

// Set stores token in the session cookie
func (s SessionCookie) Set(c *gin.Context, token string) {
	s.write(c, token, s.MaxAge)
}

// Clear expires the session cookie
func (s SessionCookie) Clear(c *gin.Context) {
	s.write(c, "", -1)
}

func (s SessionCookie) write(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoadSession resolves the session cookie and stores the identity in the
// request context. Requests without a valid session continue anonymously.
func LoadSession(authn *auth.Authenticator, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		identity, err := authn.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				cookie.Clear(c) // Expired or forged, drop it
			} else {
				logrus.WithFields(logrus.Fields{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				}).Warn("Session lookup failed")
			}
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireSession sends anonymous callers to the login page
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.IdentityFrom(c.Request.Context()); !ok {
			web.Redirect(c, "/login", web.Danger, "You need to login first.")
			c.Abort()
			return
		}
		c.Next()
	}
}
