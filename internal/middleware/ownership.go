package middleware

import (
	"errors" // Error inspection

	"feedback_board/internal/auth"   // Identity from the request context
	"feedback_board/internal/domain" // Error taxonomy
	"feedback_board/internal/web"    // Rendering and flash messages

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Messages shown when the session does not own the addressed resource
const (
	DeniedView   = "You do not have permission to view this page."
	DeniedAction = "You do not have permission to perform this action."
)

// OwnerFunc returns the username owning the resource a request addresses,
// or domain.ErrNotFound when there is no such resource
type OwnerFunc func(c *gin.Context) (string, error)

// PathOwner treats the named path parameter as the owner username
func PathOwner(param string) OwnerFunc {
	return func(c *gin.Context) (string, error) {
		return c.Param(param), nil
	}
}

// RequireOwner lets the request through only when the session user owns the
// resource. Must run after RequireSession.
func RequireOwner(owner OwnerFunc, deniedMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c.Request.Context())
		if !ok {
			web.Redirect(c, "/login", web.Danger, "You need to login first.")
			c.Abort()
			return
		}
		username, err := owner(c)
		if errors.Is(err, domain.ErrNotFound) {
			web.NotFound(c)
			return
		}
		if err != nil {
			web.ServerError(c, err)
			return
		}
		if username != identity.Username {
			logrus.WithFields(logrus.Fields{
				"user":  identity.Username,
				"owner": username,
				"path":  c.Request.URL.Path,
			}).Warn("Ownership check failed")
			_ = c.Error(domain.ErrForbidden)
			web.Redirect(c, "/home", web.Danger, deniedMessage)
			c.Abort()
			return
		}
		c.Next()
	}
}
