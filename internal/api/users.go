package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"feedback_board/internal/auth"       // Session authenticator
	"feedback_board/internal/domain"     // Error taxonomy
	"feedback_board/internal/middleware" // Session cookie
	"feedback_board/internal/store"      // Identity and feedback stores
	"feedback_board/internal/web"        // Rendering and flash messages

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// ProfileHandler shows the user's details and feedback list
func ProfileHandler(users *store.UserStore, feedback *store.FeedbackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, err := users.FindByUsername(ctx, c.Param("username"))
		if errors.Is(err, domain.ErrNotFound) {
			web.NotFound(c)
			return
		}
		if err != nil {
			web.ServerError(c, err)
			return
		}
		list, err := feedback.ListByOwner(ctx, user.Username)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		web.Render(c, http.StatusOK, "profile.tmpl", gin.H{
			"Title":    user.Username,
			"User":     user,
			"Feedback": list,
		})
	}
}

// DeleteUserHandler removes the account with its feedback and ends its sessions
func DeleteUserHandler(users *store.UserStore, authn *auth.Authenticator, cookie middleware.SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		username := c.Param("username")
		err := users.Delete(ctx, username)
		if errors.Is(err, domain.ErrNotFound) {
			web.NotFound(c)
			return
		}
		if err != nil {
			web.ServerError(c, err)
			return
		}
		dropPreviousSession(c, authn)
		if err := authn.RevokeAll(ctx, username); err != nil {
			logrus.WithFields(logrus.Fields{
				"username": username,
				"error":    err.Error(),
			}).Error("Failed to revoke sessions")
		}
		cookie.Clear(c)
		logrus.WithField("username", username).Info("User deleted")
		web.Redirect(c, "/home", web.Success, "Your account has been deleted.")
	}
}
