package web

import (
	"net/http" // HTTP status codes

	"feedback_board/internal/auth" // Current user

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Render writes the named page with the flash messages and the current user
// added to data.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = PopFlashes(c)
	if id, ok := auth.IdentityFrom(c.Request.Context()); ok {
		data["CurrentUser"] = id.Username
	}
	c.HTML(status, name, data)
}

// Redirect sends a 302 to location after queueing a flash message.
func Redirect(c *gin.Context, location, category, message string) {
	if message != "" {
		AddFlash(c, category, message)
	}
	c.Redirect(http.StatusFound, location)
}

// NotFound renders the 404 page and stops the handler chain.
func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "404.tmpl", gin.H{"Title": "Not Found"})
	c.Abort()
}

// ServerError logs err and renders the 500 page.
func ServerError(c *gin.Context, err error) {
	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"error":  err.Error(),
	}).Error("request failed")
	Render(c, http.StatusInternalServerError, "500.tmpl", gin.H{"Title": "Server Error"})
	c.Abort()
}
