package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"net/url"  // Path escaping for redirects

	"feedback_board/internal/auth"       // Session authenticator
	"feedback_board/internal/domain"     // Error taxonomy
	"feedback_board/internal/middleware" // Session cookie
	"feedback_board/internal/web"        // Rendering and flash messages

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// RegisterPageHandler renders the empty registration form
func RegisterPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderRegister(c, http.StatusOK, RegisterForm{}, nil)
	}
}

// RegisterHandler creates the account and logs the new user in
func RegisterHandler(authn *auth.Authenticator, cookie middleware.SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form RegisterForm
		if verr := bindForm(c, &form); verr != nil {
			renderRegister(c, http.StatusUnprocessableEntity, form, verr.Fields)
			return
		}
		ctx := c.Request.Context()
		user, token, err := authn.Register(ctx, auth.RegisterInput{
			Username:  form.Username,
			Email:     form.Email,
			Password:  form.Password,
			FirstName: form.FirstName,
			LastName:  form.LastName,
		})
		var conflict *domain.ConflictError
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &conflict):
			// Every taken field gets its own message
			for _, msg := range conflict.Messages() {
				web.AddFlash(c, web.Danger, msg)
			}
			c.Redirect(http.StatusFound, "/register")
			return
		case errors.As(err, &verr):
			renderRegister(c, http.StatusUnprocessableEntity, form, verr.Fields)
			return
		case err != nil:
			web.ServerError(c, err)
			return
		}
		dropPreviousSession(c, authn)
		cookie.Set(c, token)
		logrus.WithFields(logrus.Fields{
			"username": user.Username,
			"email":    user.Email,
		}).Info("User registered")
		web.Redirect(c, profilePath(user.Username), web.Success, "Your account has been created! You are now able to log in")
	}
}

// LoginPageHandler renders the login form
func LoginPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderLogin(c, http.StatusOK, LoginForm{}, nil)
	}
}

// LoginHandler verifies credentials and opens a session
func LoginHandler(authn *auth.Authenticator, cookie middleware.SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form LoginForm
		if verr := bindForm(c, &form); verr != nil {
			renderLogin(c, http.StatusUnprocessableEntity, form, verr.Fields)
			return
		}
		user, token, err := authn.Login(c.Request.Context(), form.Username, form.Password)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			logrus.WithField("username", form.Username).Warn("Login failed")
			web.AddFlash(c, web.Danger, "Login Unsuccessful. Please check username and password")
			renderLogin(c, http.StatusUnauthorized, form, nil)
			return
		}
		if err != nil {
			web.ServerError(c, err)
			return
		}
		dropPreviousSession(c, authn)
		cookie.Set(c, token)
		logrus.WithField("username", user.Username).Info("User logged in")
		web.Redirect(c, profilePath(user.Username), web.Success, "You have been logged in!")
	}
}

// LogoutHandler clears the session unconditionally
func LogoutHandler(authn *auth.Authenticator, cookie middleware.SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		dropPreviousSession(c, authn)
		cookie.Clear(c)
		web.Redirect(c, "/home", web.Success, "You have been logged out.")
	}
}

// dropPreviousSession ends the session the request arrived with, if any
func dropPreviousSession(c *gin.Context, authn *auth.Authenticator) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || token == "" {
		return
	}
	if err := authn.Logout(c.Request.Context(), token); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to drop previous session")
	}
}

func renderRegister(c *gin.Context, status int, form RegisterForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	web.Render(c, status, "register.tmpl", gin.H{"Title": "Register", "Form": form.values(), "Errors": errs})
}

func renderLogin(c *gin.Context, status int, form LoginForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	web.Render(c, status, "login.tmpl", gin.H{"Title": "Login", "Form": form.values(), "Errors": errs})
}

func profilePath(username string) string {
	return "/users/" + url.PathEscape(username)
}
