package web

import (
	"net/http" // Cookie attributes
	"time"     // Flash token lifetime

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/golang-jwt/jwt/v5" // Signed flash cookie
)

const (
	flashCookieName = "flash"
	pendingFlashKey = "pending_flashes"
	flashSecretKey  = "flash_secret"
	flashTTL        = 10 * time.Minute

	Success = "success"
	Danger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// flashClaims is the signed payload of the flash cookie
type flashClaims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

// Flashes installs the key that signs and verifies the flash cookie. Without
// it, messages are shown only when the same request renders a page.
func Flashes(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		c.Set(flashSecretKey, key)
		c.Next()
	}
}

// AddFlash queues a message. It survives a redirect through the flash cookie.
func AddFlash(c *gin.Context, category, message string) {
	pending := pendingFlashes(c)
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(pendingFlashKey, pending)

	key, ok := flashSecret(c)
	if !ok {
		return
	}
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{
		Flashes: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}).SignedString(key)
	if err != nil {
		return
	}
	setFlashCookie(c, token, 0)
}

// PopFlashes returns messages from the previous request plus any queued in
// this one, and clears the cookie. Cookies with a bad signature are dropped.
func PopFlashes(c *gin.Context) []Flash {
	var out []Flash
	if raw, err := c.Cookie(flashCookieName); err == nil && raw != "" {
		out = append(out, parseFlashes(c, raw)...)
	}
	// Queued ones were written into the cookie already but the browser has not seen it yet
	out = append(out, pendingFlashes(c)...)
	c.Set(pendingFlashKey, []Flash(nil))
	setFlashCookie(c, "", -1)
	return out
}

func parseFlashes(c *gin.Context, raw string) []Flash {
	key, ok := flashSecret(c)
	if !ok {
		return nil
	}
	var claims flashClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil
	}
	return claims.Flashes
}

func flashSecret(c *gin.Context) ([]byte, bool) {
	v, ok := c.Get(flashSecretKey)
	if !ok {
		return nil, false
	}
	key, _ := v.([]byte)
	return key, len(key) > 0
}

func pendingFlashes(c *gin.Context) []Flash {
	v, ok := c.Get(pendingFlashKey)
	if !ok {
		return nil
	}
	list, _ := v.([]Flash)
	return list
}

func setFlashCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
