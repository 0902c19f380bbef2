package handlers

import (
	"errors"
	"net/http"

	"userboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "session"
	sessionContextKey = "session"
)

// sessionMiddleware resolves the session cookie into a *models.Session in
// the gin context. A missing, tampered or expired cookie is not an error:
// the request simply proceeds anonymously and page handlers decide whether
// to redirect to login. On success the cookie is re-issued so its MaxAge
// slides along with the server-side expiry.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie == "" {
		c.Next()
		return
	}

	sess, err := h.services.Auth.SessionFromCookie(c.Request.Context(), cookie)
	if err != nil {
		if !errors.Is(err, service.ErrNoSession) && h.log != nil {
			h.log.Errorw("session_lookup_failed", "err", err)
		}
		c.Next()
		return
	}

	c.Set(sessionContextKey, sess)
	h.setSessionCookie(c, cookie)
	c.Next()
}

// setSessionCookie issues the session cookie: HTTP-only, path-wide, not
// Secure (plaintext-transport deployment assumption).
func (h *Handler) setSessionCookie(c *gin.Context, value string) {
	maxAge := int(h.services.Auth.SessionTTL().Seconds())
	c.SetCookie(sessionCookieName, value, maxAge, "/", "", false, true)
}

// clearSessionCookie tells the browser to drop the session cookie.
func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}

// redirectToLogin is the shared "must be authenticated" response for pages.
func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}
