package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// home renders the user listing plus the session user. The listing is
// unbounded; fine at the scale this application targets.
func (h *Handler) home(c *gin.Context) {
	users, err := h.services.Profiles.List(c.Request.Context())
	if err != nil {
		h.failInternal(c, "home_list_failed", err)
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Users":        users,
		"LoggedInUser": sessionFrom(c),
	})
}

// cgv renders the static terms page.
func (h *Handler) cgv(c *gin.Context) {
	c.HTML(http.StatusOK, "cgv.html", gin.H{
		"LoggedInUser": sessionFrom(c),
	})
}
