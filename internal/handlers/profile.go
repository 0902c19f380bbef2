package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"userboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ownProfile renders the session user's profile from the session snapshot.
// Anonymous requests are sent to the login page.
func (h *Handler) ownProfile(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		redirectToLogin(c)
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User": gin.H{
			"ID":        sess.UserID,
			"Username":  sess.Username,
			"Birthdate": sess.Birthdate,
		},
		"LoggedInUser": sess,
		"IsSameUser":   true,
	})
}

// profileByID renders any user's profile page. IsSameUser is a plain string
// comparison between the path id and the session user's id; templates use it
// to decide whether to show edit controls.
func (h *Handler) profileByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, msgUserNotFound)
		return
	}

	user, err := h.services.Profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.String(http.StatusNotFound, msgUserNotFound)
			return
		}
		h.failInternal(c, "profile_load_failed", err, "user_id", id)
		return
	}

	sess := sessionFrom(c)
	isSameUser := sess != nil && c.Param("userId") == strconv.FormatInt(sess.UserID, 10)

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User":         user,
		"LoggedInUser": sess,
		"IsSameUser":   isSameUser,
	})
}

// profileImage streams the stored image bytes with the content type declared
// at signup. No caching headers, no range requests.
func (h *Handler) profileImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, msgImageNotFound)
		return
	}

	img, err := h.services.Profiles.GetImage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.String(http.StatusNotFound, msgImageNotFound)
			return
		}
		h.failInternal(c, "profile_image_load_failed", err, "user_id", id)
		return
	}

	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// editProfileForm renders the edit form for the session user, pre-filled
// from the current record rather than the (possibly stale) session snapshot.
func (h *Handler) editProfileForm(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		redirectToLogin(c)
		return
	}

	user, err := h.services.Profiles.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.String(http.StatusNotFound, msgUserNotFound)
			return
		}
		h.failInternal(c, "edit_profile_load_failed", err, "user_id", sess.UserID)
		return
	}

	c.HTML(http.StatusOK, "edit-profile.html", gin.H{
		"User":         user,
		"LoggedInUser": sess,
	})
}

// updateProfile applies username/birthdate edits to the session user only;
// the target id always comes from the session, never from the form.
func (h *Handler) updateProfile(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		redirectToLogin(c)
		return
	}

	username := c.PostForm("username")
	birthdate, err := time.Parse(birthdateLayout, c.PostForm("birthdate"))
	if username == "" || err != nil {
		c.HTML(http.StatusBadRequest, "edit-profile.html", gin.H{
			"ErrorMessage": "username and birthdate are required",
			"User":         gin.H{"ID": sess.UserID, "Username": username, "Birthdate": sess.Birthdate},
			"LoggedInUser": sess,
		})
		return
	}

	err = h.services.Profiles.UpdateProfile(c.Request.Context(), sess.UserID, service.ProfileUpdate{
		Username:  username,
		Birthdate: birthdate,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.HTML(http.StatusConflict, "edit-profile.html", gin.H{
				"ErrorMessage": msgUsernameTaken,
				"User":         gin.H{"ID": sess.UserID, "Username": username, "Birthdate": birthdate},
				"LoggedInUser": sess,
			})
			return
		}
		h.failInternal(c, "update_profile_failed", err, "user_id", sess.UserID)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%d", sess.UserID))
}
