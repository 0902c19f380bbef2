package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"userboard/internal/models"
	"userboard/internal/service"

	"github.com/gin-gonic/gin"
)

const birthdateLayout = "2006-01-02"

func (h *Handler) signupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{
		"LoggedInUser": sessionFrom(c),
	})
}

// signUp handles the multipart signup form: username, password, birthdate
// and an optional profile image buffered in memory.
func (h *Handler) signUp(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	birthdate, err := time.Parse(birthdateLayout, c.PostForm("birthdate"))
	if username == "" || password == "" || err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"ErrorMessage": "username, password and birthdate are required",
		})
		return
	}

	img, err := h.readProfileImage(c)
	if err != nil {
		h.failInternal(c, "signup_read_image_failed", err, "username", username)
		return
	}

	_, err = h.services.Auth.SignUp(c.Request.Context(), service.SignUpParams{
		Username:  username,
		Password:  password,
		Birthdate: birthdate,
		Image:     img,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.HTML(http.StatusConflict, "signup.html", gin.H{
				"ErrorMessage": msgUsernameTaken,
			})
			return
		}
		h.failInternal(c, "signup_failed", err, "username", username)
		return
	}

	c.HTML(http.StatusOK, "signup.html", gin.H{
		"SuccessMessage": msgSignupDone,
	})
}

// readProfileImage pulls the optional image upload into memory together with
// its declared content type. No size or type limits at this scale.
func (h *Handler) readProfileImage(c *gin.Context) (*models.ProfileImage, error) {
	file, err := c.FormFile("profileImage")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("read image form file: %w", err)
	}
	return readImageUpload(file)
}

func readImageUpload(file *multipart.FileHeader) (*models.ProfileImage, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open image upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("buffer image upload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &models.ProfileImage{
		Data:        data,
		ContentType: file.Header.Get("Content-Type"),
	}, nil
}

func (h *Handler) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"LoggedInUser": sessionFrom(c),
	})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	sess, cookie, err := h.services.Auth.Login(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"ErrorMessage": msgUserNotFound,
			})
		case errors.Is(err, service.ErrWrongPassword):
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"ErrorMessage": msgWrongPassword,
			})
		default:
			h.failInternal(c, "login_failed", err, "username", username)
		}
		return
	}

	h.setSessionCookie(c, cookie)
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%d", sess.UserID))
}

// logout destroys the session server-side. Without a session it is a plain
// redirect home.
func (h *Handler) logout(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), sess.Token); err != nil {
		h.failInternal(c, "logout_failed", err, "user_id", sess.UserID)
		return
	}

	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}
