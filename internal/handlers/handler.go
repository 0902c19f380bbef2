package handlers

import (
	"net/http"

	"userboard/internal/logger"
	"userboard/internal/models"
	"userboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services      *service.Service
	log           *logger.Logger
	templatesGlob string
}

// NewHandler constructs a new HTTP handler with dependencies. templatesGlob
// points at the HTML templates rendered by gin (e.g. "web/templates/*.html").
func NewHandler(services *service.Service, log *logger.Logger, templatesGlob string) *Handler {
	return &Handler{services: services, log: log, templatesGlob: templatesGlob}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.LoadHTMLGlob(h.templatesGlob)

	// Every route runs the session middleware; public pages simply render
	// without a session when none is present.
	router.Use(h.sessionMiddleware)

	// Health endpoint
	router.GET("/health", h.health)

	// Public pages
	router.GET("/", h.home)
	router.GET("/cgv", h.cgv)

	// Auth endpoints
	router.GET("/signup", h.signupForm)
	router.POST("/signup", h.signUp)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)

	// Profile endpoints
	router.GET("/profile", h.ownProfile)
	router.GET("/profile/:userId", h.profileByID)
	router.GET("/profile-image/:userId", h.profileImage)
	router.GET("/edit-profile", h.editProfileForm)
	router.POST("/update-profile", h.updateProfile)

	return router
}

// User-visible messages. Single locale for now.
const (
	msgUsernameTaken = "this username is already in use"
	msgUserNotFound  = "user not found"
	msgWrongPassword = "wrong password"
	msgSignupDone    = "signup complete, you can now log in"
	msgImageNotFound = "image not found"
	msgGenericError  = "something went wrong, please try again"
)

// sessionFrom returns the authenticated session placed into the gin context
// by the middleware, or nil for anonymous requests.
func sessionFrom(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

// failInternal logs the error server-side and sends a generic 500 to the
// client, per the error taxonomy: unexpected failures never leak details.
func (h *Handler) failInternal(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.String(http.StatusInternalServerError, msgGenericError)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
