package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"taskbook/internal/auth"
	"taskbook/internal/dto"
	"taskbook/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionManager is the slice of auth.Store the auth handler needs.
type SessionManager interface {
	Create(ctx context.Context, userID int64, remember bool) (string, error)
	Delete(ctx context.Context, id string) error
	GetUserID(ctx context.Context, id string) (int64, bool)
	CookieMaxAge(remember bool) int
}

// AuthHandler handles the login, signup and logout pages.
type AuthHandler struct {
	sessions SessionManager
	userSvc  *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(sessions SessionManager, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc}
}

// LoginPage godoc
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if h.isAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true   "Username"
// @Param        password  formData  string  true   "Password"
// @Param        remember  formData  string  false  "Keep the session after the browser closes"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	if h.isAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		// One message for both unknown user and wrong password.
		if err == service.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	remember := form.RememberSet()
	sessionID, err := h.sessions.Create(c.Request.Context(), user.ID, remember)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.SetCookie(auth.SessionCookieName, sessionID, h.sessions.CookieMaxAge(remember), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// SignupPage godoc
// @Summary      Signup page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /signup [get]
func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "signup"})
}

// Signup godoc
// @Summary      Sign up
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "Username (1-30 chars, unique)"
// @Param        password  formData  string  true  "Password"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var form dto.SignupForm
	_ = c.ShouldBind(&form)

	if form.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please insert a username."})
		return
	}
	if form.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please insert a password."})
		return
	}

	_, err := h.userSvc.Register(c.Request.Context(), form.Username, form.Password)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/login")
	case err == service.ErrUsernameTaken:
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("User with username %s already exists.", form.Username)})
	case err == service.ErrUsernameTooLong:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err == service.ErrInvalidCredentials:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please insert a username."})
	default:
		log.Printf("signup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again."})
	}
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(auth.SessionCookieName)
	if err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) isAuthenticated(c *gin.Context) bool {
	sessionID, err := c.Cookie(auth.SessionCookieName)
	if err != nil || sessionID == "" {
		return false
	}
	_, ok := h.sessions.GetUserID(c.Request.Context(), sessionID)
	return ok
}
