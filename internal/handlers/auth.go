package handlers

import (
	"errors"
	"log"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// signIn stores the user id in the session cookie.
func signIn(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, userID)
	return session.Save()
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "users/signup.html", gin.H{
		"Title": "Sign up",
		"Form":  services.RegisterInput{},
	})
}

// Signup registers the account and signs it in right away.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(c.Request.Context(), in)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		in.Password = ""
		Render(c, http.StatusOK, "users/signup.html", gin.H{
			"Title":  "Sign up",
			"Form":   in,
			"Errors": verr.Fields,
		})
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}

	if err := signIn(c, user.ID); err != nil {
		log.Printf("save session for %s: %v", user.Username, err)
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "users/login.html", gin.H{
		"Title": "Log in",
		"Next":  safeNext(c.Query("next")),
	})
}

// Login checks the credentials and follows ?next= when it is a local path.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := safeNext(c.DefaultPostForm("next", c.Query("next")))

	user, err := h.users.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		Render(c, http.StatusOK, "users/login.html", gin.H{
			"Title":    "Log in",
			"Next":     next,
			"Username": username,
			"Error":    "Please enter a correct username and password.",
		})
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}

	if err := signIn(c, user.ID); err != nil {
		log.Printf("save session for %s: %v", user.Username, err)
	}
	if next == "" {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	// the page below must not greet the user who just left
	c.Set(middleware.CheckUserKey, nil)

	Render(c, http.StatusOK, "users/logged_out.html", gin.H{"Title": "Logged out"})
}
