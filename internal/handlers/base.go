package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'. obj is
// copied, so cached render data is never mutated.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	data := make(gin.H, len(obj)+2)
	for k, v := range obj {
		data[k] = v
	}

	if user := middleware.CurrentUser(c); user != nil {
		data["CurrentUser"] = user
	}
	data["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, data)
}

// RenderNotFound renders the dedicated 404 page.
func RenderNotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "core/404.html", gin.H{
		"Title": "Page not found",
		"Path":  c.Request.URL.Path,
	})
}

// RenderError maps a service error to a response: missing rows are 404,
// everything else is logged and rendered as 500.
func RenderError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		RenderNotFound(c)
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	Render(c, http.StatusInternalServerError, "core/500.html", gin.H{"Title": "Server error"})
}

// safeNext only accepts local absolute paths as a post-login destination.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
