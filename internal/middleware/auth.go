package middleware

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the signed-in user id.
const SessionUserKey = "user_id"

// LoginPath is where anonymous users are sent.
const LoginPath = "/auth/login/"

// AuthRequired ensures a user is logged in. Anonymous requests are sent to
// the login page with the original path in ?next=.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL builds the login redirect carrying next.
func LoginURL(next string) string {
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// LoadUser retrieves user from session and sets to context
func LoadUser(users repository.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := sessionUserID(session.Get(SessionUserKey)); ok {
			user, err := users.FindUserByID(c.Request.Context(), id)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
			case errors.Is(err, repository.ErrNotFound):
				// stale session, e.g. the account was deleted
				session.Delete(SessionUserKey)
				_ = session.Save()
			default:
				// keep the session, the store may be back on the next request
				log.Printf("load session user %d: %v", id, err)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(CheckUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func sessionUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	}
	return 0, false
}
