package handlers

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	feed    *services.FeedService
	follows *services.FollowService
	users   *services.UserService
}

func NewFollowHandler(feed *services.FeedService, follows *services.FollowService, users *services.UserService) *FollowHandler {
	return &FollowHandler{feed: feed, follows: follows, users: users}
}

// Index is the personal feed.
func (h *FollowHandler) Index(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, err := h.feed.FeedFor(c.Request.Context(), user, utils.PageNumber(c.Query("page")))
	if err != nil {
		RenderError(c, err)
		return
	}
	h.render(c, page, "")
}

// Author narrows the feed to one followed author.
func (h *FollowHandler) Author(c *gin.Context) {
	author, err := h.users.ByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		RenderError(c, err)
		return
	}
	page, err := h.feed.FeedForAuthor(c.Request.Context(), middleware.CurrentUser(c), author, utils.PageNumber(c.Query("page")))
	if err != nil {
		RenderError(c, err)
		return
	}
	h.render(c, page, author.Username)
}

func (h *FollowHandler) render(c *gin.Context, page interface{}, username string) {
	authors, err := h.feed.FollowedAuthors(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Title":    "Following",
		"PageObj":  page,
		"Authors":  authors,
		"Username": username,
		"Active":   "follow",
	})
}

func (h *FollowHandler) Follow(c *gin.Context) {
	author, err := h.users.ByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		RenderError(c, err)
		return
	}
	if err := h.follows.Follow(c.Request.Context(), middleware.CurrentUser(c), author); err != nil {
		RenderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	author, err := h.users.ByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		RenderError(c, err)
		return
	}
	if err := h.follows.Unfollow(c.Request.Context(), middleware.CurrentUser(c), author); err != nil {
		RenderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
}
