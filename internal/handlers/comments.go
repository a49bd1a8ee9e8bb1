package handlers

import (
	"errors"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	posts    *services.PostService
	comments *services.CommentService
}

func NewCommentHandler(posts *services.PostService, comments *services.CommentService) *CommentHandler {
	return &CommentHandler{posts: posts, comments: comments}
}

// Add posts a comment. An empty comment is dropped and the user lands on
// the post either way.
func (h *CommentHandler) Add(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderNotFound(c)
		return
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return
	}

	_, err = h.comments.Add(c.Request.Context(), post, middleware.CurrentUser(c), c.PostForm("text"))
	var verr *services.ValidationError
	if err != nil && !errors.As(err, &verr) {
		RenderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, detailPath(post.ID))
}

// Delete removes the user's own comment; other comments are left alone.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderNotFound(c)
		return
	}
	comment, err := h.comments.Get(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return
	}

	err = h.comments.Delete(c.Request.Context(), comment, middleware.CurrentUser(c))
	if err != nil && !errors.Is(err, services.ErrForbidden) {
		RenderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, detailPath(comment.PostID))
}
