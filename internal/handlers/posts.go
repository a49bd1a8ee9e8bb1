package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts    *services.PostService
	groups   *services.GroupService
	users    *services.UserService
	cache    utils.PageCache
	cacheTTL time.Duration
}

// NewPostHandler wires the post pages. cache may be nil.
func NewPostHandler(posts *services.PostService, groups *services.GroupService, users *services.UserService, cache utils.PageCache, cacheTTL time.Duration) *PostHandler {
	return &PostHandler{
		posts:    posts,
		groups:   groups,
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// postForm is the raw create/edit form.
type postForm struct {
	Text  string `form:"text"`
	Group string `form:"group"`
}

func detailPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func profilePath(username string) string {
	return "/profile/" + username + "/"
}

func (h *PostHandler) purgeCache() {
	if h.cache != nil {
		h.cache.Purge()
	}
}

// Index lists every post. The render data is cached per URL for cacheTTL.
func (h *PostHandler) Index(c *gin.Context) {
	cacheKey := "posts:index:" + c.Request.URL.RequestURI()
	if h.cache != nil {
		if cachedData := h.cache.Get(cacheKey); cachedData != nil {
			if hData, ok := cachedData.(gin.H); ok {
				Render(c, http.StatusOK, "posts/index.html", hData)
				return
			}
		}
	}

	page, err := h.posts.ListAll(c.Request.Context(), utils.PageNumber(c.Query("page")))
	if err != nil {
		RenderError(c, err)
		return
	}

	renderData := gin.H{
		"Title":   "Latest updates",
		"PageObj": page,
	}
	if h.cache != nil {
		h.cache.Set(cacheKey, renderData, h.cacheTTL)
	}

	Render(c, http.StatusOK, "posts/index.html", renderData)
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, err := h.groups.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RenderError(c, err)
		return
	}

	page, err := h.posts.ListByGroup(c.Request.Context(), group, utils.PageNumber(c.Query("page")))
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Title":   group.Title,
		"Group":   group,
		"PageObj": page,
	})
}

func (h *PostHandler) Profile(c *gin.Context) {
	author, err := h.users.ByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		RenderError(c, err)
		return
	}

	view, err := h.posts.Profile(c.Request.Context(), middleware.CurrentUser(c), author, utils.PageNumber(c.Query("page")))
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Title":        "Profile of " + author.FullName(),
		"Author":       view.Author,
		"PageObj":      view.Page,
		"PostCount":    view.PostCount,
		"IsAuthor":     view.IsAuthor,
		"Following":    view.Following,
		"FollowedByMe": view.FollowedByMe,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderNotFound(c)
		return
	}

	view, err := h.posts.Detail(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Title":     "Post " + view.Post.Excerpt(),
		"Post":      view.Post,
		"Comments":  view.Comments,
		"PostCount": view.PostCount,
		"CanEdit":   services.CanEdit(middleware.CurrentUser(c), view.Post),
	})
}

// renderForm shows the create/edit form, with field errors when given.
func (h *PostHandler) renderForm(c *gin.Context, post *models.Post, form postForm, fieldErrors map[string]string) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	Render(c, http.StatusOK, "posts/create_post.html", gin.H{
		"Title":  title,
		"IsEdit": post != nil,
		"Post":   post,
		"Form":   form,
		"Groups": groups,
		"Errors": fieldErrors,
	})
}

// readPostInput converts the submitted form, including the optional image.
// The returned closer must be called once the input has been used.
func readPostInput(c *gin.Context) (postForm, services.PostInput, func(), error) {
	noop := func() {}
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		return form, services.PostInput{}, noop, err
	}

	in := services.PostInput{Text: form.Text}
	if form.Group != "" {
		id, ok := utils.ParseID(form.Group)
		if !ok {
			return form, in, noop, &services.ValidationError{Fields: map[string]string{"group": "Select a valid choice."}}
		}
		in.GroupID = &id
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, in, noop, nil
	}
	if err != nil {
		return form, in, noop, err
	}
	file, err := header.Open()
	if err != nil {
		return form, in, noop, err
	}
	in.Image = &services.ImageUpload{Filename: header.Filename, Content: file}
	return form, in, func() { file.Close() }, nil
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, nil, postForm{}, nil)
}

// Create stores the post and sends the author to their profile.
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	form, in, closeInput, err := readPostInput(c)
	defer closeInput()
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		h.renderForm(c, nil, form, verr.Fields)
		return
	}
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if _, err := h.posts.Create(c.Request.Context(), user, in); err != nil {
		if errors.As(err, &verr) {
			h.renderForm(c, nil, form, verr.Fields)
			return
		}
		RenderError(c, err)
		return
	}

	h.purgeCache()
	c.Redirect(http.StatusFound, profilePath(user.Username))
}

// loadPost resolves :id or renders the 404 page.
func (h *PostHandler) loadPost(c *gin.Context) (*models.Post, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderNotFound(c)
		return nil, false
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return nil, false
	}
	return post, true
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	// 验证是否为作者
	if !services.CanEdit(middleware.CurrentUser(c), post) {
		c.Redirect(http.StatusFound, detailPath(post.ID))
		return
	}

	form := postForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = fmt.Sprint(*post.GroupID)
	}
	h.renderForm(c, post, form, nil)
}

// Edit saves the owner's changes; anybody else is sent back to the post.
func (h *PostHandler) Edit(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if !services.CanEdit(user, post) {
		c.Redirect(http.StatusFound, detailPath(post.ID))
		return
	}

	form, in, closeInput, err := readPostInput(c)
	defer closeInput()
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		h.renderForm(c, post, form, verr.Fields)
		return
	}
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	_, err = h.posts.Edit(c.Request.Context(), post, user, in)
	switch {
	case errors.As(err, &verr):
		h.renderForm(c, post, form, verr.Fields)
		return
	case err != nil:
		RenderError(c, err)
		return
	default:
		h.purgeCache()
	}

	c.Redirect(http.StatusFound, detailPath(post.ID))
}

// Delete removes the owner's post. For anyone else it is a no-op; both go
// back to the index.
func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	err := h.posts.Delete(c.Request.Context(), post, middleware.CurrentUser(c))
	if err != nil && !errors.Is(err, services.ErrForbidden) {
		RenderError(c, err)
		return
	}
	if err == nil {
		h.purgeCache()
	}

	c.Redirect(http.StatusFound, "/")
}
