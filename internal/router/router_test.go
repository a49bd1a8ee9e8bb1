package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/render"
	"yatube/internal/repository"
	"yatube/internal/repository/memory"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubViews print just enough of the render data to assert on.
var stubViews = map[string]string{
	"posts/index.html":       `index page={{.PageObj.Number}}/{{.PageObj.NumPages}}{{range .PageObj.Items}} [{{.Text}}]{{end}}`,
	"posts/group_list.html":  `group {{.Group.Title}}{{range .PageObj.Items}} [{{.Text}}]{{end}}`,
	"posts/groups.html":      `groups{{range .Groups}} [{{.Title}}]{{end}}`,
	"posts/profile.html":     `profile {{.Author.Username}} count={{.PostCount}} following={{.Following}} mine={{.FollowedByMe}}{{range .PageObj.Items}} [{{.Text}}]{{end}}`,
	"posts/post_detail.html": `detail {{.Post.Text}} edited={{.Post.PostEdit}} canedit={{.CanEdit}} comments={{len .Comments}}{{range .Comments}} [{{.Text}}]{{end}}`,
	"posts/create_post.html": `form edit={{.IsEdit}}{{range $k, $v := .Errors}} error:{{$k}}{{end}}`,
	"posts/follow.html":      `follow {{.Username}} authors={{len .Authors}}{{range .PageObj.Items}} [{{.Text}}]{{end}}`,
	"users/signup.html":      `signup{{range $k, $v := .Errors}} error:{{$k}}{{end}}`,
	"users/login.html":       `login next={{.Next}} error={{.Error}}`,
	"users/logged_out.html":  `logged out user={{with .CurrentUser}}{{.Username}}{{end}}`,
	"core/404.html":          `not found`,
	"core/500.html":          `server error`,
}

type testApp struct {
	t      *testing.T
	r      *gin.Engine
	store  *memory.Store
	cache  *utils.LRUCache
	jar    map[string][]*http.Cookie
	active string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	renderer := multitemplate.NewRenderer()
	for _, view := range render.Views {
		tmpl, ok := stubViews[view]
		require.True(t, ok, "missing stub for %s", view)
		renderer.AddFromString(view, tmpl)
	}

	cache, err := utils.NewLRUCache(16)
	require.NoError(t, err)

	store := memory.New()
	r := gin.New()
	r.HTMLRender = renderer
	Setup(r, Options{
		Store:         store,
		Cache:         cache,
		CacheTTL:      time.Minute,
		SessionSecret: "test-secret",
	})
	return &testApp{t: t, r: r, store: store, cache: cache, jar: map[string][]*http.Cookie{}}
}

// as makes the following requests carry username's session.
func (a *testApp) as(username string) *testApp {
	a.active = username
	return a
}

func (a *testApp) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range a.jar[a.active] {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		a.jar[a.active] = cookies
	}
	return w
}

func (a *testApp) get(target string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, target, nil)
}

func (a *testApp) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, target, form)
}

// signup registers username through the form and keeps its session.
func (a *testApp) signup(username string) *models.User {
	a.t.Helper()
	w := a.as(username).post("/auth/signup/", url.Values{
		"username": {username},
		"password": {"password123"},
	})
	require.Equal(a.t, http.StatusFound, w.Code, w.Body.String())
	user, err := a.store.FindUserByUsername(context.Background(), username)
	require.NoError(a.t, err)
	return user
}

func (a *testApp) createPost(author *models.User, text string, groupID *uint) *models.Post {
	a.t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID, GroupID: groupID}
	require.NoError(a.t, a.store.CreatePost(context.Background(), post))
	return post
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)
	leo := app.signup("leo")
	cats := &models.Group{Title: "Cats"}
	require.NoError(t, app.store.CreateGroup(context.Background(), cats))
	post := app.createPost(leo, "hello cats", &cats.ID)

	app.as("")
	w := app.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "[hello cats]")

	w = app.get("/group/category-cats/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "group Cats [hello cats]")

	w = app.get("/groups/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "[Cats]")

	w = app.get("/profile/leo/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "profile leo count=1")

	w = app.get("/posts/" + itoa(post.ID) + "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "detail hello cats edited=false canedit=false")
}

func TestNotFoundPages(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{
		"/group/nope/",
		"/profile/nobody/",
		"/posts/999/",
		"/posts/abc/",
		"/no/such/page/",
	} {
		w := app.get(target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Equal(t, "not found", w.Body.String(), target)
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/create/", "/follow/", "/posts/1/edit/", "/profile/leo/follow/"} {
		w := app.get(target)
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, "/auth/login/?next="+url.QueryEscape(target), w.Header().Get("Location"))
	}

	w := app.post("/posts/1/comment/", url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login/?next="))
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)
	app.signup("leo")
	app.as("leo").get("/auth/logout/")

	w := app.as("fresh").get("/auth/login/?next=/create/")
	assert.Contains(t, w.Body.String(), "next=/create/")

	w = app.post("/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error=Please enter a correct username and password.")

	w = app.post("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {"password123"},
		"next":     {"/create/"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/create/", w.Header().Get("Location"))

	w = app.get("/create/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "form edit=false")

	w = app.get("/auth/logout/")
	assert.Equal(t, "logged out user=", w.Body.String())

	w = app.get("/create/")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	app := newTestApp(t)
	app.signup("leo")

	w := app.as("other").post("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {"password123"},
		"next":     {"//evil.example.com/"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)
	app.signup("leo")

	w := app.as("dup").post("/auth/signup/", url.Values{
		"username": {"leo"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error:username")

	w = app.post("/auth/signup/", url.Values{"username": {"anna"}, "password": {"short"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error:password")
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	app.signup("leo")

	w := app.as("leo").post("/create/", url.Values{"text": {""}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error:text")

	w = app.post("/create/", url.Values{"text": {"first post"}, "group": {"77"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error:group")

	w = app.post("/create/", url.Values{"text": {"first post"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))

	w = app.get("/profile/leo/")
	assert.Contains(t, w.Body.String(), "[first post]")
}

func TestEditPostOwnership(t *testing.T) {
	app := newTestApp(t)
	leo := app.signup("leo")
	app.signup("anna")
	post := app.createPost(leo, "original", nil)
	detail := "/posts/" + itoa(post.ID) + "/"

	w := app.as("anna").get(detail + "edit/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	w = app.post(detail+"edit/", url.Values{"text": {"hijacked"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))
	assert.Contains(t, app.get(detail).Body.String(), "detail original edited=false canedit=false")

	w = app.as("leo").get(detail + "edit/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "form edit=true")

	w = app.post(detail+"edit/", url.Values{"text": {"updated"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))
	assert.Contains(t, app.get(detail).Body.String(), "detail updated edited=true canedit=true")
}

func TestDeletePost(t *testing.T) {
	app := newTestApp(t)
	leo := app.signup("leo")
	app.signup("anna")
	post := app.createPost(leo, "doomed", nil)
	detail := "/posts/" + itoa(post.ID) + "/"

	w := app.as("anna").post(detail+"delete/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, app.get(detail).Code)

	w = app.as("leo").post(detail+"delete/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, http.StatusNotFound, app.get(detail).Code)
}

func TestComments(t *testing.T) {
	app := newTestApp(t)
	leo := app.signup("leo")
	app.signup("anna")
	post := app.createPost(leo, "post", nil)
	detail := "/posts/" + itoa(post.ID) + "/"

	w := app.as("anna").post(detail+"comment/", url.Values{"text": {"nice"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	// an empty comment is dropped but still lands on the post
	w = app.post(detail+"comment/", url.Values{"text": {"  "}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))
	assert.Contains(t, app.get(detail).Body.String(), "comments=1 [nice]")

	w = app.post("/posts/999/comment/", url.Values{"text": {"lost"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	comments, err := app.store.ListCommentsByPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	deletePath := "/posts/" + itoa(comments[0].ID) + "/comment/delete/"

	// leo owns the post, not the comment
	w = app.as("leo").post(deletePath, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))
	assert.Contains(t, app.get(detail).Body.String(), "comments=1")

	w = app.as("anna").post(deletePath, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))
	assert.Contains(t, app.get(detail).Body.String(), "comments=0")
}

func TestFollowFlow(t *testing.T) {
	app := newTestApp(t)
	leo := app.signup("leo")
	anna := app.signup("anna")
	app.createPost(leo, "leo post", nil)
	app.createPost(anna, "anna post", nil)

	w := app.as("leo").get("/follow/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "follow  authors=0", w.Body.String())

	w = app.get("/profile/anna/follow/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/anna/", w.Header().Get("Location"))
	app.get("/profile/anna/follow/")

	n, err := app.store.CountFollowEdges(context.Background(), leo.ID, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	w = app.get("/follow/")
	assert.Equal(t, "follow  authors=1 [anna post]", w.Body.String())

	w = app.get("/follow/anna/")
	assert.Equal(t, "follow anna authors=1 [anna post]", w.Body.String())

	w = app.get("/profile/anna/")
	assert.Contains(t, w.Body.String(), "following=true mine=true")

	// self-follow is silently ignored
	w = app.get("/profile/leo/follow/")
	assert.Equal(t, http.StatusFound, w.Code)
	n, err = app.store.CountFollowEdges(context.Background(), leo.ID, leo.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	w = app.get("/profile/anna/unfollow/")
	assert.Equal(t, http.StatusFound, w.Code)
	app.get("/profile/anna/unfollow/")
	assert.Equal(t, "follow  authors=0", app.get("/follow/").Body.String())

	w = app.get("/profile/ghost/follow/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexPagination(t *testing.T) {
	app := newTestApp(t)
	leo := app.signup("leo")
	for i := 0; i < 18; i++ {
		app.createPost(leo, "p", nil)
	}

	assert.True(t, strings.HasPrefix(app.get("/").Body.String(), "index page=1/2"))
	assert.True(t, strings.HasPrefix(app.get("/?page=2").Body.String(), "index page=2/2"))
	assert.True(t, strings.HasPrefix(app.get("/?page=3").Body.String(), "index page=2/2"))
	assert.True(t, strings.HasPrefix(app.get("/?page=abc").Body.String(), "index page=1/2"))
	assert.Equal(t, 8, strings.Count(app.get("/?page=3").Body.String(), "[p]"))
}

func TestIndexCache(t *testing.T) {
	app := newTestApp(t)
	leo := app.signup("leo")
	app.createPost(leo, "cached", nil)

	assert.Contains(t, app.get("/").Body.String(), "[cached]")

	// written behind the handlers' back, so the cached page is served
	app.createPost(leo, "sneaky", nil)
	assert.NotContains(t, app.get("/").Body.String(), "[sneaky]")

	// creating through the site purges the cache
	app.as("leo").post("/create/", url.Values{"text": {"fresh"}})
	body := app.get("/").Body.String()
	assert.Contains(t, body, "[sneaky]")
	assert.Contains(t, body, "[fresh]")
}

func TestStoreErrorsRender500(t *testing.T) {
	renderer := multitemplate.NewRenderer()
	for _, view := range render.Views {
		renderer.AddFromString(view, stubViews[view])
	}
	r := gin.New()
	r.HTMLRender = renderer
	Setup(r, Options{Store: brokenStore{memory.New()}, SessionSecret: "s"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server error", w.Body.String())
}

// brokenStore fails every post count.
type brokenStore struct {
	*memory.Store
}

func (brokenStore) CountPosts(context.Context, repository.PostFilter) (int64, error) {
	return 0, assert.AnError
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
