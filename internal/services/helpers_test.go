package services_test

import (
	"context"
	"sync"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository/memory"
	"yatube/internal/services"

	"github.com/stretchr/testify/require"
)

// fakeImages records saved and removed references instead of touching disk.
type fakeImages struct {
	mu      sync.Mutex
	saved   []string
	removed []string
}

func (f *fakeImages) Save(_ context.Context, upload services.ImageUpload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := "posts/" + upload.Filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeImages) Remove(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	return nil
}

type fixture struct {
	store    *memory.Store
	images   *fakeImages
	users    *services.UserService
	groups   *services.GroupService
	posts    *services.PostService
	comments *services.CommentService
	follows  *services.FollowService
	feed     *services.FeedService
}

func newFixture() *fixture {
	store := memory.New()
	images := &fakeImages{}
	return &fixture{
		store:    store,
		images:   images,
		users:    services.NewUserService(store),
		groups:   services.NewGroupService(store),
		posts:    services.NewPostService(store, images),
		comments: services.NewCommentService(store),
		follows:  services.NewFollowService(store),
		feed:     services.NewFeedService(store),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), services.RegisterInput{
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) group(t *testing.T, title string) *models.Group {
	t.Helper()
	g, err := f.groups.Create(context.Background(), services.GroupInput{Title: title})
	require.NoError(t, err)
	return g
}

func (f *fixture) post(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	in := services.PostInput{Text: text}
	if group != nil {
		in.GroupID = &group.ID
	}
	p, err := f.posts.Create(context.Background(), author, in)
	require.NoError(t, err)
	return p
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
