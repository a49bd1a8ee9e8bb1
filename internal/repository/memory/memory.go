// Package memory is an in-process repository.Store for tests. It applies the
// same ordering, uniqueness and cascade rules as the gorm store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// compile-time check that *Store implements repository.Store
var _ repository.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	nextID uint
	now    func() time.Time

	users    map[uint]models.User
	groups   map[uint]models.Group
	posts    map[uint]models.Post
	comments map[uint]models.Comment
	follows  map[uint]models.Follow
}

func New() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[uint]models.User),
		groups:   make(map[uint]models.Group),
		posts:    make(map[uint]models.Post),
		comments: make(map[uint]models.Comment),
		follows:  make(map[uint]models.Follow),
	}
}

// SetClock replaces the timestamp source. Tests use it to control ordering.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrConflict
		}
	}
	now := s.now()
	user.ID = s.id()
	user.Created, user.Edited = now, now
	s.users[user.ID] = *user
	return nil
}

func (s *Store) FindUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) DeleteUser(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for pid, p := range s.posts {
		if p.AuthorID == id {
			s.deletePostLocked(pid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	for fid, f := range s.follows {
		if f.UserID == id || f.AuthorID == id {
			delete(s.follows, fid)
		}
	}
	delete(s.users, id)
	return nil
}

// ---- groups ----

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if group.Slug == "" {
		group.Slug = models.DefaultSlug(group.Title)
	}
	for _, g := range s.groups {
		if g.Title == group.Title || g.Slug == group.Slug {
			return repository.ErrConflict
		}
	}
	group.ID = s.id()
	s.groups[group.ID] = *group
	return nil
}

func (s *Store) FindGroupBySlug(_ context.Context, slug string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.Slug == slug {
			return &g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindGroupByID(_ context.Context, id uint) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (s *Store) ListGroups(_ context.Context) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (s *Store) DeleteGroup(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return repository.ErrNotFound
	}
	for pid, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
			s.posts[pid] = p
		}
	}
	delete(s.groups, id)
	return nil
}

// ---- posts ----

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPostRefsLocked(post); err != nil {
		return err
	}
	now := s.now()
	post.ID = s.id()
	post.Created, post.Edited = now, now
	s.posts[post.ID] = stripPost(*post)
	return nil
}

func (s *Store) SavePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := s.checkPostRefsLocked(post); err != nil {
		return err
	}
	post.Edited = s.now()
	s.posts[post.ID] = stripPost(*post)
	return nil
}

// checkPostRefsLocked stands in for the foreign keys.
func (s *Store) checkPostRefsLocked(post *models.Post) error {
	if _, ok := s.users[post.AuthorID]; !ok {
		return repository.ErrNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return repository.ErrNotFound
		}
	}
	return nil
}

func (s *Store) FindPostByID(_ context.Context, id uint) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = s.hydratePostLocked(p)
	return &p, nil
}

func (s *Store) DeletePost(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	s.deletePostLocked(id)
	return nil
}

func (s *Store) deletePostLocked(id uint) {
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.posts, id)
}

func (s *Store) matchLocked(p models.Post, filter repository.PostFilter) bool {
	if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
		return false
	}
	if filter.GroupID != nil && (p.GroupID == nil || *p.GroupID != *filter.GroupID) {
		return false
	}
	if filter.FollowerID != nil && !s.edgeExistsLocked(*filter.FollowerID, p.AuthorID) {
		return false
	}
	return true
}

func (s *Store) CountPosts(_ context.Context, filter repository.PostFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, p := range s.posts {
		if s.matchLocked(p, filter) {
			total++
		}
	}
	return total, nil
}

func (s *Store) ListPosts(_ context.Context, filter repository.PostFilter, limit, offset int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var posts []models.Post
	for _, p := range s.posts {
		if s.matchLocked(p, filter) {
			posts = append(posts, s.hydratePostLocked(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Edited.Equal(posts[j].Edited) {
			return posts[i].Edited.After(posts[j].Edited)
		}
		return posts[i].ID > posts[j].ID
	})
	if offset >= len(posts) {
		return []models.Post{}, nil
	}
	posts = posts[offset:]
	if limit >= 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts, nil
}

func stripPost(p models.Post) models.Post {
	p.Author = models.User{}
	p.Group = nil
	p.CommentCount = 0
	return p
}

func (s *Store) hydratePostLocked(p models.Post) models.Post {
	p.Author = s.users[p.AuthorID]
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			p.Group = &g
		}
	}
	return p
}

// ---- comments ----

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[comment.PostID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := s.users[comment.AuthorID]; !ok {
		return repository.ErrNotFound
	}
	now := s.now()
	comment.ID = s.id()
	comment.Created, comment.Edited = now, now
	c := *comment
	c.Post, c.Author = models.Post{}, models.User{}
	s.comments[c.ID] = c
	return nil
}

func (s *Store) FindCommentByID(_ context.Context, id uint) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Author = s.users[c.AuthorID]
	return &c, nil
}

func (s *Store) DeleteComment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) ListCommentsByPost(_ context.Context, postID uint) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var comments []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			c.Author = s.users[c.AuthorID]
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].Created.Equal(comments[j].Created) {
			return comments[i].Created.After(comments[j].Created)
		}
		return comments[i].ID > comments[j].ID
	})
	return comments, nil
}

func (s *Store) CountCommentsByPosts(_ context.Context, postIDs []uint) (map[uint]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	counts := make(map[uint]int, len(postIDs))
	for _, c := range s.comments {
		if wanted[c.PostID] {
			counts[c.PostID]++
		}
	}
	return counts, nil
}

// ---- follows ----

func (s *Store) CreateFollowIfAbsent(_ context.Context, userID, authorID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := s.users[authorID]; !ok {
		return false, repository.ErrNotFound
	}
	if s.edgeExistsLocked(userID, authorID) {
		return false, nil
	}
	now := s.now()
	f := models.Follow{ID: s.id(), UserID: userID, AuthorID: authorID, Created: now, Edited: now}
	s.follows[f.ID] = f
	return true, nil
}

func (s *Store) DeleteFollows(_ context.Context, userID, authorID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, f := range s.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			delete(s.follows, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) edgeExistsLocked(userID, authorID uint) bool {
	for _, f := range s.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			return true
		}
	}
	return false
}

func (s *Store) ExistsFollowEdge(_ context.Context, userID, authorID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgeExistsLocked(userID, authorID), nil
}

func (s *Store) ExistsFollowerOf(_ context.Context, authorID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.follows {
		if f.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CountFollowEdges(_ context.Context, userID, authorID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, f := range s.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListFollowedAuthors(_ context.Context, userID uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[uint]bool)
	var authors []models.User
	for _, f := range s.follows {
		if f.UserID != userID || seen[f.AuthorID] {
			continue
		}
		seen[f.AuthorID] = true
		if u, ok := s.users[f.AuthorID]; ok {
			authors = append(authors, u)
		}
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].Username < authors[j].Username })
	return authors, nil
}
