// Package repository is the data-store boundary. The domain rules in
// internal/services only talk to the Store interface; GormStore backs it
// with PostgreSQL and memory.Store backs it in tests.
package repository

import (
	"context"
	"errors"

	"yatube/internal/models"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("record already exists")
)

// PostFilter narrows a post listing. Nil fields are ignored; all set fields
// must match.
type PostFilter struct {
	AuthorID *uint
	GroupID  *uint
	// FollowerID keeps only posts whose author is followed by this user.
	FollowerID *uint
}

type Users interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	// DeleteUser removes the user with their posts, comments and follow edges.
	DeleteUser(ctx context.Context, id uint) error
}

type Groups interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	FindGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	FindGroupByID(ctx context.Context, id uint) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	// DeleteGroup removes the group; its posts stay with a null group.
	DeleteGroup(ctx context.Context, id uint) error
}

type Posts interface {
	CreatePost(ctx context.Context, post *models.Post) error
	SavePost(ctx context.Context, post *models.Post) error
	// FindPostByID loads the post with its author and group.
	FindPostByID(ctx context.Context, id uint) (*models.Post, error)
	// DeletePost removes the post and its comments.
	DeletePost(ctx context.Context, id uint) error
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)
	// ListPosts returns posts ordered by edited time, newest first.
	ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error)
}

type Comments interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	// ListCommentsByPost returns comments ordered by created time, newest first.
	ListCommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	// CountCommentsByPosts returns comment counts keyed by post id.
	CountCommentsByPosts(ctx context.Context, postIDs []uint) (map[uint]int, error)
}

type Follows interface {
	// CreateFollowIfAbsent inserts the (user, author) edge unless it already
	// exists and reports whether a row was written.
	CreateFollowIfAbsent(ctx context.Context, userID, authorID uint) (bool, error)
	// DeleteFollows removes every (user, author) edge and returns how many.
	DeleteFollows(ctx context.Context, userID, authorID uint) (int64, error)
	ExistsFollowEdge(ctx context.Context, userID, authorID uint) (bool, error)
	// ExistsFollowerOf reports whether anybody follows the author.
	ExistsFollowerOf(ctx context.Context, authorID uint) (bool, error)
	CountFollowEdges(ctx context.Context, userID, authorID uint) (int64, error)
	// ListFollowedAuthors returns the distinct authors the user follows.
	ListFollowedAuthors(ctx context.Context, userID uint) ([]models.User, error)
}

// Store is everything the domain rules need from persistence.
type Store interface {
	Users
	Groups
	Posts
	Comments
	Follows
}
