package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/utils"
)

// PostInput is the post form. Author is never part of it: the acting user
// always becomes the author.
type PostInput struct {
	Text    string       `form:"text" validate:"required"`
	GroupID *uint        `form:"group"`
	Image   *ImageUpload `form:"image" validate:"-"`
}

// DetailView is everything the post page shows.
type DetailView struct {
	Post      *models.Post
	Comments  []models.Comment
	PostCount int64 // posts by the same author
}

// ProfileView is an author page.
type ProfileView struct {
	Author    *models.User
	Page      *utils.Page[models.Post]
	PostCount int64
	IsAuthor  bool
	// Following is true when anybody follows the author.
	Following bool
	// FollowedByMe is true when the viewer follows the author.
	FollowedByMe bool
}

type PostService struct {
	store  repository.Store
	images ImageStore
}

// NewPostService builds the post rules. images may be nil, in which case
// posts with an image are rejected.
func NewPostService(store repository.Store, images ImageStore) *PostService {
	return &PostService{store: store, images: images}
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.store.FindPostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return post, nil
}

func (s *PostService) validate(ctx context.Context, in *PostInput) error {
	in.Text = strings.TrimSpace(in.Text)
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.GroupID != nil {
		if _, err := s.store.FindGroupByID(ctx, *in.GroupID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fieldError("group", "Select a valid choice.")
			}
			return fmt.Errorf("find group %d: %w", *in.GroupID, err)
		}
	}
	return nil
}

func (s *PostService) saveImage(ctx context.Context, upload *ImageUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	if s.images == nil {
		return "", fieldError("image", "Image uploads are disabled.")
	}
	return s.images.Save(ctx, *upload)
}

func (s *PostService) removeImage(ctx context.Context, ref string) {
	if ref == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(ctx, ref); err != nil {
		log.Printf("remove image %s: %v", ref, err)
	}
}

// Create validates the input and stores a new post by author.
func (s *PostService) Create(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if author == nil {
		return nil, ErrUnauthenticated
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	ref, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: author.ID,
		GroupID:  in.GroupID,
		Image:    ref,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		s.removeImage(ctx, ref)
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.Get(ctx, post.ID)
}

// Edit replaces text, group and optionally image of a post owned by acting
// and marks it as edited. Without a new image the old one is kept.
func (s *PostService) Edit(ctx context.Context, post *models.Post, acting *models.User, in PostInput) (*models.Post, error) {
	if !CanEdit(acting, post) {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	ref, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	updated := *post
	updated.Text = in.Text
	updated.GroupID = in.GroupID
	updated.PostEdit = true
	if ref != "" {
		updated.Image = ref
	}
	if err := s.store.SavePost(ctx, &updated); err != nil {
		s.removeImage(ctx, ref)
		return nil, fmt.Errorf("save post %d: %w", post.ID, err)
	}
	if ref != "" && post.Image != "" {
		s.removeImage(ctx, post.Image)
	}
	return s.Get(ctx, post.ID)
}

// Delete removes a post owned by acting together with its comments.
func (s *PostService) Delete(ctx context.Context, post *models.Post, acting *models.User) error {
	if !CanDelete(acting, post) {
		return ErrForbidden
	}
	if err := s.store.DeletePost(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post %d: %w", post.ID, err)
	}
	s.removeImage(ctx, post.Image)
	return nil
}

// ListAll is the index listing.
func (s *PostService) ListAll(ctx context.Context, page int) (*utils.Page[models.Post], error) {
	return paginatePosts(ctx, s.store, repository.PostFilter{}, page)
}

func (s *PostService) ListByGroup(ctx context.Context, group *models.Group, page int) (*utils.Page[models.Post], error) {
	return paginatePosts(ctx, s.store, repository.PostFilter{GroupID: &group.ID}, page)
}

func (s *PostService) ListByAuthor(ctx context.Context, author *models.User, page int) (*utils.Page[models.Post], error) {
	return paginatePosts(ctx, s.store, repository.PostFilter{AuthorID: &author.ID}, page)
}

// Profile builds the author page as seen by current, who may be nil.
func (s *PostService) Profile(ctx context.Context, current, author *models.User, page int) (*ProfileView, error) {
	posts, err := s.ListByAuthor(ctx, author, page)
	if err != nil {
		return nil, err
	}
	following, err := s.store.ExistsFollowerOf(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("followers of %d: %w", author.ID, err)
	}
	view := &ProfileView{
		Author:    author,
		Page:      posts,
		PostCount: posts.Count,
		IsAuthor:  current != nil && current.ID == author.ID,
		Following: following,
	}
	if current != nil && !view.IsAuthor {
		view.FollowedByMe, err = s.store.ExistsFollowEdge(ctx, current.ID, author.ID)
		if err != nil {
			return nil, fmt.Errorf("follow edge %d->%d: %w", current.ID, author.ID, err)
		}
	}
	return view, nil
}

// Detail loads a post with its comments and the author's post count.
func (s *PostService) Detail(ctx context.Context, id uint) (*DetailView, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ListCommentsByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("comments of post %d: %w", id, err)
	}
	count, err := s.store.CountPosts(ctx, repository.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("count posts of %d: %w", post.AuthorID, err)
	}
	post.CommentCount = len(comments)
	return &DetailView{Post: post, Comments: comments, PostCount: count}, nil
}

// paginatePosts returns one clamped page of the filtered listing.
func paginatePosts(ctx context.Context, store repository.Store, filter repository.PostFilter, number int) (*utils.Page[models.Post], error) {
	count, err := store.CountPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	paginator := utils.NewPaginator(count)
	number = paginator.Clamp(number)
	limit, offset := paginator.Window(number)

	posts, err := store.ListPosts(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := fillCommentCounts(ctx, store, posts); err != nil {
		return nil, err
	}
	return &utils.Page[models.Post]{
		Items:    posts,
		Number:   number,
		NumPages: paginator.NumPages(),
		Count:    count,
		PerPage:  paginator.PerPage,
	}, nil
}

// fillCommentCounts 批量填充帖子的评论数量
func fillCommentCounts(ctx context.Context, store repository.Comments, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	counts, err := store.CountCommentsByPosts(ctx, postIDs)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}
