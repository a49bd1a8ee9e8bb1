package services

import (
	"context"
	"fmt"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

type CommentInput struct {
	Text string `form:"text" validate:"required"`
}

type CommentService struct {
	store repository.Store
}

func NewCommentService(store repository.Store) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.store.FindCommentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find comment %d: %w", id, err)
	}
	return comment, nil
}

// Add attaches a comment by author to post. Any signed-in user may comment.
func (s *CommentService) Add(ctx context.Context, post *models.Post, author *models.User, text string) (*models.Comment, error) {
	if author == nil {
		return nil, ErrUnauthenticated
	}
	in := CommentInput{Text: strings.TrimSpace(text)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Text:     in.Text,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment on post %d: %w", post.ID, err)
	}
	comment.Author = *author
	return comment, nil
}

// Delete removes a comment written by acting.
func (s *CommentService) Delete(ctx context.Context, comment *models.Comment, acting *models.User) error {
	if !CanDeleteComment(acting, comment) {
		return ErrForbidden
	}
	if err := s.store.DeleteComment(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment %d: %w", comment.ID, err)
	}
	return nil
}
