package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

type GroupInput struct {
	Title       string `form:"title" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"omitempty,max=40"`
	Description string `form:"description"`
}

type GroupService struct {
	store repository.Store
}

func NewGroupService(store repository.Store) *GroupService {
	return &GroupService{store: store}
}

// Create stores a group. An empty slug is derived from the title.
func (s *GroupService) Create(ctx context.Context, in GroupInput) (*models.Group, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	group := &models.Group{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
	}
	if group.Slug == "" {
		group.Slug = models.DefaultSlug(group.Title)
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, &ValidationError{Fields: map[string]string{
				"title": "Group with this title or slug already exists.",
			}}
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func (s *GroupService) BySlug(ctx context.Context, slug string) (*models.Group, error) {
	group, err := s.store.FindGroupBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find group %q: %w", slug, err)
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.store.ListGroups(ctx)
}

// Delete removes a group; its posts are kept without a group.
func (s *GroupService) Delete(ctx context.Context, id uint) error {
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		return fmt.Errorf("delete group %d: %w", id, err)
	}
	return nil
}
