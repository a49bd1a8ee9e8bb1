package services

import (
	"context"
	"fmt"

	"yatube/internal/models"
	"yatube/internal/repository"
)

type FollowService struct {
	store repository.Store
}

func NewFollowService(store repository.Store) *FollowService {
	return &FollowService{store: store}
}

// Follow makes current follow target. Following yourself is silently
// ignored, and following twice leaves a single edge.
func (s *FollowService) Follow(ctx context.Context, current, target *models.User) error {
	if current == nil {
		return ErrUnauthenticated
	}
	if current.ID == target.ID {
		return nil
	}
	if _, err := s.store.CreateFollowIfAbsent(ctx, current.ID, target.ID); err != nil {
		return fmt.Errorf("follow %d->%d: %w", current.ID, target.ID, err)
	}
	return nil
}

// Unfollow removes every current->target edge; removing none is fine.
func (s *FollowService) Unfollow(ctx context.Context, current, target *models.User) error {
	if current == nil {
		return ErrUnauthenticated
	}
	if _, err := s.store.DeleteFollows(ctx, current.ID, target.ID); err != nil {
		return fmt.Errorf("unfollow %d->%d: %w", current.ID, target.ID, err)
	}
	return nil
}

// IsFollowing always asks the store.
func (s *FollowService) IsFollowing(ctx context.Context, current, target *models.User) (bool, error) {
	if current == nil {
		return false, nil
	}
	ok, err := s.store.ExistsFollowEdge(ctx, current.ID, target.ID)
	if err != nil {
		return false, fmt.Errorf("follow edge %d->%d: %w", current.ID, target.ID, err)
	}
	return ok, nil
}
