package services

import (
	"context"
	"fmt"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/utils"
)

// FeedService composes the personal feed out of follow edges.
type FeedService struct {
	store repository.Store
}

func NewFeedService(store repository.Store) *FeedService {
	return &FeedService{store: store}
}

// FeedFor returns posts by the authors current follows, newest edit first.
func (s *FeedService) FeedFor(ctx context.Context, current *models.User, page int) (*utils.Page[models.Post], error) {
	if current == nil {
		return nil, ErrUnauthenticated
	}
	return paginatePosts(ctx, s.store, repository.PostFilter{FollowerID: &current.ID}, page)
}

// FeedForAuthor narrows the feed to one followed author. It is empty when
// current does not follow author.
func (s *FeedService) FeedForAuthor(ctx context.Context, current, author *models.User, page int) (*utils.Page[models.Post], error) {
	if current == nil {
		return nil, ErrUnauthenticated
	}
	return paginatePosts(ctx, s.store, repository.PostFilter{FollowerID: &current.ID, AuthorID: &author.ID}, page)
}

// FollowedAuthors is the distinct set of authors current follows.
func (s *FeedService) FollowedAuthors(ctx context.Context, current *models.User) ([]models.User, error) {
	if current == nil {
		return nil, ErrUnauthenticated
	}
	authors, err := s.store.ListFollowedAuthors(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("followed authors of %d: %w", current.ID, err)
	}
	return authors, nil
}
