package services

import (
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOwnershipRules(t *testing.T) {
	leo := &models.User{ID: 1}
	anna := &models.User{ID: 2}
	post := &models.Post{ID: 10, AuthorID: leo.ID}
	comment := &models.Comment{ID: 20, AuthorID: anna.ID, PostID: post.ID}

	assert.True(t, CanEdit(leo, post))
	assert.False(t, CanEdit(anna, post))
	assert.False(t, CanEdit(nil, post))
	assert.False(t, CanEdit(leo, nil))

	assert.True(t, CanDelete(leo, post))
	assert.False(t, CanDelete(anna, post))

	assert.True(t, CanDeleteComment(anna, comment))
	assert.False(t, CanDeleteComment(leo, comment))
	assert.False(t, CanDeleteComment(nil, comment))
}
