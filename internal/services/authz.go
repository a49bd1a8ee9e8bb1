package services

import (
	"yatube/internal/models"
)

// CanEdit reports whether acting may edit the post. Only the author may;
// there is no staff override.
func CanEdit(acting *models.User, post *models.Post) bool {
	return acting != nil && post != nil && post.AuthorID == acting.ID
}

// CanDelete is checked at delete time. It matches CanEdit today but is kept
// separate so the two rules can diverge.
func CanDelete(acting *models.User, post *models.Post) bool {
	return acting != nil && post != nil && post.AuthorID == acting.ID
}

// CanDeleteComment reports whether acting wrote the comment.
func CanDeleteComment(acting *models.User, comment *models.Comment) bool {
	return acting != nil && comment != nil && comment.AuthorID == acting.ID
}
