package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// SlugPlaceholder is the slug prefix a group gets when none is supplied.
const SlugPlaceholder = "category-"

const slugMaxLen = 40

type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"uniqueIndex;size:200;not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;size:40;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// DefaultSlug derives "category-<title>" from the title, cut to the column size.
func DefaultSlug(title string) string {
	s := SlugPlaceholder + slug.Make(title)
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
	}
	return s
}

// BeforeCreate fills in the slug for rows created directly through gorm.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.Slug == "" {
		g.Slug = DefaultSlug(g.Title)
	}
	return nil
}
