package models

import (
	"time"
	"unicode/utf8"
)

type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PostEdit bool      `gorm:"not null;default:false" json:"post_edit"` // set only by an explicit edit
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id"` // Nullable, survives group deletion
	Group    *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	Image    string    `gorm:"size:255" json:"image"` // path inside the media store
	Created  time.Time `gorm:"autoCreateTime;index" json:"created"`
	Edited   time.Time `gorm:"autoUpdateTime;index" json:"edited"`

	// 非数据库字段，用于列表页填充
	CommentCount int `gorm:"-" json:"comment_count"`
}

// Excerpt returns the first 15 characters of the text, used in titles.
func (p Post) Excerpt() string {
	if utf8.RuneCountInString(p.Text) <= 15 {
		return p.Text
	}
	return string([]rune(p.Text)[:15]) + "..."
}

// InGroup reports whether the post belongs to a group.
func (p Post) InGroup() bool {
	return p.GroupID != nil
}
