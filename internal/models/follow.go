package models

import (
	"time"
)

// Follow is a directed edge: User follows Author.
// The composite unique index keeps at most one edge per pair.
type Follow struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	AuthorID uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
	Edited   time.Time `gorm:"autoUpdateTime" json:"edited"`
}
