package model

import "time"

// Comment belongs to exactly one post and one author; deleting either
// removes the comment (enforced by the repository cascade).
type Comment struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	PostID   string `gorm:"type:varchar(36);not null;index:idx_comment_post"`
	Post     *Post  `gorm:"foreignKey:PostID"`
	AuthorID string `gorm:"type:varchar(36);not null;index:idx_comment_author"`
	Author   *User  `gorm:"foreignKey:AuthorID"`
	Text     string `gorm:"type:text;not null"`
	// CreatedAt is set once on create; comments list newest-first.
	CreatedAt time.Time `gorm:"index:idx_comment_created"`
}

func (Comment) TableName() string { return "comments" }
