package model

import "time"

// Post is the content unit of every feed. GroupID is optional; when a
// group is deleted its posts keep living in the global feed with the
// reference nulled out.
type Post struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)"`
	Text      string  `gorm:"type:text;not null"`
	AuthorID  string  `gorm:"type:varchar(36);not null;index:idx_post_author"`
	Author    *User   `gorm:"foreignKey:AuthorID"`
	GroupID   *string `gorm:"type:varchar(36);index:idx_post_group"`
	Group     *Group  `gorm:"foreignKey:GroupID"`
	ImagePath string  `gorm:"type:varchar(255)"`
	// CreatedAt is set once on create and drives all feed ordering.
	CreatedAt time.Time `gorm:"index:idx_post_created"`
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }
