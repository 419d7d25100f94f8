package model

import "time"

// Follow is a directed edge: FollowerID receives AuthorID's posts in
// their following feed.
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);not null;index:idx_follow_follower;index:idx_follow_pair,unique"`
	AuthorID   string `gorm:"type:varchar(36);not null;index:idx_follow_author;index:idx_follow_pair,unique;check:chk_follow_not_self,follower_id <> author_id"`
	// idx_follow_pair = (follower_id, author_id): at most one edge per
	// ordered pair, enforced by the store even under concurrent writes.
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
