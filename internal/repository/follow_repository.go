package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quillhq/quill/internal/model"
)

type FollowRepository interface {
	// Create inserts the edge and reports whether a row was actually
	// written. A duplicate insert is absorbed by the unique pair index
	// and reported as created=false.
	Create(ctx context.Context, followerID, authorID string) (created bool, err error)
	// Delete removes the edge, returning ErrNotFound when it is absent.
	Delete(ctx context.Context, followerID, authorID string) error
	Exists(ctx context.Context, followerID, authorID string) (bool, error)
	ListFollowing(ctx context.Context, followerID string) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, authorID string) ([]*model.Follow, error)
	CountFollowing(ctx context.Context, followerID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, authorID string) (bool, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, AuthorID: authorID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, authorID string) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, authorID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("follower_id = ?", followerID).Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, authorID string) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Find(&res).Error
	return res, err
}

func (r *followRepository) CountFollowing(ctx context.Context, followerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Count(&cnt).Error
	return cnt, err
}
