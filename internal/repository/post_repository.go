package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/quillhq/quill/internal/model"
)

// feedOrder is the global presentation order: newest first, with the id
// as a stable tiebreak for posts created in the same instant.
const feedOrder = "posts.created_at DESC, posts.id DESC"

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// Update rewrites the mutable columns only; created_at and author_id
	// never change after create.
	Update(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// Delete removes the post and its comments in one transaction.
	Delete(ctx context.Context, id string) error

	CountAll(ctx context.Context) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]*model.Post, error)
	CountByGroup(ctx context.Context, groupID string) (int64, error)
	ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]*model.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error)
	// CountFollowed/ListFollowed resolve the following scope with an
	// explicit join against the follow edges of the viewer.
	CountFollowed(ctx context.Context, followerID string) (int64, error)
	ListFollowed(ctx context.Context, followerID string, offset, limit int) ([]*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{ID: post.ID}).
		Updates(map[string]any{
			"text":       post.Text,
			"group_id":   post.GroupID,
			"image_path": post.ImagePath,
		}).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Post
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListAll(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		Order(feedOrder).Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("group_id = ?", groupID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		Where("group_id = ?", groupID).
		Order(feedOrder).Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		Where("author_id = ?", authorID).
		Order(feedOrder).Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) CountFollowed(ctx context.Context, followerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.follower_id = ?", followerID).
		Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListFollowed(ctx context.Context, followerID string, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.follower_id = ?", followerID).
		Order(feedOrder).Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}
