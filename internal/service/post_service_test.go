package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quillhq/quill/internal/form"
	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/repository"
)

func newPostService(db *gorm.DB, media MediaStore) PostService {
	return NewPostService(
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewGroupRepository(db),
		media,
	)
}

func TestCreatePostForcesAuthorAndCreatedAt(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	before := time.Now()
	post, errs, err := svc.Create(ctx, alice.ID, &form.PostForm{Text: "hello"})
	require.NoError(t, err)
	require.False(t, errs.Any())
	assert.Equal(t, alice.ID, post.AuthorID)
	assert.False(t, post.CreatedAt.Before(before.Truncate(time.Second)))
	assert.Nil(t, post.GroupID)
}

func TestCreatePostEmptyTextFailsValidation(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	post, errs, err := svc.Create(ctx, alice.ID, &form.PostForm{Text: "   \n\t "})
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.True(t, errs.Any())
	assert.NotEmpty(t, errs.Get("text"))

	// No partial write.
	var cnt int64
	require.NoError(t, db.Model(&model.Post{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestCreatePostUnknownGroupFailsValidation(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	_, errs, err := svc.Create(ctx, alice.ID, &form.PostForm{Text: "hi", GroupID: "missing"})
	require.NoError(t, err)
	assert.True(t, errs.Any())
	assert.NotEmpty(t, errs.Get("group"))
}

func TestCreatePostStoresImage(t *testing.T) {
	db := setupDB(t)
	media := newFakeMedia()
	svc := newPostService(db, media)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	post, errs, err := svc.Create(ctx, alice.ID, &form.PostForm{
		Text:  "with image",
		Image: &form.Upload{Filename: "pic.png", Data: []byte{1, 2, 3}},
	})
	require.NoError(t, err)
	require.False(t, errs.Any())
	assert.Equal(t, "posts/pic.png", post.ImagePath)
	assert.Equal(t, []byte{1, 2, 3}, media.saved["posts/pic.png"])
}

func TestEditByNonAuthorIsRejected(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, nil, "alice's", time.Now())

	_, _, err := svc.Edit(ctx, post.ID, bob.ID, &form.PostForm{Text: "hijack"})
	assert.ErrorIs(t, err, ErrNotOwner)

	got, _, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice's", got.Text)
}

func TestEditKeepsCreatedAt(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	created := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	post := seedPost(t, db, alice, nil, "original", created)

	_, errs, err := svc.Edit(ctx, post.ID, alice.ID, &form.PostForm{Text: "edited"})
	require.NoError(t, err)
	require.False(t, errs.Any())

	got, _, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
}

func TestDeleteByNonAuthorIsRejected(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, nil, "keep me", time.Now())

	assert.ErrorIs(t, svc.Delete(ctx, post.ID, bob.ID), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, post.ID, alice.ID))

	_, _, err := svc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAddCommentForcesPostAndAuthor(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, nil, "commentable", time.Now())

	errs, err := svc.AddComment(ctx, post.ID, bob.ID, &form.CommentForm{Text: "hi there"})
	require.NoError(t, err)
	require.False(t, errs.Any())

	_, comments, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, bob.ID, comments[0].AuthorID)
	assert.Equal(t, post.ID, comments[0].PostID)
}

func TestAddCommentMissingPostIsNotFound(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	bob := seedUser(t, db, "bob")

	_, err := svc.AddComment(ctx, "no-such-post", bob.ID, &form.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var cnt int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestAddCommentEmptyTextFailsValidation(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, nil, "commentable", time.Now())

	errs, err := svc.AddComment(ctx, post.ID, alice.ID, &form.CommentForm{Text: "  "})
	require.NoError(t, err)
	assert.True(t, errs.Any())

	var cnt int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestCommentsListNewestFirst(t *testing.T) {
	db := setupDB(t)
	svc := newPostService(db, newFakeMedia())
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, nil, "commentable", time.Now())

	commentRepo := repository.NewCommentRepository(db)
	base := time.Now()
	for i, text := range []string{"first", "second", "third"} {
		require.NoError(t, commentRepo.Create(ctx, &model.Comment{
			ID:        text,
			PostID:    post.ID,
			AuthorID:  alice.ID,
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	_, comments, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Text)
	assert.Equal(t, "first", comments[2].Text)
}
