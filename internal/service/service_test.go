package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quillhq/quill/internal/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Group{}, &model.Post{}, &model.Comment{}, &model.Follow{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedGroup(t *testing.T, db *gorm.DB, slug string) *model.Group {
	t.Helper()
	g := &model.Group{ID: uuid.New().String(), Title: slug, Slug: slug}
	require.NoError(t, db.Create(g).Error)
	return g
}

func seedPost(t *testing.T, db *gorm.DB, author *model.User, group *model.Group, text string, createdAt time.Time) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:        uuid.New().String(),
		Text:      text,
		AuthorID:  author.ID,
		CreatedAt: createdAt,
	}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// fakeMedia records saves without a real blob store behind it.
type fakeMedia struct {
	saved map[string][]byte
}

func newFakeMedia() *fakeMedia { return &fakeMedia{saved: map[string][]byte{}} }

func (f *fakeMedia) SavePost(name string, data []byte) (string, error) {
	path := "posts/" + name
	f.saved[path] = data
	return path, nil
}
