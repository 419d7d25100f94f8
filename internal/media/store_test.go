package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openStore(t)

	path, err := s.SavePost("pic.png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	assert.Equal(t, "posts/pic.png", path)

	data, _, err := s.Get(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)

	_, _, err := s.Get("posts/absent.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollisionGetsFreshName(t *testing.T) {
	s := openStore(t)

	first, err := s.SavePost("pic.png", []byte("one"))
	require.NoError(t, err)
	second, err := s.SavePost("pic.png", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Contains(t, second, "posts/pic_")
	assert.Contains(t, second, ".png")

	data, _, err := s.Get(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data, "the original blob is untouched")

	data, _, err = s.Get(second)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestFilenameSanitized(t *testing.T) {
	s := openStore(t)

	path, err := s.SavePost("../../etc/passwd", []byte("nope"))
	require.NoError(t, err)
	assert.Equal(t, "posts/passwd", path)
}
