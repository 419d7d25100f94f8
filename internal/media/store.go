// Package media stores uploaded binary payloads in a badger keyspace.
// Keys are content paths namespaced by entity type ("posts/<name>");
// name collisions are resolved here, not by callers.
package media

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// PostNamespace prefixes every post image path.
const PostNamespace = "posts"

// ErrNotFound is returned when no blob exists at the requested path.
var ErrNotFound = errors.New("media not found")

// Store is a badger-backed blob store for uploaded media.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store at dir. An empty dir opens an
// in-memory store, used by tests and disposable dev setups.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SavePost stores data under "posts/<name>". If the path is taken the
// stored name gains a short random fragment before the extension, and
// the actual path is returned.
func (s *Store) SavePost(name string, data []byte) (string, error) {
	name = sanitize(name)
	stored := path.Join(PostNamespace, name)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(stored)); err == nil {
			stored = path.Join(PostNamespace, decollide(name))
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(stored), data)
	})
	if err != nil {
		return "", err
	}
	return stored, nil
}

// Get returns the blob at the given content path and a sniffed content
// type for serving.
func (s *Store) Get(contentPath string) ([]byte, string, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(contentPath))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
}

// sanitize strips any directory component a client smuggled into the
// filename.
func sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return name
}

func decollide(name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext)
}
