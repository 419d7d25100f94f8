// Package cache memoizes rendered pages in redis for a short TTL. The
// global feed is deliberately stale-tolerant: writes do not invalidate
// a live entry, expiry is purely time-based.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Entry is one cached rendering.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// PageCache stores rendered pages keyed by page identity and viewer
// class. Concurrent requests may race to write the same key; entries
// are idempotent for a given key within the TTL window, so the race is
// benign.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = 20 * time.Second
	}
	return &PageCache{client: client, ttl: ttl}
}

func (c *PageCache) TTL() time.Duration { return c.ttl }

func (c *PageCache) Get(ctx context.Context, key string) (*Entry, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &e, true
}

func (c *PageCache) Set(ctx context.Context, key string, e *Entry) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Purge drops every entry under the given prefix. Only tests and admin
// tooling use it; the steady state relies on expiry alone.
func (c *PageCache) Purge(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}

// Key builds the cache key for a page identity: name, viewer variant,
// and the page number from the query.
func Key(name, variant, page string) string {
	if page == "" {
		page = "1"
	}
	return fmt.Sprintf("page:%s:%s:%s", name, variant, page)
}

type teeWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves the named page from cache when a live entry exists
// and otherwise captures the handler's rendering for the next viewers.
// variant partitions the key space by viewer class so one class never
// sees another's rendering. Only 200 responses are stored.
func (c *PageCache) Middleware(name string, variant func(*gin.Context) string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := Key(name, variant(ctx), ctx.Query("page"))
		if e, ok := c.Get(ctx.Request.Context(), key); ok {
			ctx.Data(e.Status, e.ContentType, e.Body)
			ctx.Abort()
			return
		}

		tee := &teeWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = tee
		ctx.Next()

		if tee.Status() == http.StatusOK {
			c.Set(ctx.Request.Context(), key, &Entry{
				Status:      tee.Status(),
				ContentType: tee.Header().Get("Content-Type"),
				Body:        tee.buf.Bytes(),
			})
		}
	}
}
