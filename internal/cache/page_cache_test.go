package cache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, ttl time.Duration) (*PageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPageCache(client, ttl), mr
}

func TestGetSetRoundtrip(t *testing.T) {
	pc, _ := setupCache(t, time.Minute)
	ctx := context.Background()

	_, ok := pc.Get(ctx, "page:index:anon:1")
	assert.False(t, ok)

	pc.Set(ctx, "page:index:anon:1", &Entry{Status: 200, ContentType: "text/html", Body: []byte("<p>hi</p>")})

	e, ok := pc.Get(ctx, "page:index:anon:1")
	require.True(t, ok)
	assert.Equal(t, 200, e.Status)
	assert.Equal(t, []byte("<p>hi</p>"), e.Body)
}

func TestEntryExpires(t *testing.T) {
	pc, mr := setupCache(t, 5*time.Second)
	ctx := context.Background()

	pc.Set(ctx, "page:index:anon:1", &Entry{Status: 200, Body: []byte("x")})
	_, ok := pc.Get(ctx, "page:index:anon:1")
	require.True(t, ok)

	mr.FastForward(6 * time.Second)

	_, ok = pc.Get(ctx, "page:index:anon:1")
	assert.False(t, ok)
}

// The staleness contract: within the TTL window every request gets the
// first rendering regardless of underlying writes; after expiry the
// next request re-renders.
func TestMiddlewareServesStaleUntilExpiry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc, mr := setupCache(t, 5*time.Second)

	content := "version 1"
	renders := 0
	r := gin.New()
	r.GET("/", pc.Middleware("index", func(*gin.Context) string { return "anon" }), func(c *gin.Context) {
		renders++
		c.String(http.StatusOK, content)
	})

	get := func() string {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	a := get()
	assert.Equal(t, "version 1", a)

	content = "version 2" // the underlying data changed
	b := get()
	assert.Equal(t, a, b, "within the TTL the stale rendering is served")
	assert.Equal(t, 1, renders)

	mr.FastForward(6 * time.Second)

	c := get()
	assert.Equal(t, "version 2", c)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, renders)
}

func TestMiddlewareSeparatesViewerVariants(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc, _ := setupCache(t, time.Minute)

	r := gin.New()
	variant := func(c *gin.Context) string { return c.GetHeader("X-Variant") }
	r.GET("/", pc.Middleware("index", variant), func(c *gin.Context) {
		c.String(http.StatusOK, "rendered for %s", c.GetHeader("X-Variant"))
	})

	get := func(v string) string {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Variant", v)
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "rendered for anon", get("anon"))
	assert.Equal(t, "rendered for auth", get("auth"), "variants never share entries")
}

func TestMiddlewareSeparatesPages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc, _ := setupCache(t, time.Minute)

	r := gin.New()
	r.GET("/", pc.Middleware("index", func(*gin.Context) string { return "anon" }), func(c *gin.Context) {
		c.String(http.StatusOK, "page %s", c.DefaultQuery("page", "1"))
	})

	get := func(q string) string {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/"+q, nil)
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "page 1", get(""))
	assert.Equal(t, "page 2", get("?page=2"))
	assert.Equal(t, "page 1", get("?page=1"), "default and explicit page 1 share a key")
}

func TestMiddlewareSkipsNon200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc, _ := setupCache(t, time.Minute)

	status := http.StatusInternalServerError
	r := gin.New()
	r.GET("/", pc.Middleware("index", func(*gin.Context) string { return "anon" }), func(c *gin.Context) {
		c.String(status, "body")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// The failure was not cached; a later success renders fresh.
	status = http.StatusOK
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPurge(t *testing.T) {
	pc, _ := setupCache(t, time.Minute)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		pc.Set(ctx, fmt.Sprintf("page:index:anon:%d", i), &Entry{Status: 200, Body: []byte("x")})
	}
	pc.Set(ctx, "page:other:anon:1", &Entry{Status: 200, Body: []byte("y")})

	pc.Purge(ctx, "page:index:")

	_, ok := pc.Get(ctx, "page:index:anon:1")
	assert.False(t, ok)
	_, ok = pc.Get(ctx, "page:other:anon:1")
	assert.True(t, ok, "other prefixes are untouched")
}
