// Package router assembles the HTTP surface: the server-rendered pages
// and the /api/v1 JSON endpoints.
package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	sentrygin "github.com/getsentry/sentry-go/gin"

	"github.com/quillhq/quill/config"
	_ "github.com/quillhq/quill/docs"
	"github.com/quillhq/quill/internal/api/handler"
	"github.com/quillhq/quill/internal/api/middleware"
	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/cache"
)

// cacheVariant partitions the page cache by viewer identity. The cached
// index embeds the viewer's navbar and the "you follow authors" banner,
// so every authenticated viewer gets their own entry; anonymous viewers
// share one. Within a variant the page is deliberately stale-tolerant.
func cacheVariant(c *gin.Context) string {
	if v := middleware.Viewer(c); v != nil {
		return "auth:" + v.UserID
	}
	return "anon"
}

// New builds the engine. templatesGlob points at the HTML templates;
// tests pass their own fixtures.
func New(cfg *config.Config, h *handler.Handler, pages *cache.PageCache, sessions *auth.Manager, templatesGlob string) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Otel.Enabled {
		r.Use(otelgin.Middleware("quill"))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(middleware.ResolveViewer(sessions))

	r.LoadHTMLGlob(templatesGlob)
	r.NoRoute(h.NotFoundPage)

	// Server-rendered pages. Only the global feed is cache-eligible.
	r.GET("/", pages.Middleware("index", cacheVariant), h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:id/", h.PostDetail)

	guarded := r.Group("/", middleware.LoginRequired())
	{
		guarded.GET("/create/", h.PostCreateForm)
		guarded.POST("/create/", h.PostCreate)
		guarded.GET("/posts/:id/edit/", h.PostEditForm)
		guarded.POST("/posts/:id/edit/", h.PostEdit)
		guarded.POST("/posts/:id/delete/", h.PostDelete)
		guarded.POST("/posts/:id/comment/", h.AddComment)
		guarded.GET("/follow/", h.FollowIndex)
		guarded.GET("/profile/:username/follow/", h.ProfileFollow)
		guarded.GET("/profile/:username/unfollow/", h.ProfileUnfollow)
	}

	authRoutes := r.Group("/auth")
	{
		authRoutes.GET("/signup/", h.SignupForm)
		authRoutes.POST("/signup/", h.Signup)
		authRoutes.GET("/login/", h.LoginForm)
		authRoutes.POST("/login/", h.Login)
		authRoutes.GET("/logout/", h.Logout)
	}

	r.GET("/media/posts/:name", h.Media)

	api := r.Group("/api/v1")
	{
		api.GET("/feed", h.APIFeed)
		api.GET("/feed/following", h.APIFollowingFeed)
		api.GET("/groups/:slug/posts", h.APIGroupFeed)
		api.GET("/users/:username/posts", h.APIProfileFeed)
		api.GET("/users/:username/followers", h.APIFollowers)
		api.GET("/users/:username/following", h.APIFollowing)
		api.POST("/relations/follow", h.APIFollow)
		api.POST("/relations/unfollow", h.APIUnfollow)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
