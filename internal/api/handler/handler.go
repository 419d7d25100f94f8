package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillhq/quill/internal/api/middleware"
	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/media"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/internal/service"
	"github.com/quillhq/quill/pkg/logger"
)

// Handler carries every dependency the web and API routes need.
type Handler struct {
	feeds    service.FeedService
	posts    service.PostService
	users    service.UserService
	rels     service.RelationshipService
	groups   repository.GroupRepository
	media    *media.Store
	sessions *auth.Manager
}

func New(
	feeds service.FeedService,
	posts service.PostService,
	users service.UserService,
	rels service.RelationshipService,
	groups repository.GroupRepository,
	mediaStore *media.Store,
	sessions *auth.Manager,
) *Handler {
	return &Handler{
		feeds:    feeds,
		posts:    posts,
		users:    users,
		rels:     rels,
		groups:   groups,
		media:    mediaStore,
		sessions: sessions,
	}
}

// html renders a page template with the viewer merged into the data.
func (h *Handler) html(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Viewer"] = middleware.Viewer(c)
	c.HTML(status, name, data)
}

// fail maps an error to the user-visible contract: a not-found page for
// lookup misses, a 500 page for everything else. Nothing here is
// retried.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, media.ErrNotFound) {
		h.notFound(c)
		return
	}
	logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	h.html(c, http.StatusInternalServerError, "500.html", nil)
	c.Abort()
}

func (h *Handler) notFound(c *gin.Context) {
	h.html(c, http.StatusNotFound, "404.html", nil)
	c.Abort()
}

// NotFoundPage is the router's fallback for unmatched routes.
func (h *Handler) NotFoundPage(c *gin.Context) { h.notFound(c) }
