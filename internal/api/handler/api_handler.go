package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/api/middleware"
	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/pkg/paginate"
	"github.com/quillhq/quill/pkg/response"
)

type postDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Group     string    `json:"group,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type feedDTO struct {
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	TotalItems int64     `json:"total_items"`
	Posts      []postDTO `json:"posts"`
}

func toFeedDTO(p paginate.Page[*model.Post]) feedDTO {
	out := feedDTO{
		Page:       p.Number,
		PageSize:   p.Size,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		Posts:      make([]postDTO, 0, len(p.Items)),
	}
	for _, post := range p.Items {
		dto := postDTO{
			ID:        post.ID,
			Text:      post.Text,
			ImagePath: post.ImagePath,
			CreatedAt: post.CreatedAt,
		}
		if post.Author != nil {
			dto.Author = post.Author.Username
		}
		if post.Group != nil {
			dto.Group = post.Group.Slug
		}
		out.Posts = append(out.Posts, dto)
	}
	return out
}

// APIFeed returns the global feed page.
// @Summary Global feed
// @Tags feed
// @Produce json
// @Param page query int false "page number" default(1)
// @Success 200 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) APIFeed(c *gin.Context) {
	page, err := h.feeds.Global(c.Request.Context(), pageNumber(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, toFeedDTO(page))
}

// APIGroupFeed returns the feed for one group.
// @Summary Group feed
// @Tags feed
// @Produce json
// @Param slug path string true "group slug"
// @Param page query int false "page number" default(1)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/groups/{slug}/posts [get]
func (h *Handler) APIGroupFeed(c *gin.Context) {
	_, page, err := h.feeds.Group(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "group not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, toFeedDTO(page))
}

// APIProfileFeed returns the feed for one author.
// @Summary Profile feed
// @Tags feed
// @Produce json
// @Param username path string true "author username"
// @Param page query int false "page number" default(1)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/posts [get]
func (h *Handler) APIProfileFeed(c *gin.Context) {
	_, page, err := h.feeds.Profile(c.Request.Context(), c.Param("username"), pageNumber(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, toFeedDTO(page))
}

// APIFollowingFeed returns posts from the authors the viewer follows.
// @Summary Following feed
// @Tags feed
// @Produce json
// @Param page query int false "page number" default(1)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/feed/following [get]
func (h *Handler) APIFollowingFeed(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		response.Unauthorized(c, "authentication required")
		return
	}
	page, err := h.feeds.Following(c.Request.Context(), viewer.UserID, pageNumber(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, toFeedDTO(page))
}

type followRequest struct {
	Author string `json:"author" binding:"required"`
}

// APIFollow creates a follow edge from the viewer to the named author
// and reports the tri-state outcome.
// @Summary Follow an author
// @Tags relations
// @Accept json
// @Produce json
// @Param request body followRequest true "author to follow"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) APIFollow(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		response.Unauthorized(c, "authentication required")
		return
	}
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	author, err := h.users.GetByUsername(c.Request.Context(), req.Author)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	outcome, err := h.rels.Follow(c.Request.Context(), viewer.UserID, author.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"outcome": outcome.String()})
}

// APIUnfollow deletes the viewer's follow edge toward the named author.
// @Summary Unfollow an author
// @Tags relations
// @Accept json
// @Produce json
// @Param request body followRequest true "author to unfollow"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) APIUnfollow(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		response.Unauthorized(c, "authentication required")
		return
	}
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	author, err := h.users.GetByUsername(c.Request.Context(), req.Author)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	if err := h.rels.Unfollow(c.Request.Context(), viewer.UserID, author.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "follow edge not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// APIFollowers lists the users following the named author.
// @Summary List followers
// @Tags relations
// @Produce json
// @Param username path string true "author username"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/followers [get]
func (h *Handler) APIFollowers(c *gin.Context) {
	h.apiRelationList(c, h.rels.Followers)
}

// APIFollowing lists the authors the named user follows.
// @Summary List following
// @Tags relations
// @Produce json
// @Param username path string true "username"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/following [get]
func (h *Handler) APIFollowing(c *gin.Context) {
	h.apiRelationList(c, h.rels.Following)
}

func (h *Handler) apiRelationList(c *gin.Context, list func(ctx context.Context, id string) ([]*model.User, error)) {
	user, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	users, err := list(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	response.Success(c, gin.H{"usernames": names})
}
