package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/api/middleware"
)

func pageNumber(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return n
}

// Index renders the global feed. The route is wrapped by the page cache
// middleware; within the TTL window every viewer of the same variant
// gets the same bytes.
func (h *Handler) Index(c *gin.Context) {
	page, err := h.feeds.Global(c.Request.Context(), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	data := gin.H{"Page": page}
	if viewer := middleware.Viewer(c); viewer != nil {
		follower, err := h.rels.FollowsAnyone(c.Request.Context(), viewer.UserID)
		if err != nil {
			h.fail(c, err)
			return
		}
		data["Follower"] = follower
	}
	h.html(c, http.StatusOK, "index.html", data)
}

// GroupPosts renders the feed scoped to one group, resolved by slug.
func (h *Handler) GroupPosts(c *gin.Context) {
	group, page, err := h.feeds.Group(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "group_list.html", gin.H{"Group": group, "Page": page})
}

// Profile renders an author's posts plus the viewer's follow state
// toward them.
func (h *Handler) Profile(c *gin.Context) {
	author, page, err := h.feeds.Profile(c.Request.Context(), c.Param("username"), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	following := false
	if viewer := middleware.Viewer(c); viewer != nil {
		following, err = h.rels.IsFollowing(c.Request.Context(), viewer.UserID, author.ID)
		if err != nil {
			h.fail(c, err)
			return
		}
	}
	h.html(c, http.StatusOK, "profile.html", gin.H{
		"Author":    author,
		"Page":      page,
		"Following": following,
	})
}

// FollowIndex renders posts from the authors the viewer follows. The
// route is guarded; an authenticated viewer with no edges gets an empty
// feed, not an error.
func (h *Handler) FollowIndex(c *gin.Context) {
	viewer := middleware.Viewer(c)
	page, err := h.feeds.Following(c.Request.Context(), viewer.UserID, pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	follower, err := h.rels.FollowsAnyone(c.Request.Context(), viewer.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "follow.html", gin.H{"Page": page, "Follower": follower})
}
