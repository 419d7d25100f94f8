package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/api/middleware"
)

// ProfileFollow creates a follow edge toward the named author and sends
// the viewer back to the profile. Self-follows and duplicates are
// silent no-ops from this route's point of view.
func (h *Handler) ProfileFollow(c *gin.Context) {
	username := c.Param("username")
	viewer := middleware.Viewer(c)
	author, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.rels.Follow(c.Request.Context(), viewer.UserID, author.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

// ProfileUnfollow removes the edge; a missing edge is a 404, matching
// the lookup-or-404 contract.
func (h *Handler) ProfileUnfollow(c *gin.Context) {
	username := c.Param("username")
	viewer := middleware.Viewer(c)
	author, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.rels.Unfollow(c.Request.Context(), viewer.UserID, author.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}
