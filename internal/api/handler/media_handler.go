package handler

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/media"
)

// Media serves an uploaded blob from the media store.
func (h *Handler) Media(c *gin.Context) {
	contentPath := path.Join(media.PostNamespace, c.Param("name"))
	data, contentType, err := h.media.Get(contentPath)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
