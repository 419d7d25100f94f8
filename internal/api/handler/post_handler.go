package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/api/middleware"
	"github.com/quillhq/quill/internal/form"
	"github.com/quillhq/quill/internal/service"
)

// readUpload pulls an optional multipart file out of the request. An
// absent file is not an error.
func readUpload(c *gin.Context, field string) (*form.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &form.Upload{Filename: fh.Filename, Data: data}, nil
}

func (h *Handler) postForm(c *gin.Context) (*form.PostForm, error) {
	upload, err := readUpload(c, "image")
	if err != nil {
		return nil, err
	}
	return &form.PostForm{
		Text:    c.PostForm("text"),
		GroupID: c.PostForm("group"),
		Image:   upload,
	}, nil
}

// PostDetail renders one post with its comments and the comment form.
func (h *Handler) PostDetail(c *gin.Context) {
	post, comments, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "post_detail.html", gin.H{
		"Post":     post,
		"Comments": comments,
	})
}

// PostCreateForm renders the empty submission form.
func (h *Handler) PostCreateForm(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "post_create.html", gin.H{"Groups": groups})
}

// PostCreate validates the submission and persists the post with the
// author forced to the viewer. A failed validation re-renders the form
// with field errors and writes nothing.
func (h *Handler) PostCreate(c *gin.Context) {
	viewer := middleware.Viewer(c)
	f, err := h.postForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	_, errs, err := h.posts.Create(c.Request.Context(), viewer.UserID, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs.Any() {
		groups, gerr := h.groups.List(c.Request.Context())
		if gerr != nil {
			h.fail(c, gerr)
			return
		}
		h.html(c, http.StatusOK, "post_create.html", gin.H{
			"Form":   f,
			"Errors": errs,
			"Groups": groups,
		})
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+viewer.Username+"/")
}

// PostEditForm renders the edit form, prefilled. Non-authors are sent
// back to the detail page instead of an error.
func (h *Handler) PostEditForm(c *gin.Context) {
	id := c.Param("id")
	viewer := middleware.Viewer(c)
	post, _, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if post.AuthorID != viewer.UserID {
		c.Redirect(http.StatusFound, "/posts/"+id+"/")
		return
	}
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	f := &form.PostForm{Text: post.Text}
	if post.GroupID != nil {
		f.GroupID = *post.GroupID
	}
	h.html(c, http.StatusOK, "post_create.html", gin.H{
		"Form":   f,
		"Groups": groups,
		"IsEdit": true,
		"PostID": id,
	})
}

// PostEdit applies a validated edit by the author. created_at never
// changes here.
func (h *Handler) PostEdit(c *gin.Context) {
	id := c.Param("id")
	viewer := middleware.Viewer(c)
	f, err := h.postForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	_, errs, err := h.posts.Edit(c.Request.Context(), id, viewer.UserID, f)
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			c.Redirect(http.StatusFound, "/posts/"+id+"/")
			return
		}
		h.fail(c, err)
		return
	}
	if errs.Any() {
		groups, gerr := h.groups.List(c.Request.Context())
		if gerr != nil {
			h.fail(c, gerr)
			return
		}
		h.html(c, http.StatusOK, "post_create.html", gin.H{
			"Form":   f,
			"Errors": errs,
			"Groups": groups,
			"IsEdit": true,
			"PostID": id,
		})
		return
	}
	c.Redirect(http.StatusFound, "/posts/"+id+"/")
}

// PostDelete removes the post and its comments. Non-authors are sent
// back to the detail page.
func (h *Handler) PostDelete(c *gin.Context) {
	id := c.Param("id")
	viewer := middleware.Viewer(c)
	if err := h.posts.Delete(c.Request.Context(), id, viewer.UserID); err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			c.Redirect(http.StatusFound, "/posts/"+id+"/")
			return
		}
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+viewer.Username+"/")
}

// AddComment creates a comment with author and post forced from the
// session and the URL. Validation failures re-render the detail page
// with the field errors attached.
func (h *Handler) AddComment(c *gin.Context) {
	id := c.Param("id")
	viewer := middleware.Viewer(c)
	f := &form.CommentForm{Text: c.PostForm("text")}
	errs, err := h.posts.AddComment(c.Request.Context(), id, viewer.UserID, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs.Any() {
		post, comments, gerr := h.posts.Get(c.Request.Context(), id)
		if gerr != nil {
			h.fail(c, gerr)
			return
		}
		h.html(c, http.StatusOK, "post_detail.html", gin.H{
			"Post":          post,
			"Comments":      comments,
			"CommentForm":   f,
			"CommentErrors": errs,
		})
		return
	}
	c.Redirect(http.StatusFound, "/posts/"+id+"/")
}
