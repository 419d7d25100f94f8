package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/form"
	"github.com/quillhq/quill/internal/service"
)

// safeNext only honors same-site relative redirect targets.
func safeNext(raw string) string {
	next, err := url.QueryUnescape(raw)
	if err != nil || next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (h *Handler) setSession(c *gin.Context, userID, username string) error {
	token, err := h.sessions.Issue(userID, username)
	if err != nil {
		return err
	}
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	return nil
}

func (h *Handler) SignupForm(c *gin.Context) {
	h.html(c, http.StatusOK, "signup.html", gin.H{"Next": c.Query("next")})
}

func (h *Handler) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	user, errs, err := h.users.SignUp(c.Request.Context(), username, email, password)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs.Any() {
		h.html(c, http.StatusOK, "signup.html", gin.H{
			"Errors":   errs,
			"Username": username,
			"Email":    email,
			"Next":     c.PostForm("next"),
		})
		return
	}
	if err := h.setSession(c, user.ID, user.Username); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next")))
}

func (h *Handler) LoginForm(c *gin.Context) {
	h.html(c, http.StatusOK, "login.html", gin.H{"Next": c.Query("next")})
}

func (h *Handler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// The combined message names no single field; it lives under
			// its own key so field keys keep meaning fields.
			h.html(c, http.StatusOK, "login.html", gin.H{
				"Errors":   form.Errors{"login": err.Error()},
				"Username": username,
				"Next":     c.PostForm("next"),
			})
			return
		}
		h.fail(c, err)
		return
	}
	if err := h.setSession(c, user.ID, user.Username); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next")))
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
