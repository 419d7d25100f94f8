// Package form validates user-submitted post and comment data before
// it reaches the store. Validation is pure: referential checks (does
// the chosen group exist) belong to the service layer, which merges its
// findings into the same Errors map so templates can render everything
// field by field.
package form

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Errors maps a field name to a human-readable message.
type Errors map[string]string

func (e Errors) Any() bool { return len(e) > 0 }

func (e Errors) Get(field string) string { return e[field] }

// Upload carries a file submitted alongside a form.
type Upload struct {
	Filename string
	Data     []byte
}

// PostForm is a post submission. GroupID and Image are optional. The
// author is never part of the form; it is forced from the session.
type PostForm struct {
	Text    string `form:"text" validate:"required"`
	GroupID string `form:"group"`
	Image   *Upload
}

// Normalize trims surrounding whitespace so that a blank-only text
// fails the required check.
func (f *PostForm) Normalize() {
	f.Text = strings.TrimSpace(f.Text)
	f.GroupID = strings.TrimSpace(f.GroupID)
}

func (f *PostForm) Validate() Errors {
	f.Normalize()
	errs := Errors{}
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Text":
				errs["text"] = "post text must not be empty"
			}
		}
	}
	return errs
}

// CommentForm is a comment submission. The author and the target post
// are forced from the session and the URL, never from the body.
type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

func (f *CommentForm) Normalize() {
	f.Text = strings.TrimSpace(f.Text)
}

func (f *CommentForm) Validate() Errors {
	f.Normalize()
	errs := Errors{}
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Text":
				errs["text"] = "comment text must not be empty"
			}
		}
	}
	return errs
}
