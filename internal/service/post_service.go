package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quillhq/quill/internal/form"
	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/repository"
)

// ErrNotOwner is returned when a user tries to edit or delete a post
// they did not author. The web layer turns it into a redirect to the
// post detail page, never an error page.
var ErrNotOwner = errors.New("not the post author")

// MediaStore is the slice of the media layer the post service needs.
type MediaStore interface {
	SavePost(name string, data []byte) (string, error)
}

// PostService owns the write path for posts and comments: validation,
// ownership checks, image persistence, and the forced author/post
// bindings that are never trusted from the submission itself.
type PostService interface {
	Create(ctx context.Context, authorID string, f *form.PostForm) (*model.Post, form.Errors, error)
	Edit(ctx context.Context, postID, editorID string, f *form.PostForm) (*model.Post, form.Errors, error)
	Delete(ctx context.Context, postID, requesterID string) error
	Get(ctx context.Context, postID string) (*model.Post, []*model.Comment, error)
	AddComment(ctx context.Context, postID, authorID string, f *form.CommentForm) (form.Errors, error)
}

type postService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	groupRepo   repository.GroupRepository
	media       MediaStore
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, groupRepo repository.GroupRepository, media MediaStore) PostService {
	return &postService{postRepo: postRepo, commentRepo: commentRepo, groupRepo: groupRepo, media: media}
}

// checkGroup folds the referential check into the form's error map so
// the template can annotate the group field like any other.
func (s *postService) checkGroup(ctx context.Context, groupID string, errs form.Errors) (*string, error) {
	if groupID == "" {
		return nil, nil
	}
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			errs["group"] = "chosen group does not exist"
			return nil, nil
		}
		return nil, err
	}
	return &groupID, nil
}

func (s *postService) Create(ctx context.Context, authorID string, f *form.PostForm) (*model.Post, form.Errors, error) {
	errs := f.Validate()
	groupID, err := s.checkGroup(ctx, f.GroupID, errs)
	if err != nil {
		return nil, nil, err
	}
	if errs.Any() {
		return nil, errs, nil
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		Text:      f.Text,
		AuthorID:  authorID,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
	if f.Image != nil {
		stored, err := s.media.SavePost(f.Image.Filename, f.Image.Data)
		if err != nil {
			return nil, nil, err
		}
		post.ImagePath = stored
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, nil, err
	}
	return post, nil, nil
}

func (s *postService) Edit(ctx context.Context, postID, editorID string, f *form.PostForm) (*model.Post, form.Errors, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if post.AuthorID != editorID {
		return nil, nil, ErrNotOwner
	}

	errs := f.Validate()
	groupID, err := s.checkGroup(ctx, f.GroupID, errs)
	if err != nil {
		return nil, nil, err
	}
	if errs.Any() {
		return post, errs, nil
	}

	post.Text = f.Text
	post.GroupID = groupID
	if f.Image != nil {
		stored, err := s.media.SavePost(f.Image.Filename, f.Image.Data)
		if err != nil {
			return nil, nil, err
		}
		post.ImagePath = stored
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, nil, err
	}
	return post, nil, nil
}

func (s *postService) Delete(ctx context.Context, postID, requesterID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return ErrNotOwner
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *postService) Get(ctx context.Context, postID string) (*model.Post, []*model.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

func (s *postService) AddComment(ctx context.Context, postID, authorID string, f *form.CommentForm) (form.Errors, error) {
	// Lookup-or-404: commenting on a missing post is a not-found, no
	// partial write happens.
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if errs := f.Validate(); errs.Any() {
		return errs, nil
	}
	c := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      f.Text,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return nil, nil
}
