package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillhq/quill/internal/form"
	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/repository"
)

// ErrInvalidCredentials is returned on any login failure; it does not
// distinguish an unknown username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

type UserService interface {
	SignUp(ctx context.Context, username, email, password string) (*model.User, form.Errors, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Delete removes the account and cascades over everything the user
	// authored or participated in.
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) SignUp(ctx context.Context, username, email, password string) (*model.User, form.Errors, error) {
	errs := form.Errors{}
	if username == "" {
		errs["username"] = "username must not be empty"
	}
	if len(password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if username != "" {
		_, err := s.userRepo.GetByUsername(ctx, username)
		switch {
		case err == nil:
			errs["username"] = "username is already taken"
		case !errors.Is(err, repository.ErrNotFound):
			return nil, nil, err
		}
	}
	if errs.Any() {
		return nil, errs, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, nil, err
	}
	return u, nil, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}
