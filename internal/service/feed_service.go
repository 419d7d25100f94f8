package service

import (
	"context"

	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/pkg/paginate"
)

// DefaultPageSize is used when the configured feed page size is absent
// or nonsensical.
const DefaultPageSize = 10

// FeedService resolves the four post visibility scopes and paginates
// them. Every scope presents posts newest-first.
type FeedService interface {
	Global(ctx context.Context, page int) (paginate.Page[*model.Post], error)
	// Group resolves the group by slug (ErrNotFound on a miss) and pages
	// through its posts.
	Group(ctx context.Context, slug string, page int) (*model.Group, paginate.Page[*model.Post], error)
	// Profile resolves the author by username (ErrNotFound on a miss)
	// and pages through their posts.
	Profile(ctx context.Context, username string, page int) (*model.User, paginate.Page[*model.Post], error)
	// Following pages through posts by authors the viewer follows. A
	// viewer with no edges (or no identity) gets an empty page, never an
	// error.
	Following(ctx context.Context, viewerID string, page int) (paginate.Page[*model.Post], error)
}

type feedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	pageSize  int
}

func NewFeedService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, userRepo repository.UserRepository, pageSize int) FeedService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &feedService{postRepo: postRepo, groupRepo: groupRepo, userRepo: userRepo, pageSize: pageSize}
}

// resolve runs the count+list pair shared by every scope, clamping the
// requested page against the collection bounds first.
func (s *feedService) resolve(
	ctx context.Context,
	page int,
	count func(context.Context) (int64, error),
	list func(ctx context.Context, offset, limit int) ([]*model.Post, error),
) (paginate.Page[*model.Post], error) {
	total, err := count(ctx)
	if err != nil {
		return paginate.Page[*model.Post]{}, err
	}
	number := paginate.Clamp(page, paginate.TotalPages(total, s.pageSize))
	items, err := list(ctx, paginate.Offset(number, s.pageSize), s.pageSize)
	if err != nil {
		return paginate.Page[*model.Post]{}, err
	}
	return paginate.New(items, number, s.pageSize, total), nil
}

func (s *feedService) Global(ctx context.Context, page int) (paginate.Page[*model.Post], error) {
	return s.resolve(ctx, page, s.postRepo.CountAll, s.postRepo.ListAll)
}

func (s *feedService) Group(ctx context.Context, slug string, page int) (*model.Group, paginate.Page[*model.Post], error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, paginate.Page[*model.Post]{}, err
	}
	p, err := s.resolve(ctx, page,
		func(ctx context.Context) (int64, error) { return s.postRepo.CountByGroup(ctx, group.ID) },
		func(ctx context.Context, offset, limit int) ([]*model.Post, error) {
			return s.postRepo.ListByGroup(ctx, group.ID, offset, limit)
		})
	return group, p, err
}

func (s *feedService) Profile(ctx context.Context, username string, page int) (*model.User, paginate.Page[*model.Post], error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, paginate.Page[*model.Post]{}, err
	}
	p, err := s.resolve(ctx, page,
		func(ctx context.Context) (int64, error) { return s.postRepo.CountByAuthor(ctx, author.ID) },
		func(ctx context.Context, offset, limit int) ([]*model.Post, error) {
			return s.postRepo.ListByAuthor(ctx, author.ID, offset, limit)
		})
	return author, p, err
}

func (s *feedService) Following(ctx context.Context, viewerID string, page int) (paginate.Page[*model.Post], error) {
	if viewerID == "" {
		return paginate.New([]*model.Post{}, 1, s.pageSize, 0), nil
	}
	return s.resolve(ctx, page,
		func(ctx context.Context) (int64, error) { return s.postRepo.CountFollowed(ctx, viewerID) },
		func(ctx context.Context, offset, limit int) ([]*model.Post, error) {
			return s.postRepo.ListFollowed(ctx, viewerID, offset, limit)
		})
}
