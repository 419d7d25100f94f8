package service

import (
	"context"

	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/repository"
)

// FollowOutcome tells the caller what a Follow call actually did. The
// web layer redirects regardless; the API layer reports it.
type FollowOutcome int

const (
	FollowCreated FollowOutcome = iota + 1
	FollowAlreadyExists
	FollowRejectedSelf
)

func (o FollowOutcome) String() string {
	switch o {
	case FollowCreated:
		return "created"
	case FollowAlreadyExists:
		return "already_exists"
	case FollowRejectedSelf:
		return "rejected_self_follow"
	default:
		return "unknown"
	}
}

// RelationshipService maintains the directed follow graph. Self-follows
// and duplicate edges are absorbed here and at the store's constraints;
// they never surface as errors to the caller.
type RelationshipService interface {
	Follow(ctx context.Context, followerID, authorID string) (FollowOutcome, error)
	// Unfollow removes the edge, returning repository.ErrNotFound when
	// there is nothing to remove.
	Unfollow(ctx context.Context, followerID, authorID string) error
	IsFollowing(ctx context.Context, followerID, authorID string) (bool, error)
	// FollowsAnyone gates the "you follow authors" affordance on the
	// feed pages without loading the whole edge list.
	FollowsAnyone(ctx context.Context, followerID string) (bool, error)
	Followers(ctx context.Context, authorID string) ([]*model.User, error)
	Following(ctx context.Context, followerID string) ([]*model.User, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, authorID string) (FollowOutcome, error) {
	if followerID == authorID {
		return FollowRejectedSelf, nil
	}
	created, err := s.followRepo.Create(ctx, followerID, authorID)
	if err != nil {
		return 0, err
	}
	if !created {
		return FollowAlreadyExists, nil
	}
	return FollowCreated, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, authorID string) error {
	return s.followRepo.Delete(ctx, followerID, authorID)
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, authorID string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, authorID)
}

func (s *relationshipService) FollowsAnyone(ctx context.Context, followerID string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	cnt, err := s.followRepo.CountFollowing(ctx, followerID)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *relationshipService) Followers(ctx context.Context, authorID string) ([]*model.User, error) {
	edges, err := s.followRepo.ListFollowers(ctx, authorID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.FollowerID
	}
	return s.userRepo.ListByIDs(ctx, ids)
}

func (s *relationshipService) Following(ctx context.Context, followerID string) ([]*model.User, error) {
	edges, err := s.followRepo.ListFollowing(ctx, followerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.AuthorID
	}
	return s.userRepo.ListByIDs(ctx, ids)
}
