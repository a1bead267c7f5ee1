package service

import (
	"context"
	"net/http"

	"github.com/gibber-dev/gibber/internal/domain"
	internal_errors "github.com/gibber-dev/gibber/internal/errors"
)

type InteractionService interface {
	Favorite(ctx context.Context, caller domain.Caller, profileId domain.ProfileId, postId domain.PostId) error
	Unfavorite(ctx context.Context, caller domain.Caller, profileId domain.ProfileId, postId domain.PostId) error
	Follow(ctx context.Context, caller domain.Caller, followerId, followedId domain.ProfileId) error
	Unfollow(ctx context.Context, caller domain.Caller, followerId, followedId domain.ProfileId) error
}

type ProfileStorage interface {
	GetProfile(ctx context.Context, id domain.ProfileId) (*domain.Profile, error)
}

type InteractionWriteStorage interface {
	CreateFavorite(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error
	DeleteFavorite(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error
	CreateFollow(ctx context.Context, followerId, followedId domain.ProfileId) error
	DeleteFollow(ctx context.Context, followerId, followedId domain.ProfileId) error
}

type Interaction struct {
	storage  InteractionWriteStorage
	profiles ProfileStorage
}

func NewInteraction(storage InteractionWriteStorage, profiles ProfileStorage) InteractionService {
	return &Interaction{storage, profiles}
}

func (s *Interaction) Favorite(ctx context.Context, caller domain.Caller, profileId domain.ProfileId, postId domain.PostId) error {
	if err := s.authorizeProfile(ctx, caller, profileId); err != nil {
		return err
	}
	return s.storage.CreateFavorite(ctx, profileId, postId)
}

func (s *Interaction) Unfavorite(ctx context.Context, caller domain.Caller, profileId domain.ProfileId, postId domain.PostId) error {
	if err := s.authorizeProfile(ctx, caller, profileId); err != nil {
		return err
	}
	return s.storage.DeleteFavorite(ctx, profileId, postId)
}

func (s *Interaction) Follow(ctx context.Context, caller domain.Caller, followerId, followedId domain.ProfileId) error {
	if err := s.authorizeProfile(ctx, caller, followerId); err != nil {
		return err
	}
	if followerId == followedId {
		return &internal_errors.ErrorWithStatusCode{Message: "Can't follow yourself", StatusCode: http.StatusBadRequest}
	}
	return s.storage.CreateFollow(ctx, followerId, followedId)
}

func (s *Interaction) Unfollow(ctx context.Context, caller domain.Caller, followerId, followedId domain.ProfileId) error {
	if err := s.authorizeProfile(ctx, caller, followerId); err != nil {
		return err
	}
	return s.storage.DeleteFollow(ctx, followerId, followedId)
}

func (s *Interaction) authorizeProfile(ctx context.Context, caller domain.Caller, profileId domain.ProfileId) error {
	profile, err := s.profiles.GetProfile(ctx, profileId)
	if err != nil {
		return err
	}
	if profile.AccountId != caller.AccountId {
		return &internal_errors.ErrorWithStatusCode{
			Message:    "Profile does not belong to caller",
			StatusCode: http.StatusForbidden,
		}
	}
	return nil
}
