package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibber-dev/gibber/internal/domain"
	internal_errors "github.com/gibber-dev/gibber/internal/errors"
)

type MockProfileStorage struct {
	GetProfileFunc func(ctx context.Context, id domain.ProfileId) (*domain.Profile, error)
}

func (m *MockProfileStorage) GetProfile(ctx context.Context, id domain.ProfileId) (*domain.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, id)
	}
	return &domain.Profile{Id: id, AccountId: 1, Username: "alice"}, nil
}

type MockInteractionWriteStorage struct {
	CreateFavoriteFunc func(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error
	DeleteFavoriteFunc func(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error
	CreateFollowFunc   func(ctx context.Context, followerId, followedId domain.ProfileId) error
	DeleteFollowFunc   func(ctx context.Context, followerId, followedId domain.ProfileId) error
}

func (m *MockInteractionWriteStorage) CreateFavorite(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error {
	if m.CreateFavoriteFunc != nil {
		return m.CreateFavoriteFunc(ctx, profileId, postId)
	}
	return nil
}

func (m *MockInteractionWriteStorage) DeleteFavorite(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error {
	if m.DeleteFavoriteFunc != nil {
		return m.DeleteFavoriteFunc(ctx, profileId, postId)
	}
	return nil
}

func (m *MockInteractionWriteStorage) CreateFollow(ctx context.Context, followerId, followedId domain.ProfileId) error {
	if m.CreateFollowFunc != nil {
		return m.CreateFollowFunc(ctx, followerId, followedId)
	}
	return nil
}

func (m *MockInteractionWriteStorage) DeleteFollow(ctx context.Context, followerId, followedId domain.ProfileId) error {
	if m.DeleteFollowFunc != nil {
		return m.DeleteFollowFunc(ctx, followerId, followedId)
	}
	return nil
}

func TestInteractionFavorite(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{AccountId: 1}

	t.Run("success", func(t *testing.T) {
		var gotProfile domain.ProfileId
		var gotPost domain.PostId
		storage := &MockInteractionWriteStorage{
			CreateFavoriteFunc: func(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error {
				gotProfile, gotPost = profileId, postId
				return nil
			},
		}
		service := NewInteraction(storage, &MockProfileStorage{})

		require.NoError(t, service.Favorite(ctx, caller, 10, 5))
		assert.Equal(t, domain.ProfileId(10), gotProfile)
		assert.Equal(t, domain.PostId(5), gotPost)
	})

	t.Run("foreign profile forbidden", func(t *testing.T) {
		profiles := &MockProfileStorage{
			GetProfileFunc: func(ctx context.Context, id domain.ProfileId) (*domain.Profile, error) {
				return &domain.Profile{Id: id, AccountId: 99, Username: "bob"}, nil
			},
		}
		service := NewInteraction(&MockInteractionWriteStorage{}, profiles)

		err := service.Favorite(ctx, caller, 10, 5)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		mockErr := errors.New("mock CreateFavorite")
		storage := &MockInteractionWriteStorage{
			CreateFavoriteFunc: func(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error {
				return mockErr
			},
		}
		service := NewInteraction(storage, &MockProfileStorage{})

		assert.ErrorIs(t, service.Favorite(ctx, caller, 10, 5), mockErr)
	})
}

func TestInteractionUnfavorite(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{AccountId: 1}

	t.Run("missing favorite surfaces as 404", func(t *testing.T) {
		notFound := &internal_errors.ErrorWithStatusCode{Message: "Favorite not found", StatusCode: http.StatusNotFound}
		storage := &MockInteractionWriteStorage{
			DeleteFavoriteFunc: func(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error {
				return notFound
			},
		}
		service := NewInteraction(storage, &MockProfileStorage{})

		err := service.Unfavorite(ctx, caller, 10, 5)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})
}

func TestInteractionFollow(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{AccountId: 1}

	t.Run("success", func(t *testing.T) {
		var gotFollower, gotFollowed domain.ProfileId
		storage := &MockInteractionWriteStorage{
			CreateFollowFunc: func(ctx context.Context, followerId, followedId domain.ProfileId) error {
				gotFollower, gotFollowed = followerId, followedId
				return nil
			},
		}
		service := NewInteraction(storage, &MockProfileStorage{})

		require.NoError(t, service.Follow(ctx, caller, 10, 20))
		assert.Equal(t, domain.ProfileId(10), gotFollower)
		assert.Equal(t, domain.ProfileId(20), gotFollowed)
	})

	t.Run("self follow rejected", func(t *testing.T) {
		storage := &MockInteractionWriteStorage{
			CreateFollowFunc: func(ctx context.Context, followerId, followedId domain.ProfileId) error {
				t.Fatal("self follow must not reach storage")
				return nil
			},
		}
		service := NewInteraction(storage, &MockProfileStorage{})

		err := service.Follow(ctx, caller, 10, 10)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	})

	t.Run("acting profile owned by another account", func(t *testing.T) {
		profiles := &MockProfileStorage{
			GetProfileFunc: func(ctx context.Context, id domain.ProfileId) (*domain.Profile, error) {
				return &domain.Profile{Id: id, AccountId: 99, Username: "bob"}, nil
			},
		}
		service := NewInteraction(&MockInteractionWriteStorage{}, profiles)

		err := service.Follow(ctx, caller, 10, 20)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	})
}

func TestInteractionUnfollow(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{AccountId: 1}

	var gotFollower, gotFollowed domain.ProfileId
	storage := &MockInteractionWriteStorage{
		DeleteFollowFunc: func(ctx context.Context, followerId, followedId domain.ProfileId) error {
			gotFollower, gotFollowed = followerId, followedId
			return nil
		},
	}
	service := NewInteraction(storage, &MockProfileStorage{})

	require.NoError(t, service.Unfollow(ctx, caller, 10, 20))
	assert.Equal(t, domain.ProfileId(10), gotFollower)
	assert.Equal(t, domain.ProfileId(20), gotFollowed)
}
