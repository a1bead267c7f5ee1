package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibber-dev/gibber/internal/domain"
)

func annotateHelper(t *testing.T, interactions *MockInteractionStorage, viewer *domain.ProfileId, posts []*domain.Post) []*domain.AnnotatedPost {
	t.Helper()
	service := NewPost(&MockPostStorage{}, interactions, &MockMediaStorage{}, nil, testLimits()).(*Post)
	annotated, err := service.annotate(context.Background(), viewer, posts)
	require.NoError(t, err)
	return annotated
}

func TestAnnotateFlags(t *testing.T) {
	interactions := &MockInteractionStorage{
		RebloggedPostIdsFunc: func(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
			return []domain.PostId{1, 3}, nil
		},
		FavoritedPostIdsFunc: func(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
			return []domain.PostId{2, 3}, nil
		},
	}
	posts := []*domain.Post{{Id: 1}, {Id: 2}, {Id: 3}, {Id: 4}}

	annotated := annotateHelper(t, interactions, profileIdPtr(10), posts)
	require.Len(t, annotated, 4)

	assert.True(t, annotated[0].IsReblogged)
	assert.False(t, annotated[0].IsFavorited)

	assert.False(t, annotated[1].IsReblogged)
	assert.True(t, annotated[1].IsFavorited)

	assert.True(t, annotated[2].IsReblogged)
	assert.True(t, annotated[2].IsFavorited)

	assert.False(t, annotated[3].IsReblogged)
	assert.False(t, annotated[3].IsFavorited)
}

func TestAnnotatePreservesOrder(t *testing.T) {
	posts := []*domain.Post{{Id: 9}, {Id: 2}, {Id: 5}}

	annotated := annotateHelper(t, &MockInteractionStorage{}, profileIdPtr(10), posts)
	require.Len(t, annotated, 3)
	for i, post := range posts {
		assert.Equal(t, post.Id, annotated[i].Id)
		assert.Same(t, post, annotated[i].Post)
	}
}

func TestAnnotateNilViewer(t *testing.T) {
	interactions := &MockInteractionStorage{
		RebloggedPostIdsFunc: func(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
			t.Fatal("no interaction lookup expected for a nil viewer")
			return nil, nil
		},
		FavoritedPostIdsFunc: func(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
			t.Fatal("no interaction lookup expected for a nil viewer")
			return nil, nil
		},
	}
	posts := []*domain.Post{{Id: 1}, {Id: 2}}

	annotated := annotateHelper(t, interactions, nil, posts)
	require.Len(t, annotated, 2)
	for _, ap := range annotated {
		assert.False(t, ap.IsReblogged)
		assert.False(t, ap.IsFavorited)
	}
}

func TestAnnotateEmptyInput(t *testing.T) {
	interactions := &MockInteractionStorage{
		RebloggedPostIdsFunc: func(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
			t.Fatal("no interaction lookup expected for empty input")
			return nil, nil
		},
	}

	annotated := annotateHelper(t, interactions, profileIdPtr(10), nil)
	assert.Empty(t, annotated)
}

func TestAnnotateNestedReblog(t *testing.T) {
	interactions := &MockInteractionStorage{
		FavoritedPostIdsFunc: func(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
			return []domain.PostId{5}, nil
		},
	}
	target := &domain.Post{Id: 5}
	posts := []*domain.Post{
		{Id: 1, Reblog: target, ReblogId: postIdPtr(5)},
		{Id: 2},
	}

	annotated := annotateHelper(t, interactions, profileIdPtr(10), posts)
	require.Len(t, annotated, 2)

	// The nested target carries its own flags.
	require.NotNil(t, annotated[0].Reblog)
	assert.Same(t, target, annotated[0].Reblog.Post)
	assert.True(t, annotated[0].Reblog.IsFavorited)
	assert.False(t, annotated[0].IsFavorited)

	// No reblog target, no nested annotation.
	assert.Nil(t, annotated[1].Reblog)
}

func TestAnnotateLookupError(t *testing.T) {
	mockErr := errors.New("mock FavoritedPostIds")
	interactions := &MockInteractionStorage{
		FavoritedPostIdsFunc: func(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
			return nil, mockErr
		},
	}
	service := NewPost(&MockPostStorage{}, interactions, &MockMediaStorage{}, nil, testLimits()).(*Post)

	_, err := service.annotate(context.Background(), profileIdPtr(10), []*domain.Post{{Id: 1}})
	assert.ErrorIs(t, err, mockErr)
}
