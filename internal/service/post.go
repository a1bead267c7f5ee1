package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gibber-dev/gibber/internal/domain"
	internal_errors "github.com/gibber-dev/gibber/internal/errors"
)

type PostService interface {
	Create(ctx context.Context, caller domain.Caller, input CreatePostInput) (*domain.AnnotatedPost, error)
	PresignUploads(ctx context.Context, count int) ([]domain.PresignedUpload, error)
	GetById(ctx context.Context, viewer *domain.ProfileId, id domain.PostId) (*domain.AnnotatedPost, error)
	GetReplies(ctx context.Context, viewer *domain.ProfileId, id domain.PostId) ([]*domain.AnnotatedPost, error)
	GetByProfile(ctx context.Context, viewer *domain.ProfileId, profileId domain.ProfileId, filter domain.ProfilePostsFilter) ([]*domain.AnnotatedPost, error)
	GetFeed(ctx context.Context, caller domain.Caller, profileId domain.ProfileId) ([]*domain.AnnotatedPost, error)
	Search(ctx context.Context, viewer *domain.ProfileId, content, username string) ([]*domain.AnnotatedPost, error)
}

type PostStorage interface {
	CreatePost(ctx context.Context, draft domain.PostDraft, uploads []domain.StagedUpload, promote domain.PromoteFunc) (domain.PostId, error)
	GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error)
	GetReplies(ctx context.Context, id domain.PostId) ([]*domain.Post, error)
	GetProfilePosts(ctx context.Context, profileId domain.ProfileId, filter domain.ProfilePostsFilter, limit int) ([]*domain.Post, error)
	GetFeed(ctx context.Context, profileId domain.ProfileId, limit int) ([]*domain.Post, error)
	GetPostsByIds(ctx context.Context, ids []domain.PostId) ([]*domain.Post, error)
	SearchPosts(ctx context.Context, content, username string, limit int) ([]*domain.Post, error)
	GetProfile(ctx context.Context, id domain.ProfileId) (*domain.Profile, error)
	FollowerIds(ctx context.Context, profileId domain.ProfileId) ([]domain.ProfileId, error)
}

type InteractionStorage interface {
	RebloggedPostIds(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error)
	FavoritedPostIds(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error)
}

type MediaStorage interface {
	PresignUploads(ctx context.Context, count int) ([]domain.PresignedUpload, error)
	Promote(ctx context.Context, upload domain.StagedUpload) (*domain.File, error)
}

// FeedCache is optional: a nil cache disables caching, and any cache error
// falls back to the database path.
type FeedCache interface {
	Get(ctx context.Context, profileId domain.ProfileId, limit int) ([]domain.PostId, bool, error)
	Set(ctx context.Context, profileId domain.ProfileId, posts []*domain.Post) error
	Invalidate(ctx context.Context, profileIds ...domain.ProfileId) error
}

// Limits are the tunables the post service enforces.
type Limits struct {
	MaxFilesPerPost  int
	MaxContentLength int
	FeedPageSize     int
	SearchPageSize   int
}

type Post struct {
	storage      PostStorage
	interactions InteractionStorage
	media        MediaStorage
	cache        FeedCache
	sanitizer    *bluemonday.Policy
	limits       Limits
}

func NewPost(storage PostStorage, interactions InteractionStorage, media MediaStorage, cache FeedCache, limits Limits) PostService {
	return &Post{
		storage:      storage,
		interactions: interactions,
		media:        media,
		cache:        cache,
		sanitizer:    bluemonday.StrictPolicy(),
		limits:       limits,
	}
}

// CreatePostInput mirrors the post.create contract: optional content,
// optional parent references and up to MaxFilesPerPost staged uploads.
type CreatePostInput struct {
	ProfileId   domain.ProfileId
	Content     *string
	InReplyToId *domain.PostId
	ReblogId    *domain.PostId
	Files       []domain.StagedUpload
}

func (s *Post) Create(ctx context.Context, caller domain.Caller, input CreatePostInput) (*domain.AnnotatedPost, error) {
	if err := s.authorizeProfile(ctx, caller, input.ProfileId); err != nil {
		return nil, err
	}

	draft := domain.PostDraft{
		ProfileId:   input.ProfileId,
		Content:     s.cleanContent(input.Content),
		InReplyToId: input.InReplyToId,
		ReblogId:    input.ReblogId,
	}

	if err := s.validateDraft(&draft, input.Files); err != nil {
		return nil, err
	}

	id, err := s.storage.CreatePost(ctx, draft, input.Files, s.media.Promote)
	if err != nil {
		return nil, err
	}

	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateFeeds(ctx, input.ProfileId)

	// The author is the viewer of the create response. Their flags on the
	// fresh post are necessarily false, but a reblog's nested target must
	// already report isReblogged=true from this very write.
	annotated, err := s.annotate(ctx, &input.ProfileId, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return annotated[0], nil
}

// cleanContent sanitizes and trims post text. Empty text is stored as NULL
// so a reblog-only post keeps content = nil.
func (s *Post) cleanContent(content *string) *string {
	if content == nil {
		return nil
	}
	cleaned := strings.TrimSpace(s.sanitizer.Sanitize(*content))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func (s *Post) validateDraft(draft *domain.PostDraft, files []domain.StagedUpload) error {
	if !draft.HasParent() && draft.Content == nil && len(files) == 0 {
		return &internal_errors.ErrorWithStatusCode{
			Message:    "Post must have content, a parent post or at least one file",
			StatusCode: http.StatusBadRequest,
		}
	}
	if len(files) > s.limits.MaxFilesPerPost {
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("At most %d files per post", s.limits.MaxFilesPerPost),
			StatusCode: http.StatusBadRequest,
		}
	}
	if draft.Content != nil && len(*draft.Content) > s.limits.MaxContentLength {
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("Content exceeds %d characters", s.limits.MaxContentLength),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

func (s *Post) PresignUploads(ctx context.Context, count int) ([]domain.PresignedUpload, error) {
	if count < 1 || count > s.limits.MaxFilesPerPost {
		return nil, &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("Count must be between 1 and %d", s.limits.MaxFilesPerPost),
			StatusCode: http.StatusBadRequest,
		}
	}
	return s.media.PresignUploads(ctx, count)
}

func (s *Post) GetById(ctx context.Context, viewer *domain.ProfileId, id domain.PostId) (*domain.AnnotatedPost, error) {
	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	annotated, err := s.annotate(ctx, viewer, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return annotated[0], nil
}

func (s *Post) GetReplies(ctx context.Context, viewer *domain.ProfileId, id domain.PostId) ([]*domain.AnnotatedPost, error) {
	// Point lookup first so a missing parent surfaces as 404, not an empty list.
	if _, err := s.storage.GetPost(ctx, id); err != nil {
		return nil, err
	}
	replies, err := s.storage.GetReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewer, replies)
}

func (s *Post) GetByProfile(ctx context.Context, viewer *domain.ProfileId, profileId domain.ProfileId, filter domain.ProfilePostsFilter) ([]*domain.AnnotatedPost, error) {
	if filter == "" {
		filter = domain.FilterPosts
	}
	if !filter.Valid() {
		return nil, &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("Unknown filter %q", filter),
			StatusCode: http.StatusBadRequest,
		}
	}
	if _, err := s.storage.GetProfile(ctx, profileId); err != nil {
		return nil, err
	}
	posts, err := s.storage.GetProfilePosts(ctx, profileId, filter, s.limits.FeedPageSize)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewer, posts)
}

// GetFeed returns the profile's home feed. The feed owner must belong to
// the caller; the owner is also the viewer for annotation.
func (s *Post) GetFeed(ctx context.Context, caller domain.Caller, profileId domain.ProfileId) ([]*domain.AnnotatedPost, error) {
	if err := s.authorizeProfile(ctx, caller, profileId); err != nil {
		return nil, err
	}

	posts, err := s.feedPosts(ctx, profileId)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, &profileId, posts)
}

// feedPosts is cache-aside: cached ids are re-read from the database so the
// result is always hydrated and counter-fresh.
func (s *Post) feedPosts(ctx context.Context, profileId domain.ProfileId) ([]*domain.Post, error) {
	if s.cache != nil {
		ids, hit, err := s.cache.Get(ctx, profileId, s.limits.FeedPageSize)
		if err != nil {
			slog.Warn("feed cache read failed", "profile", profileId, "err", err)
		} else if hit {
			return s.storage.GetPostsByIds(ctx, ids)
		}
	}

	posts, err := s.storage.GetFeed(ctx, profileId, s.limits.FeedPageSize)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, profileId, posts); err != nil {
			slog.Warn("feed cache write failed", "profile", profileId, "err", err)
		}
	}
	return posts, nil
}

func (s *Post) Search(ctx context.Context, viewer *domain.ProfileId, content, username string) ([]*domain.AnnotatedPost, error) {
	content = strings.TrimSpace(content)
	username = strings.TrimSpace(username)
	if content == "" && username == "" {
		return nil, &internal_errors.ErrorWithStatusCode{
			Message:    "Search needs content or username",
			StatusCode: http.StatusBadRequest,
		}
	}
	posts, err := s.storage.SearchPosts(ctx, content, username, s.limits.SearchPageSize)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewer, posts)
}

func (s *Post) authorizeProfile(ctx context.Context, caller domain.Caller, profileId domain.ProfileId) error {
	profile, err := s.storage.GetProfile(ctx, profileId)
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

// invalidateFeeds drops the cached feeds the new post should appear in:
// the author's own and every follower's. Best effort only.
func (s *Post) invalidateFeeds(ctx context.Context, authorId domain.ProfileId) {
	if s.cache == nil {
		return
	}
	followers, err := s.storage.FollowerIds(ctx, authorId)
	if err != nil {
		slog.Warn("listing followers for cache invalidation failed", "profile", authorId, "err", err)
		followers = nil
	}
	if err := s.cache.Invalidate(ctx, append(followers, authorId)...); err != nil {
		slog.Warn("feed cache invalidation failed", "profile", authorId, "err", err)
	}
}
