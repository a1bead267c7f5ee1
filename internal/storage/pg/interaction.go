package pg

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gibber-dev/gibber/internal/domain"
	internal_errors "github.com/gibber-dev/gibber/internal/errors"

	"github.com/lib/pq"
)

// RebloggedPostIds returns the ids of posts the viewer has reblogged.
// A reblog is a post by the viewer with no content of its own that
// references another post.
func (s *Storage) RebloggedPostIds(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
	return s.queryIds(ctx, `
	SELECT reblog_id FROM posts
	WHERE profile_id = $1 AND content IS NULL AND reblog_id IS NOT NULL`, viewer)
}

// FavoritedPostIds returns the ids of posts the viewer has favorited.
func (s *Storage) FavoritedPostIds(ctx context.Context, viewer domain.ProfileId) ([]domain.PostId, error) {
	return s.queryIds(ctx, `SELECT post_id FROM favorites WHERE profile_id = $1`, viewer)
}

func (s *Storage) queryIds(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateFavorite inserts the (profile, post) pair. Inserting an existing
// pair is a no-op.
func (s *Storage) CreateFavorite(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO favorites(profile_id, post_id) VALUES($1, $2)
	ON CONFLICT DO NOTHING`, profileId, postId)
	return mapFkViolation(err, "Post not found")
}

func (s *Storage) DeleteFavorite(ctx context.Context, profileId domain.ProfileId, postId domain.PostId) error {
	result, err := s.db.ExecContext(ctx, `
	DELETE FROM favorites WHERE profile_id = $1 AND post_id = $2`, profileId, postId)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// CreateFollow inserts the follower/followed pair. Inserting an existing
// pair is a no-op.
func (s *Storage) CreateFollow(ctx context.Context, followerId, followedId domain.ProfileId) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO follows(follower_id, followed_id) VALUES($1, $2)
	ON CONFLICT DO NOTHING`, followerId, followedId)
	return mapFkViolation(err, "Profile not found")
}

func (s *Storage) DeleteFollow(ctx context.Context, followerId, followedId domain.ProfileId) error {
	result, err := s.db.ExecContext(ctx, `
	DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`, followerId, followedId)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// mapFkViolation turns a postgres foreign key violation into a 404 so a
// favorite/follow of a missing row surfaces as not-found instead of 500.
func mapFkViolation(err error, message string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
		return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
	}
	return err
}

func requireAffected(affected int64, err error) error {
	if err != nil {
		return err
	}
	if affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Not found", StatusCode: http.StatusNotFound}
	}
	return nil
}
