package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gibber-dev/gibber/internal/domain"
	internal_errors "github.com/gibber-dev/gibber/internal/errors"
)

func (s *Storage) GetProfile(ctx context.Context, id domain.ProfileId) (*domain.Profile, error) {
	var p domain.Profile
	var displayName, avatarUrl sql.NullString
	err := s.db.QueryRowContext(ctx, `
	SELECT pr.id, pr.account_id, pr.username, pr.display_name, af.url
	FROM profiles pr
	LEFT JOIN files af ON af.id = pr.avatar_file_id
	WHERE pr.id = $1`, id).Scan(&p.Id, &p.AccountId, &p.Username, &displayName, &avatarUrl)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Profile not found", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	if displayName.Valid {
		p.DisplayName = &displayName.String
	}
	if avatarUrl.Valid {
		p.AvatarUrl = &avatarUrl.String
	}
	return &p, nil
}

// FollowerIds returns the profiles following the given profile. Used for
// feed cache invalidation after a post write.
func (s *Storage) FollowerIds(ctx context.Context, profileId domain.ProfileId) ([]domain.ProfileId, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT follower_id FROM follows WHERE followed_id = $1`, profileId)
	if err != nil {
		return nil, fmt.Errorf("failed to query followers: %w", err)
	}
	defer rows.Close()

	var ids []domain.ProfileId
	for rows.Next() {
		var id domain.ProfileId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follower id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
