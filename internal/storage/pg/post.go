package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gibber-dev/gibber/internal/domain"
	internal_errors "github.com/gibber-dev/gibber/internal/errors"

	"github.com/lib/pq"
)

// postColumns and postFrom are shared by every post read so all of them
// return the same hydrated profile (with avatar url) per row.
const postColumns = `
	p.id, p.profile_id, p.content, p.in_reply_to_id, p.reblog_id,
	p.replies_count, p.reblogs_count, p.created_at,
	pr.account_id, pr.username, pr.display_name, af.url`

const postFrom = `
	FROM posts p
	JOIN profiles pr ON pr.id = p.profile_id
	LEFT JOIN files af ON af.id = pr.avatar_file_id`

// CreatePost runs the whole post write in one transaction: counter bumps on
// referenced posts, the post row itself, then one promote+insert round per
// staged upload. A failed promotion rolls back every row written so far.
// Object storage moves already performed by promote are not compensated.
func (s *Storage) CreatePost(ctx context.Context, draft domain.PostDraft, uploads []domain.StagedUpload, promote domain.PromoteFunc) (domain.PostId, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return -1, err
	}
	defer tx.Rollback() // The rollback will be ignored if the tx has been committed later in the function.

	if draft.InReplyToId != nil {
		if err := bumpCounter(ctx, tx, "replies_count", *draft.InReplyToId); err != nil {
			return -1, err
		}
	}
	if draft.ReblogId != nil {
		if err := bumpCounter(ctx, tx, "reblogs_count", *draft.ReblogId); err != nil {
			return -1, err
		}
	}

	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway rounds to microsecond

	var id domain.PostId
	err = tx.QueryRowContext(ctx, `
	INSERT INTO posts(profile_id, content, in_reply_to_id, reblog_id, created_at)
	VALUES($1, $2, $3, $4, $5)
	RETURNING id`,
		draft.ProfileId, draft.Content, draft.InReplyToId, draft.ReblogId, createdTs).Scan(&id)
	if err != nil {
		return -1, err
	}

	for _, upload := range uploads {
		file, err := promote(ctx, upload)
		if err != nil {
			return -1, err
		}

		var fileId domain.FileId
		err = tx.QueryRowContext(ctx, `
		INSERT INTO files(name, mime_type, extension, size_bytes, width, height, url)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
			file.Name, file.MimeType, file.Extension, file.SizeBytes, file.Width, file.Height, file.Url).Scan(&fileId)
		if err != nil {
			return -1, err
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO attachments(post_id, file_id) VALUES($1, $2)`, id, fileId)
		if err != nil {
			return -1, err
		}
	}

	if err := tx.Commit(); err != nil {
		return -1, err
	}

	return id, nil
}

// bumpCounter atomically increments a denormalized counter on a referenced
// post. Column is always one of the compile-time constants below.
func bumpCounter(ctx context.Context, tx *sql.Tx, column string, id domain.PostId) error {
	var bumped domain.PostId
	query := fmt.Sprintf(`UPDATE posts SET %s = %s + 1 WHERE id = $1 RETURNING id`, column, column)
	err := tx.QueryRowContext(ctx, query, id).Scan(&bumped)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &internal_errors.ErrorWithStatusCode{Message: "Referenced post not found", StatusCode: http.StatusNotFound}
		}
		return err
	}
	return nil
}

func (s *Storage) GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+postColumns+postFrom+` WHERE p.id = $1`, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	if err := s.hydratePosts(ctx, []*domain.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Storage) GetReplies(ctx context.Context, id domain.PostId) ([]*domain.Post, error) {
	return s.queryPosts(ctx, `SELECT`+postColumns+postFrom+`
	WHERE p.in_reply_to_id = $1
	ORDER BY p.created_at, p.id`, id)
}

func (s *Storage) GetProfilePosts(ctx context.Context, profileId domain.ProfileId, filter domain.ProfilePostsFilter, limit int) ([]*domain.Post, error) {
	var clause string
	switch filter {
	case domain.FilterReplies:
		clause = `p.in_reply_to_id IS NOT NULL`
	case domain.FilterMedia:
		clause = `EXISTS (SELECT 1 FROM attachments a WHERE a.post_id = p.id)`
	default:
		clause = `p.in_reply_to_id IS NULL`
	}
	return s.queryPosts(ctx, `SELECT`+postColumns+postFrom+`
	WHERE p.profile_id = $1 AND `+clause+`
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $2`, profileId, limit)
}

// GetFeed returns top-level posts authored by the profile itself or by
// anyone it follows, newest first.
func (s *Storage) GetFeed(ctx context.Context, profileId domain.ProfileId, limit int) ([]*domain.Post, error) {
	return s.queryPosts(ctx, `SELECT`+postColumns+postFrom+`
	WHERE p.in_reply_to_id IS NULL
	  AND (p.profile_id = $1 OR EXISTS (
		SELECT 1 FROM follows f WHERE f.follower_id = $1 AND f.followed_id = p.profile_id))
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $2`, profileId, limit)
}

// GetPostsByIds fetches hydrated posts for the given ids, preserving the
// order of ids. Ids that no longer exist are silently skipped.
func (s *Storage) GetPostsByIds(ctx context.Context, ids []domain.PostId) ([]*domain.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	posts, err := s.queryPosts(ctx, `SELECT`+postColumns+postFrom+` WHERE p.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	byId := make(map[domain.PostId]*domain.Post, len(posts))
	for _, p := range posts {
		byId[p.Id] = p
	}
	ordered := make([]*domain.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byId[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (s *Storage) SearchPosts(ctx context.Context, content, username string, limit int) ([]*domain.Post, error) {
	return s.queryPosts(ctx, `SELECT`+postColumns+postFrom+`
	WHERE ($1 = '' OR p.content ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR pr.username ILIKE '%' || $2 || '%')
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $3`, content, username, limit)
}

func (s *Storage) queryPosts(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	if err := s.hydratePosts(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	var content, displayName, avatarUrl sql.NullString
	var inReplyToId, reblogId sql.NullInt64
	err := row.Scan(
		&p.Id, &p.Profile.Id, &content, &inReplyToId, &reblogId,
		&p.RepliesCount, &p.ReblogsCount, &p.CreatedAt,
		&p.Profile.AccountId, &p.Profile.Username, &displayName, &avatarUrl,
	)
	if err != nil {
		return nil, err
	}
	if content.Valid {
		p.Content = &content.String
	}
	if inReplyToId.Valid {
		p.InReplyToId = &inReplyToId.Int64
	}
	if reblogId.Valid {
		p.ReblogId = &reblogId.Int64
	}
	if displayName.Valid {
		p.Profile.DisplayName = &displayName.String
	}
	if avatarUrl.Valid {
		p.Profile.AvatarUrl = &avatarUrl.String
	}
	return &p, nil
}

func scanPosts(rows *sql.Rows) ([]*domain.Post, error) {
	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
