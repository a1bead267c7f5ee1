package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gibber-dev/gibber/internal/domain"

	"github.com/lib/pq"
)

// hydratePosts attaches reblog targets (one level deep) and attachments to
// every post in the slice using two bulk queries instead of per-post reads.
func (s *Storage) hydratePosts(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	idToPost := make(map[domain.PostId]*domain.Post, len(posts))
	var reblogIds []domain.PostId
	for _, p := range posts {
		idToPost[p.Id] = p
		if p.ReblogId != nil {
			reblogIds = append(reblogIds, *p.ReblogId)
		}
	}

	if len(reblogIds) > 0 {
		if err := s.enrichWithReblogs(ctx, reblogIds, posts, idToPost); err != nil {
			return err
		}
	}

	return enrichWithAttachments(ctx, s.db, idToPost)
}

// enrichWithReblogs loads the reblog target rows and wires them into their
// referencing posts. Targets are also registered in idToPost so the
// attachment pass covers them too.
func (s *Storage) enrichWithReblogs(
	ctx context.Context,
	reblogIds []domain.PostId,
	posts []*domain.Post,
	idToPost map[domain.PostId]*domain.Post,
) error {
	rows, err := s.db.QueryContext(ctx, `SELECT`+postColumns+postFrom+` WHERE p.id = ANY($1)`, pq.Array(reblogIds))
	if err != nil {
		return fmt.Errorf("failed to fetch reblog targets: %w", err)
	}
	defer rows.Close()

	targets, err := scanPosts(rows)
	if err != nil {
		return err
	}

	targetById := make(map[domain.PostId]*domain.Post, len(targets))
	for _, t := range targets {
		targetById[t.Id] = t
		idToPost[t.Id] = t
	}
	for _, p := range posts {
		if p.ReblogId != nil {
			p.Reblog = targetById[*p.ReblogId]
		}
	}
	return nil
}

// enrichWithAttachments fetches attachments joined with their files for the
// given posts and populates the Attachments field, preserving insert order.
func enrichWithAttachments(ctx context.Context, q Querier, idToPost map[domain.PostId]*domain.Post) error {
	if len(idToPost) == 0 {
		return nil
	}

	postIds := make([]domain.PostId, 0, len(idToPost))
	for id := range idToPost {
		postIds = append(postIds, id)
	}

	rows, err := q.QueryContext(ctx, `
	SELECT a.id, a.post_id, a.file_id,
	       f.name, f.mime_type, f.extension, f.size_bytes, f.width, f.height, f.url
	FROM attachments a
	JOIN files f ON f.id = a.file_id
	WHERE a.post_id = ANY($1)
	ORDER BY a.id`, pq.Array(postIds))
	if err != nil {
		return fmt.Errorf("failed to fetch attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var attachment domain.Attachment
		var file domain.File
		var width, height sql.NullInt64
		if err := rows.Scan(
			&attachment.Id, &attachment.PostId, &attachment.FileId,
			&file.Name, &file.MimeType, &file.Extension, &file.SizeBytes, &width, &height, &file.Url,
		); err != nil {
			return fmt.Errorf("failed to scan attachment row: %w", err)
		}
		file.Id = attachment.FileId
		if width.Valid {
			w := int(width.Int64)
			file.Width = &w
		}
		if height.Valid {
			h := int(height.Int64)
			file.Height = &h
		}
		attachment.File = &file
		if post, ok := idToPost[attachment.PostId]; ok {
			post.Attachments = append(post.Attachments, &attachment)
		}
	}

	return rows.Err()
}
