package service

import (
	"context"

	"github.com/gibber-dev/gibber/internal/domain"
)

// annotate computes the viewer-relative flags for a sequence of posts with
// two bulk lookups instead of per-post existence checks. Order and length
// of the input are preserved. A nil viewer yields all-false flags.
func (s *Post) annotate(ctx context.Context, viewer *domain.ProfileId, posts []*domain.Post) ([]*domain.AnnotatedPost, error) {
	reblogged := map[domain.PostId]struct{}{}
	favorited := map[domain.PostId]struct{}{}

	if viewer != nil && len(posts) > 0 {
		rebloggedIds, err := s.interactions.RebloggedPostIds(ctx, *viewer)
		if err != nil {
			return nil, err
		}
		favoritedIds, err := s.interactions.FavoritedPostIds(ctx, *viewer)
		if err != nil {
			return nil, err
		}
		for _, id := range rebloggedIds {
			reblogged[id] = struct{}{}
		}
		for _, id := range favoritedIds {
			favorited[id] = struct{}{}
		}
	}

	flags := func(id domain.PostId) domain.InteractionFlags {
		_, isReblogged := reblogged[id]
		_, isFavorited := favorited[id]
		return domain.InteractionFlags{IsReblogged: isReblogged, IsFavorited: isFavorited}
	}

	annotated := make([]*domain.AnnotatedPost, 0, len(posts))
	for _, post := range posts {
		ap := &domain.AnnotatedPost{Post: post, InteractionFlags: flags(post.Id)}
		if post.Reblog != nil {
			ap.Reblog = &domain.AnnotatedReblog{Post: post.Reblog, InteractionFlags: flags(post.Reblog.Id)}
		}
		annotated = append(annotated, ap)
	}
	return annotated, nil
}
