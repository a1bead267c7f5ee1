package domain

import "time"

// Favorite records that a profile favorited a post. Unique per pair.
type Favorite struct {
	ProfileId ProfileId
	PostId    PostId
	CreatedAt time.Time
}

// Follow records that follower follows followed. Unique per pair.
type Follow struct {
	FollowerId ProfileId
	FollowedId ProfileId
	CreatedAt  time.Time
}

// InteractionFlags are the viewer-relative booleans computed at read time.
// They are never persisted.
type InteractionFlags struct {
	IsReblogged bool
	IsFavorited bool
}

// AnnotatedPost wraps a post with the viewer's interaction flags. The nested
// reblog target, when present, carries its own flags; Reblog is nil iff the
// post has no reblog target.
type AnnotatedPost struct {
	*Post
	InteractionFlags
	Reblog *AnnotatedReblog
}

// AnnotatedReblog is the one-level-deep annotation of a reblog target.
type AnnotatedReblog struct {
	*Post
	InteractionFlags
}
