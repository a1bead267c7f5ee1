package domain

import "time"

// Post is a single feed entry. Content is nil for reblog-only posts.
// Reblog is hydrated one level deep: a reblog of a reblog carries only ids.
type Post struct {
	Id           PostId
	Profile      Profile
	Content      *string
	InReplyToId  *PostId
	ReblogId     *PostId
	RepliesCount int64
	ReblogsCount int64
	CreatedAt    time.Time
	Attachments  []*Attachment
	Reblog       *Post
}

// PostDraft holds the writable fields of a new post.
// At least one of InReplyToId, ReblogId, Content or a staged upload
// must be present before it reaches storage.
type PostDraft struct {
	ProfileId   ProfileId
	Content     *string
	InReplyToId *PostId
	ReblogId    *PostId
}

// HasParent reports whether the draft references another post.
func (d *PostDraft) HasParent() bool {
	return d.InReplyToId != nil || d.ReblogId != nil
}

// ProfilePostsFilter selects which slice of a profile's posts to return.
type ProfilePostsFilter string

const (
	FilterPosts   ProfilePostsFilter = "posts"   // top-level posts only
	FilterReplies ProfilePostsFilter = "replies" // posts with a reply parent
	FilterMedia   ProfilePostsFilter = "media"   // posts with at least one attachment
)

func (f ProfilePostsFilter) Valid() bool {
	switch f {
	case FilterPosts, FilterReplies, FilterMedia:
		return true
	}
	return false
}
