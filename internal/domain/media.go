package domain

import "context"

// File represents a stored media object. Created only as part of a post
// write, never mutated afterwards.
type File struct {
	Id        FileId
	Name      string // <uuid>.<extension>, unique object key
	MimeType  string
	Extension string
	SizeBytes int64
	Width     *int
	Height    *int
	Url       string
}

// Attachment links a post to a file. Ordered by id within a post.
type Attachment struct {
	Id     int64
	PostId PostId
	FileId FileId
	File   *File // populated when fetching with file details
}

// StagedUpload references an object previously written through a presigned
// URL, waiting to be promoted into permanent storage.
type StagedUpload struct {
	Key       string
	Extension string
}

// PresignedUpload is a staging slot: a write-capable URL plus the key the
// client must reference when creating the post.
type PresignedUpload struct {
	Url string
	Key string
}

// PromoteFunc moves one staged upload into permanent storage, validates its
// content and returns the resulting file metadata. Called inside the post
// write transaction so a failed promotion rolls the whole write back.
type PromoteFunc func(ctx context.Context, upload StagedUpload) (*File, error)
