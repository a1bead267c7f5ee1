package domain

type (
	AccountId = int64
	ProfileId = int64
	PostId    = int64
	FileId    = int64

	Username = string
)
