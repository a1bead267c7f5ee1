package domain

// Profile is the public identity posts are written under. One account can
// own several profiles.
type Profile struct {
	Id          ProfileId
	AccountId   AccountId
	Username    Username
	DisplayName *string
	AvatarUrl   *string
}

// Caller is the authenticated identity extracted from the access token.
type Caller struct {
	AccountId AccountId
}
