package profiles

import "context"

type Repo interface {
	Create(ctx context.Context, profile Profile) (Profile, error)
	GetByID(ctx context.Context, profileID int64) (Profile, error)
	// ListByUser returns the user's profiles, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Profile, error)
}
