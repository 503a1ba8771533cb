package port

import "context"

type UserStore interface {
	// AddOrUpdateUser inserts a user or replaces the stored name of an existing one.
	AddOrUpdateUser(ctx context.Context, id int64, name string) error
	// GetUserName returns the stored name, or domain.ErrUserNotFound.
	GetUserName(ctx context.Context, id int64) (string, error)
	// ListUserIDs returns the ids of every stored user.
	ListUserIDs(ctx context.Context) ([]int64, error)
}
