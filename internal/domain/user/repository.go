package user

import "context"

// UserRepository defines data access methods for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// ListActive returns all active users ordered by name.
	// The live location aggregator iterates this list, so the ordering
	// also fixes the proximity grouping iteration order.
	ListActive(ctx context.Context) ([]User, error)
}
