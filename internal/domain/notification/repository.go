package notification

import "context"

// Filter narrows bulk read operations.
type Filter struct {
	Types      []Type
	TeamID     string
	ReferKey   string
	ReferValue string
}

// Repository describes notification persistence needs. All mutations
// are scoped to a single user's rows.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	ListUnreadByUser(ctx context.Context, userID string, types []Type) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
	// MarkAllRead flips the user's unread rows matching the filter and
	// returns how many were flipped.
	MarkAllRead(ctx context.Context, userID string, f Filter) (int, error)
	DeleteAllByUser(ctx context.Context, userID string) (int, error)
}

// Broadcaster is the outbound realtime port. Pushes are best-effort:
// callers log failures and never let them affect the state change that
// produced the event.
type Broadcaster interface {
	Push(ctx context.Context, e Event) error
}
