package realtime

// Channel is the delivery interface every component that pushes state
// changes depends on. There is one process-local implementation (Hub); tests
// substitute their own. Delivery is at-most-once and best-effort: publishing
// to a user with no connected subscriber is dropped silently, never queued.
type Channel interface {
	// Publish delivers an event to all of a user's connected subscribers.
	Publish(userID string, event EventType, payload interface{})

	// PublishToUsers fans an event out to each listed user, skipping
	// excludeUserID when non-empty.
	PublishToUsers(userIDs []string, event EventType, payload interface{}, excludeUserID string)

	// IsOnline reports whether the user has at least one open subscription.
	IsOnline(userID string) bool
}
