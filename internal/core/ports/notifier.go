package ports

import "context"

// Notifier delivers account email. Calls are fire-and-forget: delivery
// failures are logged by the implementation, never propagated into the
// caller's transaction outcome.
type Notifier interface {
	SendWelcome(ctx context.Context, to, firstName string)
	SendLockoutNotice(ctx context.Context, to string, minutes int)
}
