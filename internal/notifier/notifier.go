// Package notifier defines the outbound email collaborator. Delivery is
// fire-and-forget: failures are logged by the caller and never block the
// response that triggered the send.
package notifier

import "context"

// Notifier sends account emails carrying a raw one-time token. The raw token
// appears only in the outbound message; it is never persisted.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, rawToken string) error
	SendVerification(ctx context.Context, email, rawToken string) error
}
