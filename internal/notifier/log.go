package notifier

import (
	"context"

	"inkwell-cms/backend/internal/logging"
)

// LogNotifier writes notifications to the log instead of sending mail.
// Used in development and tests; production wires a real mail gateway behind
// the same interface. The token itself is not logged.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, email, rawToken string) error {
	n.log.Info(ctx, "password reset email", "to", email, "token_len", len(rawToken))
	return nil
}

func (n *LogNotifier) SendVerification(ctx context.Context, email, rawToken string) error {
	n.log.Info(ctx, "verification email", "to", email, "token_len", len(rawToken))
	return nil
}
