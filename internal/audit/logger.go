// Package audit records auth events (logins, logouts, revocations) durably.
// Recording is best-effort: a failed write is logged and never fails the
// operation that produced the event.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditdomain "inkwell-cms/backend/internal/audit/domain"
	auditrepo "inkwell-cms/backend/internal/audit/repository"
	"inkwell-cms/backend/internal/logging"
)

// Recorder writes a single audit event. Implementations must be best-effort.
type Recorder interface {
	Record(ctx context.Context, userID, sessionID, action, ip, metadata string)
}

// Logger implements Recorder on top of the audit repository.
type Logger struct {
	repo auditrepo.Repository
	log  logging.Logger
}

// NewLogger returns a Recorder that persists to repo.
func NewLogger(repo auditrepo.Repository, log logging.Logger) *Logger {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Logger{repo: repo, log: log}
}

// Record writes one audit entry. Errors are logged and not returned.
func (l *Logger) Record(ctx context.Context, userID, sessionID, action, ip, metadata string) {
	if l.repo == nil {
		return
	}
	entry := &auditdomain.AuditLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Action:    action,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.Error(ctx, "audit: record failed", "action", action, "error", err)
	}
}
