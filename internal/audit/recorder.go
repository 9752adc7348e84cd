// Package audit records authentication lifecycle events for the history
// surfaces. Recording is always best-effort: an audit outage must never block
// a login, logout, or authentication check.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"event-management-system/backend/internal/audit/domain"
	auditrepo "event-management-system/backend/internal/audit/repository"
)

// recordTimeout is the max time allowed for a single async Record.
const recordTimeout = 5 * time.Second

// Recorder writes a single audit event. Implementations may persist, forward,
// or drop events; callers treat every Record as fire-and-forget.
type Recorder interface {
	Record(ctx context.Context, subjectID int64, kind domain.EventKind, sessionID, metadata string) error
}

// repoRecorder persists events through the audit repository.
type repoRecorder struct {
	repo auditrepo.Repository
}

// NewRecorder returns a Recorder that persists events via repo.
func NewRecorder(repo auditrepo.Repository) Recorder {
	return &repoRecorder{repo: repo}
}

func (r *repoRecorder) Record(ctx context.Context, subjectID int64, kind domain.EventKind, sessionID, metadata string) error {
	return r.repo.Create(ctx, &domain.Event{
		ID:        uuid.New().String(),
		SubjectID: subjectID,
		Kind:      kind,
		SessionID: sessionID,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	})
}

// RecordAsync runs Record in a goroutine with a short timeout so the caller is
// never blocked. recorder may be nil; then nothing is recorded. The goroutine
// uses context.Background() so request cancellation does not abort an
// in-flight write; failures are logged and swallowed.
func RecordAsync(recorder Recorder, subjectID int64, kind domain.EventKind, sessionID, metadata string) {
	if recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := recorder.Record(ctx, subjectID, kind, sessionID, metadata); err != nil {
			log.Printf("audit: async record failed: %v", err)
		}
	}()
}
