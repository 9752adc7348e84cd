package repository

import (
	"context"
	"database/sql"
	"errors"

	"event-management-system/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit event repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the audit event for id, or nil if not found.
// It returns an error only for database failures, not missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	var sessionID, metadata sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, subject_id, kind, session_id, metadata, created_at
		FROM audit_events WHERE id = $1`, id).
		Scan(&e.ID, &e.SubjectID, &e.Kind, &sessionID, &metadata, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.SessionID = sessionID.String
	e.Metadata = metadata.String
	return &e, nil
}

// ListBySubject returns the subject's audit events, newest first, paginated by
// limit and offset.
func (r *PostgresRepository) ListBySubject(ctx context.Context, subjectID int64, limit, offset int32) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subject_id, kind, session_id, metadata, created_at
		FROM audit_events
		WHERE subject_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, subjectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		var sessionID, metadata sql.NullString
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.Kind, &sessionID, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.SessionID = sessionID.String
		e.Metadata = metadata.String
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Create persists the audit event. The event must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	sessionID := sql.NullString{String: e.SessionID, Valid: e.SessionID != ""}
	metadata := sql.NullString{String: e.Metadata, Valid: e.Metadata != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, subject_id, kind, session_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.SubjectID, e.Kind, sessionID, metadata, e.CreatedAt)
	return err
}
