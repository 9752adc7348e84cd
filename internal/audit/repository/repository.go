package repository

import (
	"context"

	"event-management-system/backend/internal/audit/domain"
)

// Repository defines persistence for audit events.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListBySubject(ctx context.Context, subjectID int64, limit, offset int32) ([]*domain.Event, error)
	Create(ctx context.Context, e *domain.Event) error
}
