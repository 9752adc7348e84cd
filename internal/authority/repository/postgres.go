package repository

import (
	"context"
	"database/sql"
	"errors"

	"event-management-system/backend/internal/authority"
)

// PostgresRoleStore reads role and permission assignments from Postgres. It is
// read-only; role and permission mutation belongs to the CRUD surfaces outside
// this core.
type PostgresRoleStore struct {
	db *sql.DB
}

// NewPostgresRoleStore returns a RoleStore backed by the given db.
func NewPostgresRoleStore(db *sql.DB) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

// RoleOf returns the subject's assigned role with its permission names.
// Returns (nil, nil) for a subject without a role and
// authority.ErrSubjectNotFound when the subject does not exist.
func (s *PostgresRoleStore) RoleOf(ctx context.Context, subjectID int64) (*authority.Role, error) {
	var roleID sql.NullInt64
	var roleName sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.name
		FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, subjectID).Scan(&roleID, &roleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authority.ErrSubjectNotFound
		}
		return nil, err
	}
	if !roleID.Valid {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name`, roleID.Int64)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	role := &authority.Role{ID: roleID.Int64, Name: roleName.String}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		role.Permissions = append(role.Permissions, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return role, nil
}
