package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-management-system/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `
	u.id, u.email, u.full_name, u.password_hash, u.role_id, r.name,
	u.created_at, u.updated_at`

// GetByID returns the user for id with the role name joined in, or nil if not
// found. It returns an error only for database failures, not missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1`, email)
	return scanUser(row)
}

// UpdatePassword replaces the stored credential hash for id.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC())
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var roleID sql.NullInt64
	var roleName sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &roleID, &roleName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if roleID.Valid {
		u.RoleID = &roleID.Int64
		u.RoleName = roleName.String
	}
	return &u, nil
}
