// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev admin (admin@example.com) already exists.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"event-management-system/backend/internal/config"
	"event-management-system/backend/internal/db"
	"event-management-system/backend/internal/security"
	userrepo "event-management-system/backend/internal/user/repository"
)

const (
	adminEmail     = "admin@example.com"
	organizerEmail = "organizer@example.com"
	attendeeEmail  = "attendee@example.com"
	devPassword    = "password123"
)

// rolePermissions maps each seeded role to its permission names.
var rolePermissions = map[string][]string{
	"admin":     {"event.manage", "event.manage.own", "event.invite", "event.view", "user.manage"},
	"organizer": {"event.manage.own", "event.invite", "event.view"},
	"attendee":  {"event.view"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	roleIDs := make(map[string]int64, len(rolePermissions))
	for role, perms := range rolePermissions {
		roleID, err := upsertRole(ctx, conn, role)
		if err != nil {
			log.Fatalf("seed role %s: %v", role, err)
		}
		roleIDs[role] = roleID
		for _, perm := range perms {
			if err := grantPermission(ctx, conn, roleID, perm); err != nil {
				log.Fatalf("grant %s to %s: %v", perm, role, err)
			}
		}
	}

	seedUsers := []struct {
		email    string
		fullName string
		role     string
	}{
		{adminEmail, "Dev Admin", "admin"},
		{organizerEmail, "Dev Organizer", "organizer"},
		{attendeeEmail, "Dev Attendee", "attendee"},
	}
	for _, u := range seedUsers {
		if err := insertUser(ctx, conn, u.email, u.fullName, passwordHash, roleIDs[u.role]); err != nil {
			log.Fatalf("seed user %s: %v", u.email, err)
		}
	}

	log.Printf("Seeded %d roles and %d users (password %q)", len(roleIDs), len(seedUsers), devPassword)
}

func upsertRole(ctx context.Context, conn *sql.DB, name string) (int64, error) {
	var id int64
	err := conn.QueryRowContext(ctx, `
		INSERT INTO roles (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&id)
	return id, err
}

func grantPermission(ctx context.Context, conn *sql.DB, roleID int64, permission string) error {
	var permID int64
	err := conn.QueryRowContext(ctx, `
		INSERT INTO permissions (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, permission).Scan(&permID)
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx, `
		INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, roleID, permID)
	return err
}

func insertUser(ctx context.Context, conn *sql.DB, email, fullName, passwordHash string, roleID int64) error {
	now := time.Now().UTC()
	_, err := conn.ExecContext(ctx, `
		INSERT INTO users (email, full_name, password_hash, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (email) DO NOTHING`,
		email, fullName, passwordHash, roleID, now)
	return err
}
