package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/finhub-saas/identity-service/config"
	"github.com/finhub-saas/identity-service/internal/infrastructure/hash"
)

// Seeds an initial superadmin so a fresh deployment has someone who can use
// the admin endpoints. Email and password come from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD, with development defaults.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	password := envOr("SEED_ADMIN_PASSWORD", "ChangeMe!12345")

	pwHash, err := hash.NewBcryptHasher().Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	id := uuid.New()
	var outID string
	err = db.QueryRow(`
		INSERT INTO users (id, tenant_id, email, password_hash, first_name, last_name, role, status, is_email_verified)
		VALUES ($1, $1, $2, $3, 'Super', 'Admin', 'superadmin', 'active', TRUE)
		ON CONFLICT (email) DO UPDATE SET role = 'superadmin', status = 'active', updated_at = now()
		RETURNING id
	`, id, email, pwHash).Scan(&outID)
	if err != nil {
		log.Fatalf("failed to seed superadmin: %v", err)
	}
	fmt.Printf("seeded superadmin: id=%s email=%s\n", outID, email)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
