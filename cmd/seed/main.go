// seed inserts development sample data for local testing. Run via ./scripts/seed.sh.
// Idempotent: skips inserts if the dev admin (admin@example.com) already exists.
package main

import (
	"context"
	"log"
	"time"

	"inkwell-cms/backend/internal/config"
	"inkwell-cms/backend/internal/db"
	"inkwell-cms/backend/internal/security"
	"inkwell-cms/backend/internal/user/domain"
	userrepo "inkwell-cms/backend/internal/user/repository"
)

const (
	adminEmail  = "admin@example.com"
	authorEmail = "author@example.com"
	devPassword = "password123"
	adminID     = "dev-admin-001"
	authorID    = "dev-author-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed: lookup admin: %v", err)
	}
	if existing != nil {
		log.Printf("seed: %s already exists, nothing to do", adminEmail)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}

	now := time.Now().UTC()
	seedUsers := []*domain.User{
		{
			ID:              adminID,
			Email:           adminEmail,
			Username:        "admin",
			PasswordHash:    hash,
			Role:            domain.RoleAdmin,
			IsActive:        true,
			EmailVerifiedAt: &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:           authorID,
			Email:        authorEmail,
			Username:     "author",
			PasswordHash: hash,
			Role:         domain.RoleAuthor,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	for _, u := range seedUsers {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seed: create %s: %v", u.Email, err)
		}
		log.Printf("seed: created %s (%s)", u.Email, u.Role)
	}
	log.Printf("seed: done; password for both users is %q", devPassword)
}
