// sweep deletes session rows and one-time tokens that expired longer ago than
// the configured grace window. Revocation is never done here; request paths own
// that. Run from cron or a scheduler, e.g. daily.
package main

import (
	"context"
	"log"
	"time"

	"inkwell-cms/backend/internal/config"
	"inkwell-cms/backend/internal/db"
	onetimerepo "inkwell-cms/backend/internal/onetime/repository"
	sessionrepo "inkwell-cms/backend/internal/session/repository"
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Expired rows are kept through the grace window so recent activity stays
	// inspectable, then removed for good.
	cutoff := time.Now().UTC().Add(-cfg.SweepGraceDuration())

	sessions := sessionrepo.NewPostgresRepository(conn)
	nSessions, err := sessions.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("sweep: sessions: %v", err)
	}

	tokens := onetimerepo.NewPostgresRepository(conn)
	nTokens, err := tokens.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("sweep: one-time tokens: %v", err)
	}

	log.Printf("sweep: removed %d sessions and %d one-time tokens expired before %s",
		nSessions, nTokens, cutoff.Format(time.RFC3339))
}
