// Command pawsctl runs operator tasks against the PawsConnect database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pawsconnect/internal/adapter/repo"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/infra/credentials"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(openDeps).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDeps connects with DATABASE_URL only, so pawsctl runs without the
// API's secrets in the environment.
func openDeps(ctx context.Context) (*deps, func(), error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	logger := infra.NewLogger(os.Getenv("APP_ENV"))
	pool, err := infra.NewDBPool(ctx, &infra.Config{DatabaseURL: dbURL})
	if err != nil {
		return nil, nil, err
	}
	runner := infra.NewSQLRunner(pool, logger)
	d := &deps{
		campaigns:    repo.NewCampaignRepository(runner),
		outbox:       repo.NewOutboxRepository(runner),
		integrations: credentials.NewStore(runner),
	}
	return d, pool.Close, nil
}
