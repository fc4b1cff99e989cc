package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/nextdash/dashboard-backend/config"
	"github.com/nextdash/dashboard-backend/internal/cli"
	"github.com/nextdash/dashboard-backend/internal/storage/postgres"
)

func main() {
	open := func(ctx context.Context) (*sql.DB, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return postgres.NewConnection(ctx, &cfg.Database)
	}

	if err := cli.NewRootCmd(open).Execute(); err != nil {
		os.Exit(1)
	}
}
