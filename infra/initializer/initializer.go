// Package initializer wires the application dependencies at startup.
package initializer

import (
	"context"
	"fmt"

	"github.com/bankx/transactions/infra"
	infrarepository "github.com/bankx/transactions/infra/repository"
	"github.com/bankx/transactions/infra/repository/model"
	"github.com/bankx/transactions/infra/seed"
	"github.com/bankx/transactions/pkg/app"
	"github.com/bankx/transactions/pkg/broadcast"
	"github.com/bankx/transactions/pkg/config"
)

// InitializeDependencies builds everything the application needs: the styled
// logger, the database connection with migrated schema, the unit of work and
// the broadcaster. In development it also loads the seeded demo dataset.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Account{},
		&model.Transaction{},
		&model.RiskRule{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	uow := infrarepository.NewUoW(db)
	if cfg.Env == "development" {
		if err := seed.Run(context.Background(), uow, logger); err != nil {
			return nil, fmt.Errorf("failed to seed development data: %w", err)
		}
	}

	broadcaster := broadcast.New(
		cfg.Broadcast.BufferSize,
		broadcast.ParseOverflowPolicy(cfg.Broadcast.OverflowPolicy),
		logger,
	)

	return &app.Deps{
		Uow:         uow,
		Broadcaster: broadcaster,
		Logger:      logger,
	}, nil
}
