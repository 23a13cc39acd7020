// Package app assembles the application services from their dependencies.
package app

import (
	"log/slog"

	"github.com/bankx/transactions/pkg/broadcast"
	"github.com/bankx/transactions/pkg/config"
	"github.com/bankx/transactions/pkg/processor"
	"github.com/bankx/transactions/pkg/repository"
	"github.com/bankx/transactions/pkg/risk"
)

// Deps contains the infrastructure dependencies the services are built on.
type Deps struct {
	Uow         repository.UnitOfWork
	Broadcaster *broadcast.Broadcaster
	Logger      *slog.Logger
}

// App holds the wired application services.
type App struct {
	Deps      *Deps
	Config    *config.App
	Processor *processor.Service
}

// New wires the risk evaluator and transaction processor over deps.
func New(deps *Deps, cfg *config.App) (*App, error) {
	rules, err := deps.Uow.RiskRuleRepository()
	if err != nil {
		return nil, err
	}
	evaluator := risk.New(rules, deps.Logger)
	return &App{
		Deps:   deps,
		Config: cfg,
		Processor: processor.New(
			deps.Uow,
			evaluator,
			deps.Broadcaster,
			cfg.Processor.MaxRetries,
			deps.Logger,
		),
	}, nil
}
