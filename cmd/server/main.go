package main

import (
	"fmt"

	log "github.com/charmbracelet/log"

	"github.com/bankx/transactions/infra/initializer"
	"github.com/bankx/transactions/pkg/app"
	"github.com/bankx/transactions/pkg/config"
	"github.com/bankx/transactions/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	a, err := app.New(deps, cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble application: %w", err)
	}

	fiberApp := webapi.New(a)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	return fiberApp.Listen(addr)
}
