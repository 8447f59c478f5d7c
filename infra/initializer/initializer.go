package initializer

import (
	"github.com/devdibi/dondoc/infra"
	"github.com/devdibi/dondoc/infra/provider/dondocbank"
	"github.com/devdibi/dondoc/infra/provider/mockbank"
	infra_repository "github.com/devdibi/dondoc/infra/repository"
	"github.com/devdibi/dondoc/pkg/app"
	"github.com/devdibi/dondoc/pkg/config"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	deps := &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}

	deps.Uow = infra_repository.NewUoW(db)

	if cfg.Bank.Mock {
		logger.Warn("Using in-memory bank gateway; transfers are simulated")
		deps.Gateway = mockbank.New()
	} else {
		deps.Gateway = dondocbank.New(*cfg.Bank, logger)
	}

	return deps, nil
}
