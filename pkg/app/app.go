package app

import (
	"log/slog"

	"github.com/devdibi/dondoc/pkg/config"
	"github.com/devdibi/dondoc/pkg/provider/banking"
	"github.com/devdibi/dondoc/pkg/repository"
	"github.com/devdibi/dondoc/pkg/service/approval"
	"github.com/devdibi/dondoc/pkg/service/moim"
)

// Deps contains the infrastructure dependencies the services are built from.
type Deps struct {
	Uow     repository.UnitOfWork
	Gateway banking.Gateway
	Logger  *slog.Logger
}

type App struct {
	Deps            *Deps
	Config          *config.App
	MoimService     *moim.Service
	ApprovalService *approval.Service
}

func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:            deps,
		Config:          cfg,
		MoimService:     moim.New(deps.Uow, deps.Gateway, deps.Logger),
		ApprovalService: approval.New(deps.Uow, deps.Gateway, deps.Logger),
	}
}
