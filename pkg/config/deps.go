package config

import (
	"log/slog"

	"github.com/corebank/ledger/pkg/repository"
)

// Deps bundles the shared dependencies handed to services and handlers.
type Deps struct {
	Uow    repository.UnitOfWork
	Logger *slog.Logger
	Config *AppConfig
}
