package services

import (
	portsrepo "github.com/badnails/mfs-ledger/internal/core/ports/repositories"
	portssvc "github.com/badnails/mfs-ledger/internal/core/ports/services"
	"github.com/badnails/mfs-ledger/internal/platform/config"
	"github.com/badnails/mfs-ledger/internal/platform/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher *events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, cfg, publisher)
	container.Reversal = NewReversalService(repos.LedgerRepo, repos.AccountRepo, cfg, publisher)
	container.Float = NewFloatService(repos.FloatRepo, repos.AccountRepo, publisher)
	container.Token = NewTokenService(cfg)

	return container
}

// Compile-time interface implementation checks
var (
	_ portssvc.AccountSvcFacade  = (*AccountService)(nil)
	_ portssvc.LedgerSvcFacade   = (*LedgerService)(nil)
	_ portssvc.ReversalSvcFacade = (*ReversalService)(nil)
	_ portssvc.FloatSvcFacade    = (*FloatService)(nil)
)
