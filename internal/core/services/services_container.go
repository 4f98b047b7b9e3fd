package services

import (
	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/platform/config"
)

// Infra groups the non-database collaborators the services depend on.
type Infra struct {
	Blobs     infra.BlobStore
	Locker    infra.OwnerLocker // nil relies on database row locks only
	Publisher infra.EventPublisher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Infra) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Owner = NewOwnerService(repos.OwnerRepo, repos.AccountRepo)

	opts := []TransactionServiceOption{
		WithMaxAttachmentBytes(cfg.MaxAttachmentBytes),
	}
	if deps.Locker != nil {
		opts = append(opts, WithOwnerLocker(deps.Locker))
	}
	if deps.Publisher != nil {
		opts = append(opts, WithEventPublisher(deps.Publisher))
	}
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.OwnerRepo, deps.Blobs, opts...)

	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.OwnerRepo, repos.AccountRepo)

	return container
}
