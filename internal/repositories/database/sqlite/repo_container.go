package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OwnerRepo:       newSQLiteOwnerRepository(db),
		AccountRepo:     newSQLiteAccountRepository(db),
		TransactionRepo: newSQLiteTransactionRepository(db),
		LedgerRepo:      newSQLiteLedgerRepository(db),
	}
}
