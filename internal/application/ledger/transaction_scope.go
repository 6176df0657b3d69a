package ledger

import (
	"context"

	"github.com/bomcraft/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// Within Execute, all repository operations share one database transaction
// and commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the ledger repositories bound to the
// current transaction. Consumption uses SupplyRepo().FindByIDForUpdate to
// serialize concurrent movements against one supply.
type TransactionalRepositories interface {
	SupplyRepo() ledger.SupplyRepository
	EntryRepo() ledger.SupplyEntryRepository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests and anywhere transactional guarantees are provided by the caller.
type NoOpTransactionScope struct {
	supplyRepo ledger.SupplyRepository
	entryRepo  ledger.SupplyEntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(supplyRepo ledger.SupplyRepository, entryRepo ledger.SupplyEntryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{supplyRepo: supplyRepo, entryRepo: entryRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SupplyRepo returns the supply repository
func (s *NoOpTransactionScope) SupplyRepo() ledger.SupplyRepository {
	return s.supplyRepo
}

// EntryRepo returns the entry repository
func (s *NoOpTransactionScope) EntryRepo() ledger.SupplyEntryRepository {
	return s.entryRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
