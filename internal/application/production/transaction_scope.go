package production

import (
	"context"

	ledgerapp "github.com/bomcraft/backend/internal/application/ledger"
	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/production"
)

// TransactionScope provides transactional access to everything a production
// run touches. Produce executes entirely inside one scope so either the
// batch row and all consumption entries commit together or none do.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the ledger, BOM and production
// repositories bound to the current transaction. It extends the ledger scope
// so supply consumption helpers run against the same transaction.
type TransactionalRepositories interface {
	ledgerapp.TransactionalRepositories
	ComponentRepo() bom.ComponentRepository
	ProductionRepo() production.ProductionRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	supplyRepo     ledger.SupplyRepository
	entryRepo      ledger.SupplyEntryRepository
	componentRepo  bom.ComponentRepository
	productionRepo production.ProductionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	supplyRepo ledger.SupplyRepository,
	entryRepo ledger.SupplyEntryRepository,
	componentRepo bom.ComponentRepository,
	productionRepo production.ProductionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		supplyRepo:     supplyRepo,
		entryRepo:      entryRepo,
		componentRepo:  componentRepo,
		productionRepo: productionRepo,
	}
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

// ComponentRepo returns the component repository
func (s *NoOpTransactionScope) ComponentRepo() bom.ComponentRepository {
	return s.componentRepo
}

// ProductionRepo returns the production repository
func (s *NoOpTransactionScope) ProductionRepo() production.ProductionRepository {
	return s.productionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
