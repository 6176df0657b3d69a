package bom

import (
	"context"

	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to BOM repositories. Recipe
// replacement runs inside Execute so the cycle check and the edge swap are
// one atomic unit; concurrent production runs never observe a half-updated
// recipe.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories a recipe edit touches,
// bound to the current transaction
type TransactionalRepositories interface {
	ComponentRepo() bom.ComponentRepository
	SupplyRepo() ledger.SupplyRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	componentRepo bom.ComponentRepository
	supplyRepo    ledger.SupplyRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(componentRepo bom.ComponentRepository, supplyRepo ledger.SupplyRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{componentRepo: componentRepo, supplyRepo: supplyRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ComponentRepo returns the component repository
func (s *NoOpTransactionScope) ComponentRepo() bom.ComponentRepository {
	return s.componentRepo
}

// SupplyRepo returns the supply repository
func (s *NoOpTransactionScope) SupplyRepo() ledger.SupplyRepository {
	return s.supplyRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
