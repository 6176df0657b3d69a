package persistence

import (
	"context"

	appbom "github.com/bomcraft/backend/internal/application/bom"
	appledger "github.com/bomcraft/backend/internal/application/ledger"
	appproduction "github.com/bomcraft/backend/internal/application/production"
	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/production"
	"gorm.io/gorm"
)

// gormTransactionalRepositories provides access to all repositories bound to
// one transaction. The single struct satisfies the transactional repository
// interface of every application context.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// SupplyRepo returns the supply repository scoped to the current transaction
func (r *gormTransactionalRepositories) SupplyRepo() ledger.SupplyRepository {
	return NewGormSupplyRepository(r.tx)
}

// EntryRepo returns the entry repository scoped to the current transaction
func (r *gormTransactionalRepositories) EntryRepo() ledger.SupplyEntryRepository {
	return NewGormSupplyEntryRepository(r.tx)
}

// ComponentRepo returns the component repository scoped to the current transaction
func (r *gormTransactionalRepositories) ComponentRepo() bom.ComponentRepository {
	return NewGormComponentRepository(r.tx)
}

// ProductionRepo returns the production repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductionRepo() production.ProductionRepository {
	return NewGormProductionRepository(r.tx)
}

// GormLedgerTransactionScope implements the ledger TransactionScope using
// GORM transactions
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormBOMTransactionScope implements the BOM TransactionScope using GORM
// transactions
type GormBOMTransactionScope struct {
	db *gorm.DB
}

// NewGormBOMTransactionScope creates a new GormBOMTransactionScope
func NewGormBOMTransactionScope(db *gorm.DB) *GormBOMTransactionScope {
	return &GormBOMTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormBOMTransactionScope) Execute(ctx context.Context, fn func(repos appbom.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormProductionTransactionScope implements the production TransactionScope
// using GORM transactions
type GormProductionTransactionScope struct {
	db *gorm.DB
}

// NewGormProductionTransactionScope creates a new GormProductionTransactionScope
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos appproduction.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Interface conformance
var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appbom.TransactionScope = (*GormBOMTransactionScope)(nil)
var _ appproduction.TransactionScope = (*GormProductionTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appbom.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appproduction.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
