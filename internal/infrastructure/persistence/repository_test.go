package persistence

import (
	"context"
	"testing"
	"time"

	appledger "github.com/bomcraft/backend/internal/application/ledger"
	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/production"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&ledger.Supply{},
		&ledger.SupplyEntry{},
		&bom.Component{},
		&bom.BOMEdge{},
		&production.ComponentProduction{},
	)
	require.NoError(t, err)
	return db
}

func mustSupply(t *testing.T, businessID uuid.UUID, name string) *ledger.Supply {
	t.Helper()
	s, err := ledger.NewSupply(businessID, name, "kg", decimal.Zero)
	require.NoError(t, err)
	return s
}

func TestGormSupplyRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find by ID", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyRepository(db)
		businessID := uuid.New()

		supply := mustSupply(t, businessID, "Flour")
		require.NoError(t, repo.Create(ctx, supply))

		found, err := repo.FindByID(ctx, businessID, supply.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flour", found.Name)
		assert.True(t, found.Active)
		assert.WithinDuration(t, supply.CreatedAt, found.CreatedAt, time.Second)
	})

	t.Run("create persists a deactivated supply as inactive", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyRepository(db)
		businessID := uuid.New()

		supply := mustSupply(t, businessID, "Old Yeast")
		supply.Deactivate()
		require.NoError(t, repo.Create(ctx, supply))

		found, err := repo.FindByID(ctx, businessID, supply.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("find by ID scopes by business", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyRepository(db)

		supply := mustSupply(t, uuid.New(), "Flour")
		require.NoError(t, repo.Create(ctx, supply))

		_, err := repo.FindByID(ctx, uuid.New(), supply.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by name is case insensitive", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyRepository(db)
		businessID := uuid.New()

		require.NoError(t, repo.Create(ctx, mustSupply(t, businessID, "Olive Oil")))

		found, err := repo.FindByName(ctx, businessID, "olive oil")
		require.NoError(t, err)
		assert.Equal(t, "Olive Oil", found.Name)
	})

	t.Run("find all filters and paginates", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyRepository(db)
		businessID := uuid.New()

		require.NoError(t, repo.Create(ctx, mustSupply(t, businessID, "Flour")))
		require.NoError(t, repo.Create(ctx, mustSupply(t, businessID, "Salt")))
		inactive := mustSupply(t, businessID, "Old Yeast")
		inactive.Deactivate()
		require.NoError(t, repo.Create(ctx, inactive))

		filter := shared.DefaultFilter()
		filter.Filters["active"] = true
		page, err := repo.FindAll(ctx, businessID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		assert.Len(t, page.Items, 2)
	})
}

func TestGormSupplyEntryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("sum over active entries yields current stock", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyEntryRepository(db)
		businessID := uuid.New()
		supplyID := uuid.New()

		add, err := ledger.NewAdditionEntry(businessID, supplyID, decimal.NewFromInt(100), decimal.NewFromInt(2), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, add))

		consume, err := ledger.NewConsumptionEntry(businessID, supplyID, decimal.NewFromInt(30), decimal.NewFromInt(2), &add.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, consume))

		stock, err := repo.SumAmountBySupply(ctx, businessID, supplyID)
		require.NoError(t, err)
		assert.True(t, stock.Equal(decimal.NewFromInt(70)), "got %s", stock)
	})

	t.Run("deactivated entries drop out of the sum", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyEntryRepository(db)
		businessID := uuid.New()
		supplyID := uuid.New()

		add, err := ledger.NewAdditionEntry(businessID, supplyID, decimal.NewFromInt(50), decimal.NewFromInt(1), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, add))

		require.NoError(t, repo.Deactivate(ctx, businessID, add.ID))

		stock, err := repo.SumAmountBySupply(ctx, businessID, supplyID)
		require.NoError(t, err)
		assert.True(t, stock.IsZero(), "got %s", stock)

		entries, err := repo.FindBySupply(ctx, businessID, supplyID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("deactivating twice returns not found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSupplyEntryRepository(db)
		businessID := uuid.New()

		add, err := ledger.NewAdditionEntry(businessID, uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(1), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, add))

		require.NoError(t, repo.Deactivate(ctx, businessID, add.ID))
		assert.ErrorIs(t, repo.Deactivate(ctx, businessID, add.ID), shared.ErrNotFound)
	})
}

func TestGormComponentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("replace edges swaps the full set", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormComponentRepository(db)
		businessID := uuid.New()

		component, err := bom.NewComponent(businessID, "Bread", "unit", decimal.NewFromInt(1), 0)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, component))

		flourID := uuid.New()
		first, err := bom.NewBOMEdge(businessID, component.ID, bom.ItemTypeSupply, flourID, decimal.NewFromInt(1), 0, false)
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceEdges(ctx, businessID, component.ID, []bom.BOMEdge{*first}))

		saltID := uuid.New()
		second, err := bom.NewBOMEdge(businessID, component.ID, bom.ItemTypeSupply, saltID, decimal.NewFromFloat(0.1), 0, false)
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceEdges(ctx, businessID, component.ID, []bom.BOMEdge{*second}))

		edges, err := repo.EdgesOf(ctx, businessID, component.ID)
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, saltID, edges[0].ChildID)
	})

	t.Run("usage count tracks child references", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormComponentRepository(db)
		businessID := uuid.New()

		parent, err := bom.NewComponent(businessID, "Bread", "unit", decimal.NewFromInt(1), 0)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, parent))

		flourID := uuid.New()
		edge, err := bom.NewBOMEdge(businessID, parent.ID, bom.ItemTypeSupply, flourID, decimal.NewFromInt(1), 0, false)
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceEdges(ctx, businessID, parent.ID, []bom.BOMEdge{*edge}))

		count, err := repo.UsageCount(ctx, businessID, flourID, bom.ItemTypeSupply)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.UsageCount(ctx, businessID, flourID, bom.ItemTypeComponent)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestGormProductionRepository(t *testing.T) {
	ctx := context.Background()

	newBatch := func(t *testing.T, businessID, componentID uuid.UUID, amount int64, expiry *time.Time) *production.ComponentProduction {
		t.Helper()
		batch, err := production.NewComponentProduction(
			businessID, componentID,
			production.GenerateBatchNumber(componentID, time.Now()),
			decimal.NewFromInt(amount), decimal.NewFromInt(1), expiry, "",
		)
		require.NoError(t, err)
		return batch
	}

	t.Run("find available excludes exhausted and expired", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductionRepository(db)
		businessID := uuid.New()
		componentID := uuid.New()
		now := time.Now()

		usable := newBatch(t, businessID, componentID, 10, nil)
		require.NoError(t, repo.Create(ctx, usable))

		exhausted := newBatch(t, businessID, componentID, 5, nil)
		require.NoError(t, exhausted.Consume(decimal.NewFromInt(5)))
		require.NoError(t, repo.Create(ctx, exhausted))

		soon := now.Add(time.Hour)
		expiring := newBatch(t, businessID, componentID, 3, &soon)
		require.NoError(t, repo.Create(ctx, expiring))

		batches, err := repo.FindAvailableByComponent(ctx, businessID, componentID, now)
		require.NoError(t, err)
		require.Len(t, batches, 2)

		later, err := repo.FindAvailableByComponent(ctx, businessID, componentID, now.Add(2*time.Hour))
		require.NoError(t, err)
		require.Len(t, later, 1)
		assert.Equal(t, usable.ID, later[0].ID)
	})

	t.Run("stale update returns concurrency conflict", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductionRepository(db)
		businessID := uuid.New()

		batch := newBatch(t, businessID, uuid.New(), 10, nil)
		require.NoError(t, repo.Create(ctx, batch))

		first, err := repo.FindByID(ctx, businessID, batch.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, businessID, batch.ID)
		require.NoError(t, err)

		require.NoError(t, first.Consume(decimal.NewFromInt(10)))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.Consume(decimal.NewFromInt(10)))
		assert.ErrorIs(t, repo.Update(ctx, second), shared.ErrConcurrencyConflict)

		stored, err := repo.FindByID(ctx, businessID, batch.ID)
		require.NoError(t, err)
		assert.True(t, stored.AmountConsumed.Equal(decimal.NewFromInt(10)), "got %s", stored.AmountConsumed)
	})

	t.Run("find expiring respects the window", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductionRepository(db)
		businessID := uuid.New()
		componentID := uuid.New()
		now := time.Now()

		soon := now.Add(24 * time.Hour)
		far := now.Add(30 * 24 * time.Hour)
		require.NoError(t, repo.Create(ctx, newBatch(t, businessID, componentID, 10, &soon)))
		require.NoError(t, repo.Create(ctx, newBatch(t, businessID, componentID, 10, &far)))
		require.NoError(t, repo.Create(ctx, newBatch(t, businessID, componentID, 10, nil)))

		batches, err := repo.FindExpiring(ctx, businessID, nil, 3*24*time.Hour, now)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		require.NotNil(t, batches[0].ExpirationDate)
	})
}

func TestGormLedgerTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("rolls back all writes on error", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormLedgerTransactionScope(db)
		businessID := uuid.New()

		supply := mustSupply(t, businessID, "Flour")
		err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
			if err := repos.SupplyRepo().Create(ctx, supply); err != nil {
				return err
			}
			return assert.AnError
		})
		require.Error(t, err)

		_, err = NewGormSupplyRepository(db).FindByID(ctx, businessID, supply.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("commits on success", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormLedgerTransactionScope(db)
		businessID := uuid.New()

		supply := mustSupply(t, businessID, "Flour")
		err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
			return repos.SupplyRepo().Create(ctx, supply)
		})
		require.NoError(t, err)

		found, err := NewGormSupplyRepository(db).FindByID(ctx, businessID, supply.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flour", found.Name)
	})
}
