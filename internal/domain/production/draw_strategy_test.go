package production

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawTestBatch(t *testing.T, componentID uuid.UUID, produced int64, cost float64, producedAt time.Time, expiry *time.Time) ComponentProduction {
	t.Helper()
	batch, err := NewComponentProduction(uuid.New(), componentID, GenerateBatchNumber(componentID, producedAt),
		decimal.NewFromInt(produced), decimal.NewFromFloat(cost), nil, "")
	require.NoError(t, err)
	batch.ProductionDate = producedAt
	batch.CreatedAt = producedAt
	batch.ExpirationDate = expiry
	return *batch
}

func TestFIFOBatchDrawStrategy(t *testing.T) {
	now := time.Now()
	componentID := uuid.New()
	strategy := NewFIFOBatchDrawStrategy()

	t.Run("draws oldest batch first", func(t *testing.T) {
		older := drawTestBatch(t, componentID, 5, 2.0, now.Add(-48*time.Hour), nil)
		newer := drawTestBatch(t, componentID, 5, 3.0, now.Add(-24*time.Hour), nil)

		plan, err := strategy.PlanDraws(decimal.NewFromInt(7), []ComponentProduction{newer, older}, now)

		require.NoError(t, err)
		assert.True(t, plan.FullyFulfilled)
		require.Len(t, plan.Draws, 2)
		assert.Equal(t, older.ID, plan.Draws[0].BatchID)
		assert.Equal(t, "5", plan.Draws[0].Amount.String())
		assert.True(t, plan.Draws[0].FullyConsumed)
		assert.Equal(t, newer.ID, plan.Draws[1].BatchID)
		assert.Equal(t, "2", plan.Draws[1].Amount.String())
		assert.Equal(t, "16", plan.TotalCost.String()) // 5*2 + 2*3
	})

	t.Run("reports shortfall when batches run out", func(t *testing.T) {
		only := drawTestBatch(t, componentID, 3, 2.0, now.Add(-time.Hour), nil)

		plan, err := strategy.PlanDraws(decimal.NewFromInt(10), []ComponentProduction{only}, now)

		require.NoError(t, err)
		assert.False(t, plan.FullyFulfilled)
		assert.Equal(t, "7", plan.Shortfall.String())
	})

	t.Run("skips expired and exhausted batches", func(t *testing.T) {
		expiredAt := now.Add(-time.Hour)
		expired := drawTestBatch(t, componentID, 5, 2.0, now.Add(-72*time.Hour), &expiredAt)
		exhausted := drawTestBatch(t, componentID, 5, 2.0, now.Add(-48*time.Hour), nil)
		exhausted.AmountConsumed = exhausted.ProducedAmount
		exhausted.Active = false
		fresh := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), nil)

		plan, err := strategy.PlanDraws(decimal.NewFromInt(4), []ComponentProduction{expired, exhausted, fresh}, now)

		require.NoError(t, err)
		require.Len(t, plan.Draws, 1)
		assert.Equal(t, fresh.ID, plan.Draws[0].BatchID)
	})

	t.Run("rejects non-positive request", func(t *testing.T) {
		_, err := strategy.PlanDraws(decimal.Zero, nil, now)

		require.Error(t, err)
	})
}

func TestFEFOBatchDrawStrategy(t *testing.T) {
	now := time.Now()
	componentID := uuid.New()
	strategy := NewFEFOBatchDrawStrategy()

	t.Run("draws soonest expiring batch first", func(t *testing.T) {
		soonExpiry := now.Add(24 * time.Hour)
		lateExpiry := now.Add(96 * time.Hour)
		// produced earlier but expires later
		early := drawTestBatch(t, componentID, 5, 2.0, now.Add(-72*time.Hour), &lateExpiry)
		soon := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), &soonExpiry)

		plan, err := strategy.PlanDraws(decimal.NewFromInt(3), []ComponentProduction{early, soon}, now)

		require.NoError(t, err)
		require.Len(t, plan.Draws, 1)
		assert.Equal(t, soon.ID, plan.Draws[0].BatchID)
	})

	t.Run("batches without expiry go last", func(t *testing.T) {
		expiry := now.Add(24 * time.Hour)
		noExpiry := drawTestBatch(t, componentID, 5, 2.0, now.Add(-72*time.Hour), nil)
		expiring := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), &expiry)

		plan, err := strategy.PlanDraws(decimal.NewFromInt(8), []ComponentProduction{noExpiry, expiring}, now)

		require.NoError(t, err)
		require.Len(t, plan.Draws, 2)
		assert.Equal(t, expiring.ID, plan.Draws[0].BatchID)
		assert.Equal(t, noExpiry.ID, plan.Draws[1].BatchID)
	})
}

func TestApplyBatchDraws(t *testing.T) {
	now := time.Now()
	componentID := uuid.New()

	t.Run("executes the plan on aggregates", func(t *testing.T) {
		a := drawTestBatch(t, componentID, 5, 2.0, now.Add(-48*time.Hour), nil)
		b := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), nil)
		strategy := NewFIFOBatchDrawStrategy()
		plan, err := strategy.PlanDraws(decimal.NewFromInt(7), []ComponentProduction{a, b}, now)
		require.NoError(t, err)

		err = ApplyBatchDraws([]*ComponentProduction{&a, &b}, plan)

		require.NoError(t, err)
		assert.True(t, a.IsExhausted())
		assert.Equal(t, "2", b.AmountConsumed.String())
	})

	t.Run("fails on unknown batch", func(t *testing.T) {
		a := drawTestBatch(t, componentID, 5, 2.0, now, nil)
		plan := &BatchDrawPlan{Draws: []BatchDraw{{BatchID: uuid.New(), Amount: decimal.NewFromInt(1)}}}

		err := ApplyBatchDraws([]*ComponentProduction{&a}, plan)

		require.Error(t, err)
	})
}

func TestAvailableQuantity(t *testing.T) {
	now := time.Now()
	componentID := uuid.New()

	expiredAt := now.Add(-time.Hour)
	expired := drawTestBatch(t, componentID, 10, 2.0, now.Add(-72*time.Hour), &expiredAt)
	partial := drawTestBatch(t, componentID, 10, 2.0, now.Add(-48*time.Hour), nil)
	partial.AmountConsumed = decimal.NewFromInt(4)
	full := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), nil)

	total := AvailableQuantity([]ComponentProduction{expired, partial, full}, now)

	assert.Equal(t, "11", total.String()) // 6 + 5, expired excluded
}

func TestBatchesByExpiryWindow(t *testing.T) {
	now := time.Now()
	componentID := uuid.New()

	in2d := now.Add(48 * time.Hour)
	in10d := now.Add(240 * time.Hour)
	soon := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), &in2d)
	late := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), &in10d)
	never := drawTestBatch(t, componentID, 5, 2.0, now.Add(-24*time.Hour), nil)

	expiring := BatchesByExpiryWindow([]ComponentProduction{soon, late, never}, 72*time.Hour, now)

	require.Len(t, expiring, 1)
	assert.Equal(t, soon.ID, expiring[0].ID)
}
