package bom

import (
	"testing"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComponent(t *testing.T) {
	businessID := uuid.New()

	t.Run("creates component successfully", func(t *testing.T) {
		component, err := NewComponent(businessID, "Bread", "unit", decimal.NewFromInt(1), 45)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, component.ID)
		assert.Equal(t, businessID, component.BusinessID)
		assert.Equal(t, "Bread", component.Name)
		assert.Equal(t, decimal.NewFromInt(1), component.YieldAmount)
		assert.Equal(t, 45, component.PrepTimeMinutes)
		assert.True(t, component.Active)
	})

	t.Run("fails with non-positive yield", func(t *testing.T) {
		component, err := NewComponent(businessID, "Bread", "unit", decimal.Zero, 0)

		require.Error(t, err)
		assert.Nil(t, component)
		assert.Contains(t, err.Error(), "Yield amount")
	})

	t.Run("fails with negative prep time", func(t *testing.T) {
		component, err := NewComponent(businessID, "Bread", "unit", decimal.NewFromInt(1), -5)

		require.Error(t, err)
		assert.Nil(t, component)
	})
}

func TestNewBOMEdge(t *testing.T) {
	businessID := uuid.New()
	parentID := uuid.New()

	t.Run("creates supply edge", func(t *testing.T) {
		childID := uuid.New()
		edge, err := NewBOMEdge(businessID, parentID, ItemTypeSupply, childID, decimal.NewFromFloat(0.5), 0, false)

		require.NoError(t, err)
		assert.Equal(t, ItemTypeSupply, edge.ItemType)
		assert.Equal(t, childID, edge.ChildID)
		assert.False(t, edge.IsComponentChild())
	})

	t.Run("rejects unknown item type", func(t *testing.T) {
		edge, err := NewBOMEdge(businessID, parentID, ItemType("PROCESS"), uuid.New(), decimal.NewFromInt(1), 0, false)

		require.Error(t, err)
		assert.Nil(t, edge)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		edge, err := NewBOMEdge(businessID, parentID, ItemTypeSupply, uuid.New(), decimal.Zero, 0, false)

		require.Error(t, err)
		assert.Nil(t, edge)
	})

	t.Run("rejects self reference immediately", func(t *testing.T) {
		edge, err := NewBOMEdge(businessID, parentID, ItemTypeComponent, parentID, decimal.NewFromInt(1), 0, false)

		require.Error(t, err)
		assert.Nil(t, edge)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeCircularReference, domainErr.Code)
	})
}
