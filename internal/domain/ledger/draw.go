package ledger

import (
	"sort"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryDraw attributes part of a consumption to one addition entry. Used for
// the informational source-entry back-reference on consumption entries; stock
// itself is always the signed sum, never derived from draws.
type EntryDraw struct {
	AdditionID uuid.UUID
	Amount     decimal.Decimal
	UnitCost   decimal.Decimal
}

// PlanEntryDraws attributes a consumption of the given magnitude to addition
// entries in FIFO order by entry date. Earlier consumptions in the history are
// treated as having drained the oldest additions first, so the plan starts
// where the previous consumption left off. A request beyond the available
// stock yields a plan covering what exists; the caller decides whether that
// is an error under its negative-stock policy.
func PlanEntryDraws(entries []SupplyEntry, amount decimal.Decimal) ([]EntryDraw, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Draw amount must be positive")
	}

	additions := make([]SupplyEntry, 0, len(entries))
	consumed := decimal.Zero
	for i := range entries {
		if !entries[i].Active {
			continue
		}
		if entries[i].IsAddition() {
			additions = append(additions, entries[i])
		} else {
			consumed = consumed.Add(entries[i].Magnitude())
		}
	}
	sort.SliceStable(additions, func(i, j int) bool {
		if !additions[i].EntryDate.Equal(additions[j].EntryDate) {
			return additions[i].EntryDate.Before(additions[j].EntryDate)
		}
		return additions[i].CreatedAt.Before(additions[j].CreatedAt)
	})

	draws := make([]EntryDraw, 0)
	remaining := amount
	for i := range additions {
		if remaining.IsZero() {
			break
		}
		addition := &additions[i]

		// Skip the part of this addition already drained by prior consumptions
		left := addition.Amount
		if consumed.GreaterThan(decimal.Zero) {
			drained := decimal.Min(consumed, left)
			left = left.Sub(drained)
			consumed = consumed.Sub(drained)
		}
		if left.LessThanOrEqual(decimal.Zero) {
			continue
		}

		draw := decimal.Min(remaining, left)
		draws = append(draws, EntryDraw{
			AdditionID: addition.ID,
			Amount:     draw,
			UnitCost:   addition.UnitCost,
		})
		remaining = remaining.Sub(draw)
	}
	return draws, nil
}
