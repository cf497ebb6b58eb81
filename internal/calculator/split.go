// Package calculator holds the pure bill-splitting math: shared totals,
// even shares in cents, and the item-sum consistency check.
package calculator

import (
	"fmt"

	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/models"
)

// ItemTolerance is the allowed relative deviation between the sum of line
// items and the bill's stated total. Beyond it the split is rejected before
// anything is written.
const ItemTolerance = 0.10

// SharedTotal returns the amount to split evenly: the sum of non-personal
// item prices, or the stated total when no itemization was supplied.
func SharedTotal(items []models.Item, statedTotal int64) int64 {
	if len(items) == 0 {
		return statedTotal
	}
	var total int64
	for _, item := range items {
		if !item.Personal {
			total += item.Price
		}
	}
	return total
}

// CheckItemTotal verifies the caller-supplied items roughly add up to the
// stated total. A deviation beyond ItemTolerance signals a bad upstream
// extraction (OCR noise, stale edit) rather than a ledger problem.
func CheckItemTotal(items []models.Item, statedTotal int64) error {
	if len(items) == 0 || statedTotal <= 0 {
		return nil
	}
	var sum int64
	for _, item := range items {
		sum += item.Price
	}
	diff := sum - statedTotal
	if diff < 0 {
		diff = -diff
	}
	if float64(diff) > ItemTolerance*float64(statedTotal) {
		return fmt.Errorf("%w: items sum to %d, stated total is %d", ledger.ErrInconsistentSplit, sum, statedTotal)
	}
	return nil
}

// EvenShares splits total cents into n shares that sum exactly to total.
// The remainder is distributed one cent at a time to the first shares, so
// shares differ by at most one cent.
func EvenShares(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := total / int64(n)
	remainder := total % int64(n)
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// Shares computes each participant's share of a bill's shared total.
// The owner is a participant like everyone else (their share is simply never
// turned into a debt edge), so the divisor is the full participant count.
func Shares(sharedTotal int64, participantIDs []string) map[string]int64 {
	if len(participantIDs) == 0 || sharedTotal <= 0 {
		return nil
	}
	per := EvenShares(sharedTotal, len(participantIDs))
	shares := make(map[string]int64, len(participantIDs))
	for i, id := range participantIDs {
		shares[id] = per[i]
	}
	return shares
}
